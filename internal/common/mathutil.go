// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import (
	"github.com/jholdings/primechain/big"
)

var bigONE = big.NewInt(1)

// ModInverse returns ia, the inverse of a modulo n, reduced into [0, n).
// ok is false when a and n aren't coprime, in which case no inverse exists.
// Adapted from Go's RSA implementation.
func ModInverse(a, n *big.Int) (ia *big.Int, ok bool) {
	if n.Sign() <= 0 {
		return
	}
	g := new(big.Int)
	x := new(big.Int)
	g.GCD(x, nil, new(big.Int).Mod(a, n), n)
	if g.Cmp(bigONE) != 0 {
		return
	}
	return x.Mod(x, n), true
}
