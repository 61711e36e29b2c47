// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import (
	"github.com/jholdings/primechain/big"
)

// SmallPrimes is a list of small prime numbers that allows us to rapidly
// exclude some fraction of composite candidates when searching for a
// prime. This list is truncated at the point where SmallPrimesProduct exceeds
// a uint64. It does not include two; even candidates are rejected separately.
var SmallPrimes = []uint8{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53,
}

// SmallPrimesProduct is the product of the values in SmallPrimes and allows us
// to reduce a candidate prime by this number and then determine whether it's
// coprime with all the elements of SmallPrimes without further big.Int
// operations.
var SmallPrimesProduct = new(big.Int).SetUint64(16294579238595022365)

// HasSmallFactor reports whether the odd number p is divisible by one of SmallPrimes
// other than p itself. It is much cheaper than a probabilistic primality test.
func HasSmallFactor(p *big.Int) bool {
	mod := new(big.Int).Mod(p, SmallPrimesProduct).Uint64()
	small := p.IsUint64() && p.Uint64() <= 53
	for _, prime := range SmallPrimes {
		if mod%uint64(prime) == 0 && !(small && p.Uint64() == uint64(prime)) {
			return true
		}
	}
	return false
}
