package common

import (
	"testing"

	"github.com/jholdings/primechain/big"
	"github.com/stretchr/testify/require"
)

func TestModInverse(t *testing.T) {
	p := big.NewInt(101)
	for a := int64(1); a < 101; a++ {
		ia, ok := ModInverse(big.NewInt(a), p)
		require.True(t, ok)
		prod := new(big.Int).Mul(ia, big.NewInt(a))
		require.Equal(t, int64(1), prod.Mod(prod, p).Int64())
		require.True(t, ia.Sign() >= 0 && ia.Cmp(p) < 0)
	}
}

func TestModInverseLargerThanModulus(t *testing.T) {
	// 3 * 7 * 11 mod 13
	ia, ok := ModInverse(big.NewInt(231), big.NewInt(13))
	require.True(t, ok)
	prod := new(big.Int).Mul(ia, big.NewInt(231))
	require.Equal(t, int64(1), prod.Mod(prod, big.NewInt(13)).Int64())
}

func TestModInverseNotCoprime(t *testing.T) {
	_, ok := ModInverse(big.NewInt(26), big.NewInt(13))
	require.False(t, ok)
	_, ok = ModInverse(big.NewInt(0), big.NewInt(13))
	require.False(t, ok)
	_, ok = ModInverse(big.NewInt(5), big.NewInt(0))
	require.False(t, ok)
}
