package common

import (
	"testing"

	"github.com/jholdings/primechain/big"
	"github.com/stretchr/testify/require"
)

func TestSmallPrimesProduct(t *testing.T) {
	prod := big.NewInt(1)
	for _, p := range SmallPrimes {
		prod.Mul(prod, big.NewInt(int64(p)))
	}
	require.Zero(t, prod.Cmp(SmallPrimesProduct))
}

func TestHasSmallFactor(t *testing.T) {
	for _, p := range SmallPrimes {
		require.False(t, HasSmallFactor(big.NewInt(int64(p))), "%d is itself prime", p)
	}
	require.True(t, HasSmallFactor(big.NewInt(9)))
	require.True(t, HasSmallFactor(big.NewInt(53*59)))
	require.False(t, HasSmallFactor(big.NewInt(59*61)))
	require.False(t, HasSmallFactor(big.NewInt(1)))

	// 2^127 - 1 is prime
	m127, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	require.False(t, HasSmallFactor(m127))
	require.True(t, HasSmallFactor(new(big.Int).Mul(m127, big.NewInt(47))))
}
