package primechain

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jholdings/primechain/internal/common"
	"github.com/jholdings/primechain/primality"
)

func init() {
	Logger.SetLevel(logrus.FatalLevel)
}

func seededOracle(seed string) *primality.Oracle {
	return primality.New(common.NewSeededCPRNG([]byte(seed)))
}

func generateChain(t *testing.T, seed string, length, bits int) PrimeChain {
	chain, err := NewGenerator(seededOracle(seed)).Generate(length, bits)
	require.NoError(t, err)
	return chain
}
