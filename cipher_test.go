package primechain

import (
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/require"

	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/internal/common"
)

func testKeyPair(t *testing.T, seed string, bits int) (*KeyPair, *big.Int) {
	chain := generateChain(t, seed, 6, bits)
	kp, err := GenerateKeysFromPrimeChain(chain, AlternatingPartition{})
	require.NoError(t, err)
	prime, err := kp.DecryptionPrime()
	require.NoError(t, err)
	require.True(t, chain.Contains(prime))
	return kp, prime
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	kp, prime := testKeyPair(t, "roundtrip", 128)
	rnd := common.NewSeededCPRNG([]byte("messages"))

	messages := []*big.Int{big.NewInt(0), big.NewInt(1), new(big.Int).Sub(prime, big.NewInt(1))}
	for i := 0; i < 200; i++ {
		m, err := big.RandInt(rnd, prime)
		require.NoError(t, err)
		messages = append(messages, m)
	}

	for _, m := range messages {
		c, err := EncryptMessage(m, kp.PublicKey, prime)
		require.NoError(t, err)
		require.True(t, c.Sign() >= 0 && c.Cmp(prime) < 0)

		d, err := DecryptMessage(c, kp.PublicKey, prime)
		require.NoError(t, err)
		require.Zero(t, m.Cmp(d))
	}
}

func TestEncryptIsMultiplicative(t *testing.T) {
	prime := big.NewInt(101)
	c, err := EncryptMessage(big.NewInt(7), big.NewInt(3*5), prime)
	require.NoError(t, err)
	require.Equal(t, int64(105%101), c.Int64())
}

func TestDecryptNonInvertibleKey(t *testing.T) {
	prime := big.NewInt(101)
	_, err := DecryptMessage(big.NewInt(5), big.NewInt(3*101), prime)
	require.True(t, errors.Is(err, ErrNonInvertibleKey))
}

func TestCipherInvalidOperands(t *testing.T) {
	_, err := EncryptMessage(nil, big.NewInt(3), big.NewInt(7))
	require.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = EncryptMessage(big.NewInt(2), big.NewInt(3), big.NewInt(0))
	require.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = DecryptMessage(big.NewInt(2), nil, big.NewInt(7))
	require.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = DecryptMessage(big.NewInt(2), big.NewInt(3), big.NewInt(1))
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestEncryptStringRoundTrip(t *testing.T) {
	kp, prime := testKeyPair(t, "strings", 256)
	for _, s := range []string{"", "hello", "transfer 100 JTK to 0xabc", "prime chain ✓ 素数"} {
		c, err := EncryptString(s, kp.PublicKey, prime)
		require.NoError(t, err)
		d, err := DecryptString(c, kp.PublicKey, prime)
		require.NoError(t, err)
		require.Equal(t, s, d)
	}
}

func TestEncryptStringTooLarge(t *testing.T) {
	kp, prime := testKeyPair(t, "toolarge", 64)
	_, err := EncryptString("this message is longer than eight bytes", kp.PublicKey, prime)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestDecryptWithWrongPrime(t *testing.T) {
	kp, prime := testKeyPair(t, "wrongprime", 128)
	m := big.NewInt(123456789)
	c, err := EncryptMessage(m, kp.PublicKey, prime)
	require.NoError(t, err)

	other := kp.PrivateKey[len(kp.PrivateKey)-1]
	require.NotZero(t, other.Cmp(prime))
	d, err := DecryptMessage(c, kp.PublicKey, other)
	require.NoError(t, err)
	require.NotZero(t, m.Cmp(d))
}
