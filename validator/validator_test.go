package validator

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jholdings/primechain/big"
)

func init() {
	Logger.SetLevel(logrus.FatalLevel)
}

func defaultValidator(t *testing.T) *Validator {
	v, err := New(DefaultBitWidth, DefaultRounds)
	require.NoError(t, err)
	return v
}

func TestNewInvalidArguments(t *testing.T) {
	for _, c := range []struct{ bits, rounds int }{{1, 3}, {0, 3}, {256, 0}, {256, -1}} {
		_, err := New(c.bits, c.rounds)
		require.True(t, errors.Is(err, ErrInvalidArgument), "%v", c)
	}
	_, err := New(256, 3, WithHash(0x9999))
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestHashDataRejectsEmptyPayload(t *testing.T) {
	v := defaultValidator(t)
	_, err := v.HashData(nil)
	require.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = v.HashData([]byte{})
	require.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = v.Validate(nil)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestPrimeFromHashABC(t *testing.T) {
	v := defaultValidator(t)
	digest, err := v.HashData([]byte("abc"))
	require.NoError(t, err)

	decoded, err := multihash.Decode(digest)
	require.NoError(t, err)
	require.Equal(t, uint64(multihash.SHA2_256), decoded.Code)
	sum := sha256.Sum256([]byte("abc"))
	require.Equal(t, sum[:], decoded.Digest)

	candidate, err := v.PrimeFromHash(digest)
	require.NoError(t, err)
	require.Equal(t, uint(1), candidate.Bit(0))
	require.LessOrEqual(t, candidate.BitLen(), 256)

	expected := new(big.Int).SetBytes(sum[:])
	expected.SetBit(expected, 0, 1)
	require.Zero(t, expected.Cmp(candidate))

	verdict := v.IsPrime(candidate)
	for i := 0; i < 5; i++ {
		require.Equal(t, verdict, v.IsPrime(candidate))
	}
}

func TestPrimeFromHashBitWidths(t *testing.T) {
	for _, bits := range []int{2, 16, 255, 256, 257, 1024} {
		v, err := New(bits, DefaultRounds)
		require.NoError(t, err)
		digest, err := v.HashData([]byte("abc"))
		require.NoError(t, err)
		candidate, err := v.PrimeFromHash(digest)
		require.NoError(t, err)
		require.LessOrEqual(t, candidate.BitLen(), bits)
		require.Equal(t, uint(1), candidate.Bit(0))
	}

	// sha256("abc") starts with 0xba, so the extended candidate keeps the full width
	v, err := New(1024, DefaultRounds)
	require.NoError(t, err)
	digest, err := v.HashData([]byte("abc"))
	require.NoError(t, err)
	candidate, err := v.PrimeFromHash(digest)
	require.NoError(t, err)
	require.Equal(t, 1024, candidate.BitLen())
}

func TestPrimeFromHashMalformedDigest(t *testing.T) {
	v := defaultValidator(t)
	_, err := v.PrimeFromHash(multihash.Multihash{0x12})
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestIsPrime(t *testing.T) {
	v := defaultValidator(t)

	// 2^255 - 19
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	p.Sub(p, big.NewInt(19))
	require.True(t, v.IsPrime(p))

	m := new(big.Int).Lsh(big.NewInt(1), 127)
	m.Sub(m, big.NewInt(1))
	require.False(t, v.IsPrime(new(big.Int).Mul(m, m)))
	require.False(t, v.IsPrime(nil))
}

func TestPrimeDigestIsAccepted(t *testing.T) {
	v := defaultValidator(t)
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	p.Sub(p, big.NewInt(19))
	digest, err := multihash.Encode(p.Bytes(), multihash.SHA2_256)
	require.NoError(t, err)

	candidate, err := v.PrimeFromHash(digest)
	require.NoError(t, err)
	require.Zero(t, p.Cmp(candidate))
	require.True(t, v.IsPrime(candidate))
}

func TestValidateAndCheck(t *testing.T) {
	v := defaultValidator(t)
	var accepted, rejected []byte
	for i := 0; i < 5000 && (accepted == nil || rejected == nil); i++ {
		payload := []byte(fmt.Sprintf("transfer(0x%040x,%d)", i, i*1000))
		ok, err := v.Validate(payload)
		require.NoError(t, err)
		if ok && accepted == nil {
			accepted = payload
		} else if !ok && rejected == nil {
			rejected = payload
		}
	}
	require.NotNil(t, accepted)
	require.NotNil(t, rejected)

	require.NoError(t, v.Check(accepted))
	err := v.Check(rejected)
	require.True(t, errors.Is(err, ErrFraudSuspected))

	// verdicts are a function of the payload alone
	for i := 0; i < 3; i++ {
		ok, err := v.Validate(accepted)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = v.Validate(rejected)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestWithKeccak(t *testing.T) {
	v, err := New(DefaultBitWidth, DefaultRounds, WithHash(multihash.KECCAK_256))
	require.NoError(t, err)
	digest, err := v.HashData([]byte("abc"))
	require.NoError(t, err)
	decoded, err := multihash.Decode(digest)
	require.NoError(t, err)
	require.Equal(t, uint64(multihash.KECCAK_256), decoded.Code)
	require.Len(t, decoded.Digest, 32)

	sha := defaultValidator(t)
	shaDigest, err := sha.HashData([]byte("abc"))
	require.NoError(t, err)
	require.NotEqual(t, []byte(shaDigest), []byte(digest))
}
