package primechain

import (
	"github.com/go-errors/errors"

	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/internal/common"
)

// The cipher is c = m * publicKey mod prime. It has no padding and no randomness: equal
// messages give equal ciphertexts and ciphertexts can be scaled at will. prime must come from
// the chain publicKey was derived from; this is not checked, and a mismatched pair makes the
// ciphertext undecryptable.

func checkOperands(x, publicKey, prime *big.Int) error {
	if x == nil || publicKey == nil || prime == nil {
		return errors.WrapPrefix(ErrInvalidArgument, "nil cipher operand", 0)
	}
	if prime.Cmp(one) <= 0 {
		return errors.WrapPrefix(ErrInvalidArgument, "cipher modulus must exceed 1", 0)
	}
	return nil
}

// EncryptMessage returns (message * publicKey) mod prime.
func EncryptMessage(message, publicKey, prime *big.Int) (*big.Int, error) {
	if err := checkOperands(message, publicKey, prime); err != nil {
		return nil, err
	}
	c := new(big.Int).Mul(message, publicKey)
	return c.Mod(c, prime), nil
}

// DecryptMessage returns (ciphertext * publicKey^-1) mod prime, or ErrNonInvertibleKey if
// publicKey has no inverse modulo prime.
func DecryptMessage(ciphertext, publicKey, prime *big.Int) (*big.Int, error) {
	if err := checkOperands(ciphertext, publicKey, prime); err != nil {
		return nil, err
	}
	inv, ok := common.ModInverse(publicKey, prime)
	if !ok {
		return nil, errors.WrapPrefix(ErrNonInvertibleKey, "gcd(publicKey, prime) != 1", 0)
	}
	m := new(big.Int).Mul(ciphertext, inv)
	return m.Mod(m, prime), nil
}

// EncryptString encodes message with MessageToInt and encrypts it. The encoded message must be
// smaller than prime, as larger messages do not survive the reduction.
func EncryptString(message string, publicKey, prime *big.Int) (*big.Int, error) {
	m, err := MessageToInt(message)
	if err != nil {
		return nil, err
	}
	if prime != nil && m.Cmp(prime) >= 0 {
		return nil, errors.WrapPrefix(ErrInvalidArgument, "message does not fit below the prime", 0)
	}
	return EncryptMessage(m, publicKey, prime)
}

// DecryptString decrypts ciphertext and decodes the result with IntToMessage.
func DecryptString(ciphertext, publicKey, prime *big.Int) (string, error) {
	m, err := DecryptMessage(ciphertext, publicKey, prime)
	if err != nil {
		return "", err
	}
	return IntToMessage(m)
}
