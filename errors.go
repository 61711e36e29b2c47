package primechain

import (
	"github.com/go-errors/errors"

	"github.com/jholdings/primechain/primality"
)

var (
	// ErrInvalidArgument signals a caller contract violation.
	ErrInvalidArgument = primality.ErrInvalidArgument
	// ErrPrimeSearchTimeout is returned when growing the chain exhausts the oracle's budget.
	ErrPrimeSearchTimeout = primality.ErrPrimeSearchTimeout
	// ErrNonInvertibleKey is returned by decryption when gcd(publicKey, prime) != 1.
	ErrNonInvertibleKey = errors.New("public key is not invertible modulo prime")
	// ErrDegenerateKeyPair is returned when a partition leaves the public or private side empty.
	ErrDegenerateKeyPair = errors.New("degenerate key pair")
)
