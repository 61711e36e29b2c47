package primality

import "github.com/go-errors/errors"

var (
	// ErrInvalidArgument signals a caller contract violation, such as a bit length below 2.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPrimeSearchTimeout is returned when a prime search exhausts its Budget.
	ErrPrimeSearchTimeout = errors.New("prime search budget exhausted")
)
