// Package primality is the primality oracle of the prime chain scheme: probabilistic primality
// testing and large prime generation over arbitrary precision integers.
//
// The random source is injected: an Oracle constructed over a seeded common.CPRNG produces the
// same primes and the same verdicts every run, while crypto/rand is used in production.
package primality

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/go-errors/errors"

	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/internal/common"
)

// DefaultRounds is the number of Miller-Rabin rounds used when none is specified.
const DefaultRounds = 10

// Below this bound an odd number without a factor in common.SmallPrimes is prime.
var smallPrimeBound = big.NewInt(53 * 53)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

type (
	// Oracle tests and generates primes, drawing all of its randomness from a single source.
	Oracle struct {
		rand   io.Reader
		budget Budget
	}

	// Budget bounds a prime search. The zero Budget never gives up.
	Budget struct {
		// MaxCandidates is the maximum number of candidates tested; 0 means unlimited.
		MaxCandidates uint64
		// Timeout is the maximum wall-clock duration of one search; 0 means unlimited.
		Timeout time.Duration
	}

	// Sequence lazily produces prime candidates for Search.
	Sequence interface {
		Next() (*big.Int, error)
	}

	// SequenceFunc adapts a function to a Sequence.
	SequenceFunc func() (*big.Int, error)
)

func (f SequenceFunc) Next() (*big.Int, error) { return f() }

// New returns an Oracle reading randomness from rnd, or from crypto/rand if rnd is nil.
func New(rnd io.Reader) *Oracle {
	if rnd == nil {
		rnd = rand.Reader
	}
	return &Oracle{rand: rnd}
}

// WithBudget returns a copy of the oracle whose searches are bounded by b.
func (o *Oracle) WithBudget(b Budget) *Oracle {
	return &Oracle{rand: o.rand, budget: b}
}

// Rand returns the random source of the oracle.
func (o *Oracle) Rand() io.Reader { return o.rand }

// Budget returns the budget applied to searches of the oracle.
func (o *Oracle) Budget() Budget { return o.budget }

// IsProbablyPrime reports whether n is probably prime, using the given number of Miller-Rabin
// rounds with random bases (DefaultRounds if iterations <= 0). A composite passes all rounds
// with probability at most 4^-iterations. Candidates passing the rounds are also put through
// big.Int.ProbablyPrime(0), a Baillie-PSW test, which only lowers that probability further and
// makes the answer exact for n < 2^64.
//
// Values below 2, including nil, are not prime.
func (o *Oracle) IsProbablyPrime(n *big.Int, iterations int) bool {
	if n == nil || n.Cmp(two) < 0 {
		return false
	}
	if n.Cmp(two) == 0 {
		return true
	}
	if n.Bit(0) == 0 {
		return false
	}
	if common.HasSmallFactor(n) {
		return false
	}
	if n.Cmp(smallPrimeBound) < 0 {
		return true
	}
	if iterations <= 0 {
		iterations = DefaultRounds
	}

	if !o.millerRabin(n, iterations) {
		return false
	}
	return n.ProbablyPrime(0)
}

// millerRabin runs the given number of Miller-Rabin rounds on the odd number n > 5,
// drawing each base uniformly from [2, n-2].
func (o *Oracle) millerRabin(n *big.Int, rounds int) bool {
	nm1 := new(big.Int).Sub(n, one)
	s := nm1.TrailingZeroBits()
	d := new(big.Int).Rsh(nm1, s)
	baseRange := new(big.Int).Sub(n, big.NewInt(3)) // bases in [2, n-2]

	x := new(big.Int)
NextRound:
	for i := 0; i < rounds; i++ {
		a, err := big.RandInt(o.rand, baseRange)
		if err != nil {
			panic(fmt.Sprintf("big.RandInt failed: %v", err))
		}
		a.Add(a, two)

		x.Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nm1) == 0 {
			continue
		}
		for r := uint(1); r < s; r++ {
			x.Mul(x, x).Mod(x, n)
			if x.Cmp(nm1) == 0 {
				continue NextRound
			}
			if x.Cmp(one) == 0 {
				return false
			}
		}
		return false
	}
	return true
}

// Search consumes candidates from seq until one passes IsProbablyPrime with the given number
// of rounds, and returns it. If the oracle's Budget runs out first, ErrPrimeSearchTimeout is
// returned. Errors from seq are returned unchanged.
func (o *Oracle) Search(seq Sequence, rounds int) (*big.Int, error) {
	var deadline time.Time
	if o.budget.Timeout > 0 {
		deadline = time.Now().Add(o.budget.Timeout)
	}

	for i := uint64(1); ; i++ {
		if o.budget.MaxCandidates > 0 && i > o.budget.MaxCandidates {
			return nil, errors.WrapPrefix(ErrPrimeSearchTimeout,
				fmt.Sprintf("no prime among %d candidates", o.budget.MaxCandidates), 0)
		}
		// Every 16 candidates, check if we ran out of time
		if !deadline.IsZero() && i%16 == 0 && time.Now().After(deadline) {
			return nil, errors.WrapPrefix(ErrPrimeSearchTimeout,
				fmt.Sprintf("no prime found within %s", o.budget.Timeout), 0)
		}

		c, err := seq.Next()
		if err != nil {
			return nil, err
		}
		if o.IsProbablyPrime(c, rounds) {
			Logger.WithField("candidates", i).Trace("prime search succeeded")
			return c, nil
		}
	}
}

// GenerateLargePrime returns a probable prime p with exactly bitLength bits, i.e.
// 2^(bitLength-1) <= p < 2^bitLength. It draws a random number with its top bit set and walks
// upwards to the next probable prime; should the walk leave the bit length, it starts over from
// a fresh random number. A bitLength below 2 is a contract violation.
func (o *Oracle) GenerateLargePrime(bitLength int) (*big.Int, error) {
	if bitLength <= 1 {
		return nil, errors.WrapPrefix(ErrInvalidArgument,
			fmt.Sprintf("prime bit length must be at least 2, got %d", bitLength), 0)
	}

	low := new(big.Int).Lsh(one, uint(bitLength-1)) // 2^(b-1), the top bit
	high := new(big.Int).Lsh(one, uint(bitLength))  // 2^b, exclusive

	var cur *big.Int
	seq := SequenceFunc(func() (*big.Int, error) {
		if cur != nil {
			cur = new(big.Int).Add(cur, two)
		}
		if cur == nil || cur.Cmp(high) >= 0 {
			r, err := big.RandInt(o.rand, low)
			if err != nil {
				return nil, err
			}
			cur = r.Or(r, low)
			if cur.Bit(0) == 0 && cur.Cmp(two) != 0 {
				cur.Add(cur, one)
			}
		}
		return cur, nil
	})

	p, err := o.Search(seq, DefaultRounds)
	if err != nil {
		return nil, err
	}
	Logger.WithField("bits", bitLength).Debug("generated large prime")
	return p, nil
}
