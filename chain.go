package primechain

import (
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/primality"
)

// IncrementBits bounds the random step between consecutive chain primes.
const IncrementBits = 64

var (
	one          = big.NewInt(1)
	maxIncrement = new(big.Int).Sub(new(big.Int).Lsh(one, IncrementBits), one) // 2^64 - 1
)

// PrimeChain is an ordered, strictly increasing sequence of probable primes.
type PrimeChain []*big.Int

// Generator grows prime chains. All randomness comes from the oracle's source.
type Generator struct {
	oracle   *primality.Oracle
	rand     io.Reader
	Follower ProgressFollower
}

// NewGenerator returns a Generator testing candidates with oracle, which also supplies the
// random source. A nil oracle means primality.New(nil), i.e. crypto/rand.
func NewGenerator(oracle *primality.Oracle) *Generator {
	if oracle == nil {
		oracle = primality.New(nil)
	}
	return &Generator{
		oracle:   oracle,
		rand:     oracle.Rand(),
		Follower: &EmptyFollower{},
	}
}

// Generate returns a chain of chainLength probable primes. The first is a random prime of
// exactly bitLength bits; every next one is found by adding random positive increments of at
// most IncrementBits bits to a running value until that value is prime.
//
// The running value keeps every increment, also those of rejected candidates, so consecutive
// primes are correlated (each a few random steps above its predecessor) instead of being
// independent draws. This is how the scheme derives its chains and is kept as is.
//
// Each prime search is bounded by the oracle's Budget.
func (g *Generator) Generate(chainLength, bitLength int) (PrimeChain, error) {
	if chainLength <= 0 {
		return nil, errors.WrapPrefix(ErrInvalidArgument,
			fmt.Sprintf("chain length must be positive, got %d", chainLength), 0)
	}
	follower := g.Follower
	if follower == nil {
		follower = &EmptyFollower{}
	}

	current, err := g.oracle.GenerateLargePrime(bitLength)
	if err != nil {
		return nil, err
	}

	follower.StepStart("prime chain", chainLength)
	defer follower.StepDone()

	chain := make(PrimeChain, 0, chainLength)
	chain = append(chain, current)
	follower.Tick()

	seq := primality.SequenceFunc(func() (*big.Int, error) {
		inc, err := big.RandInt(g.rand, maxIncrement)
		if err != nil {
			return nil, err
		}
		current = new(big.Int).Add(current, inc.Add(inc, one))
		return current, nil
	})

	for len(chain) < chainLength {
		p, err := g.oracle.Search(seq, primality.DefaultRounds)
		if err != nil {
			return nil, errors.WrapPrefix(err, fmt.Sprintf("prime %d of chain", len(chain)+1), 0)
		}
		chain = append(chain, p)
		follower.Tick()
	}

	Logger.WithFields(logrus.Fields{
		"length": chainLength,
		"bits":   bitLength,
	}).Debug("generated prime chain")
	return chain, nil
}

// Contains reports whether p is an element of the chain.
func (c PrimeChain) Contains(p *big.Int) bool {
	if p == nil {
		return false
	}
	for _, q := range c {
		if q.Cmp(p) == 0 {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the chain.
func (c PrimeChain) Copy() PrimeChain {
	return PrimeChain(big.CloneAll(c))
}

// Verify checks that the chain is non-empty, strictly increasing and that each element passes
// the oracle with the given number of rounds.
func (c PrimeChain) Verify(oracle *primality.Oracle, rounds int) error {
	if len(c) == 0 {
		return errors.WrapPrefix(ErrInvalidArgument, "empty prime chain", 0)
	}
	for i, p := range c {
		if p == nil {
			return errors.WrapPrefix(ErrInvalidArgument, fmt.Sprintf("chain element %d is nil", i), 0)
		}
		if i > 0 && p.Cmp(c[i-1]) <= 0 {
			return errors.WrapPrefix(ErrInvalidArgument, fmt.Sprintf("chain element %d is not increasing", i), 0)
		}
		if !oracle.IsProbablyPrime(p, rounds) {
			return errors.WrapPrefix(ErrInvalidArgument, fmt.Sprintf("chain element %d is not prime", i), 0)
		}
	}
	return nil
}
