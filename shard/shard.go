// Package shard numbers data shards with primes and identifies records by the product of the
// primes of the shards they belong to. Since shard primes are pairwise distinct, a record id
// determines its set of shards by unique factorization.
package shard

import (
	"math"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/primality"
)

// Assigner hands out shard primes.
type Assigner struct {
	oracle *primality.Oracle
}

// NewAssigner returns an Assigner testing candidates with oracle (primality.New(nil) if nil),
// each search bounded by budget.
func NewAssigner(oracle *primality.Oracle, budget primality.Budget) *Assigner {
	if oracle == nil {
		oracle = primality.New(nil)
	}
	return &Assigner{oracle: oracle.WithBudget(budget)}
}

// AssignPrimeToShard returns the prime for a new shard: 2 if there are no shards yet, otherwise
// the smallest prime above the last assigned one, found by scanning odd numbers upwards.
func (a *Assigner) AssignPrimeToShard(existing []uint64) (uint64, error) {
	if len(existing) == 0 {
		return 2, nil
	}

	last := existing[len(existing)-1]
	next := last + 1
	if next%2 == 0 {
		next++
	}
	candidate := new(big.Int)
	seq := primality.SequenceFunc(func() (*big.Int, error) {
		if next < last {
			return nil, errors.WrapPrefix(primality.ErrPrimeSearchTimeout, "shard primes exhausted uint64", 0)
		}
		candidate.SetUint64(next)
		last = next
		if next > math.MaxUint64-2 {
			next = 0 // wraps, caught on the next call
		} else {
			next += 2
		}
		return candidate, nil
	})

	p, err := a.oracle.Search(seq, primality.DefaultRounds)
	if err != nil {
		return 0, err
	}
	Logger.WithFields(logrus.Fields{
		"shard": len(existing),
		"prime": p.Uint64(),
	}).Debug("assigned shard prime")
	return p.Uint64(), nil
}

// GenerateRecordID returns the product of shardPrimes[i] over the distinct in-range indices i.
// Out-of-range indices are ignored and a record in no shard gets id 1.
func GenerateRecordID(shardPrimes []uint64, shardIndices []int) *big.Int {
	id := big.NewInt(1)
	seen := make(map[int]bool, len(shardIndices))
	for _, i := range shardIndices {
		if i < 0 || i >= len(shardPrimes) || seen[i] {
			continue
		}
		seen[i] = true
		id.Mul(id, new(big.Int).SetUint64(shardPrimes[i]))
	}
	return id
}
