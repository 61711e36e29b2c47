package primechain

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/internal/common"
)

type (
	// KeyPair is derived from a prime chain. PublicKey is the product of PublicFactors; PrivateKey
	// holds the complementary primes as a list, which must stay a list when persisted. Together
	// PublicFactors and PrivateKey are the chain, and they are disjoint.
	KeyPair struct {
		PublicKey     *big.Int   `json:"publicKey"`
		PrivateKey    []*big.Int `json:"privateKey"`
		PublicFactors []*big.Int `json:"-"`
	}

	// PartitionStrategy splits a prime chain into public and private primes. Every chain element
	// must end up in exactly one of the two.
	PartitionStrategy interface {
		Partition(chain PrimeChain) (public, private []*big.Int, err error)
	}

	// CoinFlipPartition puts each prime on the private side with probability 1/2, independently,
	// using one random bit per prime. Either side may end up empty.
	CoinFlipPartition struct {
		// Rand supplies the coin flips; crypto/rand if nil.
		Rand io.Reader
	}

	// AlternatingPartition deterministically puts even positions on the public side and odd
	// positions on the private side. For chains of length two or more neither side is empty.
	AlternatingPartition struct{}
)

func (p CoinFlipPartition) Partition(chain PrimeChain) (public, private []*big.Int, err error) {
	rnd := p.Rand
	if rnd == nil {
		rnd = rand.Reader
	}
	coins := make([]byte, (len(chain)+7)/8)
	if _, err = io.ReadFull(rnd, coins); err != nil {
		return nil, nil, errors.WrapPrefix(err, "failed to flip partition coins", 0)
	}
	for i, prime := range chain {
		if coins[i/8]&(1<<uint(i%8)) != 0 {
			private = append(private, prime)
		} else {
			public = append(public, prime)
		}
	}
	return
}

func (AlternatingPartition) Partition(chain PrimeChain) (public, private []*big.Int, err error) {
	for i, prime := range chain {
		if i%2 == 0 {
			public = append(public, prime)
		} else {
			private = append(private, prime)
		}
	}
	return
}

// GenerateKeysFromPrimeChain partitions chain with strategy (a CoinFlipPartition over crypto/rand
// if nil) and computes the public key as the product of the public primes, 1 if there are none.
//
// When one side of the partition is empty the key pair is useless: a public key of 1, or no
// private primes to decrypt with. The key pair is then still returned, but together with
// ErrDegenerateKeyPair; it is not silently regenerated.
func GenerateKeysFromPrimeChain(chain PrimeChain, strategy PartitionStrategy) (*KeyPair, error) {
	if len(chain) == 0 {
		return nil, errors.WrapPrefix(ErrInvalidArgument, "cannot derive keys from an empty prime chain", 0)
	}
	if strategy == nil {
		strategy = CoinFlipPartition{}
	}

	public, private, err := strategy.Partition(chain)
	if err != nil {
		return nil, err
	}
	if len(public)+len(private) != len(chain) {
		return nil, errors.WrapPrefix(ErrInvalidArgument,
			fmt.Sprintf("partition of %d primes returned %d public and %d private primes",
				len(chain), len(public), len(private)), 0)
	}

	pk := big.NewInt(1)
	for _, p := range public {
		pk.Mul(pk, p)
	}
	kp := &KeyPair{
		PublicKey:     pk,
		PrivateKey:    big.CloneAll(private),
		PublicFactors: big.CloneAll(public),
	}

	if kp.Degenerate() {
		Logger.WithFields(logrus.Fields{
			"public":  len(public),
			"private": len(private),
		}).Warn("prime chain partition left one side empty")
		return kp, errors.WrapPrefix(ErrDegenerateKeyPair,
			fmt.Sprintf("%d public and %d private primes", len(public), len(private)), 0)
	}
	return kp, nil
}

// Degenerate reports whether the public or the private side of the key pair is empty.
func (kp *KeyPair) Degenerate() bool {
	return len(kp.PrivateKey) == 0 || kp.PublicKey == nil || kp.PublicKey.Cmp(one) <= 0
}

// DecryptionPrime returns the first private prime coprime to the public key, to be used as
// the modulus of EncryptMessage and DecryptMessage.
func (kp *KeyPair) DecryptionPrime() (*big.Int, error) {
	for _, p := range kp.PrivateKey {
		if _, ok := common.ModInverse(kp.PublicKey, p); ok {
			return p, nil
		}
	}
	return nil, errors.WrapPrefix(ErrDegenerateKeyPair, "no private prime is coprime to the public key", 0)
}
