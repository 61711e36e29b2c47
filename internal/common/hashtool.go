package common

import (
	"crypto/sha256"
	"encoding/asn1"

	"github.com/jholdings/primechain/big"
)

// hashCounter computes the sha256 hash over the asn1 representation of the seed and a counter.
func hashCounter(seed []byte, counter int) []byte {
	r, err := asn1.Marshal(struct {
		Seed    []byte
		Counter int
	}{seed, counter})
	if err != nil {
		panic(err) // Marshal should never error, so panic if it does
	}
	sha := sha256.Sum256(r)
	return sha[:]
}

// ExtendDigest interprets digest as a big-endian integer. If it holds fewer than bitlen bits,
// further 256 bit blocks derived from the digest and a counter are appended below it until
// bitlen bits are available, in the manner of a Fiat-Shamir hash number. The result is then cut
// down to its top bitlen bits, so its bit length never exceeds bitlen.
func ExtendDigest(digest []byte, bitlen uint) *big.Int {
	res := new(big.Int).SetBytes(digest)
	have := uint(len(digest)) * 8
	for k := 0; have < bitlen; k++ {
		block := new(big.Int).SetBytes(hashCounter(digest, k))
		res.Lsh(res, 256)
		res.Add(res, block)
		have += 256
	}
	if have > bitlen {
		res.Rsh(res, have-bitlen)
	}
	return res
}
