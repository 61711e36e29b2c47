// Package primechain implements prime chain key derivation: a chain of large, correlated primes
// grown from one random seed prime, a partition of that chain into a public key (the product of
// the public primes) and a private key (the list of the remaining primes), and a multiplicative
// cipher modulo a chain prime.
//
// The scheme is a toy and keeps its known weaknesses: chain primes are correlated, the default
// partition is an unbiased coin flip that can leave either side empty, and the cipher is
// deterministic and malleable. Primality testing lives in package primality, the transaction
// validator in package validator and shard record identifiers in package shard.
//
// Typical use:
//
//	gen := primechain.NewGenerator(primality.New(nil))
//	chain, err := gen.Generate(10, 2048)
//	kp, err := primechain.GenerateKeysFromPrimeChain(chain, nil)
//	prime, err := kp.DecryptionPrime()
//	c, err := primechain.EncryptMessage(m, kp.PublicKey, prime)
package primechain
