// Command primechain derives prime chain key pairs, encrypts and decrypts with them, validates
// transaction payloads and assigns shard primes. All output is JSON on stdout; logs go to stderr.
package main

func main() {
	Execute()
}
