// Package keystore persists private keys on disk, encrypted under a password.
//
// A private key is a list of primes. It is encoded as a CBOR array of byte strings, sealed with
// AES-256-GCM under a key derived from the password with PBKDF2-SHA256, and stored per user in a
// bolthold database.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"time"

	"github.com/go-errors/errors"
	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/pbkdf2"

	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/cbor"
)

const (
	DefaultIterations = 100000

	saltLength = 16
	keyLength  = 32
)

var (
	ErrNotFound        = errors.New("no key stored for user")
	ErrWrongPassword   = errors.New("wrong password or corrupted record")
	ErrInvalidArgument = errors.New("invalid argument")
)

type (
	// Store is a bolthold database of sealed private keys, indexed by user id.
	Store struct {
		bolt *bolthold.Store
	}

	// Record is a sealed private key.
	Record struct {
		Salt       []byte
		Nonce      []byte
		Ciphertext []byte
		Iterations int
		Created    int64
	}

	sealedKey struct {
		Primes [][]byte
	}
)

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	b, err := bolthold.Open(path, 0600, &bolthold.Options{
		Encoder: cbor.Marshal,
		Decoder: cbor.Unmarshal,
		Options: &bolt.Options{Timeout: 1 * time.Second},
	})
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to open keystore", 0)
	}
	return &Store{bolt: b}, nil
}

func (s *Store) Close() error {
	return s.bolt.Close()
}

// Put stores rec for userID, replacing any record already present.
func (s *Store) Put(userID string, rec *Record) error {
	if userID == "" || rec == nil {
		return errors.WrapPrefix(ErrInvalidArgument, "user id and record required", 0)
	}
	if err := s.bolt.Upsert(userID, rec); err != nil {
		return errors.WrapPrefix(err, "failed to store key", 0)
	}
	Logger.WithField("user", userID).Debug("stored sealed key")
	return nil
}

// Get returns the record of userID, or ErrNotFound.
func (s *Store) Get(userID string) (*Record, error) {
	var rec Record
	switch err := s.bolt.Get(userID, &rec); err {
	case nil:
		return &rec, nil
	case bolthold.ErrNotFound:
		return nil, errors.WrapPrefix(ErrNotFound, userID, 0)
	default:
		return nil, errors.WrapPrefix(err, "failed to load key", 0)
	}
}

// Delete removes the record of userID, or returns ErrNotFound.
func (s *Store) Delete(userID string) error {
	switch err := s.bolt.Delete(userID, Record{}); err {
	case nil:
		Logger.WithField("user", userID).Debug("deleted sealed key")
		return nil
	case bolthold.ErrNotFound:
		return errors.WrapPrefix(ErrNotFound, userID, 0)
	default:
		return errors.WrapPrefix(err, "failed to delete key", 0)
	}
}

func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts privateKey under password. Salt and nonce are read from rnd, crypto/rand if nil.
func Seal(privateKey []*big.Int, password string, rnd io.Reader) (*Record, error) {
	if password == "" {
		return nil, errors.WrapPrefix(ErrInvalidArgument, "empty password", 0)
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	plain := sealedKey{Primes: make([][]byte, len(privateKey))}
	for i, p := range privateKey {
		if p == nil || p.Sign() < 0 {
			return nil, errors.WrapPrefix(ErrInvalidArgument, "private key primes must be non-negative", 0)
		}
		plain.Primes[i] = p.Bytes()
	}
	bts, err := cbor.Marshal(plain)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to encode private key", 0)
	}

	rec := &Record{
		Salt:       make([]byte, saltLength),
		Iterations: DefaultIterations,
		Created:    time.Now().Unix(),
	}
	if _, err = io.ReadFull(rnd, rec.Salt); err != nil {
		return nil, errors.WrapPrefix(err, "failed to read salt", 0)
	}
	aead, err := newAEAD(deriveKey(password, rec.Salt, rec.Iterations))
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to initialize cipher", 0)
	}
	rec.Nonce = make([]byte, aead.NonceSize())
	if _, err = io.ReadFull(rnd, rec.Nonce); err != nil {
		return nil, errors.WrapPrefix(err, "failed to read nonce", 0)
	}
	rec.Ciphertext = aead.Seal(nil, rec.Nonce, bts, nil)
	return rec, nil
}

// Open decrypts the private key. A wrong password and a tampered record both give
// ErrWrongPassword.
func (r *Record) Open(password string) ([]*big.Int, error) {
	if r.Iterations <= 0 || len(r.Salt) == 0 {
		return nil, errors.WrapPrefix(ErrInvalidArgument, "malformed record", 0)
	}
	aead, err := newAEAD(deriveKey(password, r.Salt, r.Iterations))
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to initialize cipher", 0)
	}
	if len(r.Nonce) != aead.NonceSize() {
		return nil, errors.WrapPrefix(ErrInvalidArgument, "malformed nonce", 0)
	}
	bts, err := aead.Open(nil, r.Nonce, r.Ciphertext, nil)
	if err != nil {
		return nil, errors.WrapPrefix(ErrWrongPassword, "authentication failed", 0)
	}

	var plain sealedKey
	if err = cbor.Unmarshal(bts, &plain); err != nil {
		return nil, errors.WrapPrefix(err, "failed to decode private key", 0)
	}
	primes := make([]*big.Int, len(plain.Primes))
	for i, b := range plain.Primes {
		primes[i] = new(big.Int).SetBytes(b)
	}
	return primes, nil
}
