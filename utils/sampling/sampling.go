// Package sampling implements a deterministic, cryptographically keyed source
// of pseudo-random bytes.
package sampling

import (
	"crypto/rand"

	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for reading pseudo-random byte streams.
type PRNG interface {
	Read(sum []byte) (n int, err error)
	Reset()
}

// KeyedPRNG is a PRNG that deterministically expands a key into an unbounded
// byte stream using the blake2b XOF. Two KeyedPRNG instantiated with the same
// key produce the same stream.
type KeyedPRNG struct {
	key []byte
	xof blake2b.XOF
}

// NewKeyedPRNG creates a new KeyedPRNG with the provided key (at most 64
// bytes, the blake2b key limit; a longer key returns an error). A nil key is
// valid and yields the unkeyed stream.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	prng := &KeyedPRNG{key: key}
	var err error
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// NewPRNG creates a KeyedPRNG keyed with 32 bytes of entropy from crypto/rand.
func NewPRNG() (*KeyedPRNG, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return NewKeyedPRNG(key)
}

// Key returns a copy of the key used to seed the PRNG.
func (prng *KeyedPRNG) Key() []byte {
	key := make([]byte, len(prng.key))
	copy(key, prng.key)
	return key
}

// Read reads bytes from the KeyedPRNG on sum.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	return prng.xof.Read(sum)
}

// Reset resets the PRNG to the start of its stream.
func (prng *KeyedPRNG) Reset() {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, prng.key)
	if err != nil {
		panic(err)
	}
	prng.xof = xof
}
