package prims

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
)

// KeyMaterial is an immutable secret key tagged with the name of the algorithm it is intended for.
//
// The bytes are copied on construction and on every read, so a KeyMaterial can be handed to any
// number of primitives without them sharing mutable state.
type KeyMaterial struct {
	b         []byte
	algorithm string
}

// NewKeyMaterial returns a KeyMaterial holding a copy of b.
func NewKeyMaterial(b []byte, algorithm string) KeyMaterial {
	return KeyMaterial{b: Copy(b), algorithm: algorithm}
}

// GenerateKey reads bits/8 bytes from rand and returns them as KeyMaterial for the given
// algorithm. bits must be a positive multiple of 8.
func GenerateKey(rand io.Reader, bits int, algorithm string) (KeyMaterial, error) {
	if bits <= 0 || bits%8 != 0 {
		return KeyMaterial{}, fmt.Errorf("%w: key size must be a positive multiple of 8, got %d",
			ErrOutOfRange, bits)
	}

	b := make([]byte, bits/8)
	if _, err := io.ReadFull(randOrDefault(rand), b); err != nil {
		return KeyMaterial{}, err
	}

	return KeyMaterial{b: b, algorithm: algorithm}, nil
}

// Bytes returns a copy of the key bytes.
func (k KeyMaterial) Bytes() []byte {
	return Copy(k.b)
}

// Len returns the length of the key in bytes.
func (k KeyMaterial) Len() int {
	return len(k.b)
}

// Algorithm returns the algorithm name the key was created for.
func (k KeyMaterial) Algorithm() string {
	return k.algorithm
}

// Fingerprint returns a short base58 identifier for the key which is safe to log.
func (k KeyMaterial) Fingerprint() string {
	h := sha256.New()
	_, _ = h.Write([]byte(k.algorithm))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(k.b)

	return base58.Encode(h.Sum(nil)[:8])
}

// String returns the algorithm name and fingerprint of the key, never the key itself.
func (k KeyMaterial) String() string {
	alg := k.algorithm
	if alg == "" {
		alg = "key"
	}

	return fmt.Sprintf("%s:%s", alg, k.Fingerprint())
}

var _ fmt.Stringer = KeyMaterial{}

// KeyParams carries the parameters of a parameterized key generation request.
type KeyParams interface {
	// KeySize returns the requested key size in bits.
	KeySize() int
}

// Copy returns a copy of the given slice.
func Copy(b []byte) []byte {
	c := make([]byte, len(b))

	copy(c, b)

	return c
}

func randOrDefault(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}

	return r
}
