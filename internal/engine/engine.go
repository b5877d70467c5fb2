// Package engine binds algorithm names to the block ciphers and hash functions which perform the raw
// cryptographic work for every primitive.
//
// Names are matched case-insensitively with hyphens, underscores, and slashes ignored, so "SHA-256",
// "sha256", and "SHA_256" all select the same hash.
package engine

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/sha1" //nolint:gosec // SHA-1 is selectable by name only
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	"github.com/codahale/prims"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Cipher describes a block cipher known to the engine.
type Cipher struct {
	Name      string // Name is the canonical algorithm name.
	BlockSize int    // BlockSize is the block size in bytes.
	KeySizes  []int  // KeySizes lists the accepted key lengths in bytes.

	newBlock func(key []byte) (cipher.Block, error)
}

// ValidKeySize returns true if n is one of the cipher's accepted key lengths.
func (c *Cipher) ValidKeySize(n int) bool {
	for _, size := range c.KeySizes {
		if n == size {
			return true
		}
	}

	return false
}

// NewBlock returns a keyed instance of the cipher.
func (c *Cipher) NewBlock(key []byte) (cipher.Block, error) {
	if !c.ValidKeySize(len(key)) {
		return nil, fmt.Errorf("%w: %s does not accept %d-byte keys", prims.ErrInvalidKey, c.Name, len(key))
	}

	return c.newBlock(key)
}

// Hash describes a hash function known to the engine.
type Hash struct {
	Name string           // Name is the canonical algorithm name.
	Size int              // Size is the digest size in bytes.
	New  func() hash.Hash // New returns a fresh instance of the hash.

	// CollisionResistant is true if the hash is assumed collision resistant.
	CollisionResistant bool
}

// LookupCipher returns the block cipher with the given name.
func LookupCipher(name string) (*Cipher, error) {
	c, ok := ciphers[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown cipher %q", prims.ErrUnsupported, name)
	}

	return c, nil
}

// LookupHash returns the hash function with the given name.
func LookupHash(name string) (*Hash, error) {
	h, ok := hashes[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hash %q", prims.ErrUnsupported, name)
	}

	return h, nil
}

func normalize(name string) string {
	return strings.NewReplacer("-", "", "_", "", "/", "").Replace(strings.ToUpper(name))
}

func newTripleDES(key []byte) (cipher.Block, error) {
	// Two-key TripleDES uses K1 for the third stage.
	if len(key) == 16 {
		k := make([]byte, 24)
		copy(k, key)
		copy(k[16:], key[:8])
		key = k
	}

	return des.NewTripleDESCipher(key)
}

func newBLAKE2b(size int) func() hash.Hash {
	return func() hash.Hash {
		var (
			h   hash.Hash
			err error
		)

		if size == blake2b.Size256 {
			h, err = blake2b.New256(nil)
		} else {
			h, err = blake2b.New512(nil)
		}

		if err != nil {
			panic(err)
		}

		return h
	}
}

//nolint:gochecknoglobals // constant registries
var (
	aesCipher = &Cipher{
		Name:      "AES",
		BlockSize: aes.BlockSize,
		KeySizes:  []int{16, 24, 32},
		newBlock:  aes.NewCipher,
	}

	tripleDESCipher = &Cipher{
		Name:      "TripleDES",
		BlockSize: des.BlockSize,
		KeySizes:  []int{16, 24},
		newBlock:  newTripleDES,
	}

	ciphers = map[string]*Cipher{
		"AES":       aesCipher,
		"TRIPLEDES": tripleDESCipher,
		"3DES":      tripleDESCipher,
		"DESEDE":    tripleDESCipher,
	}

	hashes = map[string]*Hash{
		"SHA1":       {Name: "SHA-1", Size: sha1.Size, New: sha1.New},
		"SHA224":     {Name: "SHA-224", Size: sha256.Size224, New: sha256.New224, CollisionResistant: true},
		"SHA256":     {Name: "SHA-256", Size: sha256.Size, New: sha256.New, CollisionResistant: true},
		"SHA384":     {Name: "SHA-384", Size: sha512.Size384, New: sha512.New384, CollisionResistant: true},
		"SHA512":     {Name: "SHA-512", Size: sha512.Size, New: sha512.New, CollisionResistant: true},
		"SHA3256":    {Name: "SHA3-256", Size: 32, New: sha3.New256, CollisionResistant: true},
		"SHA3384":    {Name: "SHA3-384", Size: 48, New: sha3.New384, CollisionResistant: true},
		"SHA3512":    {Name: "SHA3-512", Size: 64, New: sha3.New512, CollisionResistant: true},
		"BLAKE2B256": {Name: "BLAKE2b-256", Size: blake2b.Size256, New: newBLAKE2b(blake2b.Size256), CollisionResistant: true},
		"BLAKE2B512": {Name: "BLAKE2b-512", Size: blake2b.Size, New: newBLAKE2b(blake2b.Size), CollisionResistant: true},
	}
)
