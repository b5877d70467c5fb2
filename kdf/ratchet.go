package kdf

import (
	"github.com/codahale/prims"
)

const (
	// ChainKeySize is the size of a ratchet chain key in bytes.
	ChainKeySize = 64
)

// Ratchet derives a sequence of keys from an initial key. Each step replaces the chain key, so keys
// already handed out cannot be recomputed from the ratchet's current state.
type Ratchet struct {
	kdf      prims.KDF
	chainKey []byte
	n        int
}

// NewRatchet returns a Ratchet over kdf which uses the initial key to create a sequence of keys of
// size n.
func NewRatchet(kdf prims.KDF, key []byte, n int) *Ratchet {
	chainKey := make([]byte, ChainKeySize)
	copy(chainKey, key)

	return &Ratchet{
		kdf:      kdf,
		chainKey: chainKey,
		n:        n,
	}
}

// Next returns the next key in the sequence. The KDF is run over the current chain key with an iv of
// "next", or "last" if this is the final key in the sequence. The first 64 bytes of output become the
// new chain key; the next n bytes are returned.
func (r *Ratchet) Next(final bool) (prims.KeyMaterial, error) {
	iv := []byte("next")
	if final {
		// The final key is derived with a different iv.
		iv = []byte("last")
	}

	out, err := r.kdf.DeriveKey(r.chainKey, ChainKeySize+r.n, iv)
	if err != nil {
		return prims.KeyMaterial{}, err
	}

	b := out.Bytes()

	// Use the first 64 bytes as the next chain key.
	copy(r.chainKey, b[:ChainKeySize])

	// Return the rest as the next key.
	return prims.NewKeyMaterial(b[ChainKeySize:], "Ratchet"), nil
}
