// Package digest adapts the engine's hash functions to the prims.CryptographicHash interface.
package digest

import (
	"hash"

	"github.com/codahale/prims"
	"github.com/codahale/prims/internal/engine"
)

// DefaultHash is the hash used when no name is given.
const DefaultHash = "SHA-256"

// Hash is a streaming cryptographic hash.
type Hash struct {
	spec *engine.Hash
	h    hash.Hash
}

// New returns a Hash for the named algorithm, e.g. "SHA-256", "SHA3-512", or "BLAKE2b-256".
func New(name string) (*Hash, error) {
	if name == "" {
		name = DefaultHash
	}

	spec, err := engine.LookupHash(name)
	if err != nil {
		return nil, err
	}

	return &Hash{spec: spec, h: spec.New()}, nil
}

// AlgorithmName returns the canonical name of the hash.
func (d *Hash) AlgorithmName() string {
	return d.spec.Name
}

// Size returns the digest size in bytes.
func (d *Hash) Size() int {
	return d.spec.Size
}

// Update adds src to the running hash.
func (d *Hash) Update(src []byte) {
	_, _ = d.h.Write(src)
}

// Output appends the digest to dst and resets the hash.
func (d *Hash) Output(dst []byte) []byte {
	// Always reset the hash once the digest is calculated.
	defer d.h.Reset()

	return d.h.Sum(dst)
}

// Capabilities returns the security tags of the hash.
func (d *Hash) Capabilities() prims.Capability {
	if d.spec.CollisionResistant {
		return prims.CollisionResistant | prims.TargetCollisionResistant
	}

	return prims.TargetCollisionResistant
}

var _ prims.CryptographicHash = &Hash{}
