// Package ro provides random oracle constructions built on hash functions, HKDF, and STROBE.
package ro

import (
	"fmt"

	"github.com/codahale/prims"
	"github.com/codahale/prims/digest"
	"github.com/codahale/prims/kdf"
)

// HashBasedRO is a random oracle which truncates the digest of a cryptographic hash. It cannot
// produce more output than the hash's digest size.
type HashBasedRO struct {
	hash prims.CryptographicHash
}

// NewHashBasedRO returns a random oracle over h, or over SHA-256 if h is nil.
func NewHashBasedRO(h prims.CryptographicHash) *HashBasedRO {
	if h == nil {
		d, err := digest.New(digest.DefaultHash)
		if err != nil {
			panic(err)
		}

		h = d
	}

	return &HashBasedRO{hash: h}
}

// AlgorithmName returns "HashBasedRO".
func (o *HashBasedRO) AlgorithmName() string {
	return "HashBasedRO"
}

// Compute returns the first outLen bytes of the digest of src. outLen must not exceed the digest
// size.
func (o *HashBasedRO) Compute(src []byte, outLen int) ([]byte, error) {
	if outLen < 0 || outLen > o.hash.Size() {
		return nil, fmt.Errorf("%w: output length must be between 0 and %d bytes for %s, got %d",
			prims.ErrOutOfRange, o.hash.Size(), o.hash.AlgorithmName(), outLen)
	}

	o.hash.Update(src)

	return o.hash.Output(nil)[:outLen], nil
}

// HKDFBasedRO is a random oracle which derives its output with a key derivation function, using a
// fixed context string for domain separation.
type HKDFBasedRO struct {
	kdf prims.KDF
}

//nolint:gochecknoglobals // constant
var hkdfContext = []byte("RandomOracle\x00")

// NewHKDFBasedRO returns a random oracle over k, or over HKDF-SHA-256 if k is nil.
func NewHKDFBasedRO(k prims.KDF) *HKDFBasedRO {
	if k == nil {
		k = kdf.NewHKDF(nil)
	}

	return &HKDFBasedRO{kdf: k}
}

// AlgorithmName returns "HKDFBasedRO".
func (o *HKDFBasedRO) AlgorithmName() string {
	return "HKDFBasedRO"
}

// Compute returns outLen bytes derived from src.
func (o *HKDFBasedRO) Compute(src []byte, outLen int) ([]byte, error) {
	key, err := o.kdf.DeriveKey(src, outLen, hkdfContext)
	if err != nil {
		return nil, err
	}

	return key.Bytes(), nil
}

var (
	_ prims.RandomOracle = &HashBasedRO{}
	_ prims.RandomOracle = &HKDFBasedRO{}
)
