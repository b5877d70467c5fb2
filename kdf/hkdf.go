// Package kdf provides HKDF, an extract-and-expand key derivation function built on HMAC, and a key
// ratchet built on any key derivation function.
package kdf

import (
	"fmt"
	"sync"

	"github.com/codahale/prims"
	"github.com/codahale/prims/mac"
)

// HKDF is an extract-and-expand key derivation function.
//
// The entropy source is first extracted into a pseudorandom key PRK = HMAC(XTS, entropy), where XTS
// is a fixed 80-byte extraction key. PRK is then expanded as K(1) = HMAC(PRK, iv || 1) and
// K(i) = HMAC(PRK, K(i-1) || iv || i), and the derived key is the first outLen bytes of
// K(1) || K(2) || ....
//
// An HKDF is safe for concurrent use. It takes ownership of the HMAC it is built on.
type HKDF struct {
	mu   sync.Mutex
	hmac *mac.HMAC
}

//nolint:gochecknoglobals // constant
var extractionKey = func() []byte {
	b := make([]byte, 80)
	for i := range b {
		b[i] = byte(0x60 + i)
	}

	return b
}()

// NewHKDF returns an HKDF built on h, or on HMAC-SHA-256 if h is nil.
func NewHKDF(h *mac.HMAC) *HKDF {
	if h == nil {
		h = mac.NewSHA256()
	}

	return &HKDF{hmac: h}
}

// MaxOutput returns the largest key length in bytes the HKDF can derive.
func (k *HKDF) MaxOutput() int {
	return 255 * k.hmac.TagSize()
}

// DeriveKey derives an outLen-byte key from entropy, bound to the context info iv.
func (k *HKDF) DeriveKey(entropy []byte, outLen int, iv []byte) (prims.KeyMaterial, error) {
	if outLen <= 0 || outLen > k.MaxOutput() {
		return prims.KeyMaterial{}, fmt.Errorf("%w: HKDF output must be between 1 and %d bytes, got %d",
			prims.ErrOutOfRange, k.MaxOutput(), outLen)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	// Extract the entropy into a pseudorandom key.
	if err := k.hmac.SetKey(prims.NewKeyMaterial(extractionKey, "HKDF")); err != nil {
		return prims.KeyMaterial{}, err
	}

	prk, err := k.hmac.Sign(entropy)
	if err != nil {
		return prims.KeyMaterial{}, err
	}

	// Key the HMAC with the pseudorandom key for expansion.
	if err := k.hmac.SetKey(prims.NewKeyMaterial(prk, "HKDF")); err != nil {
		return prims.KeyMaterial{}, err
	}

	var (
		out  = make([]byte, 0, outLen+k.hmac.TagSize())
		prev []byte
	)

	for i := 1; len(out) < outLen; i++ {
		// Chain the previous block, if any, and the context info.
		if err := k.hmac.Update(prev); err != nil {
			return prims.KeyMaterial{}, err
		}

		if err := k.hmac.Update(iv); err != nil {
			return prims.KeyMaterial{}, err
		}

		// Finish with the block index.
		out, err = k.hmac.Final(out, []byte{byte(i)})
		if err != nil {
			return prims.KeyMaterial{}, err
		}

		prev = out[len(out)-k.hmac.TagSize():]
	}

	log.Tracef("HKDF over %s derived %d bytes", k.hmac.AlgorithmName(), outLen)

	return prims.NewKeyMaterial(out[:outLen], "HKDF"), nil
}

var _ prims.KDF = &HKDF{}
