// Package block provides pseudorandom permutations over fixed-size blocks, backed by the AES and
// TripleDES block ciphers.
//
// Each keyed Cipher holds two independent engine contexts, one for the forward direction and one for
// the inverse, both operating without padding. Callers must supply whole blocks.
package block

import (
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/codahale/prims"
	"github.com/codahale/prims/internal/engine"
)

// Cipher is a keyed block cipher exposed as a fixed-length pseudorandom permutation.
type Cipher struct {
	spec *engine.Cipher
	rand io.Reader

	compute cipher.BlockMode
	invert  cipher.BlockMode
	keyed   bool
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithRandom sets the source of randomness used for key generation. It defaults to crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(c *Cipher) {
		c.rand = r
	}
}

// New returns an unkeyed Cipher for the named algorithm, either "AES" or "TripleDES".
func New(name string, opts ...Option) (*Cipher, error) {
	spec, err := engine.LookupCipher(name)
	if err != nil {
		return nil, err
	}

	c := &Cipher{spec: spec}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewAES returns an unkeyed AES Cipher.
func NewAES(opts ...Option) *Cipher {
	c, err := New("AES", opts...)
	if err != nil {
		panic(err)
	}

	return c
}

// NewTripleDES returns an unkeyed TripleDES Cipher.
func NewTripleDES(opts ...Option) *Cipher {
	c, err := New("TripleDES", opts...)
	if err != nil {
		panic(err)
	}

	return c
}

// SetKey initializes both engine contexts with the given key. AES accepts 16, 24, or 32-byte keys;
// TripleDES accepts 16 or 24-byte keys.
func (c *Cipher) SetKey(key prims.KeyMaterial) error {
	if !c.spec.ValidKeySize(key.Len()) {
		return fmt.Errorf("%w: %s key size should be one of %v bytes, got %d",
			prims.ErrInvalidKey, c.spec.Name, c.spec.KeySizes, key.Len())
	}

	k := key.Bytes()

	enc, err := c.spec.NewBlock(k)
	if err != nil {
		return err
	}

	dec, err := c.spec.NewBlock(k)
	if err != nil {
		return err
	}

	c.compute = engine.NewECBEncrypter(enc)
	c.invert = engine.NewECBDecrypter(dec)
	c.keyed = true

	log.Debugf("%s keyed with %s", c.spec.Name, key)

	return nil
}

// IsKeyDefined returns true once SetKey has succeeded.
func (c *Cipher) IsKeyDefined() bool {
	return c.keyed
}

// AlgorithmName returns "AES" or "TripleDES".
func (c *Cipher) AlgorithmName() string {
	return c.spec.Name
}

// Capabilities returns FixedLength|Invertible.
func (c *Cipher) Capabilities() prims.Capability {
	return prims.FixedLength | prims.Invertible
}

// BlockSize returns 16 for AES and 8 for TripleDES.
func (c *Cipher) BlockSize() int {
	return c.spec.BlockSize
}

// ComputeBlock encrypts the first block of src into the first block of dst.
func (c *Cipher) ComputeBlock(dst, src []byte) error {
	if err := c.checkBlock(dst, src); err != nil {
		return err
	}

	c.compute.CryptBlocks(dst[:c.spec.BlockSize], src[:c.spec.BlockSize])

	return nil
}

// InvertBlock decrypts the first block of src into the first block of dst.
func (c *Cipher) InvertBlock(dst, src []byte) error {
	if err := c.checkBlock(dst, src); err != nil {
		return err
	}

	c.invert.CryptBlocks(dst[:c.spec.BlockSize], src[:c.spec.BlockSize])

	return nil
}

// ComputeBulk encrypts all of src, which must be a whole number of blocks, into dst in a single
// engine call. The result is identical to calling ComputeBlock on each block in turn.
func (c *Cipher) ComputeBulk(dst, src []byte) error {
	if err := c.checkBulk(dst, src); err != nil {
		return err
	}

	c.compute.CryptBlocks(dst[:len(src)], src)

	return nil
}

// InvertBulk decrypts all of src, which must be a whole number of blocks, into dst in a single
// engine call.
func (c *Cipher) InvertBulk(dst, src []byte) error {
	if err := c.checkBulk(dst, src); err != nil {
		return err
	}

	c.invert.CryptBlocks(dst[:len(src)], src)

	return nil
}

// GenerateKey returns a random key of the given size in bits.
func (c *Cipher) GenerateKey(bits int) (prims.KeyMaterial, error) {
	return prims.GenerateKey(c.rand, bits, c.spec.Name)
}

// GenerateKeyFromParams is not implemented for block ciphers; use GenerateKey.
func (c *Cipher) GenerateKeyFromParams(prims.KeyParams) (prims.KeyMaterial, error) {
	return prims.KeyMaterial{}, fmt.Errorf("%w: generate %s keys by size", prims.ErrNotImplemented, c.spec.Name)
}

func (c *Cipher) checkBlock(dst, src []byte) error {
	if err := prims.CheckKeyed(c); err != nil {
		return err
	}

	if err := prims.CheckLen("input", len(src), c.spec.BlockSize); err != nil {
		return err
	}

	return prims.CheckLen("output", len(dst), c.spec.BlockSize)
}

func (c *Cipher) checkBulk(dst, src []byte) error {
	if err := prims.CheckKeyed(c); err != nil {
		return err
	}

	if len(src)%c.spec.BlockSize != 0 {
		return fmt.Errorf("%w: input should be aligned to the %d-byte block size",
			prims.ErrOutOfRange, c.spec.BlockSize)
	}

	return prims.CheckLen("output", len(dst), len(src))
}

var (
	_ prims.FixedPRP     = &Cipher{}
	_ prims.KeyGenerator = &Cipher{}
)
