// Package prg provides pseudorandom generators built from pseudorandom functions.
//
// PrgFromPrf runs any fixed-length PRF in counter mode. CachedAES batch-encrypts runs of block
// indices under AES and serves bytes from the resulting cache. Context wraps a CachedAES as an
// explicitly constructed, lock-guarded source of ambient randomness.
package prg

import (
	"fmt"
	"io"

	"github.com/codahale/prims"
	"github.com/codahale/prims/block"
)

// PrfKeyParams requests a key for the PRF underlying a PrgFromPrf.
type PrfKeyParams struct {
	Entropy    []byte // Entropy is a random bit sequence the key may be derived from.
	PrfKeySize int    // PrfKeySize is the PRF key size in bits.
}

// KeySize returns the PRF key size in bits.
func (p PrfKeyParams) KeySize() int {
	return p.PrfKeySize
}

var _ prims.KeyParams = PrfKeyParams{}

// PrgFromPrf is a counter-mode generator over a fixed-length PRF. Each output block is the PRF of
// a block-sized big-endian counter, which starts at zero when the key is set and increases for the
// lifetime of the key.
type PrgFromPrf struct {
	prf prims.FixedPRF
	ctr []byte
	buf []byte
}

// NewPrgFromPrf returns a generator over prf, which must have the FixedLength capability.
func NewPrgFromPrf(prf prims.FixedPRF) (*PrgFromPrf, error) {
	if !prf.Capabilities().Has(prims.FixedLength) {
		return nil, fmt.Errorf("%w: %s does not have a fixed length", prims.ErrUnsupported, prf.AlgorithmName())
	}

	return &PrgFromPrf{
		prf: prf,
		ctr: make([]byte, prf.BlockSize()),
		buf: make([]byte, prf.BlockSize()),
	}, nil
}

// NewPrgFromPrfName returns a generator over a new instance of the named block cipher.
func NewPrgFromPrfName(name string) (*PrgFromPrf, error) {
	c, err := block.New(name)
	if err != nil {
		return nil, err
	}

	return NewPrgFromPrf(c)
}

// SetKey keys the underlying PRF and resets the counter to zero.
func (g *PrgFromPrf) SetKey(key prims.KeyMaterial) error {
	if err := g.prf.SetKey(key); err != nil {
		return err
	}

	for i := range g.ctr {
		g.ctr[i] = 0
	}

	log.Debugf("%s keyed with %s", g.AlgorithmName(), key)

	return nil
}

// IsKeyDefined reports whether the underlying PRF is keyed.
func (g *PrgFromPrf) IsKeyDefined() bool {
	return g.prf.IsKeyDefined()
}

// AlgorithmName returns "PRG_from_" followed by the PRF's name.
func (g *PrgFromPrf) AlgorithmName() string {
	return "PRG_from_" + g.prf.AlgorithmName()
}

// Capabilities returns the capabilities of the underlying PRF.
func (g *PrgFromPrf) Capabilities() prims.Capability {
	return g.prf.Capabilities()
}

// Read fills dst with the next bytes of the stream. Any unused part of the final block is
// discarded, so the next call starts on a fresh counter value.
func (g *PrgFromPrf) Read(dst []byte) error {
	if err := prims.CheckKeyed(g); err != nil {
		return err
	}

	for off := 0; off < len(dst); {
		// Compute the PRF over the current counter value.
		if err := g.prf.ComputeBlock(g.buf, g.ctr); err != nil {
			return err
		}

		// Copy as much of the block as is needed.
		off += copy(dst[off:], g.buf)

		// Advance the counter.
		increment(g.ctr)
	}

	return nil
}

// GenerateKey returns a random key for the underlying PRF.
func (g *PrgFromPrf) GenerateKey(bits int) (prims.KeyMaterial, error) {
	kg, err := g.keyGenerator()
	if err != nil {
		return prims.KeyMaterial{}, err
	}

	return kg.GenerateKey(bits)
}

// GenerateKeyFromParams forwards params to the underlying PRF.
func (g *PrgFromPrf) GenerateKeyFromParams(params prims.KeyParams) (prims.KeyMaterial, error) {
	kg, err := g.keyGenerator()
	if err != nil {
		return prims.KeyMaterial{}, err
	}

	return kg.GenerateKeyFromParams(params)
}

func (g *PrgFromPrf) keyGenerator() (prims.KeyGenerator, error) {
	kg, ok := g.prf.(prims.KeyGenerator)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot generate keys", prims.ErrNotImplemented, g.prf.AlgorithmName())
	}

	return kg, nil
}

// increment adds one to the big-endian counter b, wrapping to zero on overflow.
func increment(b []byte) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return
		}
	}
}

// NewReader returns an io.Reader which reads from p. Reads always fill the whole buffer or fail.
func NewReader(p prims.PRG) io.Reader {
	return &reader{p: p}
}

type reader struct {
	p prims.PRG
}

func (r *reader) Read(b []byte) (int, error) {
	if err := r.p.Read(b); err != nil {
		return 0, err
	}

	return len(b), nil
}

var (
	_ prims.PRG = &PrgFromPrf{}
	_ io.Reader = &reader{}
)
