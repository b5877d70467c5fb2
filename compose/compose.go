// Package compose derives higher-capability primitives from lower-capability ones.
//
// Each wrapper holds a caller-supplied primitive and re-exposes it under a different contract. The
// wrappers have no key state of their own: SetKey and IsKeyDefined are forwarded to the wrapped
// primitive, and nothing is cached between calls.
package compose

import (
	"fmt"

	"github.com/codahale/prims"
)

// PrpFromPrfFixed exposes a fixed-length pseudorandom permutation through the varying-length entry
// points, accepting only lengths equal to the block size.
type PrpFromPrfFixed struct {
	prims.FixedPRP
}

// NewPrpFromPrfFixed wraps p.
func NewPrpFromPrfFixed(p prims.FixedPRP) *PrpFromPrfFixed {
	return &PrpFromPrfFixed{FixedPRP: p}
}

// ComputeInput computes the permutation over src, which must be exactly one block, into the first
// block of dst.
func (p *PrpFromPrfFixed) ComputeInput(dst, src []byte) error {
	if err := p.checkExact(len(src), p.BlockSize()); err != nil {
		return err
	}

	return p.ComputeBlock(dst, src)
}

// ComputeIO computes the permutation over src into dst. Both must be exactly one block.
func (p *PrpFromPrfFixed) ComputeIO(dst, src []byte) error {
	if err := p.checkExact(len(src), len(dst)); err != nil {
		return err
	}

	return p.ComputeBlock(dst, src)
}

// InvertIO inverts the permutation over src into dst. Both must be exactly one block.
func (p *PrpFromPrfFixed) InvertIO(dst, src []byte) error {
	if err := p.checkExact(len(src), len(dst)); err != nil {
		return err
	}

	return p.InvertBlock(dst, src)
}

func (p *PrpFromPrfFixed) checkExact(in, out int) error {
	if err := prims.CheckKeyed(p); err != nil {
		return err
	}

	if err := prims.CheckExact("input", in, p.BlockSize()); err != nil {
		return err
	}

	return prims.CheckExact("output", out, p.BlockSize())
}

// IteratedPrfVarying derives a pseudorandom function of any output length up to MaxIteratedOutput
// bytes from one which accepts any input length but produces a single block.
//
// For an input x and an output length n, round i computes PRF(x || n || i), with n and i encoded as
// single bytes and i counting from 1. The rounds are concatenated and truncated to n bytes.
type IteratedPrfVarying struct {
	prf prims.VaryingInputPRF
}

// MaxIteratedOutput is the largest output length IteratedPrfVarying supports, since the output
// length is encoded as a single byte.
const MaxIteratedOutput = 255

// NewIteratedPrfVarying wraps prf.
func NewIteratedPrfVarying(prf prims.VaryingInputPRF) *IteratedPrfVarying {
	return &IteratedPrfVarying{prf: prf}
}

// SetKey sets the key of the wrapped PRF.
func (p *IteratedPrfVarying) SetKey(key prims.KeyMaterial) error {
	return p.prf.SetKey(key)
}

// IsKeyDefined reports whether the wrapped PRF is keyed.
func (p *IteratedPrfVarying) IsKeyDefined() bool {
	return p.prf.IsKeyDefined()
}

// AlgorithmName returns "IteratedPrfVarying" qualified with the wrapped PRF's name.
func (p *IteratedPrfVarying) AlgorithmName() string {
	return fmt.Sprintf("IteratedPrfVarying(%s)", p.prf.AlgorithmName())
}

// Capabilities returns VaryingIO.
func (p *IteratedPrfVarying) Capabilities() prims.Capability {
	return prims.VaryingIO
}

// ComputeIO computes the function over all of src and fills all of dst, which may be at most
// MaxIteratedOutput bytes long.
func (p *IteratedPrfVarying) ComputeIO(dst, src []byte) error {
	if err := prims.CheckKeyed(p); err != nil {
		return err
	}

	if len(dst) > MaxIteratedOutput {
		return fmt.Errorf("%w: output length is limited to %d bytes, got %d",
			prims.ErrOutOfRange, MaxIteratedOutput, len(dst))
	}

	l := p.prf.BlockSize()
	rounds := (len(dst) + l - 1) / l

	// Lay out the PRF input as x || n || i, leaving the round counter to be set per round.
	in := make([]byte, len(src)+2)
	copy(in, src)
	in[len(src)] = byte(len(dst))

	out := make([]byte, rounds*l)

	for i := 0; i < rounds; i++ {
		in[len(src)+1] = byte(i + 1)

		if err := p.prf.ComputeInput(out[i*l:], in); err != nil {
			return err
		}
	}

	// Truncate the concatenated rounds.
	copy(dst, out)

	return nil
}

// ComputeBlock is unsupported: the output length must be given explicitly.
func (p *IteratedPrfVarying) ComputeBlock(dst, src []byte) error {
	if err := prims.CheckKeyed(p); err != nil {
		return err
	}

	return fmt.Errorf("%w: %s has no default output length", prims.ErrUnsupported, p.AlgorithmName())
}

// PrpFromPrfVarying exposes a varying-length pseudorandom function as a pseudorandom permutation
// whose input and output lengths are equal.
type PrpFromPrfVarying struct {
	prf prims.VaryingPRF
}

// NewPrpFromPrfVarying wraps prf. InvertIO is available only if prf is itself an invertible
// VaryingPRP.
func NewPrpFromPrfVarying(prf prims.VaryingPRF) *PrpFromPrfVarying {
	return &PrpFromPrfVarying{prf: prf}
}

// SetKey sets the key of the wrapped PRF.
func (p *PrpFromPrfVarying) SetKey(key prims.KeyMaterial) error {
	return p.prf.SetKey(key)
}

// IsKeyDefined reports whether the wrapped PRF is keyed.
func (p *PrpFromPrfVarying) IsKeyDefined() bool {
	return p.prf.IsKeyDefined()
}

// AlgorithmName returns the wrapped PRF's name.
func (p *PrpFromPrfVarying) AlgorithmName() string {
	return p.prf.AlgorithmName()
}

// Capabilities returns VaryingIO, plus Invertible if the wrapped PRF is invertible.
func (p *PrpFromPrfVarying) Capabilities() prims.Capability {
	caps := prims.VaryingIO
	if _, ok := p.inverse(); ok {
		caps |= prims.Invertible
	}

	return caps
}

// ComputeIO computes the function over src into dst, which must be the same length.
func (p *PrpFromPrfVarying) ComputeIO(dst, src []byte) error {
	if err := p.checkEqual(len(dst), len(src)); err != nil {
		return err
	}

	return p.prf.ComputeIO(dst, src)
}

// InvertIO inverts the permutation over src into dst, which must be the same length. It returns
// ErrUnsupported if the wrapped PRF is not invertible.
func (p *PrpFromPrfVarying) InvertIO(dst, src []byte) error {
	if err := p.checkEqual(len(dst), len(src)); err != nil {
		return err
	}

	inv, ok := p.inverse()
	if !ok {
		return fmt.Errorf("%w: %s is not invertible", prims.ErrUnsupported, p.prf.AlgorithmName())
	}

	return inv.InvertIO(dst, src)
}

// ComputeBlock is unsupported: a varying primitive has no implicit block length.
func (p *PrpFromPrfVarying) ComputeBlock(dst, src []byte) error {
	return p.noBlock()
}

// InvertBlock is unsupported: a varying primitive has no implicit block length.
func (p *PrpFromPrfVarying) InvertBlock(dst, src []byte) error {
	return p.noBlock()
}

func (p *PrpFromPrfVarying) inverse() (prims.VaryingPRP, bool) {
	inv, ok := p.prf.(prims.VaryingPRP)
	if !ok || !p.prf.Capabilities().Has(prims.Invertible) {
		return nil, false
	}

	return inv, true
}

func (p *PrpFromPrfVarying) checkEqual(out, in int) error {
	if err := prims.CheckKeyed(p); err != nil {
		return err
	}

	if in != out {
		return fmt.Errorf("%w: input and output lengths must match, got %d and %d",
			prims.ErrOutOfRange, in, out)
	}

	return nil
}

func (p *PrpFromPrfVarying) noBlock() error {
	if err := prims.CheckKeyed(p); err != nil {
		return err
	}

	return fmt.Errorf("%w: %s requires explicit lengths", prims.ErrUnsupported, p.prf.AlgorithmName())
}

var (
	_ prims.FixedPRP   = &PrpFromPrfFixed{}
	_ prims.VaryingPRP = &PrpFromPrfFixed{}
	_ prims.VaryingPRF = &IteratedPrfVarying{}
	_ prims.VaryingPRP = &PrpFromPrfVarying{}
)
