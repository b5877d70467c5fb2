package ro

import (
	"encoding/binary"
	"fmt"

	"github.com/codahale/prims"
	"github.com/gtank/ristretto255"
	"github.com/sammyne/strobe"
)

// StrobeRO is a random oracle of any output length built on the STROBE protocol framework:
//
//     INIT('prims.ro', level=256)
//     AD(LE_U32(n),    meta=true)
//     AD(x)
//     PRF(n)
//
// The output length n is bound into the protocol, so outputs of different lengths are unrelated.
type StrobeRO struct {
	proto string
}

// DefaultProtocol is the STROBE protocol name used by NewStrobeRO when none is given.
const DefaultProtocol = "prims.ro"

// NewStrobeRO returns a random oracle domain-separated by the given protocol name, or by
// DefaultProtocol if proto is empty.
func NewStrobeRO(proto string) *StrobeRO {
	if proto == "" {
		proto = DefaultProtocol
	}

	return &StrobeRO{proto: proto}
}

// AlgorithmName returns "StrobeRO".
func (o *StrobeRO) AlgorithmName() string {
	return "StrobeRO"
}

// Compute returns outLen bytes of oracle output for src.
func (o *StrobeRO) Compute(src []byte, outLen int) ([]byte, error) {
	if outLen < 0 || uint64(outLen) > 1<<32-1 {
		return nil, fmt.Errorf("%w: invalid output length %d", prims.ErrOutOfRange, outLen)
	}

	// Initialize the protocol.
	s, err := strobe.New(o.proto, strobe.Bit256)
	if err != nil {
		return nil, err
	}

	// Include the output length as associated metadata.
	var n [4]byte

	binary.LittleEndian.PutUint32(n[:], uint32(outLen))

	if err := s.AD(n[:], &strobe.Options{Meta: true}); err != nil {
		return nil, err
	}

	// Include the input as associated data.
	if err := s.AD(prims.Copy(src), &strobe.Options{}); err != nil {
		return nil, err
	}

	// Extract the output.
	out := make([]byte, outLen)
	if err := s.PRF(out, false); err != nil {
		return nil, err
	}

	log.Tracef("%s/%s produced %d bytes", o.AlgorithmName(), o.proto, outLen)

	return out, nil
}

// UniformSize is the number of oracle bytes mapped to a ristretto255 scalar.
const UniformSize = 64

// Scalar maps input to a ristretto255 scalar using 64 bytes of output from oracle.
func Scalar(oracle prims.RandomOracle, input []byte) (*ristretto255.Scalar, error) {
	b, err := oracle.Compute(input, UniformSize)
	if err != nil {
		return nil, err
	}

	return ristretto255.NewScalar().FromUniformBytes(b), nil
}

var _ prims.RandomOracle = &StrobeRO{}
