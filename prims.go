// Package prims provides composable pseudorandom cryptographic primitives for use as building blocks
// of secure-computation protocols.
//
// Primitives are described by capability rather than by type. A concrete primitive implements some
// subset of the interfaces below and advertises the same subset as Capability tags:
//
//     FixedPRF, FixedPRP                 block ciphers (package block)
//     VaryingInputPRF, MAC               HMAC (package mac)
//     VaryingPRF, VaryingPRP             derived constructions (package compose)
//     PRG                                generators (package prg)
//     KDF                                HKDF (package kdf)
//     RandomOracle                       package ro
//
// Every primitive starts out unkeyed. Any compute, invert, sign, or generate call made before SetKey
// fails with ErrIllegalState. Rekeying is allowed at any time and discards all state tied to the
// previous key.
//
// Buffers are caller-owned slices. Use Window to take a bounds-checked view of a larger buffer; the
// view aliases the buffer, so results are written in place without copying. All key state and length
// checks happen before anything is written to an output slice.
//
// Instances are not safe for concurrent use, with the exception of kdf.HKDF and prg.Context.
package prims

// Primitive is the keyed-state surface shared by every primitive.
type Primitive interface {
	// SetKey sets the secret key, discarding any state derived from a previous key.
	SetKey(key KeyMaterial) error

	// IsKeyDefined returns true if SetKey has succeeded at least once.
	IsKeyDefined() bool

	// AlgorithmName returns a stable identifying name, e.g. "AES" or "Hmac/SHA256".
	AlgorithmName() string

	// Capabilities returns the shape and security tags of the primitive.
	Capabilities() Capability
}

// KeyGenerator creates keys suitable for a primitive.
type KeyGenerator interface {
	// GenerateKey returns a random key of the given size in bits.
	GenerateKey(bits int) (KeyMaterial, error)

	// GenerateKeyFromParams returns a key generated according to params.
	GenerateKeyFromParams(params KeyParams) (KeyMaterial, error)
}

// FixedPRF is a pseudorandom function with a predefined block size.
type FixedPRF interface {
	Primitive

	// BlockSize returns the input and output size in bytes.
	BlockSize() int

	// ComputeBlock computes the function over the first BlockSize bytes of src and writes the result
	// to the first BlockSize bytes of dst.
	ComputeBlock(dst, src []byte) error
}

// FixedPRP is a pseudorandom permutation with a predefined block size.
type FixedPRP interface {
	FixedPRF

	// InvertBlock inverts the permutation over the first BlockSize bytes of src and writes the
	// result to the first BlockSize bytes of dst.
	InvertBlock(dst, src []byte) error
}

// VaryingInputPRF is a pseudorandom function which accepts any input length and produces a single
// block of output.
type VaryingInputPRF interface {
	Primitive

	// BlockSize returns the output size in bytes.
	BlockSize() int

	// ComputeInput computes the function over all of src and writes BlockSize bytes to dst.
	ComputeInput(dst, src []byte) error
}

// VaryingPRF is a pseudorandom function with varying input and output lengths.
type VaryingPRF interface {
	Primitive

	// ComputeIO computes the function over all of src and fills all of dst.
	ComputeIO(dst, src []byte) error
}

// VaryingPRP is a pseudorandom permutation with varying, but equal, input and output lengths.
type VaryingPRP interface {
	VaryingPRF

	// InvertIO inverts the permutation over all of src and fills all of dst. The lengths must match.
	InvertIO(dst, src []byte) error
}

// MAC is a message authentication code.
type MAC interface {
	Primitive

	// TagSize returns the size of a tag in bytes.
	TagSize() int

	// Sign returns the tag of msg.
	Sign(msg []byte) ([]byte, error)

	// Verify returns true if tag is the tag of msg. Malformed tags fail verification.
	Verify(msg, tag []byte) (bool, error)

	// Update adds msg to the message being authenticated.
	Update(msg []byte) error

	// Final adds msg to the message being authenticated, appends the tag to dst, and resets the
	// MAC for the next message.
	Final(dst, msg []byte) ([]byte, error)
}

// CryptographicHash is a streaming hash function.
type CryptographicHash interface {
	// AlgorithmName returns the name of the hash, e.g. "SHA-256".
	AlgorithmName() string

	// Size returns the digest size in bytes.
	Size() int

	// Update adds src to the message being hashed.
	Update(src []byte)

	// Output appends the digest to dst and resets the hash.
	Output(dst []byte) []byte

	// Capabilities returns the security tags of the hash.
	Capabilities() Capability
}

// PRG is a pseudorandom generator.
type PRG interface {
	Primitive
	KeyGenerator

	// Read fills all of dst with pseudorandom bytes.
	Read(dst []byte) error
}

// KDF is a key derivation function.
type KDF interface {
	// DeriveKey derives an outLen-byte key from the entropy source and the context info iv.
	DeriveKey(entropy []byte, outLen int, iv []byte) (KeyMaterial, error)
}

// RandomOracle is a deterministic function returning random-looking output of a requested length.
type RandomOracle interface {
	// AlgorithmName returns the name of the oracle construction.
	AlgorithmName() string

	// Compute returns outLen bytes of oracle output for src.
	Compute(src []byte, outLen int) ([]byte, error)
}
