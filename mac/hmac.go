// Package mac provides HMAC as both a varying-input-length pseudorandom function and a message
// authentication code.
package mac

import (
	"crypto/hmac"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/codahale/prims"
	"github.com/codahale/prims/internal/engine"
)

// DefaultHash is the hash HMAC uses when none is named.
const DefaultHash = "SHA-256"

// state tracks the lifecycle of the underlying keyed hash context.
type state int

const (
	unkeyed   state = iota // no key has been set
	keyed                  // keyed and empty
	streaming              // keyed, with message data pending
	finalized              // tag produced, must be reset before reuse
)

func (s state) String() string {
	switch s {
	case unkeyed:
		return "unkeyed"
	case keyed:
		return "keyed"
	case streaming:
		return "streaming"
	case finalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// HMAC is a keyed HMAC instance over a hash chosen at construction.
type HMAC struct {
	spec  *engine.Hash
	rand  io.Reader
	h     hash.Hash
	state state
}

// Option configures an HMAC.
type Option func(*HMAC)

// WithRandom sets the source of randomness used for key generation. It defaults to crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(m *HMAC) {
		m.rand = r
	}
}

// New returns an unkeyed HMAC over the named hash, or SHA-256 if name is empty.
func New(hashName string, opts ...Option) (*HMAC, error) {
	if hashName == "" {
		hashName = DefaultHash
	}

	spec, err := engine.LookupHash(hashName)
	if err != nil {
		return nil, err
	}

	m := &HMAC{spec: spec}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// NewSHA256 returns an unkeyed HMAC-SHA-256.
func NewSHA256(opts ...Option) *HMAC {
	m, err := New(DefaultHash, opts...)
	if err != nil {
		panic(err)
	}

	return m
}

// SetKey reinitializes the hash context with the given key, discarding any message in progress.
// HMAC accepts keys of any length.
func (m *HMAC) SetKey(key prims.KeyMaterial) error {
	m.h = hmac.New(m.spec.New, key.Bytes())
	m.state = keyed

	log.Debugf("%s keyed with %s", m.AlgorithmName(), key)

	return nil
}

// IsKeyDefined returns true once SetKey has been called.
func (m *HMAC) IsKeyDefined() bool {
	return m.state != unkeyed
}

// AlgorithmName returns the name of the construction, e.g. "Hmac/SHA256".
func (m *HMAC) AlgorithmName() string {
	return "Hmac/" + strings.ReplaceAll(m.spec.Name, "-", "")
}

// HashName returns the canonical name of the underlying hash, e.g. "SHA-256".
func (m *HMAC) HashName() string {
	return m.spec.Name
}

// Capabilities returns VaryingInput|Authenticating|UniqueTag|UnboundedUse.
func (m *HMAC) Capabilities() prims.Capability {
	return prims.VaryingInput | prims.Authenticating | prims.UniqueTag | prims.UnboundedUse
}

// BlockSize returns the digest size of the underlying hash.
func (m *HMAC) BlockSize() int {
	return m.spec.Size
}

// TagSize returns the digest size of the underlying hash.
func (m *HMAC) TagSize() int {
	return m.spec.Size
}

// ComputeInput computes the HMAC of all of src and writes it to the first BlockSize bytes of dst.
// Any message in progress is discarded.
func (m *HMAC) ComputeInput(dst, src []byte) error {
	if err := prims.CheckKeyed(m); err != nil {
		return err
	}

	if err := prims.CheckLen("output", len(dst), m.spec.Size); err != nil {
		return err
	}

	m.oneShot(dst[:0], src)

	return nil
}

// ComputeIO computes the HMAC of all of src into dst, which must be exactly BlockSize bytes.
func (m *HMAC) ComputeIO(dst, src []byte) error {
	if err := prims.CheckKeyed(m); err != nil {
		return err
	}

	if err := prims.CheckExact("output", len(dst), m.spec.Size); err != nil {
		return err
	}

	m.oneShot(dst[:0], src)

	return nil
}

// ComputeBlock is unsupported: HMAC has no fixed input length.
func (m *HMAC) ComputeBlock(dst, src []byte) error {
	if err := prims.CheckKeyed(m); err != nil {
		return err
	}

	return fmt.Errorf("%w: %s has no fixed input length", prims.ErrUnsupported, m.AlgorithmName())
}

// Sign returns the tag of msg.
func (m *HMAC) Sign(msg []byte) ([]byte, error) {
	if err := prims.CheckKeyed(m); err != nil {
		return nil, err
	}

	return m.oneShot(make([]byte, 0, m.spec.Size), msg), nil
}

// Verify returns true if tag is the tag of msg. The full tag is always compared, and tags of the
// wrong length fail verification without an error.
func (m *HMAC) Verify(msg, tag []byte) (bool, error) {
	if err := prims.CheckKeyed(m); err != nil {
		return false, err
	}

	if len(tag) != m.spec.Size {
		return false, nil
	}

	return hmac.Equal(tag, m.oneShot(make([]byte, 0, m.spec.Size), msg)), nil
}

// Update adds msg to the message being authenticated.
func (m *HMAC) Update(msg []byte) error {
	if err := prims.CheckKeyed(m); err != nil {
		return err
	}

	_, _ = m.h.Write(msg)
	m.state = streaming

	return nil
}

// Final adds msg to the message being authenticated, appends the tag to dst, and resets the HMAC so
// it can authenticate another message with the same key.
func (m *HMAC) Final(dst, msg []byte) ([]byte, error) {
	if err := prims.CheckKeyed(m); err != nil {
		return nil, err
	}

	_, _ = m.h.Write(msg)

	return m.finalize(dst), nil
}

// GenerateKey returns a random HMAC key of the given size in bits, which must be a positive multiple
// of 8.
func (m *HMAC) GenerateKey(bits int) (prims.KeyMaterial, error) {
	return prims.GenerateKey(m.rand, bits, m.AlgorithmName())
}

// GenerateKeyFromParams is not implemented for HMAC; use GenerateKey.
func (m *HMAC) GenerateKeyFromParams(prims.KeyParams) (prims.KeyMaterial, error) {
	return prims.KeyMaterial{}, fmt.Errorf("%w: generate %s keys by size", prims.ErrNotImplemented,
		m.AlgorithmName())
}

// oneShot authenticates a single complete message, abandoning any message in progress.
func (m *HMAC) oneShot(dst, msg []byte) []byte {
	m.reset()

	_, _ = m.h.Write(msg)

	return m.finalize(dst)
}

// finalize appends the tag of the pending message to dst and returns the context to the keyed state.
func (m *HMAC) finalize(dst []byte) []byte {
	dst = m.h.Sum(dst)
	m.state = finalized

	m.reset()

	return dst
}

// reset returns a finalized or streaming context to the keyed state.
func (m *HMAC) reset() {
	if m.state == keyed {
		return
	}

	m.h.Reset()
	m.state = keyed
}

var (
	_ prims.VaryingInputPRF = &HMAC{}
	_ prims.VaryingPRF      = &HMAC{}
	_ prims.MAC             = &HMAC{}
	_ prims.KeyGenerator    = &HMAC{}
)
