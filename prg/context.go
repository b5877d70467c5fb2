package prg

import (
	"io"
	"sync"

	"github.com/codahale/prims"
)

// Context is a process-scoped source of pseudorandom bytes. It is created once during setup and
// passed to everything which needs ambient randomness, typically as the io.Reader given to a
// primitive's WithRandom option.
//
// Unlike the generators it wraps, a Context is safe for concurrent use.
type Context struct {
	mu  sync.Mutex
	prg *CachedAES
}

// NewContext returns a Context over a CachedAES keyed with a fresh 128-bit key. The key is read from
// the WithRandom source, or crypto/rand by default.
func NewContext(opts ...Option) (*Context, error) {
	g, err := NewCachedAES(opts...)
	if err != nil {
		return nil, err
	}

	key, err := g.GenerateKey(DefaultKeySize)
	if err != nil {
		return nil, err
	}

	if err := g.SetKey(key); err != nil {
		return nil, err
	}

	return &Context{prg: g}, nil
}

// Read fills p with pseudorandom bytes. It implements io.Reader.
func (c *Context) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.prg.Read(p); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Random32 returns a pseudorandom 32-bit integer.
func (c *Context) Random32() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.prg.Random32()
}

// Random64 returns a pseudorandom 64-bit integer.
func (c *Context) Random64() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.prg.Random64()
}

// Reseed rekeys the underlying generator.
func (c *Context) Reseed(key prims.KeyMaterial) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.prg.SetKey(key)
}

var _ io.Reader = &Context{}
