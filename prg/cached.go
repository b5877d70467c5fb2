package prg

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/codahale/prims"
	"github.com/codahale/prims/block"
)

const (
	// DefaultCacheSize is the default number of AES blocks a CachedAES generates per batch.
	DefaultCacheSize = 12800

	// DefaultKeySize is the default AES key size in bits for generated keys.
	DefaultKeySize = 128

	blockSize = 16
)

type config struct {
	cacheSize int
	strict    bool
	rand      io.Reader
}

// Option configures a CachedAES or a Context.
type Option func(*config)

// WithCacheSize sets the number of AES blocks generated per batch.
func WithCacheSize(blocks int) Option {
	return func(c *config) {
		c.cacheSize = blocks
	}
}

// WithStrict limits a generator to a single batch per key. Once the batch is consumed, requests fail
// with ErrOutOfRange until the generator is rekeyed.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithRandom sets the source of randomness used for key generation. It defaults to crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(c *config) {
		c.rand = r
	}
}

func newConfig(opts []Option) (*config, error) {
	c := &config{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(c)
	}

	if c.cacheSize <= 0 {
		return nil, fmt.Errorf("%w: cache size must be positive, got %d", prims.ErrOutOfRange, c.cacheSize)
	}

	return c, nil
}

// CachedAES is a generator which encrypts runs of consecutive block indices under AES and serves
// bytes from the resulting ciphertext cache.
//
// Block i of the stream is AES(key, i), with i encoded as a little-endian 64-bit integer in the first
// eight bytes of the block. The stream depends only on the key, never on how requests are chunked.
type CachedAES struct {
	aes    *block.Cipher
	rand   io.Reader
	strict bool

	startingIndex uint64
	index         []byte
	cache         []byte
	cursor        int
}

// NewCachedAES returns an unkeyed CachedAES.
func NewCachedAES(opts ...Option) (*CachedAES, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &CachedAES{
		aes:    block.NewAES(),
		rand:   c.rand,
		strict: c.strict,
		index:  make([]byte, c.cacheSize*blockSize),
		cache:  make([]byte, c.cacheSize*blockSize),
	}, nil
}

// SetKey keys AES, restarts the stream at block zero, and generates the first batch.
func (g *CachedAES) SetKey(key prims.KeyMaterial) error {
	if err := g.aes.SetKey(key); err != nil {
		return err
	}

	g.startingIndex = 0

	log.Debugf("%s keyed with %s", g.AlgorithmName(), key)

	return g.refill()
}

// IsKeyDefined returns true once SetKey has succeeded.
func (g *CachedAES) IsKeyDefined() bool {
	return g.aes.IsKeyDefined()
}

// AlgorithmName returns "PrgFromAES".
func (g *CachedAES) AlgorithmName() string {
	return "PrgFromAES"
}

// Capabilities returns FixedLength, the shape of the underlying block cipher.
func (g *CachedAES) Capabilities() prims.Capability {
	return prims.FixedLength
}

// CacheSize returns the number of blocks generated per batch.
func (g *CachedAES) CacheSize() int {
	return len(g.cache) / blockSize
}

// Remaining returns the number of unconsumed bytes in the current batch.
func (g *CachedAES) Remaining() int {
	return len(g.cache) - g.cursor
}

// Read fills dst with the next bytes of the stream. In strict mode, a request larger than the
// remainder of the batch fails with ErrOutOfRange and consumes nothing.
func (g *CachedAES) Read(dst []byte) error {
	if err := prims.CheckKeyed(g); err != nil {
		return err
	}

	if g.strict && len(dst) > g.Remaining() {
		log.Debugf("%s randomness budget exhausted: requested %d bytes, %d remaining",
			g.AlgorithmName(), len(dst), g.Remaining())

		return fmt.Errorf("%w: randomness budget exhausted, requested %d bytes with %d remaining",
			prims.ErrOutOfRange, len(dst), g.Remaining())
	}

	for off := 0; off < len(dst); {
		if g.cursor == len(g.cache) {
			if err := g.next(); err != nil {
				return err
			}
		}

		n := copy(dst[off:], g.cache[g.cursor:])
		g.cursor += n
		off += n
	}

	return nil
}

// Random32 returns the next four bytes of the stream as a little-endian integer.
func (g *CachedAES) Random32() (uint32, error) {
	var b [4]byte
	if err := g.Read(b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b[:]), nil
}

// Random64 returns the next eight bytes of the stream as a little-endian integer.
func (g *CachedAES) Random64() (uint64, error) {
	var b [8]byte
	if err := g.Read(b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

// Random128 returns the next sixteen bytes of the stream.
func (g *CachedAES) Random128() ([16]byte, error) {
	var b [16]byte
	if err := g.Read(b[:]); err != nil {
		return b, err
	}

	return b, nil
}

// Prepare discards the rest of the current batch. Outside of strict mode the next batch is generated
// immediately. In strict mode the generator is left exhausted, and calling Prepare on an exhausted
// generator fails with ErrOutOfRange.
func (g *CachedAES) Prepare() error {
	if err := prims.CheckKeyed(g); err != nil {
		return err
	}

	if g.strict {
		if g.Remaining() == 0 {
			return fmt.Errorf("%w: randomness budget exhausted, rekey to continue", prims.ErrOutOfRange)
		}

		g.cursor = len(g.cache)

		return nil
	}

	return g.next()
}

// GenerateKey returns a random AES key of the given size in bits.
func (g *CachedAES) GenerateKey(bits int) (prims.KeyMaterial, error) {
	return prims.GenerateKey(g.rand, bits, "AES")
}

// GenerateKeyFromParams is not implemented; use GenerateKey.
func (g *CachedAES) GenerateKeyFromParams(prims.KeyParams) (prims.KeyMaterial, error) {
	return prims.KeyMaterial{}, fmt.Errorf("%w: generate %s keys by size", prims.ErrNotImplemented,
		g.AlgorithmName())
}

// next advances to the batch following the current one.
func (g *CachedAES) next() error {
	if g.strict {
		return fmt.Errorf("%w: randomness budget exhausted", prims.ErrOutOfRange)
	}

	g.startingIndex += uint64(g.CacheSize())

	return g.refill()
}

// refill encrypts the block indices of the current batch in a single bulk call.
func (g *CachedAES) refill() error {
	for i := 0; i < len(g.index); i += blockSize {
		binary.LittleEndian.PutUint64(g.index[i:], g.startingIndex+uint64(i/blockSize))
	}

	if err := g.aes.ComputeBulk(g.cache, g.index); err != nil {
		return err
	}

	g.cursor = 0

	log.Tracef("%s generated %d blocks from index %d", g.AlgorithmName(), g.CacheSize(), g.startingIndex)

	return nil
}

var _ prims.PRG = &CachedAES{}
