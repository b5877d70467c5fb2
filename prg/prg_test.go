package prg

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/codahale/prims"
	"github.com/codahale/prims/block"
	"github.com/codahale/prims/mac"
	"github.com/google/go-cmp/cmp/cmpopts"
)

//nolint:gochecknoglobals // test key
var key = prims.NewKeyMaterial([]byte("ayellowsubmarine"), "AES")

func TestPrgFromPrf_Counter(t *testing.T) {
	t.Parallel()

	g, err := NewPrgFromPrfName("AES")
	if err != nil {
		t.Fatal(err)
	}

	if err := g.SetKey(key); err != nil {
		t.Fatal(err)
	}

	out := make([]byte, 40)
	if err := g.Read(out); err != nil {
		t.Fatal(err)
	}

	want := aesBlocks(t, func(i uint64, b []byte) {
		binary.BigEndian.PutUint64(b[8:], i)
	}, 4)

	assert.Equal(t, "first read", want[:40], out)

	// The rest of the third block is discarded.
	next := make([]byte, 16)
	if err := g.Read(next); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "second read", want[48:64], next)

	// Rekeying restarts the counter.
	if err := g.SetKey(key); err != nil {
		t.Fatal(err)
	}

	if err := g.Read(next); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "after rekey", want[:16], next)
}

func TestPrgFromPrf_Unkeyed(t *testing.T) {
	t.Parallel()

	g, err := NewPrgFromPrf(block.NewAES())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "error", prims.ErrIllegalState, g.Read(make([]byte, 1)), cmpopts.EquateErrors())
	assert.Equal(t, "name", "PRG_from_AES", g.AlgorithmName())
}

func TestPrgFromPrf_RequiresFixedLength(t *testing.T) {
	t.Parallel()

	_, err := NewPrgFromPrf(mac.NewSHA256())

	assert.Equal(t, "error", prims.ErrUnsupported, err, cmpopts.EquateErrors())
}

func TestPrgFromPrf_GenerateKey(t *testing.T) {
	t.Parallel()

	g, err := NewPrgFromPrf(block.NewAES(block.WithRandom(bytes.NewReader(make([]byte, 32)))))
	if err != nil {
		t.Fatal(err)
	}

	k, err := g.GenerateKey(256)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "key size", 32, k.Len())

	_, err = g.GenerateKeyFromParams(PrfKeyParams{Entropy: []byte("ok"), PrfKeySize: 128})
	assert.Equal(t, "params", prims.ErrNotImplemented, err, cmpopts.EquateErrors())
}

func TestIncrement(t *testing.T) {
	t.Parallel()

	b := []byte{0x00, 0xff, 0xff}
	increment(b)
	assert.Equal(t, "carry", []byte{0x01, 0x00, 0x00}, b)

	b = []byte{0xff, 0xff}
	increment(b)
	assert.Equal(t, "wrap", []byte{0x00, 0x00}, b)
}

func TestCachedAES_Stream(t *testing.T) {
	t.Parallel()

	g := keyedCachedAES(t)

	out := make([]byte, 64)
	if err := g.Read(out); err != nil {
		t.Fatal(err)
	}

	want := aesBlocks(t, func(i uint64, b []byte) {
		binary.LittleEndian.PutUint64(b, i)
	}, 4)

	assert.Equal(t, "stream", want, out)
}

func TestCachedAES_Chunking(t *testing.T) {
	t.Parallel()

	whole := keyedCachedAES(t)

	a := make([]byte, 100)
	if err := whole.Read(a); err != nil {
		t.Fatal(err)
	}

	for _, size := range []int{DefaultCacheSize, 4, 1} {
		g := keyedCachedAES(t, WithCacheSize(size))
		b := make([]byte, 100)

		if err := g.Read(b[:50]); err != nil {
			t.Fatal(err)
		}

		if err := g.Read(b[50:]); err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, "chunked stream", a, b)
	}
}

func TestCachedAES_Strict(t *testing.T) {
	t.Parallel()

	g := keyedCachedAES(t, WithCacheSize(4), WithStrict(true))

	err := g.Read(make([]byte, 65))
	assert.Equal(t, "over budget", prims.ErrOutOfRange, err, cmpopts.EquateErrors())
	assert.Equal(t, "remaining", 64, g.Remaining())

	if err := g.Read(make([]byte, 64)); err != nil {
		t.Fatal(err)
	}

	err = g.Read(make([]byte, 1))
	assert.Equal(t, "exhausted", prims.ErrOutOfRange, err, cmpopts.EquateErrors())

	err = g.Prepare()
	assert.Equal(t, "prepare when exhausted", prims.ErrOutOfRange, err, cmpopts.EquateErrors())

	// Rekeying restores the budget.
	if err := g.SetKey(key); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "remaining after rekey", 64, g.Remaining())
}

func TestCachedAES_StrictPrepare(t *testing.T) {
	t.Parallel()

	g := keyedCachedAES(t, WithCacheSize(4), WithStrict(true))

	if err := g.Read(make([]byte, 16)); err != nil {
		t.Fatal(err)
	}

	if err := g.Prepare(); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "remaining", 0, g.Remaining())

	err := g.Read(make([]byte, 1))
	assert.Equal(t, "discarded", prims.ErrOutOfRange, err, cmpopts.EquateErrors())
}

func TestCachedAES_Prepare(t *testing.T) {
	t.Parallel()

	g := keyedCachedAES(t, WithCacheSize(4))

	if err := g.Read(make([]byte, 16)); err != nil {
		t.Fatal(err)
	}

	if err := g.Prepare(); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, 16)
	if err := g.Read(got); err != nil {
		t.Fatal(err)
	}

	want := aesBlocks(t, func(i uint64, b []byte) {
		binary.LittleEndian.PutUint64(b, i)
	}, 5)

	assert.Equal(t, "next batch", want[64:80], got)
}

func TestCachedAES_Random(t *testing.T) {
	t.Parallel()

	g := keyedCachedAES(t)

	stream := make([]byte, 28)
	if err := g.Read(stream); err != nil {
		t.Fatal(err)
	}

	if err := g.SetKey(key); err != nil {
		t.Fatal(err)
	}

	r32, err := g.Random32()
	if err != nil {
		t.Fatal(err)
	}

	r64, err := g.Random64()
	if err != nil {
		t.Fatal(err)
	}

	r128, err := g.Random128()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "random32", binary.LittleEndian.Uint32(stream), r32)
	assert.Equal(t, "random64", binary.LittleEndian.Uint64(stream[4:]), r64)
	assert.Equal(t, "random128", stream[12:28], r128[:])
}

func TestCachedAES_Errors(t *testing.T) {
	t.Parallel()

	g, err := NewCachedAES()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "unkeyed", prims.ErrIllegalState, g.Read(make([]byte, 1)), cmpopts.EquateErrors())
	assert.Equal(t, "bad key", prims.ErrInvalidKey,
		g.SetKey(prims.NewKeyMaterial(make([]byte, 10), "AES")), cmpopts.EquateErrors())

	_, err = NewCachedAES(WithCacheSize(0))
	assert.Equal(t, "cache size", prims.ErrOutOfRange, err, cmpopts.EquateErrors())

	_, err = g.GenerateKeyFromParams(nil)
	assert.Equal(t, "params", prims.ErrNotImplemented, err, cmpopts.EquateErrors())
}

func TestContext(t *testing.T) {
	t.Parallel()

	seed := bytes.Repeat([]byte{7}, 16)

	ctx, err := NewContext(WithRandom(bytes.NewReader(seed)))
	if err != nil {
		t.Fatal(err)
	}

	g := keyedCachedAES(t)
	if err := g.SetKey(prims.NewKeyMaterial(seed, "AES")); err != nil {
		t.Fatal(err)
	}

	want := make([]byte, 48)
	if err := g.Read(want); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, 48)
	if _, err := io.ReadFull(ctx, got); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "stream", want, got)
}

func TestContext_Concurrent(t *testing.T) {
	t.Parallel()

	ctx, err := NewContext(WithCacheSize(2))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				if _, err := ctx.Random64(); err != nil {
					t.Error(err)
				}
			}
		}()
	}

	wg.Wait()
}

func TestContext_AsKeySource(t *testing.T) {
	t.Parallel()

	ctx, err := NewContext()
	if err != nil {
		t.Fatal(err)
	}

	c := block.NewAES(block.WithRandom(ctx))

	k, err := c.GenerateKey(128)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetKey(k); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "keyed", true, c.IsKeyDefined())
}

func TestNewReader(t *testing.T) {
	t.Parallel()

	g := keyedCachedAES(t)
	r := NewReader(g)

	a := make([]byte, 32)
	if _, err := io.ReadFull(r, a); err != nil {
		t.Fatal(err)
	}

	if err := g.SetKey(key); err != nil {
		t.Fatal(err)
	}

	b := make([]byte, 32)
	if err := g.Read(b); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "stream", b, a)
}

func BenchmarkCachedAES_Read(b *testing.B) {
	g, err := NewCachedAES()
	if err != nil {
		b.Fatal(err)
	}

	if err := g.SetKey(key); err != nil {
		b.Fatal(err)
	}

	buf := make([]byte, 1024)

	b.SetBytes(int64(len(buf)))

	for i := 0; i < b.N; i++ {
		_ = g.Read(buf)
	}
}

func BenchmarkPrgFromPrf_Read(b *testing.B) {
	g, err := NewPrgFromPrfName("AES")
	if err != nil {
		b.Fatal(err)
	}

	if err := g.SetKey(key); err != nil {
		b.Fatal(err)
	}

	buf := make([]byte, 1024)

	b.SetBytes(int64(len(buf)))

	for i := 0; i < b.N; i++ {
		_ = g.Read(buf)
	}
}

func keyedCachedAES(t *testing.T, opts ...Option) *CachedAES {
	t.Helper()

	g, err := NewCachedAES(opts...)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.SetKey(key); err != nil {
		t.Fatal(err)
	}

	return g
}

// aesBlocks returns the encryptions of n blocks, each encoded by put.
func aesBlocks(t *testing.T, put func(i uint64, b []byte), n int) []byte {
	t.Helper()

	c := block.NewAES()
	if err := c.SetKey(key); err != nil {
		t.Fatal(err)
	}

	out := make([]byte, n*16)

	for i := 0; i < n; i++ {
		in := make([]byte, 16)
		put(uint64(i), in)

		if err := c.ComputeBlock(out[i*16:], in); err != nil {
			t.Fatal(err)
		}
	}

	return out
}
