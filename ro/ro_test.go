package ro

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/codahale/prims"
	"github.com/codahale/prims/digest"
	"github.com/codahale/prims/kdf"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestHashBasedRO(t *testing.T) {
	t.Parallel()

	o := NewHashBasedRO(nil)
	full := sha256.Sum256([]byte("this is functional"))

	for _, n := range []int{0, 1, 16, 32} {
		out, err := o.Compute([]byte("this is functional"), n)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, "prefix", full[:n], out)
	}

	_, err := o.Compute([]byte("this is functional"), 33)
	assert.Equal(t, "too long", prims.ErrOutOfRange, err, cmpopts.EquateErrors())
	assert.Equal(t, "name", "HashBasedRO", o.AlgorithmName())
}

func TestHKDFBasedRO(t *testing.T) {
	t.Parallel()

	o := NewHKDFBasedRO(nil)

	out, err := o.Compute([]byte("this is functional"), 100)
	if err != nil {
		t.Fatal(err)
	}

	key, err := kdf.NewHKDF(nil).DeriveKey([]byte("this is functional"), 100, []byte("RandomOracle\x00"))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "output", key.Bytes(), out)

	_, err = o.Compute(nil, 255*32+1)
	assert.Equal(t, "too long", prims.ErrOutOfRange, err, cmpopts.EquateErrors())
}

func TestStrobeRO(t *testing.T) {
	t.Parallel()

	o := NewStrobeRO("")

	a, err := o.Compute([]byte("this is functional"), 64)
	if err != nil {
		t.Fatal(err)
	}

	b, err := o.Compute([]byte("this is functional"), 64)
	if err != nil {
		t.Fatal(err)
	}

	short, err := o.Compute([]byte("this is functional"), 32)
	if err != nil {
		t.Fatal(err)
	}

	other, err := NewStrobeRO("other").Compute([]byte("this is functional"), 64)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "deterministic", a, b)
	assert.Equal(t, "length", 64, len(a))
	assert.Equal(t, "length separation", false, bytes.Equal(a[:32], short))
	assert.Equal(t, "domain separation", false, bytes.Equal(a, other))

	_, err = o.Compute(nil, -1)
	assert.Equal(t, "negative", prims.ErrOutOfRange, err, cmpopts.EquateErrors())
}

func TestScalar(t *testing.T) {
	t.Parallel()

	h, err := digest.New("SHA-512")
	if err != nil {
		t.Fatal(err)
	}

	for _, o := range []prims.RandomOracle{NewHashBasedRO(h), NewHKDFBasedRO(nil), NewStrobeRO("")} {
		a, err := Scalar(o, []byte("ok"))
		if err != nil {
			t.Fatal(err)
		}

		b, err := Scalar(o, []byte("ok"))
		if err != nil {
			t.Fatal(err)
		}

		c, err := Scalar(o, []byte("not ok"))
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, o.AlgorithmName()+" deterministic", a.Encode(nil), b.Encode(nil))
		assert.Equal(t, o.AlgorithmName()+" input sensitive", 0, a.Equal(c))
	}

	_, err = Scalar(NewHashBasedRO(nil), []byte("ok"))
	assert.Equal(t, "short hash", prims.ErrOutOfRange, err, cmpopts.EquateErrors())
}

func BenchmarkStrobeRO(b *testing.B) {
	o := NewStrobeRO("")
	src := make([]byte, 64)

	for i := 0; i < b.N; i++ {
		_, _ = o.Compute(src, 32)
	}
}
