package prims

import "fmt"

// Window returns the n-byte view of buf starting at off. The view aliases buf and has its capacity
// clipped to n, so appends can never spill into the rest of buf.
func Window(buf []byte, off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(buf) || n > len(buf)-off {
		return nil, fmt.Errorf("%w: wrong offset %d and length %d for a buffer of %d bytes",
			ErrOutOfRange, off, n, len(buf))
	}

	return buf[off : off+n : off+n], nil
}

// CheckKeyed returns ErrIllegalState if p has no key.
func CheckKeyed(p Primitive) error {
	if !p.IsKeyDefined() {
		return fmt.Errorf("%w: %s", ErrIllegalState, p.AlgorithmName())
	}

	return nil
}

// CheckLen returns ErrOutOfRange if a buffer of length got is shorter than want.
func CheckLen(name string, got, want int) error {
	if got < want {
		return fmt.Errorf("%w: %s is %d bytes, need %d", ErrOutOfRange, name, got, want)
	}

	return nil
}

// CheckExact returns ErrOutOfRange if got is not exactly want.
func CheckExact(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s should be %d bytes, got %d", ErrOutOfRange, name, want, got)
	}

	return nil
}
