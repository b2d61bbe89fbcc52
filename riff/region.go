package riff

import (
	"fmt"
	"io"
)

// Region provides bounded random access over a byte source. Every read
// is checked against the region bounds; an out-of-range read fails
// instead of returning short data.
type Region struct {
	r    io.ReaderAt
	base int64
	size int64
}

// NewRegion wraps a byte source of the given size
func NewRegion(r io.ReaderAt, size int64) *Region {
	return &Region{r: r, size: size}
}

// Size returns the region length in bytes
func (rg *Region) Size() int64 {
	return rg.size
}

// ReadAt reads exactly n bytes at the given offset within the region
func (rg *Region) ReadAt(off int64, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+int64(n) > rg.size {
		return nil, &Error{
			Op:  "read",
			Err: fmt.Errorf("%w: range [%d,%d) outside region of %d bytes", ErrMalformed, off, off+int64(n), rg.size),
		}
	}
	buf := make([]byte, n)
	if _, err := rg.r.ReadAt(buf, rg.base+off); err != nil {
		return nil, &Error{Op: "read", Err: err}
	}
	return buf, nil
}

// Section returns a sub-region of n bytes starting at off
func (rg *Region) Section(off int64, n int64) (*Region, error) {
	if off < 0 || n < 0 || off+n > rg.size {
		return nil, &Error{
			Op:  "section",
			Err: fmt.Errorf("%w: range [%d,%d) outside region of %d bytes", ErrMalformed, off, off+n, rg.size),
		}
	}
	return &Region{r: rg.r, base: rg.base + off, size: n}, nil
}
