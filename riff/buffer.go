package riff

import (
	"errors"
	"io"
)

// SeekableBuffer is an in-memory byte buffer implementing
// io.WriteSeeker and io.ReaderAt. The chunk writer uses it to build
// containers in memory before handing them to a Region.
type SeekableBuffer struct {
	data []byte
	pos  int64
}

// NewSeekableBuffer creates an empty SeekableBuffer
func NewSeekableBuffer() *SeekableBuffer {
	return &SeekableBuffer{}
}

// Write writes data at the current position, growing the buffer as
// needed and overwriting any existing bytes in range
func (sb *SeekableBuffer) Write(p []byte) (int, error) {
	end := sb.pos + int64(len(p))
	if end > int64(len(sb.data)) {
		grown := make([]byte, end)
		copy(grown, sb.data)
		sb.data = grown
	}
	copy(sb.data[sb.pos:], p)
	sb.pos = end
	return len(p), nil
}

// Seek sets the position for the next Write. Seeking past the end
// pads the buffer with zeros.
func (sb *SeekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = sb.pos + offset
	case io.SeekEnd:
		pos = int64(len(sb.data)) + offset
	default:
		return 0, errors.New("invalid seek whence")
	}

	if pos < 0 {
		return 0, errors.New("seek before start of buffer")
	}
	if pos > int64(len(sb.data)) {
		grown := make([]byte, pos)
		copy(grown, sb.data)
		sb.data = grown
	}

	sb.pos = pos
	return pos, nil
}

// ReadAt implements io.ReaderAt over the buffer contents
func (sb *SeekableBuffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(sb.data)) {
		return 0, io.EOF
	}
	n := copy(p, sb.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Bytes returns the buffer contents
func (sb *SeekableBuffer) Bytes() []byte {
	return sb.data
}

// Len returns the buffer length
func (sb *SeekableBuffer) Len() int {
	return len(sb.data)
}

// Reset empties the buffer
func (sb *SeekableBuffer) Reset() {
	sb.data = sb.data[:0]
	sb.pos = 0
}

// Region returns a Region over the current buffer contents
func (sb *SeekableBuffer) Region() *Region {
	return NewRegion(sb, int64(len(sb.data)))
}
