package riff

import (
	"errors"
	"fmt"
)

// RIFF format constants
const (
	// Container signatures
	RIFFSignature = "RIFF"
	AVISignature  = "AVI "
	LISTSignature = "LIST"

	// List types
	HDRLList = "hdrl"
	MOVIList = "movi"

	// JUNKChunk is the padding chunk the Optio WG-1 GPS reuses to
	// carry its EXIF-style metadata block.
	JUNKChunk = "JUNK"
)

const (
	// HeaderSize is the size of a chunk header (FourCC + size)
	HeaderSize = 8
	// ListTypeSize is the size of the type code embedded in a LIST chunk
	ListTypeSize = 4
)

// ErrMalformed indicates the input is not a valid RIFF/AVI structure
var ErrMalformed = errors.New("malformed container")

// Chunk describes one chunk yielded by the walker. Offset is the
// absolute byte offset of the chunk payload within the region.
type Chunk struct {
	FourCC string
	Offset int64
	Size   uint32
}

// FourCCToBytes converts a chunk identifier string to its byte form
func FourCCToBytes(s string) [4]byte {
	var id [4]byte
	copy(id[:], s)
	return id
}

// BytesToFourCC converts a chunk identifier to string form
func BytesToFourCC(id [4]byte) string {
	return string(id[:])
}

// AlignSize rounds a chunk size up to RIFF's even-byte boundary
func AlignSize(size uint32) uint32 {
	return (size + 1) &^ 1
}

// IsList reports whether a FourCC introduces a nested chunk list
func IsList(fourcc string) bool {
	return fourcc == LISTSignature || fourcc == RIFFSignature
}

// Error wraps a failure with the operation that produced it
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("riff: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
