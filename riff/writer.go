package riff

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer builds RIFF containers chunk by chunk. Sizes of open lists
// are back-patched when the list is closed, so callers do not need to
// know payload sizes up front. Package tests use it to build
// synthetic containers.
type Writer struct {
	w io.WriteSeeker
	// offsets of the size fields of currently open RIFF/LIST chunks
	open []int64
}

// NewWriter creates a Writer over a seekable sink
func NewWriter(w io.WriteSeeker) *Writer {
	return &Writer{w: w}
}

// BeginRIFF opens the top-level RIFF chunk with the given form type
// (e.g. "AVI ")
func (w *Writer) BeginRIFF(formType string) error {
	return w.beginList(RIFFSignature, formType)
}

// BeginList opens a LIST chunk with the given list type (e.g. "hdrl")
func (w *Writer) BeginList(listType string) error {
	return w.beginList(LISTSignature, listType)
}

func (w *Writer) beginList(fourcc, typeCode string) error {
	pos, err := w.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return &Error{Op: "begin " + fourcc, Err: err}
	}

	hdr := make([]byte, HeaderSize+ListTypeSize)
	id := FourCCToBytes(fourcc)
	copy(hdr[0:4], id[:])
	// size field at hdr[4:8] is patched by End
	tc := FourCCToBytes(typeCode)
	copy(hdr[8:12], tc[:])

	if _, err := w.w.Write(hdr); err != nil {
		return &Error{Op: "begin " + fourcc, Err: err}
	}

	w.open = append(w.open, pos+4)
	return nil
}

// End closes the most recently opened RIFF/LIST chunk, patching its
// size field
func (w *Writer) End() error {
	if len(w.open) == 0 {
		return &Error{Op: "end", Err: fmt.Errorf("no open list")}
	}

	sizePos := w.open[len(w.open)-1]
	w.open = w.open[:len(w.open)-1]

	end, err := w.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return &Error{Op: "end", Err: err}
	}

	// size counts everything after the size field
	size := uint32(end - sizePos - 4)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], size)

	if _, err := w.w.Seek(sizePos, io.SeekStart); err != nil {
		return &Error{Op: "end", Err: err}
	}
	if _, err := w.w.Write(buf[:]); err != nil {
		return &Error{Op: "end", Err: err}
	}
	if _, err := w.w.Seek(end, io.SeekStart); err != nil {
		return &Error{Op: "end", Err: err}
	}

	return nil
}

// WriteChunk writes a complete chunk with the given payload, adding
// RIFF's pad byte when the payload length is odd
func (w *Writer) WriteChunk(fourcc string, payload []byte) error {
	hdr := make([]byte, HeaderSize)
	id := FourCCToBytes(fourcc)
	copy(hdr[0:4], id[:])
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(payload)))

	if _, err := w.w.Write(hdr); err != nil {
		return &Error{Op: "write chunk", Err: err}
	}
	if _, err := w.w.Write(payload); err != nil {
		return &Error{Op: "write chunk", Err: err}
	}
	if len(payload)%2 == 1 {
		if _, err := w.w.Write([]byte{0}); err != nil {
			return &Error{Op: "write chunk", Err: err}
		}
	}

	return nil
}

// Finalize closes any lists still open
func (w *Writer) Finalize() error {
	for len(w.open) > 0 {
		if err := w.End(); err != nil {
			return err
		}
	}
	return nil
}
