package riff

import (
	"encoding/binary"
	"fmt"
)

// Walk traverses the chunk tree of a RIFF/AVI region depth-first,
// calling fn for every non-list chunk. List chunks (RIFF, LIST) are
// not yielded themselves; their children are flattened into the same
// sequence. fn returns false to stop the walk early.
//
// The walk fails with ErrMalformed (wrapped in *Error) if the leading
// signature is not RIFF/"AVI " or a declared chunk size would read
// past the end of the region.
func Walk(rg *Region, fn func(Chunk) bool) error {
	hdr, err := rg.ReadAt(0, HeaderSize+ListTypeSize)
	if err != nil {
		return err
	}

	if string(hdr[0:4]) != RIFFSignature {
		return &Error{Op: "walk", Err: fmt.Errorf("%w: not a RIFF file", ErrMalformed)}
	}
	if string(hdr[8:12]) != AVISignature {
		return &Error{Op: "walk", Err: fmt.Errorf("%w: not an AVI file", ErrMalformed)}
	}

	riffSize := binary.LittleEndian.Uint32(hdr[4:8])
	end := int64(HeaderSize) + int64(riffSize)
	if end > rg.Size() {
		return &Error{Op: "walk", Err: fmt.Errorf("%w: declared size %d exceeds region of %d bytes", ErrMalformed, riffSize, rg.Size())}
	}

	_, err = walkChunks(rg, int64(HeaderSize+ListTypeSize), end, fn)
	return err
}

// walkChunks walks the flat chunk sequence in [off, end), descending
// into lists. Returns false if fn stopped the walk.
func walkChunks(rg *Region, off, end int64, fn func(Chunk) bool) (bool, error) {
	for off+HeaderSize <= end {
		hdr, err := rg.ReadAt(off, HeaderSize)
		if err != nil {
			return false, err
		}

		fourcc := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		payload := off + HeaderSize
		if payload+int64(size) > end {
			return false, &Error{
				Op:  "walk",
				Err: fmt.Errorf("%w: chunk %q at offset %d declares %d bytes past region end", ErrMalformed, fourcc, off, size),
			}
		}

		if IsList(fourcc) {
			if size < ListTypeSize {
				return false, &Error{
					Op:  "walk",
					Err: fmt.Errorf("%w: list chunk at offset %d too small for type code", ErrMalformed, off),
				}
			}
			more, err := walkChunks(rg, payload+ListTypeSize, payload+int64(size), fn)
			if err != nil || !more {
				return more, err
			}
		} else {
			if !fn(Chunk{FourCC: fourcc, Offset: payload, Size: size}) {
				return false, nil
			}
		}

		off = payload + int64(AlignSize(size))
	}
	return true, nil
}

// FindChunk walks the region and returns the first chunk with the
// given FourCC, or found=false if the container has none.
func FindChunk(rg *Region, fourcc string) (Chunk, bool, error) {
	var target Chunk
	found := false
	err := Walk(rg, func(c Chunk) bool {
		if c.FourCC == fourcc {
			target = c
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return Chunk{}, false, err
	}
	return target, found, nil
}
