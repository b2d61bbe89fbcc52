package exif

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	entrySize       = 12
	inlineValueSize = 4
	tiffMagic       = 42
)

var (
	// ErrBadHeader indicates the block does not start with a valid
	// TIFF byte order marker and magic number
	ErrBadHeader = errors.New("invalid tiff header")
	// ErrTruncated indicates a directory or payload offset reaches
	// past the end of the block
	ErrTruncated = errors.New("truncated ifd")
	// ErrUnknownType indicates a tag with a type code this decoder
	// does not know; the entry is skippable, not fatal
	ErrUnknownType = errors.New("unknown tag type")
)

// DecodeHeader reads the TIFF header at the start of a metadata block
// and returns the byte order together with the offset of the first
// IFD. All offsets inside the block, including the returned one, are
// relative to the start of the block.
func DecodeHeader(block []byte) (binary.ByteOrder, uint32, error) {
	if len(block) < 8 {
		return nil, 0, fmt.Errorf("%w: block of %d bytes too short", ErrBadHeader, len(block))
	}

	var order binary.ByteOrder
	switch {
	case block[0] == 'I' && block[1] == 'I':
		order = binary.LittleEndian
	case block[0] == 'M' && block[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, 0, fmt.Errorf("%w: byte order marker %q", ErrBadHeader, block[0:2])
	}

	if order.Uint16(block[2:4]) != tiffMagic {
		return nil, 0, fmt.Errorf("%w: bad magic number", ErrBadHeader)
	}

	return order, order.Uint32(block[4:8]), nil
}

// Entry is one directory entry: tag id, data type, value count and
// the raw 4-byte value field, which holds either the payload itself
// or an offset to it.
type Entry struct {
	Tag   Tag
	Type  Type
	Count uint32

	value [4]byte
}

// Payload resolves the entry's raw payload bytes within the metadata
// block. This is the single place the inline-vs-offset rule and the
// block-relative offset arithmetic live; the main IFD, the GPS IFD
// and the thumbnail IFD all resolve through it.
func (e Entry) Payload(block []byte, order binary.ByteOrder) ([]byte, error) {
	size := e.Type.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: tag 0x%04X type %d", ErrUnknownType, uint16(e.Tag), uint16(e.Type))
	}

	n := uint64(size) * uint64(e.Count)
	if n <= inlineValueSize {
		return e.value[:n], nil
	}

	off := uint64(order.Uint32(e.value[:]))
	if off+n > uint64(len(block)) {
		return nil, fmt.Errorf("%w: tag 0x%04X payload [%d,%d) outside block of %d bytes",
			ErrTruncated, uint16(e.Tag), off, off+n, len(block))
	}
	return block[off : off+n], nil
}

// IFD is a decoded directory: its entries in file order plus the
// block-relative offset of the next IFD in the chain (0 if none).
type IFD struct {
	Entries []Entry
	Next    uint32
}

// Find returns the entry with the given tag
func (d *IFD) Find(tag Tag) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// DecodeIFD decodes the directory at the given block-relative offset:
// a 2-byte entry count, count 12-byte entries, then the 4-byte offset
// of the next IFD. Decoding the same bytes twice yields identical
// entry sequences.
func DecodeIFD(block []byte, offset uint32, order binary.ByteOrder) (*IFD, error) {
	off := uint64(offset)
	if off+2 > uint64(len(block)) {
		return nil, fmt.Errorf("%w: directory offset %d outside block of %d bytes", ErrTruncated, offset, len(block))
	}

	count := uint64(order.Uint16(block[off : off+2]))
	dirEnd := off + 2 + count*entrySize
	if dirEnd+4 > uint64(len(block)) {
		return nil, fmt.Errorf("%w: directory at %d declares %d entries past block of %d bytes",
			ErrTruncated, offset, count, len(block))
	}

	d := &IFD{Entries: make([]Entry, 0, count)}
	for i := uint64(0); i < count; i++ {
		raw := block[off+2+i*entrySize:]
		e := Entry{
			Tag:   Tag(order.Uint16(raw[0:2])),
			Type:  Type(order.Uint16(raw[2:4])),
			Count: order.Uint32(raw[4:8]),
		}
		copy(e.value[:], raw[8:12])
		d.Entries = append(d.Entries, e)
	}

	d.Next = order.Uint32(block[dirEnd : dirEnd+4])
	return d, nil
}
