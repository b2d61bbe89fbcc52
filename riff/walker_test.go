package riff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// buildContainer writes a small AVI-shaped container: a hdrl list
// with an avih chunk, a JUNK chunk, and a movi list with one frame
func buildContainer(t *testing.T, junk []byte) *SeekableBuffer {
	t.Helper()
	sb := NewSeekableBuffer()
	w := NewWriter(sb)

	if err := w.BeginRIFF(AVISignature); err != nil {
		t.Fatalf("BeginRIFF failed: %v", err)
	}
	if err := w.BeginList(HDRLList); err != nil {
		t.Fatalf("BeginList failed: %v", err)
	}
	if err := w.WriteChunk("avih", make([]byte, 56)); err != nil {
		t.Fatalf("WriteChunk avih failed: %v", err)
	}
	if err := w.End(); err != nil {
		t.Fatalf("End hdrl failed: %v", err)
	}
	if junk != nil {
		if err := w.WriteChunk(JUNKChunk, junk); err != nil {
			t.Fatalf("WriteChunk JUNK failed: %v", err)
		}
	}
	if err := w.BeginList(MOVIList); err != nil {
		t.Fatalf("BeginList movi failed: %v", err)
	}
	if err := w.WriteChunk("00dc", []byte{1, 2, 3}); err != nil {
		t.Fatalf("WriteChunk 00dc failed: %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	return sb
}

func TestWalk(t *testing.T) {
	junk := []byte("II*\x00junk payload")
	sb := buildContainer(t, junk)

	var seen []Chunk
	err := Walk(sb.Region(), func(c Chunk) bool {
		seen = append(seen, c)
		return true
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	want := []string{"avih", JUNKChunk, "00dc"}
	if len(seen) != len(want) {
		t.Fatalf("expected chunks %v, got %+v", want, seen)
	}
	for i, fourcc := range want {
		if seen[i].FourCC != fourcc {
			t.Errorf("chunk %d: got %q, expected %q", i, seen[i].FourCC, fourcc)
		}
	}

	// the JUNK payload round-trips through offset/size
	jc := seen[1]
	if jc.Size != uint32(len(junk)) {
		t.Errorf("JUNK size = %d, expected %d", jc.Size, len(junk))
	}
	got, err := sb.Region().ReadAt(jc.Offset, int(jc.Size))
	if err != nil {
		t.Fatalf("ReadAt JUNK payload failed: %v", err)
	}
	if !bytes.Equal(got, junk) {
		t.Errorf("JUNK payload = %q, expected %q", got, junk)
	}

	// the 00dc chunk has odd size, so the walker had to skip a pad
	// byte to reach the following chunks; reaching it at all means
	// alignment held for the chunks before it
	if seen[2].Size != 3 {
		t.Errorf("00dc size = %d, expected 3", seen[2].Size)
	}
}

func TestWalkEarlyStop(t *testing.T) {
	sb := buildContainer(t, []byte("x"))

	var count int
	err := Walk(sb.Region(), func(c Chunk) bool {
		count++
		return false
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if count != 1 {
		t.Errorf("callback ran %d times after stop, expected 1", count)
	}
}

func TestWalkBadSignatures(t *testing.T) {
	sb := buildContainer(t, nil)
	data := sb.Bytes()

	// not RIFF
	broken := append([]byte(nil), data...)
	copy(broken[0:4], "XXXX")
	bb := NewSeekableBuffer()
	bb.Write(broken)
	if err := Walk(bb.Region(), func(Chunk) bool { return true }); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for bad RIFF signature, got %v", err)
	}

	// RIFF but not AVI
	broken = append([]byte(nil), data...)
	copy(broken[8:12], "WAVE")
	bb = NewSeekableBuffer()
	bb.Write(broken)
	if err := Walk(bb.Region(), func(Chunk) bool { return true }); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for non-AVI form type, got %v", err)
	}
}

func TestWalkChunkOverrun(t *testing.T) {
	sb := buildContainer(t, []byte("abc"))
	data := append([]byte(nil), sb.Bytes()...)

	// find the JUNK chunk header and inflate its declared size
	idx := bytes.Index(data, []byte(JUNKChunk))
	if idx < 0 {
		t.Fatal("JUNK header not found")
	}
	binary.LittleEndian.PutUint32(data[idx+4:idx+8], 1<<30)

	bb := NewSeekableBuffer()
	bb.Write(data)
	err := Walk(bb.Region(), func(Chunk) bool { return true })
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for chunk size overrun, got %v", err)
	}
}

func TestWalkDeclaredSizeOverrun(t *testing.T) {
	sb := buildContainer(t, nil)
	data := append([]byte(nil), sb.Bytes()...)
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data))) // 8 bytes too many

	bb := NewSeekableBuffer()
	bb.Write(data)
	err := Walk(bb.Region(), func(Chunk) bool { return true })
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for RIFF size overrun, got %v", err)
	}
}

func TestFindChunk(t *testing.T) {
	sb := buildContainer(t, []byte("payload"))

	c, found, err := FindChunk(sb.Region(), JUNKChunk)
	if err != nil || !found {
		t.Fatalf("FindChunk = (%+v, %v, %v), expected found", c, found, err)
	}
	if c.FourCC != JUNKChunk || c.Size != 7 {
		t.Errorf("unexpected chunk %+v", c)
	}

	_, found, err = FindChunk(sb.Region(), "idx1")
	if err != nil {
		t.Fatalf("FindChunk failed: %v", err)
	}
	if found {
		t.Error("idx1 should not be found")
	}
}

func TestAlignSize(t *testing.T) {
	tests := []struct {
		input    uint32
		expected uint32
	}{
		{0, 0},
		{1, 2},
		{2, 2},
		{3, 4},
		{100, 100},
		{101, 102},
	}
	for _, test := range tests {
		if got := AlignSize(test.input); got != test.expected {
			t.Errorf("AlignSize(%d) = %d, expected %d", test.input, got, test.expected)
		}
	}
}

func TestFourCCHelpers(t *testing.T) {
	id := FourCCToBytes("LIST")
	if id != [4]byte{'L', 'I', 'S', 'T'} {
		t.Errorf("FourCCToBytes(\"LIST\") = %v", id)
	}
	if got := BytesToFourCC([4]byte{'R', 'I', 'F', 'F'}); got != "RIFF" {
		t.Errorf("BytesToFourCC = %q, expected \"RIFF\"", got)
	}
	if !IsList(RIFFSignature) || !IsList(LISTSignature) || IsList(JUNKChunk) {
		t.Error("IsList misclassifies signatures")
	}
}

func TestError(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Op: "walk", Err: inner}
	if err.Error() != "riff: walk: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap should expose the inner error")
	}
}
