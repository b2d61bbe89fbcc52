package metadata

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/nobmrkt/wg1gps/exif"
	"github.com/nobmrkt/wg1gps/riff"
)

// Extract decodes the metadata record from an AVI byte source. It is
// the single public operation of this library; ExtractFile wraps it
// for the common file case.
//
// The walk locates the camera's JUNK chunk, the top-level IFD yields
// the camera model and capture time, and the GPS sub-IFD, when the
// pointer tag is present, yields the fix. A tag that fails to decode
// leaves its field absent; only a missing camera model or a broken
// container/directory structure aborts the extraction.
func Extract(r io.ReaderAt, size int64) (*Record, error) {
	rg := riff.NewRegion(r, size)

	block, err := findMetadataBlock(rg)
	if err != nil {
		return nil, err
	}

	order, ifd0Offset, err := exif.DecodeHeader(block)
	if err != nil {
		// cannot happen: findMetadataBlock only accepts blocks with
		// a valid header
		return nil, err
	}

	ifd0, err := exif.DecodeIFD(block, ifd0Offset, order)
	if err != nil {
		return nil, err
	}

	dec := &decoder{block: block, order: order}

	rec := &Record{}
	rec.CameraModel, _ = dec.ascii(ifd0, exif.TagModel)
	if rec.CameraModel == "" {
		return nil, ErrNoModel
	}

	if s, ok := dec.ascii(ifd0, exif.TagDateTimeOriginal); ok {
		if t, err := exif.ParseDateTime(s); err == nil {
			rec.DateTimeOriginal = t
		}
	}
	if rec.DateTimeOriginal.IsZero() {
		if s, ok := dec.ascii(ifd0, exif.TagDateTime); ok {
			if t, err := exif.ParseDateTime(s); err == nil {
				rec.DateTimeOriginal = t
			}
		}
	}

	if gpsOffset, ok := dec.long(ifd0, exif.TagGPSIFD); ok {
		gpsIFD, err := exif.DecodeIFD(block, gpsOffset, order)
		if err != nil {
			return nil, err
		}
		rec.GPS = dec.gpsInfo(gpsIFD)
	}

	rec.Thumbnail = dec.thumbnail(ifd0)

	return rec, nil
}

// ExtractFile extracts the metadata record from an AVI file. The file
// handle is released on every path.
func ExtractFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return Extract(f, stat.Size())
}

// findMetadataBlock walks the container for a JUNK chunk whose
// payload starts with a TIFF header. Ordinary AVI files use JUNK for
// plain zero padding, so a chunk that does not parse is skipped
// rather than treated as an error.
func findMetadataBlock(rg *riff.Region) ([]byte, error) {
	var block []byte
	err := riff.Walk(rg, func(c riff.Chunk) bool {
		if c.FourCC != riff.JUNKChunk {
			return true
		}
		b, err := rg.ReadAt(c.Offset, int(c.Size))
		if err != nil {
			return true
		}
		if _, _, err := exif.DecodeHeader(b); err != nil {
			return true
		}
		block = b
		return false
	})
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, fmt.Errorf("%w: no JUNK chunk with an EXIF block", ErrNoMetadata)
	}
	return block, nil
}

// decoder resolves tag payloads within one metadata block. All
// per-field failures surface as ok=false, never as errors.
type decoder struct {
	block []byte
	order binary.ByteOrder
}

func (d *decoder) payload(dir *exif.IFD, tag exif.Tag) ([]byte, exif.Type, bool) {
	e, ok := dir.Find(tag)
	if !ok {
		return nil, 0, false
	}
	p, err := e.Payload(d.block, d.order)
	if err != nil {
		return nil, 0, false
	}
	return p, e.Type, true
}

func (d *decoder) ascii(dir *exif.IFD, tag exif.Tag) (string, bool) {
	p, _, ok := d.payload(dir, tag)
	if !ok {
		return "", false
	}
	s, err := exif.ASCIIString(p)
	if err != nil {
		return "", false
	}
	return s, true
}

func (d *decoder) rationals(dir *exif.IFD, tag exif.Tag) ([]exif.Rational, bool) {
	p, _, ok := d.payload(dir, tag)
	if !ok {
		return nil, false
	}
	return exif.Rationals(p, d.order), true
}

func (d *decoder) long(dir *exif.IFD, tag exif.Tag) (uint32, bool) {
	p, _, ok := d.payload(dir, tag)
	if !ok || len(p) < 4 {
		return 0, false
	}
	return d.order.Uint32(p), true
}

// gpsInfo assembles the GPS sub-record from the GPS IFD. A file
// written without satellite reception carries the IFD with an empty
// latitude reference; that counts as "no fix" and yields nil.
func (d *decoder) gpsInfo(dir *exif.IFD) *GPSInfo {
	latRef, _ := d.ascii(dir, exif.GPSLatitudeRef)
	if latRef == "" {
		return nil
	}

	gps := &GPSInfo{}

	if p, _, ok := d.payload(dir, exif.GPSVersionID); ok {
		gps.VersionID = exif.VersionString(p)
	}

	if dms, ok := d.rationals(dir, exif.GPSLatitude); ok {
		if deg, err := exif.Degrees(dms, latRef); err == nil {
			gps.Latitude = &deg
		}
	}
	if lonRef, ok := d.ascii(dir, exif.GPSLongitudeRef); ok {
		if dms, ok := d.rationals(dir, exif.GPSLongitude); ok {
			if deg, err := exif.Degrees(dms, lonRef); err == nil {
				gps.Longitude = &deg
			}
		}
	}

	if rs, ok := d.rationals(dir, exif.GPSAltitude); ok && len(rs) == 1 {
		if alt, err := rs[0].Float(); err == nil {
			if p, _, ok := d.payload(dir, exif.GPSAltitudeRef); ok && len(p) == 1 && p[0] == 1 {
				alt = -alt
			}
			gps.Altitude = &alt
		}
	}

	if tod, ok := d.rationals(dir, exif.GPSTimeStamp); ok {
		if p, typ, ok := d.payload(dir, exif.GPSDateStamp); ok {
			if t, err := exif.GPSDateTime(p, typ, tod, d.order); err == nil {
				gps.DateTime = t
			}
		}
	}

	// plain string tags
	for tag, dst := range map[exif.Tag]*string{
		exif.GPSSatellites:  &gps.Satellites,
		exif.GPSStatus:      &gps.Status,
		exif.GPSMeasureMode: &gps.MeasureMode,
		exif.GPSMapDatum:    &gps.MapDatum,
	} {
		if s, ok := d.ascii(dir, tag); ok {
			*dst = s
		}
	}

	return gps
}

// thumbnail follows the next-IFD pointer after the main IFD and pulls
// the embedded JPEG via the interchange format pair, if present
func (d *decoder) thumbnail(ifd0 *exif.IFD) []byte {
	if ifd0.Next == 0 {
		return nil
	}
	ifd1, err := exif.DecodeIFD(d.block, ifd0.Next, d.order)
	if err != nil {
		return nil
	}

	off, ok := d.long(ifd1, exif.TagJPEGInterchangeFormat)
	if !ok {
		return nil
	}
	length, ok := d.long(ifd1, exif.TagJPEGInterchangeFormatLength)
	if !ok {
		return nil
	}

	end := uint64(off) + uint64(length)
	if end > uint64(len(d.block)) {
		return nil
	}

	thumb := make([]byte, length)
	copy(thumb, d.block[off:end])
	return thumb
}
