// Package metadata extracts camera and GPS metadata from videos
// recorded by the PENTAX Optio WG-1 GPS. The camera stores an
// EXIF-style tag block inside the JUNK chunk of its AVI files; other
// camera models are not supported.
package metadata

import (
	"errors"
	"os"
	"time"
)

var (
	// ErrNoMetadata indicates a valid AVI container without the
	// camera's metadata block (wrong camera model or re-encoded
	// file). Callers typically skip such files.
	ErrNoMetadata = errors.New("metadata chunk not found")
	// ErrNoModel indicates a metadata block without a camera model
	// tag; the record would be meaningless without it
	ErrNoModel = errors.New("camera model missing")
)

// GPSInfo holds the satellite fix recorded at capture time. Fields
// whose tags are absent or undecodable keep their zero value; the
// coordinate and altitude pointers are nil when absent.
type GPSInfo struct {
	// VersionID is the GPSInfo IFD version, e.g. "2.3.0.0"
	VersionID string
	// DateTime is the satellite clock time of the fix, UTC
	DateTime time.Time
	// Latitude and Longitude are signed decimal degrees; south and
	// west are negative
	Latitude  *float64
	Longitude *float64
	// Altitude is meters above sea level, negative below
	Altitude *float64
	// Satellites is the count of satellites used, as written by the
	// camera (may keep a leading zero, e.g. "07")
	Satellites string
	// Status is "A" for a valid fix, "V" for void
	Status string
	// MeasureMode is "2" for 2D or "3" for 3D positioning
	MeasureMode string
	// MapDatum is the geodetic survey datum, typically "WGS-84"
	MapDatum string
}

// Record is the metadata extracted from one video file. CameraModel
// is always set; everything else is optional.
type Record struct {
	CameraModel string
	// DateTimeOriginal is the capture time on the camera's own
	// clock (world time setting), no zone attached
	DateTimeOriginal time.Time
	// Thumbnail is the embedded JPEG thumbnail, if any
	Thumbnail []byte
	// GPS is nil when the file carries no fix
	GPS *GPSInfo
}

// SaveThumbnail writes the embedded thumbnail to a file
func (r *Record) SaveThumbnail(path string) error {
	if len(r.Thumbnail) == 0 {
		return errors.New("record has no thumbnail")
	}
	return os.WriteFile(path, r.Thumbnail, 0o644)
}
