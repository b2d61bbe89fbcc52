// Package exif decodes the EXIF-style tag directories (IFDs) that the
// Optio WG-1 GPS embeds in its AVI files, and converts raw tag
// payloads into typed values.
package exif

// Type is a TIFF/EXIF data type code
type Type uint16

// TIFF data types (uppercase as in the TIFF spec)
const (
	BYTE      Type = 1
	ASCII     Type = 2
	SHORT     Type = 3
	LONG      Type = 4
	RATIONAL  Type = 5
	SBYTE     Type = 6
	UNDEFINED Type = 7
	SSHORT    Type = 8
	SLONG     Type = 9
	SRATIONAL Type = 10
	FLOAT     Type = 11
	DOUBLE    Type = 12
	IFDType   Type = 13 // TIFF Supplement 1
)

var typeSizes = map[Type]uint32{
	BYTE:      1,
	ASCII:     1,
	SHORT:     2,
	LONG:      4,
	RATIONAL:  8,
	SBYTE:     1,
	UNDEFINED: 1,
	SSHORT:    2,
	SLONG:     4,
	SRATIONAL: 8,
	FLOAT:     4,
	DOUBLE:    8,
	IFDType:   4,
}

var typeNames = map[Type]string{
	BYTE:      "Byte",
	ASCII:     "ASCII",
	SHORT:     "Short",
	LONG:      "Long",
	RATIONAL:  "Rational",
	SBYTE:     "SByte",
	UNDEFINED: "Undefined",
	SSHORT:    "SShort",
	SLONG:     "SLong",
	SRATIONAL: "SRational",
	FLOAT:     "Float",
	DOUBLE:    "Double",
	IFDType:   "IFD",
}

// Size returns the byte size of a single value of the type, or 0 for
// an unknown type code
func (t Type) Size() uint32 {
	return typeSizes[t]
}

// Name returns the spec name of the type
func (t Type) Name() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Tag is a 16-bit IFD tag identifier
type Tag uint16

// Tags the WG-1 writes into its main IFD (standard TIFF/EXIF ids)
const (
	TagModel                       Tag = 0x0110
	TagDateTime                    Tag = 0x0132
	TagJPEGInterchangeFormat       Tag = 0x0201
	TagJPEGInterchangeFormatLength Tag = 0x0202
	TagExifIFD                     Tag = 0x8769
	TagGPSIFD                      Tag = 0x8825
	TagDateTimeOriginal            Tag = 0x9003
)

// Tags of the GPSInfo IFD (Exif 2.3 section 4.6.6)
const (
	GPSVersionID    Tag = 0x00
	GPSLatitudeRef  Tag = 0x01
	GPSLatitude     Tag = 0x02
	GPSLongitudeRef Tag = 0x03
	GPSLongitude    Tag = 0x04
	GPSAltitudeRef  Tag = 0x05
	GPSAltitude     Tag = 0x06
	GPSTimeStamp    Tag = 0x07
	GPSSatellites   Tag = 0x08
	GPSStatus       Tag = 0x09
	GPSMeasureMode  Tag = 0x0A
	GPSMapDatum     Tag = 0x12
	GPSDateStamp    Tag = 0x1D
)
