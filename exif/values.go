package exif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformedASCII indicates an ASCII payload with non-ASCII bytes
	ErrMalformedASCII = errors.New("malformed ascii value")
	// ErrZeroDenominator indicates a rational with denominator zero
	ErrZeroDenominator = errors.New("zero denominator")
)

// Rational is an unsigned numerator/denominator pair
type Rational struct {
	Num uint32
	Den uint32
}

// Float converts the rational to a decimal value
func (r Rational) Float() (float64, error) {
	if r.Den == 0 {
		return 0, fmt.Errorf("%w: %d/0", ErrZeroDenominator, r.Num)
	}
	return float64(r.Num) / float64(r.Den), nil
}

// SRational is a signed numerator/denominator pair
type SRational struct {
	Num int32
	Den int32
}

// Float converts the signed rational to a decimal value
func (r SRational) Float() (float64, error) {
	if r.Den == 0 {
		return 0, fmt.Errorf("%w: %d/0", ErrZeroDenominator, r.Num)
	}
	return float64(r.Num) / float64(r.Den), nil
}

// Rationals decodes a RATIONAL payload into its numerator/denominator
// pairs
func Rationals(payload []byte, order binary.ByteOrder) []Rational {
	rs := make([]Rational, 0, len(payload)/8)
	for i := 0; i+8 <= len(payload); i += 8 {
		rs = append(rs, Rational{
			Num: order.Uint32(payload[i : i+4]),
			Den: order.Uint32(payload[i+4 : i+8]),
		})
	}
	return rs
}

// ASCIIString converts an ASCII payload to a string. The trailing NUL
// terminator is stripped when present; payloads whose declared count
// already excludes it are accepted as-is. Trailing padding spaces are
// trimmed (the camera pads several GPS strings with blanks).
func ASCIIString(payload []byte) (string, error) {
	raw := payload
	if i := bytes.IndexByte(raw, 0); i != -1 {
		raw = raw[:i]
	}
	for _, b := range raw {
		if b >= 0x80 {
			return "", fmt.Errorf("%w: byte 0x%02X", ErrMalformedASCII, b)
		}
	}
	return strings.TrimRight(string(raw), " "), nil
}

// Degrees converts a degrees/minutes/seconds rational triple and its
// hemisphere reference to signed decimal degrees. "S" and "W" negate
// the magnitude; "N" and "E" leave it non-negative.
func Degrees(dms []Rational, ref string) (float64, error) {
	if len(dms) != 3 {
		return 0, fmt.Errorf("coordinate needs 3 rationals, got %d", len(dms))
	}

	var parts [3]float64
	for i, r := range dms {
		f, err := r.Float()
		if err != nil {
			return 0, err
		}
		parts[i] = f
	}

	deg := parts[0] + parts[1]/60 + parts[2]/3600
	switch ref {
	case "S", "W":
		return -deg, nil
	default:
		return deg, nil
	}
}

// VersionString renders a byte sequence as a dotted version, e.g.
// {2,3,0,0} -> "2.3.0.0"
func VersionString(payload []byte) string {
	parts := make([]string, len(payload))
	for i, b := range payload {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ".")
}

// Date-time layouts the camera is known to write. The EXIF colon form
// is standard; the ctime form appears in older firmware.
var dateTimeLayouts = []string{
	"2006:01:02 15:04:05",
	time.ANSIC,
	"2006-01-02 15:04:05",
}

// ParseDateTime parses a camera date-time string. The value is the
// camera's local clock, so no zone is attached.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000:00:00") {
		return time.Time{}, errors.New("date not set")
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date-time %q", s)
}

// GPSDateTime combines a GPSDateStamp payload with the GPSTimeStamp
// rational triple into one UTC timestamp. The date stamp is either an
// ASCII "YYYY:MM:DD" string or a year/month/day rational triple
// depending on firmware.
func GPSDateTime(datePayload []byte, dateType Type, timeOfDay []Rational, order binary.ByteOrder) (time.Time, error) {
	if len(timeOfDay) != 3 {
		return time.Time{}, fmt.Errorf("gps time stamp needs 3 rationals, got %d", len(timeOfDay))
	}

	var hms [3]int
	for i, r := range timeOfDay {
		f, err := r.Float()
		if err != nil {
			return time.Time{}, err
		}
		hms[i] = int(f)
	}

	var year, month, day int
	switch dateType {
	case ASCII:
		s, err := ASCIIString(datePayload)
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse("2006:01:02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized gps date %q", s)
		}
		year, month, day = t.Year(), int(t.Month()), t.Day()
	case RATIONAL:
		ymd := Rationals(datePayload, order)
		if len(ymd) != 3 {
			return time.Time{}, fmt.Errorf("gps date stamp needs 3 rationals, got %d", len(ymd))
		}
		for i, r := range ymd {
			f, err := r.Float()
			if err != nil {
				return time.Time{}, err
			}
			switch i {
			case 0:
				year = int(f)
			case 1:
				month = int(f)
			case 2:
				day = int(f)
			}
		}
	default:
		return time.Time{}, fmt.Errorf("unexpected gps date stamp type %s", dateType.Name())
	}

	return time.Date(year, time.Month(month), day, hms[0], hms[1], hms[2], 0, time.UTC), nil
}
