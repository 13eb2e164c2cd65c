package exif

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// Camera metadata is inconsistent across vendors and editors, so capture
// dates are read through an ordered chain of extractors, from the most
// authoritative field (DateTimeOriginal) down to the GPS fix time. The
// first extractor that yields a parseable date wins.

const (
	exifLayout       = "2006:01:02 15:04:05"
	exifSubSecLayout = "2006:01:02 15:04:05.000"
)

var errNoDate = errors.New("no capture date in metadata")

// Reader extracts capture dates from embedded image metadata.
type Reader struct{}

// CaptureDate returns the best-effort capture timestamp of an image file.
func (Reader) CaptureDate(ctx context.Context, path string) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}

	extractors := []func(*goexif.Exif) (time.Time, error){
		dateTimeOriginal,
		tiffDateTime,
		gpsDateTime,
	}
	for _, extract := range extractors {
		if t, err := extract(x); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errNoDate
}

// dateTimeOriginal reads EXIF DateTimeOriginal, refined by the sub-second
// field when present.
func dateTimeOriginal(x *goexif.Exif) (time.Time, error) {
	value, err := stringField(x, goexif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseTimestamp(value)
	if err != nil {
		return time.Time{}, err
	}
	if sub, err := stringField(x, goexif.SubSecTimeOriginal); err == nil {
		t = t.Add(subSecondOffset(sub))
	}
	return t, nil
}

// tiffDateTime reads the TIFF-level DateTime field.
func tiffDateTime(x *goexif.Exif) (time.Time, error) {
	value, err := stringField(x, goexif.DateTime)
	if err != nil {
		return time.Time{}, err
	}
	return parseTimestamp(value)
}

// gpsDateTime combines GPSDateStamp with the three GPSTimeStamp rationals
// into one string and parses it. GPS records the fix time, not necessarily
// the shutter time, which is why it sits last in the chain.
func gpsDateTime(x *goexif.Exif) (time.Time, error) {
	dateStamp, err := stringField(x, goexif.GPSDateStamp)
	if err != nil {
		return time.Time{}, err
	}

	tag, err := x.Get(goexif.GPSTimeStamp)
	if err != nil {
		return time.Time{}, err
	}
	var parts [3]float64
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return time.Time{}, errNoDate
		}
		parts[i] = float64(num) / float64(den)
	}

	combined := fmt.Sprintf("%s %02d:%02d:%06.3f", dateStamp, int(parts[0]), int(parts[1]), parts[2])
	return parseGPSTimestamp(combined)
}

// parseTimestamp parses the fixed EXIF layout in UTC, falling back to
// general ISO-8601.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(exifLayout, value, time.UTC); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// parseGPSTimestamp tries the sub-second layout before the plain one.
func parseGPSTimestamp(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(exifSubSecLayout, value, time.UTC); err == nil {
		return t, nil
	}
	return parseTimestamp(value)
}

// subSecondOffset interprets an EXIF sub-second field as the decimal
// fraction digits of a second: "7" is 0.7s, "123" is 0.123s. Non-numeric
// or overlong fields contribute nothing.
func subSecondOffset(field string) time.Duration {
	field = strings.TrimSpace(field)
	if field == "" || len(field) > 9 {
		return 0
	}
	nanos := int64(0)
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0
		}
		nanos = nanos*10 + int64(r-'0')
	}
	for i := len(field); i < 9; i++ {
		nanos *= 10
	}
	return time.Duration(nanos)
}

func stringField(x *goexif.Exif, name goexif.FieldName) (string, error) {
	tag, err := x.Get(name)
	if err != nil {
		return "", err
	}
	return tag.StringVal()
}
