package mp4

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	gomp4 "github.com/abema/go-mp4"
)

// Offset between the MP4 epoch (1904-01-01) and the Unix epoch (1970-01-01).
const mp4EpochOffset = 2082844800

// Cameras with unset clocks write creation times at or near the container
// epoch; anything before Unix epoch or far in the future is discarded.
const futureThreshold = 24 * time.Hour

var errNoDate = errors.New("no capture date in container metadata")

// ©day date layouts seen in the wild, most specific first.
var dayLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006:01:02 15:04:05",
	"2006-01-02",
}

// Reader extracts capture dates from MP4-family video containers (MP4,
// MOV, M4V, 3GP).
type Reader struct{}

// CaptureDate returns the container-level creation time of a video file.
// It prefers the mvhd movie header; when that is absent or implausible it
// falls back to the ©day metadata entry.
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

	if t, err := movieHeaderTime(file); err == nil {
		return t, nil
	}

	if _, err := file.Seek(0, 0); err != nil {
		return time.Time{}, err
	}
	return dayEntryTime(file)
}

func movieHeaderTime(file *os.File) (time.Time, error) {
	boxes, err := gomp4.ExtractBoxWithPayload(file, nil, gomp4.BoxPath{
		gomp4.BoxTypeMoov(), gomp4.BoxTypeMvhd(),
	})
	if err != nil || len(boxes) == 0 {
		return time.Time{}, errNoDate
	}

	mvhd, ok := boxes[0].Payload.(*gomp4.Mvhd)
	if !ok {
		return time.Time{}, errNoDate
	}

	var creation uint64
	if mvhd.Version > 0 {
		creation = mvhd.CreationTimeV1
	} else {
		creation = uint64(mvhd.CreationTimeV0)
	}

	t := time.Unix(int64(creation)-mp4EpochOffset, 0).UTC()
	if !plausible(t) {
		return time.Time{}, errNoDate
	}
	return t, nil
}

func dayEntryTime(file *os.File) (time.Time, error) {
	boxes, err := gomp4.ExtractBoxWithPayload(file, nil, gomp4.BoxPath{
		gomp4.BoxTypeMoov(), gomp4.BoxTypeUdta(), gomp4.BoxTypeMeta(),
		gomp4.BoxTypeIlst(), gomp4.StrToBoxType("\xa9day"), gomp4.BoxTypeData(),
	})
	if err != nil {
		return time.Time{}, errNoDate
	}

	for _, box := range boxes {
		data, ok := box.Payload.(*gomp4.Data)
		if !ok {
			continue
		}
		if t, err := parseDayEntry(string(data.Data)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errNoDate
}

func parseDayEntry(value string) (time.Time, error) {
	value = strings.TrimRight(strings.TrimSpace(value), "\x00")
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errNoDate
}

func plausible(t time.Time) bool {
	if t.Unix() <= 0 {
		return false
	}
	return !t.After(time.Now().Add(futureThreshold))
}
