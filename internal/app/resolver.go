package app

import (
	"context"
	"time"

	"mediasort/internal/domain"
	"mediasort/internal/logging"
)

// DateResolver produces a best-effort capture timestamp for a media entry.
// Resolution never fails: when the embedded metadata yields nothing the
// resolver falls back to the file's timestamp on disk, and as a last
// resort to the current time. Extraction problems are not errors here.
type DateResolver struct {
	FS     FileSystem
	Image  CaptureDater
	Video  CaptureDater
	Logger logging.Logger
	Now    func() time.Time
}

// Resolve returns the capture date to file the entry under.
func (r DateResolver) Resolve(ctx context.Context, entry domain.MediaEntry) time.Time {
	var dater CaptureDater
	switch entry.Kind {
	case domain.KindImage:
		dater = r.Image
	case domain.KindVideo:
		dater = r.Video
	}

	if dater != nil {
		if t, err := dater.CaptureDate(ctx, entry.Path); err == nil && !t.IsZero() {
			return t.UTC()
		}
		r.Logger.Verbosef("No capture metadata for %s, using filesystem time", entry.Name)
	}

	if r.FS != nil {
		if info, err := r.FS.Stat(entry.Path); err == nil {
			return info.ModTime().UTC()
		}
	}

	return r.now().UTC()
}

func (r DateResolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
