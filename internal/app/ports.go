package app

import (
	"context"
	"io/fs"
	"time"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldPath, newPath string) error
	Remove(path string) error
	CreateProbe(dir, pattern string) (string, error)
	CopyFile(src, dst string) error
}

// CaptureDater extracts an embedded capture timestamp from a media file.
// Implementations exist for image metadata and video containers.
type CaptureDater interface {
	CaptureDate(ctx context.Context, path string) (time.Time, error)
}
