package domain

import (
	"path/filepath"
	"strings"
)

// Kind is the broad media category of a discovered file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// MediaEntry is a single discovered media file. Entries are created by the
// collector and consumed once by the sorting pipeline.
type MediaEntry struct {
	Path string // absolute path
	Name string // base name with extension
	Ext  string // lowercase extension including the dot
	Kind Kind
}

func NewMediaEntry(path string, kind Kind) MediaEntry {
	name := filepath.Base(path)
	return MediaEntry{
		Path: path,
		Name: name,
		Ext:  strings.ToLower(filepath.Ext(name)),
		Kind: kind,
	}
}

// extensionToKind is the allow-list of recognized media formats. Anything
// outside this table is not a candidate at all.
var extensionToKind = map[string]Kind{
	// processed pictures
	".jpg": KindImage, ".jpeg": KindImage, ".jpe": KindImage,
	".png":  KindImage,
	".gif":  KindImage,
	".bmp":  KindImage,
	".tiff": KindImage, ".tif": KindImage,
	".heic": KindImage, ".heif": KindImage, ".hif": KindImage,
	".webp": KindImage,

	// camera raw
	".arw": KindImage, ".cr2": KindImage, ".cr3": KindImage, ".crw": KindImage,
	".dng": KindImage, ".erf": KindImage, ".nef": KindImage, ".orf": KindImage,
	".pef": KindImage, ".raf": KindImage, ".raw": KindImage, ".rw2": KindImage,
	".sr2": KindImage, ".srf": KindImage, ".x3f": KindImage,

	// video containers
	".mov": KindVideo, ".mp4": KindVideo, ".m4v": KindVideo,
	".3gp": KindVideo, ".3g2": KindVideo,
	".avi": KindVideo, ".mkv": KindVideo, ".webm": KindVideo,
	".mts": KindVideo, ".m2ts": KindVideo,
}

// ClassifyPath reports the media kind for a path based on its extension.
func ClassifyPath(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	kind, ok := extensionToKind[ext]
	return kind, ok
}
