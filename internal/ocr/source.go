package ocr

import (
	"net/url"
	"path/filepath"
)

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourcePath
	sourceBytes
)

// ImageSource is the caller's image: either a file path or an in-memory
// encoded image. The zero value is an empty placeholder.
//
// A byte-backed source owns its buffer. Hand it to the pipeline with Take; once
// taken, the original variable is empty and must not be used for image data.
type ImageSource struct {
	kind sourceKind
	path string
	data []byte
}

// FromPath returns a source that lets the engine read the file itself.
func FromPath(path string) ImageSource {
	return ImageSource{kind: sourcePath, path: path}
}

// FromBytes returns a source that owns data. The caller must not modify data
// after this call.
func FromBytes(data []byte) ImageSource {
	return ImageSource{kind: sourceBytes, data: data}
}

// Take moves the image out of s and leaves s empty.
func (s *ImageSource) Take() ImageSource {
	taken := *s
	*s = ImageSource{}
	return taken
}

// IsEmpty reports whether s holds no image, either because it was never set
// or because it has been taken.
func (s ImageSource) IsEmpty() bool {
	return s.kind == sourceNone
}

// Path returns the file path and true for a path-backed source.
func (s ImageSource) Path() (string, bool) {
	return s.path, s.kind == sourcePath
}

// Len returns the buffer size for a byte-backed source, 0 otherwise.
func (s ImageSource) Len() int {
	return len(s.data)
}

func (s ImageSource) String() string {
	switch s.kind {
	case sourcePath:
		return "path:" + s.path
	case sourceBytes:
		return "bytes"
	default:
		return "empty"
	}
}

// ImageHandle is what an Engine reads the image from. Exactly one field is set
// for a valid handle.
type ImageHandle struct {
	// URL is a file:// URL for path sources.
	URL *url.URL

	// Data aliases the source's buffer for byte sources. It is not a copy and
	// stays valid only for the duration of the call.
	Data []byte
}

// FilePath returns the local path behind URL, or "" for a byte handle.
func (h ImageHandle) FilePath() string {
	if h.URL == nil {
		return ""
	}
	return filepath.FromSlash(h.URL.Path)
}

// IsEmpty reports whether the handle points at no image at all.
func (h ImageHandle) IsEmpty() bool {
	return h.URL == nil && len(h.Data) == 0
}

// ResolveImage builds an engine handle from src without reading or copying any
// image bytes. An empty source yields an empty handle; the engine reports that
// as a failure when it performs the request.
func ResolveImage(src ImageSource) ImageHandle {
	switch src.kind {
	case sourcePath:
		path := src.path
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return ImageHandle{URL: &url.URL{Scheme: "file", Path: filepath.ToSlash(path)}}
	case sourceBytes:
		return ImageHandle{Data: src.data}
	default:
		return ImageHandle{}
	}
}
