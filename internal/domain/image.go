package domain

import (
	"path/filepath"
	"strings"
)

// ImageCandidate is an uploaded file as received from the caller.
type ImageCandidate struct {
	Data        []byte
	ContentType string
	Filename    string
}

func (c ImageCandidate) Size() int64 {
	return int64(len(c.Data))
}

func (c ImageCandidate) Extension() string {
	return strings.ToLower(filepath.Ext(c.Filename))
}

type SizeBudget struct {
	MaxBytes  int64 `validate:"gt=0"`
	MaxWidth  int   `validate:"gt=0"`
	MaxHeight int   `validate:"gt=0"`
}

// ProcessedImage is the artifact handed to storage. Attempts lists the
// qualities tried by the compressor, in order.
type ProcessedImage struct {
	Data            []byte
	ContentType     string
	Width           int
	Height          int
	Processed       bool
	Attempts        []int
	FallbackApplied bool
}

func (p *ProcessedImage) Size() int64 {
	return int64(len(p.Data))
}

// StoredReference is the URL or path returned by a storage backend.
type StoredReference = string

type Format int

const (
	FormatJPEG Format = iota
	FormatPNG
	FormatWebP
)

// FormatFromContentType resolves a declared content type to an output format.
// Anything that is neither PNG nor WebP is encoded as JPEG.
func FormatFromContentType(contentType string) Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return FormatPNG
	case strings.Contains(ct, "webp"):
		return FormatWebP
	default:
		return FormatJPEG
	}
}

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	default:
		return "jpeg"
	}
}

func (f Format) ContentType() string {
	return "image/" + f.String()
}

func (f Format) Extension() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatWebP:
		return ".webp"
	default:
		return ".jpg"
	}
}

const (
	DefaultMaxWidth     = 1920
	DefaultMaxHeight    = 1080
	DefaultHardCapBytes = 5 << 20
	DefaultContainer    = "thumbnail-images"
)

var (
	DefaultAllowedMimeTypes  = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	DefaultAllowedExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// ExtensionForContentType maps a stored content type to a file extension,
// keeping the original extension for types the encoder does not produce.
func ExtensionForContentType(contentType, fallback string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if fallback != "" {
		return strings.ToLower(fallback)
	}
	return ".jpg"
}
