package media

import (
	"fmt"
	"strings"

	"primegames-media/internal/domain"

	"github.com/gabriel-vasile/mimetype"
)

// Validator applies the upload allow-lists and the hard size cap.
type Validator struct {
	allowedTypes map[string]bool
	allowedExts  map[string]bool
	hardCap      int64
}

func NewValidator(allowedTypes, allowedExts []string, hardCap int64) *Validator {
	if len(allowedTypes) == 0 {
		allowedTypes = domain.DefaultAllowedMimeTypes
	}
	if len(allowedExts) == 0 {
		allowedExts = domain.DefaultAllowedExtensions
	}
	if hardCap <= 0 {
		hardCap = domain.DefaultHardCapBytes
	}

	v := &Validator{
		allowedTypes: make(map[string]bool, len(allowedTypes)),
		allowedExts:  make(map[string]bool, len(allowedExts)),
		hardCap:      hardCap,
	}
	for _, t := range allowedTypes {
		v.allowedTypes[canonicalType(t)] = true
	}
	for _, e := range allowedExts {
		e = strings.ToLower(strings.TrimSpace(e))
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		v.allowedExts[e] = true
	}
	return v
}

func (v *Validator) IsValidImage(candidate domain.ImageCandidate) bool {
	return v.Validate(candidate) == nil
}

// Validate returns an error wrapping ErrInvalidInput describing the first
// failed check.
func (v *Validator) Validate(candidate domain.ImageCandidate) error {
	if candidate.Size() == 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	if candidate.Size() > v.hardCap {
		return fmt.Errorf("%w: file size must be less than %d MB", ErrInvalidInput, v.hardCap>>20)
	}

	contentType := canonicalType(candidate.ContentType)
	if !v.allowedTypes[contentType] {
		return fmt.Errorf("%w: content type %q is not allowed", ErrInvalidInput, candidate.ContentType)
	}

	if !v.allowedExts[candidate.Extension()] {
		return fmt.Errorf("%w: extension %q is not allowed", ErrInvalidInput, candidate.Extension())
	}

	detected := canonicalType(mimetype.Detect(candidate.Data).String())
	if !v.allowedTypes[detected] {
		return fmt.Errorf("%w: file content is %s, which is not allowed", ErrInvalidInput, detected)
	}

	if detected != contentType {
		return fmt.Errorf("%w: file content is %s but was declared as %s", ErrInvalidInput, detected, contentType)
	}

	return nil
}

// canonicalType lower-cases t, drops parameters and folds JPEG aliases.
func canonicalType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}

	switch t {
	case "image/jpg", "image/pjpeg":
		return "image/jpeg"
	}
	return t
}
