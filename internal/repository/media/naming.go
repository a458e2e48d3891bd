package media

import (
	"net/url"
	"path"
	"strings"

	"primegames-media/internal/domain"

	"github.com/google/uuid"
)

// ObjectName builds a collision free object name keeping an extension that
// matches the stored content type.
func ObjectName(prefix, contentType string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "") + domain.ExtensionForContentType(contentType, "")
}

// NameFromReference extracts the object name from an absolute URL, a rooted
// path such as /uploads/x.jpg or a bare file name.
func NameFromReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && u.Host != "" {
		ref = u.Path
	}

	name := path.Base(ref)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
