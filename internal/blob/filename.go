package blob

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeFileName strips path components, replaces unsafe characters in the
// base name, keeps the extension and appends a UUID so stored names never
// collide or escape the storage directory.
func SanitizeFileName(original string) (string, error) {
	if original == "" {
		return "", errors.New("file name must not be empty")
	}

	name := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return "", errors.New("invalid file name: " + original)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = unsafeChars.ReplaceAllString(base, "_")
	ext = unsafeChars.ReplaceAllString(strings.TrimPrefix(ext, "."), "_")

	unique := base + "_" + uuid.NewString()
	if ext != "" {
		unique += "." + ext
	}
	return unique, nil
}
