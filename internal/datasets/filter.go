package datasets

import (
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

// IsImage reports whether path has a supported image extension.
// Only the extension is inspected.
func IsImage(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return imageExtensions[strings.ToLower(ext)]
}
