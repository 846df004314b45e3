package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a user supplied output path.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	return nil
}

// ValidateImageRef validates a card or back image reference from a manifest
// or an API request. References are relative file paths, absolute paths or
// data/http(s) URLs. Relative paths must not escape their base directory.
func ValidateImageRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "image reference cannot be empty")
	}
	if strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return nil
	}

	for _, r := range ref {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "image reference contains invalid characters")
		}
	}

	if !filepath.IsAbs(ref) {
		for _, part := range strings.Split(filepath.ToSlash(ref), "/") {
			if part == ".." {
				return New(ErrCodeInvalidPath, "image reference cannot contain path traversal sequences (..)")
			}
		}
	}

	return nil
}

// ValidateManifestFilename validates a manifest filename for safety.
// It ensures the filename is a TOML file.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".toml") {
		return New(ErrCodeInvalidManifest, "manifest must be a .toml file: %q", filename)
	}
	return nil
}
