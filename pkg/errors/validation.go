package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches 3- or 6-digit hex colors with a leading #.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a background color string ("#RGB" or "#RRGGBB").
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q (expected #RGB or #RRGGBB)", s)
	}
	return nil
}

// ValidateClassID validates a caller-assigned element class identifier.
// Class IDs are non-negative integers; the upper bound catches values
// that are clearly not class labels, not a format limit.
func ValidateClassID(id int) error {
	if id < 0 {
		return New(ErrCodeInvalidElements, "class id must be non-negative, got %d", id)
	}
	if id > 99999 {
		return New(ErrCodeInvalidElements, "class id %d exceeds the maximum (99999)", id)
	}
	return nil
}

// ValidateCanvasSize validates target canvas pixel dimensions.
func ValidateCanvasSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidCanvas, "canvas dimensions must be positive, got %dx%d", width, height)
	}
	const maxDim = 16384
	if width > maxDim || height > maxDim {
		return New(ErrCodeInvalidCanvas, "canvas dimensions %dx%d exceed maximum %d", width, height, maxDim)
	}
	return nil
}

// ValidateStemPrefix validates a filename prefix for generated samples.
// The prefix becomes part of every output filename, so it must be a safe
// path component.
//
// The validation rules are intentionally conservative:
//   - No empty prefixes
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 64 characters
func ValidateStemPrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidConfig, "filename prefix cannot be empty")
	}

	if len(prefix) > 64 {
		return New(ErrCodeInvalidConfig, "filename prefix too long (max 64 characters)")
	}

	for _, r := range prefix {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "filename prefix contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(prefix, pattern) {
			return New(ErrCodeInvalidConfig, "filename prefix contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateManifestFileRef validates a file reference inside an elements
// manifest. References are resolved relative to the manifest's directory,
// so absolute paths and traversal sequences are rejected.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateManifestFileRef(path string) error {
	if path == "" {
		return New(ErrCodeInvalidManifest, "element file path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidManifest, "element file path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "element file path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidManifest, "element file path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidManifest, "element file path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidManifest, "element file path cannot contain backslashes")
	}

	return nil
}
