package errors

import (
	"strings"
	"unicode"
)

const (
	// MaxUsernameLength bounds the username in characters.
	MaxUsernameLength = 256

	// MaxSize bounds the edge length of a render in pixels. The Voronoi scan
	// is O(width*height*points), so very large canvases are refused early.
	MaxSize = 4096
)

// ValidateUsername validates a username before it is hashed into a seed.
//
// The empty username is valid: it hashes to seed 0 and yields the default
// avatar. The validation rules are intentionally conservative:
//   - Maximum length of 256 characters
//   - No control characters (including null bytes and newlines)
func ValidateUsername(name string) error {
	if len([]rune(name)) > MaxUsernameLength {
		return New(ErrCodeInvalidUsername, "username too long (max %d characters)", MaxUsernameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidUsername, "username contains invalid control characters")
		}
	}

	return nil
}

// ValidateSize validates a square render edge length in pixels.
func ValidateSize(size int) error {
	if size <= 0 {
		return New(ErrCodeInvalidSize, "size must be positive, got %d", size)
	}
	if size > MaxSize {
		return New(ErrCodeInvalidSize, "size too large: %d (max %d)", size, MaxSize)
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI writes an artifact to.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Path cannot end with a separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidInput, "output path must name a file, not a directory")
	}

	return nil
}
