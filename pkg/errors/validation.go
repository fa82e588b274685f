package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDimensions checks that a width/height pair is usable for layout.
// Negative, NaN and infinite values are rejected; zero is allowed.
func ValidateDimensions(w, h float64) error {
	for _, v := range [...]struct {
		name string
		val  float64
	}{{"width", w}, {"height", h}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return New(ErrCodeInvalidBox, "%s must be finite, got %v", v.name, v.val)
		}
		if v.val < 0 {
			return New(ErrCodeInvalidBox, "%s must not be negative, got %v", v.name, v.val)
		}
	}
	return nil
}

// ValidateLabel checks a topic label for rendering.
//
// Labels become SVG text content and DOT node labels, so control
// characters are rejected. The maximum length is 256 characters.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "topic label cannot be empty")
	}
	if len(label) > 256 {
		return New(ErrCodeInvalidInput, "topic label too long (max 256 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "topic label contains control characters: %q", label)
		}
	}
	return nil
}

// ValidateIndex checks that i addresses an element of a sequence of length n.
func ValidateIndex(i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeInvalidIndex, "index %d out of range [0, %d)", i, n)
	}
	return nil
}

// ValidateIdentifier validates a SQL table or collection name.
// Only letters, digits, underscores and dots (schema qualification) are allowed.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "identifier cannot be empty")
	}
	if len(name) > 63 {
		return New(ErrCodeInvalidConfig, "identifier too long (max 63 characters): %q", name)
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '.':
		case unicode.IsLetter(r) && r < unicode.MaxASCII:
		case unicode.IsDigit(r) && i > 0:
		default:
			return New(ErrCodeInvalidConfig, "identifier contains invalid characters: %q", name)
		}
	}
	return nil
}

// ValidatePath validates a user supplied file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
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
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") && !strings.HasPrefix(rawURL, "/") {
		return New(ErrCodeInvalidInput, "URL must be relative or use http or https scheme")
	}
	return nil
}
