package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a CSS-style hex color (#rgb or #rrggbb).
func ValidateColor(c string) error {
	if !hexColorRegex.MatchString(c) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rgb or #rrggbb)", c)
	}
	return nil
}

// ValidatePhotoRef validates a photo reference before it enters the model.
// References are opaque to the engine, but they end up as HTTP requests or
// file reads at export time, so they must be either an http(s) URL or a
// plain file path.
//
// Validation rules:
//   - Reference cannot be empty
//   - Maximum length of 2048 characters
//   - No null bytes or control characters
//   - URLs must use http or https
func ValidatePhotoRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "photo reference cannot be empty")
	}

	const maxRefLength = 2048
	if len(ref) > maxRefLength {
		return New(ErrCodeInvalidInput, "photo reference too long (max %d characters)", maxRefLength)
	}

	for _, r := range ref {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "photo reference contains invalid control characters")
		}
	}

	if strings.Contains(ref, "://") {
		return ValidateURL(ref)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateUsername validates a photo catalog username. The name becomes a
// URL path segment, so anything that could escape the segment is rejected.
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "username cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "username too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "username contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"?",    // Query
		"#",    // Fragment
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "username contains invalid characters: %q", pattern)
		}
	}

	return nil
}
