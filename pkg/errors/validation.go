package errors

import (
	"strings"
	"unicode"
)

// maxMessageLength bounds text sent to the enrichment webhook.
const maxMessageLength = 10000

// ValidateMessage validates recognized label text before it is sent to the
// enrichment webhook. Whitespace-only input is rejected.
func ValidateMessage(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return New(ErrCodeInvalidInput, "no 'message' field provided in the request body")
	}
	if len(msg) > maxMessageLength {
		return New(ErrCodeInvalidInput, "message too long (max %d characters)", maxMessageLength)
	}
	for _, r := range msg {
		if r == '\x00' {
			return New(ErrCodeInvalidInput, "message contains null bytes")
		}
	}
	return nil
}

// ValidateDocumentID validates an artifact document identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators (ids become cache keys and URL segments)
//   - Maximum length of 128 characters
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidArtifact, "artifact id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidArtifact, "artifact id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArtifact, "artifact id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidArtifact, "artifact id cannot contain path separators")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidConfig, "URL must use http or https scheme")
	}

	return nil
}
