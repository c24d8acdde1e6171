package errors

import (
	"strings"
	"unicode"
)

// MaxLabelLength bounds the size of a single interval label.
const MaxLabelLength = 64

// ValidateLabel validates an interval label for use in a permutation.
//
// The rules are intentionally conservative so that labels survive every
// textual format the engine emits (rows, DOT, JSON, cache keys):
//   - No empty labels
//   - No whitespace or control characters
//   - No '/' (row separator) and no leading '-' (flip marker)
//   - Maximum length of MaxLabelLength characters
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeMalformedPermutation, "label cannot be empty")
	}
	if len(label) > MaxLabelLength {
		return New(ErrCodeMalformedPermutation, "label too long (max %d characters)", MaxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeMalformedPermutation, "label %q contains whitespace or control characters", label)
		}
	}
	if strings.Contains(label, "/") {
		return New(ErrCodeMalformedPermutation, "label %q contains the row separator '/'", label)
	}
	if strings.HasPrefix(label, "-") {
		return New(ErrCodeMalformedPermutation, "label %q starts with the flip marker '-'", label)
	}
	return nil
}

// ValidateLimit checks that a user supplied bound is not negative.
// Zero means "no limit" everywhere in the engine.
func ValidateLimit(name string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (%d)", name, v)
	}
	return nil
}
