package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"letter", "a", false},
		{"word", "alpha", false},
		{"signed cover label", "a+", false},
		{"inner dash", "a-b", false},
		{"digits", "12", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", MaxLabelLength+1), true},
		{"space", "a b", true},
		{"tab", "a\tb", true},
		{"control char", "a\x01", true},
		{"row separator", "a/b", true},
		{"flip marker", "-a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeMalformedPermutation) {
				t.Errorf("ValidateLabel(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit("workers", 0); err != nil {
		t.Errorf("zero limit: %v", err)
	}
	if err := ValidateLimit("workers", -1); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("negative limit: got %v", err)
	}
}
