package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeMalformedPermutation, "label %s repeated", "a"), "MALFORMED_PERMUTATION: label a repeated"},
		{Wrap(ErrCodeInvalidInput, errors.New("EOF"), "read %s", "d.json"), "INVALID_INPUT: read d.json: EOF"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "save class")
	if !errors.Is(err, cause) || errors.Unwrap(err) != cause {
		t.Errorf("cause lost: %v", err)
	}
}

func TestIs(t *testing.T) {
	wrapped := Wrap(ErrCodeInvalidInput, New(ErrCodeReducibleSeed, "inner"), "outer")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"same code", New(ErrCodeDegenerateInduction, "tie"), ErrCodeDegenerateInduction, true},
		{"other code", New(ErrCodeDegenerateInduction, "tie"), ErrCodeReducibleSeed, false},
		{"outer of wrapped", wrapped, ErrCodeInvalidInput, true},
		{"inner of wrapped", wrapped, ErrCodeReducibleSeed, true},
		{"behind fmt.Errorf", fmt.Errorf("step 3: %w", New(ErrCodeDegenerateInduction, "tie")), ErrCodeDegenerateInduction, true},
		{"inner behind fmt.Errorf", fmt.Errorf("explore: %w", wrapped), ErrCodeReducibleSeed, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
			if got := errors.Is(tt.err, tt.code); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(fmt.Errorf("x: %w", Wrap(ErrCodeNotFlipped, New(ErrCodeInternal, "y"), "z"))); got != ErrCodeNotFlipped {
		t.Errorf("GetCode() = %q, want the outermost code", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(fmt.Errorf("ctx: %w", New(ErrCodeInvalidInput, "seed needs two labels"))); got != "seed needs two labels" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}
