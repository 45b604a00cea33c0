package errors

import (
	"strings"
	"testing"
)

func TestValidateValveID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"AA", false},
		{"v_01", false},
		{"", true},
		{"A A", true},
		{"AA;", true},
		{strings.Repeat("A", MaxValveIDLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateValveID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateValveID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateBudget(t *testing.T) {
	for _, b := range []int{0, 26, 30, MaxBudget} {
		if err := ValidateBudget(b); err != nil {
			t.Errorf("ValidateBudget(%d) = %v", b, err)
		}
	}
	for _, b := range []int{-1, MaxBudget + 1} {
		if err := ValidateBudget(b); !Is(err, ErrCodeInvalidBudget) {
			t.Errorf("ValidateBudget(%d) = %v, want INVALID_BUDGET", b, err)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "input.txt", false},
		{"absolute", "/tmp/net.json", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"null byte", "in\x00put", true},
		{"too long", strings.Repeat("a", MaxPathLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.path); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidBudget,
		ErrCodeInvalidStrategy, ErrCodeInvalidFormat, ErrCodeInvalidPath,
		ErrCodeTooLarge, ErrCodeNotFound, ErrCodeFileNotFound,
		ErrCodeTimeout, ErrCodeCanceled, ErrCodeInternal, ErrCodeUnsupported,
	}
	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code %s", c)
		}
		seen[c] = true
	}
}
