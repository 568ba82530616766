package fetch

import (
	"errors"
	"fmt"
	"testing"
)

func TestRetryableStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected bool
	}{
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
		{400, false},
		{401, false},
		{404, false},
		{418, false},
		{501, false},
		{200, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			if got := retryableStatus(tt.code); got != tt.expected {
				t.Errorf("retryableStatus(%d) = %v, want %v", tt.code, got, tt.expected)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "retryable status",
			err:      &StatusError{Code: 503, Endpoint: "x"},
			expected: true,
		},
		{
			name:     "wrapped retryable status",
			err:      fmt.Errorf("fetch: %w", &StatusError{Code: 429, Endpoint: "x"}),
			expected: true,
		},
		{
			name:     "client error status",
			err:      &StatusError{Code: 404, Endpoint: "x"},
			expected: false,
		},
		{
			name:     "decode error",
			err:      &DecodeError{Err: errors.New("unexpected token")},
			expected: false,
		},
		{
			name:     "plain network error",
			err:      errors.New("connection reset by peer"),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.expected {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("outer: %w", &StatusError{Code: 400, Endpoint: "x"})
	if !IsStatus(err, 400) {
		t.Error("IsStatus should see through wrapping")
	}
	if IsStatus(err, 500) {
		t.Error("IsStatus must match the exact code")
	}
	if IsStatus(errors.New("plain"), 400) {
		t.Error("IsStatus on a non-status error must be false")
	}
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{Code: 502, Endpoint: "https://api.test/manga"}
	want := "unexpected status 502 from https://api.test/manga"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestDecodeError_Unwrap(t *testing.T) {
	inner := errors.New("bad token")
	err := &DecodeError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("DecodeError should unwrap to the inner error")
	}
}
