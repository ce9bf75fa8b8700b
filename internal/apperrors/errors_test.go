// Package apperrors tests verify the error taxonomy (ConfigurationError,
// TransientServiceError, PermanentServiceError, ContentError, ErrNotFound),
// their Error() messages, Is() matching semantics, constructor helpers, and
// compatibility with errors.Is() through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigurationError_Error(t *testing.T) {
	t.Parallel()
	err := NewConfigurationError("subdl", "no API key")
	want := "subdl not configured: no API key"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTransientServiceError_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *TransientServiceError
		expected string
	}{
		{
			name:     "with status code",
			err:      NewTransientServiceError("opensubtitles", 503, nil),
			expected: "opensubtitles transient failure: status 503",
		},
		{
			name:     "with wrapped error",
			err:      NewTransientServiceError("titlovi", 0, errors.New("dial tcp: timeout")),
			expected: "titlovi transient failure: dial tcp: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTransientServiceError_Unwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection reset")
	err := NewTransientServiceError("subdl", 0, cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestPermanentServiceError_Error(t *testing.T) {
	t.Parallel()
	err := NewPermanentServiceError("opensubtitles", 401, "invalid API key")
	want := "opensubtitles permanent failure: status 401 (invalid API key)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	schemaErr := NewPermanentServiceError("subdl", 0, "malformed response body")
	want = "subdl permanent failure: malformed response body"
	if schemaErr.Error() != want {
		t.Errorf("Error() = %q, want %q", schemaErr.Error(), want)
	}
}

func TestContentError_Error(t *testing.T) {
	t.Parallel()
	err := NewContentError("titlovi", "123456", "HTML error page")
	want := "titlovi/123456: payload is not a subtitle: HTML error page"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorTypes_IsMatchesSameType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"configuration", NewConfigurationError("a", "b"), &ConfigurationError{}},
		{"transient", NewTransientServiceError("a", 500, nil), &TransientServiceError{}},
		{"permanent", NewPermanentServiceError("a", 401, "x"), &PermanentServiceError{}},
		{"content", NewContentError("a", "h", "x"), &ContentError{}},
		{"not found", NewNotFoundError("subtitle", 1), &ErrNotFound{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("expected errors.Is(%T, %T) to be true", tt.err, tt.target)
			}

			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.target) {
				t.Errorf("expected errors.Is to match %T through wrapping", tt.target)
			}
		})
	}
}

// Cross-type isolation: no taxonomy type matches any other type.
func TestErrorTypes_CrossTypeIsolation(t *testing.T) {
	t.Parallel()
	errs := []error{
		&ConfigurationError{Service: "x"},
		&TransientServiceError{Service: "x"},
		&PermanentServiceError{Service: "x"},
		&ContentError{Service: "x"},
		&ErrNotFound{Resource: "x"},
	}

	for i, a := range errs {
		for j, b := range errs {
			if i == j {
				continue
			}
			if errors.Is(a, b) {
				t.Errorf("expected errors.Is(%T, %T) to be false", a, b)
			}
		}
	}
}

func TestErrorTypes_ImplementErrorInterface(t *testing.T) {
	t.Parallel()
	var _ error = &ConfigurationError{}
	var _ error = &TransientServiceError{}
	var _ error = &PermanentServiceError{}
	var _ error = &ContentError{}
	var _ error = &ErrNotFound{}
}
