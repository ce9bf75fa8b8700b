package apperrors

import "fmt"

// ConfigurationError means an adapter cannot run with its current
// configuration: a missing API key, or a language set that normalizes to
// empty. Adapters fail closed on it; the aggregator treats it as an empty
// result, never as a failure of the whole search.
type ConfigurationError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s not configured: %s", e.Service, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ConfigurationError) Is(target error) bool {
	_, ok := target.(*ConfigurationError)
	return ok
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(service, reason string) *ConfigurationError {
	return &ConfigurationError{Service: service, Reason: reason}
}

// TransientServiceError means an upstream call failed in a way that was
// worth retrying (429, 5xx, timeout) and the retry budget is exhausted.
type TransientServiceError struct {
	Service    string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TransientServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s transient failure: status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s transient failure: %v", e.Service, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransientServiceError) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *TransientServiceError) Is(target error) bool {
	_, ok := target.(*TransientServiceError)
	return ok
}

// NewTransientServiceError creates a new TransientServiceError.
func NewTransientServiceError(service string, statusCode int, err error) *TransientServiceError {
	return &TransientServiceError{Service: service, StatusCode: statusCode, Err: err}
}

// PermanentServiceError means an upstream call failed in a way retrying
// cannot fix: 401, a 4xx other than 429, or a response that does not match
// the documented schema.
type PermanentServiceError struct {
	Service    string
	StatusCode int
	Reason     string
}

// Error implements the error interface.
func (e *PermanentServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s permanent failure: status %d (%s)", e.Service, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s permanent failure: %s", e.Service, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *PermanentServiceError) Is(target error) bool {
	_, ok := target.(*PermanentServiceError)
	return ok
}

// NewPermanentServiceError creates a new PermanentServiceError.
func NewPermanentServiceError(service string, statusCode int, reason string) *PermanentServiceError {
	return &PermanentServiceError{Service: service, StatusCode: statusCode, Reason: reason}
}

// ContentError means a download completed but the payload is not a
// recognized subtitle after every extraction fallback, for example an HTML
// error page. It is distinct from a network failure so callers can suggest
// trying a different result instead of checking the connection.
type ContentError struct {
	Service string
	Handle  string
	Reason  string
}

// Error implements the error interface.
func (e *ContentError) Error() string {
	return fmt.Sprintf("%s/%s: payload is not a subtitle: %s", e.Service, e.Handle, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ContentError) Is(target error) bool {
	_, ok := target.(*ContentError)
	return ok
}

// NewContentError creates a new ContentError.
func NewContentError(service, handle, reason string) *ContentError {
	return &ContentError{Service: service, Handle: handle, Reason: reason}
}

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{Resource: resource, ID: id}
}
