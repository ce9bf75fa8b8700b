package models

// StreamResult holds either a value or an error emitted by a streaming
// search. A closed channel signals that every adapter has finished.
type StreamResult[T any] struct {
	Value T
	Err   error
}
