package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySet is returned when a session is started with zero questions.
	ErrEmptySet = errors.New("question set is empty")
	// ErrInvalidQuestion indicates a question record that breaks the data contract.
	ErrInvalidQuestion = errors.New("invalid question record")
	// ErrTopicNotFound indicates the provider has no questions for the requested topic.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrSessionNotFound is returned when an operation names an unknown session.
	ErrSessionNotFound = errors.New("quiz session not found")
)

// LoadError is returned by question providers on transport failure or a
// malformed/empty payload. Callers receive it unmodified.
type LoadError struct {
	Topic string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load questions for %q: %v", e.Topic, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// AsLoadError wraps err in a LoadError unless it already is one.
func AsLoadError(topic string, err error) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Topic: topic, Err: err}
}
