package models

import "errors"

// Recoverable error kinds surfaced by the quiz engine. Callers are expected
// to re-render or re-prompt; none of these terminate the process.
var (
	// ErrQuizNotFound means the referenced quiz definition is unknown to the catalog
	ErrQuizNotFound = errors.New("quiz not found")

	// ErrTopicNotFound means the referenced topic is unknown to the catalog
	ErrTopicNotFound = errors.New("topic not found")

	// ErrInvalidState means the operation is not valid for the attempt's
	// current state, e.g. finishing an already-completed quiz
	ErrInvalidState = errors.New("operation invalid for attempt state")

	// ErrInvalidIndex means the question index is out of range for the quiz
	ErrInvalidIndex = errors.New("question index out of range")
)
