package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for any document that is neither PDF nor DOCX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrInvalidCriteria is returned when screening criteria fail validation.
	ErrInvalidCriteria = errors.New("invalid criteria")
)

// ExtractionError reports a document that could not be parsed.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
