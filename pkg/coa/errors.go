package coa

import (
	"errors"
	"fmt"
)

// DocumentError represents a failure to open, parse or rebuild the
// template document. It is the fatal error class of the pipeline:
// callers must be able to tell a corrupt template apart from a
// successfully generated (but possibly placeholder-free) document.
type DocumentError struct {
	Operation string
	Part      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Part != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Part, e.Cause)
	} else if e.Part != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Part)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error.
func NewDocumentError(operation, part string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Part:      part,
		Cause:     cause,
	}
}

// IsDocumentError checks whether err is (or wraps) a DocumentError.
func IsDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}
