package textsource

import (
	"context"
	"fmt"
)

// Source is the text-acquisition capability: document file -> UTF-8 text.
// An empty string is a valid result for a document with no text layer;
// errors are reserved for documents that cannot be opened or decoded.
type Source interface {
	Text(ctx context.Context, path string) (string, error)
}

// ExtractionError reports a document that could not produce text.
type ExtractionError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract text from %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("extract text from %s: %s", e.Path, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func newExtractionError(path, reason string, cause error) *ExtractionError {
	return &ExtractionError{Path: path, Reason: reason, Cause: cause}
}
