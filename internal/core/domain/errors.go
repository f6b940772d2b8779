package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent precondition failures of the synchronisation flows.
// Remote failures are reported by the connector's own error types.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or missing input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyContent indicates markdown converted to zero blocks.
	ErrEmptyContent = errors.New("content is empty")

	// ErrBlockNotFound indicates a block is not among its parent's children.
	ErrBlockNotFound = fmt.Errorf("block %w", ErrNotFound)

	// ErrUploadFailed indicates a media upload returned no media token.
	ErrUploadFailed = errors.New("image upload failed: no file_token returned")

	// ErrCredentialsMissing indicates the application id or secret is not configured.
	ErrCredentialsMissing = errors.New("credentials not configured")
)

// ClearedError reports a replace that removed the document's content but
// failed before repopulating it. The document is left empty.
type ClearedError struct {
	// Deleted is the number of blocks the clear step removed.
	Deleted int

	// Stage is the step that failed after the clear ("convert" or "insert").
	Stage string

	Err error
}

func (e *ClearedError) Error() string {
	return fmt.Sprintf("document cleared (%d blocks deleted) but %s failed: %v", e.Deleted, e.Stage, e.Err)
}

func (e *ClearedError) Unwrap() error {
	return e.Err
}

// IsCleared reports whether err is a ClearedError.
func IsCleared(err error) bool {
	var cleared *ClearedError
	return errors.As(err, &cleared)
}
