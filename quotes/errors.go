package quotes

import (
	"errors"
	"fmt"
)

// ErrNoQuotes is returned by Random when the collection is empty.
var ErrNoQuotes = errors.New("no quotes available")

// ValidationError reports bad user input (empty quote text, unknown or
// malformed avatar name). It is reported to the requesting caller and
// never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError reports a failure reading or writing the durable quotes file.
// Load failures degrade to an empty collection; persist failures surface to
// the caller that requested the mutation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }
