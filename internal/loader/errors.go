package loader

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("orders file not found")
	ErrFormat       = errors.New("invalid orders JSON")
	ErrMissingField = errors.New("order record is missing a field")
)

// NotFoundError reports that the orders file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *NotFoundError) Unwrap() error        { return e.Err }

// FormatError reports content that is not a JSON object of order records.
// OrderID is empty when the problem is not tied to a single record.
type FormatError struct {
	OrderID string
	Offset  int64
	Err     error
}

func (e *FormatError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("%s: order %q: %v", ErrFormat, e.OrderID, e.Err)
	}
	return fmt.Sprintf("%s at offset %d: %v", ErrFormat, e.Offset, e.Err)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }
func (e *FormatError) Unwrap() error        { return e.Err }

// MissingFieldError reports the first record lacking a required field.
// A field set to null counts as missing.
type MissingFieldError struct {
	OrderID string
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("order %q is missing field %q", e.OrderID, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }
