package hguid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat indicates that the GUID string format is invalid
	ErrInvalidFormat = errors.New("hguid: invalid GUID format")

	// ErrInvalidLength indicates that the GUID byte slice has incorrect length
	ErrInvalidLength = errors.New("hguid: invalid GUID length (expected 16 bytes)")
)

// FormatError describes why a textual GUID was rejected by Parse.
// It matches ErrInvalidFormat under errors.Is.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("hguid: invalid GUID format %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

func formatErr(input, reason string) error {
	return &FormatError{Input: input, Reason: reason}
}
