package slot

import (
	"errors"
	"fmt"
)

// ErrInputFormat matches every *InputFormatError via errors.Is.
var ErrInputFormat = errors.New("invalid input format")

// InputFormatError reports a malformed time, date or rule value.
type InputFormatError struct {
	Field string
	Value string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *InputFormatError) Is(target error) bool {
	return target == ErrInputFormat
}
