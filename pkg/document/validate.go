package document

import (
	"errors"
	"fmt"
)

// ErrInvalidEdit is wrapped by every ValidationError.
var ErrInvalidEdit = errors.New("invalid edit")

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// Unwrap makes errors.Is(err, ErrInvalidEdit) match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidEdit
}

// ValidateEdit checks that an edit has a valid range for the given content length.
func ValidateEdit(edit TextEdit, contentLen int) error {
	if edit.StartOffset < 0 {
		return &ValidationError{Edit: edit, Message: "start offset is negative"}
	}
	if edit.EndOffset < edit.StartOffset {
		return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
	}
	if edit.EndOffset > contentLen {
		return &ValidationError{
			Edit:    edit,
			Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
		}
	}
	return nil
}
