package notes

import (
	"errors"
	"strings"
)

var ErrNoteNotFound = errors.New("note not found")

const (
	MsgNoteNotFound     = "Note not found"
	MsgSomethingWrong   = "Something went wrong!"
	MsgErrFetchingNotes = "Error fetching notes"
	MsgErrFetchingNote  = "Error fetching note"
	MsgErrCreatingNote  = "Error creating note"
	MsgErrUpdatingNote  = "Error updating note"
	MsgErrDeletingNote  = "Error deleting note"
)

// FieldError is one entry of a 400 response body.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path,omitempty"`
	Location string `json:"location"`
}

type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Msg)
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

func newBodyError(msg string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{
			Type:     "body",
			Msg:      msg,
			Location: "body",
		}},
	}
}
