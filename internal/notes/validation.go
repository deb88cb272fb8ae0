package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const MsgInvalidJSONBody = "Invalid JSON body"

var fieldMessages = map[string]string{
	"title":   "Title is required",
	"content": "Content is required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %s", err))
	}
	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeNoteInput reads a note body. An empty body decodes to an empty input,
// so it fails validation on both fields rather than as malformed JSON.
func DecodeNoteInput(r io.Reader) (NoteInput, error) {
	var in NoteInput
	if r == nil {
		return in, nil
	}
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return NoteInput{}, nil
		}
		return NoteInput{}, newBodyError(MsgInvalidJSONBody)
	}
	return in, nil
}

// Sanitize trims the input fields and checks them.
// The returned input is the trimmed one, and it is what gets stored.
func Sanitize(in NoteInput) (NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	err := validate.Struct(in)
	if err == nil {
		return in, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return in, fmt.Errorf("validate note input: %w", err)
	}

	vErr := &ValidationError{}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		vErr.Errors = append(vErr.Errors, FieldError{
			Type:     "field",
			Value:    fe.Value(),
			Msg:      msg,
			Path:     fe.Field(),
			Location: "body",
		})
	}
	return in, vErr
}
