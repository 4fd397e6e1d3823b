package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies failures so transports can map them to status codes.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindStorage    Kind = "storage"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the tagged error carried across layers.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(string(e.Kind))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind so errors.Is(err, faults.NotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	Validation = &Error{Kind: KindValidation}
	NotFound   = &Error{Kind: KindNotFound}
	Conflict   = &Error{Kind: KindConflict}
	Storage    = &Error{Kind: KindStorage}
)

func NewValidation(op, message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message, Fields: fields}
}

func NewNotFound(op, message string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

func NewConflict(op, message string, cause error) *Error {
	return &Error{Kind: KindConflict, Op: op, Message: message, Err: cause}
}

// WrapStorage tags err as a storage failure unless it already carries a kind.
func WrapStorage(op, message string, err error) error {
	if err == nil {
		return nil
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return err
	}
	return &Error{Kind: KindStorage, Op: op, Message: message, Err: err}
}

// KindOf reports the kind of err, defaulting to storage for untagged errors.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindStorage
}

// FieldsOf returns field-level details of a validation error.
func FieldsOf(err error) []FieldError {
	var tagged *Error
	if errors.As(err, &tagged) {
		return append([]FieldError(nil), tagged.Fields...)
	}
	return nil
}

// Public renders err for API clients: the bare message for request-rejected
// kinds, the message with its cause for storage failures.
func Public(err error) string {
	var tagged *Error
	if !errors.As(err, &tagged) {
		return err.Error()
	}
	if tagged.Kind != KindStorage && tagged.Message != "" {
		return tagged.Message
	}
	return tagged.Error()
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}
