// Package apierr defines the closed set of error kinds shared between the
// HTTP handlers and the API client. Handlers only ever send one of these
// kinds over the wire and the client matches on the kind, never on message
// text or response shape.
package apierr

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Kind identifies one of the known error categories.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindInternal       Kind = "internal"
)

// FieldError reports a validation failure for a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the wire-level error envelope payload.
type Error struct {
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Validation builds a validation error from explicit field errors.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: fields}
}

// FromValidation converts an ozzo validation.Errors map into a Validation
// error with the field list sorted by field name.
func FromValidation(err error) *Error {
	verrs, ok := err.(validation.Errors)
	if !ok {
		return Internal()
	}
	fields := make([]FieldError, 0, len(verrs))
	for name, ferr := range verrs {
		fields = append(fields, FieldError{Field: name, Message: ferr.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return Validation(fields...)
}

// Authentication is returned for failed logins. The message is the same
// for unknown emails and wrong passwords so accounts cannot be enumerated.
func Authentication() *Error {
	return &Error{Kind: KindAuthentication, Message: "invalid credentials"}
}

// Authorization is returned when a protected route rejects a request.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// Conflict is returned when a write collides with an existing record.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotFound is returned when the requested record does not exist.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal is returned for any failure that should not leak detail.
func Internal() *Error {
	return &Error{Kind: KindInternal, Message: "server error"}
}

// HTTPStatus maps an error kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication, KindAuthorization:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type envelope struct {
	Error *Error `json:"error"`
}

// Write sends the error as a JSON response with the matching status code.
func Write(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Kind.HTTPStatus())
	json.NewEncoder(w).Encode(envelope{Error: e})
}

// Decode reads an error envelope from a response body. Bodies that do not
// carry a recognizable envelope decode as an internal error, so callers
// always get one of the known kinds.
func Decode(body io.Reader) *Error {
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil || env.Error == nil || env.Error.Kind == "" {
		return Internal()
	}
	return env.Error
}
