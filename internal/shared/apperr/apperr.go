// Package apperr is the tagged error type every layer returns for conditions
// the client is expected to see. Anything else surfaces as a 500.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

type Kind int

const (
	Internal Kind = iota
	FullNameRequired
	UsernameRequired
	EmailRequired
	PassRequired
	PreferRequired
	FormatEmail
	ExistEmail
	ImageUrlRequired
	DescriptionRequired
	TextQueryRequired
	InputRequired
	BadRequest
	InvalidLogin
	InvalidToken
	Forbidden
	NotFound
	TooManyRequests
)

var messages = map[Kind]string{
	Internal:            "Internal server error",
	FullNameRequired:    "Full name is required",
	UsernameRequired:    "Username is required",
	EmailRequired:       "Email is required",
	PassRequired:        "Password is required",
	PreferRequired:      "Preference is required",
	FormatEmail:         "Email must be formatted (example@gmail.com)",
	ExistEmail:          "Email already exists",
	ImageUrlRequired:    "Image URL is required",
	DescriptionRequired: "Description is required",
	TextQueryRequired:   "Text query is required",
	InputRequired:       "Input is required",
	BadRequest:          "Invalid request body",
	InvalidLogin:        "Invalid email/password",
	InvalidToken:        "Invalid Token",
	Forbidden:           "You are not allowed to do this action",
	NotFound:            "Data not found",
	TooManyRequests:     "Too many requests",
}

func (k Kind) Message() string {
	if m, ok := messages[k]; ok {
		return m
	}
	return messages[Internal]
}

func (k Kind) Status() int {
	switch k {
	case Internal:
		return http.StatusInternalServerError
	case InvalidLogin, InvalidToken:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case TooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, apperr.New(apperr.NotFound)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(k Kind) *Error { return &Error{Kind: k, Message: k.Message()} }

func Wrap(k Kind, err error) *Error {
	return &Error{Kind: k, Message: k.Message(), Err: err}
}

// KindOf returns Internal for errors that carry no *Error in their chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func IsKind(err error, k Kind) bool { return err != nil && KindOf(err) == k }
