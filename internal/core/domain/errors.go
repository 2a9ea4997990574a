package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a client-side failure.
type ErrorKind string

const (
	// KindNetwork means no response was received from the API.
	KindNetwork ErrorKind = "network"
	// KindServer means the API answered with an error status.
	KindServer ErrorKind = "server"
	// KindValidation means an input check failed before any network call.
	KindValidation ErrorKind = "validation"
	// KindStorage means the persisted store could not be read or written.
	KindStorage ErrorKind = "storage"
)

const (
	MsgNetwork        = "Network error. Please check your connection."
	MsgSessionExpired = "Session expired. Please login again."
	MsgLoginFailed    = "Login failed. Please try again."
	MsgRegisterFailed = "Registration failed. Please try again."
	MsgResetFailed    = "Password reset failed. Please try again."
	MsgProfileFailed  = "Profile update failed. Please try again."
	MsgLoginRequired  = "Please login to use wishlist"
	MsgWishlistFailed = "Failed to update wishlist. Please try again."
)

// ErrUnauthenticated matches any server error caused by a 401 response.
var ErrUnauthenticated = errors.New("unauthenticated")

// Error is the single error type surfaced by the client core. Callers only
// need Message; Kind and Status exist for logging and errors.Is.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports 401 server errors as ErrUnauthenticated.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthenticated && e.Kind == KindServer && e.Status == 401
}

func NewNetworkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: cause}
}

// NewServerError builds a ServerError. An empty message falls back to the
// transport description of the status.
func NewServerError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("request failed with status code %d", status)
	}
	return &Error{Kind: KindServer, Message: message, Status: status}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewStorageError(op, key string, cause error) *Error {
	return &Error{
		Kind:    KindStorage,
		Message: fmt.Sprintf("storage %s %q: %v", op, key, cause),
		Err:     cause,
	}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOr returns the human-readable message carried by err, or fallback
// when err has none.
func MessageOr(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
