package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrAuthorization  = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
)

// Error carries a client-safe message next to its kind.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func NewValidationError(msg string, cause error) error {
	return newError(ErrValidation, msg, cause)
}

func NewAuthenticationError(msg string) error {
	return newError(ErrAuthentication, msg, nil)
}

func NewAuthorizationError(msg string) error {
	return newError(ErrAuthorization, msg, nil)
}

func NewNotFoundError(msg string) error {
	return newError(ErrNotFound, msg, nil)
}

// Shared client messages. Login failures and token failures must read the
// same no matter which check tripped.
const (
	MsgBadCredentials   = "Incorrect email or password"
	MsgNotLoggedIn      = "Not logged in"
	MsgInvalidToken     = "Invalid token"
	MsgUserGone         = "User no longer exists"
	MsgRoleForbidden    = "You do not have permission to perform this action."
	MsgAssigneeNotFound = "Assignee user not found"
	MsgTaskNotFound     = "Task not found"
	MsgUserNotFound     = "User not found"
	MsgInvalidRole      = "Role must be either user or admin"
	MsgEmailTaken       = "Email already in use"
)

// ErrInvalidToken is returned for every signature, structure or expiry failure.
var ErrInvalidToken error = newError(ErrTokenInvalid, MsgInvalidToken, nil)

// ErrBadCredentials is returned for unknown emails and wrong passwords alike.
var ErrBadCredentials error = newError(ErrAuthentication, MsgBadCredentials, nil)

// ClientMessage returns the message safe to show a client, or "" when err
// carries none.
func ClientMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
