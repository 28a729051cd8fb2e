package service

import (
	"errors"
	"fmt"

	"mygrid/dialect"
)

// Codes of administrative endpoints. They are not W3C codes.
const (
	// ErrCodeNoSuchNode is for calls naming a node that is not registered (404).
	ErrCodeNoSuchNode = "no such node"
	// ErrCodeUnauthorized is for node administration without the registration secret (401).
	ErrCodeUnauthorized = "unauthorized"
)

var (
	// ErrNoMatchingNode means no registered node advertises a stereotype for any of the requested capability sets.
	ErrNoMatchingNode = errors.New("no node matched the requested capabilities")
	// ErrRequestTimedOut means the new-session request deadline passed while it was queued.
	ErrRequestTimedOut = errors.New("new session request timed out")
	// ErrRequestCancelled means the request was removed from the queue by an operator or the caller went away.
	ErrRequestCancelled = errors.New("new session request cancelled")
	// ErrUnknownSession means the session id is not in the session map.
	ErrUnknownSession = errors.New("unknown session")
	// ErrSessionLost means the session's node was deregistered or evicted.
	ErrSessionLost = errors.New("session lost")
	// ErrNodeUnreachable means a call to the node failed at the transport level.
	ErrNodeUnreachable = errors.New("node unreachable")
	// ErrNodeNotFound means no node is registered under the id.
	ErrNodeNotFound = errors.New("node not found")
	// ErrSessionCreation means a node refused or failed to start a session.
	ErrSessionCreation = errors.New("node could not create session")
	// ErrDialectTranslation means a command or response could not be mapped between dialects.
	ErrDialectTranslation = dialect.ErrTranslation
)

// GridError represents an error within the context of the grid, carrying a W3C error code.
type GridError struct {
	// Code is a W3C error code ("session not created", "invalid session id", ...).
	Code string `json:"error"`
	// Message is a human-readable message.
	Message string `json:"message"`
	// Inner is a wrapped error that is never shown to API consumers.
	Inner error `json:"-"`
}

// NewGridError creates a new GridError.
func NewGridError(code string, message string, inner error) *GridError {
	return &GridError{
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

func NewSessionNotCreatedError(message string, inner error) *GridError {
	if gridInner := ToGridError(inner); gridInner != nil {
		return gridInner
	}
	return NewGridError(dialect.CodeSessionNotCreated, message, inner)
}

func NewInvalidSessionIDError(message string, inner error) *GridError {
	if gridInner := ToGridError(inner); gridInner != nil {
		return gridInner
	}
	return NewGridError(dialect.CodeInvalidSessionID, message, inner)
}

func NewInvalidArgumentError(message string, inner error) *GridError {
	if gridInner := ToGridError(inner); gridInner != nil {
		return gridInner
	}
	return NewGridError(dialect.CodeInvalidArgument, message, inner)
}

func NewUnknownError(message string, inner error) *GridError {
	if gridInner := ToGridError(inner); gridInner != nil {
		return gridInner
	}
	return NewGridError(dialect.CodeUnknownError, message, inner)
}

func NewNoSuchNodeError(message string, inner error) *GridError {
	if gridInner := ToGridError(inner); gridInner != nil {
		return gridInner
	}
	return NewGridError(ErrCodeNoSuchNode, message, inner)
}

func NewUnauthorizedError(message string) *GridError {
	return NewGridError(ErrCodeUnauthorized, message, nil)
}

func (e GridError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap the error returning the error's reason.
func (e GridError) Unwrap() error {
	return e.Inner
}

// ToGridError returns a pointer to a grid error, or nil if err is not one.
func ToGridError(err error) *GridError {
	var e *GridError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// ToGridErrorCode returns the code of the error, if available.
func ToGridErrorCode(err error) string {
	if gridErr := ToGridError(err); gridErr != nil {
		return gridErr.Code
	}
	return ""
}

func IsGridError(err error, code string) bool {
	if gridErr := ToGridError(err); gridErr != nil {
		return gridErr.Code == code
	}
	return false
}

func IsSessionNotCreatedError(err error) bool {
	return IsGridError(err, dialect.CodeSessionNotCreated)
}

func IsInvalidSessionIDError(err error) bool {
	return IsGridError(err, dialect.CodeInvalidSessionID)
}

func IsInvalidArgumentError(err error) bool {
	return IsGridError(err, dialect.CodeInvalidArgument)
}

func IsUnknownError(err error) bool {
	return IsGridError(err, dialect.CodeUnknownError)
}

func IsNoSuchNodeError(err error) bool {
	return IsGridError(err, ErrCodeNoSuchNode)
}

func IsUnauthorizedError(err error) bool {
	return IsGridError(err, ErrCodeUnauthorized)
}
