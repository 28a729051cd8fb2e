package dialect

import (
	"errors"
	"net/http"
)

var (
	// ErrTranslation is returned when a request or response cannot be mapped between dialects.
	ErrTranslation = errors.New("dialect translation failed")
	// ErrInvalidPayload is returned for new-session payloads neither dialect accepts.
	ErrInvalidPayload = errors.New("invalid new session payload")
)

// W3C error codes used by the grid itself.
const (
	CodeSessionNotCreated = "session not created"
	CodeInvalidSessionID  = "invalid session id"
	CodeUnknownCommand    = "unknown command"
	CodeUnknownMethod     = "unknown method"
	CodeInvalidArgument   = "invalid argument"
	CodeUnknownError      = "unknown error"
	CodeTimeout           = "timeout"
)

type errorMapping struct {
	code       string
	legacy     int
	httpStatus int
}

// errorTable maps W3C error codes to legacy status numbers and HTTP statuses. Several legacy numbers
// share one W3C code; the first entry for a code is the one used when going W3C -> legacy.
var errorTable = []errorMapping{
	{"invalid session id", 6, http.StatusNotFound},
	{"no such element", 7, http.StatusNotFound},
	{"no such frame", 8, http.StatusNotFound},
	{"unknown command", 9, http.StatusNotFound},
	{"stale element reference", 10, http.StatusNotFound},
	{"element not interactable", 11, http.StatusBadRequest},
	{"invalid element state", 12, http.StatusBadRequest},
	{"unknown error", 13, http.StatusInternalServerError},
	{"element not selectable", 15, http.StatusBadRequest},
	{"javascript error", 17, http.StatusInternalServerError},
	{"invalid selector", 32, http.StatusBadRequest},
	{"invalid selector", 19, http.StatusBadRequest},
	{"timeout", 21, http.StatusInternalServerError},
	{"no such window", 23, http.StatusNotFound},
	{"invalid cookie domain", 24, http.StatusBadRequest},
	{"unable to set cookie", 25, http.StatusInternalServerError},
	{"unexpected alert open", 26, http.StatusInternalServerError},
	{"no such alert", 27, http.StatusNotFound},
	{"script timeout", 28, http.StatusInternalServerError},
	{"session not created", 33, http.StatusInternalServerError},
	{"move target out of bounds", 34, http.StatusInternalServerError},
	{"invalid argument", 61, http.StatusBadRequest},
	{"no such cookie", 62, http.StatusNotFound},
	{"unable to capture screen", 63, http.StatusInternalServerError},
	{"element click intercepted", 64, http.StatusBadRequest},
	{"unknown method", 405, http.StatusMethodNotAllowed},
}

// LegacyStatus returns the legacy status number for a W3C error code; unknown codes give 13 (unknown error).
func LegacyStatus(code string) int {
	for _, m := range errorTable {
		if m.code == code {
			return m.legacy
		}
	}
	return 13
}

// CodeForLegacyStatus returns the W3C error code for a legacy status number; unknown numbers give "unknown error".
func CodeForLegacyStatus(status int) string {
	for _, m := range errorTable {
		if m.legacy == status {
			return m.code
		}
	}
	return CodeUnknownError
}

// HTTPStatus returns the HTTP status a W3C endpoint answers with for code; unknown codes give 500.
func HTTPStatus(code string) int {
	for _, m := range errorTable {
		if m.code == code {
			return m.httpStatus
		}
	}
	return http.StatusInternalServerError
}
