package domain

import "net/http"

// Command is one HTTP command addressed to an existing session, as received from the caller.
// Path is relative to the grid root (the /wd/hub prefix is already stripped), e.g. /session/{id}/url.
type Command struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// CommandResponse is a node's (or translated) answer to a Command.
type CommandResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
