package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a live browser session owned by one node slot.
// Written once to the session map when created; read on every forwarded command.
type Session struct {
	ID             string       `json:"id"`
	NodeID         uuid.UUID    `json:"node_id"`
	NodeURI        string       `json:"node_uri"`
	ForwardURI     string       `json:"forward_uri"`
	StereotypeSlot int          `json:"stereotype_slot"`
	Capabilities   Capabilities `json:"capabilities"`
	StartTime      time.Time    `json:"start_time"`
	CallerDialect  Dialect      `json:"caller_dialect"`
	NodeDialect    Dialect      `json:"node_dialect"`
}

// NeedsTranslation reports whether commands must be converted between the caller and node dialects.
func (s Session) NeedsTranslation() bool {
	return s.CallerDialect != s.NodeDialect
}

// SessionRequest is a pending new-session request.
// Capabilities is the first-match fallback list, tried in order.
type SessionRequest struct {
	RequestID     uuid.UUID
	Capabilities  []Capabilities
	CallerDialect Dialect
	EnqueuedAt    time.Time
	Deadline      time.Time
}

// CreatedSession is what a node returns for a successful new-session command.
type CreatedSession struct {
	ID           string
	Capabilities Capabilities
	Dialect      Dialect
}
