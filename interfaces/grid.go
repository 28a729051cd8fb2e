package interfaces

import (
	"context"

	"mygrid/domain"

	"github.com/google/uuid"
)

// SessionCreator turns a new-session request into a running session: it queues the request and waits
// until the match loop resolves it.
//
// Implemented by service.SessionQueue. Called from handlers.Router for POST /session.
//
//go:generate moq -stub -out mock/session_creator.go -pkg mock . SessionCreator
type SessionCreator interface {
	// CreateSession blocks until a session is created on some node, the request deadline passes or ctx is done.
	// Returns: (session, nil); (zero, session not created error) on timeout, cancellation or unsupported capabilities.
	CreateSession(ctx context.Context, caps []domain.Capabilities, callerDialect domain.Dialect) (domain.Session, error)
}

// QueueAdmin exposes the pending new-session requests.
//
// Implemented by service.SessionQueue. Called from handlers.Router for /se/grid/newsessionqueue/queue.
//
//go:generate moq -stub -out mock/queue_admin.go -pkg mock . QueueAdmin
type QueueAdmin interface {
	// Pending returns a snapshot of queued requests, oldest first.
	Pending() []domain.SessionRequest

	// Clear fails every waiting request with "request cancelled" and returns how many were removed.
	Clear() int
}

// NodeRegistry is the administrative and status view of the distributor.
//
// Implemented by service.Distributor. Called from handlers.Router.
//
//go:generate moq -stub -out mock/node_registry.go -pkg mock . NodeRegistry
type NodeRegistry interface {
	// Register adds a node. Registering a known id again at the same URI revives it; a different URI is an invalid argument.
	Register(ctx context.Context, reg domain.NodeRegistration) error

	// Deregister removes a node, ending its sessions. Returns a "no such node" error for unknown ids.
	Deregister(ctx context.Context, id uuid.UUID) error

	// Drain stops new sessions on the node; existing ones keep running.
	Drain(ctx context.Context, id uuid.UUID) error

	// IsReady reports whether some UP node has a free slot.
	IsReady() bool

	// Snapshot returns node summaries ordered by node id.
	Snapshot() []domain.NodeSummary
}

// CommandForwarder sends a command to the node owning the session and returns its (possibly translated) answer.
//
// Implemented by service.SessionProxy. Called from handlers.Router for /session/{id}/...
//
//go:generate moq -stub -out mock/command_forwarder.go -pkg mock . CommandForwarder
type CommandForwarder interface {
	// Forward looks the session up, forwards cmd and, for DELETE /session/{id}, ends the session.
	// Returns: (response, nil) for any node HTTP status; (zero, invalid session id) for unknown or lost sessions;
	// (zero, unknown error) on transport failure or dialect translation failure.
	Forward(ctx context.Context, sessionID string, cmd domain.Command) (domain.CommandResponse, error)
}
