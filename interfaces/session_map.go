package interfaces

import (
	"context"

	"mygrid/domain"
)

// SessionMap maps a session id to its owning node. Written once when the session is created,
// read on every forwarded command, removed when the session ends.
//
// Implemented by service.LocalSessionMap (in-process) and adapters/myredis.SessionMap (shared, Redis).
//
//go:generate moq -stub -out mock/session_map.go -pkg mock . SessionMap
type SessionMap interface {
	// Add records session. Returns: nil on success; unknown error when storage fails.
	Add(ctx context.Context, session domain.Session) error

	// Get returns the session for id.
	// Returns: (session, nil); (zero, invalid session id error wrapping service.ErrUnknownSession) when absent;
	// (zero, unknown error) when storage fails.
	Get(ctx context.Context, id string) (domain.Session, error)

	// Remove deletes id. Removing an absent id is not an error.
	Remove(ctx context.Context, id string) error
}
