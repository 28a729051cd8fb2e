package interfaces

import (
	"context"

	"mygrid/domain"
)

// NodeClient talks to worker nodes over their HTTP surface. Every call takes the node's forward URI
// (internal URI, or external when no internal one is registered).
//
// Implemented by adapters.NodeHTTP. Called from service.Distributor (NewSession, StopSession, Status)
// and service.SessionProxy (Do).
//
//go:generate moq -stub -out mock/node_client.go -pkg mock . NodeClient
type NodeClient interface {
	// NewSession asks the node to start a session with the given capabilities, sending a payload both dialects understand.
	// Returns: (created session with the node's dialect detected from the response shape, nil);
	// (zero, error) when the node is unreachable, answers non-2xx or with a body neither dialect describes.
	NewSession(ctx context.Context, nodeURI string, caps domain.Capabilities) (domain.CreatedSession, error)

	// StopSession sends DELETE /session/{id} to the node. Used to discard sessions nobody is waiting for.
	// Returns: nil on 2xx; error otherwise.
	StopSession(ctx context.Context, nodeURI string, sessionID string) error

	// Status probes GET /status on the node.
	// Returns: nil when the node answered 2xx (and did not report itself not ready); error otherwise.
	// Called from the health sweep with a per-check timeout.
	Status(ctx context.Context, nodeURI string) error

	// Do forwards cmd to the node with the Host header rewritten to the node address.
	// Returns: (node response, nil) for any HTTP status; (zero, error) on transport failure or ctx timeout.
	Do(ctx context.Context, nodeURI string, cmd domain.Command) (domain.CommandResponse, error)
}
