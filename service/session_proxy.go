package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mygrid/dialect"
	"mygrid/domain"
	"mygrid/helpers"
	"mygrid/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// SessionProxy forwards commands of existing sessions to their nodes. It rewrites the target to the node
// address, translates bodies when caller and node speak different dialects, and ends the session when the
// caller deletes it or the node says it is gone.
type SessionProxy struct {
	sessions    interfaces.SessionMap
	client      interfaces.NodeClient
	distributor *Distributor
	timeout     time.Duration
	metrics     *Metrics
	logger      log.Logger
}

// NewSessionProxy creates the proxy. Panics on nil dependencies.
//
// Parameters: opts.ProxyTimeout bounds every forwarded call.
//
// Called from cmd/main; used by handlers.Router for /session/{id}/...
func NewSessionProxy(
	sessions interfaces.SessionMap,
	client interfaces.NodeClient,
	distributor *Distributor,
	opts domain.RouterOptions,
	metrics *Metrics,
	logger log.Logger,
) *SessionProxy {
	timeout := opts.ProxyTimeout
	if timeout <= 0 {
		timeout = domain.DefaultProxyTimeout
	}
	return &SessionProxy{
		sessions:    helpers.NilPanic(sessions, "service.session_proxy.go: session map is required"),
		client:      helpers.NilPanic(client, "service.session_proxy.go: node client is required"),
		distributor: helpers.NilPanic(distributor, "service.session_proxy.go: distributor is required"),
		timeout:     timeout,
		metrics:     helpers.NilPanic(metrics, "service.session_proxy.go: metrics is required"),
		logger:      log.With(helpers.NilPanic(logger, "service.session_proxy.go: logger is required"), "component", "session_proxy"),
	}
}

// Forward sends cmd to the node owning sessionID and returns the node's answer in the caller's dialect.
// DELETE /session/{id} always releases the session's slot, whatever the node answers.
//
// Returns: (response, nil) for any node HTTP status; invalid session id for unknown or lost sessions;
// unknown error wrapping ErrNodeUnreachable or ErrDialectTranslation.
func (p *SessionProxy) Forward(ctx context.Context, sessionID string, cmd domain.Command) (domain.CommandResponse, error) {
	session, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrUnknownSession) {
			if p.distributor.IsLost(sessionID) {
				return domain.CommandResponse{}, NewInvalidSessionIDError(
					fmt.Sprintf("session %s lost: its node was removed from the grid", sessionID), ErrSessionLost)
			}
			return domain.CommandResponse{}, err
		}
		return domain.CommandResponse{}, NewUnknownError("session lookup failed", err)
	}

	if cmd.Method == http.MethodDelete && strings.TrimSuffix(cmd.Path, "/") == "/session/"+sessionID {
		defer p.distributor.EndSession(context.WithoutCancel(ctx), sessionID)
	}

	conv := dialect.NewConverter(session.CallerDialect, session.NodeDialect)
	nodeCmd, err := conv.Request(sessionID, cmd)
	if err != nil {
		p.metrics.ProxyFailure("translation")
		return domain.CommandResponse{}, NewUnknownError("malformed request: cannot translate to the node's dialect", err)
	}
	nodeCmd.Header = helpers.ForwardHeaders(cmd.Header)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	resp, err := p.client.Do(callCtx, session.ForwardURI, nodeCmd)
	if err != nil {
		p.metrics.ProxyFailure("unreachable")
		if ctx.Err() == nil {
			p.distributor.ReportNodeFailure(ctx, session.NodeID)
		}
		level.Warn(p.logger).Log("msg", "forwarding to node failed", "session", sessionID, "node", session.NodeID, "err", err)
		return domain.CommandResponse{}, NewUnknownError(
			fmt.Sprintf("node %s did not answer", session.NodeURI), fmt.Errorf("%w: %v", ErrNodeUnreachable, err))
	}

	if dialect.SessionGone(session.NodeDialect, resp) {
		p.distributor.EndSession(context.WithoutCancel(ctx), sessionID)
	}

	out, err := conv.Response(sessionID, resp)
	if err != nil {
		p.metrics.ProxyFailure("translation")
		return domain.CommandResponse{}, NewUnknownError("malformed response: cannot translate from the node's dialect", err)
	}
	return out, nil
}
