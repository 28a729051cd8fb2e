// Package handlers contains http handlers for mygrid.
//
//go:generate oapi-codegen -config openapi-api.config.yaml ../api/grid.openapi.yaml
//go:generate oapi-codegen -config openapi-types.config.yaml ../api/grid.openapi.yaml
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mygrid/dialect"
	"mygrid/domain"
	"mygrid/helpers"
	"mygrid/interfaces"
	"mygrid/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// LegacyPrefix is the path prefix older clients put in front of every command. Routes are served with and without it.
const LegacyPrefix = "/wd/hub"

// maxBodyBytes bounds request bodies read by the router (file uploads are the largest).
const maxBodyBytes = 64 << 20

var errBodyTooLarge = errors.New("request body exceeds size limit")

var _ ServerInterface = (*Router)(nil)

// Router is the grid's single HTTP entry point: new sessions go to the session queue, commands of existing
// sessions to the session proxy, status and administration to the distributor and the queue.
type Router struct {
	creator   interfaces.SessionCreator
	queue     interfaces.QueueAdmin
	registry  interfaces.NodeRegistry
	forwarder interfaces.CommandForwarder
	logger    log.Logger
}

// NewRouter creates the Router. Panics on nil dependencies.
//
// Called from cmd/main with the session queue (creator and queue), the distributor (registry) and the
// session proxy (forwarder).
func NewRouter(
	creator interfaces.SessionCreator,
	queue interfaces.QueueAdmin,
	registry interfaces.NodeRegistry,
	forwarder interfaces.CommandForwarder,
	logger log.Logger,
) *Router {
	return &Router{
		creator:   helpers.NilPanic(creator, "handlers.router.go: session creator is required"),
		queue:     helpers.NilPanic(queue, "handlers.router.go: queue admin is required"),
		registry:  helpers.NilPanic(registry, "handlers.router.go: node registry is required"),
		forwarder: helpers.NilPanic(forwarder, "handlers.router.go: command forwarder is required"),
		logger:    log.With(helpers.NilPanic(logger, "handlers.router.go: logger is required"), "component", "router"),
	}
}

// RegisterRoutes adds the grid routes to e at the root and under LegacyPrefix. admin middlewares run before
// the queue and node administration endpoints that change state. Paths without a route are answered by the
// error handler as "unknown command".
func (r *Router) RegisterRoutes(e *echo.Echo, admin ...echo.MiddlewareFunc) {
	guarded := adminRouter{EchoRouter: e, admin: admin}
	for _, prefix := range []string{"", LegacyPrefix} {
		RegisterHandlersWithBaseURL(guarded, r, prefix)
		e.Any(prefix+"/session/:id", r.SessionCommand)
		e.Any(prefix+"/session/:id/*", r.SessionCommand)
	}
}

// adminRouter puts the admin middlewares in front of the POST and DELETE routes under /se/grid/.
type adminRouter struct {
	EchoRouter
	admin []echo.MiddlewareFunc
}

func (a adminRouter) POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route {
	return a.EchoRouter.POST(path, h, a.guard(path, m)...)
}

func (a adminRouter) DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route {
	return a.EchoRouter.DELETE(path, h, a.guard(path, m)...)
}

func (a adminRouter) guard(path string, m []echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if !strings.Contains(path, "/se/grid/") {
		return m
	}
	return append(append([]echo.MiddlewareFunc{}, a.admin...), m...)
}

// NewSession (POST /session) parses the payload in either dialect, waits for the queue to resolve the
// request and answers in the caller's dialect. Errors after the dialect is known are written in it.
func (r *Router) NewSession(ectx echo.Context) error {
	body, err := readBody(ectx.Request())
	if err != nil {
		return err
	}
	caps, callerDialect, err := dialect.ParseNewSessionRequest(body)
	if err != nil {
		return service.NewInvalidArgumentError(err.Error(), err)
	}
	ectx.Set(service.ContextKeyDialect, callerDialect)
	level.Debug(r.logger).Log("msg", "new session request", "dialect", callerDialect, "entries", len(caps))

	session, err := r.creator.CreateSession(ectx.Request().Context(), caps, callerDialect)
	if err != nil {
		return err
	}
	out, err := dialect.NewSessionResponseBody(callerDialect, session.ID, session.Capabilities)
	if err != nil {
		return service.NewUnknownError("cannot encode new session response", err)
	}
	return ectx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, out)
}

// SessionCommand (ANY /session/{id}[/...]) forwards the command to the session's node and relays the answer.
func (r *Router) SessionCommand(ectx echo.Context) error {
	req := ectx.Request()
	body, err := readBody(req)
	if err != nil {
		return err
	}
	cmd := domain.Command{
		Method: req.Method,
		Path:   stripLegacyPrefix(req.URL.Path),
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   body,
	}

	resp, err := r.forwarder.Forward(req.Context(), ectx.Param("id"), cmd)
	if err != nil {
		return err
	}
	return writeCommandResponse(ectx, resp)
}

// GetStatus (GET /status) reports fleet readiness and node summaries. Always 200; readiness is in the body.
func (r *Router) GetStatus(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, toStatusResponse(r.registry.IsReady(), r.registry.Snapshot()))
}

// ListQueue (GET /se/grid/newsessionqueue/queue) lists pending new-session requests, oldest first.
func (r *Router) ListQueue(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, toQueueResponse(r.queue.Pending()))
}

// ClearQueue (DELETE /se/grid/newsessionqueue/queue) fails every pending request with "request cancelled".
func (r *Router) ClearQueue(ectx echo.Context) error {
	n := r.queue.Clear()
	level.Info(r.logger).Log("msg", "new session queue cleared by request", "requests", n)
	return ectx.JSON(http.StatusOK, toClearedResponse(n))
}

// RegisterNode (POST /se/grid/distributor/node) adds a node to the fleet.
func (r *Router) RegisterNode(ectx echo.Context) error {
	var req RegisterNodeJSONRequestBody
	if err := ectx.Bind(&req); err != nil {
		return service.NewInvalidArgumentError("invalid request body", err)
	}
	reg, err := fromNodeRegistration(req)
	if err != nil {
		return err
	}
	if err := r.registry.Register(ectx.Request().Context(), reg); err != nil {
		return fmt.Errorf("registerNode failed to register node %s: %w", reg.ID, err)
	}
	return ectx.JSON(http.StatusOK, toNodeRefResponse(reg.ID))
}

// DeregisterNode (DELETE /se/grid/distributor/node/{nodeId}) removes a node; its sessions are lost.
func (r *Router) DeregisterNode(ectx echo.Context, nodeId NodeId) error {
	id, err := parseNodeID(nodeId)
	if err != nil {
		return err
	}
	if err := r.registry.Deregister(ectx.Request().Context(), id); err != nil {
		return fmt.Errorf("deregisterNode failed for node %s: %w", id, err)
	}
	return ectx.JSON(http.StatusOK, toNodeRefResponse(id))
}

// DrainNode (POST /se/grid/distributor/node/{nodeId}/drain) stops new sessions on a node.
func (r *Router) DrainNode(ectx echo.Context, nodeId NodeId) error {
	id, err := parseNodeID(nodeId)
	if err != nil {
		return err
	}
	if err := r.registry.Drain(ectx.Request().Context(), id); err != nil {
		return fmt.Errorf("drainNode failed for node %s: %w", id, err)
	}
	return ectx.JSON(http.StatusOK, toNodeRefResponse(id))
}

func parseNodeID(nodeId NodeId) (uuid.UUID, error) {
	id, err := uuid.Parse(nodeId)
	if err != nil {
		return uuid.Nil, service.NewInvalidArgumentError("node id must be a uuid", err)
	}
	return id, nil
}

func stripLegacyPrefix(path string) string {
	if strings.HasPrefix(path, LegacyPrefix+"/") {
		return strings.TrimPrefix(path, LegacyPrefix)
	}
	return path
}

func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes+1))
	if err != nil {
		return nil, service.NewInvalidArgumentError("cannot read request body", err)
	}
	if len(body) > maxBodyBytes {
		return nil, service.NewInvalidArgumentError("request body too large", errBodyTooLarge)
	}
	return body, nil
}

func writeCommandResponse(ectx echo.Context, resp domain.CommandResponse) error {
	h := ectx.Response().Header()
	for k, vv := range helpers.ForwardHeaders(resp.Header) {
		h[k] = vv
	}
	h.Del(echo.HeaderContentLength)
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	ectx.Response().WriteHeader(status)
	_, err := ectx.Response().Write(resp.Body)
	return err
}
