package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"mygrid/dialect"
	"mygrid/domain"
	"mygrid/helpers"
	"mygrid/interfaces"
)

// maxResponseBytes bounds how much of a node answer is read into memory (screenshots are the largest).
const maxResponseBytes = 64 << 20

var errResponseTooLarge = errors.New("node response exceeds size limit")

// NodeHTTP creates an interfaces.NodeClient that talks to nodes over HTTP. Panics on nil client.
//
// Parameters: client: HTTP client shared by all nodes; per-call deadlines come from the ctx of each call
// (health check timeout, proxy timeout), so the client itself needs no Timeout.
//
// Returns: interfaces.NodeClient (*nodeHTTP).
//
// Called from cmd/main; the result is shared by the distributor and the session proxy.
func NodeHTTP(client *http.Client) interfaces.NodeClient {
	return &nodeHTTP{
		client: helpers.NilPanic(client, "adapters.node_http.go: http client is required"),
	}
}

// nodeHTTP implements interfaces.NodeClient.
type nodeHTTP struct {
	client *http.Client
}

// NewSession performs POST nodeURI/session with a payload both dialects accept and detects the node's dialect
// from the answer.
//
// Returns: (created session, nil) on 2xx with a recognised body; (zero, error) on transport failure, non-2xx
// (the node's error message is included) or an unrecognised body.
func (n *nodeHTTP) NewSession(ctx context.Context, nodeURI string, caps domain.Capabilities) (domain.CreatedSession, error) {
	payload, err := dialect.NewSessionPayload(caps)
	if err != nil {
		return domain.CreatedSession{}, err
	}
	resp, err := n.Do(ctx, nodeURI, domain.Command{
		Method: http.MethodPost,
		Path:   "/session",
		Header: http.Header{"Content-Type": {"application/json; charset=utf-8"}},
		Body:   payload,
	})
	if err != nil {
		return domain.CreatedSession{}, err
	}
	created, err := dialect.ParseNewSessionResponse(resp.Body)
	if err != nil {
		return domain.CreatedSession{}, fmt.Errorf("node %s answered %d: %w", nodeURI, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.CreatedSession{}, fmt.Errorf("node %s answered %d to new session", nodeURI, resp.StatusCode)
	}
	return created, nil
}

// StopSession performs DELETE nodeURI/session/{id}.
//
// Returns: nil on 2xx; error on non-2xx or request error.
func (n *nodeHTTP) StopSession(ctx context.Context, nodeURI string, sessionID string) error {
	resp, err := n.Do(ctx, nodeURI, domain.Command{Method: http.MethodDelete, Path: "/session/" + url.PathEscape(sessionID)})
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("node %s answered %d to delete session %s", nodeURI, resp.StatusCode, sessionID)
	}
	return nil
}

// nodeStatus is the part of a node's GET /status answer the grid reads. Ready is absent on minimal nodes.
type nodeStatus struct {
	Value struct {
		Ready *bool `json:"ready"`
	} `json:"value"`
}

// Status performs GET nodeURI/status.
//
// Returns: nil on 2xx unless the body says "ready": false; error otherwise.
//
// Called from service.Distributor.CheckNode on every sweep.
func (n *nodeHTTP) Status(ctx context.Context, nodeURI string) error {
	resp, err := n.Do(ctx, nodeURI, domain.Command{Method: http.MethodGet, Path: "/status"})
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("node %s status returned %d", nodeURI, resp.StatusCode)
	}
	var st nodeStatus
	if err := json.Unmarshal(resp.Body, &st); err == nil && st.Value.Ready != nil && !*st.Value.Ready {
		return fmt.Errorf("node %s reports not ready", nodeURI)
	}
	return nil
}

// Do sends cmd to the node at nodeURI with the Host header rewritten to the node, and reads the whole answer.
//
// Returns: (response, nil) for any HTTP status; (zero, error) on a bad nodeURI, transport failure, ctx
// timeout or an answer larger than maxResponseBytes.
//
// Called from service.SessionProxy.Forward for every session command.
func (n *nodeHTTP) Do(ctx context.Context, nodeURI string, cmd domain.Command) (domain.CommandResponse, error) {
	target, err := url.Parse(nodeURI)
	if err != nil || target.Host == "" {
		return domain.CommandResponse{}, fmt.Errorf("invalid node uri %q", nodeURI)
	}

	var body io.Reader
	if len(cmd.Body) > 0 {
		body = bytes.NewReader(cmd.Body)
	}
	req, err := http.NewRequestWithContext(ctx, cmd.Method, "/", body)
	if err != nil {
		return domain.CommandResponse{}, err
	}
	req.URL.Path = cmd.Path
	req.URL.RawQuery = cmd.Query
	for k, vv := range cmd.Header {
		req.Header[k] = append([]string(nil), vv...)
	}
	if len(cmd.Body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	helpers.RewriteHost(req, target)

	resp, err := n.client.Do(req)
	if err != nil {
		return domain.CommandResponse{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return domain.CommandResponse{}, err
	}
	if len(data) > maxResponseBytes {
		return domain.CommandResponse{}, errResponseTooLarge
	}
	return domain.CommandResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
