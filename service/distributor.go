package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mygrid/domain"
	"mygrid/helpers"
	"mygrid/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// lostSessionTTL is how long the id of a session removed with its node keeps answering "session lost".
const lostSessionTTL = time.Hour

// Reservation is a claimed slot that has not become a session yet.
type Reservation struct {
	NodeID uuid.UUID
	Slot   int
	// Capabilities is the entry of the request's fallback list that matched.
	Capabilities domain.Capabilities
}

type sessionClaim struct {
	nodeID uuid.UUID
	slot   int
}

// Distributor owns the node registry and the slot claims of live sessions. It matches capability requests
// to nodes, starts and ends sessions, and applies health observations.
//
// The registry is read under an RWMutex (a consistent snapshot for matching); slot counters live in each
// node's CapacityModel, so the final reservation is always checked against the true counter.
type Distributor struct {
	client        interfaces.NodeClient
	sessionMap    interfaces.SessionMap
	timeProvider  interfaces.TimeProvider
	metrics       *Metrics
	opts          domain.DistributorOptions
	logger        log.Logger
	lost          *gocache.Cache
	capacityFreed chan struct{}

	mu       sync.RWMutex
	nodes    map[uuid.UUID]*Node
	sessions map[string]sessionClaim
}

// NewDistributor creates an empty Distributor. Panics on nil client, sessionMap, timeProvider, metrics or logger.
//
// Parameters: client: node transport (adapters.NodeHTTP); sessionMap: where created sessions are recorded;
// opts: health and eviction settings (normalized here).
//
// Called from cmd/main; static nodes from config are registered right after.
func NewDistributor(
	client interfaces.NodeClient,
	sessionMap interfaces.SessionMap,
	timeProvider interfaces.TimeProvider,
	metrics *Metrics,
	opts domain.DistributorOptions,
	logger log.Logger,
) *Distributor {
	return &Distributor{
		client:        helpers.NilPanic(client, "service.distributor.go: node client is required"),
		sessionMap:    helpers.NilPanic(sessionMap, "service.distributor.go: session map is required"),
		timeProvider:  helpers.NilPanic(timeProvider, "service.distributor.go: time provider is required"),
		metrics:       helpers.NilPanic(metrics, "service.distributor.go: metrics is required"),
		opts:          opts.Normalize(),
		logger:        log.With(helpers.NilPanic(logger, "service.distributor.go: logger is required"), "component", "distributor"),
		lost:          gocache.New(lostSessionTTL, 10*time.Minute),
		capacityFreed: make(chan struct{}, 1),
		nodes:         make(map[uuid.UUID]*Node),
		sessions:      make(map[string]sessionClaim),
	}
}

// CapacityFreed delivers a signal whenever capacity may have appeared: a session ended, a node registered or
// came back UP. Signals coalesce. Consumed by the match loop to wake retry-waiting requests.
func (d *Distributor) CapacityFreed() <-chan struct{} {
	return d.capacityFreed
}

func (d *Distributor) signalCapacity() {
	select {
	case d.capacityFreed <- struct{}{}:
	default:
	}
}

// Register adds a node. Registering an id that is already known with the same external URI revives it
// (clears failures); a different URI is an invalid argument.
func (d *Distributor) Register(_ context.Context, reg domain.NodeRegistration) error {
	if err := domain.ValidateNodeRegistration(reg); err != nil {
		return NewInvalidArgumentError("invalid node registration", err)
	}

	d.mu.Lock()
	if existing, ok := d.nodes[reg.ID]; ok {
		d.mu.Unlock()
		if existing.ExternalURI() != reg.ExternalURI {
			return NewInvalidArgumentError(fmt.Sprintf("node %s is already registered at %s", reg.ID, existing.ExternalURI()), nil)
		}
		existing.Revive()
		level.Info(d.logger).Log("msg", "node re-registered", "node", reg.ID, "uri", reg.ExternalURI)
		d.afterRegistryChange()
		return nil
	}
	d.nodes[reg.ID] = NewNode(reg, d.metrics, d.logger)
	d.mu.Unlock()

	level.Info(d.logger).Log("msg", "node registered", "node", reg.ID, "uri", reg.ExternalURI, "stereotypes", len(reg.Stereotypes))
	d.afterRegistryChange()
	return nil
}

func (d *Distributor) afterRegistryChange() {
	d.metrics.SetNodes(d.Snapshot())
	d.signalCapacity()
}

// Deregister removes a node and ends its sessions: they are dropped from the session map, remembered as
// lost, and stopped on the node on a best-effort basis.
func (d *Distributor) Deregister(ctx context.Context, id uuid.UUID) error {
	return d.deregister(ctx, id, true, "deregistered")
}

func (d *Distributor) deregister(ctx context.Context, id uuid.UUID, stopSessions bool, reason string) error {
	d.mu.Lock()
	node, ok := d.nodes[id]
	if !ok {
		d.mu.Unlock()
		return NewNoSuchNodeError(fmt.Sprintf("node %s is not registered", id), ErrNodeNotFound)
	}
	delete(d.nodes, id)
	var lost []string
	for sid, claim := range d.sessions {
		if claim.nodeID == id {
			delete(d.sessions, sid)
			lost = append(lost, sid)
		}
	}
	d.mu.Unlock()

	for _, sid := range lost {
		d.lost.SetDefault(sid, id.String())
		if err := d.sessionMap.Remove(ctx, sid); err != nil {
			level.Warn(d.logger).Log("msg", "failed to remove lost session from session map", "session", sid, "err", err)
		}
		if stopSessions {
			if err := d.client.StopSession(ctx, node.ForwardURI(), sid); err != nil {
				level.Warn(d.logger).Log("msg", "failed to stop session on removed node", "session", sid, "node", id, "err", err)
			}
		}
		d.metrics.SessionEnded()
	}

	level.Info(d.logger).Log("msg", "node removed", "node", id, "reason", reason, "sessions_lost", len(lost))
	d.metrics.SetNodes(d.Snapshot())
	return nil
}

// Drain stops new sessions on the node; existing sessions keep running.
func (d *Distributor) Drain(_ context.Context, id uuid.UUID) error {
	node := d.node(id)
	if node == nil {
		return NewNoSuchNodeError(fmt.Sprintf("node %s is not registered", id), ErrNodeNotFound)
	}
	node.Drain()
	level.Info(d.logger).Log("msg", "node draining", "node", id, "sessions", node.Capacity().Sessions())
	d.metrics.SetNodes(d.Snapshot())
	return nil
}

func (d *Distributor) node(id uuid.UUID) *Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nodes[id]
}

// Nodes returns the registered nodes ordered by id.
func (d *Distributor) Nodes() []*Node {
	d.mu.RLock()
	out := make([]*Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		out = append(out, n)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return lessID(out[i].ID(), out[j].ID()) })
	return out
}

func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// Reserve claims a slot for the first entry of list some node can serve right now. For each entry, among UP
// nodes with a matching free stereotype, the node with the lowest relative load wins (ties by node id). If
// the claim loses a race for the slot, the nodes are scanned again.
//
// Returns: (reservation, true); (zero, false) when no node has capacity for any entry.
//
// Called from the match loop, one request at a time, and from TryMatch.
func (d *Distributor) Reserve(list []domain.Capabilities) (Reservation, bool) {
	for _, caps := range list {
		for {
			node, slot, found := d.bestCandidate(caps)
			if !found {
				break
			}
			if err := node.Capacity().Reserve(slot); err != nil {
				continue
			}
			if !node.Accepting() {
				node.Capacity().Release(slot)
				continue
			}
			return Reservation{NodeID: node.ID(), Slot: slot, Capabilities: caps}, true
		}
	}
	return Reservation{}, false
}

func (d *Distributor) bestCandidate(caps domain.Capabilities) (*Node, int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var (
		best     *Node
		bestSlot int
		bestLoad float64
	)
	for _, n := range d.nodes {
		if !n.Accepting() {
			continue
		}
		slot, ok := n.FreeSlotFor(caps)
		if !ok {
			continue
		}
		load := n.Capacity().RelativeLoad()
		if best == nil || load < bestLoad || (load == bestLoad && lessID(n.ID(), best.ID())) {
			best, bestSlot, bestLoad = n, slot, load
		}
	}
	return best, bestSlot, best != nil
}

// StartSession asks the reserved node to create the session and records it. On any failure the slot is
// released (unless the node itself is gone) and the error wraps ErrSessionCreation or ErrNodeNotFound.
//
// Called from the match loop in its own goroutine so slow nodes never block the queue.
func (d *Distributor) StartSession(ctx context.Context, req domain.SessionRequest, res Reservation) (domain.Session, error) {
	node := d.node(res.NodeID)
	if node == nil {
		return domain.Session{}, fmt.Errorf("start session: %w: %s", ErrNodeNotFound, res.NodeID)
	}

	created, err := d.client.NewSession(ctx, node.ForwardURI(), res.Capabilities)
	if err != nil {
		node.Capacity().Release(res.Slot)
		return domain.Session{}, fmt.Errorf("%w on node %s: %v", ErrSessionCreation, node.ID(), err)
	}

	granted := created.Capabilities
	if len(granted) == 0 {
		granted = node.Stereotype(res.Slot).Capabilities.Merge(res.Capabilities)
	}
	session := domain.Session{
		ID:             created.ID,
		NodeID:         node.ID(),
		NodeURI:        node.ExternalURI(),
		ForwardURI:     node.ForwardURI(),
		StereotypeSlot: res.Slot,
		Capabilities:   granted,
		StartTime:      d.timeProvider.Now(),
		CallerDialect:  req.CallerDialect,
		NodeDialect:    created.Dialect,
	}

	cleanupCtx := context.WithoutCancel(ctx)
	if err := d.sessionMap.Add(ctx, session); err != nil {
		node.Capacity().Release(res.Slot)
		d.stopOnNode(cleanupCtx, node.ForwardURI(), session.ID)
		return domain.Session{}, fmt.Errorf("%w: recording session %s: %v", ErrSessionCreation, session.ID, err)
	}

	// The map entry is written before the claim so a concurrent deregister either sees the claim or leaves
	// the cleanup to us.
	d.mu.Lock()
	if d.nodes[node.ID()] != node {
		d.mu.Unlock()
		d.removeFromSessionMap(cleanupCtx, session.ID)
		d.stopOnNode(cleanupCtx, node.ForwardURI(), session.ID)
		return domain.Session{}, fmt.Errorf("start session: %w: %s removed while creating session", ErrNodeNotFound, node.ID())
	}
	d.sessions[session.ID] = sessionClaim{nodeID: node.ID(), slot: res.Slot}
	d.mu.Unlock()
	d.metrics.SessionStarted()

	level.Info(d.logger).Log("msg", "session created", "session", session.ID, "node", node.ID(),
		"caller_dialect", session.CallerDialect, "node_dialect", session.NodeDialect)
	return session, nil
}

func (d *Distributor) removeFromSessionMap(ctx context.Context, sessionID string) {
	if err := d.sessionMap.Remove(ctx, sessionID); err != nil {
		level.Warn(d.logger).Log("msg", "failed to remove session from session map", "session", sessionID, "err", err)
	}
}

func (d *Distributor) stopOnNode(ctx context.Context, nodeURI, sessionID string) {
	if err := d.client.StopSession(ctx, nodeURI, sessionID); err != nil {
		level.Warn(d.logger).Log("msg", "failed to stop session on node", "session", sessionID, "err", err)
	}
}

// TryMatch reserves a slot for req and starts the session there.
//
// Returns: (session, nil); session not created wrapping ErrNoMatchingNode when no node has capacity;
// the StartSession error otherwise.
func (d *Distributor) TryMatch(ctx context.Context, req domain.SessionRequest) (domain.Session, error) {
	res, ok := d.Reserve(req.Capabilities)
	if !ok {
		return domain.Session{}, NewSessionNotCreatedError("no node has capacity for the requested capabilities", ErrNoMatchingNode)
	}
	return d.StartSession(ctx, req, res)
}

// EndSession releases the session's slot and removes it from the session map. The map entry is removed
// on every call; only the first call for a session releases the slot, later calls return false.
func (d *Distributor) EndSession(ctx context.Context, sessionID string) bool {
	d.mu.Lock()
	claim, ok := d.sessions[sessionID]
	if ok {
		delete(d.sessions, sessionID)
	}
	node := d.nodes[claim.nodeID]
	d.mu.Unlock()

	d.removeFromSessionMap(ctx, sessionID)
	if !ok {
		return false
	}
	if node != nil {
		node.Capacity().Release(claim.slot)
	}
	d.metrics.SessionEnded()
	level.Info(d.logger).Log("msg", "session ended", "session", sessionID, "node", claim.nodeID)
	d.signalCapacity()
	return true
}

// Discard stops a session nobody is waiting for any more and releases its slot.
func (d *Distributor) Discard(ctx context.Context, session domain.Session) {
	d.stopOnNode(ctx, session.ForwardURI, session.ID)
	d.EndSession(ctx, session.ID)
	d.metrics.WastedSession()
	level.Info(d.logger).Log("msg", "discarded session created after its request was resolved", "session", session.ID)
}

// IsReady reports whether at least one UP node has a free slot in some stereotype.
func (d *Distributor) IsReady() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, n := range d.nodes {
		if n.Accepting() && n.Capacity().HasAnyFree() {
			return true
		}
	}
	return false
}

// Snapshot returns node summaries ordered by node id.
func (d *Distributor) Snapshot() []domain.NodeSummary {
	nodes := d.Nodes()
	out := make([]domain.NodeSummary, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Summary())
	}
	return out
}

// SupportsCapabilities reports whether any registered node, whatever its health or load, has a stereotype
// matching one of the entries.
func (d *Distributor) SupportsCapabilities(list []domain.Capabilities) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, n := range d.nodes {
		if n.SupportsAny(list) {
			return true
		}
	}
	return false
}

// IsLost reports whether sessionID belonged to a node that was deregistered or evicted.
func (d *Distributor) IsLost(sessionID string) bool {
	_, ok := d.lost.Get(sessionID)
	return ok
}

// CheckNode probes one node with the health check timeout and applies the result.
//
// Called from HealthSweep for every node on every sweep.
func (d *Distributor) CheckNode(ctx context.Context, node *Node) {
	checkCtx, cancel := context.WithTimeout(ctx, d.opts.HealthCheckTimeout)
	err := d.client.Status(checkCtx, node.ForwardURI())
	cancel()
	d.metrics.HealthCheck(err == nil)
	if err != nil {
		level.Debug(d.logger).Log("msg", "node health check failed", "node", node.ID(), "err", err)
	}
	d.applyHealth(ctx, node, err == nil)
}

// ReportNodeFailure counts a failed call to the node (proxy transport error or timeout) like a failed
// health check.
func (d *Distributor) ReportNodeFailure(ctx context.Context, nodeID uuid.UUID) {
	if node := d.node(nodeID); node != nil {
		d.applyHealth(ctx, node, false)
	}
}

func (d *Distributor) applyHealth(ctx context.Context, node *Node, ok bool) {
	before, after, failures := node.RecordHealth(ok, d.opts.UnhealthyThreshold)
	if before != after {
		switch after {
		case domain.AvailabilityDown:
			level.Warn(d.logger).Log("msg", "node is down", "node", node.ID(), "failures", failures)
		case domain.AvailabilityUp:
			level.Info(d.logger).Log("msg", "node is up again", "node", node.ID())
			d.signalCapacity()
		}
		d.metrics.SetNodes(d.Snapshot())
	}
	if !ok && failures >= d.opts.EvictionThreshold {
		level.Warn(d.logger).Log("msg", "evicting node after consecutive failed checks", "node", node.ID(), "failures", failures)
		if err := d.deregister(ctx, node.ID(), false, "evicted"); err != nil && !IsNoSuchNodeError(err) {
			level.Error(d.logger).Log("msg", "failed to evict node", "node", node.ID(), "err", err)
		}
	}
}
