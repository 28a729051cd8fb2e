package service

import (
	"sync"

	"mygrid/domain"
	"mygrid/helpers"

	"github.com/go-kit/log"
	"github.com/google/uuid"
)

// Node is a registered worker as the distributor sees it: its addresses, stereotypes, slot usage and health.
// Health and drain state are guarded by mu; slot usage by the CapacityModel.
type Node struct {
	id          uuid.UUID
	externalURI string
	forwardURI  string
	stereotypes []domain.Stereotype
	capacity    *CapacityModel

	mu       sync.Mutex
	down     bool
	draining bool
	failures int
}

// NewNode creates an UP node from a validated registration. Panics on nil logger or metrics.
//
// Called from Distributor.Register.
func NewNode(reg domain.NodeRegistration, metrics *Metrics, logger log.Logger) *Node {
	stereotypes := make([]domain.Stereotype, len(reg.Stereotypes))
	for i, st := range reg.Stereotypes {
		stereotypes[i] = domain.Stereotype{Capabilities: st.Capabilities.Clone(), MaxSessions: st.MaxSessions}
	}
	logger = log.With(helpers.NilPanic(logger, "service.node.go: logger is required"), "node", reg.ID.String())
	return &Node{
		id:          reg.ID,
		externalURI: reg.ExternalURI,
		forwardURI:  reg.ForwardURI(),
		stereotypes: stereotypes,
		capacity:    NewCapacityModel(stereotypes, metrics, logger),
	}
}

func (n *Node) ID() uuid.UUID { return n.id }

// ForwardURI is the address commands for this node's sessions are sent to.
func (n *Node) ForwardURI() string { return n.forwardURI }

func (n *Node) ExternalURI() string { return n.externalURI }

func (n *Node) Capacity() *CapacityModel { return n.capacity }

// Availability is DRAINING once drained, otherwise DOWN after the unhealthy threshold of failures, otherwise UP.
func (n *Node) Availability() domain.Availability {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.availabilityLocked()
}

func (n *Node) availabilityLocked() domain.Availability {
	switch {
	case n.draining:
		return domain.AvailabilityDraining
	case n.down:
		return domain.AvailabilityDown
	}
	return domain.AvailabilityUp
}

// Accepting reports whether the node may be given new sessions.
func (n *Node) Accepting() bool {
	return n.Availability() == domain.AvailabilityUp
}

// Drain stops new sessions on the node. It cannot be undone; the node re-registers to come back.
func (n *Node) Drain() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.draining = true
}

// RecordHealth applies one health observation: success resets the failure count and brings a DOWN node
// back UP; failure increments it and marks the node DOWN at unhealthyThreshold consecutive failures.
//
// Returns: availability before and after, and the consecutive failure count.
func (n *Node) RecordHealth(ok bool, unhealthyThreshold int) (before, after domain.Availability, failures int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	before = n.availabilityLocked()
	if ok {
		n.failures = 0
		n.down = false
	} else {
		n.failures++
		if n.failures >= unhealthyThreshold {
			n.down = true
		}
	}
	return before, n.availabilityLocked(), n.failures
}

// Revive clears failures and brings the node UP again (a re-registration of the same id). Drain is kept.
func (n *Node) Revive() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = 0
	n.down = false
}

// SupportsAny reports whether some stereotype matches one of the capability sets, ignoring load and health.
func (n *Node) SupportsAny(list []domain.Capabilities) bool {
	for _, caps := range list {
		for _, st := range n.stereotypes {
			if caps.Matches(st.Capabilities) {
				return true
			}
		}
	}
	return false
}

// FreeSlotFor returns the first stereotype matching caps that has a free slot at the time of the call.
func (n *Node) FreeSlotFor(caps domain.Capabilities) (int, bool) {
	for i, st := range n.stereotypes {
		if caps.Matches(st.Capabilities) && n.capacity.HasFree(i) {
			return i, true
		}
	}
	return 0, false
}

// Stereotype returns the stereotype at slot.
func (n *Node) Stereotype(slot int) domain.Stereotype {
	return n.stereotypes[slot]
}

// Summary is a point-in-time view of the node for status reporting.
func (n *Node) Summary() domain.NodeSummary {
	sts := make([]domain.StereotypeSummary, len(n.stereotypes))
	for i, st := range n.stereotypes {
		current, limit := n.capacity.Load(i)
		sts[i] = domain.StereotypeSummary{Capabilities: st.Capabilities.Clone(), Max: limit, Current: current}
	}
	return domain.NodeSummary{
		ID:           n.id,
		URI:          n.externalURI,
		Availability: n.Availability(),
		Stereotypes:  sts,
	}
}
