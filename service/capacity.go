package service

import (
	"errors"
	"sync"

	"mygrid/domain"
	"mygrid/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrCapacityFull is returned by CapacityModel.Reserve when the stereotype has no free slot.
var ErrCapacityFull = errors.New("no free slot for stereotype")

// CapacityModel is the slot bookkeeping of one node: for each stereotype (by index) the maximum and the
// current number of sessions. Reserve and Release are linearizable; current never exceeds max and never
// goes below zero.
type CapacityModel struct {
	limit   []int
	logger  log.Logger
	metrics *Metrics

	mu   sync.Mutex
	used []int
}

// NewCapacityModel creates an empty CapacityModel for stereotypes. Panics on nil logger or metrics.
//
// Called from NewNode.
func NewCapacityModel(stereotypes []domain.Stereotype, metrics *Metrics, logger log.Logger) *CapacityModel {
	limit := make([]int, len(stereotypes))
	for i, st := range stereotypes {
		limit[i] = st.MaxSessions
	}
	return &CapacityModel{
		limit:   limit,
		used:    make([]int, len(stereotypes)),
		metrics: helpers.NilPanic(metrics, "service.capacity.go: metrics is required"),
		logger:  helpers.NilPanic(logger, "service.capacity.go: logger is required"),
	}
}

// Reserve claims one slot of stereotype slot.
//
// Returns: nil when the slot was claimed; ErrCapacityFull when current == max or slot is out of range.
//
// Called from Distributor.Reserve after picking a candidate from a possibly stale snapshot; this is the
// authoritative check.
func (c *CapacityModel) Reserve(slot int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot < 0 || slot >= len(c.limit) || c.used[slot] >= c.limit[slot] {
		return ErrCapacityFull
	}
	c.used[slot]++
	return nil
}

// Release frees one slot of stereotype slot. Releasing a slot with no sessions is an accounting error: it is
// logged and counted, and the load stays at zero.
func (c *CapacityModel) Release(slot int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot < 0 || slot >= len(c.used) {
		level.Error(c.logger).Log("msg", "capacity release for unknown stereotype", "slot", slot)
		c.metrics.CapacityAnomaly()
		return
	}
	if c.used[slot] == 0 {
		level.Error(c.logger).Log("msg", "capacity release would make load negative, clamped to zero", "slot", slot)
		c.metrics.CapacityAnomaly()
		return
	}
	c.used[slot]--
}

// Load returns (current, max) for stereotype slot.
func (c *CapacityModel) Load(slot int) (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot < 0 || slot >= len(c.used) {
		return 0, 0
	}
	return c.used[slot], c.limit[slot]
}

// HasFree reports whether stereotype slot has a free slot right now.
func (c *CapacityModel) HasFree(slot int) bool {
	current, limit := c.Load(slot)
	return current < limit
}

// HasAnyFree reports whether any stereotype has a free slot.
func (c *CapacityModel) HasAnyFree() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.used {
		if c.used[i] < c.limit[i] {
			return true
		}
	}
	return false
}

// RelativeLoad is the node-wide ratio of used slots to total slots (0 for a node without slots).
func (c *CapacityModel) RelativeLoad() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var used, total int
	for i := range c.used {
		used += c.used[i]
		total += c.limit[i]
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}

// Sessions returns the total number of sessions across stereotypes.
func (c *CapacityModel) Sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, u := range c.used {
		n += u
	}
	return n
}
