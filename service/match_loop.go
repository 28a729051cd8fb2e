package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"mygrid/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// idleWait bounds how long the loop sleeps when nothing is scheduled.
const idleWait = time.Minute

// MatchLoop drains the session queue into the distributor. Reservations are taken one request at a time in
// queue order; session creation on the node runs in its own goroutine.
type MatchLoop struct {
	queue       *SessionQueue
	distributor *Distributor
	logger      log.Logger
	wg          sync.WaitGroup
}

// NewMatchLoop creates the loop. Panics on nil queue, distributor or logger.
func NewMatchLoop(queue *SessionQueue, distributor *Distributor, logger log.Logger) *MatchLoop {
	return &MatchLoop{
		queue:       helpers.NilPanic(queue, "service.match_loop.go: queue is required"),
		distributor: helpers.NilPanic(distributor, "service.match_loop.go: distributor is required"),
		logger:      log.With(helpers.NilPanic(logger, "service.match_loop.go: logger is required"), "component", "match_loop"),
	}
}

// Run matches queued requests until ctx is done, then waits for in-flight session creations.
// It wakes on new requests, on freed capacity (which also makes retry-waiting requests eligible) and when
// the next retry or deadline is due.
//
// Called from cmd/main in its own goroutine.
func (m *MatchLoop) Run(ctx context.Context) {
	level.Info(m.logger).Log("msg", "match loop started")
	timer := time.NewTimer(idleWait)
	defer timer.Stop()
	for {
		m.Drain(ctx)

		wait := idleWait
		if next, ok := m.queue.NextWakeup(); ok {
			wait = time.Until(next)
			if wait < time.Millisecond {
				wait = time.Millisecond
			}
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			m.wg.Wait()
			level.Info(m.logger).Log("msg", "match loop stopped")
			return
		case <-m.queue.Notify():
		case <-m.distributor.CapacityFreed():
			m.queue.Wake()
		case <-timer.C:
		}
	}
}

// Drain hands every currently eligible request to the distributor once.
func (m *MatchLoop) Drain(ctx context.Context) {
	for {
		entry, ok := m.queue.PollNext()
		if !ok {
			return
		}
		res, ok := m.distributor.Reserve(entry.Request().Capabilities)
		if !ok {
			m.queue.Requeue(entry)
			continue
		}
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.start(ctx, entry, res)
		}()
	}
}

// start creates the session on the reserved node. Creation is bounded by the request deadline.
func (m *MatchLoop) start(ctx context.Context, entry *QueueEntry, res Reservation) {
	createCtx, cancel := context.WithTimeout(ctx, m.queue.timeLeft(entry))
	defer cancel()

	session, err := m.distributor.StartSession(createCtx, entry.Request(), res)
	if err != nil {
		level.Warn(m.logger).Log("msg", "session creation failed, request requeued", "request", entry.Request().RequestID, "node", res.NodeID, "err", err)
		m.queue.Requeue(entry)
		if errors.Is(err, ErrNodeNotFound) {
			m.queue.Wake()
		}
		return
	}
	if !m.queue.Complete(entry, session) {
		m.distributor.Discard(context.WithoutCancel(ctx), session)
	}
}

// Wait blocks until in-flight session creations have finished.
func (m *MatchLoop) Wait() {
	m.wg.Wait()
}
