package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mygrid/domain"
	"mygrid/helpers"
	"mygrid/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// QueueEntry is a queued request plus its retry bookkeeping. The result channel receives exactly one value.
type QueueEntry struct {
	request  domain.SessionRequest
	retryAt  time.Time
	inFlight bool
	once     sync.Once
	result   chan queueResult
}

type queueResult struct {
	session domain.Session
	err     error
}

// Request returns the queued request.
func (e *QueueEntry) Request() domain.SessionRequest {
	return e.request
}

// resolve delivers the outcome once. Returns false if the entry was already resolved.
func (e *QueueEntry) resolve(session domain.Session, err error) bool {
	resolved := false
	e.once.Do(func() {
		e.result <- queueResult{session: session, err: err}
		resolved = true
	})
	return resolved
}

// SessionQueue holds pending new-session requests in enqueue order. A request taken by PollNext is hidden
// from other pollers until it is requeued or resolved, and keeps its place in line while it waits to retry.
type SessionQueue struct {
	opts         domain.QueueOptions
	timeProvider interfaces.TimeProvider
	supported    func([]domain.Capabilities) bool
	metrics      *Metrics
	logger       log.Logger
	notify       chan struct{}

	mu      sync.Mutex
	entries []*QueueEntry
}

// NewSessionQueue creates an empty queue. supported tells whether any registered node could ever serve a
// fallback list; it is consulted only when opts.RejectUnsupported is set. Panics on nil dependencies.
//
// Called from cmd/main with Distributor.SupportsCapabilities.
func NewSessionQueue(
	opts domain.QueueOptions,
	supported func([]domain.Capabilities) bool,
	timeProvider interfaces.TimeProvider,
	metrics *Metrics,
	logger log.Logger,
) *SessionQueue {
	return &SessionQueue{
		opts:         opts.Normalize(),
		supported:    helpers.NilPanic(supported, "service.session_queue.go: supported is required"),
		timeProvider: helpers.NilPanic(timeProvider, "service.session_queue.go: time provider is required"),
		metrics:      helpers.NilPanic(metrics, "service.session_queue.go: metrics is required"),
		logger:       log.With(helpers.NilPanic(logger, "service.session_queue.go: logger is required"), "component", "session_queue"),
		notify:       make(chan struct{}, 1),
	}
}

// Options returns the normalized queue options.
func (q *SessionQueue) Options() domain.QueueOptions {
	return q.opts
}

// Notify delivers a signal when new work may be eligible (enqueue, wake). Signals coalesce.
func (q *SessionQueue) Notify() <-chan struct{} {
	return q.notify
}

func (q *SessionQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// CreateSession queues the request and blocks until the match loop resolves it, its deadline passes or ctx
// is done. A request nothing could ever match fails at once when RejectUnsupported is set.
//
// Returns: (session, nil); session not created wrapping ErrRequestTimedOut, ErrRequestCancelled or
// ErrNoMatchingNode otherwise.
func (q *SessionQueue) CreateSession(ctx context.Context, caps []domain.Capabilities, callerDialect domain.Dialect) (domain.Session, error) {
	if q.opts.RejectUnsupported && !q.supported(caps) {
		q.metrics.SessionRequest(OutcomeRejected)
		return domain.Session{}, NewSessionNotCreatedError("no registered node supports the requested capabilities", ErrNoMatchingNode)
	}

	entry := q.Enqueue(caps, callerDialect)
	timer := time.NewTimer(q.timeLeft(entry))
	defer timer.Stop()

	select {
	case res := <-entry.result:
		return res.session, res.err
	case <-timer.C:
		q.expire(entry)
	case <-ctx.Done():
		q.cancel(entry, ctx.Err())
	}
	// resolved above, or by the match loop just before us
	res := <-entry.result
	return res.session, res.err
}

func (q *SessionQueue) timeLeft(e *QueueEntry) time.Duration {
	return e.request.Deadline.Sub(q.timeProvider.Now())
}

// Enqueue appends a request with deadline = now + request timeout and signals the match loop.
func (q *SessionQueue) Enqueue(caps []domain.Capabilities, callerDialect domain.Dialect) *QueueEntry {
	now := q.timeProvider.Now()
	entry := &QueueEntry{
		request: domain.SessionRequest{
			RequestID:     uuid.New(),
			Capabilities:  caps,
			CallerDialect: callerDialect,
			EnqueuedAt:    now,
			Deadline:      now.Add(q.opts.RequestTimeout),
		},
		result: make(chan queueResult, 1),
	}

	q.mu.Lock()
	q.entries = append(q.entries, entry)
	size := len(q.entries)
	q.mu.Unlock()

	q.metrics.SetQueueSize(size)
	level.Debug(q.logger).Log("msg", "request queued", "request", entry.request.RequestID, "deadline", entry.request.Deadline)
	q.signal()
	return entry
}

// PollNext returns the oldest request that is neither in flight nor waiting to retry, marking it in flight.
// Requests past their deadline are removed on the way and resolved as timed out.
func (q *SessionQueue) PollNext() (*QueueEntry, bool) {
	now := q.timeProvider.Now()

	q.mu.Lock()
	defer q.mu.Unlock()
	var next *QueueEntry
	kept := q.entries[:0]
	for _, e := range q.entries {
		if !now.Before(e.request.Deadline) {
			q.resolveTimedOut(e)
			continue
		}
		kept = append(kept, e)
		if next == nil && !e.inFlight && !now.Before(e.retryAt) {
			next = e
		}
	}
	clear(q.entries[len(kept):])
	q.entries = kept
	q.metrics.SetQueueSize(len(q.entries))

	if next == nil {
		return nil, false
	}
	next.inFlight = true
	return next, true
}

func (q *SessionQueue) resolveTimedOut(e *QueueEntry) {
	err := NewSessionNotCreatedError(
		fmt.Sprintf("no node matched capabilities within timeout (%s)", q.opts.RequestTimeout),
		ErrRequestTimedOut,
	)
	if e.resolve(domain.Session{}, err) {
		q.metrics.SessionRequest(OutcomeTimedOut)
		level.Info(q.logger).Log("msg", "request timed out", "request", e.request.RequestID)
	}
}

// Requeue makes an in-flight request wait retryInterval before it is eligible again. Its deadline and its
// place in line are unchanged. A request that was resolved meanwhile is ignored.
func (q *SessionQueue) Requeue(e *QueueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e.inFlight = false
	e.retryAt = q.timeProvider.Now().Add(q.opts.RetryInterval)
}

// Complete hands session to the waiting caller and removes the request.
//
// Returns: false when the request was already resolved (timed out or cancelled); the caller must then
// discard the session.
func (q *SessionQueue) Complete(e *QueueEntry, session domain.Session) bool {
	q.remove(e)
	if !e.resolve(session, nil) {
		return false
	}
	q.metrics.SessionRequest(OutcomeCreated)
	return true
}

// Wake makes every retry-waiting request eligible now, keeping enqueue order.
func (q *SessionQueue) Wake() {
	q.mu.Lock()
	for _, e := range q.entries {
		e.retryAt = time.Time{}
	}
	q.mu.Unlock()
	q.signal()
}

// NextWakeup returns the earliest time a queued request becomes eligible or expires.
// Returns: (zero, false) when nothing is waiting on time.
func (q *SessionQueue) NextWakeup() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var next time.Time
	for _, e := range q.entries {
		t := e.request.Deadline
		if !e.inFlight && e.retryAt.Before(t) {
			t = e.retryAt
		}
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}
	return next, !next.IsZero()
}

func (q *SessionQueue) expire(e *QueueEntry) {
	q.remove(e)
	q.resolveTimedOut(e)
}

func (q *SessionQueue) cancel(e *QueueEntry, cause error) {
	q.remove(e)
	if e.resolve(domain.Session{}, NewSessionNotCreatedError("request cancelled", fmt.Errorf("%w: %v", ErrRequestCancelled, cause))) {
		q.metrics.SessionRequest(OutcomeCancelled)
		level.Info(q.logger).Log("msg", "request cancelled", "request", e.request.RequestID, "cause", cause)
	}
}

func (q *SessionQueue) remove(e *QueueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, cur := range q.entries {
		if cur == e {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
	q.metrics.SetQueueSize(len(q.entries))
}

// Pending returns the queued requests, oldest first.
func (q *SessionQueue) Pending() []domain.SessionRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.SessionRequest, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.request)
	}
	return out
}

// Clear fails every queued request with "request cancelled" and returns how many there were.
// Requests whose match is in flight are resolved too; a session created for them is discarded.
func (q *SessionQueue) Clear() int {
	q.mu.Lock()
	entries := q.entries
	q.entries = nil
	q.mu.Unlock()
	q.metrics.SetQueueSize(0)

	for _, e := range entries {
		if e.resolve(domain.Session{}, NewSessionNotCreatedError("request cancelled", ErrRequestCancelled)) {
			q.metrics.SessionRequest(OutcomeCancelled)
		}
	}
	level.Info(q.logger).Log("msg", "session queue cleared", "requests", len(entries))
	return len(entries)
}

// Len returns the number of queued requests, including in-flight ones.
func (q *SessionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
