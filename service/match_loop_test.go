package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"mygrid/domain"
	"mygrid/interfaces/mock"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatchLoop_Panics(t *testing.T) {
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap())
	q := newTestQueue(newFakeClock(), testMetrics())
	t.Run("queue_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.match_loop.go: queue is required", func() { NewMatchLoop(nil, d, log.NewNopLogger()) })
	})
	t.Run("distributor_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.match_loop.go: distributor is required", func() { NewMatchLoop(q, nil, log.NewNopLogger()) })
	})
	t.Run("logger_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.match_loop.go: logger is required", func() { NewMatchLoop(q, d, nil) })
	})
}

func TestMatchLoop_DrainKeepsQueueOrder(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))
	q := newTestQueue(clock, testMetrics())
	m := NewMatchLoop(q, d, log.NewNopLogger())

	busy, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.NoError(t, err)

	first := q.Enqueue(wants("chrome"), domain.DialectW3C)
	second := q.Enqueue(wants("chrome"), domain.DialectW3C)
	m.Drain(ctx)
	m.Wait()
	assert.Equal(t, 2, q.Len(), "no capacity, both wait to retry")

	require.True(t, d.EndSession(ctx, busy.ID))
	q.Wake()
	m.Drain(ctx)
	m.Wait()

	s, err := resultOf(t, first)
	require.NoError(t, err)
	assert.Equal(t, nodeA, s.NodeID)
	assert.Equal(t, 1, q.Len())
	q.Wake()
	assert.Same(t, second, mustPoll(t, q))
}

func mustPoll(t *testing.T, q *SessionQueue) *QueueEntry {
	t.Helper()
	e, ok := q.PollNext()
	require.True(t, ok)
	return e
}

func TestMatchLoop_RetriesAfterCreationFailure(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	var attempts atomic.Int32
	ok := okNodeClient(domain.DialectW3C)
	client := &mock.NodeClientMock{
		NewSessionFunc: func(ctx context.Context, nodeURI string, caps domain.Capabilities) (domain.CreatedSession, error) {
			if attempts.Add(1) == 1 {
				return domain.CreatedSession{}, errors.New("driver failed to start")
			}
			return ok.NewSession(ctx, nodeURI, caps)
		},
	}
	d := newTestDistributor(t, client, NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))
	q := newTestQueue(clock, testMetrics())
	m := NewMatchLoop(q, d, log.NewNopLogger())

	e := q.Enqueue(wants("chrome"), domain.DialectW3C)
	m.Drain(ctx)
	m.Wait()
	assert.Equal(t, 1, q.Len())
	current, _ := d.Nodes()[0].Capacity().Load(0)
	assert.Zero(t, current, "failed creation releases the slot")

	m.Drain(ctx)
	m.Wait()
	assert.Equal(t, int32(1), attempts.Load(), "waits for the retry interval")

	clock.Advance(2 * time.Second)
	m.Drain(ctx)
	m.Wait()
	s, err := resultOf(t, e)
	require.NoError(t, err)
	assert.Equal(t, "s-1", s.ID)
	assert.Zero(t, q.Len())
}

func TestMatchLoop_DiscardsSessionForResolvedRequest(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	release := make(chan struct{})
	ok := okNodeClient(domain.DialectW3C)
	client := &mock.NodeClientMock{
		NewSessionFunc: func(ctx context.Context, nodeURI string, caps domain.Capabilities) (domain.CreatedSession, error) {
			<-release
			return ok.NewSession(ctx, nodeURI, caps)
		},
	}
	metrics := testMetrics()
	d := NewDistributor(client, NewLocalSessionMap(), realClock(), metrics, domain.DistributorOptions{}, log.NewNopLogger())
	require.NoError(t, d.Register(ctx, registration(nodeA, stereotype("chrome", 1))))
	q := newTestQueue(clock, testMetrics())
	m := NewMatchLoop(q, d, log.NewNopLogger())

	e := q.Enqueue(wants("chrome"), domain.DialectW3C)
	m.Drain(ctx)
	require.Equal(t, 1, q.Clear())
	close(release)
	m.Wait()

	_, err := resultOf(t, e)
	assert.ErrorIs(t, err, ErrRequestCancelled)
	require.Len(t, client.StopSessionCalls(), 1)
	assert.Equal(t, "s-1", client.StopSessionCalls()[0].SessionID)
	current, _ := d.Nodes()[0].Capacity().Load(0)
	assert.Zero(t, current)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.wastedSessions))
}

func TestMatchLoop_HangingNodeReleasesSlotAtDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var hadDeadline atomic.Bool
	client := &mock.NodeClientMock{
		NewSessionFunc: func(ctx context.Context, nodeURI string, caps domain.Capabilities) (domain.CreatedSession, error) {
			_, ok := ctx.Deadline()
			hadDeadline.Store(ok)
			<-ctx.Done()
			return domain.CreatedSession{}, ctx.Err()
		},
	}
	d := newTestDistributor(t, client, NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))
	q := NewSessionQueue(domain.QueueOptions{RequestTimeout: 100 * time.Millisecond, RetryInterval: 20 * time.Millisecond},
		supportsAll, realClock(), testMetrics(), log.NewNopLogger())
	m := NewMatchLoop(q, d, log.NewNopLogger())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	_, err := q.CreateSession(ctx, wants("chrome"), domain.DialectW3C)

	require.ErrorIs(t, err, ErrRequestTimedOut)
	require.Eventually(t, func() bool {
		current, _ := d.Nodes()[0].Capacity().Load(0)
		return current == 0
	}, time.Second, 5*time.Millisecond, "slot must be released once the request deadline passes")
	assert.True(t, hadDeadline.Load())
	assert.True(t, d.IsReady())
}

func TestMatchLoop_Run(t *testing.T) {
	t.Run("freed_capacity_wakes_waiting_request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))
		q := NewSessionQueue(domain.QueueOptions{RequestTimeout: 5 * time.Second, RetryInterval: 10 * time.Second},
			supportsAll, realClock(), testMetrics(), log.NewNopLogger())
		m := NewMatchLoop(q, d, log.NewNopLogger())
		done := make(chan struct{})
		go func() {
			m.Run(ctx)
			close(done)
		}()
		defer func() {
			cancel()
			<-done
		}()

		busy, err := q.CreateSession(ctx, wants("chrome"), domain.DialectW3C)
		require.NoError(t, err)

		type result struct {
			s   domain.Session
			err error
		}
		waiting := make(chan result, 1)
		go func() {
			s, err := q.CreateSession(ctx, wants("chrome"), domain.DialectW3C)
			waiting <- result{s, err}
		}()
		require.Eventually(t, func() bool { return q.Len() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(50 * time.Millisecond)

		d.EndSession(ctx, busy.ID)
		select {
		case r := <-waiting:
			require.NoError(t, r.err)
			assert.NotEqual(t, busy.ID, r.s.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("request was not woken by freed capacity")
		}
	})
	t.Run("times_out_without_nodes", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap())
		q := NewSessionQueue(domain.QueueOptions{RequestTimeout: 100 * time.Millisecond, RetryInterval: 20 * time.Millisecond},
			supportsAll, realClock(), testMetrics(), log.NewNopLogger())
		m := NewMatchLoop(q, d, log.NewNopLogger())
		done := make(chan struct{})
		go func() {
			m.Run(ctx)
			close(done)
		}()
		defer func() {
			cancel()
			<-done
		}()

		start := time.Now()
		_, err := q.CreateSession(ctx, wants("chrome"), domain.DialectW3C)
		elapsed := time.Since(start)
		require.ErrorIs(t, err, ErrRequestTimedOut)
		assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
		assert.Less(t, elapsed, time.Second)
	})
}
