package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"mygrid/domain"
	"mygrid/interfaces/mock"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDistributor_Panics(t *testing.T) {
	client := &mock.NodeClientMock{}
	sessions := NewLocalSessionMap()
	tests := []struct {
		name  string
		want  string
		build func()
	}{
		{"client_nil", "service.distributor.go: node client is required", func() {
			NewDistributor(nil, sessions, realClock(), testMetrics(), domain.DistributorOptions{}, log.NewNopLogger())
		}},
		{"session_map_nil", "service.distributor.go: session map is required", func() {
			NewDistributor(client, nil, realClock(), testMetrics(), domain.DistributorOptions{}, log.NewNopLogger())
		}},
		{"time_provider_nil", "service.distributor.go: time provider is required", func() {
			NewDistributor(client, sessions, nil, testMetrics(), domain.DistributorOptions{}, log.NewNopLogger())
		}},
		{"metrics_nil", "service.distributor.go: metrics is required", func() {
			NewDistributor(client, sessions, realClock(), nil, domain.DistributorOptions{}, log.NewNopLogger())
		}},
		{"logger_nil", "service.distributor.go: logger is required", func() {
			NewDistributor(client, sessions, realClock(), testMetrics(), domain.DistributorOptions{}, nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PanicsWithValue(t, tt.want, tt.build)
		})
	}
}

func TestDistributor_Register(t *testing.T) {
	ctx := context.Background()
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap())

	t.Run("invalid_registration", func(t *testing.T) {
		err := d.Register(ctx, domain.NodeRegistration{ID: nodeA})
		require.Error(t, err)
		assert.True(t, IsInvalidArgumentError(err))
	})
	t.Run("registers_and_signals_capacity", func(t *testing.T) {
		drainSignal(d.CapacityFreed())
		require.NoError(t, d.Register(ctx, registration(nodeA, stereotype("chrome", 1))))
		require.Len(t, d.Snapshot(), 1)
		select {
		case <-d.CapacityFreed():
		default:
			t.Fatal("expected a capacity signal after registration")
		}
	})
	t.Run("same_uri_revives", func(t *testing.T) {
		d.ReportNodeFailure(ctx, nodeA)
		d.ReportNodeFailure(ctx, nodeA)
		d.ReportNodeFailure(ctx, nodeA)
		require.Equal(t, domain.AvailabilityDown, d.Snapshot()[0].Availability)

		require.NoError(t, d.Register(ctx, registration(nodeA, stereotype("chrome", 1))))
		assert.Equal(t, domain.AvailabilityUp, d.Snapshot()[0].Availability)
	})
	t.Run("different_uri_rejected", func(t *testing.T) {
		reg := registration(nodeA, stereotype("chrome", 1))
		reg.ExternalURI = "http://elsewhere:5555"
		err := d.Register(ctx, reg)
		require.Error(t, err)
		assert.True(t, IsInvalidArgumentError(err))
	})
}

func TestDistributor_Reserve(t *testing.T) {
	tests := []struct {
		name      string
		nodes     func(d *Distributor)
		request   []domain.Capabilities
		wantOK    bool
		wantNode  string
		wantEntry string
	}{
		{
			name:     "lowest_relative_load_wins",
			request:  wants("chrome"),
			wantOK:   true,
			wantNode: nodeB.String(),
			nodes: func(d *Distributor) {
				// A is half full, B is empty
				_, ok := d.Reserve(wants("chrome"))
				if !ok {
					panic("setup reserve failed")
				}
			},
		},
		{
			name:      "tie_broken_by_node_id",
			request:   wants("chrome"),
			wantOK:    true,
			wantNode:  nodeA.String(),
			wantEntry: "chrome",
			nodes:     func(d *Distributor) {},
		},
		{
			name:      "fallback_list_in_order",
			request:   wants("safari", "firefox", "chrome"),
			wantOK:    true,
			wantNode:  nodeC.String(),
			wantEntry: "firefox",
			nodes:     func(d *Distributor) {},
		},
		{
			name:    "no_match",
			request: wants("safari"),
			wantOK:  false,
			nodes:   func(d *Distributor) {},
		},
		{
			name:      "draining_and_down_skipped",
			request:   wants("chrome"),
			wantOK:    true,
			wantNode:  nodeB.String(),
			wantEntry: "chrome",
			nodes: func(d *Distributor) {
				_ = d.Drain(context.Background(), nodeA)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap(),
				registration(nodeA, stereotype("chrome", 2)),
				registration(nodeB, stereotype("chrome", 2)),
				registration(nodeC, stereotype("firefox", 1)),
			)
			tt.nodes(d)

			res, ok := d.Reserve(tt.request)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantNode, res.NodeID.String())
			if tt.wantEntry != "" {
				assert.Equal(t, tt.wantEntry, res.Capabilities["browserName"])
			}
		})
	}
}

func TestDistributor_DownNodeNotMatched(t *testing.T) {
	ctx := context.Background()
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))
	for i := 0; i < 3; i++ {
		d.ReportNodeFailure(ctx, nodeA)
	}
	_, ok := d.Reserve(wants("chrome"))
	assert.False(t, ok)
}

func TestDistributor_ReservationStorm(t *testing.T) {
	const (
		callers = 40
		slots   = 3
	)
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap(), registration(nodeA, stereotype("chrome", slots)))

	var (
		wg       sync.WaitGroup
		created  atomic.Int32
		noMatch  atomic.Int32
		start    = make(chan struct{})
		otherErr atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := d.TryMatch(context.Background(), w3cRequest(wants("chrome")))
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, ErrNoMatchingNode):
				noMatch.Add(1)
			default:
				otherErr.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(slots), created.Load())
	assert.Equal(t, int32(callers-slots), noMatch.Load())
	assert.Zero(t, otherErr.Load())
	current, limit := d.Nodes()[0].Capacity().Load(0)
	assert.Equal(t, limit, current)
}

func TestDistributor_TryMatchRecordsSession(t *testing.T) {
	ctx := context.Background()
	sessions := NewLocalSessionMap()
	d := newTestDistributor(t, okNodeClient(domain.DialectOSS), sessions, registration(nodeA, stereotype("chrome", 1)))

	s, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.NoError(t, err)
	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, nodeA, s.NodeID)
	assert.Equal(t, domain.DialectW3C, s.CallerDialect)
	assert.Equal(t, domain.DialectOSS, s.NodeDialect)
	assert.False(t, s.StartTime.IsZero())

	stored, err := sessions.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, s, stored)
}

func TestDistributor_CapacityReleasedOnTermination(t *testing.T) {
	ctx := context.Background()
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))

	first, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.NoError(t, err)

	_, err = d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.ErrorIs(t, err, ErrNoMatchingNode)
	assert.True(t, IsSessionNotCreatedError(err))

	assert.True(t, d.EndSession(ctx, first.ID))
	assert.False(t, d.EndSession(ctx, first.ID), "second end must not release again")

	_, err = d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.NoError(t, err)
	current, _ := d.Nodes()[0].Capacity().Load(0)
	assert.Equal(t, 1, current)
}

func TestDistributor_StartSessionFailureReleasesSlot(t *testing.T) {
	ctx := context.Background()
	client := &mock.NodeClientMock{
		NewSessionFunc: func(ctx context.Context, nodeURI string, caps domain.Capabilities) (domain.CreatedSession, error) {
			return domain.CreatedSession{}, errors.New("browser crashed")
		},
	}
	d := newTestDistributor(t, client, NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))

	_, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.ErrorIs(t, err, ErrSessionCreation)
	current, _ := d.Nodes()[0].Capacity().Load(0)
	assert.Equal(t, 0, current)
}

func TestDistributor_SessionMapFailureUndoesSession(t *testing.T) {
	ctx := context.Background()
	client := okNodeClient(domain.DialectW3C)
	sessions := &mock.SessionMapMock{
		AddFunc: func(ctx context.Context, session domain.Session) error { return errors.New("redis down") },
	}
	d := newTestDistributor(t, client, sessions, registration(nodeA, stereotype("chrome", 1)))

	_, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.ErrorIs(t, err, ErrSessionCreation)
	current, _ := d.Nodes()[0].Capacity().Load(0)
	assert.Equal(t, 0, current)
	require.Len(t, client.StopSessionCalls(), 1)
	assert.Equal(t, "s-1", client.StopSessionCalls()[0].SessionID)
}

func TestDistributor_NodeRemovedWhileRecordingSession(t *testing.T) {
	ctx := context.Background()
	client := okNodeClient(domain.DialectW3C)
	local := NewLocalSessionMap()
	var d *Distributor
	sessions := &mock.SessionMapMock{
		AddFunc: func(ctx context.Context, session domain.Session) error {
			require.NoError(t, d.Deregister(ctx, nodeA))
			return local.Add(ctx, session)
		},
		GetFunc:    local.Get,
		RemoveFunc: local.Remove,
	}
	d = newTestDistributor(t, client, sessions, registration(nodeA, stereotype("chrome", 1)))

	_, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))

	require.ErrorIs(t, err, ErrNodeNotFound)
	_, err = local.Get(ctx, "s-1")
	assert.ErrorIs(t, err, ErrUnknownSession)
	require.Len(t, sessions.RemoveCalls(), 1)
	assert.Equal(t, "s-1", sessions.RemoveCalls()[0].ID)
	require.Len(t, client.StopSessionCalls(), 1)
	assert.Equal(t, "s-1", client.StopSessionCalls()[0].SessionID)
	assert.Empty(t, d.Snapshot())
}

func TestDistributor_EndSessionWithoutClaimRemovesMapEntry(t *testing.T) {
	ctx := context.Background()
	sessions := NewLocalSessionMap()
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), sessions, registration(nodeA, stereotype("chrome", 1)))
	stale := domain.Session{ID: "s-stale", NodeID: nodeB}
	require.NoError(t, sessions.Add(ctx, stale))

	assert.False(t, d.EndSession(ctx, stale.ID))

	_, err := sessions.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestDistributor_IsReady(t *testing.T) {
	ctx := context.Background()
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap())
	assert.False(t, d.IsReady(), "empty fleet")

	require.NoError(t, d.Register(ctx, registration(nodeA, stereotype("chrome", 1))))
	require.NoError(t, d.Register(ctx, registration(nodeB, stereotype("chrome", 1))))
	assert.True(t, d.IsReady())

	require.NoError(t, d.Drain(ctx, nodeA))
	assert.True(t, d.IsReady(), "B still free")

	_, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.NoError(t, err)
	assert.False(t, d.IsReady(), "A draining, B full")

	require.NoError(t, d.Register(ctx, registration(nodeC, stereotype("firefox", 1))))
	assert.True(t, d.IsReady(), "C has a free slot")

	for i := 0; i < 3; i++ {
		d.ReportNodeFailure(ctx, nodeC)
	}
	assert.False(t, d.IsReady(), "C down")
}

func TestDistributor_Deregister(t *testing.T) {
	ctx := context.Background()
	client := okNodeClient(domain.DialectW3C)
	sessions := NewLocalSessionMap()
	d := newTestDistributor(t, client, sessions, registration(nodeA, stereotype("chrome", 2)), registration(nodeB, stereotype("firefox", 1)))

	onA, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.NoError(t, err)
	onB, err := d.TryMatch(ctx, w3cRequest(wants("firefox")))
	require.NoError(t, err)

	require.NoError(t, d.Deregister(ctx, nodeA))
	assert.Len(t, d.Snapshot(), 1)

	_, err = sessions.Get(ctx, onA.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.True(t, d.IsLost(onA.ID))
	assert.False(t, d.IsLost(onB.ID))
	require.Len(t, client.StopSessionCalls(), 1)
	assert.Equal(t, onA.ID, client.StopSessionCalls()[0].SessionID)

	// ending a session of a removed node is a no-op
	assert.False(t, d.EndSession(ctx, onA.ID))

	err = d.Deregister(ctx, nodeA)
	require.Error(t, err)
	assert.True(t, IsNoSuchNodeError(err))
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestDistributor_DrainUnknownNode(t *testing.T) {
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap())
	err := d.Drain(context.Background(), nodeA)
	assert.True(t, IsNoSuchNodeError(err))
}

func TestDistributor_CheckNode(t *testing.T) {
	ctx := context.Background()
	var healthy atomic.Bool
	client := okNodeClient(domain.DialectW3C)
	client.StatusFunc = func(ctx context.Context, nodeURI string) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("connection refused")
	}
	d := newTestDistributor(t, client, NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))
	node := d.Nodes()[0]

	d.CheckNode(ctx, node)
	d.CheckNode(ctx, node)
	assert.Equal(t, domain.AvailabilityUp, node.Availability())
	d.CheckNode(ctx, node)
	assert.Equal(t, domain.AvailabilityDown, node.Availability())

	drainSignal(d.CapacityFreed())
	healthy.Store(true)
	d.CheckNode(ctx, node)
	assert.Equal(t, domain.AvailabilityUp, node.Availability())
	select {
	case <-d.CapacityFreed():
	default:
		t.Fatal("expected a capacity signal when the node came back")
	}
}

func TestDistributor_EvictionInvalidatesSessions(t *testing.T) {
	ctx := context.Background()
	client := okNodeClient(domain.DialectW3C)
	client.StatusFunc = func(ctx context.Context, nodeURI string) error { return errors.New("timeout") }
	sessions := NewLocalSessionMap()
	d := newTestDistributor(t, client, sessions, registration(nodeA, stereotype("chrome", 1)))

	s, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.NoError(t, err)

	node := d.Nodes()[0]
	for i := 0; i < 4; i++ {
		d.CheckNode(ctx, node)
	}
	require.Len(t, d.Nodes(), 1, "down but not yet evicted")
	assert.Equal(t, domain.AvailabilityDown, node.Availability())

	d.CheckNode(ctx, node)
	assert.Empty(t, d.Nodes())
	assert.True(t, d.IsLost(s.ID))
	_, err = sessions.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Empty(t, client.StopSessionCalls(), "evicted nodes are not asked to stop sessions")
}

func TestDistributor_SupportsCapabilities(t *testing.T) {
	ctx := context.Background()
	d := newTestDistributor(t, okNodeClient(domain.DialectW3C), NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))
	require.NoError(t, d.Drain(ctx, nodeA))

	assert.True(t, d.SupportsCapabilities(wants("chrome")), "draining nodes still count")
	assert.False(t, d.SupportsCapabilities(wants("safari")))
}

func TestDistributor_Discard(t *testing.T) {
	ctx := context.Background()
	client := okNodeClient(domain.DialectW3C)
	d := newTestDistributor(t, client, NewLocalSessionMap(), registration(nodeA, stereotype("chrome", 1)))

	s, err := d.TryMatch(ctx, w3cRequest(wants("chrome")))
	require.NoError(t, err)
	d.Discard(ctx, s)

	require.Len(t, client.StopSessionCalls(), 1)
	assert.True(t, d.IsReady())
}
