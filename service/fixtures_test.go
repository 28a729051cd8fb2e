package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mygrid/domain"
	"mygrid/helpers"
	"mygrid/interfaces"
	"mygrid/interfaces/mock"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	nodeA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	nodeB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	nodeC = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

func testMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func realClock() interfaces.TimeProvider {
	return NewTimeProvider(time.Now)
}

func stereotype(browser string, maxSessions int) domain.Stereotype {
	return domain.Stereotype{Capabilities: domain.Capabilities{"browserName": browser, "platformName": "linux"}, MaxSessions: maxSessions}
}

func registration(id uuid.UUID, sts ...domain.Stereotype) domain.NodeRegistration {
	return domain.NodeRegistration{
		ID:          id,
		ExternalURI: "http://" + id.String()[24:] + ":5555",
		Stereotypes: sts,
	}
}

func wants(browsers ...string) []domain.Capabilities {
	out := make([]domain.Capabilities, 0, len(browsers))
	for _, b := range browsers {
		out = append(out, domain.Capabilities{"browserName": b})
	}
	return out
}

func w3cRequest(caps []domain.Capabilities) domain.SessionRequest {
	return domain.SessionRequest{RequestID: uuid.New(), Capabilities: caps, CallerDialect: domain.DialectW3C}
}

// okNodeClient creates sessions s-1, s-2, ... speaking nodeDialect and answers every health check.
func okNodeClient(nodeDialect domain.Dialect) *mock.NodeClientMock {
	var seq atomic.Int64
	return &mock.NodeClientMock{
		NewSessionFunc: func(ctx context.Context, nodeURI string, caps domain.Capabilities) (domain.CreatedSession, error) {
			return domain.CreatedSession{
				ID:           fmt.Sprintf("s-%d", seq.Add(1)),
				Capabilities: caps.Merge(domain.Capabilities{"se:node": nodeURI}),
				Dialect:      nodeDialect,
			}, nil
		},
	}
}

func newTestDistributor(t *testing.T, client interfaces.NodeClient, sessions interfaces.SessionMap, nodes ...domain.NodeRegistration) *Distributor {
	t.Helper()
	d := NewDistributor(client, sessions, realClock(), testMetrics(), domain.DistributorOptions{
		HealthCheckInterval: 20 * time.Millisecond,
		HealthCheckTimeout:  20 * time.Millisecond,
		UnhealthyThreshold:  3,
		EvictionThreshold:   5,
	}, log.NewNopLogger())
	for _, n := range nodes {
		if err := d.Register(context.Background(), n); err != nil {
			t.Fatalf("register %s: %v", n.ID, err)
		}
	}
	return d
}

func drainSignal(ch <-chan struct{}) {
	select {
	case <-ch:
	default:
	}
}

// fakeClock is a manually advanced clock starting at helpers.TestNow.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: helpers.TestNow()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) provider() interfaces.TimeProvider {
	return &mock.TimeProviderMock{NowFunc: c.Now}
}

func supportsAll([]domain.Capabilities) bool { return true }

// resultOf reads the outcome already delivered to e.
func resultOf(t *testing.T, e *QueueEntry) (domain.Session, error) {
	t.Helper()
	select {
	case r := <-e.result:
		return r.session, r.err
	default:
		t.Fatal("entry has no result")
		return domain.Session{}, nil
	}
}
