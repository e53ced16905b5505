package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tmf-api/internal/infrastructure"
	"tmf-api/internal/logging"
	"tmf-api/internal/model"

	"github.com/stretchr/testify/require"
)

const testPublicURL = "http://localhost:8080"

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// testClock is a settable clock for deterministic timestamps.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestDeps(t *testing.T) (Deps, *testClock) {
	t.Helper()

	clock := &testClock{now: testNow}
	var (
		mu  sync.Mutex
		seq int
	)
	return Deps{
		Store:   infrastructure.NewMemoryStore(),
		Locator: NewLocator(testPublicURL, "/tmf-api"),
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
		Now:    clock.Now,
		Logger: logging.Discard(),
	}, clock
}

func testHref(path, id string) string {
	return testPublicURL + "/tmf-api/" + path + "/" + id
}

func mustCreate(t *testing.T, svc ResourceService, raw model.Resource) model.Resource {
	t.Helper()
	res, err := svc.Create(context.Background(), raw)
	require.NoError(t, err)
	return res
}

// fakeNotifier records deliveries and fails for callbacks listed in failFor.
type fakeNotifier struct {
	mu        sync.Mutex
	delivered map[string][]model.Resource
	failFor   map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		delivered: map[string][]model.Resource{},
		failFor:   map[string]bool{},
	}
}

func (n *fakeNotifier) Notify(_ context.Context, callback string, event model.Resource) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[callback] {
		return fmt.Errorf("callback %s unreachable", callback)
	}
	n.delivered[callback] = append(n.delivered[callback], event)
	return nil
}

func (n *fakeNotifier) count(callback string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.delivered[callback])
}
