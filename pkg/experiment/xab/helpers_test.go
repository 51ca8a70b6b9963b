package xab

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xsplit/pkg/experiment/xdispatch"
	"github.com/omeyang/xsplit/pkg/experiment/xevent"
	"github.com/omeyang/xsplit/pkg/experiment/xsettings"
	"github.com/omeyang/xsplit/pkg/observability/xlog"
)

// sink 记录投递到 transport 的事件
type sink struct {
	mu     sync.Mutex
	events []xevent.Event
}

func (s *sink) Send(_ context.Context, events []xevent.Event) error {
	s.mu.Lock()
	s.events = append(s.events, events...)
	s.mu.Unlock()
	return nil
}

func (s *sink) all() []xevent.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]xevent.Event(nil), s.events...)
}

func (s *sink) count(kind xevent.Kind) int {
	n := 0
	for _, e := range s.all() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func newCampaign(key string, traffic float64, variations ...xsettings.Variation) xsettings.Campaign {
	return xsettings.Campaign{
		Key:               key,
		TrafficAllocation: xsettings.Percent(traffic),
		Variations:        variations,
		Goals:             []xsettings.Goal{{Identifier: "purchase"}, {Identifier: "signup"}},
	}
}

func weighted(name string, weight float64) xsettings.Variation {
	return xsettings.Variation{Name: name, Weight: weight}
}

func compile(t *testing.T, campaigns ...xsettings.Campaign) *xsettings.Snapshot {
	t.Helper()
	snap, err := xsettings.Compile(&xsettings.Document{Campaigns: campaigns})
	require.NoError(t, err)
	return snap
}

func fiftyFifty(t *testing.T) *xsettings.Snapshot {
	return compile(t, newCampaign("checkout", 100, weighted("A", 50), weighted("B", 50)))
}

// newClient 创建带记录 transport 的 Client，定时器不会自动触发投递
func newClient(t *testing.T, snap *xsettings.Snapshot, opts ...Option) (*Client, *sink) {
	t.Helper()
	s := &sink{}
	base := []Option{
		WithLogger(xlog.Discard()),
		WithTransport(s, xdispatch.WithFlushInterval(time.Hour), xdispatch.WithBufferSize(1<<16)),
	}
	c := New(snap, append(base, opts...)...)
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, s
}

func flush(t *testing.T, c *Client) {
	t.Helper()
	require.NoError(t, c.Flush(context.Background()))
}
