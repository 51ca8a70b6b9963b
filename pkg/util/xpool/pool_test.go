package xpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/omeyang/xsplit/pkg/observability/xlog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew_Validation(t *testing.T) {
	noop := func(int) {}
	tests := []struct {
		name    string
		workers int
		queue   int
		handler func(int)
		want    error
	}{
		{"nil handler", 1, 1, nil, ErrNilHandler},
		{"zero workers", 0, 1, noop, ErrInvalidWorkers},
		{"too many workers", maxWorkers + 1, 1, noop, ErrInvalidWorkers},
		{"zero queue", 1, 0, noop, ErrInvalidQueueSize},
		{"queue too large", 1, maxQueueSize + 1, noop, ErrInvalidQueueSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.workers, tt.queue, tt.handler)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPool_ProcessesAll(t *testing.T) {
	var sum atomic.Int64
	p, err := New(4, 100, func(n int) { sum.Add(int64(n)) }, WithLogger(xlog.Discard()))
	require.NoError(t, err)

	for i := 1; i <= 50; i++ {
		require.NoError(t, p.Submit(i))
	}
	require.NoError(t, p.Close())
	assert.Equal(t, int64(1275), sum.Load())
}

func TestPool_QueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	p, err := New(1, 1, func(int) {
		once.Do(func() { close(started) })
		<-release
	}, WithLogger(xlog.Discard()))
	require.NoError(t, err)

	require.NoError(t, p.Submit(1))
	<-started
	require.NoError(t, p.Submit(2))
	assert.ErrorIs(t, p.Submit(3), ErrQueueFull)
	assert.Equal(t, 1, p.Pending())

	close(release)
	require.NoError(t, p.Close())
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p, err := New(1, 1, func(int) {}, WithLogger(xlog.Discard()))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Submit(1), ErrPoolStopped)
}

func TestPool_ShutdownTimeout(t *testing.T) {
	release := make(chan struct{})
	p, err := New(1, 4, func(int) { <-release }, WithLogger(xlog.Discard()))
	require.NoError(t, err)
	require.NoError(t, p.Submit(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("workers did not exit")
	}
}

func TestPool_ShutdownNilContext(t *testing.T) {
	p, err := New(1, 1, func(int) {}, WithLogger(xlog.Discard()))
	require.NoError(t, err)
	//nolint:staticcheck // 测试 nil ctx
	assert.ErrorIs(t, p.Shutdown(nil), ErrNilContext)
	require.NoError(t, p.Close())
}

func TestPool_RecoversPanic(t *testing.T) {
	var ok atomic.Int32
	p, err := New(1, 4, func(n int) {
		if n == 0 {
			panic("boom")
		}
		ok.Add(1)
	}, WithLogger(xlog.Discard()), WithName("saver"))
	require.NoError(t, err)

	require.NoError(t, p.Submit(0))
	require.NoError(t, p.Submit(1))
	require.NoError(t, p.Close())
	assert.Equal(t, int32(1), ok.Load())
}
