package xsettings

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonDoc), 0o600))

	var (
		mu    sync.Mutex
		snaps []*Snapshot
		errs  []error
	)
	w, err := Watch(path, func(s *Snapshot, err error) {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, s)
		errs = append(errs, err)
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	time.Sleep(50 * time.Millisecond)
	updated := `{"version": 4, "campaigns": [{"key": "only", "trafficAllocation": 10, "variations": [{"name": "a", "weight": 100}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for i, s := range snaps {
			if errs[i] == nil && s != nil && s.Version() == 4 {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatch_InvalidReloadReportsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	errCh := make(chan error, 16)
	w, err := Watch(path, func(s *Snapshot, err error) {
		if err != nil {
			assert.Nil(t, s)
			select {
			case errCh <- err:
			default:
			}
		}
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("campaigns:\n  - key: k\n    trafficAllocation: 500\n    variations:\n      - name: a\n        weight: 100\n"), 0o600))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case err := <-errCh:
			if errors.Is(err, ErrInvalidTraffic) {
				return
			}
		case <-deadline:
			t.Fatal("reload error not reported")
		}
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonDoc), 0o600))

	var calls int
	var mu sync.Mutex
	w, err := Watch(path, func(*Snapshot, error) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o600))
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	assert.Zero(t, calls)
	mu.Unlock()
}

func TestWatch_Errors(t *testing.T) {
	_, err := Watch("", nil)
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = Watch("settings.toml", nil)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Watch(filepath.Join(t.TempDir(), "missing-dir", "a.json"), nil)
	require.Error(t, err)
}

func TestWatch_StopIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonDoc), 0o600))

	w, err := Watch(path, nil)
	require.NoError(t, err)
	w.StartAsync()
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	// 停止后再启动无效
	w.StartAsync()
}

func TestWatch_StopWithoutStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonDoc), 0o600))

	w, err := Watch(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}

func TestWatch_StopWaitsForReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonDoc), 0o600))

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	w, err := Watch(path, func(*Snapshot, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(jsonDoc), 0o600))
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("reload callback not invoked")
	}

	stopped := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("Stop returned while a reload callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the callback finished")
	}

	// 停止后已触发的定时器不再回调
	n := calls.Load()
	w.reload()
	assert.Equal(t, n, calls.Load())
}
