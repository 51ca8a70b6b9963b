package xsettings

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback 配置文件变更回调。重载失败时 snap 为 nil。
type WatchCallback func(snap *Snapshot, err error)

// Watcher 配置文件监视器
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	timer    *time.Timer
	reloads  sync.WaitGroup // 正在执行的重载
	done     chan struct{}
}

// Watch 创建配置文件监视器。
//
// 监视文件所在目录而不是文件本身，编辑器先删后建或 rename 替换时不会丢事件。
// 返回的 Watcher 需要调用 Start 或 StartAsync 开始监视，Stop 停止。
//
//	w, err := xsettings.Watch("/etc/app/experiments.yaml", func(s *xsettings.Snapshot, err error) {
//	    if err != nil {
//	        return
//	    }
//	    _ = client.Install(s)
//	})
//	w.StartAsync()
//	defer w.Stop()
func Watch(path string, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	options := defaultWatchOptions()
	for _, opt := range opts {
		opt(options)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xsettings: failed to create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, errors.Join(
			fmt.Errorf("xsettings: failed to watch directory %s: %w", dir, err),
			closeErr,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		watcher:  fsWatcher,
		callback: callback,
		debounce: options.debounce,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Start 启动监视，阻塞直到 Stop
func (w *Watcher) Start() {
	if !w.markRunning() {
		return
	}
	w.run()
}

// StartAsync 在后台 goroutine 中启动监视
func (w *Watcher) StartAsync() {
	if !w.markRunning() {
		return
	}
	go w.run()
}

func (w *Watcher) markRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.ctx.Err() != nil {
		return false
	}
	w.running = true
	return true
}

// Stop 停止监视，等待监视循环和正在执行的重载回调退出。可重复调用。
// Stop 返回后不会再触发回调；不要在回调中调用 Stop。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		return nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cancel()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	err := w.watcher.Close()
	if wasRunning {
		<-w.done
	}
	w.reloads.Wait()
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	filename := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.callback != nil {
				w.callback(nil, fmt.Errorf("xsettings: watch error: %w", err))
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	// Write 直接修改；Create/Rename 对应原子替换
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload 由防抖定时器触发。登记与 Stop 的 cancel 在同一把锁下完成，
// 已通过检查的重载一定会被 Stop 等待。
func (w *Watcher) reload() {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	w.reloads.Add(1)
	w.mu.Unlock()
	defer w.reloads.Done()

	snap, err := LoadSnapshot(w.path)
	if w.callback != nil && w.ctx.Err() == nil {
		w.callback(snap, err)
	}
}
