package xpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/omeyang/xsplit/pkg/observability/xlog"
)

const (
	maxWorkers   = 1 << 16
	maxQueueSize = 1 << 24
)

// Pool 泛型 worker pool
type Pool[T any] struct {
	handler func(T)
	logger  xlog.Logger
	queue   chan T

	mu      sync.RWMutex // 保护 stopped 与 close(queue)
	stopped bool

	wg   sync.WaitGroup
	done chan struct{}
}

// New 创建并启动 pool
func New[T any](workers, queueSize int, handler func(T), opts ...Option) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if workers < 1 || workers > maxWorkers {
		return nil, ErrInvalidWorkers
	}
	if queueSize < 1 || queueSize > maxQueueSize {
		return nil, ErrInvalidQueueSize
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = xlog.Default()
	}
	name := o.name
	if name == "" {
		name = "xpool"
	}

	p := &Pool[T]{
		handler: handler,
		logger:  logger.With(xlog.Component(name)),
		queue:   make(chan T, queueSize),
		done:    make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()
	return p, nil
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(task)
	}
}

func (p *Pool[T]) run(task T) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Stack(context.Background(), "worker panic recovered",
				xlog.Err(fmt.Errorf("panic: %v", r)),
				xlog.Operation(fmt.Sprintf("%T", task)))
		}
	}()
	p.handler(task)
}

// Submit 非阻塞提交任务
func (p *Pool[T]) Submit(task T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending 队列中等待的任务数
func (p *Pool[T]) Pending() int {
	return len(p.queue)
}

// Shutdown 拒绝新任务并等待剩余任务处理完成，可重复调用
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 等价于 Shutdown(context.Background())
func (p *Pool[T]) Close() error {
	return p.Shutdown(context.Background())
}

// Done 全部 worker 退出后关闭
func (p *Pool[T]) Done() <-chan struct{} {
	return p.done
}
