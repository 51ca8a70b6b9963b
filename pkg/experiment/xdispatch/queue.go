package xdispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xsplit/pkg/experiment/xevent"
	"github.com/omeyang/xsplit/pkg/observability/xlog"
	"github.com/omeyang/xsplit/pkg/observability/xmetrics"
	"github.com/omeyang/xsplit/pkg/resilience/xretry"
)

// Transport 把一批事件交给远端收集服务。实现需遵守 ctx 的取消与超时。
type Transport interface {
	Send(ctx context.Context, events []xevent.Event) error
}

// Stats 队列计数快照
type Stats struct {
	Enqueued      uint64 // 成功入队
	Dispatched    uint64 // 发送成功
	Dropped       uint64 // 丢弃（缓冲区满、已关闭、发送失败）
	Batches       uint64 // 发送成功的批次
	FailedBatches uint64 // 放弃的批次
	Pending       int    // 缓冲区中等待的事件数
}

// Queue 异步事件队列
type Queue struct {
	transport Transport
	opts      options
	logger    xlog.Logger
	breaker   *gobreaker.CircuitBreaker[struct{}]

	in       chan xevent.Event
	flushReq chan chan struct{}
	done     chan struct{}

	// ctx 在 Close 超时后取消，中止进行中的发送与重试
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex // 保护 closed 与 close(in)
	closed    bool
	startOnce sync.Once

	enqueued      atomic.Uint64
	dispatched    atomic.Uint64
	dropped       atomic.Uint64
	batches       atomic.Uint64
	failedBatches atomic.Uint64
}

// New 创建队列，需调用 Start 启动后台发送。
//
// 参数:
//   - transport: 批次投递通道，不能为 nil
//   - opts: 可选配置，默认批大小 100、刷新间隔 1s、缓冲 10000、
//     每次发送超时 5s、最多 3 次尝试、连续失败 5 次熔断
//
// 注意:
//   - Enqueue 从不阻塞，缓冲区满时丢弃并计数
//   - 单个后台 goroutine 按入队顺序发送，同一用户的事件保持顺序
//   - 重试耗尽的批次被丢弃并记录 ERROR，每次失败的尝试记录 WARN
//   - Close 受 ctx 约束，超时后剩余事件丢弃
//
// 示例:
//
//	q, err := xdispatch.New(xtransport.Func(send), xdispatch.WithBatchSize(50))
//	if err != nil {
//	    return err
//	}
//	q.Start()
//	defer q.Close(context.Background())
func New(transport Transport, opts ...Option) (*Queue, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = xlog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		transport: transport,
		opts:      o,
		logger:    logger.With(xlog.Component("xdispatch")),
		in:        make(chan xevent.Event, o.bufferSize),
		flushReq:  make(chan chan struct{}),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	if o.breakerThreshold > 0 {
		q.breaker = newBreaker(o.breakerThreshold, o.breakerTimeout, q.logger)
	}
	return q, nil
}

func newBreaker(threshold uint32, timeout time.Duration, logger xlog.Logger) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "xdispatch.transport",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 永久性错误是请求本身被拒，不代表收集服务不可用
		IsSuccessful: func(err error) bool {
			return err == nil || xretry.IsPermanent(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "transport breaker state changed",
				xlog.Operation(name),
				slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})
}

// Start 启动后台发送 goroutine，可重复调用
func (q *Queue) Start() {
	q.startOnce.Do(func() {
		go q.run()
	})
}

// Enqueue 非阻塞入队。缓冲区满或队列已关闭时返回 false。
func (q *Queue) Enqueue(e xevent.Event) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		return false
	}
	select {
	case q.in <- e:
		q.enqueued.Add(1)
		return true
	default:
		q.dropped.Add(1)
		q.logger.Debug(context.Background(), "event buffer full, dropping event",
			xlog.Campaign(e.CampaignKey), xlog.UserID(e.UserID))
		return false
	}
}

// Flush 立即发送调用前已入队的全部事件并等待完成
func (q *Queue) Flush(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	q.mu.RLock()
	closed := q.closed
	q.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	q.Start()

	ack := make(chan struct{})
	select {
	case q.flushReq <- ack:
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 停止接收新事件，发送剩余事件后退出。
// ctx 到期时中止进行中的发送并返回 ctx.Err()，剩余事件丢弃。可重复调用。
func (q *Queue) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.in)
	}
	q.mu.Unlock()

	// 未启动时也要把缓冲区发完
	q.Start()

	select {
	case <-q.done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}

// Done 后台 goroutine 退出后关闭
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Stats 返回计数快照
func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued:      q.enqueued.Load(),
		Dispatched:    q.dispatched.Load(),
		Dropped:       q.dropped.Load(),
		Batches:       q.batches.Load(),
		FailedBatches: q.failedBatches.Load(),
		Pending:       len(q.in),
	}
}

func (q *Queue) run() {
	defer close(q.done)

	ticker := time.NewTicker(q.opts.flushInterval)
	defer ticker.Stop()

	// Close 超时后剩余事件不再发送，退出时汇总记录一次
	var abandoned int
	defer func() {
		if abandoned == 0 {
			return
		}
		q.dropped.Add(uint64(abandoned))
		q.logger.Error(context.Background(), "close deadline exceeded, dropping undelivered events",
			xlog.Count(abandoned))
	}()

	batch := make([]xevent.Event, 0, q.opts.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if q.ctx.Err() != nil || !q.send(batch) {
			abandoned += len(batch)
		}
		batch = make([]xevent.Event, 0, q.opts.batchSize)
		ticker.Reset(q.opts.flushInterval)
	}

	for {
		select {
		case e, ok := <-q.in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= q.opts.batchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case ack := <-q.flushReq:
			open := q.drain(&batch, flush)
			flush()
			close(ack)
			if !open {
				return
			}
		}
	}
}

// drain 非阻塞取出缓冲区中已有的事件，满批即发送。
// channel 已关闭时返回 false。
func (q *Queue) drain(batch *[]xevent.Event, flush func()) bool {
	for {
		select {
		case e, ok := <-q.in:
			if !ok {
				return false
			}
			*batch = append(*batch, e)
			if len(*batch) >= q.opts.batchSize {
				flush()
			}
		default:
			return true
		}
	}
}

// send 发送一个批次。Close 超时中止了发送时返回 false，事件由调用方计入丢弃。
func (q *Queue) send(batch []xevent.Event) bool {
	n := len(batch)
	ctx, span := xmetrics.Start(q.ctx, q.opts.observer, xmetrics.SpanOptions{
		Component: xmetrics.ComponentDispatcher,
		Operation: "send",
		Kind:      xmetrics.KindClient,
		Attrs:     []xmetrics.Attr{xmetrics.Int(xmetrics.AttrBatchSize, n)},
	})

	var attempts int
	err := q.opts.retryer.Do(ctx, func(ctx context.Context) error {
		attempts++
		err := q.attempt(ctx, batch)
		if err != nil {
			q.logger.Warn(ctx, "send batch attempt failed",
				xlog.Attempt(uint(attempts)), xlog.Count(n), xlog.Err(err))
		}
		return err
	})
	if err != nil {
		span.End(xmetrics.Result{
			Status: xmetrics.StatusDropped,
			Err:    err,
			Attrs:  []xmetrics.Attr{xmetrics.Int(xmetrics.AttrAttempts, attempts)},
		})
		if q.ctx.Err() != nil {
			return false
		}
		q.dropped.Add(uint64(n))
		q.failedBatches.Add(1)
		q.logger.Error(ctx, "dropping event batch",
			xlog.Count(n), xlog.Attempt(uint(attempts)), xlog.Err(err))
		return true
	}

	q.dispatched.Add(uint64(n))
	q.batches.Add(1)
	span.End(xmetrics.Result{
		Status: xmetrics.StatusOK,
		Attrs:  []xmetrics.Attr{xmetrics.Int(xmetrics.AttrAttempts, attempts)},
	})
	return true
}

// attempt 单次发送，受 sendTimeout 与熔断器约束
func (q *Queue) attempt(ctx context.Context, batch []xevent.Event) error {
	ctx, cancel := context.WithTimeout(ctx, q.opts.sendTimeout)
	defer cancel()

	if q.breaker == nil {
		return q.transport.Send(ctx, batch)
	}
	_, err := q.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, q.transport.Send(ctx, batch)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return xretry.NewPermanentError(fmt.Errorf("%w: %w", ErrBreakerOpen, err))
	}
	return err
}
