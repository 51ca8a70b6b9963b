package xdispatch

import (
	"time"

	"github.com/omeyang/xsplit/pkg/observability/xlog"
	"github.com/omeyang/xsplit/pkg/observability/xmetrics"
	"github.com/omeyang/xsplit/pkg/resilience/xretry"
)

// 默认值
const (
	DefaultBatchSize        = 100
	DefaultFlushInterval    = time.Second
	DefaultBufferSize       = 10000
	DefaultSendTimeout      = 5 * time.Second
	DefaultMaxAttempts      = 3
	DefaultBreakerThreshold = 5
	DefaultBreakerTimeout   = 30 * time.Second
)

// Option 队列配置选项
type Option func(*options)

type options struct {
	batchSize        int
	flushInterval    time.Duration
	bufferSize       int
	sendTimeout      time.Duration
	retryer          *xretry.Retryer
	logger           xlog.Logger
	observer         xmetrics.Observer
	breakerThreshold uint32
	breakerTimeout   time.Duration
}

func defaultOptions() options {
	return options{
		batchSize:     DefaultBatchSize,
		flushInterval: DefaultFlushInterval,
		bufferSize:    DefaultBufferSize,
		sendTimeout:   DefaultSendTimeout,
		retryer: xretry.NewRetryer(
			xretry.WithRetryPolicy(xretry.NewFixedRetry(DefaultMaxAttempts)),
			xretry.WithBackoffPolicy(xretry.NewExponentialBackoff(
				xretry.WithInitialDelay(100*time.Millisecond),
				xretry.WithMaxDelay(2*time.Second),
			)),
		),
		observer:         xmetrics.NoopObserver{},
		breakerThreshold: DefaultBreakerThreshold,
		breakerTimeout:   DefaultBreakerTimeout,
	}
}

// WithBatchSize 单批最大事件数，非正值忽略
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithFlushInterval 定时发送间隔，非正值忽略
func WithFlushInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.flushInterval = d
		}
	}
}

// WithBufferSize 入队缓冲区容量，非正值忽略
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithSendTimeout 单次发送尝试的超时，非正值忽略
func WithSendTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sendTimeout = d
		}
	}
}

// WithRetryer 设置批次重试执行器，nil 忽略
func WithRetryer(r *xretry.Retryer) Option {
	return func(o *options) {
		if r != nil {
			o.retryer = r
		}
	}
}

// WithLogger 设置日志，nil 忽略。默认 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver 设置观测器，nil 忽略
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithBreaker 设置熔断参数：连续失败 threshold 次后打开，timeout 后半开探测。
// threshold 为 0 关闭熔断。
func WithBreaker(threshold uint32, timeout time.Duration) Option {
	return func(o *options) {
		o.breakerThreshold = threshold
		if timeout > 0 {
			o.breakerTimeout = timeout
		}
	}
}
