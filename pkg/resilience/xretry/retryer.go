package xretry

import (
	"context"
	"math"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// Executor 重试执行接口
type Executor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ Executor = (*Retryer)(nil)

// Retryer 组合 RetryPolicy 与 BackoffPolicy 的执行器，可并发使用。
type Retryer struct {
	retryPolicy   RetryPolicy
	backoffPolicy BackoffPolicy
	onRetry       func(attempt int, err error)
}

// RetryerOption 执行器选项
type RetryerOption func(*Retryer)

// WithRetryPolicy 设置重试策略，nil 忽略
func WithRetryPolicy(p RetryPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.retryPolicy = p
		}
	}
}

// WithBackoffPolicy 设置退避策略，nil 忽略
func WithBackoffPolicy(p BackoffPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.backoffPolicy = p
		}
	}
}

// WithOnRetry 每次失败且将要重试时回调，attempt 从 1 开始。nil 忽略。
func WithOnRetry(f func(attempt int, err error)) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.onRetry = f
		}
	}
}

// NewRetryer 创建执行器，默认 FixedRetry(3) + ExponentialBackoff
func NewRetryer(opts ...RetryerOption) *Retryer {
	r := &Retryer{
		retryPolicy:   NewFixedRetry(3),
		backoffPolicy: NewExponentialBackoff(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxAttempts 返回最大尝试次数
func (r *Retryer) MaxAttempts() int {
	return r.retryPolicy.MaxAttempts()
}

// Do 执行 fn，失败时按策略重试，返回最后一次错误。
// ctx 取消后不再重试。
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx == nil {
		return ErrNilContext
	}
	if fn == nil {
		return ErrNilFunc
	}

	var failures int
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(max(r.retryPolicy.MaxAttempts(), 1))),
		retry.RetryIf(func(err error) bool {
			failures++
			return r.retryPolicy.ShouldRetry(ctx, failures, err)
		}),
		retry.DelayType(func(n uint, _ error, _ retry.DelayContext) time.Duration {
			return r.backoffPolicy.NextDelay(clampInt(n))
		}),
		retry.LastErrorOnly(true),
	}
	if r.onRetry != nil {
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			r.onRetry(clampInt(n)+1, err)
		}))
	}

	return retry.New(opts...).Do(func() error {
		return fn(ctx)
	})
}

func clampInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}
