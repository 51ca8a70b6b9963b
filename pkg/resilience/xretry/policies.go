package xretry

import (
	"context"
	"time"
)

// RetryPolicy 重试策略
type RetryPolicy interface {
	// MaxAttempts 最大尝试次数（含首次）
	MaxAttempts() int

	// ShouldRetry 第 attempt 次（从 1 开始）失败后是否继续
	ShouldRetry(ctx context.Context, attempt int, err error) bool
}

// BackoffPolicy 退避策略
type BackoffPolicy interface {
	// NextDelay 第 attempt 次（从 1 开始）失败后的等待时间
	NextDelay(attempt int) time.Duration
}

// FixedRetryPolicy 固定次数重试
type FixedRetryPolicy struct {
	maxAttempts int
}

// NewFixedRetry 创建固定次数重试策略，maxAttempts 最小为 1
func NewFixedRetry(maxAttempts int) *FixedRetryPolicy {
	return &FixedRetryPolicy{maxAttempts: max(maxAttempts, 1)}
}

func (p *FixedRetryPolicy) MaxAttempts() int { return p.maxAttempts }

func (p *FixedRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	if ctx.Err() != nil || attempt >= p.maxAttempts {
		return false
	}
	return IsRetryable(err)
}

// NeverRetryPolicy 不重试
type NeverRetryPolicy struct{}

// NewNeverRetry 创建不重试策略
func NewNeverRetry() *NeverRetryPolicy { return &NeverRetryPolicy{} }

func (p *NeverRetryPolicy) MaxAttempts() int { return 1 }

func (p *NeverRetryPolicy) ShouldRetry(context.Context, int, error) bool { return false }

var (
	_ RetryPolicy = (*FixedRetryPolicy)(nil)
	_ RetryPolicy = (*NeverRetryPolicy)(nil)
)
