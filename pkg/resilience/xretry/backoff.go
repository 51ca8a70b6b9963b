package xretry

import (
	"math"
	"math/rand/v2"
	"time"
)

// FixedBackoff 固定延迟
type FixedBackoff struct {
	delay time.Duration
}

// NewFixedBackoff 创建固定延迟退避，负值视为 0
func NewFixedBackoff(delay time.Duration) *FixedBackoff {
	return &FixedBackoff{delay: max(delay, 0)}
}

func (b *FixedBackoff) NextDelay(int) time.Duration { return b.delay }

// NoBackoff 不等待
type NoBackoff struct{}

// NewNoBackoff 创建无延迟退避
func NewNoBackoff() *NoBackoff { return &NoBackoff{} }

func (b *NoBackoff) NextDelay(int) time.Duration { return 0 }

// ExponentialBackoff 指数退避：
// delay = min(initial * multiplier^(attempt-1) * (1 ± jitter), maxDelay)
type ExponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	jitter       float64
}

// ExponentialBackoffOption 指数退避选项
type ExponentialBackoffOption func(*ExponentialBackoff)

// WithInitialDelay 初始延迟，非正值忽略
func WithInitialDelay(d time.Duration) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.initialDelay = d
		}
	}
}

// WithMaxDelay 最大延迟，非正值忽略
func WithMaxDelay(d time.Duration) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.maxDelay = d
		}
	}
}

// WithMultiplier 乘数，小于 1 忽略
func WithMultiplier(m float64) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if m >= 1 {
			b.multiplier = m
		}
	}
}

// WithJitter 抖动比例，截断到 [0, 1]
func WithJitter(j float64) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		b.jitter = min(max(j, 0), 1)
	}
}

// NewExponentialBackoff 创建指数退避。默认 100ms 起步、上限 10s、乘数 2、抖动 10%。
func NewExponentialBackoff(opts ...ExponentialBackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: 100 * time.Millisecond,
		maxDelay:     10 * time.Second,
		multiplier:   2,
		jitter:       0.1,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.maxDelay = max(b.maxDelay, b.initialDelay)
	return b
}

func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	attempt = max(attempt, 1)
	delay := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt-1))
	if b.jitter > 0 {
		delay *= 1 + (rand.Float64()*2-1)*b.jitter
	}
	// Pow 溢出得到 +Inf/NaN 时直接取上限
	if math.IsNaN(delay) || delay < 0 || delay >= float64(b.maxDelay) {
		return b.maxDelay
	}
	return time.Duration(delay)
}

var (
	_ BackoffPolicy = (*FixedBackoff)(nil)
	_ BackoffPolicy = (*NoBackoff)(nil)
	_ BackoffPolicy = (*ExponentialBackoff)(nil)
)
