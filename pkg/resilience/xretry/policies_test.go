package xretry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedRetry(t *testing.T) {
	p := NewFixedRetry(0)
	assert.Equal(t, 1, p.MaxAttempts())

	p = NewFixedRetry(3)
	ctx := context.Background()
	assert.True(t, p.ShouldRetry(ctx, 1, errFlaky))
	assert.True(t, p.ShouldRetry(ctx, 2, errFlaky))
	assert.False(t, p.ShouldRetry(ctx, 3, errFlaky))
	assert.False(t, p.ShouldRetry(ctx, 1, NewPermanentError(errFlaky)))
	assert.False(t, p.ShouldRetry(ctx, 1, nil))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, p.ShouldRetry(canceled, 1, errFlaky))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errFlaky))
	assert.True(t, IsRetryable(NewTemporaryError(errFlaky)))
	assert.False(t, IsRetryable(NewPermanentError(errFlaky)))
	assert.False(t, IsRetryable(fmtWrap(NewPermanentError(errFlaky))))
	assert.False(t, IsPermanent(nil))

	assert.Equal(t, "permanent error", NewPermanentError(nil).Error())
	assert.Equal(t, "temporary error", NewTemporaryError(nil).Error())
	assert.Equal(t, "flaky", NewTemporaryError(errFlaky).Error())
	assert.ErrorIs(t, NewTemporaryError(errFlaky), errFlaky)
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("send batch"), err)
}

func TestExponentialBackoff(t *testing.T) {
	b := NewExponentialBackoff(
		WithInitialDelay(10*time.Millisecond),
		WithMaxDelay(100*time.Millisecond),
		WithMultiplier(2),
		WithJitter(0),
	)
	assert.Equal(t, 10*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 10*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 20*time.Millisecond, b.NextDelay(2))
	assert.Equal(t, 40*time.Millisecond, b.NextDelay(3))
	assert.Equal(t, 100*time.Millisecond, b.NextDelay(10))
	assert.Equal(t, 100*time.Millisecond, b.NextDelay(1<<20))
}

func TestExponentialBackoff_Jitter(t *testing.T) {
	b := NewExponentialBackoff(WithInitialDelay(100*time.Millisecond), WithJitter(5))
	for range 100 {
		d := b.NextDelay(1)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 200*time.Millisecond)
	}
}

func TestExponentialBackoff_MaxBelowInitial(t *testing.T) {
	b := NewExponentialBackoff(WithInitialDelay(time.Second), WithMaxDelay(time.Millisecond), WithJitter(0))
	assert.Equal(t, time.Second, b.NextDelay(3))
}

func TestFixedAndNoBackoff(t *testing.T) {
	assert.Equal(t, time.Duration(0), NewFixedBackoff(-time.Second).NextDelay(1))
	assert.Equal(t, time.Second, NewFixedBackoff(time.Second).NextDelay(9))
	assert.Equal(t, time.Duration(0), NewNoBackoff().NextDelay(9))
}
