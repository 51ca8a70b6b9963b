package xretry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func fastRetryer(attempts int, opts ...RetryerOption) *Retryer {
	return NewRetryer(append([]RetryerOption{
		WithRetryPolicy(NewFixedRetry(attempts)),
		WithBackoffPolicy(NewNoBackoff()),
	}, opts...)...)
}

func TestRetryer_SucceedsAfterFailures(t *testing.T) {
	var calls int
	var retries []int
	r := fastRetryer(3, WithOnRetry(func(attempt int, err error) {
		retries = append(retries, attempt)
		assert.ErrorIs(t, err, errFlaky)
	}))

	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
	assert.Equal(t, 3, r.MaxAttempts())
}

func TestRetryer_Exhausted(t *testing.T) {
	var calls int
	var retries int
	r := fastRetryer(3, WithOnRetry(func(int, error) { retries++ }))

	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	})
	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRetryer_PermanentStopsImmediately(t *testing.T) {
	var calls int
	r := fastRetryer(5)
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return NewPermanentError(errFlaky)
	})
	require.ErrorIs(t, err, errFlaky)
	assert.True(t, IsPermanent(err))
	assert.Equal(t, 1, calls)
}

func TestRetryer_NeverRetry(t *testing.T) {
	var calls int
	r := NewRetryer(WithRetryPolicy(NewNeverRetry()))
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryer_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	r := NewRetryer(
		WithRetryPolicy(NewFixedRetry(10)),
		WithBackoffPolicy(NewFixedBackoff(time.Hour)),
	)

	done := make(chan error, 1)
	go func() {
		done <- r.Do(ctx, func(context.Context) error {
			calls++
			return errFlaky
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancel")
	}
}

func TestRetryer_InvalidArgs(t *testing.T) {
	r := NewRetryer()
	//nolint:staticcheck // nil ctx
	assert.ErrorIs(t, r.Do(nil, func(context.Context) error { return nil }), ErrNilContext)
	assert.ErrorIs(t, r.Do(context.Background(), nil), ErrNilFunc)
}

func TestRetryer_NilOptionsIgnored(t *testing.T) {
	r := NewRetryer(WithRetryPolicy(nil), WithBackoffPolicy(nil), WithOnRetry(nil))
	assert.Equal(t, 3, r.MaxAttempts())
	assert.Nil(t, r.onRetry)
}
