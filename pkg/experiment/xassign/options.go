package xassign

import "fmt"

const (
	defaultShardCount = 32
	maxShardCount     = 1 << 12
)

// Option 缓存配置选项
type Option func(*options)

type options struct {
	shardCount int
}

func defaultOptions() options {
	return options{shardCount: defaultShardCount}
}

// WithShardCount 设置分片数，须为正且为 2 的幂，上限 4096。默认 32。
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

func (o *options) validate() error {
	sc := o.shardCount
	if sc <= 0 || sc > maxShardCount || sc&(sc-1) != 0 {
		return fmt.Errorf("%w: must be a positive power of 2 (max %d), got %d",
			ErrInvalidShardCount, maxShardCount, sc)
	}
	return nil
}
