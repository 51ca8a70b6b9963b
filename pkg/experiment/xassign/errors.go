package xassign

import "errors"

// ErrInvalidShardCount 表示分片数不是 2 的幂或越界
var ErrInvalidShardCount = errors.New("xassign: invalid shard count")
