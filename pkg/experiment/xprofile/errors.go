package xprofile

import "errors"

var (
	// ErrEmptyKey 用户 ID 或实验 key 为空
	ErrEmptyKey = errors.New("xprofile: empty user id or campaign key")
	// ErrInvalidSize 内存存储容量无效
	ErrInvalidSize = errors.New("xprofile: size must be in (0, 16777216]")
	// ErrInvalidTTL TTL 为负
	ErrInvalidTTL = errors.New("xprofile: ttl must not be negative")
	// ErrNilClient Redis 客户端为 nil
	ErrNilClient = errors.New("xprofile: nil redis client")
)
