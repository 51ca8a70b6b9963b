package xprofile

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const maxMemorySize = 1 << 24

// Memory 进程内存储，基于 expirable LRU
type Memory struct {
	lru       *expirable.LRU[string, string]
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewMemory 创建内存存储，最多 size 条，ttl 为 0 表示不过期
func NewMemory(size int, ttl time.Duration) (*Memory, error) {
	if size <= 0 || size > maxMemorySize {
		return nil, ErrInvalidSize
	}
	if ttl < 0 {
		return nil, ErrInvalidTTL
	}
	return &Memory{lru: expirable.NewLRU[string, string](size, nil, ttl)}, nil
}

func memoryKey(userID, campaignKey string) string {
	return userID + "\x00" + campaignKey
}

// Lookup 查询保存的变体。关闭后始终未命中。
func (m *Memory) Lookup(_ context.Context, userID, campaignKey string) (string, bool, error) {
	if err := validKey(userID, campaignKey); err != nil {
		return "", false, err
	}
	if m.closed.Load() {
		return "", false, nil
	}
	v, ok := m.lru.Get(memoryKey(userID, campaignKey))
	return v, ok, nil
}

// Save 保存变体。关闭后静默忽略。
func (m *Memory) Save(_ context.Context, userID, campaignKey, variation string) error {
	if err := validKey(userID, campaignKey); err != nil {
		return err
	}
	if m.closed.Load() {
		return nil
	}
	m.lru.Add(memoryKey(userID, campaignKey), variation)
	return nil
}

// Len 当前条目数，可能包含已过期未清理的条目
func (m *Memory) Len() int {
	if m.closed.Load() {
		return 0
	}
	return m.lru.Len()
}

// Close 清空并停止过期清理 goroutine，可重复调用
func (m *Memory) Close() error {
	m.closed.Store(true)
	m.closeOnce.Do(func() {
		m.lru.Purge()
		stopCleanup(m.lru)
	})
	return nil
}

// stopCleanup 关闭 expirable.LRU 未导出的 done 通道，使 TTL 清理 goroutine 退出。
// golang-lru v2.0.7 没有公开的 Close；字段不存在或类型不符时返回 false。
func stopCleanup(lru any) (stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			stopped = false
		}
	}()

	v := reflect.ValueOf(lru)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return false
	}
	done := v.Elem().FieldByName("done")
	if !done.IsValid() || done.Type() != reflect.TypeOf(make(chan struct{})) || done.IsNil() {
		return false
	}
	ch := *(*chan struct{})(unsafe.Pointer(done.UnsafeAddr())) //nolint:gosec // 访问上游未导出字段
	close(ch)
	return true
}
