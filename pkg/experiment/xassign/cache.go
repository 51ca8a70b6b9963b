package xassign

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Key 缓存键
type Key struct {
	UserID      string
	CampaignKey string
}

// String 返回复合键。用 NUL 分隔，避免 "a:b"+"c" 与 "a"+"b:c" 冲突。
func (k Key) String() string {
	return k.CampaignKey + "\x00" + k.UserID
}

// Decision 一次分流结果。Included 为 false 时 Variation 为空。
type Decision struct {
	Variation string
	Included  bool
}

// Excluded 未进入实验的结果
var Excluded = Decision{}

// Assigned 返回进入实验并命中 variation 的结果
func Assigned(variation string) Decision {
	return Decision{Variation: variation, Included: true}
}

type entry struct {
	decision Decision
	version  uint64
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// Cache 版本化的分片缓存，并发安全。
type Cache struct {
	shards  []shard
	mask    uint64
	version atomic.Uint64
	size    atomic.Int64
	group   singleflight.Group
}

// New 创建缓存
func New(opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	c := &Cache{
		shards: make([]shard, o.shardCount),
		mask:   uint64(o.shardCount - 1),
	}
	for i := range c.shards {
		c.shards[i].entries = make(map[string]entry)
	}
	c.version.Store(1)
	return c, nil
}

func (c *Cache) shardFor(k string) *shard {
	return &c.shards[xxhash.Sum64String(k)&c.mask]
}

// Version 返回当前版本号，从 1 开始
func (c *Cache) Version() uint64 {
	return c.version.Load()
}

// Len 返回当前缓存条目数
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Get 查找当前版本下的结果
func (c *Cache) Get(key Key) (Decision, bool) {
	k := key.String()
	v := c.version.Load()
	s := c.shardFor(k)

	s.mu.RLock()
	e, ok := s.entries[k]
	s.mu.RUnlock()

	if !ok || e.version != v {
		return Decision{}, false
	}
	return e.decision, true
}

// GetOrCompute 命中直接返回；未命中时执行 compute 并写入缓存。
// 同一版本同一键的并发未命中只执行一次 compute。
func (c *Cache) GetOrCompute(key Key, compute func() Decision) Decision {
	return c.GetOrLoad(key, func() (Decision, bool) { return compute(), true })
}

// GetOrLoad 与 GetOrCompute 相同，但 load 返回 cacheable=false 时结果只交给
// 本轮等待者，不写入缓存，下一次查询重新执行 load。
// 用于依赖外部存储且存储暂时不可用时得到的临时结果。
func (c *Cache) GetOrLoad(key Key, load func() (d Decision, cacheable bool)) Decision {
	if d, ok := c.Get(key); ok {
		return d
	}

	k := key.String()
	v := c.version.Load()
	res, _, _ := c.group.Do(strconv.FormatUint(v, 10)+"\x00"+k, func() (any, error) {
		// 单飞临界区内再查一次，上一轮单飞可能刚刚写入
		if d, ok := c.Get(key); ok {
			return d, nil
		}
		d, cacheable := load()
		if cacheable {
			c.store(k, d, v)
		}
		return d, nil
	})
	return res.(Decision)
}

// store 仅当版本未变化时写入
func (c *Cache) store(k string, d Decision, v uint64) {
	s := c.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.version.Load() != v {
		return
	}
	if _, ok := s.entries[k]; !ok {
		c.size.Add(1)
	}
	s.entries[k] = entry{decision: d, version: v}
}

// Reset 丢弃所有条目并返回新版本号。
// 版本号先行递增，旧条目在清理完成前就已不可见。
func (c *Cache) Reset() uint64 {
	v := c.version.Add(1)
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		c.size.Add(-int64(len(s.entries)))
		s.entries = make(map[string]entry)
		s.mu.Unlock()
	}
	return v
}
