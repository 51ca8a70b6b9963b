package xab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xsplit/pkg/experiment/xassign"
	"github.com/omeyang/xsplit/pkg/experiment/xdispatch"
	"github.com/omeyang/xsplit/pkg/experiment/xevent"
	"github.com/omeyang/xsplit/pkg/experiment/xprofile"
	"github.com/omeyang/xsplit/pkg/experiment/xsettings"
	"github.com/omeyang/xsplit/pkg/experiment/xtransport"
	"github.com/omeyang/xsplit/pkg/observability/xlog"
	"github.com/omeyang/xsplit/pkg/observability/xmetrics"
	"github.com/omeyang/xsplit/pkg/util/xpool"
)

// Stats Client 状态快照
type Stats struct {
	Ready         bool
	ConfigVersion int64  // 配置文档的 version 字段
	Campaigns     int    // 配置中的实验数
	CacheVersion  uint64 // 每次 Install 递增
	CacheSize     int
	Queue         xdispatch.Stats
	ProfileSaves  uint64 // 成功保存的 profile 数
	ProfileDrops  uint64 // 因队列满或保存失败丢弃的 profile 数
}

// Client 决策引擎。
//
// 在进程内按用户与实验确定性地分流，决策不访问网络；曝光与转化事件
// 交给后台队列异步投递。所有方法并发安全。
//
// 注意:
//   - 同一配置版本内同一用户的结果只计算一次并缓存，Install 后全部失效
//   - 配置无效时 Client 处于惰性状态，所有决策返回 "" 或 false
//   - 用完需调用 Close，否则队列中的事件可能丢失
type Client struct {
	inert bool

	snap  atomic.Pointer[xsettings.Snapshot]
	mu    sync.Mutex // 串行化 Install
	cache *xassign.Cache
	queue *xdispatch.Queue

	builder  *xevent.Builder
	logger   xlog.Logger
	observer xmetrics.Observer

	profile        xprofile.Service
	profileTimeout time.Duration
	saver          *xpool.Pool[saveTask]
	profileSaves   atomic.Uint64
	profileDrops   atomic.Uint64
}

// New 使用已编译的配置创建 Client，永不失败。
//
// 参数:
//   - snap: xsettings.Compile 或 xsettings.LoadSnapshot 得到的配置
//   - opts: 可选配置；未设置 WithTransport 时事件在后台被丢弃
//
// 注意:
//   - snap 为 nil 或依赖组件初始化失败时返回惰性 Client，并记录一次 ERROR 日志
//   - 惰性 Client 不可恢复，Install 返回 ErrInert，需要重新创建
//   - 创建时重置分流缓存并启动后台投递
//
// 示例:
//
//	snap, err := xsettings.LoadSnapshot("/etc/app/experiments.yaml")
//	if err != nil {
//	    return err
//	}
//	client := xab.New(snap, xab.WithTransport(transport))
//	defer client.Close(context.Background())
//
//	variation := client.Activate(ctx, "checkout", userID)
func New(snap *xsettings.Snapshot, opts ...Option) *Client {
	o := buildOptions(opts)
	c := &Client{logger: o.logger, observer: o.observer}
	if snap == nil {
		return c.markInert(ErrNilSnapshot)
	}

	cache, err := xassign.New(o.cacheOpts...)
	if err != nil {
		return c.markInert(err)
	}

	transport := o.transport
	if transport == nil {
		c.logger.Info(context.Background(), "no transport configured, events will be discarded")
		transport = xtransport.Func(func(context.Context, []xevent.Event) error { return nil })
	}
	queueOpts := append([]xdispatch.Option{
		xdispatch.WithLogger(c.logger),
		xdispatch.WithObserver(o.observer),
	}, o.queueOpts...)
	queue, err := xdispatch.New(transport, queueOpts...)
	if err != nil {
		return c.markInert(err)
	}

	var saver *xpool.Pool[saveTask]
	if o.profile != nil {
		saver, err = xpool.New(1, o.profileQueueSize, c.saveProfile,
			xpool.WithLogger(c.logger), xpool.WithName("xab.profile"))
		if err != nil {
			return c.markInert(err)
		}
	}

	c.cache = cache
	c.queue = queue
	c.builder = o.builder
	if c.builder == nil {
		c.builder = xevent.NewBuilder()
	}
	c.profile = o.profile
	c.profileTimeout = o.profileTimeout
	c.saver = saver

	c.snap.Store(snap)
	c.cache.Reset()
	c.queue.Start()

	c.logger.Info(context.Background(), "client ready",
		xlog.Count(snap.Len()), slog.Int64("config_version", snap.Version()))
	return c
}

// NewFromDocument 编译 doc 后创建 Client，编译失败时返回惰性 Client
func NewFromDocument(doc *xsettings.Document, opts ...Option) *Client {
	snap, err := xsettings.Compile(doc)
	if err != nil {
		o := buildOptions(opts)
		return (&Client{logger: o.logger, observer: o.observer}).markInert(err)
	}
	return New(snap, opts...)
}

// NewFromFile 加载 JSON/YAML 配置文件后创建 Client，失败时返回惰性 Client
func NewFromFile(path string, opts ...Option) *Client {
	snap, err := xsettings.LoadSnapshot(path)
	if err != nil {
		o := buildOptions(opts)
		return (&Client{logger: o.logger, observer: o.observer}).markInert(err)
	}
	return New(snap, opts...)
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = xlog.Default()
	}
	o.logger = o.logger.With(xlog.Component(xmetrics.ComponentEngine))
	return o
}

// markInert 惰性状态只在创建时进入，且只记录这一次 ERROR
func (c *Client) markInert(cause error) *Client {
	c.inert = true
	c.logger.Error(context.Background(), "no valid configuration, client is inert", xlog.Err(cause))
	return c
}

// Ready 报告 Client 是否可用
func (c *Client) Ready() bool {
	return !c.inert
}

// Install 替换配置并使全部缓存结果失效。
//
// 新快照先发布、缓存版本后递增，Install 返回后的决策一定基于新配置；
// 与 Install 并发的决策可能返回旧配置的结果，但不会写入新版本的缓存。
//
// 注意:
//   - 惰性 Client 返回 ErrInert
//   - snap 为 nil 时返回 ErrNilSnapshot 并保留原配置
//   - 多次并发 Install 串行执行，最后完成的生效
func (c *Client) Install(snap *xsettings.Snapshot) error {
	if c.inert {
		return ErrInert
	}
	if snap == nil {
		return ErrNilSnapshot
	}

	c.mu.Lock()
	// 先发布快照再递增缓存版本：新版本下计算的结果一定基于新快照
	c.snap.Store(snap)
	v := c.cache.Reset()
	c.mu.Unlock()

	c.logger.Info(context.Background(), "configuration installed",
		xlog.Version(v), xlog.Count(snap.Len()), slog.Int64("config_version", snap.Version()))
	return nil
}

// InstallDocument 编译并安装 doc，失败时保留原配置
func (c *Client) InstallDocument(doc *xsettings.Document) error {
	if c.inert {
		return ErrInert
	}
	snap, err := xsettings.Compile(doc)
	if err != nil {
		c.logger.Error(context.Background(), "reject configuration document", xlog.Err(err))
		return fmt.Errorf("xab: install document: %w", err)
	}
	return c.Install(snap)
}

// Reloader 返回可交给 xsettings.Watch 的回调：成功时安装新配置，失败时记录日志并保留原配置
func (c *Client) Reloader() xsettings.WatchCallback {
	return func(snap *xsettings.Snapshot, err error) {
		if err != nil {
			c.logger.Error(context.Background(), "reload configuration failed, keeping current", xlog.Err(err))
			return
		}
		if err := c.Install(snap); err != nil {
			c.logger.Warn(context.Background(), "install reloaded configuration failed", xlog.Err(err))
		}
	}
}

// Flush 立即投递已入队的事件并等待完成
func (c *Client) Flush(ctx context.Context) error {
	if c.inert {
		return nil
	}
	if err := c.queue.Flush(ctx); err != nil && !errors.Is(err, xdispatch.ErrClosed) {
		return err
	}
	return nil
}

// Close 停止接收事件，投递剩余事件并停止 profile 保存，受 ctx 约束。
// 之后的操作仍返回决策结果，但不再产生事件。可重复调用。
func (c *Client) Close(ctx context.Context) error {
	if c.inert {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	if err := c.queue.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("xab: close queue: %w", err))
	}
	if c.saver != nil {
		if err := c.saver.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("xab: stop profile saver: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Stats 返回状态快照
func (c *Client) Stats() Stats {
	if c.inert {
		return Stats{}
	}
	snap := c.snap.Load()
	return Stats{
		Ready:         true,
		ConfigVersion: snap.Version(),
		Campaigns:     snap.Len(),
		CacheVersion:  c.cache.Version(),
		CacheSize:     c.cache.Len(),
		Queue:         c.queue.Stats(),
		ProfileSaves:  c.profileSaves.Load(),
		ProfileDrops:  c.profileDrops.Load(),
	}
}
