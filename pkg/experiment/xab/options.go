package xab

import (
	"time"

	"github.com/omeyang/xsplit/pkg/experiment/xassign"
	"github.com/omeyang/xsplit/pkg/experiment/xdispatch"
	"github.com/omeyang/xsplit/pkg/experiment/xevent"
	"github.com/omeyang/xsplit/pkg/experiment/xprofile"
	"github.com/omeyang/xsplit/pkg/observability/xlog"
	"github.com/omeyang/xsplit/pkg/observability/xmetrics"
)

// 默认值
const (
	DefaultProfileTimeout   = 50 * time.Millisecond
	DefaultProfileQueueSize = 1024
)

// Option Client 配置选项
type Option func(*options)

type options struct {
	logger           xlog.Logger
	observer         xmetrics.Observer
	transport        xdispatch.Transport
	queueOpts        []xdispatch.Option
	cacheOpts        []xassign.Option
	builder          *xevent.Builder
	profile          xprofile.Service
	profileTimeout   time.Duration
	profileQueueSize int
}

func defaultOptions() options {
	return options{
		observer:         xmetrics.NoopObserver{},
		profileTimeout:   DefaultProfileTimeout,
		profileQueueSize: DefaultProfileQueueSize,
	}
}

// WithLogger 设置日志，nil 忽略。默认 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver 设置观测器，nil 忽略
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithTransport 设置事件投递通道及队列参数。
// 未设置时事件在后台被丢弃。
func WithTransport(t xdispatch.Transport, opts ...xdispatch.Option) Option {
	return func(o *options) {
		if t != nil {
			o.transport = t
		}
		o.queueOpts = append(o.queueOpts, opts...)
	}
}

// WithCacheOptions 设置分流结果缓存参数
func WithCacheOptions(opts ...xassign.Option) Option {
	return func(o *options) {
		o.cacheOpts = append(o.cacheOpts, opts...)
	}
}

// WithEventBuilder 设置事件构造器，nil 忽略
func WithEventBuilder(b *xevent.Builder) Option {
	return func(o *options) {
		if b != nil {
			o.builder = b
		}
	}
}

// WithProfileService 设置用户分流结果存储，nil 表示不使用
func WithProfileService(s xprofile.Service) Option {
	return func(o *options) {
		o.profile = s
	}
}

// WithProfileTimeout 单次查询或保存 profile 的超时，非正值忽略
func WithProfileTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.profileTimeout = d
		}
	}
}

// WithProfileQueueSize 异步保存队列容量，非正值忽略
func WithProfileQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.profileQueueSize = n
		}
	}
}
