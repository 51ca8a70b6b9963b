package xpool

import "github.com/omeyang/xsplit/pkg/observability/xlog"

// Option Pool 配置
type Option func(*options)

type options struct {
	logger xlog.Logger
	name   string
}

// WithLogger 设置日志，nil 忽略。默认 xlog.Default()。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 pool 名称，写入日志的 component 字段
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
