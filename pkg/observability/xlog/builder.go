package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ReplaceAttrFunc 属性替换函数，返回空 Key 的 Attr 将移除该属性
type ReplaceAttrFunc func(groups []string, a slog.Attr) slog.Attr

// 轮转默认值
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 7
	DefaultMaxAgeDays = 30
)

// RotationOption 日志轮转选项
type RotationOption func(*lumberjack.Logger)

// WithMaxSize 单个文件最大大小（MB），非正值忽略
func WithMaxSize(mb int) RotationOption {
	return func(l *lumberjack.Logger) {
		if mb > 0 {
			l.MaxSize = mb
		}
	}
}

// WithMaxBackups 保留的备份数量，0 表示不限制
func WithMaxBackups(n int) RotationOption {
	return func(l *lumberjack.Logger) {
		if n >= 0 {
			l.MaxBackups = n
		}
	}
}

// WithMaxAge 备份保留天数，0 表示不按天清理
func WithMaxAge(days int) RotationOption {
	return func(l *lumberjack.Logger) {
		if days >= 0 {
			l.MaxAge = days
		}
	}
}

// WithCompress 是否 gzip 压缩备份
func WithCompress(compress bool) RotationOption {
	return func(l *lumberjack.Logger) {
		l.Compress = compress
	}
}

// Builder 日志配置构建器，一次性使用
type Builder struct {
	output      io.Writer
	levelVar    *slog.LevelVar
	format      string
	addSource   bool
	attrs       []slog.Attr
	replaceAttr ReplaceAttrFunc
	rotator     *lumberjack.Logger
	onError     func(error)
	err         error
}

// New 创建构建器，默认 stderr、Info、text
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	return &Builder{
		output:   os.Stderr,
		levelVar: levelVar,
		format:   "text",
	}
}

// SetOutput 设置输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if b.err != nil {
		return b
	}
	if w == nil {
		b.err = ErrNilOutput
		return b
	}
	b.output = w
	return b
}

// SetLevel 设置级别
func (b *Builder) SetLevel(level Level) *Builder {
	if b.err != nil {
		return b
	}
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置级别
func (b *Builder) SetLevelString(s string) *Builder {
	if b.err != nil {
		return b
	}
	level, err := ParseLevel(s)
	if err != nil {
		b.err = err
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json，空值视为 text
func (b *Builder) SetFormat(format string) *Builder {
	if b.err != nil {
		return b
	}
	switch normalized := strings.ToLower(strings.TrimSpace(format)); normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		b.err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return b
}

// SetAddSource 是否记录源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	if b.err == nil {
		b.addSource = enable
	}
	return b
}

// SetAttrs 设置每条日志都携带的固定属性（如服务名、SDK 版本）
func (b *Builder) SetAttrs(attrs ...slog.Attr) *Builder {
	if b.err == nil {
		b.attrs = append(b.attrs, attrs...)
	}
	return b
}

// SetRotation 输出到按大小轮转的文件
func (b *Builder) SetRotation(filename string, opts ...RotationOption) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(filename) == "" {
		b.err = ErrEmptyFilename
		return b
	}
	rotator := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	}
	for _, opt := range opts {
		opt(rotator)
	}
	b.rotator = rotator
	b.output = rotator
	return b
}

// SetOnError 设置 Handler 写入失败时的回调，回调在日志调用方同步执行
func (b *Builder) SetOnError(fn func(error)) *Builder {
	if b.err == nil {
		b.onError = fn
	}
	return b
}

// SetReplaceAttr 设置属性替换函数，用于脱敏、重命名、过滤
func (b *Builder) SetReplaceAttr(fn ReplaceAttrFunc) *Builder {
	if b.err == nil {
		b.replaceAttr = fn
	}
	return b
}

// Build 构建 Logger，cleanup 关闭轮转文件，可重复调用
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	opts := &slog.HandlerOptions{
		Level:       b.levelVar,
		AddSource:   b.addSource,
		ReplaceAttr: b.replaceAttr,
	}

	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(b.output, opts)
	} else {
		handler = slog.NewTextHandler(b.output, opts)
	}
	if len(b.attrs) > 0 {
		handler = handler.WithAttrs(b.attrs)
	}

	logger := &xlogger{
		handler:    handler,
		levelVar:   b.levelVar,
		onError:    b.onError,
		errorCount: new(atomic.Uint64),
		addSource:  b.addSource,
	}

	var once sync.Once
	rotator := b.rotator
	cleanup := func() error {
		var err error
		once.Do(func() {
			if rotator != nil {
				err = rotator.Close()
			}
		})
		return err
	}
	return logger, cleanup, nil
}
