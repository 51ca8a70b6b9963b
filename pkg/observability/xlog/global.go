package xlog

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	globalLogger atomic.Pointer[LoggerWithLevel]
	globalMu     sync.Mutex
)

// Default 返回全局 Logger，首次调用时创建（stderr、Info、text）
func Default() LoggerWithLevel {
	if l := globalLogger.Load(); l != nil {
		return *l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if l := globalLogger.Load(); l != nil {
		return *l
	}
	// 默认参数不会失败
	logger, _, _ := New().Build()
	globalLogger.Store(&logger)
	return logger
}

// SetDefault 替换全局 Logger，nil 忽略
func SetDefault(l LoggerWithLevel) {
	if l == nil {
		return
	}
	globalLogger.Store(&l)
}

// ResetDefault 重置全局 Logger（测试用）
func ResetDefault() {
	globalLogger.Store(nil)
}

// Discard 返回丢弃全部输出的 Logger
func Discard() LoggerWithLevel {
	levelVar := new(slog.LevelVar)
	// 高于所有标准级别，Handle 不会被调用
	levelVar.Set(slog.LevelError + 1)
	return &xlogger{
		handler:    slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelVar}),
		levelVar:   levelVar,
		errorCount: new(atomic.Uint64),
	}
}

// Debug 使用全局 Logger 记录 Debug 日志
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Debug(ctx, msg, attrs...)
}

// Info 使用全局 Logger 记录 Info 日志
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Info(ctx, msg, attrs...)
}

// Warn 使用全局 Logger 记录 Warn 日志
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Warn(ctx, msg, attrs...)
}

// Error 使用全局 Logger 记录 Error 日志
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Error(ctx, msg, attrs...)
}
