package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 key
const (
	KeyError     = "error"
	KeyStack     = "stack"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"

	KeyCampaign  = "campaign"
	KeyUserID    = "user_id"
	KeyVariation = "variation"
	KeyGoal      = "goal"
	KeyAttempt   = "attempt"
	KeyVersion   = "version"
)

// Err 错误属性，err 为 nil 时返回空属性（slog 忽略）
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 耗时属性，人类可读格式
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Count 计数属性
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Component 组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Campaign 实验 key 属性
func Campaign(key string) slog.Attr {
	return slog.String(KeyCampaign, key)
}

// UserID 用户 ID 属性
func UserID(id string) slog.Attr {
	return slog.String(KeyUserID, id)
}

// Variation 变体名属性
func Variation(name string) slog.Attr {
	return slog.String(KeyVariation, name)
}

// Goal 目标标识属性
func Goal(identifier string) slog.Attr {
	return slog.String(KeyGoal, identifier)
}

// Attempt 重试次数属性（从 1 开始）
func Attempt(n uint) slog.Attr {
	return slog.Uint64(KeyAttempt, uint64(n))
}

// Version 配置或缓存版本属性
func Version(v uint64) slog.Attr {
	return slog.Uint64(KeyVersion, v)
}
