package xevent

import "errors"

// ErrUnknownKind 表示无法识别的事件类型文本
var ErrUnknownKind = errors.New("xevent: unknown event kind")
