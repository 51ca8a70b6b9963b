package xdispatch

import "errors"

var (
	// ErrNilTransport 表示未提供 Transport
	ErrNilTransport = errors.New("xdispatch: nil transport")

	// ErrClosed 表示队列已关闭
	ErrClosed = errors.New("xdispatch: queue closed")

	// ErrBreakerOpen 表示熔断器打开，批次被短路
	ErrBreakerOpen = errors.New("xdispatch: transport circuit open")
)
