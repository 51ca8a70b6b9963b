package xab

import "errors"

var (
	// ErrInert Client 处于惰性状态，不接受新配置
	ErrInert = errors.New("xab: client is inert")
	// ErrNilSnapshot 配置快照为 nil
	ErrNilSnapshot = errors.New("xab: nil snapshot")
)
