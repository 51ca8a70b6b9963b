package xmetrics

import (
	"context"
	"strconv"
)

// 组件名
const (
	ComponentEngine     = "xab"
	ComponentDispatcher = "xdispatch"
	ComponentProfile    = "xprofile"
)

// Kind 跨度类型
type Kind int

const (
	// KindInternal 进程内操作
	KindInternal Kind = iota
	// KindClient 对外调用
	KindClient
	// KindProducer 消息投递
	KindProducer
)

// String 返回可读名称
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "Internal"
	case KindClient:
		return "Client"
	case KindProducer:
		return "Producer"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Status 观测结果状态
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"

	// StatusExcluded 用户未进入实验
	StatusExcluded Status = "excluded"
	// StatusInvalid 参数无效或引用了未知实验/目标
	StatusInvalid Status = "invalid"
	// StatusDropped 事件被丢弃
	StatusDropped Status = "dropped"
)

// Attr 观测属性
type Attr struct {
	Key   string
	Value any
}

// SpanOptions 跨度创建参数
type SpanOptions struct {
	Component string
	Operation string
	Kind      Kind
	Attrs     []Attr
}

// Result 跨度结束时的结果。Status 为空时根据 Err 推导。
type Result struct {
	Status Status
	Err    error
	Attrs  []Attr
}

// Span 一次观测跨度
type Span interface {
	End(result Result)
}

// Observer 观测接口
type Observer interface {
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 空实现
type NoopObserver struct{}

// Start 返回 ctx 和空跨度，nil ctx 替换为 Background
func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 空跨度
type NoopSpan struct{}

// End 空实现
func (NoopSpan) End(Result) {}

// Start 使用 observer 开始观测。保证返回非 nil 的 ctx 与 Span：
// nil ctx 替换为 Background，nil observer 或 observer 返回 nil 时兜底为空实现。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	retCtx, span := observer.Start(ctx, opts)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return retCtx, span
}
