package xtransport

import (
	"context"

	"github.com/omeyang/xsplit/pkg/experiment/xevent"
)

// Func 函数形式的 Transport
type Func func(ctx context.Context, events []xevent.Event) error

// Send 调用 f
func (f Func) Send(ctx context.Context, events []xevent.Event) error {
	return f(ctx, events)
}
