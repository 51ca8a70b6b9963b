package xdispatch_test

import (
	"context"
	"fmt"

	"github.com/omeyang/xsplit/pkg/experiment/xdispatch"
	"github.com/omeyang/xsplit/pkg/experiment/xevent"
	"github.com/omeyang/xsplit/pkg/observability/xlog"
)

type printTransport struct{}

func (printTransport) Send(_ context.Context, events []xevent.Event) error {
	for _, e := range events {
		fmt.Println(e.Kind, e.CampaignKey, e.UserID, e.Variation)
	}
	return nil
}

func ExampleQueue() {
	q, err := xdispatch.New(printTransport{}, xdispatch.WithLogger(xlog.Discard()))
	if err != nil {
		panic(err)
	}
	q.Start()

	q.Enqueue(xevent.Event{Kind: xevent.KindActivation, CampaignKey: "checkout", UserID: "u1", Variation: "treatment"})
	if err := q.Close(context.Background()); err != nil {
		panic(err)
	}
	fmt.Println(q.Stats().Dispatched)
	// Output:
	// ACTIVATION checkout u1 treatment
	// 1
}
