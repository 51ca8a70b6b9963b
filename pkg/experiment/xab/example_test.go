package xab_test

import (
	"context"
	"fmt"

	"github.com/omeyang/xsplit/pkg/experiment/xab"
	"github.com/omeyang/xsplit/pkg/experiment/xsettings"
	"github.com/omeyang/xsplit/pkg/observability/xlog"
)

func Example() {
	doc, err := xsettings.Parse([]byte(`
campaigns:
  - key: checkout
    trafficAllocation: 100
    variations:
      - name: only
        weight: 100
    goals:
      - identifier: purchase
`), xsettings.FormatYAML)
	if err != nil {
		panic(err)
	}

	client := xab.NewFromDocument(doc, xab.WithLogger(xlog.Discard()))
	defer func() { _ = client.Close(context.Background()) }()

	ctx := context.Background()
	fmt.Println(client.Ready())
	fmt.Println(client.Activate(ctx, "checkout", "user-1"))
	fmt.Println(client.Track(ctx, "checkout", "user-1", "purchase"))
	fmt.Println(client.Track(ctx, "checkout", "user-1", "refund"))
	fmt.Printf("%q\n", client.GetVariation(ctx, "missing", "user-1"))
	// Output:
	// true
	// only
	// true
	// false
	// ""
}
