package xassign_test

import (
	"fmt"

	"github.com/omeyang/xsplit/pkg/experiment/xassign"
)

func ExampleCache_GetOrCompute() {
	cache, err := xassign.New()
	if err != nil {
		fmt.Println(err)
		return
	}
	key := xassign.Key{UserID: "user-1", CampaignKey: "home-cta"}

	d := cache.GetOrCompute(key, func() xassign.Decision {
		return xassign.Assigned("variation-1")
	})
	fmt.Println(d.Variation, cache.Len())

	fmt.Println(cache.Reset(), cache.Len())
	// Output:
	// variation-1 1
	// 2 0
}
