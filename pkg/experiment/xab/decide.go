package xab

import (
	"context"

	"github.com/omeyang/xsplit/pkg/experiment/xassign"
	"github.com/omeyang/xsplit/pkg/experiment/xbucket"
	"github.com/omeyang/xsplit/pkg/experiment/xsettings"
	"github.com/omeyang/xsplit/pkg/observability/xlog"
	"github.com/omeyang/xsplit/pkg/observability/xmetrics"
)

// GetVariation 返回用户在实验中的变体名，不产生事件。
// 参数为空、实验未知或未运行、用户未进入实验时返回 ""。
func (c *Client) GetVariation(ctx context.Context, campaignKey, userID string) string {
	ctx, span := c.start(ctx, "get_variation", campaignKey)
	variation, status := c.decide(ctx, campaignKey, userID)
	c.end(span, status, variation)
	return variation
}

// Activate 与 GetVariation 相同，返回非空变体时记录一次曝光事件
func (c *Client) Activate(ctx context.Context, campaignKey, userID string) string {
	ctx, span := c.start(ctx, "activate", campaignKey)
	variation, status := c.decide(ctx, campaignKey, userID)
	if status == xmetrics.StatusOK {
		c.queue.Enqueue(c.builder.Activation(campaignKey, userID, variation))
	}
	c.end(span, status, variation)
	return variation
}

// Track 记录一次转化事件。
//
// 转化事件中的变体与 GetVariation 的结果一致，Track 不会产生曝光事件。
//
// 参数:
//   - campaignKey: 实验标识，实验须处于运行状态
//   - userID: 用户标识
//   - goal: 实验中定义的目标标识
//
// 返回 false 的情况（均不产生事件）:
//   - 任一参数为空
//   - 实验未知或未运行，目标不属于该实验
//   - 用户未进入实验流量
//
// 注意: 返回 true 表示转化已决定并交给队列；队列满时事件被丢弃，
// 可通过 Stats().Queue.Dropped 观察。
func (c *Client) Track(ctx context.Context, campaignKey, userID, goal string) bool {
	ctx, span := c.start(ctx, "track", campaignKey)

	cc, status := c.check(ctx, campaignKey, userID)
	if status == xmetrics.StatusOK && !cc.HasGoal(goal) {
		c.logger.Debug(ctx, "empty or unknown goal", xlog.Campaign(campaignKey), xlog.Goal(goal))
		status = xmetrics.StatusInvalid
	}
	var variation string
	if status == xmetrics.StatusOK {
		variation, status = c.resolve(ctx, campaignKey, userID)
	}
	if status != xmetrics.StatusOK {
		c.end(span, status, "")
		return false
	}

	c.queue.Enqueue(c.builder.Conversion(campaignKey, userID, variation, goal))
	c.end(span, status, variation)
	return true
}

// decide 校验参数并查询或计算分流结果
func (c *Client) decide(ctx context.Context, campaignKey, userID string) (string, xmetrics.Status) {
	if _, status := c.check(ctx, campaignKey, userID); status != xmetrics.StatusOK {
		return "", status
	}
	return c.resolve(ctx, campaignKey, userID)
}

// check 校验参数与实验，不触碰缓存
func (c *Client) check(ctx context.Context, campaignKey, userID string) (*xsettings.CompiledCampaign, xmetrics.Status) {
	if c.inert {
		return nil, xmetrics.StatusError
	}
	if campaignKey == "" || userID == "" {
		c.logger.Debug(ctx, "empty campaign key or user id",
			xlog.Campaign(campaignKey), xlog.UserID(userID))
		return nil, xmetrics.StatusInvalid
	}
	cc := c.campaign(campaignKey)
	if cc == nil {
		c.logger.Debug(ctx, "unknown or inactive campaign", xlog.Campaign(campaignKey))
		return nil, xmetrics.StatusInvalid
	}
	return cc, xmetrics.StatusOK
}

func (c *Client) resolve(ctx context.Context, campaignKey, userID string) (string, xmetrics.Status) {
	d := c.cache.GetOrLoad(xassign.Key{UserID: userID, CampaignKey: campaignKey}, func() (xassign.Decision, bool) {
		return c.compute(ctx, campaignKey, userID)
	})
	if !d.Included {
		return "", xmetrics.StatusExcluded
	}
	return d.Variation, xmetrics.StatusOK
}

// campaign 返回当前配置中正在运行的实验
func (c *Client) campaign(key string) *xsettings.CompiledCampaign {
	cc, ok := c.snap.Load().Campaign(key)
	if !ok || !cc.Running() {
		return nil
	}
	return cc
}

// compute 在缓存未命中时执行。快照在此处重新读取：
// Install 先发布快照后递增缓存版本，写入新版本的结果因此总是基于新快照。
//
// profile 查询失败时返回的是临时结果：按哈希作答，但既不缓存也不保存，
// 存储恢复后下一次查询仍以已保存的结果为准。
func (c *Client) compute(ctx context.Context, campaignKey, userID string) (xassign.Decision, bool) {
	cc := c.campaign(campaignKey)
	if cc == nil {
		return xassign.Excluded, true
	}

	var lookupFailed bool
	if c.profile != nil {
		saved, ok, err := c.lookupProfile(ctx, userID, campaignKey)
		switch {
		case err != nil:
			lookupFailed = true
		case ok && cc.HasVariation(saved):
			return xassign.Assigned(saved), true
		case ok:
			c.logger.Debug(ctx, "saved variation no longer exists, rebucketing",
				xlog.Campaign(campaignKey), xlog.UserID(userID), xlog.Variation(saved))
		}
	}

	d := c.bucket(cc, campaignKey, userID)
	if c.profile != nil && !lookupFailed && d.Included {
		c.submitSave(ctx, saveTask{userID: userID, campaignKey: campaignKey, variation: d.Variation})
	}
	return d, !lookupFailed
}

// bucket 按哈希决定是否进入实验以及命中的变体
func (c *Client) bucket(cc *xsettings.CompiledCampaign, campaignKey, userID string) xassign.Decision {
	if !cc.Included(xbucket.InclusionBucket(campaignKey, userID)) {
		return xassign.Excluded
	}
	variation, ok := cc.VariationFor(xbucket.VariationBucket(campaignKey, userID))
	if !ok {
		return xassign.Excluded
	}
	return xassign.Assigned(variation)
}

func (c *Client) start(ctx context.Context, operation, campaignKey string) (context.Context, xmetrics.Span) {
	return xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: xmetrics.ComponentEngine,
		Operation: operation,
		Kind:      xmetrics.KindInternal,
		Attrs:     []xmetrics.Attr{xmetrics.String(xmetrics.AttrCampaign, campaignKey)},
	})
}

func (c *Client) end(span xmetrics.Span, status xmetrics.Status, variation string) {
	var attrs []xmetrics.Attr
	if variation != "" {
		attrs = []xmetrics.Attr{xmetrics.String(xmetrics.AttrVariation, variation)}
	}
	span.End(xmetrics.Result{Status: status, Attrs: attrs})
}
