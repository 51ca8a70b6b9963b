package xab

import (
	"context"
	"errors"

	"github.com/omeyang/xsplit/pkg/observability/xlog"
	"github.com/omeyang/xsplit/pkg/observability/xmetrics"
	"github.com/omeyang/xsplit/pkg/util/xpool"
)

type saveTask struct {
	userID      string
	campaignKey string
	variation   string
}

// lookupProfile 查询已保存的分流结果。
// 超时或出错时返回 err，调用方按哈希作答，但不得覆盖存储中可能存在的结果。
func (c *Client) lookupProfile(ctx context.Context, userID, campaignKey string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.profileTimeout)
	defer cancel()

	ctx, span := c.profileSpan(ctx, "lookup", campaignKey)
	v, ok, err := c.profile.Lookup(ctx, userID, campaignKey)
	if err != nil {
		span.End(xmetrics.Result{Status: xmetrics.StatusError, Err: err})
		c.logger.Warn(ctx, "profile lookup failed, falling back to bucketing",
			xlog.Campaign(campaignKey), xlog.UserID(userID), xlog.Err(err))
		return "", false, err
	}
	span.End(xmetrics.Result{Status: xmetrics.StatusOK, Attrs: []xmetrics.Attr{xmetrics.Bool("hit", ok)}})
	return v, ok, nil
}

func (c *Client) submitSave(ctx context.Context, task saveTask) {
	err := c.saver.Submit(task)
	if err == nil {
		return
	}
	c.profileDrops.Add(1)
	if !errors.Is(err, xpool.ErrPoolStopped) {
		c.logger.Debug(ctx, "profile save dropped",
			xlog.Campaign(task.campaignKey), xlog.UserID(task.userID), xlog.Err(err))
	}
}

// saveProfile 在 saver worker 中执行
func (c *Client) saveProfile(task saveTask) {
	ctx, cancel := context.WithTimeout(context.Background(), c.profileTimeout)
	defer cancel()

	ctx, span := c.profileSpan(ctx, "save", task.campaignKey)
	if err := c.profile.Save(ctx, task.userID, task.campaignKey, task.variation); err != nil {
		span.End(xmetrics.Result{Status: xmetrics.StatusError, Err: err})
		c.profileDrops.Add(1)
		c.logger.Warn(ctx, "profile save failed",
			xlog.Campaign(task.campaignKey), xlog.UserID(task.userID),
			xlog.Variation(task.variation), xlog.Err(err))
		return
	}
	span.End(xmetrics.Result{Status: xmetrics.StatusOK})
	c.profileSaves.Add(1)
}

func (c *Client) profileSpan(ctx context.Context, operation, campaignKey string) (context.Context, xmetrics.Span) {
	return xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: xmetrics.ComponentProfile,
		Operation: operation,
		Kind:      xmetrics.KindClient,
		Attrs:     []xmetrics.Attr{xmetrics.String(xmetrics.AttrCampaign, campaignKey)},
	})
}
