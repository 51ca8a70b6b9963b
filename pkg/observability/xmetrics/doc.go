// Package xmetrics 提供统一的观测接口（metrics + tracing）。
//
// 业务代码只依赖 [Observer]/[Span]/[Attr]；默认实现基于 OpenTelemetry。
// 未配置时使用 [NoopObserver]，不产生任何开销。
//
//	obs, _ := xmetrics.NewOTelObserver(xmetrics.WithMeterProvider(mp))
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//	    Component: xmetrics.ComponentEngine,
//	    Operation: "activate",
//	})
//	defer span.End(xmetrics.Result{Status: xmetrics.StatusOK})
//
// # 指标
//
//   - xsplit.operation.total：按 component / operation / status 计数
//   - xsplit.operation.duration：耗时直方图（秒）
//
// 分流结果通过 [Result.Status] 区分：ok、error，以及
// [StatusExcluded]、[StatusInvalid] 等领域状态，便于按结果聚合。
package xmetrics
