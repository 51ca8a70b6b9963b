// Package xretry 提供重试策略、退避策略与执行器，底层使用 [avast/retry-go/v5]。
//
//   - [RetryPolicy]：是否继续重试（[NewFixedRetry]、[NewNeverRetry]）
//   - [BackoffPolicy]：下次重试前等待多久（[NewExponentialBackoff]、[NewFixedBackoff]、[NewNoBackoff]）
//
//	retryer := xretry.NewRetryer(
//	    xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
//	    xretry.WithBackoffPolicy(xretry.NewExponentialBackoff()),
//	)
//	err := retryer.Do(ctx, func(ctx context.Context) error {
//	    return transport.Send(ctx, batch)
//	})
//
// # 错误分类
//
// [NewPermanentError] 标记的错误不再重试（例如上报服务返回 4xx），
// [NewTemporaryError] 显式标记可重试，其余错误默认可重试。
//
// [avast/retry-go/v5]: https://github.com/avast/retry-go
package xretry
