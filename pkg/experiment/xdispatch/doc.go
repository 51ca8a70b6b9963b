// Package xdispatch 异步批量上报实验事件。
//
// [Queue.Enqueue] 从不阻塞、从不做 I/O：事件写入有界 channel，
// 缓冲区满或队列已关闭时立即返回 false 并计入丢弃数。
// 唯一的后台 goroutine 持有批次缓冲与 [Transport]，
// 在以下任一条件满足时发送一批：
//   - 批次达到 [WithBatchSize]（默认 100）
//   - 距上次发送超过 [WithFlushInterval]（默认 1s）
//   - 调用 [Queue.Flush] 或 [Queue.Close]
//
// # 顺序
//
// 单一消费者按入队顺序发送，上一批完成（成功或放弃）后才发下一批，
// 因此同一用户同一实验的事件保持入队顺序。
//
// # 失败处理
//
// 每批经 xretry 重试（默认 3 次，指数退避），每次尝试受 [WithSendTimeout]
// 约束（默认 5s）；每次失败记 WARN，耗尽后丢弃整批并记 ERROR。
// Transport 外层包一层 gobreaker 熔断：连续失败达到阈值后短路，
// 熔断期间的批次直接丢弃，不再占用重试预算。
// 失败从不传播给 Enqueue 的调用方。
//
// # 生命周期
//
//	q, err := xdispatch.New(transport, xdispatch.WithBatchSize(50))
//	q.Start()
//	q.Enqueue(event)
//	defer q.Close(ctx) // 停止接收、发送剩余事件，受 ctx 约束
package xdispatch
