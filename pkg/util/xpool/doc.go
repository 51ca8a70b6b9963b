// Package xpool 提供泛型 worker pool。
//
// Pool 用于把可丢弃的后台任务移出调用路径：
//   - Submit 非阻塞，队列满返回 ErrQueueFull，已关闭返回 ErrPoolStopped
//   - Shutdown(ctx) 拒绝新任务并等待队列耗尽；ctx 到期立即返回，
//     残留 worker 继续处理，可通过 Done() 等待
//   - handler panic 被恢复并记录 ERROR 日志（含堆栈），不影响其他任务
//
// New 创建后 worker 即启动。Shutdown 不可在 handler 内调用，否则死锁。
package xpool
