// Package xlog 基于 log/slog 的结构化日志。
//
// # 创建 Logger
//
// 使用 Builder（first-error-wins：遇到第一个配置错误后，后续 Set 操作不再生效）：
//
//	logger, cleanup, err := xlog.New().
//	    SetLevel(xlog.LevelInfo).
//	    SetFormat("json").
//	    SetRotation("/var/log/app/xsplit.log", xlog.WithMaxSize(100)).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
// 所有方法第一个参数都是 context.Context，签名只接受 slog.Attr。
//
// # 全局 Logger
//
// [Default] 惰性创建（stderr、Info、text），[SetDefault] 替换，
// [Discard] 返回丢弃全部输出的 Logger，供测试与静默场景使用。
//
// # 便捷属性
//
// 通用：[Err]、[Duration]、[Count]、[Component]、[Operation]。
// 实验领域：[Campaign]、[UserID]、[Variation]、[Goal]、[Attempt]、[Version]。
//
// # 级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)，
// [ParseLevel] 从字符串解析，派生 Logger 共享 LevelVar，运行时调整同步生效。
package xlog
