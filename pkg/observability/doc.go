// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，lumberjack 文件轮转
//   - xmetrics: 统一观测接口（Observer/Span），OpenTelemetry 实现
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 日志与观测都可替换为空实现，业务路径不依赖其投递成功
package observability
