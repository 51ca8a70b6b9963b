// Package resilience 提供弹性相关的子包。
//
// 子包列表：
//   - xretry: 重试策略与退避，基于 retry-go
package resilience
