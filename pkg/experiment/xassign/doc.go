// Package xassign 提供用户分流结果的版本化缓存。
//
// 缓存以 (userID, campaignKey) 为键，记录该用户在当前配置版本下的
// [Decision]。配置切换时调用 [Cache.Reset]：版本号加一，旧条目立即失效。
//
// # 分片
//
// 按 xxhash(key) 选择分片，每个分片一把 RWMutex，锁只覆盖 map 操作，
// 计算函数在锁外执行。分片数默认 32，须为 2 的幂。
//
// # 单飞
//
// [Cache.GetOrCompute] 对同一版本、同一键的并发未命中只执行一次计算
// （golang.org/x/sync/singleflight）。计算开始后发生 Reset 时，
// 结果照常返回给调用方，但不写入缓存。
package xassign
