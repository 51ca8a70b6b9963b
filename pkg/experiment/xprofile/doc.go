// Package xprofile 持久化用户在各实验中的分桶结果。
//
// 配置变更（权重或流量调整）可能改变用户的哈希分桶结果，
// 已保存的结果优先于哈希计算，使用户在实验期间看到的变体保持稳定。
// 保存的变体在当前配置中不存在时，调用方应回退到哈希计算。
//
// 两种实现：
//   - Memory：进程内 LRU，支持条目上限与 TTL
//   - Redis：每个用户一个 hash，field 为实验 key，value 为变体名
package xprofile
