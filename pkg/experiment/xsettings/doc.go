// Package xsettings 负责实验配置文档的解析、校验与编译。
//
// # 文档结构
//
//	version: 3
//	campaigns:
//	  - key: home-cta
//	    status: RUNNING
//	    trafficAllocation: 50
//	    variations:
//	      - name: control
//	        weight: 50
//	      - name: variation-1
//	        weight: 50
//	    goals:
//	      - identifier: signup
//
// 支持 YAML 与 JSON，底层使用 koanf 加载（rawbytes provider + 对应 parser），
// 使用 mapstructure 反序列化到 [Document]。
//
// # 编译
//
// [Compile] 校验不变量并生成只读的 [Snapshot]：
//   - 实验 key 非空且唯一，流量分配在 [0, 100]
//   - 至少一个变体，变体名非空且唯一，权重两位小数求和等于 100
//   - 目标标识非空且在实验内唯一
//
// Snapshot 在编译期一次性构建 key → 实验、标识 → 目标的索引以及
// 流量/变体区间，之后的查找均为 O(1)，可被任意 goroutine 并发读取。
//
// # 热重载
//
// [Watch] 监视配置文件所在目录，文件变更（防抖后）重新加载并编译，
// 通过回调交给调用方（通常是 xab.Client.Install）。
package xsettings
