// Package experiment 提供实验分流（A/B 测试）相关的子包。
//
// 子包列表：
//   - xbucket: 确定性哈希分桶与累计权重区间分配
//   - xsettings: 实验配置文档的解析、校验、编译与热重载
//   - xassign: 按配置版本隔离的分流结果缓存
//   - xevent: 曝光（activation）与转化（conversion）事件
//   - xdispatch: 非阻塞事件队列与后台批量投递
//   - xtransport: 事件投递通道（HTTP 收集端、Kafka）
//   - xprofile: 用户分流结果持久化（内存、Redis）
//   - xab: 决策引擎，对外提供 GetVariation / Activate / Track
//
// 设计原则：
//   - 决策路径不做任何网络 I/O，事件投递全部在后台完成
//   - 相同用户、相同实验、相同配置版本下结果恒定
//   - 公开决策操作是全函数：不 panic、不返回 error，失败即返回哨兵值
package experiment
