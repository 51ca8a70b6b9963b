// Package xab 是实验分流的决策引擎。
//
// Client 对外提供三个操作：
//   - GetVariation：只查询用户所在变体，不产生事件
//   - Activate：查询并记录一次曝光（ACTIVATION）事件
//   - Track：用户已进入实验且目标存在时记录一次转化（CONVERSION）事件
//
// 三个操作都是全函数。参数为空、实验或目标未知、用户未进入实验时
// 分别返回 "" 或 false，不 panic，也不返回 error。
// 只有状态为 RUNNING 的实验参与分流，其他状态等同于未知实验。
//
// 分流步骤：
//  1. 查询当前配置版本下的缓存
//  2. （可选）查询 xprofile.Service，保存的变体仍存在时直接采用
//  3. 用盐 "A" 计算流量分桶值，超出流量分配则结果为未进入
//  4. 用盐 "B" 计算变体分桶值，按权重区间选出变体，异步保存到 xprofile
//
// 配置无效或缺失时 Client 进入惰性状态：记录一次 ERROR 日志，
// 之后所有操作返回 "" 或 false，Install 返回 ErrInert。
//
// 事件经 xdispatch.Queue 后台批量投递，调用路径上不做网络 I/O。
package xab
