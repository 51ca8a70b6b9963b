// Package xtransport 提供 xdispatch.Transport 的常用实现。
//
// HTTP 把一批事件编码为 JSON 后 POST 到收集服务：
//   - 2xx 视为成功
//   - 4xx 为请求本身错误，包装为 xretry.PermanentError，不再重试
//   - 其他状态码与网络错误可重试
//
// Kafka 为每个事件发送一条消息，key 为 "campaignKey:userID"，
// 同一用户在同一实验下的事件落在同一分区，保持顺序。
// 它只依赖窄接口 Producer，*kafka.Producer 直接满足。
//
// Func 把普通函数适配为 Transport。
package xtransport
