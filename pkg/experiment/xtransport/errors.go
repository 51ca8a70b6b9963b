package xtransport

import "errors"

var (
	// ErrEmptyEndpoint 收集服务地址为空
	ErrEmptyEndpoint = errors.New("xtransport: empty endpoint")
	// ErrNilProducer Kafka producer 为 nil
	ErrNilProducer = errors.New("xtransport: nil producer")
	// ErrEmptyTopic Kafka topic 为空
	ErrEmptyTopic = errors.New("xtransport: empty topic")
	// ErrUnexpectedStatus 收集服务返回非 2xx 状态码
	ErrUnexpectedStatus = errors.New("xtransport: unexpected status")
	// ErrDeliveryFailed Kafka 投递报告失败
	ErrDeliveryFailed = errors.New("xtransport: delivery failed")
)
