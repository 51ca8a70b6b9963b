package xtransport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/omeyang/xsplit/pkg/experiment/xevent"
	"github.com/omeyang/xsplit/pkg/resilience/xretry"
)

// HeaderEventKind 消息头，值为 ACTIVATION 或 CONVERSION
const HeaderEventKind = "x-event-kind"

// Producer Kafka 生产者的最小接口，*kafka.Producer 满足此接口
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

// Kafka 每个事件一条消息，等待全部投递报告
type Kafka struct {
	producer Producer
	topic    string
}

// NewKafka 创建 Kafka 传输。producer 的生命周期由调用方管理。
func NewKafka(producer Producer, topic string) (*Kafka, error) {
	if producer == nil {
		return nil, ErrNilProducer
	}
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	return &Kafka{producer: producer, topic: topic}, nil
}

// Send 发送一批事件。任一事件投递失败即返回错误，重试时整批重发。
func (k *Kafka) Send(ctx context.Context, events []xevent.Event) error {
	if len(events) == 0 {
		return nil
	}

	// 缓冲容量等于批大小，ctx 取消后投递报告不会阻塞 producer
	deliveryChan := make(chan kafka.Event, len(events))
	produced := 0
	for _, e := range events {
		msg, err := k.message(e)
		if err != nil {
			return xretry.NewPermanentError(err)
		}
		if err := k.producer.Produce(msg, deliveryChan); err != nil {
			return classify(fmt.Errorf("xtransport: kafka produce: %w", err))
		}
		produced++
	}

	for range produced {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-deliveryChan:
			if err := deliveryError(ev); err != nil {
				return classify(fmt.Errorf("%w: %w", ErrDeliveryFailed, err))
			}
		}
	}
	return nil
}

func (k *Kafka) message(e xevent.Event) (*kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("xtransport: encode event: %w", err)
	}
	topic := k.topic
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(e.PartitionKey()),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventKind, Value: []byte(e.Kind.String())},
		},
	}, nil
}

func deliveryError(ev kafka.Event) error {
	switch m := ev.(type) {
	case *kafka.Message:
		return m.TopicPartition.Error
	case kafka.Error:
		return m
	default:
		return nil
	}
}

// classify 致命的 Kafka 错误不再重试
func classify(err error) error {
	var kerr kafka.Error
	if errors.As(err, &kerr) && kerr.IsFatal() {
		return xretry.NewPermanentError(err)
	}
	return err
}
