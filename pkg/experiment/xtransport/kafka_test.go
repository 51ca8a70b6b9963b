package xtransport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xsplit/pkg/experiment/xevent"
	"github.com/omeyang/xsplit/pkg/resilience/xretry"
)

// fakeProducer 同步回写投递报告
type fakeProducer struct {
	mu          sync.Mutex
	messages    []*kafka.Message
	produceErr  error
	deliveryErr error
	silent      bool
}

func (p *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if p.produceErr != nil {
		return p.produceErr
	}
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()
	if p.silent {
		return nil
	}
	report := *msg
	report.TopicPartition.Error = p.deliveryErr
	deliveryChan <- &report
	return nil
}

func TestNewKafka_Validation(t *testing.T) {
	_, err := NewKafka(nil, "events")
	assert.ErrorIs(t, err, ErrNilProducer)
	_, err = NewKafka(&fakeProducer{}, "")
	assert.ErrorIs(t, err, ErrEmptyTopic)
}

func TestKafka_Send(t *testing.T) {
	p := &fakeProducer{}
	k, err := NewKafka(p, "xsplit-events")
	require.NoError(t, err)

	events := sampleEvents()
	require.NoError(t, k.Send(context.Background(), events))

	require.Len(t, p.messages, 2)
	for i, msg := range p.messages {
		assert.Equal(t, "xsplit-events", *msg.TopicPartition.Topic)
		assert.Equal(t, kafka.PartitionAny, msg.TopicPartition.Partition)
		assert.Equal(t, "checkout:u1", string(msg.Key))
		require.Len(t, msg.Headers, 1)
		assert.Equal(t, HeaderEventKind, msg.Headers[0].Key)
		assert.Equal(t, events[i].Kind.String(), string(msg.Headers[0].Value))

		var decoded xevent.Event
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, events[i].ID, decoded.ID)
		assert.Equal(t, events[i].Kind, decoded.Kind)
	}
}

func TestKafka_ProduceError(t *testing.T) {
	k, err := NewKafka(&fakeProducer{produceErr: errors.New("queue full")}, "t")
	require.NoError(t, err)
	err = k.Send(context.Background(), sampleEvents())
	require.Error(t, err)
	assert.False(t, xretry.IsPermanent(err))
}

func TestKafka_DeliveryError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"transient", kafka.NewError(kafka.ErrMsgTimedOut, "timed out", false), false},
		{"fatal", kafka.NewError(kafka.ErrFatal, "fenced", true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKafka(&fakeProducer{deliveryErr: tt.err}, "t")
			require.NoError(t, err)
			err = k.Send(context.Background(), sampleEvents())
			require.ErrorIs(t, err, ErrDeliveryFailed)
			assert.Equal(t, tt.permanent, xretry.IsPermanent(err))
		})
	}
}

func TestKafka_ContextCanceledWhileWaiting(t *testing.T) {
	k, err := NewKafka(&fakeProducer{silent: true}, "t")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, k.Send(ctx, sampleEvents()), context.DeadlineExceeded)
}

func TestKafka_EmptyBatch(t *testing.T) {
	p := &fakeProducer{}
	k, err := NewKafka(p, "t")
	require.NoError(t, err)
	require.NoError(t, k.Send(context.Background(), nil))
	assert.Empty(t, p.messages)
}
