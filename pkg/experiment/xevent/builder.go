package xevent

import (
	"time"

	"github.com/google/uuid"
)

// Option 构造器选项
type Option func(*Builder)

// WithClock 设置时钟，nil 忽略
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator 设置事件 ID 生成器，nil 忽略。默认 uuid.NewString。
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// Builder 事件构造器，创建后只读，可并发使用。
type Builder struct {
	now   func() time.Time
	newID func() string
}

// NewBuilder 创建构造器
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Activation 构造激活事件
func (b *Builder) Activation(campaignKey, userID, variation string) Event {
	return Event{
		ID:          b.newID(),
		Kind:        KindActivation,
		CampaignKey: campaignKey,
		UserID:      userID,
		Variation:   variation,
		Timestamp:   b.now().UTC(),
	}
}

// Conversion 构造转化事件
func (b *Builder) Conversion(campaignKey, userID, variation, goal string) Event {
	return Event{
		ID:          b.newID(),
		Kind:        KindConversion,
		CampaignKey: campaignKey,
		UserID:      userID,
		Variation:   variation,
		Goal:        goal,
		Timestamp:   b.now().UTC(),
	}
}
