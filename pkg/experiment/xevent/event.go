package xevent

import (
	"fmt"
	"time"
)

// Kind 事件类型
type Kind uint8

const (
	// KindActivation 激活事件
	KindActivation Kind = iota + 1
	// KindConversion 转化事件
	KindConversion
)

// String 返回类型的文本形式
func (k Kind) String() string {
	switch k {
	case KindActivation:
		return "ACTIVATION"
	case KindConversion:
		return "CONVERSION"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindActivation, KindConversion:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ACTIVATION":
		*k = KindActivation
	case "CONVERSION":
		*k = KindConversion
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, text)
	}
	return nil
}

// Event 一条上报事件。Goal 仅转化事件携带。
type Event struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	CampaignKey string    `json:"campaignKey"`
	UserID      string    `json:"userId"`
	Variation   string    `json:"variation"`
	Goal        string    `json:"goal,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// PartitionKey 返回事件的分区键 campaignKey:userID，
// 同一用户同一实验的事件落在同一分区，保持顺序。
func (e Event) PartitionKey() string {
	return e.CampaignKey + ":" + e.UserID
}
