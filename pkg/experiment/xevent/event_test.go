package xevent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuilder_Activation(t *testing.T) {
	b := NewBuilder(
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string { return "evt-1" }),
	)
	e := b.Activation("home-cta", "u1", "control")

	assert.Equal(t, Event{
		ID:          "evt-1",
		Kind:        KindActivation,
		CampaignKey: "home-cta",
		UserID:      "u1",
		Variation:   "control",
		Timestamp:   fixed,
	}, e)
	assert.Equal(t, "home-cta:u1", e.PartitionKey())
}

func TestBuilder_Conversion(t *testing.T) {
	b := NewBuilder(WithClock(func() time.Time { return fixed }))
	e := b.Conversion("home-cta", "u1", "control", "signup")

	assert.Equal(t, KindConversion, e.Kind)
	assert.Equal(t, "signup", e.Goal)
	assert.Equal(t, fixed, e.Timestamp)
	_, err := uuid.Parse(e.ID)
	assert.NoError(t, err)
}

func TestBuilder_Defaults(t *testing.T) {
	b := NewBuilder(WithClock(nil), WithIDGenerator(nil))
	before := time.Now()
	e1 := b.Activation("k", "u", "v")
	e2 := b.Activation("k", "u", "v")

	assert.NotEqual(t, e1.ID, e2.ID)
	assert.False(t, e1.Timestamp.Before(before.UTC().Add(-time.Second)))
	assert.Equal(t, time.UTC, e1.Timestamp.Location())
}

func TestBuilder_StampsUTC(t *testing.T) {
	local := time.Date(2026, 3, 1, 20, 0, 0, 0, time.FixedZone("CST", 8*3600))
	b := NewBuilder(WithClock(func() time.Time { return local }))
	assert.True(t, b.Activation("k", "u", "v").Timestamp.Equal(local))
	assert.Equal(t, time.UTC, b.Activation("k", "u", "v").Timestamp.Location())
}

func TestKind_Text(t *testing.T) {
	tests := []struct {
		kind Kind
		text string
	}{
		{KindActivation, "ACTIVATION"},
		{KindConversion, "CONVERSION"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := tt.kind.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.text, string(got))

			var k Kind
			require.NoError(t, k.UnmarshalText([]byte(tt.text)))
			assert.Equal(t, tt.kind, k)
		})
	}

	_, err := Kind(0).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownKind)

	var k Kind
	assert.ErrorIs(t, k.UnmarshalText([]byte("CLICK")), ErrUnknownKind)
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestEvent_JSON(t *testing.T) {
	b := NewBuilder(
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string { return "evt-1" }),
	)

	data, err := json.Marshal(b.Activation("home-cta", "u1", "control"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "evt-1",
		"kind": "ACTIVATION",
		"campaignKey": "home-cta",
		"userId": "u1",
		"variation": "control",
		"timestamp": "2026-03-01T12:00:00Z"
	}`, string(data))

	data, err = json.Marshal(b.Conversion("home-cta", "u1", "control", "signup"))
	require.NoError(t, err)
	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, KindConversion, decoded.Kind)
	assert.Equal(t, "signup", decoded.Goal)
}
