package xbucket

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnits(t *testing.T) {
	tests := []struct {
		percent float64
		want    int
	}{
		{0, 0},
		{-1, 0},
		{math.NaN(), 0},
		{50, 5000},
		{20.1, 2010},
		{33.3333, 3334},
		{0.01, 1},
		{100, MaxBucket},
		{150, MaxBucket},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Units(tt.percent), "percent %v", tt.percent)
	}
}

func TestNewAllocator_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		entries []Weighted
		want    []Range
	}{
		{
			name:    "50-50",
			entries: []Weighted{{"A", 50}, {"B", 50}},
			want:    []Range{{"A", 1, 5000}, {"B", 5001, 10000}},
		},
		{
			name:    "20-80",
			entries: []Weighted{{"A", 20}, {"B", 80}},
			want:    []Range{{"A", 1, 2000}, {"B", 2001, 10000}},
		},
		{
			name:    "0-100",
			entries: []Weighted{{"A", 0}, {"B", 100}},
			want:    []Range{{"A", 1, 0}, {"B", 1, 10000}},
		},
		{
			name:    "thirds",
			entries: []Weighted{{"A", 33.3333}, {"B", 33.3333}, {"C", 33.3333}},
			want:    []Range{{"A", 1, 3334}, {"B", 3335, 6668}, {"C", 6669, 10000}},
		},
		{
			name:    "trailing zero",
			entries: []Weighted{{"A", 100}, {"B", 0}},
			want:    []Range{{"A", 1, 10000}, {"B", 10001, 10000}},
		},
		{
			name:    "ceiling closes the tail",
			entries: []Weighted{{"A", 49.998}, {"B", 49.998}, {"C", 0}},
			want:    []Range{{"A", 1, 5000}, {"B", 5001, 10000}, {"C", 10001, 10000}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAllocator(tt.entries)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Ranges())
		})
	}
}

func TestNewAllocator_Errors(t *testing.T) {
	_, err := NewAllocator(nil)
	require.ErrorIs(t, err, ErrNoEntries)

	_, err = NewAllocator([]Weighted{{"A", -1}, {"B", 101}})
	require.ErrorIs(t, err, ErrInvalidPercent)

	_, err = NewAllocator([]Weighted{{"A", math.NaN()}})
	require.ErrorIs(t, err, ErrInvalidPercent)

	_, err = NewAllocator([]Weighted{{"A", 50}, {"B", 40}})
	require.ErrorIs(t, err, ErrWeightSum)
}

func TestAllocator_Resolve(t *testing.T) {
	a, err := NewAllocator([]Weighted{{"A", 50}, {"B", 50}})
	require.NoError(t, err)

	tests := []struct {
		value int
		want  string
		ok    bool
	}{
		{1, "A", true},
		{5000, "A", true},
		{5001, "B", true},
		{10000, "B", true},
		{0, "", false},
		{10001, "", false},
	}
	for _, tt := range tests {
		got, ok := a.Resolve(tt.value)
		assert.Equal(t, tt.ok, ok, "value %d", tt.value)
		assert.Equal(t, tt.want, got, "value %d", tt.value)
	}

	var nilAlloc *Allocator
	_, ok := nilAlloc.Resolve(1)
	assert.False(t, ok)
}

func TestAllocator_ResolveSkipsEmpty(t *testing.T) {
	a, err := NewAllocator([]Weighted{{"A", 0}, {"B", 0}, {"C", 100}})
	require.NoError(t, err)
	for _, v := range []int{1, 2, 5000, 10000} {
		got, ok := a.Resolve(v)
		require.True(t, ok)
		assert.Equal(t, "C", got)
	}
}

func TestNewInclusion(t *testing.T) {
	tests := []struct {
		traffic   float64
		threshold int
	}{
		{0, 0},
		{20, 2000},
		{50, 5000},
		{20.1, 2010},
		{100, MaxBucket},
	}
	for _, tt := range tests {
		a, err := NewInclusion(tt.traffic)
		require.NoError(t, err, "traffic %v", tt.traffic)
		assert.Equal(t, tt.threshold, a.Threshold(), "traffic %v", tt.traffic)

		if tt.threshold > 0 {
			label, ok := a.Resolve(tt.threshold)
			require.True(t, ok)
			assert.Equal(t, LabelIncluded, label)
		}
		if tt.threshold < MaxBucket {
			label, ok := a.Resolve(tt.threshold + 1)
			require.True(t, ok)
			assert.Equal(t, LabelExcluded, label)
		}
	}

	_, err := NewInclusion(100.5)
	require.ErrorIs(t, err, ErrInvalidPercent)
}
