package xbucket

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_Deterministic(t *testing.T) {
	for _, key := range []string{"", "a", "campaign:user-1:A", "日本語"} {
		first := Hash(key)
		for i := 0; i < 100; i++ {
			require.Equal(t, first, Hash(key), "key %q", key)
		}
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name  string
		h     uint32
		limit int
		want  int
	}{
		{"zero hash", 0, MaxBucket, 1},
		{"max hash", math.MaxUint32, MaxBucket, MaxBucket},
		{"half", 1 << 31, MaxBucket, 5001},
		{"just below half", 1<<31 - 1, MaxBucket, 5000},
		{"limit 100", 1 << 31, 100, 51},
		{"zero limit", 12345, 0, 0},
		{"negative limit", 12345, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scale(tt.h, tt.limit))
		})
	}
}

func TestBucket_Range(t *testing.T) {
	for i := 0; i < 10000; i++ {
		v := Bucket(fmt.Sprintf("user-%d", i))
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, MaxBucket)
	}
}

func TestBucket_Uniform(t *testing.T) {
	const samples = 20000
	var deciles [10]int
	for i := 0; i < samples; i++ {
		v := Bucket(Key("uniform", fmt.Sprintf("user-%d", i), SaltVariation))
		deciles[(v-1)/1000]++
	}
	for i, n := range deciles {
		share := float64(n) / samples
		assert.InDelta(t, 0.1, share, 0.02, "decile %d", i)
	}
}

func TestKey_SaltsDiffer(t *testing.T) {
	assert.Equal(t, "c:u:A", Key("c", "u", SaltInclusion))
	assert.NotEqual(t, Key("c", "u", SaltInclusion), Key("c", "u", SaltVariation))

	// 两个子决策不应完全相关
	same := 0
	for i := 0; i < 1000; i++ {
		u := fmt.Sprintf("user-%d", i)
		if (InclusionBucket("c", u) <= 5000) == (VariationBucket("c", u) <= 5000) {
			same++
		}
	}
	assert.InDelta(t, 500, same, 100)
}
