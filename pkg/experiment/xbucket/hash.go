package xbucket

import (
	"github.com/spaolacci/murmur3"
)

const (
	// Seed murmur3 固定种子。修改会导致所有用户重新分流，不得变更。
	Seed uint32 = 1

	// MaxBucket 分桶值上限，1 个单位 = 0.01%。
	MaxBucket = 10000

	// SaltInclusion 流量分配（是否进入实验）使用的盐值
	SaltInclusion = "A"

	// SaltVariation 变体选择使用的盐值
	SaltVariation = "B"
)

// Hash 计算 key 的 32 位 murmur3 哈希。纯函数，无共享状态。
func Hash(key string) uint32 {
	return murmur3.Sum32WithSeed([]byte(key), Seed)
}

// Scale 将哈希值映射到 [1, limit]：floor(limit * h / 2^32) + 1。
// limit <= 0 时返回 0。
func Scale(h uint32, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((uint64(h)*uint64(limit))>>32) + 1
}

// BucketValue 返回 key 在 [1, limit] 内的分桶值
func BucketValue(key string, limit int) int {
	return Scale(Hash(key), limit)
}

// Bucket 返回 key 在 [1, MaxBucket] 内的分桶值
func Bucket(key string) int {
	return BucketValue(key, MaxBucket)
}

// Key 组合实验 key、用户 ID 与盐值，作为哈希输入。
func Key(campaignKey, userID, salt string) string {
	buf := make([]byte, 0, len(campaignKey)+len(userID)+len(salt)+2)
	buf = append(buf, campaignKey...)
	buf = append(buf, ':')
	buf = append(buf, userID...)
	buf = append(buf, ':')
	buf = append(buf, salt...)
	return string(buf)
}

// InclusionBucket 返回用户在实验流量分配上的分桶值
func InclusionBucket(campaignKey, userID string) int {
	return Bucket(Key(campaignKey, userID, SaltInclusion))
}

// VariationBucket 返回用户在变体选择上的分桶值
func VariationBucket(campaignKey, userID string) int {
	return Bucket(Key(campaignKey, userID, SaltVariation))
}
