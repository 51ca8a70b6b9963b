package xbucket

import "errors"

// 区间分配相关错误
var (
	// ErrNoEntries 表示权重列表为空
	ErrNoEntries = errors.New("xbucket: at least one weighted entry is required")

	// ErrInvalidPercent 表示权重不在 [0, 100] 范围内或为 NaN
	ErrInvalidPercent = errors.New("xbucket: percent must be in [0, 100]")

	// ErrWeightSum 表示权重之和（两位小数）不等于 100
	ErrWeightSum = errors.New("xbucket: weights must sum to 100")
)
