package xprofile

import "context"

// Service 用户分桶结果存储
type Service interface {
	// Lookup 查询用户在实验中保存的变体，不存在时 ok 为 false
	Lookup(ctx context.Context, userID, campaignKey string) (variation string, ok bool, err error)
	// Save 保存用户在实验中的变体
	Save(ctx context.Context, userID, campaignKey, variation string) error
}

func validKey(userID, campaignKey string) error {
	if userID == "" || campaignKey == "" {
		return ErrEmptyKey
	}
	return nil
}
