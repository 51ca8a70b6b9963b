package xmetrics

// 常用属性 key
const (
	AttrCampaign  = "campaign"
	AttrVariation = "variation"
	AttrGoal      = "goal"
	AttrBatchSize = "batch_size"
	AttrAttempts  = "attempts"
)

// String 字符串属性
func String(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Bool 布尔属性
func Bool(key string, value bool) Attr {
	return Attr{Key: key, Value: value}
}

// Int 整数属性
func Int(key string, value int) Attr {
	return Attr{Key: key, Value: value}
}

// Int64 int64 属性
func Int64(key string, value int64) Attr {
	return Attr{Key: key, Value: value}
}
