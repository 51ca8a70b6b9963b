package xsettings

import "errors"

// 文档校验错误
var (
	// ErrNilDocument 表示配置文档为空
	ErrNilDocument = errors.New("xsettings: nil document")

	// ErrEmptyCampaignKey 表示实验 key 为空
	ErrEmptyCampaignKey = errors.New("xsettings: empty campaign key")

	// ErrDuplicateCampaign 表示实验 key 重复
	ErrDuplicateCampaign = errors.New("xsettings: duplicate campaign key")

	// ErrMissingTraffic 表示缺少 trafficAllocation
	ErrMissingTraffic = errors.New("xsettings: missing traffic allocation")

	// ErrInvalidTraffic 表示 trafficAllocation 不在 [0, 100]
	ErrInvalidTraffic = errors.New("xsettings: traffic allocation must be in [0, 100]")

	// ErrNoVariations 表示实验没有任何变体
	ErrNoVariations = errors.New("xsettings: campaign has no variations")

	// ErrEmptyVariationName 表示变体名为空
	ErrEmptyVariationName = errors.New("xsettings: empty variation name")

	// ErrDuplicateVariation 表示变体名重复
	ErrDuplicateVariation = errors.New("xsettings: duplicate variation name")

	// ErrInvalidWeights 表示变体权重越界或求和不等于 100
	ErrInvalidWeights = errors.New("xsettings: invalid variation weights")

	// ErrEmptyGoal 表示目标标识为空
	ErrEmptyGoal = errors.New("xsettings: empty goal identifier")

	// ErrDuplicateGoal 表示目标标识重复
	ErrDuplicateGoal = errors.New("xsettings: duplicate goal identifier")
)

// 加载与解析错误
var (
	// ErrEmptyPath 表示配置文件路径为空
	ErrEmptyPath = errors.New("xsettings: empty settings path")

	// ErrUnsupportedFormat 表示不支持的文档格式
	ErrUnsupportedFormat = errors.New("xsettings: unsupported settings format")

	// ErrLoadFailed 表示读取配置失败
	ErrLoadFailed = errors.New("xsettings: failed to load settings")

	// ErrParseFailed 表示解析配置失败
	ErrParseFailed = errors.New("xsettings: failed to parse settings")

	// ErrUnmarshalFailed 表示反序列化配置失败
	ErrUnmarshalFailed = errors.New("xsettings: failed to unmarshal settings")
)
