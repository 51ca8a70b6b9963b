package xsettings

import (
	"errors"
	"fmt"
	"math"

	"github.com/omeyang/xsplit/pkg/experiment/xbucket"
)

// CompiledCampaign 编译后的实验，只读。
type CompiledCampaign struct {
	key     string
	status  string
	traffic float64

	inclusion *xbucket.Allocator
	allocator *xbucket.Allocator

	variations   []Variation
	variationSet map[string]struct{}
	goals        map[string]struct{}
}

// Key 返回实验 key
func (c *CompiledCampaign) Key() string { return c.key }

// Status 返回归一化（大写）后的状态
func (c *CompiledCampaign) Status() string { return c.status }

// Running 报告实验是否处于 RUNNING 状态
func (c *CompiledCampaign) Running() bool { return c.status == StatusRunning }

// Traffic 返回流量分配百分比
func (c *CompiledCampaign) Traffic() float64 { return c.traffic }

// Threshold 返回进入实验的分桶上界，[0, 10000]
func (c *CompiledCampaign) Threshold() int { return c.inclusion.Threshold() }

// Variations 返回变体列表副本（声明顺序）
func (c *CompiledCampaign) Variations() []Variation {
	out := make([]Variation, len(c.variations))
	copy(out, c.variations)
	return out
}

// HasVariation 报告变体名是否属于该实验
func (c *CompiledCampaign) HasVariation(name string) bool {
	_, ok := c.variationSet[name]
	return ok
}

// HasGoal 报告目标标识是否属于该实验
func (c *CompiledCampaign) HasGoal(identifier string) bool {
	_, ok := c.goals[identifier]
	return ok
}

// Included 报告流量分桶值 value 是否进入实验
func (c *CompiledCampaign) Included(value int) bool {
	label, ok := c.inclusion.Resolve(value)
	return ok && label == xbucket.LabelIncluded
}

// VariationFor 返回变体分桶值 value 命中的变体名
func (c *CompiledCampaign) VariationFor(value int) (string, bool) {
	return c.allocator.Resolve(value)
}

// Snapshot 编译后的配置快照。创建后不可变，可并发读取。
type Snapshot struct {
	version   int64
	campaigns []*CompiledCampaign
	byKey     map[string]*CompiledCampaign
}

// Version 返回文档中携带的版本号
func (s *Snapshot) Version() int64 { return s.version }

// Len 返回实验数量
func (s *Snapshot) Len() int { return len(s.campaigns) }

// Campaign 按 key 查找实验（不论状态）
func (s *Snapshot) Campaign(key string) (*CompiledCampaign, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.byKey[key]
	return c, ok
}

// Campaigns 返回声明顺序的实验列表副本
func (s *Snapshot) Campaigns() []*CompiledCampaign {
	out := make([]*CompiledCampaign, len(s.campaigns))
	copy(out, s.campaigns)
	return out
}

// Validate 校验文档不变量
func (d *Document) Validate() error {
	_, err := Compile(d)
	return err
}

// Compile 校验文档并构建只读快照。
func Compile(doc *Document) (*Snapshot, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	snap := &Snapshot{
		version:   doc.Version,
		campaigns: make([]*CompiledCampaign, 0, len(doc.Campaigns)),
		byKey:     make(map[string]*CompiledCampaign, len(doc.Campaigns)),
	}
	for i := range doc.Campaigns {
		c, err := compileCampaign(&doc.Campaigns[i])
		if err != nil {
			return nil, err
		}
		if _, dup := snap.byKey[c.key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCampaign, c.key)
		}
		snap.byKey[c.key] = c
		snap.campaigns = append(snap.campaigns, c)
	}
	return snap, nil
}

func compileCampaign(src *Campaign) (*CompiledCampaign, error) {
	if src.Key == "" {
		return nil, ErrEmptyCampaignKey
	}
	if src.TrafficAllocation == nil {
		return nil, fmt.Errorf("%w: campaign %q", ErrMissingTraffic, src.Key)
	}
	traffic := *src.TrafficAllocation
	if math.IsNaN(traffic) || traffic < 0 || traffic > 100 {
		return nil, fmt.Errorf("%w: campaign %q: %v", ErrInvalidTraffic, src.Key, traffic)
	}
	if len(src.Variations) == 0 {
		return nil, fmt.Errorf("%w: campaign %q", ErrNoVariations, src.Key)
	}

	inclusion, err := xbucket.NewInclusion(traffic)
	if err != nil {
		return nil, fmt.Errorf("%w: campaign %q: %w", ErrInvalidTraffic, src.Key, err)
	}

	c := &CompiledCampaign{
		key:          src.Key,
		status:       normalizedStatus(src.Status),
		traffic:      traffic,
		inclusion:    inclusion,
		variations:   make([]Variation, len(src.Variations)),
		variationSet: make(map[string]struct{}, len(src.Variations)),
		goals:        make(map[string]struct{}, len(src.Goals)),
	}
	copy(c.variations, src.Variations)

	weights := make([]xbucket.Weighted, 0, len(src.Variations))
	for _, v := range src.Variations {
		if v.Name == "" {
			return nil, fmt.Errorf("%w: campaign %q", ErrEmptyVariationName, src.Key)
		}
		if _, dup := c.variationSet[v.Name]; dup {
			return nil, fmt.Errorf("%w: campaign %q: %q", ErrDuplicateVariation, src.Key, v.Name)
		}
		c.variationSet[v.Name] = struct{}{}
		weights = append(weights, xbucket.Weighted{Label: v.Name, Percent: v.Weight})
	}

	c.allocator, err = xbucket.NewAllocator(weights)
	if err != nil {
		if errors.Is(err, xbucket.ErrWeightSum) || errors.Is(err, xbucket.ErrInvalidPercent) {
			return nil, fmt.Errorf("%w: campaign %q: %w", ErrInvalidWeights, src.Key, err)
		}
		return nil, err
	}

	for _, g := range src.Goals {
		if g.Identifier == "" {
			return nil, fmt.Errorf("%w: campaign %q", ErrEmptyGoal, src.Key)
		}
		if _, dup := c.goals[g.Identifier]; dup {
			return nil, fmt.Errorf("%w: campaign %q: %q", ErrDuplicateGoal, src.Key, g.Identifier)
		}
		c.goals[g.Identifier] = struct{}{}
	}
	return c, nil
}
