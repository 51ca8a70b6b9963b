package xbucket

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// 流量分配的两个标签
const (
	LabelIncluded = "included"
	LabelExcluded = "excluded"
)

var (
	hundred   = decimal.NewFromInt(100)
	unitScale = decimal.NewFromInt(100)
)

// Weighted 带权重的标签，Percent 取值 [0, 100]
type Weighted struct {
	Label   string
	Percent float64
}

// Range 表示一个闭区间 [Start, End]。Start > End 时为空区间。
type Range struct {
	Label string
	Start int
	End   int
}

// Empty 报告区间是否为空
func (r Range) Empty() bool {
	return r.Start > r.End
}

// Contains 报告 value 是否落在区间内
func (r Range) Contains(value int) bool {
	return value >= r.Start && value <= r.End
}

// Allocator 累计权重区间分配器。创建后只读，可并发使用。
type Allocator struct {
	ranges []Range
}

// Units 将百分比换算为分桶单位：ceil(percent*100)，截断到 [0, MaxBucket]。
func Units(percent float64) int {
	if math.IsNaN(percent) || percent <= 0 {
		return 0
	}
	u := decimal.NewFromFloat(percent).Mul(unitScale).Ceil().IntPart()
	if u > MaxBucket {
		return MaxBucket
	}
	return int(u)
}

// NewAllocator 按声明顺序构建累计区间。
//
// 返回 ErrNoEntries（列表为空）、ErrInvalidPercent（权重越界）
// 或 ErrWeightSum（两位小数求和不等于 100）。
func NewAllocator(entries []Weighted) (*Allocator, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	sum := decimal.Zero
	for _, e := range entries {
		if math.IsNaN(e.Percent) || e.Percent < 0 || e.Percent > 100 {
			return nil, ErrInvalidPercent
		}
		sum = sum.Add(decimal.NewFromFloat(e.Percent))
	}
	if !sum.Round(2).Equal(hundred) {
		return nil, ErrWeightSum
	}

	ranges := make([]Range, len(entries))
	cursor := 0
	lastNonEmpty := -1
	for i, e := range entries {
		end := min(cursor+Units(e.Percent), MaxBucket)
		ranges[i] = Range{Label: e.Label, Start: cursor + 1, End: end}
		if !ranges[i].Empty() {
			lastNonEmpty = i
		}
		cursor = end
	}

	// 舍入留下的尾部空隙归入最后一个非空区间
	if cursor < MaxBucket && lastNonEmpty >= 0 {
		ranges[lastNonEmpty].End = MaxBucket
		for i := lastNonEmpty + 1; i < len(ranges); i++ {
			ranges[i].Start, ranges[i].End = MaxBucket+1, MaxBucket
		}
	}

	return &Allocator{ranges: ranges}, nil
}

// NewInclusion 构建流量分配：[1, traffic*100] 进入实验，其余排除。
func NewInclusion(traffic float64) (*Allocator, error) {
	if math.IsNaN(traffic) || traffic < 0 || traffic > 100 {
		return nil, ErrInvalidPercent
	}
	excluded, _ := hundred.Sub(decimal.NewFromFloat(traffic)).Float64()
	return NewAllocator([]Weighted{
		{Label: LabelIncluded, Percent: traffic},
		{Label: LabelExcluded, Percent: excluded},
	})
}

// Resolve 返回 value 所在区间的标签。value 不在 [1, MaxBucket] 时返回 false。
func (a *Allocator) Resolve(value int) (string, bool) {
	if a == nil || value < 1 || value > MaxBucket {
		return "", false
	}
	i := sort.Search(len(a.ranges), func(i int) bool {
		return a.ranges[i].End >= value
	})
	for ; i < len(a.ranges); i++ {
		if a.ranges[i].Contains(value) {
			return a.ranges[i].Label, true
		}
	}
	return "", false
}

// Ranges 返回区间副本
func (a *Allocator) Ranges() []Range {
	if a == nil {
		return nil
	}
	out := make([]Range, len(a.ranges))
	copy(out, a.ranges)
	return out
}

// Threshold 返回流量分配器中进入实验区间的上界（0 表示无人进入）。
// 仅对 NewInclusion 创建的分配器有意义。
func (a *Allocator) Threshold() int {
	if a == nil || len(a.ranges) == 0 || a.ranges[0].Empty() {
		return 0
	}
	return a.ranges[0].End
}
