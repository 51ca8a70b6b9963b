package xsettings

import "strings"

// StatusRunning 唯一参与分流的实验状态
const StatusRunning = "RUNNING"

// Document 对应外部传入的实验配置文档
type Document struct {
	Version   int64      `koanf:"version" json:"version,omitempty"`
	Campaigns []Campaign `koanf:"campaigns" json:"campaigns"`
}

// Campaign 一个实验
type Campaign struct {
	Key    string `koanf:"key" json:"key"`
	Status string `koanf:"status" json:"status,omitempty"`

	// TrafficAllocation 进入实验的流量百分比，[0, 100]，两位小数精度。
	// 为指针以区分“缺失”与“0”。
	TrafficAllocation *float64 `koanf:"trafficAllocation" json:"trafficAllocation"`

	Variations []Variation `koanf:"variations" json:"variations"`
	Goals      []Goal      `koanf:"goals" json:"goals,omitempty"`
}

// Variation 实验的一个变体
type Variation struct {
	Name   string  `koanf:"name" json:"name"`
	Weight float64 `koanf:"weight" json:"weight"`
}

// Goal 实验的一个转化目标
type Goal struct {
	Identifier string `koanf:"identifier" json:"identifier"`
}

// normalizedStatus 空状态视为 RUNNING
func normalizedStatus(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return StatusRunning
	}
	return s
}

// Traffic 返回 trafficAllocation 的值，缺失时返回 0
func (c Campaign) Traffic() float64 {
	if c.TrafficAllocation == nil {
		return 0
	}
	return *c.TrafficAllocation
}

// Percent 构造 TrafficAllocation 字段值
func Percent(v float64) *float64 {
	return &v
}
