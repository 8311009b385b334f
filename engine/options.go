package engine

import (
	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/feature"
	"github.com/rushteam/cinerec/vector"
)

// Options 控制初始化与查询的默认行为。
type Options struct {
	// YearPolicy 决定缺失年份在组合文本中的写法，默认 omit
	YearPolicy feature.YearPolicy

	// Vectorizer 是 TF-IDF 选项
	Vectorizer vector.Options

	// Recommend 提供 Top-N 默认值与上限，为空时使用 core.DefaultRecommendConfig
	Recommend core.RecommendConfig

	// Workers 是计算两两相似度矩阵的并发数，<= 0 时为 GOMAXPROCS
	Workers int

	// Precompute 为 true 时在初始化阶段就计算完整的相似度矩阵
	Precompute bool
}

// DefaultOptions 返回默认选项。
func DefaultOptions() Options {
	return Options{
		YearPolicy: feature.YearOmit,
		Vectorizer: vector.DefaultOptions(),
		Recommend:  &core.DefaultRecommendConfig{},
	}
}

func (o Options) withDefaults() Options {
	if o.YearPolicy == "" {
		o.YearPolicy = feature.YearOmit
	}
	if o.Recommend == nil {
		o.Recommend = &core.DefaultRecommendConfig{}
	}
	if o.Vectorizer.MinTokenLen <= 0 {
		o.Vectorizer.MinTokenLen = vector.DefaultOptions().MinTokenLen
	}
	return o
}
