package core

import (
	"github.com/google/uuid"

	"github.com/rushteam/cinerec/pkg/utils"
)

// Query 是一次"按类型 + 年份筛选"推荐请求的参数。
//
// N 的上限（默认 20）由调用方校验，Pipeline 只把它当作建议值：
// N <= 0 时回退到 RecommendConfig.DefaultTopN。
// 年份区间按字面理解（闭区间）；AllYears 为 true 时忽略 YearFrom/YearTo，使用语料中的全部年份。
type Query struct {
	Genre    string `json:"genre"`
	YearFrom int    `json:"year_from" validate:"gte=0"`
	YearTo   int    `json:"year_to" validate:"gtefield=YearFrom"`
	N        int    `json:"n" validate:"min=1"`

	// Expr 是可选的 CEL 过滤表达式，例如 `item.rating >= 8.0`
	Expr string `json:"expr,omitempty"`

	// Diverse 为 true 时每个主类型最多返回一部
	Diverse bool `json:"diverse,omitempty"`

	// AllYears 为 true 时年份区间取语料的最小/最大年份
	AllYears bool `json:"all_years,omitempty"`
}

// RecommendContext 承载请求级信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// RequestID 用于日志关联
	RequestID string

	Query Query

	// SeedIndex 是"相似推荐"的种子电影下标，-1 表示没有种子
	SeedIndex int

	// Labels 是请求级标签
	Labels map[string]utils.Label

	// Params 请求级扩展参数
	Params map[string]any
}

// NewRecommendContext 创建请求上下文并分配 RequestID。
func NewRecommendContext(q Query) *RecommendContext {
	return &RecommendContext{
		RequestID: uuid.NewString(),
		Query:     q,
		SeedIndex: -1,
		Labels:    make(map[string]utils.Label),
		Params:    make(map[string]any),
	}
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// HasSeed 判断是否设置了种子电影。
func (rctx *RecommendContext) HasSeed() bool {
	return rctx != nil && rctx.SeedIndex >= 0
}
