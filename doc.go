// Package cinerec 是一个基于内容的电影推荐工具包。
//
// 设计要点：
// - 一次性初始化：读取 CSV、清洗、组合文本、拟合 TF-IDF，之后 State 只读，可并发查询
// - Pipeline-first: 查询通过 Node 串联（Recall → Filter → Rank → ReRank），也可以用 YAML 描述
// - Labels-first: 每个 Item 携带召回来源、过滤原因、排序依据等 Label，便于解释
package cinerec

import (
	"context"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/dataset"
	"github.com/rushteam/cinerec/engine"
	"github.com/rushteam/cinerec/pipeline"
)

// 轻量 facade：便于用户直接 import "cinerec" 使用核心抽象。
type (
	State    = engine.State
	Options  = engine.Options
	Movie    = core.Movie
	Query    = core.Query
	Item     = core.Item
	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// DefaultOptions 返回默认初始化选项。
func DefaultOptions() Options { return engine.DefaultOptions() }

// Load 按默认列名（Movie, Genre, Overview, Rating, Year）读取 CSV 并完成初始化。
func Load(ctx context.Context, path string, opts Options) (*State, error) {
	return engine.Load(ctx, path, dataset.DefaultSchema(), opts)
}

// New 用已经清洗好的电影完成初始化。
func New(ctx context.Context, movies []*Movie, opts Options) (*State, error) {
	return engine.Initialize(ctx, movies, opts)
}
