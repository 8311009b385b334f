// Package rank 对候选 Item 打分并排序。
package rank

import (
	"context"
	"sort"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/utils"
)

// RatingNode 按电影评分降序排序，评分相同时按语料顺序（Index 升序）。
// - 写入 labels：rank_by = rating
// - 更新 item.Score 为评分
//
// KeepScore 为 true 时不覆盖上游写入的 Score（例如相似度），只按评分排序。
type RatingNode struct {
	KeepScore bool
}

func (n *RatingNode) Name() string        { return "rank.rating" }
func (n *RatingNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RatingNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		if !n.KeepScore {
			it.Score = it.Rating()
		}
		if it.Features == nil {
			it.Features = make(map[string]float64)
		}
		it.Features["rating"] = it.Rating()
		it.PutLabel(utils.LabelRankBy, utils.Label{Value: "rating", Source: "rank"})
	}

	SortBy(items, func(it *core.Item) float64 { return it.Rating() })
	return items, nil
}

// ScoreNode 按 item.Score 降序排序，分数相同时按语料顺序。
// 用于相似召回之后保持"相似度优先"的顺序。
type ScoreNode struct{}

func (n *ScoreNode) Name() string        { return "rank.score" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it != nil {
			it.PutLabel(utils.LabelRankBy, utils.Label{Value: "score", Source: "rank"})
		}
	}
	SortBy(items, func(it *core.Item) float64 { return it.Score })
	return items, nil
}

// SortBy 按 key 降序原地稳定排序，key 相同时 Index 小的在前；nil 排在最后。
func SortBy(items []*core.Item, key func(*core.Item) float64) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		ka, kb := key(a), key(b)
		if ka != kb {
			return ka > kb
		}
		return a.Index < b.Index
	})
}
