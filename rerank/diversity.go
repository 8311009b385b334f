package rerank

import (
	"context"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
)

// Diversity 是按类别打散的 ReRank：同一类别最多保留 MaxPerGenre 部（默认 1），
// 保持输入顺序。类别来源优先级：
// - label[LabelKey].Value（LabelKey 非空时）
// - 电影的第一个类型（Movie.PrimaryGenre）
//
// 取不到类别的 Item 原样保留。
type Diversity struct {
	LabelKey    string
	MaxPerGenre int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	limit := n.MaxPerGenre
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		cate := n.category(it)
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= limit {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}

	return out, nil
}

func (n *Diversity) category(it *core.Item) string {
	if n.LabelKey != "" && it.Labels != nil {
		if lbl, ok := it.Labels[n.LabelKey]; ok && lbl.Value != "" {
			return lbl.Value
		}
	}
	if it.Movie != nil {
		return it.Movie.PrimaryGenre()
	}
	return ""
}
