package recall

import (
	"context"
	"sort"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/utils"
)

// Hot 是热门召回源：返回全语料评分最高的 TopK 部电影（评分相同时按语料顺序）。
// 不看请求的类型与年份，常与 Corpus/Similar 一起放进 Fanout 作兜底。
// TopK <= 0 时返回全部电影（按评分降序）。
//
// Hot 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Hot struct {
	Movies []*core.Movie
	TopK   int
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indices := make([]int, 0, len(r.Movies))
	for i, m := range r.Movies {
		if m != nil {
			indices = append(indices, i)
		}
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return r.Movies[indices[a]].Rating > r.Movies[indices[b]].Rating
	})
	if r.TopK > 0 && len(indices) > r.TopK {
		indices = indices[:r.TopK]
	}

	out := make([]*core.Item, 0, len(indices))
	for rank, i := range indices {
		it := core.NewItem(i, r.Movies[i])
		it.Score = it.Rating()
		it.Features["hot_rank"] = float64(rank + 1)
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
