package recall

import (
	"context"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/utils"
)

// Corpus 是全量召回源：按语料顺序把每部电影包装为一个 Item。
// 属性筛选（类型 + 年份）从这里开始，后续交给 Filter 收窄。
//
// Corpus 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Corpus struct {
	Movies []*core.Movie
}

func (r *Corpus) Name() string        { return "recall.corpus" }
func (r *Corpus) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Corpus) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Corpus) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*core.Item, 0, len(r.Movies))
	for i, m := range r.Movies {
		if m == nil {
			continue
		}
		it := core.NewItem(i, m)
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
