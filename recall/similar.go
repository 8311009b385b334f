package recall

import (
	"context"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/utils"
)

// Similar 是基于内容的相似召回源：以 rctx.SeedIndex 指向的电影为种子，
// 从 SimilarityIndex 取相似度最高的 TopK 部其他电影。
//
// Item.Score 写入余弦相似度，结果按相似度降序（相同时按语料顺序）。
// 没有种子或种子为零向量时返回空结果，不报错。
type Similar struct {
	Index  core.SimilarityIndex
	Movies []*core.Movie

	// TopK 召回数量，<= 0 时返回全部相似度大于 0 的电影
	TopK int
}

func (r *Similar) Name() string        { return "recall.similar" }
func (r *Similar) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Similar) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Similar) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Index == nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, "recall.similar: similarity index not built")
	}
	if !rctx.HasSeed() {
		return nil, nil
	}
	seed := rctx.SeedIndex
	if seed >= len(r.Movies) || seed >= r.Index.Len() {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeNotFound, "recall.similar: seed out of range")
	}

	seedTitle := r.Movies[seed].Title
	neighbors := r.Index.MostSimilar(seed, r.TopK)
	out := make([]*core.Item, 0, len(neighbors))
	for _, nb := range neighbors {
		if nb.Index < 0 || nb.Index >= len(r.Movies) {
			continue
		}
		it := core.NewItem(nb.Index, r.Movies[nb.Index])
		it.Score = nb.Score
		it.Features["similarity"] = nb.Score
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: r.Name(), Source: "recall"})
		it.PutLabel(utils.LabelSeed, utils.Label{Value: seedTitle, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
