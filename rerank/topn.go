// Package rerank 在排序结果上做截断与多样性调整。
package rerank

import (
	"context"
	"strconv"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/utils"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个物品。
//
// N 的取值顺序：
//   - TopNNode.N > 0 时使用 N
//   - 否则使用 rctx.Query.N（> 0 时）
//   - 否则使用 Config.DefaultTopN()（Config 为空时为 5）
//
// 节点只截断、不补齐，也不限制上限；1..20 的范围由调用方校验。
type TopNNode struct {
	N      int
	Config core.RecommendConfig
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.Limit(rctx)
	if len(items) <= limit {
		return items, nil
	}
	if rctx != nil {
		rctx.PutLabel(utils.LabelTruncated, utils.Label{
			Value:  strconv.Itoa(len(items) - limit),
			Source: n.Name(),
		})
	}
	return items[:limit], nil
}

// Limit 返回本次请求实际生效的 N。
func (n *TopNNode) Limit(rctx *core.RecommendContext) int {
	if n.N > 0 {
		return n.N
	}
	if rctx != nil && rctx.Query.N > 0 {
		return rctx.Query.N
	}
	cfg := n.Config
	if cfg == nil {
		cfg = &core.DefaultRecommendConfig{}
	}
	return cfg.DefaultTopN()
}
