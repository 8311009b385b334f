package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/logging"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链，按顺序执行。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行所有 Node。任一 Node 出错即中止并返回包装后的错误；
// 每个 Node 的输入输出数量在 debug 级别记录。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	requestID := ""
	if rctx != nil {
		requestID = rctx.RequestID
	}
	logger := logging.WithRequest(core.ModulePipeline, requestID)

	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		logger.Debug().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", len(cur)).
			Int("out", len(next)).
			Dur("elapsed", time.Since(start)).
			Msg("node processed")
		cur = next
	}
	if cur == nil {
		cur = []*core.Item{}
	}
	return cur, nil
}
