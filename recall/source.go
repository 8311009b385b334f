package recall

import (
	"context"

	"github.com/rushteam/cinerec/core"
)

// Source 表示一个可复用的召回源（全量语料 / 相似电影 / ...）。
// 可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
