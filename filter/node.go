package filter

import (
	"context"
	"strconv"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/logging"
	"github.com/rushteam/cinerec/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器返回 true，该 Item 就会被过滤掉；保留的 Item 维持输入顺序。
//
// 过滤器出错时默认记录日志并忽略该过滤器（不中断流程）；
// StopOnError 为 true 时直接返回错误。
type FilterNode struct {
	Filters     []Filter
	StopOnError bool
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	filteredCount := 0

	for _, item := range items {
		if item == nil || item.Movie == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				if n.StopOnError {
					return nil, core.WrapDomainError(core.ModuleFilter, core.ErrorCodeInvalidInput, f.Name(), err)
				}
				logging.WithComponent(core.ModuleFilter).Warn().
					Err(err).
					Str("filter", f.Name()).
					Str("title", item.Movie.Title).
					Msg("filter failed, ignored")
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			filteredCount++
			item.PutLabel(utils.LabelFiltered, utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		out = append(out, item)
	}

	if rctx != nil && filteredCount > 0 {
		rctx.PutLabel(utils.LabelFiltered, utils.Label{Value: strconv.Itoa(filteredCount), Source: n.Name()})
	}
	return out, nil
}
