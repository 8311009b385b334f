package filter

import (
	"context"

	"github.com/rushteam/cinerec/core"
)

// YearRangeFilter 保留年份在 [From, To] 闭区间内的电影；没有年份的电影一律过滤。
// From > To 时区间为空，所有电影都被过滤。
type YearRangeFilter struct {
	From int
	To   int

	// FromQuery 为 true 时使用 rctx.Query.YearFrom / YearTo
	FromQuery bool
}

// NewYearRangeFilter 创建一个固定区间的年份过滤器。
func NewYearRangeFilter(from, to int) *YearRangeFilter {
	return &YearRangeFilter{From: from, To: to}
}

func (f *YearRangeFilter) Name() string {
	return "filter.year_range"
}

func (f *YearRangeFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	lo, hi := f.From, f.To
	if f.FromQuery && rctx != nil {
		lo, hi = rctx.Query.YearFrom, rctx.Query.YearTo
	}
	m := item.Movie
	if lo > hi || !m.HasYear() {
		return true, nil
	}
	return m.Year < float64(lo) || m.Year > float64(hi), nil
}
