package filter

import (
	"context"
	"strings"

	"github.com/rushteam/cinerec/core"
)

// ExcludeFilter 是排除列表过滤器：按标题（不区分大小写）或语料下标排除电影，
// ExcludeSeed 为 true 时同时排除 rctx.SeedIndex 指向的种子电影。
type ExcludeFilter struct {
	Titles      []string
	Indices     []int
	ExcludeSeed bool
}

// NewExcludeFilter 创建一个排除列表过滤器。
func NewExcludeFilter(titles []string, indices []int, excludeSeed bool) *ExcludeFilter {
	return &ExcludeFilter{
		Titles:      titles,
		Indices:     indices,
		ExcludeSeed: excludeSeed,
	}
}

func (f *ExcludeFilter) Name() string {
	return "filter.exclude"
}

func (f *ExcludeFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.ExcludeSeed && rctx.HasSeed() && item.Index == rctx.SeedIndex {
		return true, nil
	}
	for _, i := range f.Indices {
		if item.Index == i {
			return true, nil
		}
	}
	for _, t := range f.Titles {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(item.Movie.Title)) {
			return true, nil
		}
	}
	return false, nil
}
