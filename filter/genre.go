package filter

import (
	"context"
	"strings"

	"github.com/rushteam/cinerec/core"
)

// GenreFilter 保留原始 Genre 字段中包含指定子串（不区分大小写）的电影。
// 子串为空时不过滤任何电影。
//
// 注意是子串匹配而不是按逗号切分后的精确匹配："Drama" 也会命中 "Docudrama"。
type GenreFilter struct {
	Genre string

	// FromQuery 为 true 时使用 rctx.Query.Genre
	FromQuery bool
}

// NewGenreFilter 创建一个固定子串的类型过滤器。
func NewGenreFilter(genre string) *GenreFilter {
	return &GenreFilter{Genre: genre}
}

func (f *GenreFilter) Name() string {
	return "filter.genre"
}

func (f *GenreFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	genre := f.Genre
	if f.FromQuery && rctx != nil {
		genre = rctx.Query.Genre
	}
	if genre == "" {
		return false, nil
	}
	return !MatchGenre(item.Movie.Genre, genre), nil
}

// MatchGenre 判断 field 是否包含 sub（不区分大小写）。
func MatchGenre(field, sub string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(sub))
}
