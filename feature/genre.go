package feature

import (
	"sort"

	"github.com/rushteam/cinerec/core"
)

// GenreIndex 返回全部电影中出现过的类型，去重后按字典序排列。
// 每个 Genre 字段按逗号拆分并去掉首尾空白；空 token 不计入。
func GenreIndex(movies []*core.Movie) []string {
	seen := make(map[string]struct{}, 32)
	for _, m := range movies {
		for _, g := range m.Genres() {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
