package core

import (
	"math"
	"strconv"
	"strings"
)

// Movie 是清洗后的电影记录，整个推荐链路只读使用。
//
// 约束：
//   - Rating 一定是有限数值（清洗阶段已剔除缺失/非法评分）
//   - Year 缺失时为 NaN，使用 HasYear 判断，不要直接比较
//   - CombinedText 是派生字段，由 feature.Combiner 写入
type Movie struct {
	Title    string
	Genre    string // 逗号分隔的类型列表，例如 "Action, Drama"
	Overview string
	Rating   float64
	Year     float64

	CombinedText string
}

// MissingYear 返回表示年份缺失的哨兵值。
func MissingYear() float64 { return math.NaN() }

// HasYear 判断年份是否存在。
func (m *Movie) HasYear() bool {
	return m != nil && !math.IsNaN(m.Year) && !math.IsInf(m.Year, 0)
}

// YearInt 返回取整后的年份；年份缺失时返回 (0, false)。
func (m *Movie) YearInt() (int, bool) {
	if !m.HasYear() {
		return 0, false
	}
	return int(m.Year), true
}

// YearString 返回年份的文本形式：整数年份输出 "2010"，缺失时返回空串。
func (m *Movie) YearString() string {
	if !m.HasYear() {
		return ""
	}
	if m.Year == math.Trunc(m.Year) {
		return strconv.FormatInt(int64(m.Year), 10)
	}
	return strconv.FormatFloat(m.Year, 'g', -1, 64)
}

// Genres 按逗号拆分 Genre，去掉首尾空白并丢弃空 token，保留原始顺序。
func (m *Movie) Genres() []string {
	if m == nil || m.Genre == "" {
		return nil
	}
	parts := strings.Split(m.Genre, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// PrimaryGenre 返回第一个类型，没有时返回空串。
func (m *Movie) PrimaryGenre() string {
	genres := m.Genres()
	if len(genres) == 0 {
		return ""
	}
	return genres[0]
}
