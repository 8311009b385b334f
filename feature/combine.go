// Package feature 负责从电影记录派生文本特征：
// 组合 Genre/Overview/Year 为单一文档，以及构建类型索引。
package feature

import (
	"fmt"
	"strings"

	"github.com/rushteam/cinerec/core"
)

// YearPolicy 决定年份缺失时组合文本里写什么。
type YearPolicy string

const (
	// YearOmit 年份缺失时不输出任何年份文本（默认）
	YearOmit YearPolicy = "omit"
	// YearUnknown 年份缺失时输出 "unknown"
	YearUnknown YearPolicy = "unknown"
	// YearNaN 年份缺失时输出 "nan"，与把缺失值直接转成字符串的旧数据兼容
	YearNaN YearPolicy = "nan"
)

// ParseYearPolicy 解析配置中的策略名，空串视为 YearOmit。
func ParseYearPolicy(s string) (YearPolicy, error) {
	switch p := YearPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return YearOmit, nil
	case YearOmit, YearUnknown, YearNaN:
		return p, nil
	default:
		return "", core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			fmt.Sprintf("feature: unknown year policy %q (supported: omit, unknown, nan)", s))
	}
}

// yearText 返回年份在组合文本中的形式。
func (p YearPolicy) yearText(m *core.Movie) string {
	if m.HasYear() {
		return m.YearString()
	}
	switch p {
	case YearUnknown:
		return "unknown"
	case YearNaN:
		return "nan"
	default:
		return ""
	}
}

// Combine 返回 genre + " " + overview + " " + year。
// 纯函数：相同输入总是得到相同输出，不修改 m。
func Combine(m *core.Movie, policy YearPolicy) string {
	if m == nil {
		return ""
	}
	year := policy.yearText(m)
	if year == "" {
		return m.Genre + " " + m.Overview
	}
	return m.Genre + " " + m.Overview + " " + year
}

// Combiner 批量写入 Movie.CombinedText。
type Combiner struct {
	Policy YearPolicy
}

// Apply 原地为每部电影写入 CombinedText，并按语料顺序返回全部文档，供 vector.Fit 使用。
// 会修改传入的 Movie；需要保留调用方数据时先复制（engine.Initialize 即如此）。
func (c *Combiner) Apply(movies []*core.Movie) []string {
	policy := c.Policy
	if policy == "" {
		policy = YearOmit
	}
	docs := make([]string, len(movies))
	for i, m := range movies {
		if m == nil {
			continue
		}
		m.CombinedText = Combine(m, policy)
		docs[i] = m.CombinedText
	}
	return docs
}
