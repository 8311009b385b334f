package utils

import "strings"

// Label 是推荐链路中的解释记录：哪个节点、出于什么原因处理了这个 Item。
// Value 与 Source 的语义由写入方决定；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank ...
}

// 链路中使用的 Label key。
const (
	LabelRecallSource = "recall_source" // 召回来源：corpus / similar / hot
	LabelSeed         = "seed"          // 相似推荐的种子电影
	LabelFiltered     = "filtered"      // 被过滤的原因（过滤器名称）
	LabelRankBy       = "rank_by"       // 排序依据：rating / similarity
	LabelTruncated    = "truncated"     // TopN 截断信息
)

// MergeLabel 用于合并同名 Label，遵循"保留历史、可追踪"的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积，相同来源不重复
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "" || containsSource(existing.Source, incoming.Source):
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

func containsSource(sources, s string) bool {
	for _, src := range strings.Split(sources, ",") {
		if src == s {
			return true
		}
	}
	return false
}
