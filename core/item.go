package core

import (
	"strconv"

	"github.com/rushteam/cinerec/pkg/utils"
)

// Item 是推荐链路中的统一承载结构：语料下标、分数、电影、特征、标签。
// Labels 用于解释与观测；Score 由召回/排序节点写入，语义由写入方决定
// （相似度召回写相似度，评分排序写评分）。
type Item struct {
	ID       string
	Index    int // 在语料中的下标，用作稳定的兜底排序键
	Score    float64
	Movie    *Movie
	Features map[string]float64
	Labels   map[string]utils.Label
}

// NewItem 用语料下标包装一部电影。Movie 只被引用，不会被复制或修改。
func NewItem(index int, m *Movie) *Item {
	return &Item{
		ID:       strconv.Itoa(index),
		Index:    index,
		Movie:    m,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// Rating 返回电影评分，Movie 为空时返回 0。
func (it *Item) Rating() float64 {
	if it == nil || it.Movie == nil {
		return 0
	}
	return it.Movie.Rating
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
