package core

// SimilarityIndex 是"相似电影"检索的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（vector.Matrix）实现
//   - recall 只依赖此接口，不感知 TF-IDF 细节
//
// 约定：
//   - 下标与语料顺序一致
//   - 零向量（空文本或全是停用词）与任何电影的相似度均为 0，包括自身
type SimilarityIndex interface {
	// Len 返回索引中的文档数
	Len() int

	// Cosine 返回两个文档的余弦相似度
	Cosine(i, j int) float64

	// MostSimilar 返回与 index 最相似的 k 个其他文档（不含自身，相似度为 0 的不返回）
	MostSimilar(index, k int) []Neighbor
}

// Neighbor 是相似检索的一条结果。
type Neighbor struct {
	Index int
	Score float64
}
