package core

// RecommendConfig 是推荐相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultTopN 返回未指定 N 时的默认返回条数
	DefaultTopN() int

	// MaxTopN 返回调用方允许请求的最大条数（仅作校验提示，Pipeline 不截断）
	MaxTopN() int

	// DefaultSimilarK 返回相似推荐的默认条数
	DefaultSimilarK() int
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopN() int {
	return 5
}

func (c *DefaultRecommendConfig) MaxTopN() int {
	return 20
}

func (c *DefaultRecommendConfig) DefaultSimilarK() int {
	return 5
}
