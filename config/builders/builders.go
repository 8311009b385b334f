// Package builders 在 init 中把内置 Node 注册到 config 注册表。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/cinerec/config"
	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/filter"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/conv"
	"github.com/rushteam/cinerec/rank"
	"github.com/rushteam/cinerec/recall"
	"github.com/rushteam/cinerec/rerank"
)

func init() {
	config.Register("recall.corpus", BuildCorpusNode)
	config.Register("recall.similar", BuildSimilarNode)
	config.Register("recall.hot", BuildHotNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.rating", BuildRatingNode)
	config.Register("rank.score", BuildScoreNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

func BuildCorpusNode(_ map[string]any, env *pipeline.Env) (pipeline.Node, error) {
	return newCorpus(env)
}

func BuildSimilarNode(cfg map[string]any, env *pipeline.Env) (pipeline.Node, error) {
	return newSimilar(cfg, env)
}

func BuildHotNode(cfg map[string]any, env *pipeline.Env) (pipeline.Node, error) {
	return newHot(cfg, env)
}

func newCorpus(env *pipeline.Env) (*recall.Corpus, error) {
	if len(env.Corpus) == 0 {
		return nil, fmt.Errorf("recall.corpus: corpus not provided")
	}
	return &recall.Corpus{Movies: env.Corpus}, nil
}

func newSimilar(cfg map[string]any, env *pipeline.Env) (*recall.Similar, error) {
	if env.Index == nil {
		return nil, fmt.Errorf("recall.similar: similarity index not provided")
	}
	return &recall.Similar{
		Index:  env.Index,
		Movies: env.Corpus,
		TopK:   conv.ConfigGetInt(cfg, "top_k", 0),
	}, nil
}

func newHot(cfg map[string]any, env *pipeline.Env) (*recall.Hot, error) {
	if len(env.Corpus) == 0 {
		return nil, fmt.Errorf("recall.hot: corpus not provided")
	}
	return &recall.Hot{
		Movies: env.Corpus,
		TopK:   conv.ConfigGetInt(cfg, "top_k", 0),
	}, nil
}

func BuildFanoutNode(cfg map[string]any, env *pipeline.Env) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet(sourceMap, "type", ""); sourceType {
		case "corpus":
			src, err := newCorpus(env)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		case "hot":
			src, err := newHot(sourceMap, env)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		case "similar":
			src, err := newSimilar(sourceMap, env)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{Sources: sources}
	if ms := conv.ConfigGetInt(cfg, "timeout_ms", 0); ms > 0 {
		fanout.Timeout = time.Duration(ms) * time.Millisecond
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	switch strategy := conv.ConfigGet(cfg, "merge_strategy", ""); strategy {
	case "priority":
		fanout.MergeStrategy = &recall.PriorityMergeStrategy{Order: conv.SliceAnyToString(cfg["order"])}
	case "union":
		fanout.MergeStrategy = &recall.UnionMergeStrategy{}
	case "", "first":
		fanout.MergeStrategy = &recall.FirstMergeStrategy{}
	default:
		return nil, fmt.Errorf("unknown merge strategy: %s", strategy)
	}
	return fanout, nil
}

// BuildFilterNode 构建过滤节点。genre / year_range / expr 未配置取值时从请求的 Query 中读取。
func BuildFilterNode(cfg map[string]any, _ *pipeline.Env) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "genre":
			if conv.Has(filterMap, "genre") {
				filters = append(filters, filter.NewGenreFilter(conv.ConfigGet(filterMap, "genre", "")))
			} else {
				filters = append(filters, &filter.GenreFilter{FromQuery: true})
			}
		case "year_range":
			if conv.Has(filterMap, "from") || conv.Has(filterMap, "to") {
				filters = append(filters, filter.NewYearRangeFilter(
					conv.ConfigGetInt(filterMap, "from", 0),
					conv.ConfigGetInt(filterMap, "to", 9999),
				))
			} else {
				filters = append(filters, &filter.YearRangeFilter{FromQuery: true})
			}
		case "expr":
			if !conv.Has(filterMap, "expr") {
				filters = append(filters, &filter.ExprFilter{FromQuery: true})
				continue
			}
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		case "exclude":
			filters = append(filters, filter.NewExcludeFilter(
				conv.SliceAnyToString(filterMap["titles"]),
				conv.SliceAnyToInt(filterMap["indices"]),
				conv.ConfigGet(filterMap, "exclude_seed", false),
			))
		default:
			return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
				fmt.Sprintf("unknown filter type: %s", filterType))
		}
	}
	return &filter.FilterNode{
		Filters:     filters,
		StopOnError: conv.ConfigGet(cfg, "stop_on_error", false),
	}, nil
}

func BuildRatingNode(cfg map[string]any, _ *pipeline.Env) (pipeline.Node, error) {
	return &rank.RatingNode{KeepScore: conv.ConfigGet(cfg, "keep_score", false)}, nil
}

func BuildScoreNode(_ map[string]any, _ *pipeline.Env) (pipeline.Node, error) {
	return &rank.ScoreNode{}, nil
}

func BuildTopNNode(cfg map[string]any, env *pipeline.Env) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N:      conv.ConfigGetInt(cfg, "n", 0),
		Config: env.Recommend,
	}, nil
}

func BuildDiversityNode(cfg map[string]any, _ *pipeline.Env) (pipeline.Node, error) {
	return &rerank.Diversity{
		LabelKey:    conv.ConfigGet(cfg, "label_key", ""),
		MaxPerGenre: conv.ConfigGetInt(cfg, "max_per_genre", 1),
	}, nil
}
