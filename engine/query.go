package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/filter"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/dsl"
	"github.com/rushteam/cinerec/pkg/logging"
	"github.com/rushteam/cinerec/rank"
	"github.com/rushteam/cinerec/recall"
	"github.com/rushteam/cinerec/rerank"
)

var validate = validator.New()

// ValidateQuery 校验调用方传入的查询：N 在 1..MaxTopN 之间、YearFrom <= YearTo、表达式可编译。
// Recommend 本身不做这些校验（N <= 0 会回退到默认值），由 CLI 等入口调用。
func (s *State) ValidateQuery(q core.Query) error {
	if err := validate.Struct(q); err != nil {
		return core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: invalid query", err)
	}
	if maxN := s.opts.Recommend.MaxTopN(); maxN > 0 && q.N > maxN {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			fmt.Sprintf("engine: invalid query: n must be between 1 and %d", maxN))
	}
	if q.Expr != "" {
		if _, err := dsl.Compile(q.Expr); err != nil {
			return core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: invalid expression", err)
		}
	}
	return nil
}

// Env 返回构建配置驱动 Pipeline 所需的运行期依赖。
func (s *State) Env() *pipeline.Env {
	return &pipeline.Env{
		Corpus:    s.movies,
		Index:     s.matrix,
		Recommend: s.opts.Recommend,
	}
}

// Recommend 按类型子串与年份闭区间筛选，按评分降序返回前 N 部。
//
//   - 没有年份的电影永远不会返回
//   - 评分相同时按语料顺序
//   - N <= 0 时使用默认值（5）；不会在此处限制上限
//   - 没有匹配时返回空切片与 nil
func (s *State) Recommend(ctx context.Context, q core.Query) ([]*core.Item, error) {
	q = s.normalizeQuery(q)
	if q.Expr != "" {
		if _, err := dsl.Compile(q.Expr); err != nil {
			return nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: invalid expression", err)
		}
	}

	filters := []filter.Filter{
		&filter.GenreFilter{FromQuery: true},
		&filter.YearRangeFilter{FromQuery: true},
	}
	if q.Expr != "" {
		filters = append(filters, &filter.ExprFilter{FromQuery: true})
	}
	nodes := []pipeline.Node{
		&recall.Corpus{Movies: s.movies},
		&filter.FilterNode{Filters: filters, StopOnError: true},
		&rank.RatingNode{},
	}
	if q.Diverse {
		nodes = append(nodes, &rerank.Diversity{})
	}
	nodes = append(nodes, &rerank.TopNNode{Config: s.opts.Recommend})

	return s.Run(ctx, &pipeline.Pipeline{Nodes: nodes}, q, -1)
}

// normalizeQuery 在 AllYears 时把年份区间展开为语料年份范围；其余情况区间保持原样。
func (s *State) normalizeQuery(q core.Query) core.Query {
	if q.AllYears && s.hasYears {
		q.YearFrom, q.YearTo = s.yearLo, s.yearHi
	}
	return q
}

// Similar 返回与第 index 部电影内容最相似的 k 部其他电影，按相似度降序（相同时按语料顺序）。
// k <= 0 时使用 DefaultSimilarK。种子没有任何有效词项时返回空结果。
func (s *State) Similar(ctx context.Context, index, k int) ([]*core.Item, error) {
	if index < 0 || index >= len(s.movies) {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound, fmt.Sprintf("engine: movie index %d out of range", index))
	}
	if k <= 0 {
		k = s.opts.Recommend.DefaultSimilarK()
	}
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Similar{Index: s.matrix, Movies: s.movies, TopK: k},
		&filter.FilterNode{Filters: []filter.Filter{filter.NewExcludeFilter(nil, nil, true)}},
		&rank.ScoreNode{},
		&rerank.TopNNode{N: k},
	}}
	return s.Run(ctx, p, core.Query{N: k}, index)
}

// SimilarTo 按标题查找种子电影后调用 Similar。
func (s *State) SimilarTo(ctx context.Context, title string, k int) ([]*core.Item, error) {
	index, err := s.FindByTitle(title)
	if err != nil {
		return nil, err
	}
	return s.Similar(ctx, index, k)
}

// Search 用冻结词表向量化一段自由文本，返回最相似的 k 部电影。
func (s *State) Search(ctx context.Context, text string, k int) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: empty search text")
	}
	if k <= 0 {
		k = s.opts.Recommend.DefaultSimilarK()
	}
	hits := s.matrix.Search(text, k)
	out := make([]*core.Item, 0, len(hits))
	for _, h := range hits {
		it := core.NewItem(h.Index, s.movies[h.Index])
		it.Score = h.Score
		it.Features["similarity"] = h.Score
		out = append(out, it)
	}
	return out, nil
}

// Run 用给定的 Pipeline 执行一次查询，seed < 0 表示没有种子电影。
// 配置驱动的 Pipeline（pipeline.LoadFromYAML + config.DefaultFactory）也通过这里执行。
func (s *State) Run(ctx context.Context, p *pipeline.Pipeline, q core.Query, seed int) ([]*core.Item, error) {
	rctx := core.NewRecommendContext(s.normalizeQuery(q))
	rctx.SeedIndex = seed

	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}
	logger := logging.WithRequest(core.ModuleEngine, rctx.RequestID)
	logger.Debug().
		Str("genre", rctx.Query.Genre).
		Int("year_from", rctx.Query.YearFrom).
		Int("year_to", rctx.Query.YearTo).
		Int("seed", seed).
		Int("results", len(items)).
		Msg("query served")
	return items, nil
}
