// Package engine 把清洗、特征组合、向量化串成一次性的初始化，
// 并提供属性筛选推荐与相似推荐两个查询入口。
//
// Initialize 返回的 State 在构建完成后只读，可被多个 goroutine 并发查询；
// 每次查询都会新建 core.Item 包装，不共享可变状态。
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/dataset"
	"github.com/rushteam/cinerec/feature"
	"github.com/rushteam/cinerec/pkg/logging"
	"github.com/rushteam/cinerec/vector"
)

// State 是初始化完成后的全部派生数据：语料、TF-IDF 矩阵、类型索引。
type State struct {
	movies []*core.Movie
	matrix *vector.Matrix
	genres []string
	report dataset.SanitizeReport
	opts   Options

	yearLo, yearHi int
	hasYears       bool

	simMu sync.Mutex
	sim   *vector.SimilarityMatrix
}

// Initialize 用清洗后的电影构建 State。
//
// 输入的电影会被复制，State 不持有调用方的指针。
// 错误：空语料或空词表（core.IsEmptyCorpus）、非法的年份策略（core.IsInvalidInput）。
func Initialize(ctx context.Context, movies []*core.Movie, opts Options) (*State, error) {
	start := time.Now()
	opts = opts.withDefaults()

	if _, err := feature.ParseYearPolicy(string(opts.YearPolicy)); err != nil {
		return nil, err
	}

	corpus := make([]*core.Movie, 0, len(movies))
	for _, m := range movies {
		if m == nil {
			continue
		}
		cp := *m
		corpus = append(corpus, &cp)
	}
	if len(corpus) == 0 {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeEmptyCorpus, "engine: no movies to index")
	}

	docs := (&feature.Combiner{Policy: opts.YearPolicy}).Apply(corpus)
	matrix, err := vector.Fit(docs, opts.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}

	s := &State{
		movies: corpus,
		matrix: matrix,
		genres: feature.GenreIndex(corpus),
		report: dataset.SanitizeReport{Total: len(corpus), Kept: len(corpus)},
		opts:   opts,
	}
	s.yearLo, s.yearHi, s.hasYears = yearBounds(corpus)
	for _, m := range corpus {
		if !m.HasYear() {
			s.report.MissingYear++
		}
	}

	if opts.Precompute {
		if _, err := s.SimilarityMatrix(ctx); err != nil {
			return nil, err
		}
	}

	logging.WithComponent(core.ModuleEngine).Info().
		Int("movies", len(corpus)).
		Int("terms", matrix.Dim()).
		Int("genres", len(s.genres)).
		Dur("elapsed", time.Since(start)).
		Msg("engine initialized")
	return s, nil
}

// Load 读取 CSV、清洗并初始化，SanitizeReport 会保留在 State 中供 Stats 使用。
func Load(ctx context.Context, path string, schema dataset.Schema, opts Options) (*State, error) {
	movies, report, err := dataset.Load(path, schema)
	if err != nil {
		return nil, err
	}
	s, err := Initialize(ctx, movies, opts)
	if err != nil {
		return nil, err
	}
	s.report = report
	return s, nil
}

func yearBounds(movies []*core.Movie) (lo, hi int, ok bool) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, m := range movies {
		if !m.HasYear() {
			continue
		}
		minY = math.Min(minY, m.Year)
		maxY = math.Max(maxY, m.Year)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return int(math.Floor(minY)), int(math.Ceil(maxY)), true
}

// Len 返回语料大小。
func (s *State) Len() int { return len(s.movies) }

// Movie 返回第 i 部电影，越界时返回 nil。
func (s *State) Movie(i int) *core.Movie {
	if i < 0 || i >= len(s.movies) {
		return nil
	}
	return s.movies[i]
}

// Movies 返回语料的浅拷贝切片，元素只读。
func (s *State) Movies() []*core.Movie {
	out := make([]*core.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// Matrix 返回 TF-IDF 矩阵。
func (s *State) Matrix() *vector.Matrix { return s.matrix }

// Genres 返回排序去重后的类型列表。
func (s *State) Genres() []string {
	out := make([]string, len(s.genres))
	copy(out, s.genres)
	return out
}

// YearRange 返回语料中的最小、最大年份；没有任何年份时 ok 为 false。
func (s *State) YearRange() (lo, hi int, ok bool) {
	return s.yearLo, s.yearHi, s.hasYears
}

// FindByTitle 按标题查找电影（忽略大小写与首尾空白），有重名时返回语料中第一部。
func (s *State) FindByTitle(title string) (int, error) {
	want := strings.TrimSpace(title)
	if want == "" {
		return -1, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: empty title")
	}
	for i, m := range s.movies {
		if strings.EqualFold(m.Title, want) {
			return i, nil
		}
	}
	return -1, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound, fmt.Sprintf("engine: movie %q not found", want))
}

// SimilarityMatrix 返回两两相似度矩阵，首次调用时计算并缓存。
// 计算被取消时不缓存，下次调用会重新计算。
func (s *State) SimilarityMatrix(ctx context.Context) (*vector.SimilarityMatrix, error) {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	if s.sim != nil {
		return s.sim, nil
	}

	start := time.Now()
	sim, err := s.matrix.Pairwise(ctx, s.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("pairwise similarity: %w", err)
	}
	s.sim = sim
	logging.WithComponent(core.ModuleEngine).Debug().
		Int("size", sim.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("similarity matrix computed")
	return sim, nil
}

// Stats 是语料与索引的统计信息。
type Stats struct {
	Rows          int  `json:"rows"`
	Movies        int  `json:"movies"`
	DroppedRating int  `json:"dropped_rating"`
	MissingYear   int  `json:"missing_year"`
	MalformedRows int  `json:"malformed_rows"`
	Genres        int  `json:"genres"`
	Vocabulary    int  `json:"vocabulary"`
	EmptyDocs     int  `json:"empty_docs"`
	YearFrom      *int `json:"year_from,omitempty"`
	YearTo        *int `json:"year_to,omitempty"`
}

// Stats 返回统计信息。
func (s *State) Stats() Stats {
	st := Stats{
		Rows:          s.report.Total,
		Movies:        len(s.movies),
		DroppedRating: s.report.DroppedRating,
		MissingYear:   s.report.MissingYear,
		MalformedRows: s.report.MalformedRows,
		Genres:        len(s.genres),
		Vocabulary:    s.matrix.Dim(),
	}
	for _, row := range s.matrix.Rows {
		if row.IsZero() {
			st.EmptyDocs++
		}
	}
	if lo, hi, ok := s.YearRange(); ok {
		st.YearFrom, st.YearTo = &lo, &hi
	}
	return st
}
