package builders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerec/config"
	_ "github.com/rushteam/cinerec/config/builders"
	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/dataset"
	"github.com/rushteam/cinerec/engine"
	"github.com/rushteam/cinerec/pipeline"
)

func loadState(t *testing.T) *engine.State {
	t.Helper()
	s, err := engine.Load(context.Background(), "../../testdata/movies.csv", dataset.DefaultSchema(), engine.DefaultOptions())
	require.NoError(t, err)
	return s
}

func build(t *testing.T, s *engine.State, yaml string) *pipeline.Pipeline {
	t.Helper()
	cfg, err := pipeline.ParseYAML([]byte(yaml))
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))
	p, err := cfg.BuildPipeline(config.DefaultFactory(), s.Env())
	require.NoError(t, err)
	return p
}

func titles(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Movie.Title)
	}
	return out
}

func TestSupportedTypes(t *testing.T) {
	assert.Subset(t, config.SupportedTypes(), []string{
		"recall.corpus", "recall.similar", "recall.hot", "recall.fanout", "filter",
		"rank.rating", "rank.score", "rerank.topn", "rerank.diversity",
	})
}

func TestRecommendPipelineFromYAML(t *testing.T) {
	s := loadState(t)
	p := build(t, s, `
pipeline:
  name: by-genre
  nodes:
    - type: recall.corpus
    - type: filter
      config:
        filters:
          - type: genre
          - type: year_range
          - type: expr
            expr: "item.rating >= 8.2"
    - type: rank.rating
    - type: rerank.topn
`)

	got, err := s.Run(context.Background(), p, core.Query{Genre: "Drama", YearFrom: 2015, YearTo: 2019, N: 2}, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jersey", "Mahanati"}, titles(got))

	got, err = s.Run(context.Background(), p, core.Query{Genre: "Comedy", YearFrom: 2000, YearTo: 2020, N: 5}, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pellichoopulu"}, titles(got))
}

func TestFixedFiltersFromYAML(t *testing.T) {
	s := loadState(t)
	p := build(t, s, `
pipeline:
  nodes:
    - type: recall.corpus
    - type: filter
      config:
        filters:
          - type: genre
            genre: action
          - type: year_range
            from: 2013
            to: 2020
          - type: exclude
            titles: ["Baahubali 2: The Conclusion"]
    - type: rank.rating
    - type: rerank.topn
      config:
        n: 10
`)
	got, err := s.Run(context.Background(), p, core.Query{}, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baahubali: The Beginning"}, titles(got))
}

func TestFanoutPipelineFromYAML(t *testing.T) {
	s := loadState(t)
	seed, err := s.FindByTitle("Baahubali: The Beginning")
	require.NoError(t, err)

	p := build(t, s, `
pipeline:
  nodes:
    - type: recall.fanout
      config:
        merge_strategy: priority
        order: [recall.similar]
        max_concurrent: 2
        timeout_ms: 1000
        sources:
          - type: corpus
          - type: similar
            top_k: 2
    - type: filter
      config:
        filters:
          - type: exclude
            exclude_seed: true
    - type: rerank.diversity
      config:
        max_per_genre: 1
    - type: rerank.topn
      config:
        n: 3
`)
	got, err := s.Run(context.Background(), p, core.Query{}, seed)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Baahubali 2: The Conclusion", got[0].Movie.Title, "similar source has priority")
	for _, it := range got {
		assert.NotEqual(t, seed, it.Index)
	}
}

func TestHotPipelineFromYAML(t *testing.T) {
	s := loadState(t)
	p := build(t, s, `
pipeline:
  nodes:
    - type: recall.fanout
      config:
        merge_strategy: union
        sources:
          - type: hot
            top_k: 3
    - type: rank.rating
    - type: rerank.topn
      config:
        n: 10
`)
	got, err := s.Run(context.Background(), p, core.Query{}, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jersey", "Mahanati", "Baahubali 2: The Conclusion"}, titles(got))
}

func TestBuildErrors(t *testing.T) {
	s := loadState(t)
	tests := []struct {
		name string
		yaml string
	}{
		{"filters missing", "pipeline:\n  nodes:\n    - type: filter\n"},
		{"unknown filter", "pipeline:\n  nodes:\n    - type: filter\n      config:\n        filters:\n          - type: nope\n"},
		{"bad expression", "pipeline:\n  nodes:\n    - type: filter\n      config:\n        filters:\n          - type: expr\n            expr: \"item.rating >\"\n"},
		{"unknown source", "pipeline:\n  nodes:\n    - type: recall.fanout\n      config:\n        sources:\n          - type: nope\n"},
		{"unknown merge", "pipeline:\n  nodes:\n    - type: recall.fanout\n      config:\n        merge_strategy: zip\n        sources:\n          - type: corpus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := pipeline.ParseYAML([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = cfg.BuildPipeline(config.DefaultFactory(), s.Env())
			assert.Error(t, err)
		})
	}

	cfg, err := pipeline.ParseYAML([]byte("pipeline:\n  nodes:\n    - type: recall.similar\n"))
	require.NoError(t, err)
	_, err = cfg.BuildPipeline(config.DefaultFactory(), &pipeline.Env{})
	assert.Error(t, err, "similar recall needs an index")
}
