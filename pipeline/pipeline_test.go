package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerec/core"
)

type funcNode struct {
	name string
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *funcNode) Name() string { return n.name }
func (n *funcNode) Kind() Kind   { return KindFilter }
func (n *funcNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func movies(titles ...string) []*core.Item {
	out := make([]*core.Item, 0, len(titles))
	for i, title := range titles {
		out = append(out, core.NewItem(i, &core.Movie{Title: title}))
	}
	return out
}

func TestPipelineRun(t *testing.T) {
	dropFirst := &funcNode{name: "drop", fn: func(items []*core.Item) ([]*core.Item, error) {
		return items[1:], nil
	}}
	reverse := &funcNode{name: "reverse", fn: func(items []*core.Item) ([]*core.Item, error) {
		out := make([]*core.Item, 0, len(items))
		for i := len(items) - 1; i >= 0; i-- {
			out = append(out, items[i])
		}
		return out, nil
	}}

	p := &Pipeline{Nodes: []Node{dropFirst, reverse}}
	got, err := p.Run(context.Background(), core.NewRecommendContext(core.Query{}), movies("a", "b", "c"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Movie.Title)
	assert.Equal(t, "b", got[1].Movie.Title)
}

func TestPipelineRun_Error(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{&funcNode{name: "broken", fn: func([]*core.Item) ([]*core.Item, error) {
		return nil, boom
	}}}}

	_, err := p.Run(context.Background(), nil, movies("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "node broken")
}

func TestPipelineRun_EmptyResultIsNotNil(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&funcNode{name: "none", fn: func([]*core.Item) ([]*core.Item, error) {
		return nil, nil
	}}}}

	got, err := p.Run(context.Background(), nil, movies("a"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPipelineRun_Cancelled(t *testing.T) {
	called := false
	p := &Pipeline{Nodes: []Node{&funcNode{name: "n", fn: func(items []*core.Item) ([]*core.Item, error) {
		called = true
		return items, nil
	}}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, nil, movies("a"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestConfigBuildPipeline(t *testing.T) {
	data := []byte(`
pipeline:
  name: demo
  nodes:
    - type: test.keep
      config:
        limit: 2
`)
	cfg, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Pipeline.Name)
	require.Len(t, cfg.Pipeline.Nodes, 1)
	assert.Equal(t, 2, cfg.Pipeline.Nodes[0].Config["limit"])

	var gotEnv *Env
	factory := NewNodeFactory()
	factory.Register("test.keep", func(_ map[string]any, env *Env) (Node, error) {
		gotEnv = env
		return &funcNode{name: "keep", fn: func(items []*core.Item) ([]*core.Item, error) { return items, nil }}, nil
	})

	p, err := cfg.BuildPipeline(factory, nil)
	require.NoError(t, err)
	require.Len(t, p.Nodes, 1)
	assert.NotNil(t, gotEnv, "nil env replaced with an empty one")

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "missing"})
	_, err = cfg.BuildPipeline(factory, nil)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "unknown node type: missing")
}

func TestConfigBuildPipeline_NoNodes(t *testing.T) {
	_, err := (&Config{}).BuildPipeline(NewNodeFactory(), nil)
	assert.True(t, core.IsInvalidInput(err))
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "p.yaml")
	jsonPath := filepath.Join(dir, "p.json")
	require.NoError(t, os.WriteFile(yamlPath, []byte("pipeline:\n  name: y\n  nodes:\n    - type: rank.rating\n"), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"pipeline":{"name":"j","nodes":[{"type":"rerank.topn","config":{"n":3}}]}}`), 0o600))

	ycfg, err := LoadFromYAML(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "rank.rating", ycfg.Pipeline.Nodes[0].Type)

	jcfg, err := LoadFromJSON(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "j", jcfg.Pipeline.Name)
	assert.Equal(t, float64(3), jcfg.Pipeline.Nodes[0].Config["n"])

	_, err = LoadFromYAML(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
