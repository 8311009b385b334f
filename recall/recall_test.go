package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/utils"
)

var corpus = []*core.Movie{
	{Title: "A", Genre: "Drama", Rating: 7.0, Year: 2010},
	{Title: "B", Genre: "Drama, Crime", Rating: 9.0, Year: 2015},
	{Title: "C", Genre: "Comedy", Rating: 6.0, Year: 2012},
}

// stubIndex 的相似度：0-1 为 0.8，0-2 为 0.3，其余为 0
type stubIndex struct{}

func (stubIndex) Len() int { return 3 }
func (stubIndex) Cosine(i, j int) float64 {
	if i == j {
		return 1
	}
	switch {
	case i+j == 1:
		return 0.8
	case i+j == 2 && i != 1:
		return 0.3
	}
	return 0
}
func (s stubIndex) MostSimilar(index, k int) []core.Neighbor {
	var out []core.Neighbor
	for j := 0; j < s.Len(); j++ {
		if j != index && s.Cosine(index, j) > 0 {
			out = append(out, core.Neighbor{Index: j, Score: s.Cosine(index, j)})
		}
	}
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func titles(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Movie.Title)
	}
	return out
}

func TestCorpus(t *testing.T) {
	r := &Corpus{Movies: append([]*core.Movie{nil}, corpus...)}
	items, err := r.Process(context.Background(), core.NewRecommendContext(core.Query{}), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, titles(items))
	assert.Equal(t, 1, items[0].Index, "index follows corpus position")
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "recall.corpus", items[0].Labels[utils.LabelRecallSource].Value)
	assert.Same(t, corpus[0], items[0].Movie, "movies are shared, never copied")
}

func TestHot(t *testing.T) {
	movies := append([]*core.Movie{nil}, corpus...)
	movies = append(movies, &core.Movie{Title: "D", Genre: "Crime", Rating: 9.0, Year: 2020})

	r := &Hot{Movies: movies, TopK: 3}
	items, err := r.Process(context.Background(), core.NewRecommendContext(core.Query{}), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "D", "A"}, titles(items), "rating desc, ties in corpus order")
	assert.Equal(t, 9.0, items[0].Score)
	assert.Equal(t, 1.0, items[0].Features["hot_rank"])
	assert.Equal(t, "recall.hot", items[0].Labels[utils.LabelRecallSource].Value)

	all, err := (&Hot{Movies: movies}).Recall(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Recall(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimilar(t *testing.T) {
	r := &Similar{Index: stubIndex{}, Movies: corpus}

	rctx := core.NewRecommendContext(core.Query{})
	items, err := r.Recall(context.Background(), rctx)
	require.NoError(t, err)
	assert.Empty(t, items, "no seed, no results")

	rctx.SeedIndex = 0
	items, err = r.Recall(context.Background(), rctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, titles(items))
	assert.Equal(t, 0.8, items[0].Score)
	assert.Equal(t, "A", items[0].Labels[utils.LabelSeed].Value)
	assert.Equal(t, 0.8, items[0].Features["similarity"])

	r.TopK = 1
	items, err = r.Recall(context.Background(), rctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(items))
}

func TestSimilar_Errors(t *testing.T) {
	rctx := core.NewRecommendContext(core.Query{})
	rctx.SeedIndex = 0

	_, err := (&Similar{Movies: corpus}).Recall(context.Background(), rctx)
	assert.True(t, core.IsInvalidInput(err))

	rctx.SeedIndex = 7
	_, err = (&Similar{Index: stubIndex{}, Movies: corpus}).Recall(context.Background(), rctx)
	assert.True(t, core.IsNotFound(err))
}

type staticSource struct {
	name  string
	items func() []*core.Item
	err   error
	delay time.Duration
}

func (s *staticSource) Name() string { return s.name }
func (s *staticSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.items(), nil
}

func labelled(source string, idx ...int) func() []*core.Item {
	return func() []*core.Item {
		out := make([]*core.Item, 0, len(idx))
		for _, i := range idx {
			it := core.NewItem(i, corpus[i])
			it.PutLabel(utils.LabelRecallSource, utils.Label{Value: source, Source: "recall"})
			out = append(out, it)
		}
		return out
	}
}

func TestFanout(t *testing.T) {
	slow := &staticSource{name: "slow", items: labelled("slow", 2, 0), delay: 20 * time.Millisecond}
	fast := &staticSource{name: "fast", items: labelled("fast", 0, 1)}
	broken := &staticSource{name: "broken", err: errors.New("down")}

	tests := []struct {
		name     string
		strategy MergeStrategy
		want     []string
	}{
		{"default first", nil, []string{"C", "A", "B"}},
		{"union", &UnionMergeStrategy{}, []string{"C", "A", "A", "B"}},
		{"priority", &PriorityMergeStrategy{Order: []string{"fast"}}, []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Fanout{Sources: []Source{slow, broken, fast}, MergeStrategy: tt.strategy, MaxConcurrent: 2}
			items, err := n.Process(context.Background(), core.NewRecommendContext(core.Query{}), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(items))
		})
	}
}

func TestFanout_MergesLabels(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&staticSource{name: "a", items: labelled("a", 0)},
		&staticSource{name: "b", items: labelled("b", 0)},
	}}
	items, err := n.Process(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a|b", items[0].Labels[utils.LabelRecallSource].Value)
}

func TestFanout_Timeout(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&staticSource{name: "slow", items: labelled("slow", 2), delay: time.Second},
			&staticSource{name: "fast", items: labelled("fast", 1)},
		},
		Timeout: 10 * time.Millisecond,
	}
	items, err := n.Process(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(items))
}

func TestFanout_NoSources(t *testing.T) {
	items, err := (&Fanout{}).Process(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
