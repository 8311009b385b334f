package vector

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerec/core"
)

const eps = 1e-9

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		text string
		want []string
	}{
		{
			name: "lowercase, stop words and short tokens removed",
			opts: DefaultOptions(),
			text: "The King's Return, 2010.5!",
			want: []string{"king", "return", "2010"},
		},
		{
			name: "underscore and digits are word characters",
			opts: DefaultOptions(),
			text: "sci_fi 3d",
			want: []string{"sci_fi", "3d"},
		},
		{
			name: "non latin scripts kept",
			opts: DefaultOptions(),
			text: "Baahubali ఒక",
			want: []string{"baahubali", "ఒక"},
		},
		{
			name: "keep stop words",
			opts: Options{MinTokenLen: 2, KeepStopWords: true},
			text: "the king",
			want: []string{"the", "king"},
		},
		{
			name: "extra stop words",
			opts: Options{MinTokenLen: 2, ExtraStopWords: []string{" Telugu "}},
			text: "telugu film",
			want: []string{"film"},
		},
		{
			name: "min length one",
			opts: Options{MinTokenLen: 1, KeepStopWords: true},
			text: "x y",
			want: []string{"x", "y"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTokenizer(tt.opts).Tokens(tt.text))
		})
	}
}

func TestIsEnglishStopWord(t *testing.T) {
	assert.True(t, IsEnglishStopWord("the"))
	assert.True(t, IsEnglishStopWord("whereupon"))
	assert.False(t, IsEnglishStopWord("drama"))
}

func TestFit_Weights(t *testing.T) {
	m, err := Fit([]string{"Drama x 2010", "Drama y 2015"}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"2010", "2015", "drama"}, m.Terms)
	assert.Equal(t, 3, m.Dim())
	assert.Equal(t, 2, m.Len())

	idfRare := math.Log(3.0/2.0) + 1
	assert.InDelta(t, idfRare, m.IDF[m.Vocabulary["2010"]], eps)
	assert.InDelta(t, 1.0, m.IDF[m.Vocabulary["drama"]], eps)

	norm := math.Sqrt(1 + idfRare*idfRare)
	row := m.Row(0)
	assert.InDelta(t, idfRare/norm, row.Get(m.Vocabulary["2010"]), eps)
	assert.InDelta(t, 1/norm, row.Get(m.Vocabulary["drama"]), eps)
	assert.Zero(t, row.Get(m.Vocabulary["2015"]))

	assert.InDelta(t, 1/(norm*norm), m.Cosine(0, 1), eps)
}

func TestFit_Options(t *testing.T) {
	docs := []string{"war war war peace", "peace"}

	t.Run("sublinear tf", func(t *testing.T) {
		opts := DefaultOptions()
		opts.SublinearTF = true
		m, err := Fit(docs, opts)
		require.NoError(t, err)

		war := (1 + math.Log(3)) * (math.Log(3.0/2.0) + 1)
		peace := 1.0
		norm := math.Sqrt(war*war + peace*peace)
		assert.InDelta(t, war/norm, m.Row(0).Get(m.Vocabulary["war"]), eps)
	})

	t.Run("raw idf", func(t *testing.T) {
		opts := DefaultOptions()
		opts.SmoothIDF = false
		m, err := Fit(docs, opts)
		require.NoError(t, err)

		assert.InDelta(t, math.Log(2)+1, m.IDF[m.Vocabulary["war"]], eps)
		assert.InDelta(t, 1.0, m.IDF[m.Vocabulary["peace"]], eps)
	})
}

func TestFit_RowNorms(t *testing.T) {
	docs := []string{
		"Action, Drama a young man rescues his mother 2015",
		"Action, Drama the son fights the king 2017",
		"the and of",
		"",
		"Comedy, Romance food truck 2016",
	}
	m, err := Fit(docs, DefaultOptions())
	require.NoError(t, err)

	for i, row := range m.Rows {
		if i == 2 || i == 3 {
			assert.True(t, row.IsZero(), "row %d should be zero", i)
			assert.Zero(t, row.Norm())
			continue
		}
		assert.InDelta(t, 1.0, row.Norm(), eps, "row %d", i)
	}
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
	assert.True(t, core.IsEmptyCorpus(err))

	_, err = Fit([]string{"the", "and a", ""}, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
	assert.True(t, core.IsEmptyCorpus(err))
}

func TestCosine(t *testing.T) {
	m, err := Fit([]string{"king throne war", "king throne", "food truck", "the"}, DefaultOptions())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, m.Cosine(i, i), "self similarity")
	}
	assert.Zero(t, m.Cosine(3, 3), "zero row is not similar to itself")
	assert.Zero(t, m.Cosine(0, 3))
	assert.Zero(t, m.Cosine(0, 2))
	assert.Greater(t, m.Cosine(0, 1), 0.0)
	assert.Equal(t, m.Cosine(0, 1), m.Cosine(1, 0))
	assert.Zero(t, m.Cosine(-1, 0), "out of range behaves as zero row")
}

func TestMostSimilar(t *testing.T) {
	m, err := Fit([]string{
		"king throne war",
		"king throne",
		"food truck",
		"king war battle",
		"the",
	}, DefaultOptions())
	require.NoError(t, err)

	got := m.MostSimilar(0, 0)
	require.Len(t, got, 2)
	for _, nb := range got {
		assert.NotEqual(t, 0, nb.Index, "self excluded")
		assert.NotEqual(t, 2, nb.Index, "zero similarity excluded")
	}
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)

	top1 := m.MostSimilar(0, 1)
	require.Len(t, top1, 1)
	assert.Equal(t, got[0], top1[0])

	assert.Empty(t, m.MostSimilar(4, 3), "zero row has no neighbours")
	assert.Nil(t, m.MostSimilar(99, 3))
}

func TestTransformAndSearch(t *testing.T) {
	m, err := Fit([]string{"king throne war", "food truck"}, DefaultOptions())
	require.NoError(t, err)

	v := m.Transform("The KING and a spaceship")
	require.Equal(t, 1, v.Len(), "unknown terms are ignored")
	assert.InDelta(t, 1.0, v.Norm(), eps)
	assert.Equal(t, 2, m.Len(), "transform never grows the corpus")

	hits := m.Search("food", 5)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Index)

	assert.Empty(t, m.Search("spaceship", 5))
}

func TestTopTerms(t *testing.T) {
	m, err := Fit([]string{"war war peace", "peace love"}, DefaultOptions())
	require.NoError(t, err)

	top := m.TopTerms(0, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "war", top[0].Term)
	assert.Len(t, m.TopTerms(0, 0), 2)
}

func TestPairwise(t *testing.T) {
	docs := []string{"king throne war", "king throne", "food truck", "", "truck war"}
	m, err := Fit(docs, DefaultOptions())
	require.NoError(t, err)

	sim, err := m.Pairwise(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, len(docs), sim.Len())

	for i := 0; i < sim.Len(); i++ {
		for j := 0; j < sim.Len(); j++ {
			assert.Equal(t, sim.At(i, j), sim.At(j, i), "symmetric at %d,%d", i, j)
			assert.Equal(t, m.Cosine(i, j), sim.At(i, j))
			assert.False(t, math.IsNaN(sim.At(i, j)))
		}
	}
	assert.Equal(t, 1.0, sim.At(0, 0))
	assert.Zero(t, sim.At(3, 3))
	assert.Len(t, sim.Row(1), len(docs))
}

func TestPairwise_Cancelled(t *testing.T) {
	m, err := Fit([]string{"king", "queen"}, DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Pairwise(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSparse(t *testing.T) {
	a := Sparse{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := Sparse{Indices: []int{2, 3, 5}, Values: []float64{4, 1, 2}}

	assert.Equal(t, 14.0, a.Dot(b))
	assert.Equal(t, 2.0, a.Get(2))
	assert.Zero(t, a.Get(4))
	assert.InDelta(t, math.Sqrt(14), a.Norm(), eps)
	assert.True(t, Sparse{}.IsZero())
	assert.False(t, a.IsZero())
}
