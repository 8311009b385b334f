package dsl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/utils"
)

func newItem(m *core.Movie) *core.Item {
	it := core.NewItem(3, m)
	it.Score = 0.75
	it.PutLabel(utils.LabelRecallSource, utils.Label{Value: "recall.corpus", Source: "recall"})
	return it
}

func TestEvaluate(t *testing.T) {
	jersey := newItem(&core.Movie{Title: "Jersey", Genre: "Drama, Sport", Overview: "A failed cricketer returns", Rating: 8.5, Year: 2019})
	classic := newItem(&core.Movie{Title: "Old Classic", Genre: "Drama", Rating: 7.9, Year: math.NaN()})
	rctx := core.NewRecommendContext(core.Query{Genre: "Drama", YearFrom: 2000, YearTo: 2020, N: 5})

	tests := []struct {
		name string
		expr string
		item *core.Item
		want bool
	}{
		{"empty expression", "", jersey, true},
		{"rating", "item.rating >= 8.0", jersey, true},
		{"rating below", "item.rating >= 8.0", classic, false},
		{"year present", "item.has_year && item.year >= 2015", jersey, true},
		{"year missing", "item.has_year && item.year >= 2015", classic, false},
		{"genre list", `"Sport" in item.genres`, jersey, true},
		{"overview contains", `item.overview.contains("cricketer")`, jersey, true},
		{"title", `item.title == "Old Classic"`, classic, true},
		{"label", `label.recall_source == "recall.corpus"`, jersey, true},
		{"score and index", "item.score > 0.5 && item.index == 3", jersey, true},
		{"query", `query.genre == "Drama" && query.n == 5 && item.year <= query.year_to`, jersey, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr, tt.item, rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	it := newItem(&core.Movie{Title: "x", Rating: 1})

	_, err := Evaluate("item.rating >=", it, nil)
	assert.ErrorContains(t, err, "compile error")

	_, err = Evaluate("item.rating", it, nil)
	assert.ErrorContains(t, err, "must return boolean")

	_, err = Evaluate("label.missing == \"x\"", it, nil)
	assert.ErrorContains(t, err, "eval error")
}

func TestCompile_Cached(t *testing.T) {
	a, err := Compile("item.rating > 1.0")
	require.NoError(t, err)
	b, err := Compile("item.rating > 1.0")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "item.rating > 1.0", a.String())
}

func TestEval_NilItem(t *testing.T) {
	p, err := Compile(`item.title == "" && !item.has_year`)
	require.NoError(t, err)
	ok, err := p.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
