package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			name:     "empty existing takes incoming",
			existing: Label{},
			incoming: Label{Value: "corpus", Source: "recall"},
			want:     Label{Value: "corpus", Source: "recall"},
		},
		{
			name:     "empty incoming keeps existing",
			existing: Label{Value: "corpus", Source: "recall"},
			incoming: Label{},
			want:     Label{Value: "corpus", Source: "recall"},
		},
		{
			name:     "values accumulate and sources join",
			existing: Label{Value: "corpus", Source: "recall"},
			incoming: Label{Value: "rating", Source: "rank"},
			want:     Label{Value: "corpus|rating", Source: "recall,rank"},
		},
		{
			name:     "same source is not repeated",
			existing: Label{Value: "corpus", Source: "recall"},
			incoming: Label{Value: "similar", Source: "recall"},
			want:     Label{Value: "corpus|similar", Source: "recall"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeLabel(tt.existing, tt.incoming))
		})
	}
}
