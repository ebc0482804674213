package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuery_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"too short at 2", strings.Repeat("a", 2), true},
		{"minimum at 3", strings.Repeat("a", 3), false},
		{"maximum at 1000", strings.Repeat("a", 1000), false},
		{"too long at 1001", strings.Repeat("a", 1001), true},
		{"empty", "", true},
		{"whitespace only", "   \t\n  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateQuery(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateQuery_Trims(t *testing.T) {
	got, err := ValidateQuery("  What is the legal drinking age?  ")
	require.NoError(t, err)
	assert.Equal(t, "What is the legal drinking age?", got)
}

func TestValidateQuery_LengthAfterTrimming(t *testing.T) {
	// 2 characters padded to 10 with whitespace still fails.
	_, err := ValidateQuery("    ab    ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestQueryEmbedding_Vector(t *testing.T) {
	emb := &QueryEmbedding{
		Vectors: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
	}
	assert.Equal(t, []float32{0.1, 0.2}, emb.Vector())

	empty := &QueryEmbedding{}
	assert.Nil(t, empty.Vector())
}
