package cluster

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStreamRNG_Independent checks that streams are reproducible and that
// distinct streams diverge.
func TestStreamRNG_Independent(t *testing.T) {
	a := streamRNG(7, 3).Int63()
	b := streamRNG(7, 3).Int63()
	c := streamRNG(7, 4).Int63()
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	assert.Equal(t, streamRNG(0, 1).Int63(), streamRNG(defaultRNGSeed, 1).Int63(), "seed 0 maps to the default seed")
}

// TestPermRange returns a full permutation.
func TestPermRange(t *testing.T) {
	p, err := permRange(50, rngFromSeed(9))
	require.NoError(t, err)
	sorted := append([]int(nil), p...)
	sort.Ints(sorted)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}

	_, err = permRange(-1, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
