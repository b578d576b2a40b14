package labeled_test

import (
	"testing"

	"github.com/katalvlaran/agora/labeled"
	"github.com/katalvlaran/agora/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIndex_StableAppendOnly verifies first-use allocation and stability.
func TestIndex_StableAppendOnly(t *testing.T) {
	m := labeled.New[string, int, float64]()

	assert.Equal(t, 0, m.RowIndex("alice"))
	assert.Equal(t, 1, m.RowIndex("bob"))
	assert.Equal(t, 0, m.RowIndex("alice"), "existing id must keep its index")
	assert.Equal(t, 0, m.ColIndex(42))
	assert.Equal(t, 1, m.ColIndex(7))

	assert.Equal(t, []string{"alice", "bob"}, m.RowIDs())
	assert.Equal(t, []int{42, 7}, m.ColIDs())
	assert.Equal(t, "bob", m.RowID(1))
	assert.Equal(t, 7, m.ColID(1))
	assert.Equal(t, 0, m.Len(), "allocating indices sets no cell")
}

// TestGet_UnsetIsNotError covers unknown ids and unset cells.
func TestGet_UnsetIsNotError(t *testing.T) {
	m := labeled.New[string, string, int]()
	m.Set("p1", "s1", 0)

	v, ok := m.Get("p1", "s1")
	assert.True(t, ok, "a stored zero is set, not unset")
	assert.Equal(t, 0, v)

	_, ok = m.Get("p1", "nope")
	assert.False(t, ok)
	_, ok = m.Get("ghost", "s1")
	assert.False(t, ok)

	_, ok = m.LookupRow("ghost")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Rows(), "lookups never allocate")
}

// TestSet_LazyPadding checks that rows created before later columns read as
// unset in the missing tail and grow on write.
func TestSet_LazyPadding(t *testing.T) {
	m := labeled.New[int, int, int]()
	m.Set(1, 10, 5)
	m.Set(2, 20, 6)
	m.Set(3, 30, 7)

	_, ok := m.At(0, 2)
	assert.False(t, ok)

	m.Set(1, 30, 8)
	v, ok := m.At(0, 2)
	require.True(t, ok)
	assert.Equal(t, 8, v)

	m.Set(1, 30, 9)
	assert.Equal(t, 4, m.Len(), "overwrite does not change the set count")

	_, ok = m.At(-1, 0)
	assert.False(t, ok)
	_, ok = m.At(0, 99)
	assert.False(t, ok)
}

// TestAddRow registers an empty participant.
func TestAddRow(t *testing.T) {
	m := labeled.New[int, int, int]()
	assert.True(t, m.AddRow(5))
	assert.False(t, m.AddRow(5))
	assert.Equal(t, 1, m.Rows())
	assert.Equal(t, 0, m.Cols())

	count := 0
	m.EachInRow(0, func(int, int) { count++ })
	assert.Zero(t, count)
}

// TestClone_Independent ensures mutations of a clone do not leak back.
func TestClone_Independent(t *testing.T) {
	m := labeled.New[int, int, int]()
	m.Set(1, 1, 1)
	c := m.Clone()

	c.Set(1, 1, -1)
	c.Set(2, 2, 1)

	v, _ := m.Get(1, 1)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, m.Rows())
	assert.Equal(t, 2, c.Rows())
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
}

// TestEach_RowMajorEarlyStop checks iteration order and the stop signal.
func TestEach_RowMajorEarlyStop(t *testing.T) {
	m := labeled.New[string, string, int]()
	m.Set("a", "x", 1)
	m.Set("b", "y", 2)
	m.Set("a", "y", 3)

	var seen []int
	m.Each(func(i, j int, v int) bool {
		seen = append(seen, v)
		return true
	})
	assert.Equal(t, []int{1, 3, 2}, seen)

	seen = seen[:0]
	m.Each(func(i, j int, v int) bool {
		seen = append(seen, v)
		return false
	})
	assert.Equal(t, []int{1}, seen)
}

// TestDense_Mask materializes values and the observation mask.
func TestDense_Mask(t *testing.T) {
	m := labeled.New[string, string, int]()
	m.Set("a", "x", 1)
	m.Set("b", "y", -1)
	m.AddRow("c")

	d, mask, err := m.Dense(func(v int) float64 { return float64(v) })
	require.NoError(t, err)
	assert.Equal(t, "[1, 0]\n[0, -1]\n[0, 0]\n", d.String())
	assert.Equal(t, []bool{true, false, false, true, false, false}, mask)

	empty := labeled.New[int, int, int]()
	d, mask, err = empty.Dense(func(v int) float64 { return float64(v) })
	require.NoError(t, err)
	assert.Equal(t, 0, d.Rows())
	assert.Empty(t, mask)
}

// TestDense_RejectsNonFinite propagates the matrix NaN policy.
func TestDense_RejectsNonFinite(t *testing.T) {
	m := labeled.New[int, int, float64]()
	m.Set(0, 0, 1)

	_, _, err := m.Dense(func(v float64) float64 { return v / 0 })
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}
