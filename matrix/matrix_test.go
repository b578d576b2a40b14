package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/agora/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// mustDense builds a Dense from rows or fails the test.
func mustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseRows(rows)
	require.NoError(t, err)

	return d
}

// TestNewDense_Shapes verifies legal zero shapes and rejection of negative ones.
func TestNewDense_Shapes(t *testing.T) {
	d, err := matrix.NewDense(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Rows())
	assert.Equal(t, 3, d.Cols())

	_, err = matrix.NewDense(-1, 2)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestDense_AtSetBounds checks bounds and NaN policy on the public accessors.
func TestDense_AtSetBounds(t *testing.T) {
	d, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, d.Set(1, 0, 4.5))
	v, err := d.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = d.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, d.Set(0, -1, 1), matrix.ErrOutOfRange)
	assert.ErrorIs(t, d.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
}

// TestDense_CloneIndependent ensures Clone does not alias the source buffer.
func TestDense_CloneIndependent(t *testing.T) {
	d := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	c := d.Clone()
	require.NoError(t, d.Set(0, 0, 9))

	v, _ := c.At(0, 0)
	assert.Equal(t, 1.0, v)
}

// TestNewDenseRows_Ragged rejects non-rectangular input.
func TestNewDenseRows_Ragged(t *testing.T) {
	_, err := matrix.NewDenseRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestMul_Transpose_MatVec exercises the canonical kernels on a small case.
func TestMul_Transpose_MatVec(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := mustDense(t, [][]float64{{1, 0}, {0, 1}, {1, 1}})

	p, err := matrix.Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, "[4, 5]\n[10, 11]\n", p.String())

	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	assert.Equal(t, 3, at.Rows())
	v, _ := at.At(2, 1)
	assert.Equal(t, 6.0, v)

	y, err := matrix.MatVec(a, []float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 15}, y)

	_, err = matrix.Mul(a, a)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatVec(a, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestHadamard_RowSums_Scale covers the element-wise helpers.
func TestHadamard_RowSums_Scale(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2}, {3, 4}})

	h, err := matrix.Hadamard(a, a)
	require.NoError(t, err)
	assert.Equal(t, "[1, 4]\n[9, 16]\n", h.String())

	s, err := matrix.RowSums(h)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 25}, s)

	sc, err := matrix.Scale(a, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "[0.5, 1]\n[1.5, 2]\n", sc.String())

	_, err = matrix.Scale(a, math.Inf(1))
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestCenterColumnsMasked verifies that missing cells neither pull the mean
// nor receive a non-zero centered value.
func TestCenterColumnsMasked(t *testing.T) {
	x := mustDense(t, [][]float64{{1, 0}, {0, -1}, {1, 1}})
	mask := []bool{
		true, false,
		false, true,
		true, true,
	}

	means, counts, err := matrix.MaskedColumnMeans(x, mask)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, means)
	assert.Equal(t, []int{2, 2}, counts)

	xc, _, err := matrix.CenterColumnsMasked(x, mask)
	require.NoError(t, err)
	assert.Equal(t, "[0, 0]\n[0, -1]\n[0, 1]\n", xc.String())

	_, _, err = matrix.MaskedColumnMeans(x, []bool{true})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestCovariance_Symmetric checks the sample denominator and symmetry.
func TestCovariance_Symmetric(t *testing.T) {
	x := mustDense(t, [][]float64{{1, -1}, {-1, 1}, {1, -1}, {-1, 1}})

	cov, means, err := matrix.Covariance(x, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, means)
	require.NoError(t, matrix.ValidateSymmetric(cov, 0))

	v00, _ := cov.At(0, 0)
	v01, _ := cov.At(0, 1)
	assert.InDelta(t, 4.0/3.0, v00, eps)
	assert.InDelta(t, -4.0/3.0, v01, eps)

	_, _, err = matrix.Covariance(mustDense(t, [][]float64{{1, 2}}), nil)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestEigen_TwoByTwo checks Jacobi on [[2,1],[1,2]] (eigenvalues 3 and 1).
func TestEigen_TwoByTwo(t *testing.T) {
	a := mustDense(t, [][]float64{{2, 1}, {1, 2}})

	vals, Q, err := matrix.Eigen(a, 1e-12, 100)
	require.NoError(t, err)

	sorted, vecs, err := matrix.SortEigenpairs(vals, Q, 1e-9)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, sorted[0], eps)
	assert.InDelta(t, 1.0, sorted[1], eps)
	assert.InDelta(t, math.Sqrt2/2, vecs[0][0], eps)
	assert.InDelta(t, math.Sqrt2/2, vecs[0][1], eps)
	assert.InDelta(t, math.Sqrt2/2, vecs[1][0], eps)
	assert.InDelta(t, -math.Sqrt2/2, vecs[1][1], eps)
}

// TestEigen_Errors covers asymmetric input and an exhausted rotation budget.
func TestEigen_Errors(t *testing.T) {
	_, _, err := matrix.Eigen(mustDense(t, [][]float64{{1, 2}, {0, 1}}), 1e-9, 10)
	assert.ErrorIs(t, err, matrix.ErrAsymmetry)

	a := mustDense(t, [][]float64{{4, 1, 2}, {1, 3, 1}, {2, 1, 5}})
	_, _, err = matrix.Eigen(a, 1e-12, 1)
	assert.ErrorIs(t, err, matrix.ErrEigenFailed)
}

// TestPowerIteration_Dominant compares the power method against the known
// dominant eigenpair.
func TestPowerIteration_Dominant(t *testing.T) {
	a := mustDense(t, [][]float64{{2, 1}, {1, 2}})

	lambda, v, err := matrix.PowerIteration(a, []float64{1, 0}, 1e-12, 1e-15, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, lambda, 1e-9)
	assert.InDelta(t, math.Sqrt2/2, v[0], 1e-6)
	assert.InDelta(t, math.Sqrt2/2, v[1], 1e-6)

	lambda, v, err = matrix.PowerIteration(a, []float64{0, 0}, 1e-12, 1e-15, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lambda)
	assert.Equal(t, []float64{0, 0}, v)
}

// TestPowerIteration_NoConvergence uses a matrix with two equal-magnitude
// eigenvalues of opposite sign, on which the power method oscillates.
func TestPowerIteration_NoConvergence(t *testing.T) {
	a := mustDense(t, [][]float64{{0, 1}, {1, 0}})

	_, _, err := matrix.PowerIteration(a, []float64{1, 0}, 1e-12, 1e-15, 50)
	assert.ErrorIs(t, err, matrix.ErrEigenFailed)
}

// TestTopEigenpairs_Diagonal checks deflation ordering and zero tail handling.
func TestTopEigenpairs_Diagonal(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 0, 0}, {0, 5, 0}, {0, 0, 3}})

	vals, vecs, err := matrix.TopEigenpairs(a, 2, 1e-10, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, vals[0], eps)
	assert.InDelta(t, 3.0, vals[1], eps)
	assert.InDelta(t, 1.0, vecs[0][1], eps)
	assert.InDelta(t, 1.0, vecs[1][2], eps)

	rank1 := mustDense(t, [][]float64{{1, 1}, {1, 1}})
	vals, vecs, err = matrix.TopEigenpairs(rank1, 2, 1e-10, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, vals[0], eps)
	assert.Equal(t, 0.0, vals[1])
	assert.Equal(t, []float64{0, 0}, vecs[1])
}

// TestTopEigenpairs_MisleadingDiagonal starts where the largest diagonal
// column is itself an eigenvector of the smaller eigenvalue.
func TestTopEigenpairs_MisleadingDiagonal(t *testing.T) {
	c := 4.0 / 3.0
	a := mustDense(t, [][]float64{{c, 0, 0}, {0, c, c}, {0, c, c}})

	vals, vecs, err := matrix.TopEigenpairs(a, 2, 1e-10, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 8.0/3.0, vals[0], 1e-6)
	assert.InDelta(t, 4.0/3.0, vals[1], 1e-6)
	assert.InDelta(t, 0, vecs[0][0], 1e-6)
	assert.InDelta(t, math.Sqrt2/2, vecs[0][1], 1e-6)
	assert.InDelta(t, math.Sqrt2/2, vecs[0][2], 1e-6)
	assert.InDelta(t, 1.0, vecs[1][0], 1e-6)

	vals, _, err = matrix.TopEigenpairs(mustDense(t, [][]float64{{1, 0, 0}, {0, 5, 0}, {0, 0, 3}}), 3, 1e-10, 1000)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 3, 1}, vals, 1e-6)
}

// TestTopEigenpairs_RepeatedEigenvalue orders a tied pair by the lower
// dominant column and keeps the two vectors orthogonal.
func TestTopEigenpairs_RepeatedEigenvalue(t *testing.T) {
	a := mustDense(t, [][]float64{{2, 0}, {0, 2}})

	vals, vecs, err := matrix.TopEigenpairs(a, 2, 1e-10, 1000)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 2}, vals, 1e-6)
	assert.Equal(t, 0, matrix.DominantIndex(vecs[0]))
	assert.Equal(t, 1, matrix.DominantIndex(vecs[1]))
	dot, _ := matrix.Dot(vecs[0], vecs[1])
	assert.InDelta(t, 0, dot, 1e-6)
}

// TestStartVector falls back to the ramp when the row sums cancel.
func TestStartVector(t *testing.T) {
	c := 4.0 / 3.0
	assert.Equal(t, []float64{1, 0.5}, matrix.StartVector(mustDense(t, [][]float64{{c, -c}, {-c, c}})))

	v := matrix.StartVector(mustDense(t, [][]float64{{3, 0}, {0, 4}}))
	assert.InDeltaSlice(t, []float64{0.6 + 1, 0.8 + 0.5}, v, eps)
}

// TestCanonicalSign flips vectors whose dominant entry is negative.
func TestCanonicalSign(t *testing.T) {
	v := []float64{0.1, -0.9, 0.3}
	matrix.CanonicalSign(v)
	assert.Equal(t, []float64{-0.1, 0.9, -0.3}, v)

	z := []float64{0, 0}
	matrix.CanonicalSign(z)
	assert.Equal(t, []float64{0, 0}, z)
	assert.Equal(t, -1, matrix.DominantIndex(z))
}
