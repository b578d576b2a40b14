package pca_test

import (
	"math"
	"testing"
	"time"

	"github.com/katalvlaran/agora/pca"
	"github.com/katalvlaran/agora/votes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

// fromRows builds a rating matrix where rows[i][j] is participant i's vote on
// statement j; a value outside {-1,0,1} leaves the cell unset.
func fromRows(rows [][]int) *votes.Matrix {
	l := votes.NewLedger()
	var batch []votes.Vote
	for i, row := range rows {
		l.Register(votes.ParticipantID(i))
		for j, v := range row {
			if v < -1 || v > 1 {
				continue
			}
			batch = append(batch, votes.Vote{
				Participant: votes.ParticipantID(i),
				Statement:   votes.StatementID(j),
				Value:       votes.Value(v),
				CreatedAt:   time.Unix(1, 0),
			})
		}
	}
	l.Apply(batch, time.Unix(1, 0))

	return l.Matrix()
}

// twoGroups returns 100 participants × 20 statements where 0–49 agree with
// 0–9 and disagree with 10–19, and 50–99 do the opposite.
func twoGroups() *votes.Matrix {
	rows := make([][]int, 100)
	for i := range rows {
		rows[i] = make([]int, 20)
		for j := range rows[i] {
			v := 1
			if j >= 10 {
				v = -1
			}
			if i >= 50 {
				v = -v
			}
			rows[i][j] = v
		}
	}

	return fromRows(rows)
}

// TestProject_Degenerate yields zero projections for one participant.
func TestProject_Degenerate(t *testing.T) {
	l := votes.NewLedger()
	l.Register(7)

	res, err := pca.Project(l.Matrix())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, res.VarianceExplained)
	assert.Equal(t, pca.SolverNone, res.Solver)
	c, ok := res.Of(7)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, c)
	assert.Equal(t, []float64{0, 0}, res.ExplainedRatio())

	one := fromRows([][]int{{1}, {-1}, {1}})
	res, err = pca.Project(one)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, res.VarianceExplained)
	assert.InDelta(t, 1.0/3.0, res.Center[0], eps)
}

// TestProject_TwoGroups recovers a rank-one split: one axis of variance
// 20·100/99, participants at ±√20 on it.
func TestProject_TwoGroups(t *testing.T) {
	res, err := pca.Project(twoGroups())
	require.NoError(t, err)
	require.Equal(t, 2, res.K())

	assert.InDelta(t, 2000.0/99.0, res.VarianceExplained[0], eps)
	assert.Equal(t, 0.0, res.VarianceExplained[1])
	assert.InDelta(t, 1.0, res.ExplainedRatio()[0], eps)

	for j, w := range res.Components[0] {
		want := 1 / math.Sqrt(20)
		if j >= 10 {
			want = -want
		}
		assert.InDelta(t, want, w, eps, "component[0][%d]", j)
	}
	for _, c := range res.Center {
		assert.Equal(t, 0.0, c)
	}

	a, _ := res.Of(0)
	b, _ := res.Of(99)
	assert.InDelta(t, math.Sqrt(20), a[0], eps)
	assert.InDelta(t, -math.Sqrt(20), b[0], eps)
	assert.InDelta(t, 0, a[1], eps)
}

// TestProject_Deterministic repeats the projection bit-for-bit.
func TestProject_Deterministic(t *testing.T) {
	m := fromRows(sample())
	a, err := pca.Project(m)
	require.NoError(t, err)
	b, err := pca.Project(m)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestProject_VarianceOrdered checks the non-increasing contract and the
// canonical sign of every non-zero component.
func TestProject_VarianceOrdered(t *testing.T) {
	res, err := pca.Project(fromRows(sample()), pca.WithComponents(3))
	require.NoError(t, err)
	for c := 1; c < res.K(); c++ {
		assert.GreaterOrEqual(t, res.VarianceExplained[c-1], res.VarianceExplained[c])
	}
	for c, comp := range res.Components {
		if res.VarianceExplained[c] == 0 {
			continue
		}
		best := 0
		for j := range comp {
			if math.Abs(comp[j]) > math.Abs(comp[best]) {
				best = j
			}
		}
		assert.Positive(t, comp[best], "component %d", c)
	}
}

// TestProject_DominantOffDiagonal uses a first statement that is the largest
// covariance diagonal but an eigenvector of the smaller eigenvalue; the split
// shared by statements 1 and 2 must still come first.
func TestProject_DominantOffDiagonal(t *testing.T) {
	m := fromRows([][]int{
		{1, 1, 1},
		{1, -1, -1},
		{-1, 1, 1},
		{-1, -1, -1},
	})

	res, err := pca.Project(m)
	require.NoError(t, err)
	assert.Equal(t, pca.SolverPower, res.Solver)
	assert.InDeltaSlice(t, []float64{8.0 / 3.0, 4.0 / 3.0}, res.VarianceExplained, eps)
	assert.InDeltaSlice(t, []float64{0, math.Sqrt2 / 2, math.Sqrt2 / 2}, res.Components[0], eps)
	assert.InDeltaSlice(t, []float64{1, 0, 0}, res.Components[1], eps)
}

// TestProject_MissedTopComponent hides the largest eigenvalue behind two
// equal diagonals that are eigenvectors themselves, and checks that the
// repeated eigenvalue behind it breaks toward the lower statement.
func TestProject_MissedTopComponent(t *testing.T) {
	m := fromRows([][]int{
		{1, 1, 1, 1},
		{1, -1, -1, -1},
		{-1, 1, -1, -1},
		{-1, -1, 1, 1},
	})

	res, err := pca.Project(m)
	require.NoError(t, err)
	assert.Equal(t, pca.SolverPower, res.Solver)
	assert.InDeltaSlice(t, []float64{8.0 / 3.0, 4.0 / 3.0}, res.VarianceExplained, eps)
	assert.InDelta(t, 16.0/3.0, res.TotalVariance, eps)
	assert.InDeltaSlice(t, []float64{0, 0, math.Sqrt2 / 2, math.Sqrt2 / 2}, res.Components[0], eps)

	second := res.Components[1]
	assert.Greater(t, second[0], math.Abs(second[1]), "tie resolves to statement 0")
	assert.InDelta(t, 0, second[2], eps)
	assert.InDelta(t, 0, second[3], eps)

	fb, err := pca.Project(m, pca.WithMaxIterations(1))
	require.NoError(t, err)
	assert.Equal(t, pca.SolverJacobi, fb.Solver)
	assert.InDeltaSlice(t, res.VarianceExplained, fb.VarianceExplained, eps)
	assert.Greater(t, fb.Components[1][0], math.Abs(fb.Components[1][1]))
}

// TestProject_JacobiFallback starves the power method and expects the
// Jacobi decomposition to produce the same spectrum.
func TestProject_JacobiFallback(t *testing.T) {
	m := fromRows(sample())
	ref, err := pca.Project(m)
	require.NoError(t, err)

	fb, err := pca.Project(m, pca.WithMaxIterations(1))
	require.NoError(t, err)
	assert.Equal(t, pca.SolverJacobi, fb.Solver)
	for c := range ref.VarianceExplained {
		assert.InDelta(t, ref.VarianceExplained[c], fb.VarianceExplained[c], eps)
		for j := range ref.Components[c] {
			assert.InDelta(t, ref.Components[c][j], fb.Components[c][j], eps)
		}
	}
}

// TestProject_SparsityScaling stretches participants with few votes.
func TestProject_SparsityScaling(t *testing.T) {
	m := fromRows([][]int{{1, 1}, {-1, -1}, {1, 9}})

	plain, err := pca.Project(m)
	require.NoError(t, err)
	scaled, err := pca.Project(m, pca.WithSparsityScaling())
	require.NoError(t, err)

	p2, _ := plain.Of(2)
	s2, _ := scaled.Of(2)
	require.NotZero(t, p2[0])
	assert.InDelta(t, math.Sqrt2*p2[0], s2[0], eps)

	p0, _ := plain.Of(0)
	s0, _ := scaled.Of(0)
	assert.Equal(t, p0, s0, "full voters are not rescaled")
}

// TestProject_Errors covers option validation and nil input.
func TestProject_Errors(t *testing.T) {
	m := fromRows(sample())

	_, err := pca.Project(nil)
	assert.ErrorIs(t, err, pca.ErrNilMatrix)
	_, err = pca.Project(m, pca.WithComponents(0))
	assert.ErrorIs(t, err, pca.ErrBadComponents)
	_, err = pca.Project(m, pca.WithTolerance(math.NaN()))
	assert.ErrorIs(t, err, pca.ErrBadTolerance)
	_, err = pca.Project(m, pca.WithMaxIterations(0))
	assert.ErrorIs(t, err, pca.ErrBadIterations)
}

// TestSolver_String names every solver.
func TestSolver_String(t *testing.T) {
	assert.Equal(t, "power", pca.SolverPower.String())
	assert.Equal(t, "jacobi", pca.SolverJacobi.String())
	assert.Equal(t, "none", pca.SolverNone.String())
}

// sample is a small irregular rating matrix with a missing cell.
func sample() [][]int {
	return [][]int{
		{1, 1, -1},
		{1, -1, -1},
		{-1, 1, 1},
		{-1, -1, 1},
		{1, 1, 1},
		{0, -1, 9},
	}
}
