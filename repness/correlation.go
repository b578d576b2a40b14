// SPDX-License-Identifier: MIT

package repness

import (
	"fmt"
	"math"

	"github.com/katalvlaran/agora/cluster"
	"github.com/katalvlaran/agora/matrix"
	"github.com/katalvlaran/agora/votes"
)

// corrEps is the smallest variance product treated as non-degenerate.
const corrEps = 1e-12

// Correlations holds the Pearson correlation of every participant's votes
// with every group's mean vote profile.
//
//   - Values[i][g] belongs to Participants[i] and group g, in [-1, 1].
//   - A participant with fewer than two votes, or with no variation in
//     either series, correlates 0.
type Correlations struct {
	Participants []votes.ParticipantID
	Values       [][]float64
	index        map[votes.ParticipantID]int
}

// Of returns the per-group correlations of participant p.
func (c *Correlations) Of(p votes.ParticipantID) ([]float64, bool) {
	i, ok := c.index[p]
	if !ok {
		return nil, false
	}

	return c.Values[i], true
}

// ParticipantCorrelations correlates each participant's observed votes with
// each group's profile (the mean vote of its members per statement).
// Implementation:
//   - Stage 1: V (votes, 0 if unset), M (mask) and the membership
//     indicator B; profiles P = (Vᵀ·B) ⊘ (Mᵀ·B).
//   - Stage 2: per participant and group, over the participant's observed
//     statements: Σxy = V·P, Σy = M·P, Σy² = M·(P∘P), Σx and Σx² from row
//     sums of V and V∘V, n from row sums of M.
//   - Stage 3: r = (nΣxy − ΣxΣy) / sqrt((nΣx² − Σx²)(nΣy² − Σy²)).
//
// Errors:
//   - ErrNilMatrix; matrix kernel errors (wrapped).
//
// Complexity: Time O(p·s·G), Space O(p·s + s·G).
func ParticipantCorrelations(m *votes.Matrix, groups []cluster.Group) (*Correlations, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	p, s, G := m.Rows(), m.Cols(), len(groups)

	V, maskBits, err := m.Dense(votes.Float)
	if err != nil {
		return nil, fmt.Errorf("repness: correlations: %w", err)
	}
	M, _ := matrix.NewDense(p, s)
	for k, ok := range maskBits {
		if ok {
			_ = M.Set(k/s, k%s, 1)
		}
	}
	B, _ := matrix.NewDense(p, G)
	for g, grp := range groups {
		for _, id := range grp.Members {
			if i, ok := m.LookupRow(id); ok {
				_ = B.Set(i, g, 1)
			}
		}
	}

	P, err := profiles(V, M, B)
	if err != nil {
		return nil, fmt.Errorf("repness: correlations: %w", err)
	}
	PP, err := matrix.Hadamard(P, P)
	if err != nil {
		return nil, fmt.Errorf("repness: correlations: %w", err)
	}
	VV, err := matrix.Hadamard(V, V)
	if err != nil {
		return nil, fmt.Errorf("repness: correlations: %w", err)
	}
	sxy, err := matrix.Mul(V, P)
	if err != nil {
		return nil, fmt.Errorf("repness: correlations: %w", err)
	}
	sy, err := matrix.Mul(M, P)
	if err != nil {
		return nil, fmt.Errorf("repness: correlations: %w", err)
	}
	syy, err := matrix.Mul(M, PP)
	if err != nil {
		return nil, fmt.Errorf("repness: correlations: %w", err)
	}
	sx, _ := matrix.RowSums(V)
	sxx, _ := matrix.RowSums(VV)
	n, _ := matrix.RowSums(M)

	out := &Correlations{
		Participants: m.RowIDs(),
		Values:       make([][]float64, p),
		index:        make(map[votes.ParticipantID]int, p),
	}
	for i := 0; i < p; i++ {
		out.index[out.Participants[i]] = i
		out.Values[i] = make([]float64, G)
		if n[i] < 2 {
			continue
		}
		vx := n[i]*sxx[i] - sx[i]*sx[i]
		for g := 0; g < G; g++ {
			xy, _ := sxy.At(i, g)
			y, _ := sy.At(i, g)
			yy, _ := syy.At(i, g)
			vy := n[i]*yy - y*y
			den := math.Sqrt(vx * vy)
			if !(den > corrEps) {
				continue
			}
			r := (n[i]*xy - sx[i]*y) / den
			out.Values[i][g] = math.Max(-1, math.Min(1, r))
		}
	}

	return out, nil
}

// profiles returns the s×G matrix of group mean votes, 0 where a group cast
// no vote on a statement.
func profiles(V, M, B *matrix.Dense) (*matrix.Dense, error) {
	Vt, err := matrix.Transpose(V)
	if err != nil {
		return nil, err
	}
	Mt, err := matrix.Transpose(M)
	if err != nil {
		return nil, err
	}
	sum, err := matrix.Mul(Vt, B)
	if err != nil {
		return nil, err
	}
	cnt, err := matrix.Mul(Mt, B)
	if err != nil {
		return nil, err
	}
	s, G := sum.Shape()
	for j := 0; j < s; j++ {
		for g := 0; g < G; g++ {
			c, _ := cnt.At(j, g)
			if c == 0 {
				continue
			}
			v, _ := sum.At(j, g)
			if err = sum.Set(j, g, v/c); err != nil {
				return nil, err
			}
		}
	}

	return sum, nil
}
