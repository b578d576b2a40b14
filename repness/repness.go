// SPDX-License-Identifier: MIT

package repness

import (
	"math"
	"sort"

	"github.com/katalvlaran/agora/cluster"
	"github.com/katalvlaran/agora/votes"
)

// tally holds the per-statement vote counts of every group plus the total.
type tally struct {
	group []votes.Counts // indexed by group id
	all   votes.Counts
}

// Compute derives per-group statistics, representative and consensus
// statements and per-statement extremity from m and groups.
// Implementation:
//   - Stage 1: map matrix rows to group ids; one pass over set cells tallies
//     counts per (statement, group) and per statement.
//   - Stage 2: per pair, record stats; if testable, run the agree and
//     disagree z-tests and keep the stronger significant direction.
//   - Stage 3: sort and cap per group; derive consensus and extremity.
//
// Groups are identified by their index in groups. Members unknown to m are
// ignored.
//
// Errors:
//   - ErrNilMatrix, option errors.
//
// Complexity: Time O(cells + s·G²), Space O(s·G).
func Compute(m *votes.Matrix, groups []cluster.Group, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNilMatrix
	}

	G, s := len(groups), m.Cols()
	tallies := tallyVotes(m, groups)

	res := &Result{
		Groups:    make([]GroupRepness, G),
		Extremity: make(map[votes.StatementID]float64, s),
	}
	for g := range res.Groups {
		res.Groups[g].Group = g
	}
	represented := make([]bool, s)

	for j := 0; j < s; j++ {
		sid := m.ColID(j)
		t := &tallies[j]
		for g := 0; g < G; g++ {
			in := t.group[g]
			if in.Total == 0 {
				continue
			}
			other := sub(t.all, in)
			res.Stats = append(res.Stats, StatementGroupStats{Statement: sid, Group: g, Counts: in, Other: other})
			if in.Total < o.MinVotes || other.Total == 0 {
				continue
			}
			if rep, ok := significance(sid, g, in, other, o.ZThreshold); ok {
				res.Groups[g].Statements = append(res.Groups[g].Statements, rep)
				represented[j] = true
			}
		}
		res.Extremity[sid] = extremity(t, o.MinVotes)
	}

	for g := range res.Groups {
		list := res.Groups[g].Statements
		sort.SliceStable(list, func(a, b int) bool {
			if list[a].EffectSize != list[b].EffectSize {
				return list[a].EffectSize > list[b].EffectSize
			}

			return list[a].Statement < list[b].Statement
		})
		if o.MaxPerGroup > 0 && len(list) > o.MaxPerGroup {
			res.Groups[g].Statements = list[:o.MaxPerGroup]
		}
	}

	for j := 0; j < s; j++ {
		if represented[j] {
			continue
		}
		t := &tallies[j]
		rate := SmoothedRate(t.all.Agree, t.all.Total)
		if rate <= o.ConsensusThreshold || split(t, o) {
			continue
		}
		res.Consensus = append(res.Consensus, Consensus{Statement: m.ColID(j), AgreeRate: rate})
	}
	sort.SliceStable(res.Consensus, func(a, b int) bool {
		ca, cb := res.Consensus[a], res.Consensus[b]
		if ca.AgreeRate != cb.AgreeRate {
			return ca.AgreeRate > cb.AgreeRate
		}

		return ca.Statement < cb.Statement
	})

	return res, nil
}

// tallyVotes counts the votes of every statement per group in one pass.
func tallyVotes(m *votes.Matrix, groups []cluster.Group) []tally {
	rowGroup := make([]int, m.Rows())
	for i := range rowGroup {
		rowGroup[i] = -1
	}
	for g, grp := range groups {
		for _, p := range grp.Members {
			if i, ok := m.LookupRow(p); ok {
				rowGroup[i] = g
			}
		}
	}

	tallies := make([]tally, m.Cols())
	for j := range tallies {
		tallies[j].group = make([]votes.Counts, len(groups))
	}
	m.Each(func(i, j int, r votes.Record) bool {
		t := &tallies[j]
		t.all.Add(r.Value)
		if g := rowGroup[i]; g >= 0 {
			t.group[g].Add(r.Value)
		}

		return true
	})

	return tallies
}

// significance runs both directional z-tests and returns the stronger significant one.
func significance(sid votes.StatementID, g int, in, other votes.Counts, threshold float64) (Representative, bool) {
	za := TwoPropZ(in.Agree, in.Total, other.Agree, other.Total)
	zd := TwoPropZ(in.Disagree, in.Total, other.Disagree, other.Total)

	dir, z, x1, x2 := Agree, za, in.Agree, other.Agree
	if zd > za {
		dir, z, x1, x2 = Disagree, zd, in.Disagree, other.Disagree
	}
	if z < threshold {
		return Representative{}, false
	}
	p1 := SmoothedRate(x1, in.Total)
	p2 := SmoothedRate(x2, other.Total)

	return Representative{
		Statement:  sid,
		Group:      g,
		Direction:  dir,
		EffectSize: p1 / p2,
		Z:          z,
		PValue:     PValue(z),
		GroupRate:  p1,
		OtherRate:  p2,
	}, true
}

// split reports whether any two groups that meet MinVotes differ
// significantly in their agree rate on the statement.
func split(t *tally, o Options) bool {
	for g := range t.group {
		a := t.group[g]
		if a.Total < o.MinVotes {
			continue
		}
		for h := g + 1; h < len(t.group); h++ {
			b := t.group[h]
			if b.Total < o.MinVotes {
				continue
			}
			if math.Abs(TwoPropZ(a.Agree, a.Total, b.Agree, b.Total)) >= o.ZThreshold {
				return true
			}
		}
	}

	return false
}

// extremity is the largest absolute difference between a qualifying group's
// smoothed (agree, disagree, pass) rates and the global ones, within [0, 1].
func extremity(t *tally, minVotes int) float64 {
	global := rates(t.all)
	best := 0.0
	for _, c := range t.group {
		if c.Total < minVotes {
			continue
		}
		r := rates(c)
		for d := range r {
			if v := math.Abs(r[d] - global[d]); v > best {
				best = v
			}
		}
	}

	return math.Min(1, best)
}

func rates(c votes.Counts) [3]float64 {
	return [3]float64{
		SmoothedRate(c.Agree, c.Total),
		SmoothedRate(c.Disagree, c.Total),
		SmoothedRate(c.Pass, c.Total),
	}
}

func sub(a, b votes.Counts) votes.Counts {
	return votes.Counts{
		Agree:    a.Agree - b.Agree,
		Disagree: a.Disagree - b.Disagree,
		Pass:     a.Pass - b.Pass,
		Total:    a.Total - b.Total,
	}
}
