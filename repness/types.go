// SPDX-License-Identifier: MIT

package repness

import "github.com/katalvlaran/agora/votes"

// Direction is the sense in which a statement represents a group.
type Direction int

const (
	// Agree means the group agrees more than the rest of the conversation.
	Agree Direction = iota
	// Disagree means the group disagrees more than the rest.
	Disagree
)

// String returns "agree" or "disagree".
func (d Direction) String() string {
	if d == Disagree {
		return "disagree"
	}

	return "agree"
}

// StatementGroupStats are the vote counts of one group on one statement
// together with the counts of its complement.
type StatementGroupStats struct {
	Statement votes.StatementID
	Group     int
	votes.Counts
	Other votes.Counts
}

// Representative is one statement selected for a group.
type Representative struct {
	Statement  votes.StatementID
	Group      int
	Direction  Direction
	EffectSize float64 // smoothed group rate / smoothed complement rate
	Z          float64
	PValue     float64 // one-sided
	GroupRate  float64
	OtherRate  float64
}

// GroupRepness lists the representative statements of one group, ordered by
// effect size descending, then lower statement id.
type GroupRepness struct {
	Group      int
	Statements []Representative
}

// Consensus is a statement broadly agreed on across groups.
type Consensus struct {
	Statement votes.StatementID
	AgreeRate float64 // smoothed, over all votes
}

// Result is the output of Compute.
//
//   - Groups is indexed by group id.
//   - Stats holds every (statement, group) pair with at least one group
//     vote, statements in column order, groups ascending.
//   - Extremity maps every statement to a value in [0, 1].
type Result struct {
	Groups    []GroupRepness
	Consensus []Consensus
	Stats     []StatementGroupStats
	Extremity map[votes.StatementID]float64
}

// Empty reports whether no statement is representative or consensus.
func (r *Result) Empty() bool {
	if len(r.Consensus) > 0 {
		return false
	}
	for _, g := range r.Groups {
		if len(g.Statements) > 0 {
			return false
		}
	}

	return true
}

// ForGroup returns the representative statements of group g.
func (r *Result) ForGroup(g int) []Representative {
	if g < 0 || g >= len(r.Groups) {
		return nil
	}

	return r.Groups[g].Statements
}

// ExtremityOf returns the extremity of s, or 0 for unknown statements.
func (r *Result) ExtremityOf(s votes.StatementID) float64 {
	return r.Extremity[s]
}
