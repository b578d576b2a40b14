// SPDX-License-Identifier: MIT

package cluster

import "github.com/katalvlaran/agora/votes"

// Group is one opinion group.
//
//   - ID is a small non-negative integer, stable within one Result only.
//   - Members are listed in participant order and never empty.
//   - Centroid is the mean of the members' coordinates.
type Group struct {
	ID       int
	Members  []votes.ParticipantID
	Centroid []float64
}

// Size returns the number of members.
func (g Group) Size() int { return len(g.Members) }

// Candidate records how one k fared during selection.
type Candidate struct {
	K          int
	Sizes      []int
	Inertia    float64
	Silhouette float64
	Admissible bool
}

// Result is one clustering of a projection.
//
//   - Groups are disjoint; with Unassigned they cover every participant.
//   - K is the chosen candidate k (1 for the single-group fallback, 0 for
//     no participants).
type Result struct {
	Groups     []Group
	Unassigned []votes.ParticipantID
	K          int
	Silhouette float64
	Candidates []Candidate
	index      map[votes.ParticipantID]int
}

// GroupOf returns the group id of participant p, or false when p is
// unassigned or unknown.
func (r *Result) GroupOf(p votes.ParticipantID) (int, bool) {
	g, ok := r.index[p]
	return g, ok
}

// Sizes returns the member count of every group in id order.
func (r *Result) Sizes() []int {
	out := make([]int, len(r.Groups))
	for i, g := range r.Groups {
		out[i] = g.Size()
	}

	return out
}
