// SPDX-License-Identifier: MIT

package votes

import (
	"fmt"
	"time"
)

// Ledger owns the rating matrix of one conversation together with its
// high-watermark timestamp and a version counter.
//
// Invariants:
//   - Each (participant, statement) cell holds at most one Record.
//   - A cell never regresses to an older CreatedAt.
//   - version increases by one for every call that changes the matrix,
//     the registered participants or the watermark, and never otherwise.
type Ledger struct {
	m         *Matrix
	watermark time.Time
	version   uint64
}

// NewLedger returns an empty ledger at version 0.
func NewLedger() *Ledger {
	return &Ledger{m: NewMatrix()}
}

// Apply folds batch into the matrix and advances the watermark to
// max(current, watermark).
// Implementation:
//   - Stage 1: reject votes whose Value is not Valid; continue with the rest.
//   - Stage 2: per vote, store if the cell is unset or incoming.CreatedAt is not
//     before the stored one; identical records count as Unchanged.
//   - Stage 3: advance the watermark and bump the version if anything changed.
//
// Complexity: O(len(batch)) amortized.
func (l *Ledger) Apply(batch []Vote, watermark time.Time) Report {
	var rep Report
	for _, v := range batch {
		if !v.Value.Valid() {
			rep.Rejected = append(rep.Rejected, RejectedVote{
				Vote: v,
				Err: fmt.Errorf("participant %d statement %d value %d: %w",
					v.Participant, v.Statement, int8(v.Value), ErrInvalidValue),
			})
			continue
		}
		stored, ok := l.m.Get(v.Participant, v.Statement)
		switch {
		case ok && v.CreatedAt.Before(stored.CreatedAt):
			rep.Stale++
		case ok && stored.Value == v.Value && stored.CreatedAt.Equal(v.CreatedAt):
			rep.Unchanged++
		default:
			l.m.Set(v.Participant, v.Statement, Record{Value: v.Value, CreatedAt: v.CreatedAt})
			rep.Accepted++
		}
	}

	advanced := watermark.After(l.watermark)
	if advanced {
		l.watermark = watermark
	}
	if rep.Accepted > 0 || advanced {
		l.version++
	}

	return rep
}

// Register adds participants that have not voted yet and returns how many
// were new. The version is bumped only when at least one id is new.
func (l *Ledger) Register(ids ...ParticipantID) int {
	added := 0
	for _, id := range ids {
		if l.m.AddRow(id) {
			added++
		}
	}
	if added > 0 {
		l.version++
	}

	return added
}

// Matrix returns the live matrix. Callers must not mutate it; use Snapshot
// for a copy that outlives the next Apply.
func (l *Ledger) Matrix() *Matrix { return l.m }

// Snapshot returns a deep copy of the rating matrix.
func (l *Ledger) Snapshot() *Matrix { return l.m.Clone() }

// Version returns the change counter.
func (l *Ledger) Version() uint64 { return l.version }

// Watermark returns the latest batch watermark seen.
func (l *Ledger) Watermark() time.Time { return l.watermark }

// Participants returns the number of known participants.
func (l *Ledger) Participants() int { return l.m.Rows() }

// Statements returns the number of statements with at least one vote.
func (l *Ledger) Statements() int { return l.m.Cols() }

// Counts returns the vote counts on statement s. Unknown statements yield
// zero counts.
// Complexity: O(participants).
func (l *Ledger) Counts(s StatementID) Counts {
	return CountStatement(l.m, s)
}

// AllCounts returns vote counts for every statement in column order.
// Complexity: O(set cells + statements).
func (l *Ledger) AllCounts() []StatementCounts {
	return CountAll(l.m)
}

// StatementCounts pairs a statement with its counts.
type StatementCounts struct {
	Statement StatementID
	Counts
}

// CountStatement tallies the votes on s in m.
func CountStatement(m *Matrix, s StatementID) Counts {
	var c Counts
	j, ok := m.LookupCol(s)
	if !ok {
		return c
	}
	for i := 0; i < m.Rows(); i++ {
		if r, set := m.At(i, j); set {
			c.Add(r.Value)
		}
	}

	return c
}

// CountAll tallies every statement of m in column order.
func CountAll(m *Matrix) []StatementCounts {
	out := make([]StatementCounts, m.Cols())
	for j := range out {
		out[j].Statement = m.ColID(j)
	}
	m.Each(func(_, j int, r Record) bool {
		out[j].Add(r.Value)
		return true
	})

	return out
}
