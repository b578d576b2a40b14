// SPDX-License-Identifier: MIT

package votes

import (
	"fmt"
	"time"

	"github.com/katalvlaran/agora/labeled"
)

// ParticipantID identifies a participant within a conversation.
type ParticipantID int64

// StatementID identifies a statement (comment) within a conversation.
type StatementID int64

// Value is a single rating. The zero value is a pass; a missing cell in the
// matrix means no vote was cast, which is distinct from a pass.
type Value int8

const (
	// Disagree is a negative rating.
	Disagree Value = -1
	// Pass is an explicit abstention.
	Pass Value = 0
	// Agree is a positive rating.
	Agree Value = 1
)

// Valid reports whether v is one of Disagree, Pass, Agree.
func (v Value) Valid() bool { return v >= Disagree && v <= Agree }

// String returns "agree", "disagree", "pass" or the raw number.
func (v Value) String() string {
	switch v {
	case Agree:
		return "agree"
	case Disagree:
		return "disagree"
	case Pass:
		return "pass"
	default:
		return fmt.Sprintf("Value(%d)", int8(v))
	}
}

// Vote is one immutable rating event.
type Vote struct {
	Participant ParticipantID
	Statement   StatementID
	Value       Value
	CreatedAt   time.Time
}

// Record is the stored state of one matrix cell.
type Record struct {
	Value     Value
	CreatedAt time.Time
}

// Matrix is the participant × statement rating matrix.
type Matrix = labeled.Matrix[ParticipantID, StatementID, Record]

// NewMatrix returns an empty rating matrix.
func NewMatrix() *Matrix { return labeled.New[ParticipantID, StatementID, Record]() }

// Float maps a stored record to its numeric rating.
func Float(r Record) float64 { return float64(r.Value) }

// Counts aggregates the current votes on one statement.
type Counts struct {
	Agree    int
	Disagree int
	Pass     int
	Total    int
}

// Add folds one value into c.
func (c *Counts) Add(v Value) {
	switch v {
	case Agree:
		c.Agree++
	case Disagree:
		c.Disagree++
	default:
		c.Pass++
	}
	c.Total++
}

// RejectedVote pairs a skipped vote with the reason.
type RejectedVote struct {
	Vote Vote
	Err  error
}

// Report summarizes the outcome of one Apply call.
//
//   - Accepted:  cells stored or overwritten.
//   - Unchanged: identical to the stored record (idempotent replays).
//   - Stale:     discarded because a newer record is stored.
//   - Rejected:  malformed votes, each wrapping ErrInvalidValue.
type Report struct {
	Accepted  int
	Unchanged int
	Stale     int
	Rejected  []RejectedVote
}

// Changed reports whether the batch modified the matrix.
func (r Report) Changed() bool { return r.Accepted > 0 }

// Merge adds o into r.
func (r *Report) Merge(o Report) {
	r.Accepted += o.Accepted
	r.Unchanged += o.Unchanged
	r.Stale += o.Stale
	r.Rejected = append(r.Rejected, o.Rejected...)
}

// Watermark returns the latest CreatedAt in batch, or the zero time.
func Watermark(batch []Vote) time.Time {
	var w time.Time
	for i := range batch {
		if batch[i].CreatedAt.After(w) {
			w = batch[i].CreatedAt
		}
	}

	return w
}
