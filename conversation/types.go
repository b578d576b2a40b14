// SPDX-License-Identifier: MIT

package conversation

import (
	"context"
	"time"

	"github.com/katalvlaran/agora/cluster"
	"github.com/katalvlaran/agora/pca"
	"github.com/katalvlaran/agora/repness"
	"github.com/katalvlaran/agora/votes"
)

// ExtremitySource supplies externally computed extremity values, keyed by
// conversation id and statement. Statements it does not know fall back to
// the extremity derived by repness.
type ExtremitySource interface {
	ExtremityFor(ctx context.Context, conversation string) (map[votes.StatementID]float64, error)
}

// ExtremityMap is a static ExtremitySource for a single conversation.
type ExtremityMap map[votes.StatementID]float64

// ExtremityFor returns m regardless of the conversation id.
func (m ExtremityMap) ExtremityFor(context.Context, string) (map[votes.StatementID]float64, error) {
	return m, nil
}

// Snapshot is the immutable result of one pipeline run.
//
//   - Version and Watermark are those of the ledger the run read.
//   - Matrix is the private copy of the ratings the run analyzed.
type Snapshot struct {
	Version      uint64
	Watermark    time.Time
	ComputedAt   time.Time
	Elapsed      time.Duration
	Matrix       *votes.Matrix
	Projection   *pca.Result
	Clusters     *cluster.Result
	Repness      *repness.Result
	Correlations *repness.Correlations
	Priorities   map[votes.StatementID]int
}

// Groups returns the opinion groups of the snapshot.
func (s *Snapshot) Groups() []cluster.Group { return s.Clusters.Groups }
