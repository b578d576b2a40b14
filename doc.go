// SPDX-License-Identifier: MIT

// Package agora is an opinion-group analysis engine for deliberation
// platforms: participants vote agree / disagree / pass on short
// statements, and agora finds who thinks alike and what divides them.
//
// 🚀 What is agora?
//
//	A concurrent, deterministic pipeline over a sparse vote matrix:
//		• Ledger: timestamped votes folded into a participant × statement matrix
//		• Projection: masked PCA into a low-dimensional opinion space
//		• Grouping: k-means with silhouette-driven choice of k
//		• Representativeness: per-group statements via two-proportion z-tests
//		• Consensus & extremity: broadly shared and most divisive statements
//		• Priority: which statement to show a participant next
//
// ✨ Properties
//
//   - Deterministic: fixed seeds, canonical eigenvector signs, stable ids
//   - Safe to share: ingestion never waits for analysis; readers see
//     immutable snapshots
//   - Degenerate-friendly: empty or tiny conversations yield trivial results,
//     not errors
//
// Packages, bottom-up:
//
//	matrix/       : dense kernels, masked statistics, eigen solvers
//	labeled/      : growable matrix keyed by stable row/column ids
//	votes/        : vote values, the ledger and per-statement counts
//	pca/          : projection of participants
//	cluster/      : k-means, silhouette, group selection
//	repness/      : representative & consensus statements, correlations
//	priority/     : statement routing priority
//	conversation/ : the orchestrator tying the stages together
//	store/        : SQLite vote source and result sink
//	worker/       : periodic ingestion & recompute across conversations
//	config/       : YAML configuration
//	cmd/agora     : command-line entry point
//
// Quick start:
//
//	c, _ := conversation.New(conversation.WithID("budget-2026"))
//	c.UpdateVotes(batch, votes.Watermark(batch), true)
//	for _, g := range c.Groups() {
//		fmt.Println(g.ID, g.Size())
//	}
//
//	go install github.com/katalvlaran/agora/cmd/agora@latest
package agora
