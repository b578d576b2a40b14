// SPDX-License-Identifier: MIT

// Package conversation orchestrates the analysis of one deliberation.
//
// A Conversation owns a votes.Ledger and the cached outputs of the last
// completed pipeline run:
//
//	votes ─▶ ledger ─▶ pca.Project ─▶ cluster.Partition ─▶ repness.Compute
//	                                                     └▶ priorities
//
// Caches are published as immutable Snapshots through an atomic pointer.
// Readers never lock: the previous snapshot stays readable until the next
// one fully replaces it, and a snapshot never replaces one computed from a
// newer ledger version.
//
// Concurrency:
//   - Ingestion (UpdateVotes, AddParticipants, MarkMeta) serializes on the
//     ledger mutex only, so votes that arrive while a pipeline runs are folded
//     into the live ledger for the next run.
//   - At most one pipeline runs per Conversation.
//   - RecomputeContext honors its context while waiting and while the
//     pipeline runs; on expiry the pipeline still runs to completion but its
//     result is discarded.
//
// Failures are scoped to one run: any stage error or recovered panic leaves
// the previous snapshot in place.
package conversation
