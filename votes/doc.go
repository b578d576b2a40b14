// SPDX-License-Identifier: MIT

// Package votes implements incremental ingestion of participant ratings.
//
// A Vote is one (participant, statement, value, created_at) record. The
// Ledger folds batches of votes into a labeled rating matrix under
// last-writer-wins semantics keyed on logical time, not arrival order:
//
//	unset cell            → store
//	incoming ≥ stored     → overwrite (identical record ⇒ unchanged)
//	incoming < stored     → discard as stale
//
// Values outside {-1, 0, +1} are rejected per vote; the rest of the batch is
// still applied. Re-applying an identical batch leaves the matrix, the
// watermark and the version untouched.
//
// Concurrency: a Ledger is not safe for concurrent use. The conversation
// package serializes access to it.
package votes
