// SPDX-License-Identifier: MIT

// Package store persists conversation data in SQLite.
//
// It is the vote source and result sink around the engine: votes are
// appended per conversation and read back in created-at order, meta flags
// and externally computed extremity feed the priority stage, and the last
// computed priorities are written back for the routing layer.
//
// Timestamps are stored as unix milliseconds. A Store is safe for
// concurrent use.
package store
