// SPDX-License-Identifier: MIT

// Package worker keeps a set of conversations in step with a vote source.
//
// Each round lists the known conversations, pages new votes into each
// Conversation from its last watermark and recomputes the ones whose
// ledger moved. Rounds fan out over an errgroup with a concurrency limit;
// recomputes are throttled per conversation by a token bucket and bounded
// by a timeout, after which the in-flight result is discarded. Votes are
// always ingested, so a throttled or discarded recompute is simply picked
// up by a later round.
//
// Priorities of every published snapshot are handed to an optional Sink.
package worker
