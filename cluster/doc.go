// SPDX-License-Identifier: MIT

// Package cluster partitions participants' projected coordinates into
// opinion groups.
//
// Algorithm:
//   - For every candidate k in [MinGroups, MaxGroups], run k-means
//     (k-means++ seeding, Lloyd iterations, best of Restarts by inertia).
//   - A candidate is admissible when at least two of its clusters reach
//     MinGroupSize members and the input has at least k distinct points.
//   - The admissible candidate with the highest mean silhouette wins; ties
//     prefer the smaller k.
//   - Clusters of the winner below MinGroupSize are dropped and their members
//     reported as unassigned.
//
// Degenerate cases return a single group containing every participant and no
// unassigned members: fewer than MinGroupSize participants, or no admissible
// candidate.
//
// Determinism:
//
//	All randomness flows from Options.Seed through math/rand streams derived
//	with a SplitMix64 mixer, so identical coordinates and seed produce the same
//	partition. Group ids follow the order of each group's earliest participant,
//	so they are stable within one run but carry no meaning across runs.
package cluster
