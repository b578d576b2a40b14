// SPDX-License-Identifier: MIT

// Package repness finds the statements that characterize each opinion
// group, the statements every group agrees on, and how divisive each
// statement is.
//
// For every (statement, group) pair the group's votes are compared with the
// votes of everyone outside the group (the complement, unassigned
// participants included). Rates are Laplace-smoothed, (count+1)/(total+2),
// and compared with a one-sided two-proportion z-test:
//
//	p₁ = (a_g+1)/(n_g+2)   p₂ = (a_c+1)/(n_c+2)
//	p  = (a_g+a_c+2)/(n_g+n_c+4)
//	z  = (p₁-p₂) / sqrt(p(1-p)(1/(n_g+2) + 1/(n_c+2)))
//
// A pair is tested only when the group cast at least MinVotes votes on the
// statement and the complement cast at least one. A statement is
// representative for a group in the direction (agree or disagree) whose z
// reaches ZThreshold; when both do, the larger z wins. The effect size is
// p₁/p₂.
//
// ParticipantCorrelations expresses the per-participant correlation pass
// against group vote profiles as dense matrix products.
package repness
