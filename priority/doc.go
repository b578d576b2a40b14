// SPDX-License-Identifier: MIT

// Package priority scores statements for presentation order.
//
// The score combines Laplace-smoothed vote rates with an externally supplied
// extremity E ∈ [0,1]:
//
//	P          = max(0, S - A - D)
//	p          = (P+1)/(S+2)           pass rate
//	a          = (A+1)/(S+2)           agree rate
//	importance = (1-p)·(E+1)·a
//	scaling    = 1 + 8·2^(-S/5)        favors new statements
//	priority   = ⌊(importance·scaling)²⌋
//
// Meta statements bypass the formula and always score MetaPriority² = 49.
//
// Every function is pure. Inputs are not validated by the scoring functions;
// callers check them with ValidateInputs first.
package priority
