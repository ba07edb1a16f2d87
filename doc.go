// Package satsolver implements a conflict-driven clause-learning (CDCL)
// decision procedure for Boolean satisfiability over formulas in
// conjunctive normal form, plus a weighted-optimization mode
// (Maximum-Weight-SAT over a hard CNF) built on the same search engine.
//
// The solver is organized around four collaborating pieces: a clause
// store with a coarse two-watched-literal index, an append-only trail
// that records both branching decisions and propagated deductions, a
// bounded-resolution conflict analyzer, and a pluggable Policy that
// decides what to branch on next and when a found model is acceptable.
// Plain satisfiability and MWCNF optimization share the same engine and
// differ only in which Policy is plugged in; see NewSolver and
// (*Solver).Solve.
package satsolver
