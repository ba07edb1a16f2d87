package satsolver

import "fmt"

// Outcome is the terminal result of a call to Solve.
type Outcome int

const (
	// Unsatisfiable means the search proved, by exhaustion, that no
	// satisfying assignment exists.
	Unsatisfiable Outcome = iota
	// Satisfiable means a model was found (and, for weighted search, no
	// better one remains to be found).
	Satisfiable
)

func (o Outcome) String() string {
	if o == Satisfiable {
		return "SAT"
	}
	return "UNSAT"
}

// Solver owns all state for one run of the search: the clause store, the
// watcher index, the trail, and the pluggable Policy. It has no
// concurrency story: a Solver is used by exactly one
// goroutine for the duration of Solve.
type Solver struct {
	nvars int

	clauses   []*Clause
	givenLen  int // clauses[:givenLen] are the caller's originals
	locked    []bool
	watchers  *watcherIndex
	status    []varStatus
	assigns   []lbool // indexed by Literal (2*var+polarity)
	trail     trail
	level      int
	policy     Policy
	modelFound bool

	numDecisions    int64
	numImplications int64

	// trivially unsatisfiable at construction time, e.g. two contradicting
	// unit clauses in the input.
	triviallyUnsat bool

	// Trace, when non-nil, receives human-readable progress lines. Wired
	// from the CLI's -trace flag.
	Trace func(format string, args ...any)
}

// NewSolver builds a Solver for nvars variables and the given original
// clauses (each a slice of Literals without duplicate literals; a
// tautological clause is accepted and never forces anything), using
// policy for branching and value selection.
func NewSolver(nvars int, clauseLits [][]Literal, policy Policy) *Solver {
	s := &Solver{
		nvars:    nvars,
		watchers: newWatcherIndex(nvars),
		status:   make([]varStatus, nvars),
		assigns:  make([]lbool, 2*nvars),
		policy:   policy,
	}

	for i := range s.assigns {
		s.assigns[i] = lUndef
	}

	// Ingest: unit clauses are fixed immediately onto the trail; clauses of
	// size two or more are registered with the watcher index; empty
	// clauses are unreachable here because the parser drops them,
	// but are tolerated defensively by marking the
	// instance unsatisfiable.
	for _, lits := range clauseLits {
		switch len(lits) {
		case 0:
			s.triviallyUnsat = true
		case 1:
			s.fixUnit(lits[0])
		default:
			s.appendClause(lits, false)
		}
	}
	s.givenLen = len(s.clauses)
	s.locked = make([]bool, s.givenLen)

	s.level = s.trail.len()

	return s
}

// fixUnit records a top-level unit assignment on the trail, detecting a
// direct contradiction against an earlier unit on the same variable.
func (s *Solver) fixUnit(lit Literal) {
	if s.triviallyUnsat {
		return
	}
	v := lit.Var()
	switch s.assigns[lit] {
	case lTrue:
		return // already fixed to this value by an earlier unit clause
	case lFalse:
		s.triviallyUnsat = true
		return
	}

	s.assigns[lit] = lTrue
	s.assigns[lit.Negate()] = lFalse
	s.trail.push(lit, reason{kind: reasonBranch, choice: branchSecond})
	s.status[v] = varStatus{
		kind:       kindFixed,
		value:      lit.Positive(),
		level:      s.trail.len(),
		antecedent: -1,
	}
	s.policy.OnAssign(s, lit)
}

// appendClause adds a new clause to the store with the given initial
// locked flag and registers its watchers. Originals occupy indices below
// givenLen, learnts the suffix after it.
func (s *Solver) appendClause(lits []Literal, locked bool) int {
	id := len(s.clauses)
	c := NewClause(lits)
	s.clauses = append(s.clauses, c)
	s.locked = append(s.locked, locked)
	s.watchers.register(id, lits)
	return id
}

func (s *Solver) decisionLevel() int {
	return s.level
}

// currentAssignment reads off the present truth value of every variable
// as a Boolean. Variables that are still unassigned read as false; this
// is only meaningful to call once every variable has a value (i.e. at a
// full model), which is the only time Policy.Solution/FinalSolution call
// it.
func (s *Solver) currentAssignment() []bool {
	out := make([]bool, s.nvars)
	for v := 0; v < s.nvars; v++ {
		out[v] = s.status[v].value
	}
	return out
}

// checkModel re-validates every original clause in the clause store
// against model, a full per-variable assignment in the form
// currentAssignment/Policy.Solution return. Original unit clauses are not
// in the store (NewSolver fixes them on the trail) and are not rechecked.
// Solve calls this itself right before reporting a model; tests also call
// it directly after Solve returns.
func (s *Solver) checkModel(model []bool) bool {
	for _, c := range s.clauses[:s.givenLen] {
		satisfied := false
		for _, lit := range c.literals {
			if model[lit.Var()] == lit.Positive() {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// conflictingClauses returns the ids of every original or learnt clause
// currently in Conflict state. Nothing in the package calls it.
func (s *Solver) conflictingClauses() []int {
	var ids []int
	for i, c := range s.clauses {
		if st, _ := c.classify(s.assigns); st == statusConflict {
			ids = append(ids, i)
		}
	}
	return ids
}

func (s *Solver) trace(format string, args ...any) {
	if s.Trace != nil {
		s.Trace(format, args...)
	}
}

// Stats returns a snapshot of internal search counters. It is purely
// informational; the set of keys may change at any time.
func (s *Solver) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"trivially unsat":  s.triviallyUnsat,
		"num decisions":    s.numDecisions,
		"num implications": s.numImplications,
	}
	if gp, ok := s.policy.(*GreedyWeightPolicy); ok {
		stats["best weight"] = gp.BestWeight()
	}
	return stats
}

// reportSolution validates the policy's reported model against the
// original clauses before handing it back to the caller; a mismatch is
// an internal bug in the search driver or a Policy implementation, not a
// reportable error.
func (s *Solver) reportSolution() (Outcome, []bool) {
	model := s.policy.Solution(s)
	if !s.checkModel(model) {
		panic("satsolver: internal error: reported model does not satisfy all original clauses")
	}
	return Satisfiable, model
}

// Solve runs the search driver to completion
// and returns the outcome together with the Policy-reported solution
// (valid only when the outcome is Satisfiable).
func (s *Solver) Solve() (Outcome, []bool) {
	if s.triviallyUnsat {
		return Unsatisfiable, nil
	}

	// Free propagation of whatever the initial unit clauses imply, before
	// the main loop ever branches.
	pp := 0
	for pp < s.trail.len() {
		var ok bool
		pp, ok = s.advancePropagation(pp)
		if !ok {
			return s.terminal()
		}
	}

	for {
		if s.trail.len() == s.nvars {
			if s.policy.FinalSolution(s) {
				return s.reportSolution()
			}
			s.modelFound = true
			if !s.switchAtLeastLevel() {
				return s.terminal()
			}
			pp = s.trail.len() - 1
			continue
		}

		if pp == s.trail.len() {
			lit := s.policy.Select(s)
			s.assignBranch(lit, branchFirst)
			if !s.policy.OnAssign(s, lit) {
				if !s.switchAtLeastLevel() {
					return s.terminal()
				}
				pp = s.trail.len() - 1
			}
			continue
		}

		var ok bool
		pp, ok = s.advancePropagation(pp)
		if !ok {
			return s.terminal()
		}
	}
}

// advancePropagation runs propagate at pp and folds the three possible
// outcomes into the driver's control flow: on
// success it returns pp+1; on a policy cut or a conflict it resolves the
// situation via switchAtLeastLevel/resolveConflicts and repositions pp to
// just behind the (possibly shrunk, possibly grown) trail tail. The
// second return value is false when the search is globally exhausted.
func (s *Solver) advancePropagation(pp int) (int, bool) {
	outcome := s.propagate(pp)
	switch {
	case outcome.isConflict():
		if !s.resolveConflicts(outcome.conflicts) {
			return pp, false
		}
		return s.trail.len() - 1, true
	case outcome.cut:
		if !s.switchAtLeastLevel() {
			return pp, false
		}
		return s.trail.len() - 1, true
	default:
		return pp + 1, true
	}
}

// terminal resolves the answer once the search is globally exhausted:
// UNSAT for plain SAT, or the
// best model found so far for weighted search.
func (s *Solver) terminal() (Outcome, []bool) {
	if s.modelFound {
		return s.reportSolution()
	}
	return Unsatisfiable, nil
}

func (s *Solver) assignBranch(lit Literal, choice branchChoice) {
	v := lit.Var()
	s.status[v] = varStatus{kind: kindFixed, value: lit.Positive(), level: s.level, antecedent: -1}
	s.assigns[lit] = lTrue
	s.assigns[lit.Negate()] = lFalse
	s.trail.push(lit, reason{kind: reasonBranch, choice: choice})
	s.level++
	if choice == branchFirst {
		s.numDecisions++
	}
}

func (s *Solver) String() string {
	return fmt.Sprintf("Solver{vars=%d clauses=%d learnt=%d trail=%d level=%d}",
		s.nvars, s.givenLen, len(s.clauses)-s.givenLen, s.trail.len(), s.level)
}
