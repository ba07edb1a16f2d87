package satsolver

import "sort"

// maxLearntClauseLen is the point at which the raising loop in
// analyzeAndLearn gives up growing the candidate clause further
// ("stop raising at clause length 16").
const maxLearntClauseLen = 16

// maxConflictsToAnalyze is the threshold K: conflict lists at or
// above this size are not analyzed at all, only backtracked past.
const maxConflictsToAnalyze = 4

// resolveConflicts analyzes each conflict clause and learns from it: when
// the given (non-empty) list of currently-Conflict clauses is shorter than
// maxConflictsToAnalyze, it attempts, for each clause, bounded
// source-replacement resolution to produce a learnt clause; it then
// backtracks to the most recent switchable decision. It returns false if
// the search is globally exhausted as a result.
func (s *Solver) resolveConflicts(conflicts []int) bool {
	conflictLevel := s.level - 1
	implicationLevel := s.implicationLevel(conflicts, conflictLevel)

	if len(conflicts) < maxConflictsToAnalyze {
		for _, cid := range conflicts {
			s.analyzeAndLearn(cid, implicationLevel)
		}
	}

	return s.switchAtLeastLevel()
}

// implicationLevel computes the shallowest decision level at which the
// given conflicts become resolvable: for each conflict
// clause, the maximum level among its literals excluding one
// representative at conflictLevel; the minimum of these across the list.
func (s *Solver) implicationLevel(conflicts []int, conflictLevel int) int {
	best := -1
	for _, cid := range conflicts {
		skippedConflictLevel := false
		max := 0
		for _, lit := range s.clauses[cid].literals {
			lvl := s.levelOf(lit.Var())
			if !skippedConflictLevel && lvl == conflictLevel {
				skippedConflictLevel = true
				continue
			}
			if lvl > max {
				max = lvl
			}
		}
		if best == -1 || max < best {
			best = max
		}
	}
	if best == -1 {
		return 0
	}
	return best
}

func (s *Solver) levelOf(v Variable) int {
	st := s.status[v]
	if st.kind == kindUndef {
		panic("satsolver: conflict analysis touched an unassigned variable")
	}
	return st.level
}

// analyzeAndLearn runs the bounded-resolution learning procedure
// steps 1-6 on clause cid and either discards the result (quality filter
// failed, or a tautology was produced) or records it: as a new clause in
// the store, or — when it reduces to a single literal — as a top-level
// unit inserted at trail position 0.
func (s *Solver) analyzeAndLearn(cid int, implicationLevel int) {
	orig := s.clauses[cid].literals
	n := make([]Literal, len(orig))
	copy(n, orig)

	for _, lit := range n {
		s.policy.AppearsInConflict(lit.Var())
	}

	raised := 0
	i := 0
	for i < len(n) {
		if len(n) >= maxLearntClauseLen {
			break
		}
		v := n[i].Var()
		st := s.status[v]
		if st.kind == kindDeduced && st.level <= implicationLevel {
			antecedent := s.clauses[st.antecedent].literals
			for _, al := range antecedent {
				if al.Var() != v {
					n = append(n, al)
				}
			}
			n[i] = n[len(n)-1]
			n = n[:len(n)-1]
			raised++
			continue
		}
		i++
	}

	aboveLevelOrFixed := 0
	for _, lit := range n {
		v := lit.Var()
		st := s.status[v]
		if st.kind == kindFixed || (st.kind == kindDeduced && st.level > implicationLevel) {
			aboveLevelOrFixed++
		}
	}

	n, tautology := sortDedupLiterals(n)
	if tautology {
		return
	}

	if len(n) < 1 || len(n) > 5 || raised < 1 || aboveLevelOrFixed+2 < len(n) {
		return
	}

	if len(n) == 1 {
		s.learnUnit(n[0])
		return
	}

	id := s.appendClause(n, false)
	s.trace("learnt clause %d: %s", id, s.clauses[id])
}

// sortDedupLiterals sorts lits by variable index and removes duplicate
// variables. If a variable occurs with both polarities the merge is
// tautological and the caller must discard the clause.
func sortDedupLiterals(lits []Literal) ([]Literal, bool) {
	sort.Slice(lits, func(i, j int) bool { return lits[i].Var() < lits[j].Var() })

	out := lits[:0:0]
	for i := 0; i < len(lits); i++ {
		if i > 0 && lits[i].Var() == lits[i-1].Var() {
			if lits[i] != lits[i-1] {
				return nil, true
			}
			continue
		}
		out = append(out, lits[i])
	}
	return out, false
}

// learnUnit handles the single-literal case of a learned clause: the
// literal is inserted at trail position 0 as a top-level, already-
// exhausted decision. Existing trail entries above position 0 are not
// renumbered or reconsidered; this is a deliberately preserved sharp edge.
func (s *Solver) learnUnit(lit Literal) {
	v := lit.Var()
	s.status[v] = varStatus{kind: kindFixed, value: lit.Positive(), level: 0, antecedent: -1}
	s.assigns[lit] = lTrue
	s.assigns[lit.Negate()] = lFalse

	entry := trailEntry{lit: lit, reason: reason{kind: reasonBranch, choice: branchSecond}}
	s.trail.entries = append(s.trail.entries, trailEntry{})
	copy(s.trail.entries[1:], s.trail.entries[:len(s.trail.entries)-1])
	s.trail.entries[0] = entry
}

// switchAtLeastLevel undoes trail entries
// from the tail until it successfully flips a Branch(First) decision
// into an accepted Branch(Second), or the trail is exhausted. It directly
// undoes until the next switchable decision succeeds or choices run out.
func (s *Solver) switchAtLeastLevel() bool {
	for s.trail.len() > 0 {
		e := s.trail.last()

		if e.reason.kind == reasonPropagate {
			s.undoPropagated()
			continue
		}

		if e.reason.choice == branchSecond {
			s.undoExhaustedBranch()
			continue
		}

		if s.switchBranch() {
			return true
		}
		// Rejected by the policy: the loop will see the just-pushed
		// Branch(Second) entry next and treat it as exhausted.
	}
	return false
}

func (s *Solver) undoPropagated() {
	e := s.trail.pop()
	v := e.lit.Var()
	s.locked[e.reason.clause] = false
	s.status[v] = varStatus{}
	s.assigns[e.lit] = lUndef
	s.assigns[e.lit.Negate()] = lUndef
	s.policy.OnDeassign(s, e.lit)
}

func (s *Solver) undoExhaustedBranch() {
	e := s.trail.pop()
	v := e.lit.Var()
	s.status[v] = varStatus{}
	s.assigns[e.lit] = lUndef
	s.assigns[e.lit.Negate()] = lUndef
	s.level--
	s.policy.OnDeassign(s, e.lit)
}

// switchBranch flips the trail's current Branch(First) decision to its
// opposite value as a Branch(Second), and reports whether the policy
// accepted the new assignment.
func (s *Solver) switchBranch() bool {
	e := s.trail.pop()
	s.policy.OnDeassign(s, e.lit)

	flipped := e.lit.Negate()
	v := flipped.Var()
	s.status[v] = varStatus{kind: kindFixed, value: flipped.Positive(), level: s.level - 1, antecedent: -1}
	s.assigns[flipped] = lTrue
	s.assigns[flipped.Negate()] = lFalse
	s.trail.push(flipped, reason{kind: reasonBranch, choice: branchSecond})

	return s.policy.OnAssign(s, flipped)
}
