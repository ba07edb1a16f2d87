package satsolver

// propagateOutcome is the result of propagating a single trail position.
type propagateOutcome struct {
	cut       bool  // the policy vetoed continued exploration
	conflicts []int // clause ids found in Conflict state, if any
}

func (o propagateOutcome) isConflict() bool { return len(o.conflicts) > 0 }

// propagate takes the trail position of a literal that has just become
// true, visits the corresponding watcher list, classifies each non-locked
// clause, and either pushes new deductions onto the trail, detects a
// policy-requested cut, or collects conflicting clauses.
//
// Propagation of position pos never depends on trail entries strictly
// after it: new deductions are appended to the trail and processed later
// when the driver's propagation pointer reaches them.
func (s *Solver) propagate(pos int) propagateOutcome {
	lit := s.trail.entries[pos].lit

	watchList := s.watchers.listFor(lit)
	var conflicts []int

	for _, w := range watchList {
		if s.locked[w] {
			continue
		}
		st, assignable := s.clauses[w].classify(s.assigns)
		switch st {
		case statusNothing:
			continue
		case statusAssignable:
			s.assignDeduced(assignable, w)
			if !s.policy.OnAssign(s, assignable) {
				return propagateOutcome{cut: true}
			}
		case statusConflict:
			conflicts = append(conflicts, w)
		}
	}

	if len(conflicts) > 0 {
		return propagateOutcome{conflicts: conflicts}
	}
	return propagateOutcome{}
}

// assignDeduced records that lit was forced true by unit propagation from
// clause antecedent, at level ℓ-1 (callers must compare levels only
// against values written by this same code path).
func (s *Solver) assignDeduced(lit Literal, antecedent int) {
	v := lit.Var()
	s.status[v] = varStatus{
		kind:       kindDeduced,
		value:      lit.Positive(),
		level:      s.level - 1,
		antecedent: antecedent,
	}
	s.assigns[lit] = lTrue
	s.assigns[lit.Negate()] = lFalse
	s.trail.push(lit, reason{kind: reasonPropagate, clause: antecedent})
	s.locked[antecedent] = true
	s.numImplications++
}
