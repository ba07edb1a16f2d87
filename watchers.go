package satsolver

// watcherIndex holds, for every variable, the two clause-id lists used by
// unit propagation.
//
// A clause containing the literal (v, false) is placed in watchPos[v]
// because assigning v=true threatens it (that literal becomes false);
// symmetrically a clause containing (v, true) is placed in watchNeg[v].
// This is the "coarse" variant: every relevant
// clause sits on both lists rather than just its two watched literals, and
// propagation always re-examines the whole clause via Clause.classify.
type watcherIndex struct {
	watchPos [][]int // watchPos[v]: clauses to inspect when v becomes true
	watchNeg [][]int // watchNeg[v]: clauses to inspect when v becomes false
}

func newWatcherIndex(nvars int) *watcherIndex {
	return &watcherIndex{
		watchPos: make([][]int, nvars),
		watchNeg: make([][]int, nvars),
	}
}

// register adds clauseID to the watcher lists of every literal in lits.
func (w *watcherIndex) register(clauseID int, lits []Literal) {
	for _, lit := range lits {
		v := lit.Var()
		if lit.Positive() {
			w.watchNeg[v] = append(w.watchNeg[v], clauseID)
		} else {
			w.watchPos[v] = append(w.watchPos[v], clauseID)
		}
	}
}

// listFor returns the watcher list to scan when lit has just become true.
func (w *watcherIndex) listFor(lit Literal) []int {
	v := lit.Var()
	if lit.Positive() {
		return w.watchPos[v]
	}
	return w.watchNeg[v]
}

// contains reports whether clauseID is on the watcher list scanned when
// lit becomes true. Used by tests to check the watcher-completeness
// property: for every clause c and literal (v, s) in c,
// c must appear in the list scanned when v is assigned ¬s.
func (w *watcherIndex) contains(lit Literal, clauseID int) bool {
	for _, id := range w.listFor(lit) {
		if id == clauseID {
			return true
		}
	}
	return false
}
