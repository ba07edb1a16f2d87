package satsolver

import "testing"

func TestPriorityPolicyBumpsOnAssignAndConflict(t *testing.T) {
	p := NewPriorityPolicy(3)
	s := NewSolver(3, nil, p)

	lit := NewLiteral(1, true)
	p.OnAssign(s, lit)
	if p.activity[1] != 1 {
		t.Fatalf("activity[1] = %d, want 1 after one assign", p.activity[1])
	}

	p.AppearsInConflict(1)
	if p.activity[1] != 4 {
		t.Fatalf("activity[1] = %d, want 4 after assign+conflict bump", p.activity[1])
	}
}

func TestPriorityPolicySelectsHighestActivity(t *testing.T) {
	p := NewPriorityPolicy(3)
	p.activity[2] = 10
	p.queue.Put(2, -p.activity[2])

	lit := p.Select(nil)
	if lit.Var() != 2 {
		t.Fatalf("Select() chose var %d, want 2 (highest activity)", lit.Var())
	}
	if !lit.Positive() {
		t.Fatalf("PriorityPolicy must always branch positive")
	}
}

func TestPriorityPolicyReinsertsOnDeassign(t *testing.T) {
	p := NewPriorityPolicy(2)
	lit := NewLiteral(0, true)
	p.OnAssign(nil, lit)
	if p.queue.Contains(0) {
		t.Fatalf("expected variable 0 removed from queue after OnAssign")
	}
	p.OnDeassign(nil, lit)
	if !p.queue.Contains(0) {
		t.Fatalf("expected variable 0 reinserted into queue after OnDeassign")
	}
}

func TestGreedyWeightPolicyCutsWhenBoundCannotImprove(t *testing.T) {
	p := NewGreedyWeightPolicy([]int{1, 1, 1})
	p.bestWeight = 10 // unreachable given only 3 units of total weight

	ok := p.OnAssign(nil, NewLiteral(0, true))
	if ok {
		t.Fatalf("OnAssign should cut: current+free weight can never reach bestWeight=10")
	}
}

func TestGreedyWeightPolicyTracksBestModel(t *testing.T) {
	p := NewGreedyWeightPolicy([]int{3, 5})
	p.currentWeight = 5
	s := &Solver{status: []varStatus{{value: false}, {value: true}}, nvars: 2}

	stop := p.FinalSolution(s)
	if stop {
		t.Fatalf("Greedy-weight FinalSolution must always return false")
	}
	if p.BestWeight() != 5 {
		t.Fatalf("BestWeight() = %d, want 5", p.BestWeight())
	}
	if p.bestModel[0] || !p.bestModel[1] {
		t.Fatalf("bestModel = %v, want [false true]", p.bestModel)
	}

	// A worse model must not overwrite the recorded best.
	p.currentWeight = 3
	p.FinalSolution(&Solver{status: []varStatus{{value: true}, {value: false}}, nvars: 2})
	if p.BestWeight() != 5 {
		t.Fatalf("BestWeight() changed to %d after a worse model, want unchanged 5", p.BestWeight())
	}
}

func TestNaivePolicyWatchListTieBranchesTrue(t *testing.T) {
	// c0 = (~x0 v x1): registers x0 in watchPos, x1 in watchNeg.
	// c1 = (x0 v x2): registers x0 in watchNeg, x2 in watchNeg.
	// So var0 has one list on each side (tie -> branch true).
	clauses := [][]Literal{
		{NewLiteral(0, false), NewLiteral(1, true)},
		{NewLiteral(0, true), NewLiteral(2, true)},
	}
	s := NewSolver(3, clauses, NewNaivePolicy())
	p := NewNaivePolicy()
	lit := p.Select(s)
	if lit.Var() != 0 {
		t.Fatalf("Select() chose var %d, want 0 (first Undef variable)", lit.Var())
	}
	if !lit.Positive() {
		t.Fatalf("tie between watcher lists must break toward true")
	}
}
