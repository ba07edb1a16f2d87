package satsolver

import (
	"math/rand"
	"testing"
)

// solve is a small test helper: build a fresh Solver for the given clauses
// and policy and run it to completion.
func solve(nvars int, clauses [][]Literal, policy Policy) (Outcome, []bool) {
	return NewSolver(nvars, clauses, policy).Solve()
}

func checkSatisfies(t *testing.T, clauses [][]Literal, model []bool) {
	t.Helper()
	for i, c := range clauses {
		ok := false
		for _, lit := range c {
			if model[lit.Var()] == lit.Positive() {
				ok = true
				break
			}
		}
		if !ok {
			t.Fatalf("clause %d %v not satisfied by model %v", i, c, model)
		}
	}
}

// Three clauses, SAT.
func TestScenarioThreeClauseSAT(t *testing.T) {
	clauses := [][]Literal{
		lits(1, 2),
		lits(2, -3, 4),
		lits(-1, -4),
	}
	for _, p := range []Policy{NewNaivePolicy(), NewPriorityPolicy(4)} {
		outcome, model := solve(4, clauses, p)
		if outcome != Satisfiable {
			t.Fatalf("got %v, want SAT", outcome)
		}
		checkSatisfies(t, clauses, model)
	}
}

// Scenario 2: four clauses over 3 vars that force x2=T in every model.
func TestScenarioForcesX2True(t *testing.T) {
	clauses := [][]Literal{
		lits(1, 2, 3),
		lits(-1, -2, 3),
		lits(-1, 2, 3),
		lits(1, -2, 3),
	}
	for _, p := range []Policy{NewNaivePolicy(), NewPriorityPolicy(3)} {
		outcome, model := solve(3, clauses, p)
		if outcome != Satisfiable {
			t.Fatalf("got %v, want SAT", outcome)
		}
		checkSatisfies(t, clauses, model)
		if !model[2] {
			t.Fatalf("x2 = false, want every model to have x2 = true: %v", model)
		}
	}
}

// Scenario 3: all eight triples over 3 vars, UNSAT.
func TestScenarioAllTriplesUNSAT(t *testing.T) {
	clauses := [][]Literal{
		lits(1, 2, 3),
		lits(-1, 2, 3),
		lits(1, -2, 3),
		lits(1, 2, -3),
		lits(-1, -2, 3),
		lits(-1, 2, -3),
		lits(1, -2, -3),
		lits(-1, -2, -3),
	}
	for _, p := range []Policy{NewNaivePolicy(), NewPriorityPolicy(3)} {
		outcome, _ := solve(3, clauses, p)
		if outcome != Unsatisfiable {
			t.Fatalf("got %v, want UNSAT", outcome)
		}
	}
}

// Scenario 4: MWCNF minimal optimum.
func TestScenarioMWCNFOptimum(t *testing.T) {
	weights := []int{2, 4, 1, 6}
	clauses := [][]Literal{
		lits(1, -3, 4),
		lits(-1, 2, -3),
		lits(3, 4),
		lits(1, 2, -3, -4),
		lits(-2, 3),
		lits(-3, -4),
	}

	policy := NewGreedyWeightPolicy(weights)
	outcome, model := solve(4, clauses, policy)
	if outcome != Satisfiable {
		t.Fatalf("got %v, want SAT", outcome)
	}
	checkSatisfies(t, clauses, model)

	best := bruteForceMWCNF(4, clauses, weights)
	if policy.BestWeight() != best {
		t.Fatalf("BestWeight() = %d, want %d", policy.BestWeight(), best)
	}
	gotWeight := 0
	for v, on := range model {
		if on {
			gotWeight += weights[v]
		}
	}
	if gotWeight != best {
		t.Fatalf("returned model has weight %d, want %d", gotWeight, best)
	}
}

func bruteForceMWCNF(nvars int, clauses [][]Literal, weights []int) int {
	best := -1
	for assignment := 0; assignment < 1<<nvars; assignment++ {
		model := make([]bool, nvars)
		for v := 0; v < nvars; v++ {
			model[v] = assignment&(1<<v) != 0
		}
		satisfied := true
	clauseLoop:
		for _, c := range clauses {
			for _, lit := range c {
				if model[lit.Var()] == lit.Positive() {
					continue clauseLoop
				}
			}
			satisfied = false
			break
		}
		if !satisfied {
			continue
		}
		w := 0
		for v, on := range model {
			if on {
				w += weights[v]
			}
		}
		if w > best {
			best = w
		}
	}
	return best
}

// Scenario 5: a single unit clause places exactly one trail entry.
func TestScenarioUnitClauseInInput(t *testing.T) {
	s := NewSolver(1, [][]Literal{lits(1)}, NewNaivePolicy())
	if s.trail.len() != 1 {
		t.Fatalf("trail length = %d, want 1", s.trail.len())
	}
	st := s.status[0]
	if st.kind != kindFixed || !st.value || st.level != 1 {
		t.Fatalf("status = %+v, want Fixed(true, 1)", st)
	}
	outcome, model := s.Solve()
	if outcome != Satisfiable || !model[0] {
		t.Fatalf("got (%v, %v), want (SAT, [true])", outcome, model)
	}
}

// TestContradictingUnitsTriviallyUnsat covers the fixUnit contradiction
// path: two unit clauses on the same variable with opposite polarity.
func TestContradictingUnitsTriviallyUnsat(t *testing.T) {
	outcome, _ := solve(1, [][]Literal{lits(1), lits(-1)}, NewNaivePolicy())
	if outcome != Unsatisfiable {
		t.Fatalf("got %v, want UNSAT", outcome)
	}
}

// TestWatcherCompleteness checks the watcher-completeness
// property directly against the watcher index built by NewSolver.
func TestWatcherCompleteness(t *testing.T) {
	clauses := [][]Literal{
		lits(1, 2, 3),
		lits(-1, 2, -3),
		lits(2, -3, 4),
	}
	s := NewSolver(4, clauses, NewNaivePolicy())
	for cid, c := range clauses {
		for _, lit := range c {
			if !s.watchers.contains(lit.Negate(), cid) {
				t.Errorf("clause %d literal %v not found in watcher list for %v", cid, lit, lit.Negate())
			}
		}
	}
}

// TestIdempotence re-solves freshly built solvers from the same input and
// checks the satisfiability outcome matches every time.
func TestIdempotence(t *testing.T) {
	clauses := [][]Literal{
		lits(1, 2, 3),
		lits(-1, -2, 3),
		lits(-1, 2, 3),
		lits(1, -2, 3),
	}
	var want Outcome
	for i := 0; i < 5; i++ {
		outcome, _ := solve(3, clauses, NewPriorityPolicy(3))
		if i == 0 {
			want = outcome
		} else if outcome != want {
			t.Fatalf("run %d: got %v, want %v (outcome must be deterministic)", i, outcome, want)
		}
	}
}

// TestRandomizedSoundnessAndCompleteness builds small random satisfiable
// instances (by construction, from a hidden assignment) and checks every
// reported model against checkModel.
func TestRandomizedSoundnessAndCompleteness(t *testing.T) {
	for _, tt := range []struct {
		numVars, numClauses, numSeeds int
	}{
		{2, 2, 10},
		{3, 10, 50},
		{5, 10, 100},
	} {
		for seed := 0; seed < tt.numSeeds; seed++ {
			clauses, hiddenModel := makeRandomSat(int64(seed), tt.numVars, tt.numClauses)
			s := NewSolver(tt.numVars, clauses, NewPriorityPolicy(tt.numVars))
			outcome, model := s.Solve()
			if outcome != Satisfiable {
				t.Fatalf("[vars=%d clauses=%d seed=%d] got UNSAT but a model exists: %v", tt.numVars, tt.numClauses, seed, hiddenModel)
			}
			if !s.checkModel(model) {
				t.Fatalf("[vars=%d clauses=%d seed=%d] checkModel failed after Solve reported SAT", tt.numVars, tt.numClauses, seed)
			}
			checkSatisfies(t, clauses, model)
		}
	}
}

// BenchmarkFixtures times Solve over a small fixed set of instances and
// reports the search-effort counters alongside the usual ns/op.
func BenchmarkFixtures(b *testing.B) {
	fixtures := []struct {
		name    string
		nvars   int
		clauses [][]Literal
	}{
		{
			name:  "three-clause-sat",
			nvars: 4,
			clauses: [][]Literal{
				lits(1, 2),
				lits(2, -3, 4),
				lits(-1, -4),
			},
		},
		{
			name:  "all-triples-unsat",
			nvars: 3,
			clauses: [][]Literal{
				lits(1, 2, 3),
				lits(-1, 2, 3),
				lits(1, -2, 3),
				lits(1, 2, -3),
				lits(-1, -2, 3),
				lits(-1, 2, -3),
				lits(1, -2, -3),
				lits(-1, -2, -3),
			},
		},
		{
			name:  "random-vars10-clauses20",
			nvars: 10,
			clauses: func() [][]Literal {
				clauses, _ := makeRandomSat(0, 10, 20)
				return clauses
			}(),
		},
	}

	for _, bb := range fixtures {
		b.Run(bb.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s := NewSolver(bb.nvars, bb.clauses, NewPriorityPolicy(bb.nvars))
				s.Solve()
				b.ReportMetric(float64(s.numDecisions), "decisions/op")
				b.ReportMetric(float64(s.numImplications), "implications/op")
			}
		})
	}
}

// makeRandomSat builds a random CNF formula known to be satisfiable by a
// hidden assignment.
func makeRandomSat(seed int64, numVars, numClauses int) ([][]Literal, []bool) {
	rng := rand.New(rand.NewSource(seed))
	assignment := make([]bool, numVars)
	for v := range assignment {
		assignment[v] = rng.Intn(2) == 1
	}

	clauses := make([][]Literal, numClauses)
	for i := range clauses {
		size := rng.Intn(numVars) + 1
		vars := rng.Perm(numVars)[:size]
		fixed := rng.Intn(size)
		clause := make([]Literal, size)
		for j, v := range vars {
			positive := rng.Intn(2) == 1
			if j == fixed {
				positive = assignment[v]
			}
			clause[j] = NewLiteral(Variable(v), positive)
		}
		clauses[i] = clause
	}
	return clauses, assignment
}
