package satsolver

import "github.com/rhartert/yagh"

// Policy is the pluggable selection-and-value strategy hooked into every
// assignment and deassignment. The solver never branches,
// learns, or concludes without consulting exactly one Policy instance.
type Policy interface {
	// Select returns the next branching literal. Called only when at
	// least one variable is unassigned.
	Select(s *Solver) Literal

	// OnAssign is called whenever the solver makes or deduces an
	// assignment, decision or propagated alike. Returning false requests
	// a cut: no branch beneath the current state can improve the
	// objective, and the solver should backtrack immediately.
	OnAssign(s *Solver, lit Literal) bool

	// OnDeassign is called whenever an assignment is undone.
	OnDeassign(s *Solver, lit Literal)

	// FinalSolution is called when every variable is assigned. Returning
	// true terminates the search with the current model; false forces
	// the driver to keep exploring (used by weighted optimization).
	FinalSolution(s *Solver) bool

	// Solution produces the final per-variable Boolean answer reported
	// to the caller.
	Solution(s *Solver) []bool

	// AppearsInConflict is called by conflict analysis once per literal
	// of a clause being processed during learning.
	AppearsInConflict(v Variable)
}

// ---------------------------------------------------------------------
// Naive policy
// ---------------------------------------------------------------------

// NaivePolicy implements the simplest branching rule: a
// rotating cursor finds the first unassigned variable, and the branch
// polarity is whichever threatens fewer clauses (the smaller watcher
// list), ties broken toward true. All other hooks are no-ops and the
// first model found is always accepted.
type NaivePolicy struct {
	cursor int
}

// NewNaivePolicy returns a NaivePolicy ready to use.
func NewNaivePolicy() *NaivePolicy {
	return &NaivePolicy{}
}

func (p *NaivePolicy) Select(s *Solver) Literal {
	n := len(s.status)
	i := p.cursor
	for s.status[i].kind != kindUndef {
		i = (i + 1) % n
	}
	p.cursor = i

	v := Variable(i)
	// Assigning v=true threatens watchPos[v] (the clauses scanned when v
	// becomes true); assigning v=false threatens watchNeg[v]. Branch
	// toward whichever polarity threatens fewer clauses, tie toward true.
	positive := len(s.watchers.watchPos[v]) <= len(s.watchers.watchNeg[v])
	return NewLiteral(v, positive)
}

func (p *NaivePolicy) OnAssign(s *Solver, lit Literal) bool { return true }
func (p *NaivePolicy) OnDeassign(s *Solver, lit Literal)    {}
func (p *NaivePolicy) FinalSolution(s *Solver) bool         { return true }
func (p *NaivePolicy) AppearsInConflict(v Variable)         {}

func (p *NaivePolicy) Solution(s *Solver) []bool {
	return s.currentAssignment()
}

// ---------------------------------------------------------------------
// Priority (activity-like) policy
// ---------------------------------------------------------------------

// PriorityPolicy keeps a priority queue of unassigned variables keyed by a
// per-variable integer activity, bumped on assignment and on involvement
// in a learned conflict. Stale entries (variables assigned by propagation
// or as input units rather than popped through Select) are left in the
// queue, including in OnAssign, and discarded
// lazily the next time they surface at the top.
type PriorityPolicy struct {
	activity []int
	assigned []bool
	queue    *yagh.IntMap[int] // keyed by variable index, min-heap on -activity
}

// NewPriorityPolicy returns a PriorityPolicy for nvars variables.
func NewPriorityPolicy(nvars int) *PriorityPolicy {
	p := &PriorityPolicy{
		activity: make([]int, nvars),
		assigned: make([]bool, nvars),
		queue:    yagh.New[int](nvars),
	}
	for v := 0; v < nvars; v++ {
		p.queue.Put(v, 0)
	}
	return p
}

func (p *PriorityPolicy) Select(s *Solver) Literal {
	for {
		top, ok := p.queue.Pop()
		if !ok {
			panic("satsolver: priority queue exhausted with unassigned variables remaining")
		}
		if v := Variable(top.Elem); !p.assigned[v] {
			return NewLiteral(v, true)
		}
	}
}

func (p *PriorityPolicy) OnAssign(s *Solver, lit Literal) bool {
	v := lit.Var()
	p.activity[v]++
	p.assigned[v] = true
	return true
}

func (p *PriorityPolicy) OnDeassign(s *Solver, lit Literal) {
	v := lit.Var()
	p.assigned[v] = false
	p.queue.Put(int(v), -p.activity[v])
}

func (p *PriorityPolicy) FinalSolution(s *Solver) bool { return true }

func (p *PriorityPolicy) Solution(s *Solver) []bool {
	return s.currentAssignment()
}

// AppearsInConflict bumps v's activity by 3, for every literal found in
// a conflict.
func (p *PriorityPolicy) AppearsInConflict(v Variable) {
	p.activity[v] += 3
	if !p.assigned[v] {
		p.queue.Put(int(v), -p.activity[v])
	}
}

// ---------------------------------------------------------------------
// Greedy-weight policy (MWCNF)
// ---------------------------------------------------------------------

// GreedyWeightPolicy implements the MWCNF selection policy: it always branches positive, tracks the best model seen so far by
// total weight, and forces the search to continue exploring the full
// satisfying space (FinalSolution always returns false) while cutting any
// subtree whose best attainable weight falls below the incumbent's.
type GreedyWeightPolicy struct {
	weights       []int
	activity      []int
	queue         *addrHeap // keyed by variable index, ordered by (activity, weight)
	bestWeight    int
	bestModel     []bool
	currentWeight int
	freeWeight    int
}

// NewGreedyWeightPolicy returns a GreedyWeightPolicy for the given
// per-variable weights.
func NewGreedyWeightPolicy(weights []int) *GreedyWeightPolicy {
	total := 0
	for _, w := range weights {
		total += w
	}
	p := &GreedyWeightPolicy{
		weights:    append([]int(nil), weights...),
		activity:   make([]int, len(weights)),
		bestModel:  make([]bool, len(weights)),
		freeWeight: total,
	}
	p.queue = newAddrHeap(func(a, b int) bool {
		if p.activity[a] != p.activity[b] {
			return p.activity[a] > p.activity[b]
		}
		return p.weights[a] > p.weights[b]
	})
	for v := range weights {
		p.queue.Push(v)
	}
	return p
}

// BestWeight returns the weight of the best model found so far.
func (p *GreedyWeightPolicy) BestWeight() int {
	return p.bestWeight
}

func (p *GreedyWeightPolicy) Select(s *Solver) Literal {
	v := Variable(p.queue.Peek())
	return NewLiteral(v, true)
}

func (p *GreedyWeightPolicy) OnAssign(s *Solver, lit Literal) bool {
	v := int(lit.Var())
	w := p.weights[v]
	p.activity[v]++
	p.freeWeight -= w
	if lit.Positive() {
		p.currentWeight += w
	}
	p.queue.Remove(v)
	return p.currentWeight+p.freeWeight >= p.bestWeight
}

func (p *GreedyWeightPolicy) OnDeassign(s *Solver, lit Literal) {
	v := int(lit.Var())
	w := p.weights[v]
	p.freeWeight += w
	if lit.Positive() {
		p.currentWeight -= w
	}
	p.queue.Push(v)
}

func (p *GreedyWeightPolicy) FinalSolution(s *Solver) bool {
	if p.currentWeight > p.bestWeight {
		p.bestWeight = p.currentWeight
		copy(p.bestModel, s.currentAssignment())
	}
	return false // always force continued exploration
}

func (p *GreedyWeightPolicy) Solution(s *Solver) []bool {
	return append([]bool(nil), p.bestModel...)
}

// AppearsInConflict bumps v's activity by 3, for every literal found in
// a conflict.
func (p *GreedyWeightPolicy) AppearsInConflict(v Variable) {
	p.activity[int(v)] += 3
	p.queue.Fix(int(v))
}
