package satsolver

import "strings"

// Clause is an ordered sequence of literals. The parsers merge duplicate
// literals before clauses reach the solver, but keep tautological clauses
// (x0 v ~x0); classify never reports such a clause as Assignable or
// Conflict.
type Clause struct {
	literals []Literal

	// activity is a per-clause counter that no code path updates or reads:
	// it stays zero for original and learnt clauses alike.
	activity int
}

// NewClause builds a clause from the given literals. The slice is copied.
func NewClause(lits []Literal) *Clause {
	c := &Clause{literals: make([]Literal, len(lits))}
	copy(c.literals, lits)
	return c
}

// Literals returns the clause's literals. Callers must not mutate the
// returned slice.
func (c *Clause) Literals() []Literal {
	return c.literals
}

func (c *Clause) Len() int {
	return len(c.literals)
}

func (c *Clause) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, l := range c.literals {
		if i > 0 {
			b.WriteString(" v ")
		}
		b.WriteString(l.String())
	}
	b.WriteByte(')')
	return b.String()
}

// status is the result of classifying a clause against the current
// assignment.
type status int

const (
	// statusNothing means the clause is satisfied, or has two or more
	// unassigned literals: it currently implies nothing.
	statusNothing status = iota
	// statusConflict means every literal is assigned and false.
	statusConflict
	// statusAssignable means exactly one literal is unassigned and no
	// literal is satisfied; that literal is forced.
	statusAssignable
)

// classify scans c once against assigns (indexed by Literal, i.e. by
// 2*variable+polarity, true meaning "this literal is currently true") and
// returns its status plus, when Assignable, the forced literal.
//
// This classification is total: it depends only on the current
// assignment and, for every clause, returns exactly one of Nothing,
// Conflict, or Assignable(L) where L is unassigned and unique.
func (c *Clause) classify(assigns []lbool) (status, Literal) {
	satisfied := false
	var toAssign Literal
	haveToAssign := false

	for _, lit := range c.literals {
		v := assigns[lit]
		switch v {
		case lTrue:
			satisfied = true
		case lUndef:
			if haveToAssign {
				return statusNothing, 0
			}
			toAssign = lit
			haveToAssign = true
		case lFalse:
			// literal is false under the current assignment; contributes
			// nothing towards satisfying or assigning the clause.
		}
	}

	switch {
	case satisfied:
		return statusNothing, 0
	case haveToAssign:
		return statusAssignable, toAssign
	default:
		return statusConflict, 0
	}
}
