package satsolver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind distinguishes a plain CNF instance from a weighted MWCNF one.
type Kind int

const (
	KindCNF Kind = iota
	KindMWCNF
)

// Instance is the parsed form of a DIMACS (or infix) formula: the
// original clauses, in the order they occurred in the input, as literal
// slices ready to hand to NewSolver, plus the declared variable count
// and, for MWCNF, one weight per variable.
type Instance struct {
	Kind      Kind
	Variables int
	Clauses   [][]Literal
	Weights   []int // len == Variables, only set when Kind == KindMWCNF
}

// ParseDIMACS parses text in the standard DIMACS CNF/MWCNF format.
//
// For convenience, a few non-standard variations are accepted:
//
//   - Comments (lines beginning with 'c') may appear anywhere, not just
//     in the preamble.
//   - The problem line may be missing, in which case the variable count
//     is inferred from the highest-indexed literal seen.
//   - A trailer after a lone '%' line is ignored.
//   - Empty clauses (a bare 0) are dropped.
func ParseDIMACS(r io.Reader) (*Instance, error) {
	inst := &Instance{}
	haveProblemLine := false

	var clause []Literal
	maxVar := 0

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == 'c' {
			continue
		}
		if line == "%" {
			break
		}

		fields := strings.Fields(line)

		if fields[0] == "p" {
			if haveProblemLine {
				return nil, errors.New("dimacs: multiple problem lines")
			}
			if len(inst.Clauses) > 0 {
				return nil, errors.New("dimacs: problem line appears after clauses")
			}
			if err := parseProblemLine(fields, inst); err != nil {
				return nil, err
			}
			haveProblemLine = true
			continue
		}

		if fields[0] == "w" {
			if inst.Kind != KindMWCNF {
				return nil, errors.New("dimacs: weight line requires 'p mwcnf'")
			}
			if inst.Weights != nil {
				return nil, errors.New("dimacs: multiple weight lines")
			}
			weights, err := parseWeightLine(fields, inst.Variables)
			if err != nil {
				return nil, err
			}
			inst.Weights = weights
			continue
		}

		for _, field := range fields {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("dimacs: invalid token %q: %s", field, err)
			}
			if n == 0 {
				if len(clause) > 0 {
					inst.Clauses = append(inst.Clauses, dedupeClause(clause))
				}
				clause = nil
				continue
			}
			v := n
			if v < 0 {
				v = -v
			}
			if v > maxVar {
				maxVar = v
			}
			clause = append(clause, NewLiteral(Variable(v-1), n > 0))
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(clause) > 0 {
		inst.Clauses = append(inst.Clauses, dedupeClause(clause))
	}

	if haveProblemLine {
		if maxVar > inst.Variables {
			return nil, fmt.Errorf("dimacs: formula references var %d but problem line declares %d vars", maxVar, inst.Variables)
		}
	} else {
		inst.Variables = maxVar
	}

	if inst.Kind == KindMWCNF && inst.Weights == nil {
		return nil, errors.New("dimacs: mwcnf instance missing weight line")
	}

	return inst, nil
}

func parseProblemLine(fields []string, inst *Instance) error {
	if len(fields) != 4 {
		return fmt.Errorf("dimacs: malformed problem line %q", strings.Join(fields, " "))
	}
	switch fields[1] {
	case "cnf":
		inst.Kind = KindCNF
	case "mwcnf":
		inst.Kind = KindMWCNF
	default:
		return fmt.Errorf("dimacs: unsupported format %q, want cnf or mwcnf", fields[1])
	}
	nvars, err := strconv.Atoi(fields[2])
	if err != nil || nvars < 0 {
		return fmt.Errorf("dimacs: malformed variable count %q", fields[2])
	}
	if _, err := strconv.Atoi(fields[3]); err != nil {
		return fmt.Errorf("dimacs: malformed clause count %q", fields[3])
	}
	inst.Variables = nvars
	return nil
}

func parseWeightLine(fields []string, nvars int) ([]int, error) {
	if len(fields) < 2 {
		return nil, errors.New("dimacs: empty weight line")
	}
	nums := fields[1:]
	if len(nums) == 0 || nums[len(nums)-1] != "0" {
		return nil, errors.New("dimacs: weight line must be terminated by 0")
	}
	nums = nums[:len(nums)-1]
	if len(nums) != nvars {
		return nil, fmt.Errorf("dimacs: weight line declares %d weights, want %d", len(nums), nvars)
	}
	weights := make([]int, nvars)
	for i, f := range nums {
		w, err := strconv.Atoi(f)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("dimacs: invalid weight %q", f)
		}
		weights[i] = w
	}
	return weights, nil
}

// dedupeClause removes duplicate literals (x0 v x0 -> x0). Tautologies
// (x0 v ~x0) are left untouched: either keeping or dropping them is fine,
// since Clause.classify handles a tautological clause correctly regardless
// (it is satisfied as soon as either literal is assigned).
func dedupeClause(lits []Literal) []Literal {
	seen := make(map[Literal]bool, len(lits))
	out := lits[:0:0]
	for _, l := range lits {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// WriteDIMACS writes inst back out in DIMACS form, including the weight
// line for MWCNF instances. Used by tests to round-trip instances.
func WriteDIMACS(w io.Writer, inst *Instance) error {
	format := "cnf"
	if inst.Kind == KindMWCNF {
		format = "mwcnf"
	}
	if _, err := fmt.Fprintf(w, "p %s %d %d\n", format, inst.Variables, len(inst.Clauses)); err != nil {
		return err
	}
	if inst.Kind == KindMWCNF {
		parts := make([]string, 0, len(inst.Weights)+1)
		for _, wt := range inst.Weights {
			parts = append(parts, strconv.Itoa(wt))
		}
		parts = append(parts, "0")
		if _, err := fmt.Fprintf(w, "w %s\n", strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	for _, clause := range inst.Clauses {
		parts := make([]string, 0, len(clause)+1)
		for _, lit := range clause {
			n := int(lit.Var()) + 1
			if !lit.Positive() {
				n = -n
			}
			parts = append(parts, strconv.Itoa(n))
		}
		parts = append(parts, "0")
		if _, err := fmt.Fprintf(w, "%s\n", strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

// ParseInfix parses the infix surface syntax accepted alongside DIMACS
// "(x0 v ~x1) ^ (x2 v x3)". It is grounded directly on the
// token grammar of a small recursive-descent lexer/parser pair.
func ParseInfix(s string) (*Instance, error) {
	toks, err := lexInfix(s)
	if err != nil {
		return nil, err
	}

	inst := &Instance{Kind: KindCNF}
	maxVar := 0
	i := 0

	for i < len(toks) {
		if toks[i].kind != tokOpen {
			return nil, fmt.Errorf("infix: expected '(', found %q", toks[i].text)
		}
		i++

		var clause []Literal
		for {
			if i >= len(toks) {
				return nil, errors.New("infix: expected variable, found end of input")
			}
			if toks[i].kind != tokPosVar && toks[i].kind != tokNegVar {
				return nil, fmt.Errorf("infix: expected variable, found %q", toks[i].text)
			}
			v := toks[i].varIndex
			if v > maxVar {
				maxVar = v
			}
			clause = append(clause, NewLiteral(Variable(v), toks[i].kind == tokPosVar))
			i++

			if i >= len(toks) {
				return nil, errors.New("infix: expected 'v' or ')', found end of input")
			}
			if toks[i].kind == tokClose {
				i++
				break
			}
			if toks[i].kind != tokOr {
				return nil, fmt.Errorf("infix: expected 'v' or ')', found %q", toks[i].text)
			}
			i++
		}
		inst.Clauses = append(inst.Clauses, dedupeClause(clause))

		if i >= len(toks) {
			break
		}
		if toks[i].kind != tokAnd {
			return nil, fmt.Errorf("infix: expected '^' or end, found %q", toks[i].text)
		}
		i++
	}

	inst.Variables = maxVar + 1
	return inst, nil
}

type tokKind int

const (
	tokOpen tokKind = iota
	tokClose
	tokPosVar
	tokNegVar
	tokOr
	tokAnd
)

type token struct {
	kind     tokKind
	text     string
	varIndex int // valid for tokPosVar/tokNegVar
}

func lexInfix(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokOpen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokClose, text: ")"})
			i++
		case c == '^':
			toks = append(toks, token{kind: tokAnd, text: "^"})
			i++
		case c == 'v' && (i+1 >= len(s) || s[i+1] < '0' || s[i+1] > '9'):
			toks = append(toks, token{kind: tokOr, text: "v"})
			i++
		case c == '~' || c == '!':
			j := i + 1
			if j >= len(s) || s[j] != 'x' {
				return nil, fmt.Errorf("infix: expected 'x' after %q at offset %d", string(c), i)
			}
			start := j + 1
			k := start
			for k < len(s) && s[k] >= '0' && s[k] <= '9' {
				k++
			}
			if k == start {
				return nil, fmt.Errorf("infix: expected digits after 'x' at offset %d", start)
			}
			n, _ := strconv.Atoi(s[start:k])
			toks = append(toks, token{kind: tokNegVar, text: s[i:k], varIndex: n})
			i = k
		case c == 'x':
			start := i + 1
			k := start
			for k < len(s) && s[k] >= '0' && s[k] <= '9' {
				k++
			}
			if k == start {
				return nil, fmt.Errorf("infix: expected digits after 'x' at offset %d", start)
			}
			n, _ := strconv.Atoi(s[start:k])
			toks = append(toks, token{kind: tokPosVar, text: s[i:k], varIndex: n})
			i = k
		default:
			return nil, fmt.Errorf("infix: unexpected character %q at offset %d", string(c), i)
		}
	}
	return toks, nil
}
