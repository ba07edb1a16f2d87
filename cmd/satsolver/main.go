// Command satsolver reads a DIMACS (or infix) CNF/MWCNF instance and
// reports whether it is satisfiable.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kr/pretty"

	"github.com/gocdcl/satsolver"
)

func main() {
	log.SetFlags(0)

	verbose := flag.Bool("v", false, "verbose mode: dump solver stats to stderr")
	trace := flag.Bool("trace", false, "trace every assignment/deassignment to stderr")
	infix := flag.Bool("infix", false, "parse input using the infix grammar instead of DIMACS")
	policyName := flag.String("policy", "priority", "branching policy: naive, priority, or greedy (mwcnf only; used for mwcnf input unless -policy is given)")
	dumpInstance := flag.Bool("dump-instance", false, "pretty-print the parsed instance to stderr before solving")
	cpuProfile := flag.String("cpuprofile", "", "write a pprof CPU profile to this file")
	memProfile := flag.String("memprofile", "", "write a pprof heap profile to this file")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `satsolver: a CDCL SAT solver.

Usage:

  satsolver [flags] [input.cnf]

satsolver reads a single problem specification, by default in the DIMACS
CNF (or MWCNF) format. It writes SAT or UNSAT on the first line; for SAT,
the second line gives the assignment in the same format as an input
clause. For MWCNF instances, the best weight found is printed alongside.

If no input file is given, satsolver reads from standard input.

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	var r io.Reader = os.Stdin
	if flag.NArg() >= 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	var inst *satsolver.Instance
	if *infix {
		data, err := io.ReadAll(r)
		if err != nil {
			log.Fatal(err)
		}
		inst, err = satsolver.ParseInfix(string(data))
		if err != nil {
			log.Fatalln("error reading input as infix CNF:", err)
		}
	} else {
		var err error
		inst, err = satsolver.ParseDIMACS(r)
		if err != nil {
			log.Fatalln("error reading input as DIMACS:", err)
		}
	}

	if *dumpInstance {
		pretty.Fprintf(os.Stderr, "%# v\n", inst)
	}

	choice := strings.ToLower(*policyName)
	if inst.Kind == satsolver.KindMWCNF {
		explicit := false
		flag.Visit(func(f *flag.Flag) {
			if f.Name == "policy" {
				explicit = true
			}
		})
		if !explicit {
			choice = "greedy"
		}
	}

	var policy satsolver.Policy
	switch choice {
	case "naive":
		policy = satsolver.NewNaivePolicy()
	case "priority":
		policy = satsolver.NewPriorityPolicy(inst.Variables)
	case "greedy":
		if inst.Kind != satsolver.KindMWCNF {
			log.Fatal("the greedy policy requires a mwcnf instance with a weight line")
		}
		policy = satsolver.NewGreedyWeightPolicy(inst.Weights)
	default:
		log.Fatalf("unknown policy %q: want naive, priority, or greedy", *policyName)
	}

	solver := satsolver.NewSolver(inst.Variables, inst.Clauses, policy)
	if *trace {
		solver.Trace = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	fmt.Fprintf(os.Stderr, "c variables: %d\n", inst.Variables)
	fmt.Fprintf(os.Stderr, "c clauses:   %d\n", len(inst.Clauses))

	t := time.Now()
	outcome, model := solver.Solve()
	elapsed := time.Since(t)

	fmt.Fprintf(os.Stderr, "c time (sec): %f\n", elapsed.Seconds())
	if *verbose {
		stats := solver.Stats()
		var keys []string
		var maxKeyLen int
		for key := range stats {
			keys = append(keys, key)
			if len(key) > maxKeyLen {
				maxKeyLen = len(key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(os.Stderr, "%*s %v\n", maxKeyLen, key, stats[key])
		}
	}

	if outcome == satsolver.Unsatisfiable {
		fmt.Println("UNSAT")
		os.Exit(1)
	}

	fmt.Println("SAT")
	var fields []string
	if gp, ok := policy.(*satsolver.GreedyWeightPolicy); ok {
		fields = append(fields, strconv.Itoa(gp.BestWeight()))
	}
	for i, v := range model {
		n := i + 1
		if !v {
			n = -n
		}
		fields = append(fields, strconv.Itoa(n))
	}
	fields = append(fields, "0")
	fmt.Println(strings.Join(fields, " "))

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
