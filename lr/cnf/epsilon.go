package cnf

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cfgkit/lr"
)

// EpsilonReport is the report of the epsilon-elimination stage.
type EpsilonReport struct {
	Nullable      []string // nullable non-terminals, sorted
	StartNullable bool     // the empty word has been dropped from the language
	Before, After int      // production counts
}

func (r *EpsilonReport) String() string {
	var b strings.Builder
	b.WriteString(" >> Eliminating epsilon productions\n")
	fmt.Fprintf(&b, "  Nullables are %s\n", setString(r.Nullable))
	if r.StartNullable {
		b.WriteString("  Start symbol is nullable, the empty word is dropped\n")
	}
	b.WriteString(countLine(r.After, r.Before))
	return b.String()
}

// nullables computes the set of nullable non-terminals: non-terminals with an
// epsilon-production, closed under 'all symbols of some body are nullable'.
func nullables(g *lr.Grammar) *symbolSet {
	nullable := &symbolSet{}
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules() {
			if nullable.has(r.LHS) {
				continue
			}
			if nullable.all(r.RHS()) { // true for empty bodies, false for terminals
				changed = nullable.add(r.LHS) || changed
			}
		}
	}
	return nullable
}

// EliminateEpsilon removes all epsilon-productions from g. For every body,
// every variant with occurrences of nullable symbols deleted is added to the
// grammar. Occurrences are deleted independently of each other, e.g.
//
//	S -> A b A     with A nullable
//
// results in S -> A b A | b A | A b | b.
func EliminateEpsilon(g *lr.Grammar) *EpsilonReport {
	report := &EpsilonReport{Before: g.ProductionCount()}
	nullable := nullables(g)
	report.Nullable = nullable.names(g)
	report.StartNullable = nullable.has(g.Start())
	var prods []lr.Production
	for _, r := range g.Rules() {
		prods = append(prods, deletions(r, nullable)...)
	}
	g.ReplaceProductions(prods)
	report.After = g.ProductionCount()
	tracer().Infof("epsilon elimination: %d nullable, %d -> %d productions",
		len(report.Nullable), report.Before, report.After)
	return report
}

// deletions generates every non-empty body obtained from r by deleting a
// subset of the occurrences of nullable symbols.
func deletions(r *lr.Rule, nullable *symbolSet) []lr.Production {
	rhs := r.RHS()
	var at []int // positions of nullable occurrences
	for i, A := range rhs {
		if nullable.has(A) {
			at = append(at, i)
		}
	}
	var prods []lr.Production
	for mask := 0; mask < 1<<len(at); mask++ {
		body := make([]*lr.Symbol, 0, len(rhs))
		k := 0
		for i, A := range rhs {
			if k < len(at) && at[k] == i {
				drop := mask&(1<<k) != 0
				k++
				if drop {
					continue
				}
			}
			body = append(body, A)
		}
		if len(body) > 0 {
			prods = append(prods, lr.Production{LHS: r.LHS, RHS: body})
		}
	}
	return prods
}
