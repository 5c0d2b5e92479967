package cnf

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cfgkit/lr"
)

// UselessReport is the report of the useless-symbol-removal stage.
type UselessReport struct {
	Generating         []string // generating symbols, terminals included
	Reachable          []string // reachable symbols
	Useful             []string // symbols both generating and reachable
	RemovedVariables   int
	RemovedProductions int
}

func (r *UselessReport) String() string {
	var b strings.Builder
	b.WriteString(" >> Eliminating useless symbols\n")
	fmt.Fprintf(&b, "  Generating symbols: %s\n", setString(r.Generating))
	fmt.Fprintf(&b, "  Reachable symbols: %s\n", setString(r.Reachable))
	fmt.Fprintf(&b, "  Useful symbols: %s\n", setString(r.Useful))
	fmt.Fprintf(&b, "  Removed %d variables and %d productions\n",
		r.RemovedVariables, r.RemovedProductions)
	return b.String()
}

// generating computes the set of symbols deriving some terminal string.
func generating(g *lr.Grammar) *symbolSet {
	gen := &symbolSet{}
	for _, T := range g.Terminals() {
		gen.add(T)
	}
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules() {
			if !gen.has(r.LHS) && gen.all(r.RHS()) {
				changed = gen.add(r.LHS) || changed
			}
		}
	}
	return gen
}

// reachable computes the set of symbols reachable from the start symbol,
// using only rules accepted by filter.
func reachable(g *lr.Grammar, filter func(*lr.Rule) bool) *symbolSet {
	reach := &symbolSet{}
	reach.add(g.Start())
	queue := []*lr.Symbol{g.Start()}
	for len(queue) > 0 {
		A := queue[0]
		queue = queue[1:]
		for _, r := range g.Productions(A) {
			if !filter(r) {
				continue
			}
			for _, B := range r.RHS() {
				if reach.add(B) && !B.IsTerminal() {
					queue = append(queue, B)
				}
			}
		}
	}
	return reach
}

// RemoveUseless removes all productions involving non-generating or unreachable
// symbols from g. Reachability is computed over the productions consisting of
// generating symbols only, so that no symbol is kept which is reachable only
// through a removed production.
// Terminals are never removed, they remain the alphabet of the grammar.
// The start symbol is always kept, even if it is useless.
func RemoveUseless(g *lr.Grammar) *UselessReport {
	report := &UselessReport{}
	gen := generating(g)
	allGenerating := func(r *lr.Rule) bool {
		return gen.has(r.LHS) && gen.all(r.RHS())
	}
	reach := reachable(g, allGenerating)
	useful := &symbolSet{}
	useful.Intersection(&gen.Sparse, &reach.Sparse)
	report.Generating = gen.names(g)
	report.Reachable = reach.names(g)
	report.Useful = useful.names(g)
	var prods []lr.Production
	for _, r := range g.Rules() {
		if useful.has(r.LHS) && useful.all(r.RHS()) {
			prods = append(prods, lr.Production{LHS: r.LHS, RHS: r.RHS()})
		}
	}
	report.RemovedProductions = g.ProductionCount() - len(prods)
	before := len(g.NonTerminals())
	g.ReplaceProductions(prods)
	g.RetainNonTerminals(useful.has)
	report.RemovedVariables = before - len(g.NonTerminals())
	tracer().Infof("useless symbols: removed %d variables and %d productions",
		report.RemovedVariables, report.RemovedProductions)
	return report
}
