package cnf

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/cfgkit/lr"
)

// UnitReport is the report of the unit-elimination stage.
type UnitReport struct {
	UnitProductions int         // number of productions A -> B found
	Pairs           [][2]string // unit pairs (A, B), including (A, A)
	Before, After   int         // production counts
}

func (r *UnitReport) String() string {
	var b strings.Builder
	b.WriteString(" >> Eliminating unit pairs\n")
	fmt.Fprintf(&b, "  Found %d unit productions\n", r.UnitProductions)
	pairs := make([]string, len(r.Pairs))
	for i, p := range r.Pairs {
		pairs[i] = "(" + p[0] + ", " + p[1] + ")"
	}
	fmt.Fprintf(&b, "  Unit pairs: %s\n", setString(pairs))
	b.WriteString(countLine(r.After, r.Before))
	return b.String()
}

type unitPair struct {
	a, b *lr.Symbol
}

// Unit pairs are ordered by the values of their components.
func pairComparator(p1, p2 interface{}) int {
	u1, u2 := p1.(unitPair), p2.(unitPair)
	if c := utils.IntComparator(u1.a.Value, u2.a.Value); c != 0 {
		return c
	}
	return utils.IntComparator(u1.b.Value, u2.b.Value)
}

// unitPairs computes the transitive closure of the unit relation.
func unitPairs(g *lr.Grammar) (*treeset.Set, int) {
	pairs := treeset.NewWith(pairComparator)
	for _, A := range g.NonTerminals() {
		pairs.Add(unitPair{A, A})
	}
	units := 0
	for _, r := range g.Rules() {
		if isUnit(r) {
			units++
			pairs.Add(unitPair{r.LHS, r.RHS()[0]})
		}
	}
	for changed := true; changed; {
		changed = false
		for _, x := range pairs.Values() {
			p := x.(unitPair)
			for _, y := range pairs.Values() {
				q := y.(unitPair)
				if p.b == q.a && !pairs.Contains(unitPair{p.a, q.b}) {
					pairs.Add(unitPair{p.a, q.b})
					changed = true
				}
			}
		}
	}
	return pairs, units
}

// EliminateUnits removes all unit productions A -> B from g. For every unit
// pair (A, B), the non-unit productions of B become productions of A.
func EliminateUnits(g *lr.Grammar) *UnitReport {
	report := &UnitReport{Before: g.ProductionCount()}
	pairs, units := unitPairs(g)
	report.UnitProductions = units
	var prods []lr.Production
	it := pairs.Iterator()
	for it.Next() {
		p := it.Value().(unitPair)
		report.Pairs = append(report.Pairs, [2]string{p.a.Name, p.b.Name})
		for _, r := range g.Productions(p.b) {
			if !isUnit(r) {
				prods = append(prods, lr.Production{LHS: p.a, RHS: r.RHS()})
			}
		}
	}
	g.ReplaceProductions(prods)
	report.After = g.ProductionCount()
	tracer().Infof("unit elimination: %d unit pairs, %d -> %d productions",
		len(report.Pairs), report.Before, report.After)
	return report
}
