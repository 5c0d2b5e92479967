package cnf

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cfgkit/lr"
)

// BinarizeReport is the report of the binarization stage.
type BinarizeReport struct {
	Broken        int      // number of bodies broken into chains
	NewVariables  []string // chain non-terminals, in order of creation
	Before, After int      // production counts
}

func (r *BinarizeReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, " >> Broke %d bodies, added %d new variables\n", r.Broken, len(r.NewVariables))
	b.WriteString(countLine(r.After, r.Before))
	return b.String()
}

// Binarize breaks bodies with more than 2 symbols into chains of binary
// productions:
//
//	A -> X1 X2 X3 X4    becomes    A -> X1 A_2,  A_2 -> X2 A_3,  A_3 -> X3 X4
//
// Chain variables are numbered per head, starting at 2. Names already in use
// are skipped.
func Binarize(g *lr.Grammar) *BinarizeReport {
	report := &BinarizeReport{Before: g.ProductionCount()}
	counters := make(map[*lr.Symbol]int)
	next := func(head *lr.Symbol) *lr.Symbol {
		for {
			n, ok := counters[head]
			if !ok {
				n = 1
			}
			n++
			counters[head] = n
			name := fmt.Sprintf("%s_%d", head.Name, n)
			if g.SymbolByName(name) == nil {
				A, _ := g.NonTerminalFor(name)
				report.NewVariables = append(report.NewVariables, name)
				return A
			}
		}
	}
	var prods []lr.Production
	for _, r := range g.Rules() {
		rhs := r.RHS()
		if len(rhs) <= 2 {
			prods = append(prods, lr.Production{LHS: r.LHS, RHS: rhs})
			continue
		}
		report.Broken++
		head := r.LHS
		for i := 0; i < len(rhs)-2; i++ {
			A := next(r.LHS)
			prods = append(prods, lr.Production{LHS: head, RHS: []*lr.Symbol{rhs[i], A}})
			head = A
		}
		prods = append(prods, lr.Production{LHS: head, RHS: rhs[len(rhs)-2:]})
	}
	g.ReplaceProductions(prods)
	report.After = g.ProductionCount()
	tracer().Infof("binarization: broke %d bodies, %d new variables", report.Broken, len(report.NewVariables))
	return report
}
