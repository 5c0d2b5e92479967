package cnf

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cfgkit/lr"
)

// TerminalReport is the report of the terminal-isolation stage.
type TerminalReport struct {
	NewVariables  []string // fresh carrier non-terminals, in order of creation
	Before, After int      // production counts
}

func (r *TerminalReport) String() string {
	var b strings.Builder
	b.WriteString(" >> Replacing terminals in bad bodies\n")
	fmt.Fprintf(&b, "  Added %d new variables: %s\n", len(r.NewVariables), setString(r.NewVariables))
	b.WriteString(countLine(r.After, r.Before))
	return b.String()
}

// builtinCarriers maps terminals to non-terminals which conventionally
// derive them.
var builtinCarriers = map[string]string{
	"a": "A",
	"b": "B",
}

// IsolateTerminals replaces terminals within bodies of length ≥ 2 by
// non-terminals deriving exactly that terminal. Bodies of length 1 are not
// changed.
//
// If a body contains a single distinct terminal t, and t has a built-in carrier
// non-terminal (A for a, B for b) which derives t and nothing else, t is
// replaced by it. Otherwise a fresh carrier _t with the single production
// _t -> t is introduced. Carriers are shared between bodies.
func IsolateTerminals(g *lr.Grammar) *TerminalReport {
	report := &TerminalReport{Before: g.ProductionCount()}
	carriers := make(map[*lr.Symbol]*lr.Symbol)
	var newCarriers []lr.Production
	fresh := func(T *lr.Symbol) *lr.Symbol {
		if C, ok := carriers[T]; ok {
			return C
		}
		C := g.FreshNonTerminal("_" + T.Name)
		carriers[T] = C
		newCarriers = append(newCarriers, lr.Production{LHS: C, RHS: []*lr.Symbol{T}})
		report.NewVariables = append(report.NewVariables, C.Name)
		tracer().Debugf("new carrier %s -> %s", C, T)
		return C
	}
	var prods []lr.Production
	for _, r := range g.Rules() {
		rhs := r.RHS()
		if len(rhs) < 2 {
			prods = append(prods, lr.Production{LHS: r.LHS, RHS: rhs})
			continue
		}
		distinct := make(map[*lr.Symbol]bool)
		for _, A := range rhs {
			if A.IsTerminal() {
				distinct[A] = true
			}
		}
		body := make([]*lr.Symbol, len(rhs))
		for i, A := range rhs {
			switch {
			case !A.IsTerminal():
				body[i] = A
			case len(distinct) == 1:
				if C := builtinCarrier(g, A); C != nil {
					body[i] = C
				} else {
					body[i] = fresh(A)
				}
			default:
				body[i] = fresh(A)
			}
		}
		prods = append(prods, lr.Production{LHS: r.LHS, RHS: body})
	}
	g.ReplaceProductions(append(prods, newCarriers...))
	report.After = g.ProductionCount()
	tracer().Infof("terminal isolation: %d new variables", len(report.NewVariables))
	return report
}

// builtinCarrier returns the built-in carrier for T, if it exists in g and
// derives T only.
func builtinCarrier(g *lr.Grammar, T *lr.Symbol) *lr.Symbol {
	name, ok := builtinCarriers[T.Name]
	if !ok {
		return nil
	}
	C := g.SymbolByName(name)
	if C == nil || C.IsTerminal() {
		return nil
	}
	P := g.Productions(C)
	if len(P) != 1 || len(P[0].RHS()) != 1 || P[0].RHS()[0] != T {
		return nil
	}
	return C
}
