package cnf

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/cfgkit/lr"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

// Report collects the reports of all normalization stages.
type Report struct {
	Epsilon   *EpsilonReport
	Units     *UnitReport
	Useless   *UselessReport
	Terminals *TerminalReport
	Binarize  *BinarizeReport
}

// Normalize transforms g into Chomsky Normal Form, in place.
func Normalize(g *lr.Grammar) *Report {
	tracer().Infof("normalizing grammar %s with %d productions", g.Name, g.ProductionCount())
	r := &Report{}
	r.Epsilon = EliminateEpsilon(g)
	r.Units = EliminateUnits(g)
	r.Useless = RemoveUseless(g)
	r.Terminals = IsolateTerminals(g)
	r.Binarize = Binarize(g)
	tracer().Infof("grammar %s in CNF has %d productions", g.Name, g.ProductionCount())
	return r
}

// Print writes all stage reports to w.
func (r *Report) Print(w io.Writer) {
	if r.Epsilon != nil {
		io.WriteString(w, r.Epsilon.String())
	}
	if r.Units != nil {
		io.WriteString(w, r.Units.String())
	}
	if r.Useless != nil {
		io.WriteString(w, r.Useless.String())
	}
	if r.Terminals != nil {
		io.WriteString(w, r.Terminals.String())
	}
	if r.Binarize != nil {
		io.WriteString(w, r.Binarize.String())
	}
}

// IsCNF checks if every production of g has either a single terminal or
// exactly two non-terminals as its body. For the first violation found, the
// offending rule is returned.
func IsCNF(g *lr.Grammar) (bool, *lr.Rule) {
	for _, r := range g.Rules() {
		rhs := r.RHS()
		switch len(rhs) {
		case 1:
			if !rhs[0].IsTerminal() {
				return false, r
			}
		case 2:
			if rhs[0].IsTerminal() || rhs[1].IsTerminal() {
				return false, r
			}
		default:
			return false, r
		}
	}
	return true, nil
}

// --- Helpers ---------------------------------------------------------------

// symbolSet is a set of grammar symbols, keyed by symbol value.
type symbolSet struct {
	intsets.Sparse
}

func (s *symbolSet) add(A *lr.Symbol) bool {
	return s.Insert(A.Value)
}

func (s *symbolSet) has(A *lr.Symbol) bool {
	return s.Has(A.Value)
}

// all checks if every symbol of syms is in s.
func (s *symbolSet) all(syms []*lr.Symbol) bool {
	for _, A := range syms {
		if !s.has(A) {
			return false
		}
	}
	return true
}

// names returns the names of the symbols of g contained in s, sorted.
func (s *symbolSet) names(g *lr.Grammar) []string {
	byValue := make(map[int]string)
	g.EachSymbol(func(A *lr.Symbol) interface{} {
		byValue[A.Value] = A.Name
		return nil
	})
	names := make([]string, 0, s.Len())
	for _, v := range s.AppendTo(nil) {
		if n, ok := byValue[v]; ok {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

func isUnit(r *lr.Rule) bool {
	return len(r.RHS()) == 1 && !r.RHS()[0].IsTerminal()
}

func setString(names []string) string {
	return "{" + strings.Join(names, ", ") + "}"
}

func countLine(created, before int) string {
	return fmt.Sprintf("  Created %d productions, original had %d\n", created, before)
}
