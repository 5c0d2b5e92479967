package lr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// GrammarSpec is the grammar exchange format:
//
//	{
//	  "Variables": ["S"],
//	  "Terminals": ["a", "b"],
//	  "Productions": [ {"head": "S", "body": ["a", "S", "b"]} ],
//	  "Start": "S"
//	}
//
// Body tokens name symbols. A token which is not a declared symbol, but
// consists of declared single-character symbols only, is split into
// characters. An empty body denotes an epsilon-production.
type GrammarSpec struct {
	Variables   []string         `json:"Variables"`
	Terminals   []string         `json:"Terminals"`
	Productions []ProductionSpec `json:"Productions"`
	Start       string           `json:"Start"`
}

// ProductionSpec is a single production within a GrammarSpec.
type ProductionSpec struct {
	Head string   `json:"head"`
	Body []string `json:"body"`
}

// LoadFile loads a grammar in exchange format from a file. The grammar is
// named after the file.
func LoadFile(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open grammar: %w", err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadJSON(f, name)
}

// LoadJSON reads a grammar in exchange format from r.
func LoadJSON(r io.Reader, name string) (*Grammar, error) {
	var spec GrammarSpec
	dec := json.NewDecoder(r)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("cannot parse grammar %s: %w", name, err)
	}
	return FromSpec(name, spec)
}

// FromSpec creates a grammar from an exchange format description.
// Undeclared symbols, terminals which are not single characters, and names
// declared both as terminal and non-terminal are reported as errors.
// No partial grammar is returned.
func FromSpec(name string, spec GrammarSpec) (*Grammar, error) {
	g := newGrammar(name)
	var errs []error
	for _, t := range spec.Terminals {
		if utf8.RuneCountInString(t) != 1 {
			errs = append(errs, fmt.Errorf("terminal %q is not a single character", t))
			continue
		}
		c, _ := utf8.DecodeRuneInString(t)
		g.terminalFor(c)
	}
	for _, v := range spec.Variables {
		if _, err := g.NonTerminalFor(v); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range spec.Productions {
		A := g.symbols[p.Head]
		if A == nil || A.IsTerminal() {
			errs = append(errs, fmt.Errorf("production head %q is not a declared variable", p.Head))
			continue
		}
		prod := Production{LHS: A}
		for _, tok := range p.Body {
			syms, err := g.resolveToken(tok)
			if err != nil {
				errs = append(errs, fmt.Errorf("production %s: %w", p.Head, err))
			}
			prod.RHS = append(prod.RHS, syms...)
		}
		g.addRule(prod)
	}
	if S := g.symbols[spec.Start]; S == nil || S.IsTerminal() {
		errs = append(errs, fmt.Errorf("start symbol %q is not a declared variable", spec.Start))
	} else {
		g.start = S
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("grammar %s: %w", name, errors.Join(errs...))
	}
	tracer().Infof("loaded grammar %s with %d productions", name, g.ProductionCount())
	return g, nil
}

func (g *Grammar) resolveToken(tok string) ([]*Symbol, error) {
	if tok == "" {
		return nil, nil
	}
	if A := g.symbols[tok]; A != nil {
		return []*Symbol{A}, nil
	}
	syms := make([]*Symbol, 0, len(tok))
	for _, c := range tok {
		A := g.symbols[string(c)]
		if A == nil {
			return nil, fmt.Errorf("undeclared symbol %q", tok)
		}
		syms = append(syms, A)
	}
	return syms, nil
}

// Export creates an exchange format description of g. Variables and
// terminals are sorted by name.
func (g *Grammar) Export() GrammarSpec {
	spec := GrammarSpec{Start: g.start.Name}
	vars := make(map[string]bool, len(g.nonterminals))
	for _, A := range g.nonterminals {
		vars[A.Name] = true
	}
	spec.Variables = maps.Keys(vars)
	slices.Sort(spec.Variables)
	for _, T := range g.terminals {
		spec.Terminals = append(spec.Terminals, T.Name)
	}
	slices.Sort(spec.Terminals)
	spec.Productions = make([]ProductionSpec, 0, len(g.rules))
	for _, r := range g.rules {
		p := ProductionSpec{Head: r.LHS.Name, Body: make([]string, 0, len(r.rhs))}
		for _, A := range r.rhs {
			p.Body = append(p.Body, A.Name)
		}
		spec.Productions = append(spec.Productions, p)
	}
	return spec
}

// WriteJSON writes g to w in exchange format.
func WriteJSON(w io.Writer, g *Grammar) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g.Export())
}
