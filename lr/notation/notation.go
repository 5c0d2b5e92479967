/*
Package notation reads grammars written in a compact inline rule notation,
as used on the command line and in tests:

	S -> a S b | ε
	A_2 → A B ; B ::= 'b' | %empty

Rules are separated by newlines or semicolons. The arrow may be written as
"->", "→" or "::=", alternatives are separated by "|". The empty body is
written as "ε", "eps" or "%empty", or simply left empty. Comments start with
"#" and extend to the end of the line.

Symbols follow a small set of conventions, which allow writing bodies
without blanks ("aSb"):

	S, A_2, X1     an uppercase letter, optional digits and _n suffixes: non-terminal
	_a, _a1        an underscore and a letter or digit: non-terminal
	<Expr>         any other name in angle brackets: non-terminal
	ab12           a run of lowercase letters and digits: one terminal per character
	'+'            a single quoted character: terminal

The left hand side of the first rule is the start symbol.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package notation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/scanner"
	"github.com/npillmayer/cfgkit/lr/scanner/lexmach"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
)

// tracer traces with key 'cfgkit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.lr")
}

// Token categories of the rule notation.
const (
	tokNonTerm cfgkit.TokType = iota + 1
	tokLongName
	tokTerms
	tokQuoted
	tokEps
	tokArrow
	tokBar
	tokSep
)

var tokenIds = map[string]int{
	"NONTERM": int(tokNonTerm),
	"LONG":    int(tokLongName),
	"TERMS":   int(tokTerms),
	"QUOTED":  int(tokQuoted),
	"EPS":     int(tokEps),
	"ARROW":   int(tokArrow),
	"|":       int(tokBar),
	";":       int(tokSep),
}

var (
	adapter     *lexmach.LMAdapter
	adapterErr  error
	adapterOnce sync.Once
)

// lexer compiles the DFA for the rule notation once.
func lexer() (*lexmach.LMAdapter, error) {
	adapterOnce.Do(func() {
		init := func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`( |\t|\r)+`), lexmach.Skip)
			lexer.Add([]byte(`#[^\n]*`), lexmach.Skip)
			lexer.Add([]byte(`\n`), lexmach.MakeToken(";", tokenIds[";"]))
			lexer.Add([]byte(`->|::=|→`), lexmach.MakeToken("ARROW", tokenIds["ARROW"]))
			lexer.Add([]byte(`eps|%empty|ε`), lexmach.MakeToken("EPS", tokenIds["EPS"]))
			lexer.Add([]byte(`[A-Z][0-9]*(_[0-9]+)*`), lexmach.MakeToken("NONTERM", tokenIds["NONTERM"]))
			lexer.Add([]byte(`_[a-z0-9][0-9]*`), lexmach.MakeToken("NONTERM", tokenIds["NONTERM"]))
			lexer.Add([]byte(`<[^<>\n]+>`), lexmach.MakeToken("LONG", tokenIds["LONG"]))
			lexer.Add([]byte(`[a-z0-9]+`), lexmach.MakeToken("TERMS", tokenIds["TERMS"]))
			lexer.Add([]byte(`'[^'\n]+'|'''`), lexmach.MakeToken("QUOTED", tokenIds["QUOTED"]))
		}
		adapter, adapterErr = lexmach.NewLMAdapter(init, []string{"|", ";"}, nil, tokenIds)
	})
	return adapter, adapterErr
}

// Parse reads a grammar in rule notation. name becomes the name of the
// grammar. All syntax errors found are reported, joined into one error.
func Parse(name, text string) (*lr.Grammar, error) {
	lm, err := lexer()
	if err != nil {
		return nil, fmt.Errorf("notation: cannot create lexer: %w", err)
	}
	sc, err := lm.Scanner(text)
	if err != nil {
		return nil, fmt.Errorf("notation %s: %w", name, err)
	}
	p := &parser{name: name, b: lr.NewGrammarBuilder(name)}
	sc.SetErrorHandler(func(e error) {
		p.errs = append(p.errs, fmt.Errorf("notation %s: %w", name, e))
	})
	p.tokens = scanner.Tokens(sc)
	p.grammar()
	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	g, err := p.b.Grammar()
	if err != nil {
		return nil, err
	}
	tracer().Debugf("notation %s: %d productions", name, g.ProductionCount())
	return g, nil
}

// MustParse is like Parse, but panics on error. It simplifies the setup of
// grammars in tests.
func MustParse(name, text string) *lr.Grammar {
	g, err := Parse(name, text)
	if err != nil {
		panic(err)
	}
	return g
}

// --- Recursive descent -----------------------------------------------------

type parser struct {
	name   string
	tokens []cfgkit.Token
	pos    int
	b      *lr.GrammarBuilder
	errs   []error
}

func (p *parser) peek() cfgkit.TokType {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].TokType()
	}
	return scanner.EOF
}

func (p *parser) errorf(format string, args ...interface{}) {
	where := "end of input"
	if p.pos < len(p.tokens) {
		where = fmt.Sprintf("offset %d", p.tokens[p.pos].Span().From())
	}
	p.errs = append(p.errs, fmt.Errorf("notation %s: at %s: %s", p.name, where,
		fmt.Sprintf(format, args...)))
}

func (p *parser) lexeme() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Lexeme()
	}
	return ""
}

// grammar := { sep } rule { sep { sep } rule } { sep }
func (p *parser) grammar() {
	for {
		for p.peek() == tokSep {
			p.pos++
		}
		if p.peek() == scanner.EOF {
			return
		}
		if !p.rule() {
			for p.peek() != tokSep && p.peek() != scanner.EOF {
				p.pos++
			}
		}
	}
}

// rule := nonterm arrow alternative { '|' alternative }
func (p *parser) rule() bool {
	var head string
	switch p.peek() {
	case tokNonTerm:
		head = p.lexeme()
	case tokLongName:
		head = unbracket(p.lexeme())
	default:
		p.errorf("expected non-terminal at start of rule, found %q", p.lexeme())
		return false
	}
	p.pos++
	if p.peek() != tokArrow {
		p.errorf("expected arrow after %s, found %q", head, p.lexeme())
		return false
	}
	p.pos++
	for {
		if !p.alternative(p.b.LHS(head)) {
			return false
		}
		if p.peek() != tokBar {
			break
		}
		p.pos++
	}
	if t := p.peek(); t != tokSep && t != scanner.EOF {
		p.errorf("unexpected %q in rule for %s", p.lexeme(), head)
		return false
	}
	return true
}

// alternative := eps | { symbol }
func (p *parser) alternative(rb *lr.RuleBuilder) bool {
	if p.peek() == tokEps {
		p.pos++
		rb.Epsilon()
		return true
	}
	for {
		switch p.peek() {
		case tokNonTerm:
			rb.N(p.lexeme())
		case tokLongName:
			rb.N(unbracket(p.lexeme()))
		case tokTerms:
			for _, c := range p.lexeme() {
				rb.T(string(c))
			}
		case tokQuoted:
			lexeme := p.lexeme()
			rb.T(lexeme[1 : len(lexeme)-1])
		case tokEps:
			p.errorf("ε must be the only symbol of an alternative")
			return false
		default:
			rb.End()
			return true
		}
		p.pos++
	}
}

func unbracket(s string) string {
	return strings.TrimSpace(s[1 : len(s)-1])
}

// --- Formatting ------------------------------------------------------------

var (
	shortNonTerm = regexp.MustCompile(`^([A-Z][0-9]*(_[0-9]+)*|_[a-z0-9][0-9]*)$`)
	plainTerm    = regexp.MustCompile(`^[a-z0-9]$`)
)

// Format writes g in rule notation, one line per non-terminal. The rules for
// the start symbol come first, so Parse(Format(g)) yields a grammar with the
// same start symbol and productions. Non-terminals without productions are
// not written.
func Format(g *lr.Grammar) string {
	var b strings.Builder
	heads := []*lr.Symbol{g.Start()}
	for _, A := range g.NonTerminals() {
		if A != g.Start() {
			heads = append(heads, A)
		}
	}
	for _, A := range heads {
		prods := g.Productions(A)
		if len(prods) == 0 {
			continue
		}
		b.WriteString(symbolString(A))
		b.WriteString(" ->")
		for i, r := range prods {
			if i > 0 {
				b.WriteString(" |")
			}
			if r.IsEps() {
				b.WriteString(" ε")
				continue
			}
			for _, X := range r.RHS() {
				b.WriteByte(' ')
				b.WriteString(symbolString(X))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func symbolString(A *lr.Symbol) string {
	if A.IsTerminal() {
		if plainTerm.MatchString(A.Name) {
			return A.Name
		}
		return "'" + A.Name + "'"
	}
	if shortNonTerm.MatchString(A.Name) {
		return A.Name
	}
	return "<" + A.Name + ">"
}
