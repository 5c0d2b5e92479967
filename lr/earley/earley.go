/*
Package earley provides an Earley-Parser.

Earley's algorithm for parsing ambiguous grammars has been known since 1968.
Despite its benefits, until recently it has lead a reclusive life outside
the mainstream discussion about parsers. Many textbooks on parsing do not even
discuss it (the "Dragon book" only mentions it in the appendix).

A very accessible and practical discussion has been done by Loup Vaillant
in a superb blog series (http://loup-vaillant.fr/tutorials/earley-parsing/),
and it even boasts an implementation in Lua/OCaml.

The parser of this package works on the characters of an input string, every
character being a terminal of the grammar. It may be run in one go

	parser := earley.NewParser(g)
	accept := parser.Parse("aabb")

or step by step, for example to visualize the chart:

	parser.Reset("aabb")
	for parser.NextStep() {
		view := parser.Chart()
		…
	}

Every step appends human readable explanations to a log, which is scoped to a
single run (from Reset to the final step). Clients may provide a sink to
receive explanations as they are produced, using option Explain.

After a successful parse, clients may count the derivations of the input
(Derivations) or walk a derivation with a listener (WalkDerivation).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package earley

import (
	"fmt"

	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/iteratable"
	"github.com/npillmayer/cfgkit/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfgkit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.lr")
}

// Parser is an Earley-parser type. Create and initialize one with
// earley.NewParser(...). A parser is not safe for concurrent use.
type Parser struct {
	g        *lr.Grammar
	start    *lr.Rule          // augmented start rule S' ::= S
	tokens   []cfgkit.Token    // input tokens, one per character
	states   []*iteratable.Set // the chart: one item set per input position
	sc       uint64            // current position
	done     bool
	accepted bool
	explain  func(string) // sink for explanations, may be nil
	log      []string     // explanations for the current run
	counter  *counter     // derivation counter, created on demand
}

// Option configures a parser.
type Option func(p *Parser)

// Explain sets a sink which receives every explanation line as it is
// produced.
func Explain(sink func(string)) Option {
	return func(p *Parser) {
		p.explain = sink
	}
}

// NewParser creates and initializes an Earley parser for grammar g.
// The grammar is not modified by the parser.
func NewParser(g *lr.Grammar, opts ...Option) *Parser {
	p := &Parser{
		g:     g,
		start: lr.AugmentedStart(g),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Grammar returns the grammar the parser recognizes.
func (p *Parser) Grammar() *lr.Grammar {
	return p.g
}

// Parse runs the parser on an input string to completion. It returns true
// if the input is a sentence of the grammar.
func (p *Parser) Parse(input string) bool {
	p.Reset(input)
	for p.NextStep() {
	}
	return p.accepted
}

// Reset prepares the parser for a run over input. The chart and the
// explanation log of a previous run are discarded.
func (p *Parser) Reset(input string) {
	p.tokens = scanner.Tokens(scanner.Runes(input))
	p.states = make([]*iteratable.Set, len(p.tokens)+1)
	for i := range p.states {
		p.states[i] = lr.NewItemSet()
	}
	p.sc = 0
	p.done, p.accepted = false, false
	p.log = nil
	p.counter = nil
	startItem, _ := lr.StartItem(p.start)
	p.states[0].Add(startItem)
	p.explainf("Earley: reset, inserted augmented item %s -> •%s at chart[0]",
		p.start.LHS, p.g.Start())
	p.predictAndComplete(0)
	dumpState(p.states, 0)
}

// NextStep performs a single step: it scans the next input character and
// runs predict/complete at the new position. After the last character, a
// final step decides acceptance. NextStep returns true while more steps
// remain.
func (p *Parser) NextStep() bool {
	if p.done || p.states == nil {
		return false
	}
	if p.sc < uint64(len(p.tokens)) {
		token := p.tokens[p.sc]
		p.scan(token)
		p.predictAndComplete(p.sc + 1)
		p.sc++
		dumpState(p.states, p.sc)
		p.explainf("Earley: advanced to pos=%d (char '%s')", p.sc, token.Lexeme())
		return true
	}
	p.done = true
	p.accepted = p.states[p.sc].Contains(lr.NewItem(p.start, 1, 0))
	verdict := "REJECTED"
	if p.accepted {
		verdict = "ACCEPTED"
	}
	p.explainf("Earley: end of input. %s", verdict)
	tracer().Infof("Earley parser: input of length %d %s", len(p.tokens), verdict)
	return false
}

// IsDone returns true if the current run has decided acceptance.
func (p *Parser) IsDone() bool {
	return p.done
}

// IsAccepted returns true if the current run has accepted the input.
// Before the run is done, IsAccepted is false.
func (p *Parser) IsAccepted() bool {
	return p.accepted
}

// Position returns the current input position, i.e. the index of the
// last chart entry which has been completed.
func (p *Parser) Position() uint64 {
	return p.sc
}

// Explanations returns the explanations of the current run, in order.
func (p *Parser) Explanations() []string {
	return append([]string(nil), p.log...)
}

// TokenAt returns the input token at position pos.
func (p *Parser) TokenAt(pos uint64) cfgkit.Token {
	if pos < uint64(len(p.tokens)) {
		return p.tokens[pos]
	}
	return nil
}

func (p *Parser) explainf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.log = append(p.log, msg)
	if p.explain != nil {
		p.explain(msg)
	}
	tracer().Debugf(msg)
}

// --- The Algorithm ---------------------------------------------------------

// scan moves every item of chart[sc] with the dot before the current input
// character over it, into chart[sc+1].
func (p *Parser) scan(token cfgkit.Token) {
	S, S1 := p.states[p.sc], p.states[p.sc+1]
	scanned := false
	for _, x := range S.Values() {
		item := x.(lr.Item)
		if A := item.PeekSymbol(); A != nil && A.IsTerminal() && A.TokenType() == token.TokType() {
			S1.Add(item.Advance())
			scanned = true
		}
	}
	if scanned {
		p.explainf("Earley: SCAN at pos=%d with char '%s', chart[%d] updated",
			p.sc, token.Lexeme(), p.sc+1)
	} else {
		p.explainf("Earley: SCAN at pos=%d with char '%s', no item matched",
			p.sc, token.Lexeme())
	}
}

// predictAndComplete applies predict and complete to chart[pos] until no
// more items are added. Item sets de-duplicate, which guarantees termination
// for left-recursive grammars and nullable completions.
func (p *Parser) predictAndComplete(pos uint64) {
	S := p.states[pos]
	for changed := true; changed; {
		changed = false
		for _, x := range S.Values() {
			item := x.(lr.Item)
			if A := item.PeekSymbol(); A != nil {
				if !A.IsTerminal() {
					changed = p.predict(S, A, pos) || changed
				}
			} else {
				changed = p.complete(S, item, pos) || changed
			}
		}
	}
}

// predict adds [A ::= • β, pos] for every rule A ::= β.
func (p *Parser) predict(S *iteratable.Set, A *lr.Symbol, pos uint64) bool {
	added := false
	for _, r := range p.g.Productions(A) {
		if S.Add(lr.NewItem(r, 0, pos)) {
			added = true
			p.explainf("Earley: PREDICT at chart[%d]: %s -> •%s", pos, A, r.Body())
		}
	}
	return added
}

// complete advances every item of chart[origin] waiting for the LHS of a
// completed item.
func (p *Parser) complete(S *iteratable.Set, item lr.Item, pos uint64) bool {
	A := item.Rule().LHS
	added := false
	for _, x := range p.states[item.Origin].Values() {
		waiting := x.(lr.Item)
		if waiting.PeekSymbol() == A && S.Add(waiting.Advance()) {
			added = true
		}
	}
	if added {
		p.explainf("Earley: COMPLETE at chart[%d]: %s -> %s •", pos, A, item.Rule().Body())
	}
	return added
}
