/*
Package glr implements a Generalized LR parser (Tomita style) on top of the
permissive LR(0) tables of package lr.

GLR parsers are able to parse arbitrary context-free grammars, including
ambiguous ones. Wherever an ACTION table cell holds more than one action, the
parser forks. Forks are kept in a graph-structured stack (GSS), where stacks
share common prefixes, and stack tops with the same state at the same input
position are merged into a single node. This bounds the GSS to one node per
(state, input position).

Usage:

	parser := glr.NewParser(g)      // builds the LR(0) tables once
	accept := parser.Parse("aabb")

Like the Earley parser, the GLR parser may be run step by step. Every step
processes one input character: all possible reductions are performed on the
current stack tops, then the character is shifted. A final step performs the
reductions for end of input and decides acceptance.

	parser := glr.NewParser(g, glr.RecordSnapshots(true))
	parser.Reset("aabb")
	for parser.NextStep() {
		gss := parser.GSS()
		…
	}

Further reading:

https://cs.au.dk/~amoeller/papers/ambiguity/ambiguity.pdf

"Parsing Techniques" by Dick Grune and Ceriel J.H. Jacobs, Section 11.1

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glr

import (
	"fmt"

	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfgkit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.lr")
}

// Parser is a GLR parser type. Create and initialize one with glr.NewParser(...).
// A parser is not safe for concurrent use.
type Parser struct {
	g         *lr.Grammar
	lrgen     *lr.TableGenerator
	gotoT     *lr.Table
	actionT   *lr.Table
	input     []cfgkit.Token
	stack     *gss
	tops      []NodeID // nodes at the current position
	pos       uint64
	done      bool
	accepted  bool
	explain   func(string)
	log       []string
	stepStart int // index of the first explanation of the current step
	record    bool
	snapshots []Snapshot
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

// RecordSnapshots tells the parser to keep a snapshot of the GSS after
// every step.
func RecordSnapshots(b bool) Option {
	return func(p *Parser) {
		p.record = b
	}
}

// NewParser creates a GLR parser for grammar g. The LR(0) tables for g are
// built once. The grammar is not modified.
func NewParser(g *lr.Grammar, opts ...Option) *Parser {
	lrgen := lr.NewTableGenerator(g)
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		tracer().Infof("grammar %s has LR(0) conflicts, parser will fork", g.Name)
	}
	p := &Parser{
		g:       g,
		lrgen:   lrgen,
		gotoT:   lrgen.GotoTable(),
		actionT: lrgen.ActionTable(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tables returns the table generator holding the CFSM and the parser tables.
func (p *Parser) Tables() *lr.TableGenerator {
	return p.lrgen
}

// Parse runs the parser on an input string to completion. It returns true
// if the input is a sentence of the grammar.
func (p *Parser) Parse(input string) bool {
	p.Reset(input)
	for p.NextStep() {
	}
	return p.accepted
}

// Reset prepares the parser for a run over input. The GSS, snapshots and
// the explanation log of a previous run are discarded.
func (p *Parser) Reset(input string) {
	p.input = scanner.Tokens(scanner.Runes(input))
	p.stack = newGSS()
	p.pos = 0
	p.done, p.accepted = false, false
	p.log, p.stepStart = nil, 0
	p.snapshots = nil
	root, _ := p.stack.node(p.lrgen.CFSM().S0.ID, 0)
	p.tops = []NodeID{root}
	p.explainf("GLR: reset, root node in state %d", p.stack.state(root))
	p.takeSnapshot()
}

// NextStep performs a single step: reduce on the current stack tops, then
// shift the next input character. After the last character, a final step
// reduces for end of input and decides acceptance. NextStep returns true
// while more steps remain.
func (p *Parser) NextStep() bool {
	if p.done || p.stack == nil {
		return false
	}
	p.stepStart = len(p.log)
	if p.pos < uint64(len(p.input)) {
		token := p.input[p.pos]
		p.reduceAll(token.TokType())
		p.shift(token)
		if len(p.tops) == 0 {
			p.done = true
			p.explainf("GLR: no stack survived shifting '%s'. REJECTED", token.Lexeme())
		}
	} else {
		p.reduceAll(lr.EOF)
		p.done = true
		for _, n := range p.tops {
			if p.hasAction(n, lr.EOF, lr.AcceptAction) {
				p.accepted = true
				break
			}
		}
		verdict := "REJECTED"
		if p.accepted {
			verdict = "ACCEPTED"
		}
		p.explainf("GLR: end of input. %s", verdict)
	}
	if p.done {
		tracer().Infof("GLR parser: %d GSS nodes, accepted = %v", len(p.stack.nodes), p.accepted)
	}
	p.takeSnapshot()
	return !p.done
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

// Position returns the current input position.
func (p *Parser) Position() uint64 {
	return p.pos
}

// Explanations returns the explanations of the current run, in order.
func (p *Parser) Explanations() []string {
	return append([]string(nil), p.log...)
}

// GSS returns a snapshot of the current GSS.
func (p *Parser) GSS() Snapshot {
	s := Snapshot{
		Position: p.pos,
		Tops:     append([]NodeID(nil), p.tops...),
		Done:     p.done,
		Accepted: p.accepted,
		Trace:    append([]string(nil), p.log[p.stepStart:]...),
	}
	if p.stack != nil {
		s.Nodes = p.stack.snapshot()
	}
	return s
}

// Snapshots returns the snapshots recorded during the current run, one for
// Reset and one for every step. Snapshots are recorded only if option
// RecordSnapshots is set.
func (p *Parser) Snapshots() []Snapshot {
	return append([]Snapshot(nil), p.snapshots...)
}

func (p *Parser) takeSnapshot() {
	if p.record {
		p.snapshots = append(p.snapshots, p.GSS())
	}
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

// reduceAll performs reductions on the stack tops with lookahead la, until
// no new node or edge emerges. New edges into existing tops open up new
// reduction paths, so every top is re-visited until the fixpoint is reached.
func (p *Parser) reduceAll(la cfgkit.TokType) {
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(p.tops); i++ { // tops may grow during iteration
			n := p.tops[i]
			for _, action := range p.actionT.Values(p.stack.state(n), la) {
				if action > 0 {
					changed = p.reduce(n, int(action)) || changed
				}
			}
		}
	}
}

// reduce performs a reduction by rule number ruleno on top node n, for every
// path of length |RHS| down the stack. It returns true if the GSS changed.
func (p *Parser) reduce(n NodeID, ruleno int) bool {
	rule := p.lrgen.Rule(ruleno)
	changed := false
	for _, ancestor := range p.stack.ancestors(n, len(rule.RHS())) {
		from := p.stack.state(ancestor)
		to := p.gotoState(from, rule.LHS.TokenType())
		top, created := p.stack.node(to, p.pos)
		if created {
			p.tops = append(p.tops, top)
			changed = true
		}
		if p.stack.link(top, ancestor) {
			changed = true
			if created {
				p.explainf("GLR: REDUCE at pos=%d by %s -> %s: state %d -> %d",
					p.pos, rule.LHS, rule.Body(), from, to)
			} else {
				p.explainf("GLR: REDUCE at pos=%d by %s -> %s: state %d -> %d (merged)",
					p.pos, rule.LHS, rule.Body(), from, to)
			}
		}
	}
	return changed
}

// shift moves every top with a shift action for the token over it. Tops
// without a shift action die.
func (p *Parser) shift(token cfgkit.Token) {
	var tops []NodeID
	next := p.pos + 1
	tt := token.TokType()
	for _, n := range p.tops {
		if !p.hasAction(n, tt, lr.ShiftAction) {
			continue
		}
		from := p.stack.state(n)
		to := p.gotoState(from, tt)
		top, created := p.stack.node(to, next)
		if created {
			tops = append(tops, top)
			p.explainf("GLR: SHIFT '%s' at pos=%d: state %d -> %d", token.Lexeme(), p.pos, from, to)
		} else {
			p.explainf("GLR: SHIFT '%s' at pos=%d: state %d -> %d (merged)", token.Lexeme(), p.pos, from, to)
		}
		p.stack.link(top, n)
	}
	p.tops = tops
	p.pos = next
}

func (p *Parser) hasAction(n NodeID, tt cfgkit.TokType, action int32) bool {
	for _, a := range p.actionT.Values(p.stack.state(n), tt) {
		if a == action {
			return true
		}
	}
	return false
}

// gotoState looks up the GOTO table. A missing entry is an invariant violation
// of the table construction.
func (p *Parser) gotoState(state uint, tt cfgkit.TokType) uint {
	s := p.gotoT.Value(state, tt)
	if s == p.gotoT.NullValue() {
		panic(fmt.Sprintf("glr: no GOTO entry for state %d and symbol %d", state, tt))
	}
	return uint(s)
}
