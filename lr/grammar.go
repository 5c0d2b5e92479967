package lr

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/scanner"
	"unicode/utf8"

	"github.com/npillmayer/cfgkit"
)

// EOF is the token value of the end-of-input marker. It is identical to
// text/scanner.EOF.
const EOF = scanner.EOF

// NonTermOffset is the token value of the first non-terminal of a grammar.
// Terminals carry their code point as token value, non-terminals are numbered
// from NonTermOffset upwards, well above the largest code point.
const NonTermOffset = 1 << 21

// augmentedValue is the token value of the artificial start symbol S'.
const augmentedValue = NonTermOffset - 1

// --- Symbols ---------------------------------------------------------------

// Symbol is a grammar symbol, either a terminal or a non-terminal.
// Symbols are interned per grammar: there is exactly one *Symbol for every name.
type Symbol struct {
	Name  string
	Value int // code point for terminals, NonTermOffset+serial for non-terminals
}

// IsTerminal returns true if this symbol represents a terminal.
func (A *Symbol) IsTerminal() bool {
	return A.Value < augmentedValue
}

// TokenType returns the token type of a symbol, i.e. its value.
func (A *Symbol) TokenType() cfgkit.TokType {
	return cfgkit.TokType(A.Value)
}

// Rune returns the character of a terminal symbol.
func (A *Symbol) Rune() rune {
	return rune(A.Value)
}

func (A *Symbol) String() string {
	if A == nil {
		return "<nil>"
	}
	return A.Name
}

// --- Rules -----------------------------------------------------------------

// Rule is a type for rules of a grammar. Rules cannot be shared between grammars.
// Serial 0 is reserved for the augmented start rule S' ::= S, see AugmentedStart.
type Rule struct {
	Serial int       // order number of this rule within a grammar
	LHS    *Symbol   // symbol of left hand side
	rhs    []*Symbol // right hand side, empty for epsilon-productions
}

// RHS returns the right hand side of a rule.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// IsEps returns true if r is an epsilon-production.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

// Body returns the symbol names of the right hand side, separated by blanks.
func (r *Rule) Body() string {
	return bodyString(r.rhs)
}

func (r *Rule) String() string {
	return fmt.Sprintf("%v ::= %v", r.LHS, r.rhs)
}

func bodyString(rhs []*Symbol) string {
	names := make([]string, len(rhs))
	for i, A := range rhs {
		names[i] = A.Name
	}
	return strings.Join(names, " ")
}

// Production is a (head, body) pair, used for wholesale replacement of the
// productions of a grammar.
type Production struct {
	LHS *Symbol
	RHS []*Symbol
}

func (p Production) key() string {
	var b strings.Builder
	b.WriteString(p.LHS.Name)
	for _, A := range p.RHS {
		b.WriteByte(0)
		b.WriteString(A.Name)
	}
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a context-free grammar. Grammars are created by a
// GrammarBuilder or loaded from the grammar exchange format.
//
// The parsers of this module treat a grammar as read-only. The only clients
// expected to change a grammar are the normalization stages of package cnf.
type Grammar struct {
	Name         string
	symbols      map[string]*Symbol
	terminals    []*Symbol // sorted by code point
	nonterminals []*Symbol // in order of declaration
	rules        []*Rule   // rule serials start at 1
	ruleKeys     map[string]*Rule
	start        *Symbol
	ntSerial     int
}

func newGrammar(name string) *Grammar {
	return &Grammar{
		Name:     name,
		symbols:  make(map[string]*Symbol),
		ruleKeys: make(map[string]*Rule),
	}
}

// Start returns the start symbol of the grammar.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// Terminals returns the terminals of the grammar, ordered by code point.
func (g *Grammar) Terminals() []*Symbol {
	return append([]*Symbol(nil), g.terminals...)
}

// NonTerminals returns the non-terminals of the grammar in order of declaration.
func (g *Grammar) NonTerminals() []*Symbol {
	return append([]*Symbol(nil), g.nonterminals...)
}

// Rules returns all the rules of the grammar, ordered by serial number.
func (g *Grammar) Rules() []*Rule {
	return append([]*Rule(nil), g.rules...)
}

// Rule gets a grammar rule by serial number. Serial numbers start at 1.
func (g *Grammar) Rule(no int) *Rule {
	if no < 1 || no > len(g.rules) {
		return nil
	}
	return g.rules[no-1]
}

// ProductionCount returns the number of productions.
func (g *Grammar) ProductionCount() int {
	return len(g.rules)
}

// Productions returns the rules with left hand side A, in order.
func (g *Grammar) Productions(A *Symbol) []*Rule {
	var R []*Rule
	for _, r := range g.rules {
		if r.LHS == A {
			R = append(R, r)
		}
	}
	return R
}

// SymbolByName gets a symbol for a given name, if found in the grammar.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.symbols[name]
}

// Terminal returns the terminal symbol for character c, or nil.
func (g *Grammar) Terminal(c rune) *Symbol {
	i := sort.Search(len(g.terminals), func(i int) bool {
		return g.terminals[i].Value >= int(c)
	})
	if i < len(g.terminals) && g.terminals[i].Value == int(c) {
		return g.terminals[i]
	}
	return nil
}

// IsNonTerminal checks whether A is a non-terminal of g.
func (g *Grammar) IsNonTerminal(A *Symbol) bool {
	return A != nil && !A.IsTerminal() && g.symbols[A.Name] == A
}

// EachSymbol iterates over all symbols of the grammar, terminals first.
// Iteration stops if f returns a non-nil value, which is then returned.
func (g *Grammar) EachSymbol(f func(A *Symbol) interface{}) interface{} {
	for _, A := range g.terminals {
		if r := f(A); r != nil {
			return r
		}
	}
	return g.EachNonTerminal(f)
}

// EachNonTerminal iterates over all non-terminals of the grammar.
// Iteration stops if f returns a non-nil value, which is then returned.
func (g *Grammar) EachNonTerminal(f func(A *Symbol) interface{}) interface{} {
	for _, A := range g.nonterminals {
		if r := f(A); r != nil {
			return r
		}
	}
	return nil
}

// Stats holds derived counts of a grammar, used for diagnostics.
type Stats struct {
	NonTerminals int
	Terminals    int
	Productions  int
	Epsilons     int // number of epsilon-productions
	Units        int // number of unit productions A ::= B
	MaxBody      int // length of the longest right hand side
}

// Stats computes derived counts.
func (g *Grammar) Stats() Stats {
	st := Stats{
		NonTerminals: len(g.nonterminals),
		Terminals:    len(g.terminals),
		Productions:  len(g.rules),
	}
	for _, r := range g.rules {
		switch {
		case r.IsEps():
			st.Epsilons++
		case len(r.rhs) == 1 && !r.rhs[0].IsTerminal():
			st.Units++
		}
		if len(r.rhs) > st.MaxBody {
			st.MaxBody = len(r.rhs)
		}
	}
	return st
}

// --- Mutation (used by normalization) --------------------------------------

// NonTerminalFor returns the non-terminal with the given name, declaring it if
// necessary. It returns an error if name denotes a terminal.
func (g *Grammar) NonTerminalFor(name string) (*Symbol, error) {
	if A, ok := g.symbols[name]; ok {
		if A.IsTerminal() {
			return nil, fmt.Errorf("symbol %q is a terminal", name)
		}
		return A, nil
	}
	A := &Symbol{Name: name, Value: NonTermOffset + g.ntSerial}
	g.ntSerial++
	g.symbols[name] = A
	g.nonterminals = append(g.nonterminals, A)
	return A, nil
}

// FreshNonTerminal declares a new non-terminal with a name derived from base.
// If base is already in use, a numeric suffix is appended.
func (g *Grammar) FreshNonTerminal(base string) *Symbol {
	name := base
	for n := 1; g.symbols[name] != nil; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	A, _ := g.NonTerminalFor(name)
	return A
}

func (g *Grammar) terminalFor(c rune) *Symbol {
	if T := g.Terminal(c); T != nil {
		return T
	}
	T := &Symbol{Name: string(c), Value: int(c)}
	g.symbols[T.Name] = T
	i := sort.Search(len(g.terminals), func(i int) bool {
		return g.terminals[i].Value >= T.Value
	})
	g.terminals = append(g.terminals, nil)
	copy(g.terminals[i+1:], g.terminals[i:])
	g.terminals[i] = T
	return T
}

// addRule appends a production, silently dropping duplicates.
func (g *Grammar) addRule(p Production) *Rule {
	k := p.key()
	if r, ok := g.ruleKeys[k]; ok {
		return r
	}
	r := &Rule{
		Serial: len(g.rules) + 1,
		LHS:    p.LHS,
		rhs:    append([]*Symbol(nil), p.RHS...),
	}
	g.rules = append(g.rules, r)
	g.ruleKeys[k] = r
	return r
}

// ReplaceProductions throws away all the rules of g and installs prods instead.
// Duplicate productions are dropped, rules are re-numbered from 1.
// All symbols in prods have to belong to g.
func (g *Grammar) ReplaceProductions(prods []Production) {
	g.rules = g.rules[:0:0]
	g.ruleKeys = make(map[string]*Rule, len(prods))
	for _, p := range prods {
		g.addRule(p)
	}
	tracer().Debugf("grammar %s now has %d productions", g.Name, len(g.rules))
}

// RetainNonTerminals removes every non-terminal for which keep returns false.
// The start symbol is always retained. Rules are not touched; clients have to
// remove rules referencing dropped symbols beforehand.
func (g *Grammar) RetainNonTerminals(keep func(*Symbol) bool) {
	nts := g.nonterminals[:0]
	for _, A := range g.nonterminals {
		if A == g.start || keep(A) {
			nts = append(nts, A)
		} else {
			delete(g.symbols, A.Name)
		}
	}
	g.nonterminals = nts
}

// Clone creates a deep copy of g. Symbols are re-created, so the clone may
// be changed without affecting g.
func (g *Grammar) Clone() *Grammar {
	c := newGrammar(g.Name)
	c.ntSerial = g.ntSerial
	for _, T := range g.terminals {
		T2 := &Symbol{Name: T.Name, Value: T.Value}
		c.symbols[T2.Name] = T2
		c.terminals = append(c.terminals, T2)
	}
	for _, A := range g.nonterminals {
		A2 := &Symbol{Name: A.Name, Value: A.Value}
		c.symbols[A2.Name] = A2
		c.nonterminals = append(c.nonterminals, A2)
	}
	for _, r := range g.rules {
		p := Production{LHS: c.symbols[r.LHS.Name]}
		for _, A := range r.rhs {
			p.RHS = append(p.RHS, c.symbols[A.Name])
		}
		c.addRule(p)
	}
	c.start = c.symbols[g.start.Name]
	return c
}

// AugmentedStart creates the rule S' ::= S for grammar g, with S being the
// start symbol of g. The rule has serial 0 and its LHS does not belong to g.
func AugmentedStart(g *Grammar) *Rule {
	Sx := &Symbol{Name: g.start.Name + "'", Value: augmentedValue}
	return &Rule{Serial: 0, LHS: Sx, rhs: []*Symbol{g.start}}
}

// --- Output ----------------------------------------------------------------

// Print writes a listing of g to w:
//
//	V = {A, S}
//	T = {a, b}
//	P = {
//	  A -> `a`
//	  S -> `A b`
//	}
//	S = S
//
// Sets and productions are sorted by name for stable diagnostics.
func (g *Grammar) Print(w io.Writer) {
	names := make([]string, 0, len(g.nonterminals))
	for _, A := range g.nonterminals {
		names = append(names, A.Name)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "V = {%s}\n", strings.Join(names, ", "))
	names = names[:0]
	for _, T := range g.terminals {
		names = append(names, T.Name)
	}
	fmt.Fprintf(w, "T = {%s}\n", strings.Join(names, ", "))
	prods := make([]string, 0, len(g.rules))
	for _, r := range g.rules {
		prods = append(prods, fmt.Sprintf("  %s -> `%s`\n", r.LHS.Name, r.Body()))
	}
	sort.Strings(prods)
	io.WriteString(w, "P = {\n")
	for _, p := range prods {
		io.WriteString(w, p)
	}
	io.WriteString(w, "}\n")
	fmt.Fprintf(w, "S = %s\n", g.start.Name)
}

func (g *Grammar) String() string {
	var b bytes.Buffer
	g.Print(&b)
	return b.String()
}

// Dump is a debugging helper: it lists the rules of g to the tracer.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ---------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------")
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is a helper for constructing a grammar. Rules are added one at
// a time; the LHS of the first rule becomes the start symbol, unless Start is
// called.
//
//	b := lr.NewGrammarBuilder("G")
//	b.LHS("S").T("a").N("S").T("b").End()  // S  ->  a S b
//	b.LHS("S").Epsilon()                   // S  ->
//	g, err := b.Grammar()
type GrammarBuilder struct {
	g     *Grammar
	start string
	errs  []error
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar to build.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{g: newGrammar(gname)}
}

// RuleBuilder is a builder type for rules.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs *Symbol
	rhs []*Symbol
}

// LHS starts a rule given the left hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	A := gb.nonterm(name)
	if gb.start == "" {
		gb.start = name
	}
	return &RuleBuilder{gb: gb, lhs: A}
}

// Start sets the start symbol of the grammar.
func (gb *GrammarBuilder) Start(name string) *GrammarBuilder {
	gb.nonterm(name)
	gb.start = name
	return gb
}

// Declare declares a non-terminal without adding a rule for it.
func (gb *GrammarBuilder) Declare(name string) *GrammarBuilder {
	gb.nonterm(name)
	return gb
}

// Alphabet declares terminals without using them in a rule.
func (gb *GrammarBuilder) Alphabet(chars string) *GrammarBuilder {
	for _, c := range chars {
		gb.term(string(c))
	}
	return gb
}

func (gb *GrammarBuilder) nonterm(name string) *Symbol {
	A, err := gb.g.NonTerminalFor(name)
	if err != nil {
		gb.errs = append(gb.errs, err)
		return &Symbol{Name: name, Value: augmentedValue}
	}
	return A
}

func (gb *GrammarBuilder) term(name string) *Symbol {
	if utf8.RuneCountInString(name) != 1 {
		gb.errs = append(gb.errs, fmt.Errorf("terminal %q is not a single character", name))
		return &Symbol{Name: name}
	}
	if A, ok := gb.g.symbols[name]; ok && !A.IsTerminal() {
		gb.errs = append(gb.errs, fmt.Errorf("symbol %q is a non-terminal", name))
		return A
	}
	c, _ := utf8.DecodeRuneInString(name)
	return gb.g.terminalFor(c)
}

// N appends a non-terminal to the builder.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.nonterm(name))
	return rb
}

// T appends a terminal to the builder. name must be a single character.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.term(name))
	return rb
}

// Epsilon sets epsilon as the RHS of a production and ends the rule.
func (rb *RuleBuilder) Epsilon() *Rule {
	rb.rhs = nil
	return rb.End()
}

// End ends a rule.
func (rb *RuleBuilder) End() *Rule {
	r := rb.gb.g.addRule(Production{LHS: rb.lhs, RHS: rb.rhs})
	tracer().Debugf("rule %s", r)
	return r
}

// Grammar returns the grammar built by this builder. It returns an error if
// symbols have been used inconsistently or no start symbol is known.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.errs) > 0 {
		return nil, fmt.Errorf("grammar %s: %w", gb.g.Name, errors.Join(gb.errs...))
	}
	if gb.start == "" {
		return nil, fmt.Errorf("grammar %s has no start symbol", gb.g.Name)
	}
	gb.g.start = gb.g.symbols[gb.start]
	return gb.g, nil
}
