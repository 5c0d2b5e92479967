package earley

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/schuko/gconf"
)

// --- Counting derivations --------------------------------------------------

// DerivationCount is the number of distinct parse trees for an input.
// Counts saturate at math.MaxUint64. If a derivation cycle (A ⇒+ A) spans
// part of the input, the number of parse trees is infinite.
type DerivationCount struct {
	Count    uint64
	Infinite bool
}

// Ambiguous is true if there is more than one parse tree.
func (dc DerivationCount) Ambiguous() bool {
	return dc.Infinite || dc.Count > 1
}

func (dc DerivationCount) String() string {
	if dc.Infinite {
		return "∞"
	}
	return fmt.Sprintf("%d", dc.Count)
}

func (dc DerivationCount) positive() bool {
	return dc.Infinite || dc.Count > 0
}

func (dc DerivationCount) plus(other DerivationCount) DerivationCount {
	if dc.Infinite || other.Infinite {
		return DerivationCount{Infinite: true}
	}
	if dc.Count > math.MaxUint64-other.Count {
		return DerivationCount{Count: math.MaxUint64}
	}
	return DerivationCount{Count: dc.Count + other.Count}
}

// times assumes both counts to be positive.
func (dc DerivationCount) times(other DerivationCount) DerivationCount {
	if dc.Infinite || other.Infinite {
		return DerivationCount{Infinite: true}
	}
	if dc.Count != 0 && other.Count > math.MaxUint64/dc.Count {
		return DerivationCount{Count: math.MaxUint64}
	}
	return DerivationCount{Count: dc.Count * other.Count}
}

var one = DerivationCount{Count: 1}

// Derivations counts the parse trees of the input of the last run.
// If the input has not been accepted, the count is zero.
//
// Parse trees are counted bottom-up from the completed items of the chart,
// memoized over (symbol, from, to). A completed item [A ::= β •, i] in chart[j]
// guarantees that β derives input[i:j], therefore re-entering a span of a symbol
// which is still being counted means that there are infinitely many trees.
func (p *Parser) Derivations() DerivationCount {
	if !p.done || !p.accepted {
		return DerivationCount{}
	}
	dc := p.derivationCounter().sequence(p.start, 1, 0, uint64(len(p.tokens)))
	tracer().Infof("input has %s derivations", dc)
	return dc
}

type symSpan struct {
	sym      *lr.Symbol
	from, to uint64
}

type prefixSpan struct {
	rule     *lr.Rule
	dot      int
	from, to uint64
}

type counter struct {
	p          *Parser
	completed  []map[*lr.Symbol][]lr.Item // per position: completed items by LHS
	symbols    map[symSpan]DerivationCount
	inProgress map[symSpan]bool
	prefixes   map[prefixSpan]DerivationCount
}

func (p *Parser) derivationCounter() *counter {
	if p.counter != nil {
		return p.counter
	}
	c := &counter{
		p:          p,
		completed:  make([]map[*lr.Symbol][]lr.Item, len(p.states)),
		symbols:    make(map[symSpan]DerivationCount),
		inProgress: make(map[symSpan]bool),
		prefixes:   make(map[prefixSpan]DerivationCount),
	}
	for j, S := range p.states {
		c.completed[j] = make(map[*lr.Symbol][]lr.Item)
		for _, item := range sortedItems(S) {
			if item.Completed() {
				A := item.Rule().LHS
				c.completed[j][A] = append(c.completed[j][A], item)
			}
		}
	}
	p.counter = c
	return c
}

// symbol counts the parse trees of A spanning input[from:to].
func (c *counter) symbol(A *lr.Symbol, from, to uint64) DerivationCount {
	key := symSpan{A, from, to}
	if dc, ok := c.symbols[key]; ok {
		return dc
	}
	if c.inProgress[key] {
		tracer().Debugf("derivation cycle for %s over (%d…%d)", A, from, to)
		return DerivationCount{Infinite: true}
	}
	c.inProgress[key] = true
	var total DerivationCount
	for _, item := range c.completed[to][A] {
		if item.Origin == from {
			total = total.plus(c.sequence(item.Rule(), len(item.Rule().RHS()), from, to))
		}
	}
	delete(c.inProgress, key)
	c.symbols[key] = total
	return total
}

// sequence counts the ways rhs[:dot] of rule r derives input[from:to].
func (c *counter) sequence(r *lr.Rule, dot int, from, to uint64) DerivationCount {
	if dot == 0 {
		if from == to {
			return one
		}
		return DerivationCount{}
	}
	key := prefixSpan{r, dot, from, to}
	if dc, ok := c.prefixes[key]; ok {
		return dc
	}
	var total DerivationCount
	X := r.RHS()[dot-1]
	if X.IsTerminal() {
		if to > from && c.p.tokens[to-1].TokType() == X.TokenType() {
			total = c.sequence(r, dot-1, from, to-1)
		}
	} else {
		for _, k := range c.origins(X, from, to) {
			prefix := c.sequence(r, dot-1, from, k)
			if !prefix.positive() {
				continue
			}
			total = total.plus(prefix.times(c.symbol(X, k, to)))
		}
	}
	c.prefixes[key] = total
	return total
}

// origins returns the distinct origins k ≥ from of completed items for A in
// chart[to], in ascending order.
func (c *counter) origins(A *lr.Symbol, from, to uint64) []uint64 {
	var origins []uint64
	for _, item := range c.completed[to][A] {
		if item.Origin >= from {
			origins = append(origins, item.Origin)
		}
	}
	sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })
	uniq := origins[:0]
	for i, k := range origins {
		if i == 0 || k != origins[i-1] {
			uniq = append(uniq, k)
		}
	}
	return uniq
}

// --- Derivation listener ---------------------------------------------------

// Listener is a type for walking a parse tree.
type Listener interface {
	Reduce(sym *lr.Symbol, rule int, rhs []*RuleNode, span cfgkit.Span, level int) interface{}
	Terminal(token cfgkit.Token, level int) interface{}
}

// RuleNode represents a node occuring during a parse tree walk.
type RuleNode struct {
	sym    *lr.Symbol
	Extent cfgkit.Span // span of input symbols this rule reduced
	Value  interface{} // user defined value
}

// Symbol returns the grammar symbol a RuleNode refers to.
// It is either a terminal or the LHS of a reduced rule.
func (rnode *RuleNode) Symbol() *lr.Symbol {
	return rnode.sym
}

// --- Tree Walker -----------------------------------------------------------

// WalkDerivation walks one derivation of the input of the last run.
// It uses a listener, which gets called for every terminal and for every
// non-terminal reduction, bottom-up. The root node represents the augmented
// start rule S' ::= S. If the input has not been accepted, nil is returned.
//
// For ambiguous input a derivation is selected by preferring sub-derivations
// with a finite number of trees, then lower origins, then lower rule numbers.
func (p *Parser) WalkDerivation(listener Listener) *RuleNode {
	if !p.done || !p.accepted {
		return nil
	}
	tracer().Debugf("=== Walk ===============================")
	n := uint64(len(p.tokens))
	root := p.walk(lr.NewItem(p.start, 1, 0), n, ruleset{}, listener, 0)
	tracer().Debugf("========================================")
	return root
}

/*
Walk backwards over the items of Earley states.

A good overview of how to construct a parse forest from Earley-items may be found in
"Parsing Techniques" by  Dick Grune and Ceriel J.H. Jacobs
(https://dickgrune.com/Books/PTAPG_2nd_Edition/), Section 7.2.1.2.

Imagine we have a completed item like this ('a', 'b', and 'c' are symbols,
and 'i' is an integer):

	Foo -> a b c •  (i)

stored in chart[j]. Then 'c' has been completed or scanned somewhere between
(x) and (j), 'b' between (y) and (x), and 'a' between (i) and (y). We iterate
backwards over the symbols of the right hand side and search for completed
items for non-terminals, using the derivation counter to skip split points
which do not lead to a derivation.
*/
func (p *Parser) walk(item lr.Item, end uint64, trys ruleset,
	listener Listener, level int) *RuleNode {
	//
	c := p.derivationCounter()
	rhs := item.Rule().RHS()
	tracer().Debugf("Walk from item=%s (%d…%d)", item, item.Origin, end)
	extent := cfgkit.Span{item.Origin, end}
	trys = trys.add(item.Rule(), extent)
	ruleNodes := make([]*RuleNode, len(rhs)) // we will collect |RHS| children nodes
	pos := end
	for d := len(rhs); d > 0; d-- {
		B := rhs[d-1]
		if B.IsTerminal() { // collect a terminal node
			token := p.tokens[pos-1]
			tracer().Debugf("Tree node    %d: %s", pos-1, B)
			ruleNodes[d-1] = &RuleNode{
				sym:    B,
				Extent: token.Span(),
				Value:  listener.Terminal(token, level+1),
			}
			pos--
			continue
		}
		// for symbol B, find an item [B→…•, k] which has completed it
		child, ok := p.selectCompletion(c, item, d, B, pos, trys)
		if !ok {
			if stuck(fmt.Sprintf("no completed item available to satisfy %v", item)) {
				return nil
			}
		}
		tracer().Debugf("Selected rule %s", child)
		ruleNodes[d-1] = p.walk(child, pos, trys, listener, level+1)
		if ruleNodes[d-1] == nil {
			return nil
		}
		pos = child.Origin
	}
	if pos != item.Origin {
		if stuck("did not reach start of rule derivation, parser is stuck") {
			return nil
		}
	}
	value := listener.Reduce(item.Rule().LHS, item.Rule().Serial, ruleNodes, extent, level)
	tracer().Debugf("Tree node    %d|-----%s-----|%d", extent.From(), item.Rule().LHS.Name, extent.To())
	return &RuleNode{
		sym:    item.Rule().LHS,
		Extent: extent,
		Value:  value,
	}
}

// selectCompletion selects a completed item for symbol B = RHS(item)[d-1],
// ending at pos.
func (p *Parser) selectCompletion(c *counter, item lr.Item, d int, B *lr.Symbol,
	pos uint64, trys ruleset) (lr.Item, bool) {
	//
	var best lr.Item
	var bestFinite, found bool
	for _, child := range c.completed[pos][B] {
		span := cfgkit.Span{child.Origin, pos}
		if child.Origin < item.Origin || trys.contains(child.Rule(), span) {
			continue
		}
		if !c.sequence(item.Rule(), d-1, item.Origin, child.Origin).positive() {
			continue // no derivation for the symbols left of B
		}
		dc := c.sequence(child.Rule(), len(child.Rule().RHS()), child.Origin, pos)
		finite := !dc.Infinite
		switch {
		case !found:
		case finite && !bestFinite:
		case finite == bestFinite && child.Origin < best.Origin:
		case finite == bestFinite && child.Origin == best.Origin &&
			child.Rule().Serial < best.Rule().Serial:
		default:
			continue
		}
		best, bestFinite, found = child, finite, true
	}
	return best, found
}

func stuck(msg string) bool {
	tracer().Errorf(msg)
	if gconf.GetBool("panic-on-parser-stuck") {
		panic(`Earley-parser is stuck.

Configuration flag panic-on-parser-stuck is set to true. It is aimed at helping
to debug a parser and do a post-mortem of why it got stuck. However, if this is
a production environment and you did not expect this to panic, please unset
panic-on-parser-stuck to its default (false).

` + msg)
	}
	return true
}

// --- Tree building listener -------------------------------------------

// Node is a node of a derivation tree. Leafs carry an input token, inner
// nodes a rule number. Epsilon-derivations have no children.
type Node struct {
	Symbol   *lr.Symbol
	Rule     int
	Span     cfgkit.Span
	Token    cfgkit.Token // nil for inner nodes
	Children []*Node
}

// IsLeaf returns true for terminal nodes.
func (n *Node) IsLeaf() bool {
	return n.Token != nil
}

// String returns a bracketed representation of the tree rooted at n, e.g.
// "(S a (S) b)".
func (n *Node) String() string {
	if n.IsLeaf() {
		return n.Token.Lexeme()
	}
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n.Symbol.Name)
	for _, ch := range n.Children {
		b.WriteByte(' ')
		b.WriteString(ch.String())
	}
	b.WriteString(")")
	return b.String()
}

// Each calls f for n and all of its descendents, pre-order, with the depth
// of the node.
func (n *Node) Each(f func(node *Node, depth int)) {
	n.each(f, 0)
}

func (n *Node) each(f func(*Node, int), depth int) {
	f(n, depth)
	for _, ch := range n.Children {
		ch.each(f, depth+1)
	}
}

// TreeBuilder is a Listener which creates a derivation tree from the
// Earley-states. After calling parser.WalkDerivation(tb), clients retrieve
// the tree with tb.Tree().
type TreeBuilder struct {
	root *Node
}

// NewTreeBuilder creates a TreeBuilder.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// Tree returns the derivation tree after walking a derivation. The root node
// represents the augmented start rule, its single child the start symbol.
func (tb *TreeBuilder) Tree() *Node {
	return tb.root
}

// Reduce is a listener method, called for Earley-completions.
func (tb *TreeBuilder) Reduce(sym *lr.Symbol, rule int, rhs []*RuleNode, span cfgkit.Span, level int) interface{} {
	node := &Node{Symbol: sym, Rule: rule, Span: span}
	for _, r := range rhs {
		node.Children = append(node.Children, r.Value.(*Node))
	}
	if level == 0 {
		tb.root = node
	}
	return node
}

// Terminal is a listener method, called when matching input tokens.
func (tb *TreeBuilder) Terminal(token cfgkit.Token, level int) interface{} {
	return &Node{Rule: -1, Span: token.Span(), Token: token}
}

var _ Listener = &TreeBuilder{}
