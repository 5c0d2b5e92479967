package earley

import (
	"strings"
	"testing"

	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// We use a small unambiguous expression grammar for testing.
// It is slightly adapted from
//
//	http://loup-vaillant.fr/tutorials/earley-parsing/recogniser
//
// This way we will be able to follow the examples there.
//
//	Sum     = Sum     '+' Product
//	        | Product
//	Product = Product '*' Factor
//	        | Factor
//	Factor  = '(' Sum ')'
//	        | digit
func makeExprGrammar(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("Expressions")
	b.LHS("Sum").N("Sum").T("+").N("Product").End()
	b.LHS("Sum").N("Product").End()
	b.LHS("Product").N("Product").T("*").N("Factor").End()
	b.LHS("Product").N("Factor").End()
	b.LHS("Factor").T("(").N("Sum").T(")").End()
	for _, d := range "123456789" {
		b.LHS("Factor").T(string(d)).End()
	}
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func makeAnBn(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("AnBn")
	b.LHS("S").T("a").N("S").T("b").End()
	b.LHS("S").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

var inputStrings = []string{
	"1", "1+2", "1*2", "1+2*3", "1*(2+3)", "1+2+3+4", "1*2+3*4",
}

// --- the Tests -------------------------------------------------------------

func TestParser1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	tracer().SetTraceLevel(tracing.LevelInfo)
	parser := NewParser(makeExprGrammar(t))
	for n, input := range inputStrings {
		if !parser.Parse(input) {
			t.Errorf("Valid input string #%d not accepted: '%s'", n+1, input)
		}
	}
	for _, input := range []string{"", "+", "1+", "(1", "1**2", "1x"} {
		if parser.Parse(input) {
			t.Errorf("Invalid input string accepted: '%s'", input)
		}
	}
}

func TestAnBn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	parser := NewParser(makeAnBn(t))
	for _, input := range []string{"", "ab", "aabb"} {
		if !parser.Parse(input) {
			t.Errorf("expected '%s' to be accepted", input)
		}
	}
	for _, input := range []string{"a", "abab", "ba", "abb"} {
		if parser.Parse(input) {
			t.Errorf("expected '%s' to be rejected", input)
		}
	}
}

func TestStepwise(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	var sink []string
	parser := NewParser(makeAnBn(t), Explain(func(msg string) {
		sink = append(sink, msg)
	}))
	parser.Reset("aabb")
	if parser.IsDone() || parser.IsAccepted() {
		t.Fatalf("expected fresh parser to be undecided")
	}
	sealed := make(map[int][]string) // snapshots of chart entries behind the position
	steps := 0
	for parser.NextStep() {
		steps++
		view := parser.Chart()
		for i, items := range sealed {
			if !equalItems(items, view.Sets[i]) {
				t.Errorf("chart[%d] changed after scanning moved past it", i)
			}
		}
		for i := 0; i < int(view.Position); i++ {
			if _, ok := sealed[i]; !ok {
				sealed[i] = itemStrings(view.Sets[i])
			}
		}
	}
	if steps != 4 {
		t.Errorf("expected 4 scanning steps, have %d", steps)
	}
	if !parser.IsDone() || !parser.IsAccepted() {
		t.Errorf("expected 'aabb' to be accepted")
	}
	if parser.NextStep() {
		t.Errorf("expected no more steps after parser is done")
	}
	log := parser.Explanations()
	if len(log) == 0 || len(log) != len(sink) {
		t.Fatalf("expected explanations to be sent to sink, have %d/%d", len(sink), len(log))
	}
	if !strings.Contains(log[len(log)-1], "ACCEPTED") {
		t.Errorf("expected last explanation to report acceptance, is %q", log[len(log)-1])
	}
	parser.Reset("a")
	if len(parser.Explanations()) >= len(log) {
		t.Errorf("expected explanations to be scoped to a single run")
	}
}

func itemStrings(items []ItemView) []string {
	s := make([]string, len(items))
	for i, iv := range items {
		s[i] = iv.String()
	}
	return s
}

func equalItems(s []string, items []ItemView) bool {
	if len(s) != len(items) {
		return false
	}
	for i, iv := range items {
		if s[i] != iv.String() {
			return false
		}
	}
	return true
}

func TestChartView(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	parser := NewParser(makeAnBn(t))
	parser.Parse("ab")
	view := parser.Chart()
	if len(view.Sets) != 3 || view.Input != "ab" || !view.Accepted {
		t.Fatalf("unexpected chart view %+v", view)
	}
	found := false
	for _, iv := range view.Sets[2] {
		if iv.Head == "S'" && iv.Dot == 1 && iv.Origin == 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected accepting item in chart[2]")
	}
	if tok := parser.TokenAt(1); tok == nil || tok.Lexeme() != "b" || tok.Span() != (cfgkit.Span{1, 2}) {
		t.Errorf("expected token b at position 1, have %v", tok)
	}
	if parser.TokenAt(2) != nil {
		t.Errorf("expected no token behind the input")
	}
}

func TestNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Nullable")
	b.LHS("S").N("A").N("B").N("A").End()
	b.LHS("A").Epsilon()
	b.LHS("A").T("a").End()
	b.LHS("B").N("A").End()
	b.LHS("B").T("b").End()
	g, _ := b.Grammar()
	parser := NewParser(g)
	for _, input := range []string{"", "a", "b", "ab", "aba", "aa", "aaa"} {
		if !parser.Parse(input) {
			t.Errorf("expected '%s' to be accepted", input)
		}
	}
	if parser.Parse("bb") || parser.Parse("aaaa") {
		t.Errorf("expected 'bb' and 'aaaa' to be rejected")
	}
}

// --- Derivations -----------------------------------------------------------

func TestDerivationCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("AB-BA")
	b.LHS("S").N("A").N("B").End()
	b.LHS("S").N("B").N("A").End()
	b.LHS("A").T("a").End()
	b.LHS("B").T("a").End()
	g, _ := b.Grammar()
	parser := NewParser(g)
	if !parser.Parse("aa") {
		t.Fatalf("expected 'aa' to be accepted")
	}
	if dc := parser.Derivations(); dc.Count != 2 || dc.Infinite || !dc.Ambiguous() {
		t.Errorf("expected 2 derivations for 'aa', have %s", dc)
	}
	//
	b = lr.NewGrammarBuilder("AA")
	b.LHS("S").N("A").N("A").End()
	b.LHS("A").T("a").End()
	g, _ = b.Grammar()
	parser = NewParser(g)
	parser.Parse("aa")
	if dc := parser.Derivations(); dc.Count != 1 || dc.Ambiguous() {
		t.Errorf("expected 1 derivation for 'aa', have %s", dc)
	}
	parser.Parse("a")
	if dc := parser.Derivations(); dc.Count != 0 {
		t.Errorf("expected rejected input to have no derivations, have %s", dc)
	}
}

func TestCatalanCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("SS")
	b.LHS("S").N("S").N("S").End()
	b.LHS("S").T("a").End()
	g, _ := b.Grammar()
	parser := NewParser(g)
	for input, count := range map[string]uint64{"a": 1, "aa": 1, "aaa": 2, "aaaa": 5, "aaaaa": 14} {
		parser.Parse(input)
		if dc := parser.Derivations(); dc.Count != count {
			t.Errorf("expected %d derivations for '%s', have %s", count, input, dc)
		}
	}
}

func TestInfiniteDerivations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Cycle")
	b.LHS("S").N("A").End()
	b.LHS("A").N("S").End()
	b.LHS("A").T("a").End()
	g, _ := b.Grammar()
	parser := NewParser(g)
	if !parser.Parse("a") {
		t.Fatalf("expected 'a' to be accepted")
	}
	if dc := parser.Derivations(); !dc.Infinite {
		t.Errorf("expected infinitely many derivations, have %s", dc)
	}
	tb := NewTreeBuilder()
	if parser.WalkDerivation(tb) == nil {
		t.Fatalf("expected walk to find a derivation despite the cycle")
	}
	if s := tb.Tree().String(); s != "(S' (S (A a)))" {
		t.Errorf("expected finite derivation, have %s", s)
	}
}

// --- Trees -----------------------------------------------------------------

func TestTree1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	input := "1+2*3"
	parser := NewParser(makeExprGrammar(t))
	if !parser.Parse(input) {
		t.Fatalf("Valid input string not accepted: '%s'", input)
	}
	v := parser.WalkDerivation(NewExprListener(t))
	value, ok := v.Value.(int)
	if !ok || value != 7 {
		t.Errorf("Expected %s to be 7, is %v", input, v.Value)
	}
}

func TestTreeBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	parser := NewParser(makeAnBn(t))
	parser.Parse("aabb")
	tb := NewTreeBuilder()
	root := parser.WalkDerivation(tb)
	if root == nil || root.Symbol().Name != "S'" {
		t.Fatalf("Expected root node of tree to be S', is %v", root)
	}
	if s := tb.Tree().String(); s != "(S' (S a (S a (S) b) b))" {
		t.Errorf("unexpected tree %s", s)
	}
	leaves := 0
	tb.Tree().Each(func(n *Node, depth int) {
		if n.IsLeaf() {
			leaves++
		}
	})
	if leaves != 4 {
		t.Errorf("expected 4 leaves, have %d", leaves)
	}
}

func TestAmbiguity1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Test-G")
	b.LHS("X").T("+").N("X").End()
	b.LHS("X").N("X").T("*").N("X").End()
	b.LHS("X").T("x").End()
	g, _ := b.Grammar()
	input := "+x*x"
	parser := NewParser(g)
	if !parser.Parse(input) {
		t.Fatalf("Valid input string not accepted: '%s'", input)
	}
	if dc := parser.Derivations(); dc.Count != 2 {
		t.Errorf("expected 2 derivations for '%s', have %s", input, dc)
	}
	tb := NewTreeBuilder()
	root := parser.WalkDerivation(tb)
	if root == nil || tb.Tree() == nil {
		t.Fatalf("returned parse tree is empty")
	}
	if tb.Tree().Span != (cfgkit.Span{0, 4}) {
		t.Errorf("expected tree to span the input, spans %v", tb.Tree().Span)
	}
}

// --- Expression Listener for testing ---------------------------------------

type reducer func(*lr.Symbol, int, []*RuleNode, int) interface{}

type ExprListener struct {
	t        *testing.T
	dispatch map[string]reducer
}

func NewExprListener(t *testing.T) *ExprListener {
	el := &ExprListener{t: t}
	el.dispatch = map[string]reducer{
		"Sum":     el.ReduceSum,
		"Product": el.ReduceProduct,
		"Factor":  el.ReduceFactor,
	}
	return el
}

func (el *ExprListener) Reduce(lhs *lr.Symbol, rule int, children []*RuleNode, extent cfgkit.Span,
	level int) interface{} {
	//
	if r, ok := el.dispatch[lhs.Name]; ok {
		return r(lhs, rule, children, level)
	}
	el.t.Logf("%sReduce of grammar symbol: %v", indent(level), lhs)
	return children[0].Value
}

func (el *ExprListener) ReduceSum(lhs *lr.Symbol, rule int, children []*RuleNode, level int) interface{} {
	v := children[0].Value // Product
	if len(children) > 1 {
		v = children[0].Value.(int) + children[2].Value.(int) // Sum + Product
	}
	el.t.Logf("%sSUM %v\n", indent(level), v)
	return v
}

func (el *ExprListener) ReduceProduct(lhs *lr.Symbol, rule int, children []*RuleNode, level int) interface{} {
	v := children[0].Value // Factor
	if len(children) > 1 {
		v = children[0].Value.(int) * children[2].Value.(int) // Product * Factor
	}
	el.t.Logf("%sPRODUCT %v\n", indent(level), v)
	return v
}

func (el *ExprListener) ReduceFactor(lhs *lr.Symbol, rule int, children []*RuleNode, level int) interface{} {
	v := children[0].Value // digit
	if len(children) > 1 {
		v = children[1].Value // ( Sum )
	}
	el.t.Logf("%sFACTOR %v\n", indent(level), v)
	return v
}

func (el *ExprListener) Terminal(token cfgkit.Token, level int) interface{} {
	el.t.Logf("%sToken %q|%d\n", indent(level), token.Lexeme(), token.TokType())
	if c := token.Lexeme(); c >= "1" && c <= "9" {
		return int(c[0] - '0')
	}
	return token.TokType()
}

func indent(level int) string {
	return strings.Repeat(". ", level)
}
