package glr

import (
	"strings"
	"testing"

	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/earley"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

/*
https://cs.au.dk/~amoeller/papers/ambiguity/ambiguity.pdf  -> Example 4

	1: S  ::= [A -]
	2: S  ::= [+ B]
	3: A  ::= [+ a]
	4: B  ::= [a -]
*/
func TestGLR1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("G1")
	b.LHS("S").N("A").T("-").End()
	b.LHS("S").T("+").N("B").End()
	b.LHS("A").T("+").T("a").End()
	b.LHS("B").T("a").T("-").End()
	g, err := b.Grammar()
	if err != nil {
		t.Error(err)
	}
	parse(t, g, true, "+a-")
	parse(t, g, false, "+a", "a-", "+a-a", "")
}

func TestAnBn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := makeAnBn(t)
	parse(t, g, true, "", "ab", "aabb", "aaabbb")
	parse(t, g, false, "a", "abab", "ba", "aab", "c")
}

func TestAmbiguousGrammars(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("AB-BA")
	b.LHS("S").N("A").N("B").End()
	b.LHS("S").N("B").N("A").End()
	b.LHS("A").T("a").End()
	b.LHS("B").T("a").End()
	g, _ := b.Grammar()
	parse(t, g, true, "aa")
	parse(t, g, false, "a", "aaa")
	//
	b = lr.NewGrammarBuilder("SS")
	b.LHS("S").N("S").N("S").End()
	b.LHS("S").T("a").End()
	g, _ = b.Grammar()
	parse(t, g, true, "a", "aa", "aaaaaa")
	parse(t, g, false, "")
}

func TestEpsilonCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Eps")
	b.LHS("S").N("X").End()
	b.LHS("X").N("A").N("X").End()
	b.LHS("X").T("b").End()
	b.LHS("A").Epsilon()
	b.LHS("A").T("a").End()
	g, _ := b.Grammar()
	parse(t, g, true, "b", "ab", "aab")
	parse(t, g, false, "", "a", "ba")
}

func TestEarleyAgreement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	tracer().SetTraceLevel(tracing.LevelInfo)
	grammars := []*lr.Grammar{makeAnBn(t), makeLeftRecursive(t), makeNullable(t)}
	for _, g := range grammars {
		glrp := NewParser(g)
		ep := earley.NewParser(g)
		for _, input := range allStrings("ab", 6) {
			if e, r := ep.Parse(input), glrp.Parse(input); e != r {
				t.Errorf("grammar %s: Earley says %v, GLR says %v for '%s'", g.Name, e, r, input)
			}
		}
	}
}

func TestMergeBound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("SS")
	b.LHS("S").N("S").N("S").End()
	b.LHS("S").T("a").End()
	g, _ := b.Grammar()
	p := NewParser(g, RecordSnapshots(true))
	if !p.Parse("aaaaaaaa") {
		t.Fatalf("expected input to be accepted")
	}
	gss := p.GSS()
	seen := make(map[[2]uint64]bool)
	for _, n := range gss.Nodes {
		key := [2]uint64{uint64(n.State), n.Pos}
		if seen[key] {
			t.Errorf("more than one GSS node for state %d at position %d", n.State, n.Pos)
		}
		seen[key] = true
	}
	if max := p.Tables().CFSM().StateCount() * 9; len(gss.Nodes) > max {
		t.Errorf("GSS has %d nodes, exceeding bound of %d", len(gss.Nodes), max)
	}
	if len(p.Snapshots()) != 10 { // reset + 8 characters + end of input
		t.Errorf("expected 10 snapshots, have %d", len(p.Snapshots()))
	}
}

func TestStepwise(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	var sink []string
	p := NewParser(makeAnBn(t), Explain(func(msg string) { sink = append(sink, msg) }))
	p.Reset("ab")
	steps := 0
	for p.NextStep() {
		steps++
		if p.Position() != uint64(steps) {
			t.Errorf("expected position %d after step %d, is %d", steps, steps, p.Position())
		}
		if len(p.GSS().Tops) == 0 {
			t.Errorf("expected live stack tops during the run")
		}
	}
	if steps != 2 || !p.IsDone() || !p.IsAccepted() {
		t.Errorf("expected 'ab' to be accepted after 2 steps, steps=%d, accepted=%v", steps, p.IsAccepted())
	}
	log := p.Explanations()
	if len(log) != len(sink) || !strings.Contains(log[len(log)-1], "ACCEPTED") {
		t.Errorf("unexpected explanations %v", log)
	}
	// dead configuration
	p.Reset("ba")
	if p.NextStep() {
		t.Errorf("expected run to stop after no stack survived")
	}
	if !p.IsDone() || p.IsAccepted() {
		t.Errorf("expected 'ba' to be rejected immediately")
	}
}

// ----------------------------------------------------------------------

func parse(t *testing.T, g *lr.Grammar, expected bool, input ...string) {
	p := NewParser(g)
	for _, inp := range input {
		if ok := p.Parse(inp); ok != expected {
			t.Errorf("grammar %s: expected accept('%s') = %v, is %v", g.Name, inp, expected, ok)
		}
	}
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

func makeLeftRecursive(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("LeftRec")
	b.LHS("S").N("S").T("a").End()
	b.LHS("S").N("S").N("S").T("b").End()
	b.LHS("S").T("b").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func makeNullable(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("Nullable")
	b.LHS("S").N("A").N("B").N("A").End()
	b.LHS("A").Epsilon()
	b.LHS("A").T("a").End()
	b.LHS("B").N("A").End()
	b.LHS("B").T("b").N("S").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// allStrings returns all strings over alphabet up to length n.
func allStrings(alphabet string, n int) []string {
	all := []string{""}
	last := []string{""}
	for l := 1; l <= n; l++ {
		var next []string
		for _, s := range last {
			for _, c := range alphabet {
				next = append(next, s+string(c))
			}
		}
		all = append(all, next...)
		last = next
	}
	return all
}

func TestGSSAncestors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	stack := newGSS()
	root, _ := stack.node(0, 0)
	a, _ := stack.node(1, 1)
	b, _ := stack.node(2, 1)
	top, _ := stack.node(3, 2)
	stack.link(a, root)
	stack.link(b, root)
	stack.link(top, b)
	stack.link(top, a)
	if stack.link(top, a) {
		t.Errorf("duplicate edge has been linked")
	}
	if got := stack.ancestors(top, 1); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("expected ancestors [%d %d] at distance 1, got %v", a, b, got)
	}
	if got := stack.ancestors(top, 2); len(got) != 1 || got[0] != root {
		t.Errorf("expected shared root as single ancestor at distance 2, got %v", got)
	}
	if got := stack.ancestors(top, 0); len(got) != 1 || got[0] != top {
		t.Errorf("expected node itself at distance 0, got %v", got)
	}
	if got := stack.ancestors(top, 3); len(got) != 0 {
		t.Errorf("expected no ancestors beyond the root, got %v", got)
	}
}
