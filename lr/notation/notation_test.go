package notation

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnBn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g, err := Parse("AnBn", "S -> aSb | ε")
	require.NoError(t, err)
	assert.Equal(t, "S", g.Start().Name)
	assert.Equal(t, 2, g.ProductionCount())
	prods := g.Productions(g.Start())
	require.Len(t, prods, 2)
	assert.Equal(t, "a S b", prods[0].Body())
	assert.True(t, prods[1].IsEps())
}

func TestParseSeparatorsAndArrows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	text := `
	# a grammar with all kinds of arrows
	S → A B ; A ::= 'x' | eps
	B -> b | %empty
	`
	g, err := Parse("G", text)
	require.NoError(t, err)
	assert.Equal(t, "S", g.Start().Name)
	assert.Equal(t, 5, g.ProductionCount())
	assert.NotNil(t, g.SymbolByName("x"))
	assert.True(t, g.SymbolByName("x").IsTerminal())
}

func TestParseNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g, err := Parse("Names", "<Expr> -> <Expr> '+' S_2 | _a1 ; S_2 -> 12 ; _a1 -> a")
	require.NoError(t, err)
	assert.Equal(t, "Expr", g.Start().Name)
	body := g.Productions(g.Start())[0].Body()
	assert.Equal(t, "Expr + S_2", body)
	S2 := g.SymbolByName("S_2")
	require.NotNil(t, S2)
	assert.Equal(t, "1 2", g.Productions(S2)[0].Body())
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	for _, text := range []string{
		"",               // no rules
		"a -> b",         // terminal as head
		"S a b",          // missing arrow
		"S -> a ε",       // ε within an alternative
		"S -> a | ->",    // stray arrow
		"S -> 'ab'",      // quoted terminal of more than one character
		"S -> a $ b",     // unknown character
		"S -> <A> ; A_1", // incomplete rule
	} {
		_, err := Parse("Bad", text)
		assert.Error(t, err, "expected an error for %q", text)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := MustParse("G", "S -> A S | <Long> | ε ; A -> 'λ' a ; <Long> -> '''")
	text := Format(g)
	assert.Equal(t, "S -> A S | <Long> | ε\nA -> 'λ' a\n<Long> -> '''\n", text)
	h, err := Parse("H", text)
	require.NoError(t, err)
	assert.Equal(t, g.ProductionCount(), h.ProductionCount())
	assert.Equal(t, Format(g), Format(h))
}
