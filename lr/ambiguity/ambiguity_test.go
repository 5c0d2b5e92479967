package ambiguity

import (
	"testing"

	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/notation"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, name string, rules func(b *lr.GrammarBuilder)) *lr.Grammar {
	b := lr.NewGrammarBuilder(name)
	rules(b)
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func TestABBA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := build(t, "AB-BA", func(b *lr.GrammarBuilder) {
		b.LHS("S").N("A").N("B").End()
		b.LHS("S").N("B").N("A").End()
		b.LHS("A").T("a").End()
		b.LHS("B").T("a").End()
	})
	r, err := Check(g, "aa")
	require.NoError(t, err)
	assert.True(t, r.Accepted)
	assert.Equal(t, uint64(2), r.Derivations)
	assert.True(t, r.Ambiguous)
	assert.True(t, Ambiguous(g, "aa"))
}

func TestAA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := build(t, "AA", func(b *lr.GrammarBuilder) {
		b.LHS("S").N("A").N("A").End()
		b.LHS("A").T("a").End()
	})
	r, err := Check(g, "aa")
	require.NoError(t, err)
	assert.True(t, r.Accepted)
	assert.Equal(t, uint64(1), r.Derivations)
	assert.False(t, r.Ambiguous)
}

func TestRejectedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := build(t, "AA", func(b *lr.GrammarBuilder) {
		b.LHS("S").N("A").N("A").End()
		b.LHS("A").T("a").End()
	})
	r, err := Check(g, "aaa")
	require.NoError(t, err)
	assert.False(t, r.Accepted)
	assert.False(t, r.Ambiguous)
	assert.Equal(t, "not accepted", r.String())
}

func TestInfinite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := build(t, "Loop", func(b *lr.GrammarBuilder) {
		b.LHS("S").N("S").End()
		b.LHS("S").T("a").End()
	})
	r, err := Check(g, "a")
	require.NoError(t, err)
	assert.True(t, r.Infinite)
	assert.True(t, r.Ambiguous)
}

func TestCatalan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := notation.MustParse("Catalan", "S -> SS | a")
	for input, count := range map[string]uint64{"a": 1, "aa": 1, "aaa": 2, "aaaa": 5, "aaaaa": 14} {
		r, err := Check(g, input)
		require.NoError(t, err)
		assert.Equal(t, count, r.Derivations, "derivations of %q", input)
		assert.Equal(t, count > 1, r.Ambiguous)
	}
}
