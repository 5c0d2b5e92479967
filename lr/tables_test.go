package lr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := makeAnBn(t)
	lrgen := NewTableGenerator(g)
	C := lrgen.closure(Item{rule: lrgen.Rule(0)})
	// S' ::= • S,  S ::= • a S b,  S ::= •
	if C.Size() != 3 {
		Dump(C)
		t.Errorf("expected closure of start item to hold 3 items, has %d", C.Size())
	}
}

func TestCFSM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	tracer().SetTraceLevel(tracing.LevelInfo)
	g := makeAnBn(t)
	lrgen := NewTableGenerator(g)
	cfsm := lrgen.CFSM()
	// 0: S'→•S, S→•aSb, S→•   1: S'→S•   2: S→a•Sb, …   3: S→aS•b   4: S→aSb•
	if cfsm.StateCount() != 5 {
		for _, s := range cfsm.States() {
			s.Dump()
		}
		t.Errorf("expected CFSM to have 5 states, has %d", cfsm.StateCount())
	}
	if cfsm.State(cfsm.S0.ID) != cfsm.S0 {
		t.Errorf("expected state lookup by ID to find S0")
	}
}

func TestTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	tracer().SetTraceLevel(tracing.LevelInfo)
	g := makeAnBn(t)
	lrgen := NewTableGenerator(g)
	lrgen.CreateTables()
	if !lrgen.HasConflicts {
		t.Errorf("expected LR(0) tables for a^n b^n to have conflicts")
	}
	acc := lrgen.AcceptingStates()
	if len(acc) != 1 {
		t.Fatalf("expected exactly one accepting state, have %v", acc)
	}
	if v := lrgen.ActionTable().Value(acc[0], EOF); v != AcceptAction {
		t.Errorf("expected accept action on EOF, have %s", ActionString(v))
	}
	S0 := lrgen.CFSM().S0.ID
	actions := lrgen.ActionTable().Values(S0, 'a')
	var shift, reduce bool
	for _, a := range actions {
		shift = shift || a == ShiftAction
		reduce = reduce || a == 2
	}
	if !shift || !reduce {
		t.Errorf("expected shift/reduce conflict in state 0 on 'a', have %v", actions)
	}
	if lrgen.GotoTable().Value(S0, 'a') == lrgen.GotoTable().NullValue() {
		t.Errorf("expected GOTO entry for 'a' in state 0")
	}
	if lrgen.GotoTable().Value(S0, g.Start().TokenType()) == lrgen.GotoTable().NullValue() {
		t.Errorf("expected GOTO entry for S in state 0")
	}
	if lrgen.ActionTable().Value(S0, 'z') != lrgen.ActionTable().NullValue() {
		t.Errorf("expected no action for unknown terminal")
	}
}
