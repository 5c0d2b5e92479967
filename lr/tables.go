package lr

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/cfgkit/lr/iteratable"
	"github.com/npillmayer/cfgkit/lr/sparse"
)

// Actions for parser action tables. Reduce actions are encoded as the
// serial number of the rule to reduce, which is always > 0.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Compute the closure of an Earley item.
func (lrgen *TableGenerator) closure(i Item) *iteratable.Set {
	S := newItemSet()
	S.Add(i)
	return lrgen.closureSet(S)
}

// Compute the closure of a set of Earley items.
// https://www.cs.bgu.ac.il/~comp151/wiki.files/ps6.html#sec-2-7-3
func (lrgen *TableGenerator) closureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy() // add start items to closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		A := item.PeekSymbol()           // get symbol A after dot
		if A != nil && !A.IsTerminal() { // A is non-terminal
			R := lrgen.startItemsFor(A)
			if New := R.Difference(C); !New.Empty() {
				C.Union(New)
			}
		}
	}
	return C
}

// startItemsFor returns the set of items [A ::= • …] for every rule with LHS A.
func (lrgen *TableGenerator) startItemsFor(A *Symbol) *iteratable.Set {
	S := newItemSet()
	for _, r := range lrgen.rulesByLHS[A] {
		item, _ := StartItem(r)
		S.Add(item)
	}
	return S
}

func (lrgen *TableGenerator) gotoSet(closure *iteratable.Set, A *Symbol) (*iteratable.Set, *Symbol) {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.Add(ii)
		}
	}
	return gotoset, A
}

func (lrgen *TableGenerator) gotoSetClosure(i *iteratable.Set, A *Symbol) (*iteratable.Set, *Symbol) {
	gotoset, _ := lrgen.gotoSet(i, A)
	gclosure := lrgen.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure, A
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     uint            // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	Accept bool            // is this an accepting state?
}

// CFSM edge between 2 states, directed and with a terminal
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

// Items returns the items of this state, ordered by (head, body, dot).
func (s *CFSMState) Items() []Item {
	items := make([]Item, 0, s.items.Size())
	for _, x := range s.items.Values() {
		items = append(items, asItem(x))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Less(items[j]) })
	return items
}

// Create a state from an item set
func state(id uint, iset *iteratable.Set) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.PeekSymbol() == nil {
			return true
		}
	}
	return false
}

// Create an edge
func edge(from, to *CFSMState, label *Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// stateKey is the canonical form of an item set, used for hashing.
type stateKey struct {
	Items []itemKey
}

type itemKey struct {
	Rule int
	Dot  int
}

// digest computes a hash value for an item set. Equal item sets have equal
// digests, regardless of insertion order.
func digest(iset *iteratable.Set) string {
	key := stateKey{Items: make([]itemKey, 0, iset.Size())}
	for _, x := range iset.Values() {
		i := asItem(x)
		key.Items = append(key.Items, itemKey{Rule: i.rule.Serial, Dot: i.dot})
	}
	sort.Slice(key.Items, func(i, j int) bool {
		a, b := key.Items[i], key.Items[j]
		return a.Rule < b.Rule || a.Rule == b.Rule && a.Dot < b.Dot
	})
	h, err := structhash.Hash(key, 1)
	if err != nil {
		panic(fmt.Sprintf("cannot hash CFSM state: %v", err))
	}
	return h
}

// Add a state to the CFSM. Checks first if state is present.
func (c *CFSM) addState(iset *iteratable.Set) *CFSMState {
	s := c.findStateByItems(iset)
	if s == nil {
		s = state(c.cfsmIds, iset)
		c.cfsmIds++
		h := digest(iset)
		c.byDigest[h] = append(c.byDigest[h], s)
	}
	c.states.Add(s)
	return s
}

// Find a CFSM state by the contained item set.
func (c *CFSM) findStateByItems(iset *iteratable.Set) *CFSMState {
	for _, s := range c.byDigest[digest(iset)] {
		if s.items.Equals(iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
type CFSM struct {
	g        *Grammar                // this CFSM is for Grammar g
	states   *treeset.Set            // all the states
	edges    *arraylist.List         // all the edges between states
	byDigest map[string][]*CFSMState // states bucketed by item set digest
	S0       *CFSMState              // start state
	cfsmIds  uint                    // serial IDs for CFSM states
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.byDigest = make(map[string][]*CFSMState)
	return c
}

// StateCount returns the number of states of the CFSM.
func (c *CFSM) StateCount() int {
	return c.states.Size()
}

// State returns the state with the given ID, or nil.
func (c *CFSM) State(id uint) *CFSMState {
	if at, found := c.states.Find(func(_ int, x interface{}) bool {
		return x.(*CFSMState).ID == id
	}); at >= 0 {
		return found.(*CFSMState)
	}
	return nil
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	states := make([]*CFSMState, 0, c.states.Size())
	for _, x := range c.states.Values() {
		states = append(states, x.(*CFSMState))
	}
	return states
}

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G and then a table generator.
// TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LR-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	rules        []*Rule // flattened rules, with S' ::= S at index 0
	rulesByLHS   map[*Symbol][]*Rule
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a grammar.
// The grammar is not modified.
func NewTableGenerator(g *Grammar) *TableGenerator {
	lrgen := &TableGenerator{g: g}
	lrgen.rules = append([]*Rule{AugmentedStart(g)}, g.rules...)
	lrgen.rulesByLHS = make(map[*Symbol][]*Rule)
	for _, r := range lrgen.rules {
		lrgen.rulesByLHS[r.LHS] = append(lrgen.rulesByLHS[r.LHS], r)
	}
	return lrgen
}

// Grammar returns the grammar this generator works on.
func (lrgen *TableGenerator) Grammar() *Grammar {
	return lrgen.g
}

// Rules returns the flattened rule table. Rule 0 is the augmented start rule.
func (lrgen *TableGenerator) Rules() []*Rule {
	return lrgen.rules
}

// Rule returns rule number no of the flattened rule table.
func (lrgen *TableGenerator) Rule(no int) *Rule {
	if no < 0 || no >= len(lrgen.rules) {
		return nil
	}
	return lrgen.rules[no]
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously (or a separate call to
// BuildGotoTable(...).)
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously (or a separate call to
// BuildActionTable(...).)
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// CreateTables creates the necessary data structures for a GLR parser.
func (lrgen *TableGenerator) CreateTables() {
	lrgen.dfa = lrgen.buildCFSM()
	lrgen.gototable = lrgen.BuildGotoTable()
	lrgen.actiontable, lrgen.HasConflicts = lrgen.BuildActionTable()
}

// AcceptingStates returns all states of the CFSM which contain the completed
// start rule S' ::= S •. Clients have to call CreateTables() first.
func (lrgen *TableGenerator) AcceptingStates() []uint {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	acc := make([]uint, 0, 3)
	for _, x := range lrgen.dfa.states.Values() {
		if state := x.(*CFSMState); state.Accept {
			acc = append(acc, state.ID)
		}
	}
	return acc
}

// Construct the characteristic finite state machine CFSM for a grammar.
// States are discovered breadth-first, starting with the closure of
// [S' ::= • S].
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	cfsm := emptyCFSM(lrgen.g)
	closure0 := lrgen.closure(Item{rule: lrgen.rules[0]})
	Dump(closure0)
	cfsm.S0 = cfsm.addState(closure0)
	cfsm.S0.Dump()
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		for _, A := range symbolsAfterDot(s.items) {
			tracer().Debugf("checking goto-set for symbol = %v", A)
			gotoset, _ := lrgen.gotoSetClosure(s.items, A)
			snew := cfsm.findStateByItems(gotoset)
			if snew == nil {
				snew = cfsm.addState(gotoset)
				S.Add(snew)
				if snew.containsCompletedStartRule() {
					snew.Accept = true
				}
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
		}
		tracer().Debugf("-----------------------------------------------------------------")
	}
	tracer().Infof("CFSM for grammar %s has %d states", lrgen.g.Name, cfsm.StateCount())
	return cfsm
}

// symbolsAfterDot collects the symbols following a dot in an item set,
// in order of first appearance.
func symbolsAfterDot(iset *iteratable.Set) []*Symbol {
	var syms []*Symbol
	seen := make(map[*Symbol]bool)
	for _, x := range iset.Values() {
		if A := asItem(x).PeekSymbol(); A != nil && !seen[A] {
			seen[A] = true
			syms = append(syms, A)
		}
	}
	return syms
}

// ===========================================================================

// tableExtent returns the range of token values a table has to cover.
func (lrgen *TableGenerator) tableExtent() (cfgkit.TokType, uint) {
	var maxtok cfgkit.TokType
	var mintok cfgkit.TokType = EOF
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		if A.TokenType() > maxtok { // find maximum token value
			maxtok = A.TokenType()
		} else if A.TokenType() < mintok {
			mintok = A.TokenType()
		}
		return nil
	})
	return mintok, uint(maxtok - mintok + 1)
}

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables(). The GOTO table holds transitions for terminals (shift targets)
// as well as for non-terminals.
func (lrgen *TableGenerator) BuildGotoTable() *Table {
	statescnt := lrgen.CFSM().states.Size()
	mintok, extent := lrgen.tableExtent()
	tracer().Infof("GOTO table of size %d x %d", statescnt, extent)
	gototable := &Table{
		matrix: sparse.NewIntMatrix(statescnt, int(extent), sparse.DefaultNullValue),
		mincol: mintok,
	}
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		for _, e := range lrgen.dfa.allEdges(state) {
			gototable.set(state.ID, e.label.TokenType(), int32(e.to.ID))
		}
	}
	return gototable
}

// BuildActionTable constructs the ACTION table. This method is normally not called
// by clients, but rather via CreateTables().
//
// For building an ACTION table we iterate over all the states of the CFSM.
// An inner loop iterates over all the items within a CFSM-state.
// If an item has a terminal immediately after the dot, we produce a shift
// entry. If an item's dot is behind the complete RHS of a rule, we produce a
// reduce entry for the rule, for every terminal and for end of input. This is
// an LR(0) policy and will produce conflicts for most grammars: the table
// keeps every action, as a GLR parser will fork on conflicts.
// The completed start rule S' ::= S • yields an accept entry for end of input.
//
// Shift entries are represented as -1, accept as -2. Reduce entries are encoded
// as the serial no. of the grammar rule to reduce.
func (lrgen *TableGenerator) BuildActionTable() (*Table, bool) {
	statescnt := lrgen.CFSM().states.Size()
	mintok, extent := lrgen.tableExtent()
	tracer().Infof("ACTION table of size %d x %d", statescnt, extent)
	actions := &Table{
		matrix: sparse.NewIntMatrix(statescnt, int(extent), sparse.DefaultNullValue),
		mincol: mintok,
	}
	lookaheads := append(lrgen.g.Terminals(), &Symbol{Name: "#eof", Value: EOF})
	hasConflicts := false
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, i := range state.Items() {
			A := i.PeekSymbol()
			if A != nil && A.IsTerminal() { // create a shift entry
				tracer().Debugf("    creating shift entry --%v--> for %v", A, i)
				hasConflicts = actions.add(state.ID, A.TokenType(), ShiftAction) || hasConflicts
			}
			if A == nil { // we are at the end of a rule
				if i.rule.Serial == 0 {
					tracer().Debugf("    creating accept entry for %v", i)
					hasConflicts = actions.add(state.ID, EOF, AcceptAction) || hasConflicts
					continue
				}
				tracer().Debugf("    creating reduce_%d entries for %v", i.rule.Serial, i.rule)
				for _, la := range lookaheads {
					hasConflicts = actions.add(state.ID, la.TokenType(), int32(i.rule.Serial)) || hasConflicts
				}
			}
		}
	}
	return actions, hasConflicts
}

// Table is a parser table, indexed by state ID and token value.
type Table struct {
	matrix *sparse.IntMatrix
	mincol cfgkit.TokType // lowest value for index j => offset for access
}

func (t *Table) column(tt cfgkit.TokType) (int, bool) {
	j := int(tt - t.mincol)
	return j, j >= 0 && j < t.matrix.N()
}

// add adds an action and reports whether the cell now holds more than one action.
func (t *Table) add(i uint, tt cfgkit.TokType, val int32) bool {
	j, ok := t.column(tt)
	if !ok {
		panic(fmt.Sprintf("lr.Table.add() with index out of range: %d", j))
	}
	t.matrix.Add(int(i), j, val)
	return len(t.matrix.Values(int(i), j)) > 1
}

func (t *Table) set(i uint, tt cfgkit.TokType, val int32) {
	j, ok := t.column(tt)
	if !ok {
		panic(fmt.Sprintf("lr.Table.set() with index out of range: %d", j))
	}
	t.matrix.Set(int(i), j, val)
}

// NullValue is the value returned for empty table cells.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the first value stored at (state, token value), or NullValue.
// Token values outside the table's range yield NullValue.
func (t *Table) Value(i uint, tt cfgkit.TokType) int32 {
	j, ok := t.column(tt)
	if !ok || int(i) >= t.matrix.M() {
		return t.matrix.NullValue()
	}
	return t.matrix.Value(int(i), j)
}

// Values returns all values stored at (state, token value).
func (t *Table) Values(i uint, tt cfgkit.TokType) []int32 {
	j, ok := t.column(tt)
	if !ok || int(i) >= t.matrix.M() {
		return nil
	}
	return t.matrix.Values(int(i), j)
}

// ----------------------------------------------------------------------

// ActionString is a short helper to stringify an action table entry.
func ActionString(v int32) string {
	switch {
	case v == sparse.DefaultNullValue:
		return "<none>"
	case v == AcceptAction:
		return "<accept>"
	case v == ShiftAction:
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}

func itemSetString(S *iteratable.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	for _, x := range S.Values() {
		item := asItem(x)
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(" }")
	return b.String()
}
