package lr

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/cfgkit/lr/iteratable"
)

// Item is an Earley item, i.e. a rule with a dot somewhere in its right hand
// side, plus the input position where recognition of the rule started.
// For LR(0) items the origin is always 0.
//
// Items are comparable values: two items are equal iff rule, dot and
// origin are equal. This makes them usable as keys for hash sets.
type Item struct {
	rule   *Rule
	dot    int
	Origin uint64
}

// StartItem returns an Earley item from a rule with the dot at position 0.
// It returns the symbol after the dot as well.
func StartItem(r *Rule) (Item, *Symbol) {
	if r == nil {
		return Item{}, nil
	}
	i := Item{rule: r}
	return i, i.PeekSymbol()
}

// NewItem creates an item for rule r, with the dot in front of rhs[dot],
// and with an origin.
func NewItem(r *Rule, dot int, origin uint64) Item {
	return Item{rule: r, dot: dot, Origin: origin}
}

// Rule returns the grammar rule of this item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, if any.
func (i Item) PeekSymbol() *Symbol {
	if i.rule == nil || i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Completed is true if the dot is behind the complete right hand side.
func (i Item) Completed() bool {
	return i.rule != nil && i.dot >= len(i.rule.rhs)
}

// Advance returns a new item with the dot advanced one position.
func (i Item) Advance() Item {
	if i.Completed() {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1, Origin: i.Origin}
}

// Prefix returns a slice, so that the result equals RHS[0:dot].
func (i Item) Prefix() []*Symbol {
	if i.rule == nil {
		return nil
	}
	return i.rule.rhs[:i.dot]
}

// Less orders items by (head, body, dot, origin).
func (i Item) Less(j Item) bool {
	if i.rule.LHS.Name != j.rule.LHS.Name {
		return i.rule.LHS.Name < j.rule.LHS.Name
	}
	if b1, b2 := i.rule.Body(), j.rule.Body(); b1 != b2 {
		return b1 < b2
	}
	if i.dot != j.dot {
		return i.dot < j.dot
	}
	return i.Origin < j.Origin
}

func (i Item) String() string {
	if i.rule == nil {
		return "[<nil>]"
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s ::=", i.rule.LHS.Name)
	for n, A := range i.rule.rhs {
		if n == i.dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(A.Name)
	}
	if i.Completed() {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, "] (%d)", i.Origin)
	return b.String()
}

// --- Item sets -------------------------------------------------------------

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(0)
}

// NewItemSet creates an empty set for items.
func NewItemSet() *iteratable.Set {
	return newItemSet()
}

func asItem(x interface{}) Item {
	return x.(Item)
}

// Dump is a debugging helper, listing an item set to the tracer.
func Dump(S *iteratable.Set) {
	for _, x := range S.Values() {
		tracer().Debugf("   %v", asItem(x))
	}
}
