package earley

import (
	"github.com/npillmayer/cfgkit"
	"github.com/npillmayer/cfgkit/lr"
)

// ruleset remembers the rules applied to a span on the path from the root of
// a derivation walk. It is used to break derivation cycles like A ⇒ B ⇒ A.
// Sets are persistent: add returns a new set, leaving the receiver unchanged,
// so sibling branches of a walk do not see each other's rules.
type ruleset map[ruleSpan]struct{}

type ruleSpan struct {
	rule *lr.Rule
	span cfgkit.Span
}

var exists = struct{}{}

func (set ruleset) add(r *lr.Rule, span cfgkit.Span) ruleset {
	s := make(ruleset, len(set)+1)
	for k := range set {
		s[k] = exists
	}
	s[ruleSpan{r, span}] = exists
	return s
}

func (set ruleset) contains(r *lr.Rule, span cfgkit.Span) bool {
	if set == nil || r == nil {
		return false
	}
	_, ok := set[ruleSpan{r, span}]
	return ok
}
