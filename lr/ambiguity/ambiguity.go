/*
Package ambiguity decides whether a grammar is ambiguous for a given input.

A grammar is ambiguous for an input string iff the string has more than one
parse tree. The Earley parser serves as a derivation enumerator: after a
successful parse, the parse trees are counted from the completed items of
the chart. The GLR parser checks the membership verdict independently.

	result, err := ambiguity.Check(g, "aa")
	if result.Ambiguous { … }

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ambiguity

import (
	"fmt"

	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/earley"
	"github.com/npillmayer/cfgkit/lr/glr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfgkit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.lr")
}

// Result is the outcome of an ambiguity check.
type Result struct {
	Accepted    bool   // input is a sentence of the grammar
	Derivations uint64 // number of parse trees, saturating
	Infinite    bool   // infinitely many parse trees (derivation cycle)
	Ambiguous   bool   // more than one parse tree
}

func (r Result) String() string {
	switch {
	case !r.Accepted:
		return "not accepted"
	case r.Infinite:
		return "ambiguous (infinitely many derivations)"
	case r.Ambiguous:
		return fmt.Sprintf("ambiguous (%d derivations)", r.Derivations)
	}
	return "unambiguous (1 derivation)"
}

// Check counts the parse trees for input. It returns an error if the Earley
// and the GLR parser disagree on accepting the input, which would indicate
// a defect of one of the parsers.
func Check(g *lr.Grammar, input string) (Result, error) {
	ep := earley.NewParser(g)
	result := Result{Accepted: ep.Parse(input)}
	if gp := glr.NewParser(g); gp.Parse(input) != result.Accepted {
		return result, fmt.Errorf("parsers disagree on %q for grammar %s: Earley says %v",
			input, g.Name, result.Accepted)
	}
	if result.Accepted {
		dc := ep.Derivations()
		result.Derivations = dc.Count
		result.Infinite = dc.Infinite
		result.Ambiguous = dc.Ambiguous()
	}
	tracer().Infof("ambiguity check for %q: %s", input, result)
	return result, nil
}

// Ambiguous returns true if input has more than one parse tree. Errors of
// Check are logged and treated as 'not ambiguous'.
func Ambiguous(g *lr.Grammar, input string) bool {
	result, err := Check(g, input)
	if err != nil {
		tracer().Errorf(err.Error())
		return false
	}
	return result.Ambiguous
}
