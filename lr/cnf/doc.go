/*
Package cnf transforms a context-free grammar into Chomsky Normal Form.

Normalization is a pipeline of five stages, each of which replaces the
productions of the grammar completely:

	1. eliminate epsilon-productions
	2. eliminate unit productions A -> B
	3. remove useless (non-generating or unreachable) symbols
	4. isolate terminals within bodies of length ≥ 2
	5. binarize bodies of length > 2

Every stage returns a report of what it did. Normalize runs all of the
stages in order:

	g, _ := lr.LoadFile("grammar.json")
	report := cnf.Normalize(g)     // g is now in CNF
	report.Print(os.Stdout)

Stages never fail. A grammar which derives no terminal string at all is
normalized to a grammar without productions, consisting of the start symbol
only. Clients requiring a non-empty grammar have to check for this.

If the start symbol is nullable, the empty word is not in the language of the
normalized grammar. EpsilonReport.StartNullable flags this case.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cnf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfgkit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.lr")
}
