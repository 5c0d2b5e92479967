/*
Package lr implements the grammar model shared by all algorithms of this
module, together with the LR(0) automaton used by the GLR parser.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
are single characters. Grammars may contain epsilon-productions.

Example:

	b := lr.NewGrammarBuilder("G")
	b.LHS("S").T("a").N("S").T("b").End()  // S  ->  a S b
	b.LHS("S").Epsilon()                   // S  ->
	g, err := b.Grammar()

Symbols are interned: bodies are sequences of symbols, not strings, so
non-terminal names may well be longer than a single character ("A_2").

Alternatively grammars are loaded from the grammar exchange format, a JSON
object of the form

	{
	  "Variables": ["S"],
	  "Terminals": ["a", "b"],
	  "Productions": [
	    {"head": "S", "body": ["a", "S", "b"]},
	    {"head": "S", "body": []}
	  ],
	  "Start": "S"
	}

using LoadFile or LoadJSON.

Parser Construction

A characteristic finite state machine (CFSM) is built from the
grammar, augmented by an artificial start rule S' ::= S.
The CFSM will then be transformed into a GOTO table and an ACTION table.
Reduce actions are entered for every lookahead, making the table an LR(0)
table. Table cells may hold more than one action; conflicts are kept and are
resolved by forking in package glr.

Example:

	lrgen := lr.NewTableGenerator(g)
	lrgen.CreateTables()              // construct LR parser tables
	if lrgen.HasConflicts { … }       // fine for a GLR parser

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfgkit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.lr")
}
