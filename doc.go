/*
Package cfgkit is a toolbox for context-free grammars.

It focusses on three classical algorithms which share one grammar
representation: normalizing a grammar to Chomsky Normal Form, Earley chart
parsing and generalized LR (GLR) parsing with a graph-structured stack.
Package structure is as follows:

■ lr: Package lr implements the grammar model, the grammar exchange format and
the LR(0) automaton together with its parser tables.

■ lr/cnf: Package cnf rewrites grammars into Chomsky Normal Form.

■ lr/earley and lr/glr: Parsers for arbitrary context-free grammars, both
runnable in one go or step by step for inspection.

■ lr/ambiguity: Package ambiguity decides whether a grammar derives a string
in more than one way.

■ lr/notation: Grammars written inline, e.g. "S -> aSb | ε".

■ cmd/cfgkit: A command line tool and REPL on top of the packages above.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cfgkit
