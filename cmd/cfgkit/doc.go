/*
Command cfgkit is a command line tool for experimenting with context-free
grammars. Grammars are read from a file in exchange format (-g) or given
inline in rule notation (-r):

	cfgkit cnf -r 'S -> aSb | ε'
	cfgkit parse -g expr.json --engine both 'a+a*a'
	cfgkit ambiguous -r 'S -> SS | a' aaa
	cfgkit repl -r 'S -> aSb | ε'

The REPL runs the Earley and the GLR parser step by step and displays
the chart and the graph-structured stack after every step.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfgkit.cli'
func tracer() tracing.Trace {
	return tracing.Select("cfgkit.cli")
}
