/*
Package iteratable implements iteratable container data structures.

Set is a special purpose set type, suitable mainly for implementing algorithms
around scanners, parsers, etc. These kinds of algorithms are often more straightforward
to describe as set constructions and operations.

Sets may grow while being iterated: elements added during an iteration will
be visited by the same iteration. This is what closure and fixpoint algorithms
need: iterate once over a set and add new elements as they are derived.

	S.IterateOnce()
	for S.Next() {
	    x := S.Item()
	    …
	    S.Add(y)   // y will be visited by this loop, too
	}

Elements have to be comparable, as sets are hash-based.

Unusually, all set operations are destructive!

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package iteratable
