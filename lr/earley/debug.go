package earley

import (
	"bytes"

	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/iteratable"
	"github.com/npillmayer/schuko/tracing"
)

func dumpState(states []*iteratable.Set, stateno uint64) {
	if tracer().GetTraceLevel() != tracing.LevelDebug {
		return
	}
	tracer().Debugf("--- State %04d ------------------------------------", stateno)
	for n, item := range sortedItems(states[stateno]) {
		tracer().Debugf("[%2d] %s", n+1, item)
	}
}

func itemSetString(S *iteratable.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	for n, item := range sortedItems(S) {
		if n == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(" }")
	return b.String()
}

func sortedItems(S *iteratable.Set) []lr.Item {
	items := make([]lr.Item, 0, S.Size())
	for _, x := range S.Values() {
		items = append(items, x.(lr.Item))
	}
	sortItems(items)
	return items
}
