package earley

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/cfgkit/lr"
)

// ItemView is a read-only, serializable view of an Earley item.
type ItemView struct {
	Head   string   `json:"head"`
	Body   []string `json:"body"`
	Dot    int      `json:"dot"`
	Origin uint64   `json:"origin"`
}

func (iv ItemView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ->", iv.Head)
	for i, s := range iv.Body {
		if i == iv.Dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(s)
	}
	if iv.Dot == len(iv.Body) {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, "  (%d)", iv.Origin)
	return b.String()
}

// ChartView is a read-only, serializable view of the chart of a parser run.
// Sets[i] holds the items of chart[i], sorted by (head, body, dot, origin).
// Chart entries beyond Position have not been completed yet.
type ChartView struct {
	Input    string       `json:"input"`
	Position uint64       `json:"position"`
	Done     bool         `json:"done"`
	Accepted bool         `json:"accepted"`
	Sets     [][]ItemView `json:"sets"`
}

// Chart returns a snapshot of the current chart.
func (p *Parser) Chart() ChartView {
	var input strings.Builder
	for _, t := range p.tokens {
		input.WriteString(t.Lexeme())
	}
	view := ChartView{
		Input:    input.String(),
		Position: p.sc,
		Done:     p.done,
		Accepted: p.accepted,
		Sets:     make([][]ItemView, len(p.states)),
	}
	for i, S := range p.states {
		items := sortedItems(S)
		view.Sets[i] = make([]ItemView, len(items))
		for j, item := range items {
			view.Sets[i][j] = itemView(item)
		}
	}
	return view
}

func itemView(item lr.Item) ItemView {
	r := item.Rule()
	iv := ItemView{
		Head:   r.LHS.Name,
		Body:   make([]string, len(r.RHS())),
		Dot:    item.Dot(),
		Origin: item.Origin,
	}
	for i, A := range r.RHS() {
		iv.Body[i] = A.Name
	}
	return iv
}

func sortItems(items []lr.Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Less(items[j])
	})
}
