package glr

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// NodeID is a handle for a node of a graph-structured stack.
type NodeID int

// gssNode is a node of the GSS: a parser state at an input position, with
// links to predecessor nodes. Nodes are never removed and predecessor links
// are only ever appended.
type gssNode struct {
	state uint
	pos   uint64
	preds []NodeID
}

type nodeKey struct {
	state uint
	pos   uint64
}

type edgeKey struct {
	from, to NodeID
}

// gss is a graph-structured stack, implemented as an arena of nodes.
// There is at most one node per (state, position), which bounds the size
// of the stack to |states| × (|input|+1) nodes.
type gss struct {
	nodes []gssNode
	index map[nodeKey]NodeID
	edges map[edgeKey]struct{}
}

func newGSS() *gss {
	return &gss{
		index: make(map[nodeKey]NodeID),
		edges: make(map[edgeKey]struct{}),
	}
}

// node returns the node for (state, pos), creating it if necessary.
// The second return value tells if the node has been created.
func (g *gss) node(state uint, pos uint64) (NodeID, bool) {
	key := nodeKey{state, pos}
	if id, ok := g.index[key]; ok {
		return id, false
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, gssNode{state: state, pos: pos})
	g.index[key] = id
	return id, true
}

// link adds pred as a predecessor of n. It returns false if the link
// already exists.
func (g *gss) link(n, pred NodeID) bool {
	key := edgeKey{n, pred}
	if _, ok := g.edges[key]; ok {
		return false
	}
	g.edges[key] = struct{}{}
	g.nodes[n].preds = append(g.nodes[n].preds, pred)
	return true
}

func (g *gss) state(n NodeID) uint {
	return g.nodes[n].state
}

// ancestors returns the distinct nodes reachable from n by following exactly
// k predecessor links, in ascending order.
func (g *gss) ancestors(n NodeID, k int) []NodeID {
	layer := treeset.NewWith(nodeComparator, n)
	for ; k > 0 && !layer.Empty(); k-- {
		next := treeset.NewWith(nodeComparator)
		for _, m := range layer.Values() {
			for _, p := range g.nodes[m.(NodeID)].preds {
				next.Add(p)
			}
		}
		layer = next
	}
	ids := make([]NodeID, 0, layer.Size())
	for _, m := range layer.Values() {
		ids = append(ids, m.(NodeID))
	}
	return ids
}

func nodeComparator(n1, n2 interface{}) int {
	return utils.IntComparator(int(n1.(NodeID)), int(n2.(NodeID)))
}

// --- Snapshots -------------------------------------------------------------

// NodeView is a read-only, serializable view of a GSS node.
type NodeView struct {
	ID    NodeID   `json:"id"`
	State uint     `json:"state"`
	Pos   uint64   `json:"pos"`
	Preds []NodeID `json:"preds"`
}

// Snapshot is a read-only, serializable view of the GSS after a parser step.
type Snapshot struct {
	Position uint64     `json:"position"`
	Nodes    []NodeView `json:"nodes"`
	Tops     []NodeID   `json:"tops"` // nodes at the current position
	Done     bool       `json:"done"`
	Accepted bool       `json:"accepted"`
	Trace    []string   `json:"trace"` // explanations produced by the step
}

func (g *gss) snapshot() []NodeView {
	views := make([]NodeView, len(g.nodes))
	for i, n := range g.nodes {
		views[i] = NodeView{
			ID:    NodeID(i),
			State: n.state,
			Pos:   n.pos,
			Preds: append([]NodeID(nil), n.preds...),
		}
	}
	return views
}
