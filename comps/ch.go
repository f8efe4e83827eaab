package comps

import (
	"github.com/ttpr0/go-cycleflow/network"
)

//*******************************************
// ch-data interface
//*******************************************

type ICHData interface {
	NodeCount() int
	GetNodeIndex(id network.NodeID) (int32, bool)
	GetNodeLevel(node int32) int32
	GetEdge(edge int32) CHEdge
	GetUpEdges(node int32, forward bool) []int32
	UnpackEdge(edge int32, callback func(network.EdgeKey))
}

// CHEdge is either an original edge (ChildA == -1) or a shortcut standing
// for the path ChildA followed by ChildB.
type CHEdge struct {
	From   int32
	To     int32
	Weight int32
	ChildA int32
	ChildB int32
	Key    network.EdgeKey
}

func (e CHEdge) IsShortcut() bool {
	return e.ChildA >= 0
}

//*******************************************
// ch-data
//*******************************************

var _ ICHData = &CH{}

// CH is a contraction hierarchy. Node levels are the contraction order, so
// every edge leads either up or down. Read-only and safe to share between
// solvers.
type CH struct {
	nodes       []network.NodeID
	node_index  map[network.NodeID]int32
	node_levels []int32
	edges       []CHEdge
	// fwd_up lists edges leaving a node towards a higher level, bwd_up lists
	// edges entering a node from a higher level.
	fwd_up adjacency
	bwd_up adjacency
}

func NewCH(nodes []network.NodeID, node_levels []int32, edges []CHEdge) *CH {
	node_index := make(map[network.NodeID]int32, len(nodes))
	for i, id := range nodes {
		node_index[id] = int32(i)
	}
	ch := &CH{
		nodes:       nodes,
		node_index:  node_index,
		node_levels: node_levels,
		edges:       edges,
	}
	ch.fwd_up = newAdjacency(len(nodes), len(edges), func(e int32) int32 {
		edge := edges[e]
		if node_levels[edge.To] > node_levels[edge.From] {
			return edge.From
		}
		return -1
	})
	ch.bwd_up = newAdjacency(len(nodes), len(edges), func(e int32) int32 {
		edge := edges[e]
		if node_levels[edge.From] > node_levels[edge.To] {
			return edge.To
		}
		return -1
	})
	return ch
}

func (ch *CH) NodeCount() int {
	return len(ch.nodes)
}
func (ch *CH) EdgeCount() int {
	return len(ch.edges)
}
func (ch *CH) ShortcutCount() int {
	count := 0
	for _, e := range ch.edges {
		if e.IsShortcut() {
			count += 1
		}
	}
	return count
}
func (ch *CH) GetNodeID(node int32) network.NodeID {
	return ch.nodes[node]
}
func (ch *CH) GetNodeIndex(id network.NodeID) (int32, bool) {
	node, ok := ch.node_index[id]
	return node, ok
}
func (ch *CH) GetNodeLevel(node int32) int32 {
	return ch.node_levels[node]
}
func (ch *CH) GetEdge(edge int32) CHEdge {
	return ch.edges[edge]
}

// GetUpEdges returns edges leaving node upwards for forward, and edges
// entering node from above otherwise.
func (ch *CH) GetUpEdges(node int32, forward bool) []int32 {
	if forward {
		return ch.fwd_up.get(node)
	}
	return ch.bwd_up.get(node)
}

// UnpackEdge calls callback with the network edges an edge stands for, in
// travel order.
func (ch *CH) UnpackEdge(edge int32, callback func(network.EdgeKey)) {
	stack := []int32{edge}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		e := ch.edges[curr]
		if !e.IsShortcut() {
			callback(e.Key)
			continue
		}
		stack = append(stack, e.ChildB, e.ChildA)
	}
}
