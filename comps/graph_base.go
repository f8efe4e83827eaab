package comps

import (
	"github.com/ttpr0/go-cycleflow/network"
)

//*******************************************
// graph base interface
//*******************************************

type IGraphBase interface {
	NodeCount() int
	EdgeCount() int
	GetNodeID(node int32) network.NodeID
	GetNodeIndex(id network.NodeID) (int32, bool)
	GetEdge(edge int32) Edge
	GetAdjacentEdges(node int32, forward bool) []int32
}

// Edge is a directed edge between dense node indices. Key names the network
// edge it traverses, which for backward traversal has its nodes swapped.
type Edge struct {
	NodeA int32
	NodeB int32
	Key   network.EdgeKey
}

//*******************************************
// graph base
//*******************************************

var _ IGraphBase = &GraphBase{}

type GraphBase struct {
	nodes      []network.NodeID
	node_index map[network.NodeID]int32
	edges      []Edge
	fwd        adjacency
	bwd        adjacency
}

func NewGraphBase(nodes []network.NodeID, edges []Edge) *GraphBase {
	node_index := make(map[network.NodeID]int32, len(nodes))
	for i, id := range nodes {
		node_index[id] = int32(i)
	}
	return &GraphBase{
		nodes:      nodes,
		node_index: node_index,
		edges:      edges,
		fwd:        newAdjacency(len(nodes), len(edges), func(e int32) int32 { return edges[e].NodeA }),
		bwd:        newAdjacency(len(nodes), len(edges), func(e int32) int32 { return edges[e].NodeB }),
	}
}

func (g *GraphBase) NodeCount() int {
	return len(g.nodes)
}
func (g *GraphBase) EdgeCount() int {
	return len(g.edges)
}
func (g *GraphBase) GetNodeID(node int32) network.NodeID {
	return g.nodes[node]
}
func (g *GraphBase) GetNodeIndex(id network.NodeID) (int32, bool) {
	node, ok := g.node_index[id]
	return node, ok
}
func (g *GraphBase) GetEdge(edge int32) Edge {
	return g.edges[edge]
}

// GetAdjacentEdges returns outgoing edges for forward, incoming otherwise.
func (g *GraphBase) GetAdjacentEdges(node int32, forward bool) []int32 {
	if forward {
		return g.fwd.get(node)
	}
	return g.bwd.get(node)
}
