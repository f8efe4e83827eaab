package comps

import (
	"slices"

	"github.com/ttpr0/go-cycleflow/network"
)

//*******************************************
// adjacency
//*******************************************

// adjacency groups edge ids by node in a compressed row layout.
type adjacency struct {
	first []int32
	edges []int32
}

// newAdjacency builds an adjacency over edge ids 0..edge_count-1. node
// returns the node an edge is listed under or -1 to leave it out.
func newAdjacency(node_count, edge_count int, node func(edge int32) int32) adjacency {
	first := make([]int32, node_count+1)
	for i := 0; i < edge_count; i++ {
		if n := node(int32(i)); n >= 0 {
			first[n+1] += 1
		}
	}
	for i := 0; i < node_count; i++ {
		first[i+1] += first[i]
	}
	edges := make([]int32, first[node_count])
	fill := slices.Clone(first[:node_count])
	for i := 0; i < edge_count; i++ {
		if n := node(int32(i)); n >= 0 {
			edges[fill[n]] = int32(i)
			fill[n] += 1
		}
	}
	return adjacency{first: first, edges: edges}
}

func (a *adjacency) get(node int32) []int32 {
	return a.edges[a.first[node]:a.first[node+1]]
}

//*******************************************
// build graph components
//*******************************************

// BuildGraph derives the routing graph from the network costs. Each
// passable direction of a network edge becomes one directed edge; nodes and
// edges are numbered in sorted order so equal networks give equal graphs.
func BuildGraph(net *network.Network) (*GraphBase, *DefaultWeighting) {
	ids := make([]network.NodeID, 0, len(net.Intersections))
	for id := range net.Intersections {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	node_index := make(map[network.NodeID]int32, len(ids))
	for i, id := range ids {
		node_index[id] = int32(i)
	}

	edges := make([]Edge, 0, len(net.Edges)*2)
	weights := make([]int32, 0, len(net.Edges)*2)
	for _, key := range net.SortedKeys() {
		if key.From == key.To {
			continue
		}
		e := net.Edges[key]
		a, b := node_index[key.From], node_index[key.To]
		if c, ok := e.ForwardCost.Get(); ok {
			edges = append(edges, Edge{NodeA: a, NodeB: b, Key: key})
			weights = append(weights, c)
		}
		if c, ok := e.BackwardCost.Get(); ok {
			edges = append(edges, Edge{NodeA: b, NodeB: a, Key: key})
			weights = append(weights, c)
		}
	}
	return NewGraphBase(ids, edges), NewDefaultWeighting(weights)
}
