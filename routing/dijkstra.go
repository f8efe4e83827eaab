package routing

import (
	"math"
	"slices"

	"github.com/ttpr0/go-cycleflow/comps"
	"github.com/ttpr0/go-cycleflow/network"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// dijkstra
//*******************************************

// Dijkstra searches the plain graph. It needs no preprocessing and serves
// as reference for the hierarchy.
type Dijkstra struct {
	base   comps.IGraphBase
	weight comps.IWeighting
}

func NewDijkstra(base comps.IGraphBase, weight comps.IWeighting) *Dijkstra {
	return &Dijkstra{
		base:   base,
		weight: weight,
	}
}

func (d *Dijkstra) CreateSolver() ISolver {
	return &DijkstraSolver{
		base:   d.base,
		weight: d.weight,
		heap:   NewPriorityQueue[int32, int64](100),
		flags:  NewFlags(int32(d.base.NodeCount()), _FlagCH{dist: math.MaxInt64, prev_edge: -1}),
	}
}

type DijkstraSolver struct {
	base   comps.IGraphBase
	weight comps.IWeighting
	heap   PriorityQueue[int32, int64]
	flags  *Flags[_FlagCH]
}

func (s *DijkstraSolver) FindPath(from, to network.NodeID) (Path, bool) {
	start, ok := s.base.GetNodeIndex(from)
	if !ok {
		return Path{}, false
	}
	end, ok := s.base.GetNodeIndex(to)
	if !ok {
		return Path{}, false
	}

	s.heap.Clear()
	s.flags.Reset()
	s.flags.Get(start).dist = 0
	s.heap.Enqueue(start, 0)
	found := false
	for {
		curr_id, ok := s.heap.Dequeue()
		if !ok {
			break
		}
		curr_flag := s.flags.Get(curr_id)
		if curr_flag.visited {
			continue
		}
		curr_flag.visited = true
		if curr_id == end {
			found = true
			break
		}
		for _, edge_id := range s.base.GetAdjacentEdges(curr_id, true) {
			other_id := s.base.GetEdge(edge_id).NodeB
			other_flag := s.flags.Get(other_id)
			new_length := curr_flag.dist + int64(s.weight.GetEdgeWeight(edge_id))
			if new_length < other_flag.dist {
				other_flag.dist = new_length
				other_flag.prev_edge = edge_id
				s.heap.Enqueue(other_id, new_length)
			}
		}
	}
	if !found {
		return Path{}, false
	}

	edges := make([]network.EdgeKey, 0, 16)
	for curr := end; curr != start; {
		edge := s.base.GetEdge(s.flags.Get(curr).prev_edge)
		edges = append(edges, edge.Key)
		curr = edge.NodeA
	}
	slices.Reverse(edges)
	return Path{Cost: s.flags.Get(end).dist, Edges: edges}, true
}
