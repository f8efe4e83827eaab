package routing

import (
	"math"

	"github.com/ttpr0/go-cycleflow/comps"
	"github.com/ttpr0/go-cycleflow/network"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// ch routing
//*******************************************

type CHRouting struct {
	ch comps.ICHData
}

func NewCHRouting(ch comps.ICHData) *CHRouting {
	return &CHRouting{ch: ch}
}

func (r *CHRouting) CreateSolver() ISolver {
	size := int32(r.ch.NodeCount())
	return &CHSolver{
		ch:        r.ch,
		fwd_heap:  NewPriorityQueue[int32, int64](100),
		bwd_heap:  NewPriorityQueue[int32, int64](100),
		fwd_flags: NewFlags(size, _FlagCH{dist: math.MaxInt64, prev_edge: -1}),
		bwd_flags: NewFlags(size, _FlagCH{dist: math.MaxInt64, prev_edge: -1}),
	}
}

type _FlagCH struct {
	dist      int64
	prev_edge int32
	visited   bool
}

// CHSolver runs a bidirectional upward search over the hierarchy.
type CHSolver struct {
	ch        comps.ICHData
	fwd_heap  PriorityQueue[int32, int64]
	bwd_heap  PriorityQueue[int32, int64]
	fwd_flags *Flags[_FlagCH]
	bwd_flags *Flags[_FlagCH]
	best      int64
	meet      int32
}

func (s *CHSolver) FindPath(from, to network.NodeID) (Path, bool) {
	start, ok := s.ch.GetNodeIndex(from)
	if !ok {
		return Path{}, false
	}
	end, ok := s.ch.GetNodeIndex(to)
	if !ok {
		return Path{}, false
	}
	if start == end {
		return Path{}, true
	}

	s.fwd_heap.Clear()
	s.bwd_heap.Clear()
	s.fwd_flags.Reset()
	s.bwd_flags.Reset()
	s.fwd_flags.Get(start).dist = 0
	s.bwd_flags.Get(end).dist = 0
	s.fwd_heap.Enqueue(start, 0)
	s.bwd_heap.Enqueue(end, 0)
	s.best = math.MaxInt64
	s.meet = -1

	fwd_done, bwd_done := false, false
	for !fwd_done || !bwd_done {
		if !fwd_done {
			fwd_done = s._Step(true)
		}
		if !bwd_done {
			bwd_done = s._Step(false)
		}
	}
	if s.meet == -1 {
		return Path{}, false
	}
	return Path{Cost: s.best, Edges: s._BuildPath(start, end)}, true
}

// _Step settles one node in the given direction. Returns true once that
// direction cannot improve the best path any more.
func (s *CHSolver) _Step(forward bool) bool {
	heap, flags, other_flags := s.fwd_heap, s.fwd_flags, s.bwd_flags
	if !forward {
		heap, flags, other_flags = s.bwd_heap, s.bwd_flags, s.fwd_flags
	}
	prio, ok := heap.Peek()
	if !ok || prio >= s.best {
		return true
	}
	curr_id, _ := heap.Dequeue()
	curr_flag := flags.Get(curr_id)
	if curr_flag.visited {
		return false
	}
	curr_flag.visited = true

	if other := other_flags.Get(curr_id); other.dist != math.MaxInt64 {
		if length := curr_flag.dist + other.dist; length < s.best {
			s.best = length
			s.meet = curr_id
		}
	}

	for _, edge_id := range s.ch.GetUpEdges(curr_id, forward) {
		edge := s.ch.GetEdge(edge_id)
		other_id := edge.From
		if forward {
			other_id = edge.To
		}
		other_flag := flags.Get(other_id)
		new_length := curr_flag.dist + int64(edge.Weight)
		if new_length < other_flag.dist {
			other_flag.dist = new_length
			other_flag.prev_edge = edge_id
			heap.Enqueue(other_id, new_length)
		}
	}
	return false
}

func (s *CHSolver) _BuildPath(start, end int32) []network.EdgeKey {
	up := make([]int32, 0, 16)
	for curr := s.meet; curr != start; {
		edge_id := s.fwd_flags.Get(curr).prev_edge
		up = append(up, edge_id)
		curr = s.ch.GetEdge(edge_id).From
	}
	down := make([]int32, 0, 16)
	for curr := s.meet; curr != end; {
		edge_id := s.bwd_flags.Get(curr).prev_edge
		down = append(down, edge_id)
		curr = s.ch.GetEdge(edge_id).To
	}

	path := make([]network.EdgeKey, 0, 2*(len(up)+len(down)))
	add := func(key network.EdgeKey) {
		path = append(path, key)
	}
	for i := len(up) - 1; i >= 0; i-- {
		s.ch.UnpackEdge(up[i], add)
	}
	for _, edge_id := range down {
		s.ch.UnpackEdge(edge_id, add)
	}
	return path
}
