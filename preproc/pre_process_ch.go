package preproc

import (
	"math"

	"github.com/ttpr0/go-cycleflow/comps"
	"github.com/ttpr0/go-cycleflow/network"
	. "github.com/ttpr0/go-cycleflow/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// preprocessing graph
//*******************************************

type chPreprocGraph struct {
	edges     []comps.CHEdge
	out_edges [][]int32
	in_edges  [][]int32
}

func newCHPreprocGraph(base comps.IGraphBase, weight comps.IWeighting) *chPreprocGraph {
	g := &chPreprocGraph{
		edges:     make([]comps.CHEdge, 0, base.EdgeCount()*2),
		out_edges: make([][]int32, base.NodeCount()),
		in_edges:  make([][]int32, base.NodeCount()),
	}
	for i := 0; i < base.EdgeCount(); i++ {
		e := base.GetEdge(int32(i))
		g.addEdge(comps.CHEdge{
			From:   e.NodeA,
			To:     e.NodeB,
			Weight: weight.GetEdgeWeight(int32(i)),
			ChildA: -1,
			ChildB: -1,
			Key:    e.Key,
		})
	}
	return g
}

func (g *chPreprocGraph) NodeCount() int {
	return len(g.out_edges)
}

func (g *chPreprocGraph) addEdge(edge comps.CHEdge) int32 {
	id := int32(len(g.edges))
	g.edges = append(g.edges, edge)
	g.out_edges[edge.From] = append(g.out_edges[edge.From], id)
	g.in_edges[edge.To] = append(g.in_edges[edge.To], id)
	return id
}

// addShortcut adds from->to standing for edge_a followed by edge_b.
func (g *chPreprocGraph) addShortcut(edge_a, edge_b int32) {
	a := g.edges[edge_a]
	b := g.edges[edge_b]
	weight := int64(a.Weight) + int64(b.Weight)
	if weight > math.MaxInt32 {
		weight = math.MaxInt32
	}
	g.addEdge(comps.CHEdge{
		From:   a.From,
		To:     b.To,
		Weight: int32(weight),
		ChildA: edge_a,
		ChildB: edge_b,
	})
}

//*******************************************
// ch utility
//*******************************************

type _Neighbour struct {
	node int32
	// cheapest edge between the contracted node and node
	edge int32
}

// Searches the not yet contracted neighbours of a node using edges and
// shortcuts. Returns in-neighbours and out-neighbours.
func _FindNeighbours(g *chPreprocGraph, id int32, is_contracted []bool) ([]_Neighbour, []_Neighbour) {
	collect := func(edges []int32, forward bool) []_Neighbour {
		neighbours := make([]_Neighbour, 0, 4)
		for _, edge_id := range edges {
			edge := g.edges[edge_id]
			other_id := edge.From
			if forward {
				other_id = edge.To
			}
			if other_id == id || is_contracted[other_id] {
				continue
			}
			found := false
			for i, nb := range neighbours {
				if nb.node != other_id {
					continue
				}
				found = true
				if edge.Weight < g.edges[nb.edge].Weight {
					neighbours[i].edge = edge_id
				}
			}
			if !found {
				neighbours = append(neighbours, _Neighbour{other_id, edge_id})
			}
		}
		return neighbours
	}
	return collect(g.in_edges[id], false), collect(g.out_edges[id], true)
}

type _FlagSH struct {
	curr_length int64
	prev_edge   int32
	prev_node   int32
	visited     bool
	_is_target  bool
}

// Performs a local dijkstra search from start until all targets are settled
// or settle_limit nodes have been settled. Contracted nodes are skipped.
func _RunLocalSearch(start int32, targets []_Neighbour, g *chPreprocGraph, heap PriorityQueue[int32, int64], flags *Flags[_FlagSH], is_contracted []bool, settle_limit int) {
	target_count := 0
	for _, target := range targets {
		if target.node == start {
			continue
		}
		flag := flags.Get(target.node)
		if !flag._is_target {
			flag._is_target = true
			target_count += 1
		}
	}
	start_flag := flags.Get(start)
	start_flag.curr_length = 0
	start_flag.prev_node = -1
	heap.Enqueue(start, 0)

	found_count := 0
	settled := 0
	for found_count < target_count && settled < settle_limit {
		curr_id, ok := heap.Dequeue()
		if !ok {
			break
		}
		curr_flag := flags.Get(curr_id)
		if curr_flag.visited {
			continue
		}
		curr_flag.visited = true
		settled += 1
		if curr_flag._is_target {
			found_count += 1
		}
		for _, edge_id := range g.out_edges[curr_id] {
			edge := g.edges[edge_id]
			other_id := edge.To
			if is_contracted[other_id] {
				continue
			}
			other_flag := flags.Get(other_id)
			new_length := curr_flag.curr_length + int64(edge.Weight)
			if new_length < other_flag.curr_length {
				other_flag.curr_length = new_length
				other_flag.prev_edge = edge_id
				other_flag.prev_node = curr_id
				heap.Enqueue(other_id, new_length)
			}
		}
	}
}

// Returns the edges a shortcut from->to around via consists of. If a
// witness path avoiding via was found false is returned.
func _GetShortcut(from, to _Neighbour, via int32, flags *Flags[_FlagSH]) ([2]int32, bool) {
	to_flag := flags.Get(to.node)
	// target not settled within the limit, always add the shortcut
	if !to_flag.visited {
		return [2]int32{from.edge, to.edge}, true
	}
	// shortcut only needed if the shortest path goes through via
	if to_flag.prev_node != via {
		return [2]int32{}, false
	}
	via_flag := flags.Get(via)
	if via_flag.prev_node != from.node {
		return [2]int32{}, false
	}
	return [2]int32{via_flag.prev_edge, to_flag.prev_edge}, true
}

//*******************************************
// preprocess ch
//*******************************************

// DefaultSettleLimit bounds every witness search during contraction.
const DefaultSettleLimit = 500

// CalcContraction computes a contraction hierarchy ordered by 2*ED + CN,
// where ED is the edge difference and CN the number of already contracted
// neighbours. Priorities of neighbours are updated after each contraction.
func CalcContraction(base comps.IGraphBase, weight comps.IWeighting) *comps.CH {
	return CalcContractionWithLimit(base, weight, DefaultSettleLimit)
}

func CalcContractionWithLimit(base comps.IGraphBase, weight comps.IWeighting, settle_limit int) *comps.CH {
	g := newCHPreprocGraph(base, weight)
	node_count := g.NodeCount()
	slog.Info("started contracting graph", "nodes", node_count, "edges", base.EdgeCount())

	// initialize
	is_contracted := make([]bool, node_count)
	node_levels := make([]int32, node_count)
	contracted_neighbours := make([]int, node_count)

	// initialize routing components
	heap := NewPriorityQueue[int32, int64](10)
	flags := NewFlags[_FlagSH](int32(node_count), _FlagSH{curr_length: math.MaxInt64})

	// compute node priorities
	node_priorities := make([]int, node_count)
	for i := 0; i < node_count; i++ {
		node_priorities[i] = _ComputeNodePriority(int32(i), g, heap, flags, is_contracted, contracted_neighbours, settle_limit)
	}

	// put nodes into priority queue
	type entry struct {
		node int32
		prio int
	}
	contraction_order := NewPriorityQueue[entry, int](node_count)
	for i := 0; i < node_count; i++ {
		prio := node_priorities[i]
		contraction_order.Enqueue(entry{int32(i), prio}, prio)
	}

	level := int32(0)
	for {
		temp, ok := contraction_order.Dequeue()
		if !ok {
			break
		}
		node_id := temp.node
		if is_contracted[node_id] || temp.prio != node_priorities[node_id] {
			continue
		}
		if level%10000 == 0 && level > 0 {
			slog.Debug("contracting", "node", level, "of", node_count, "edges", len(g.edges))
		}

		// contract node
		in_neigbours, out_neigbours := _FindNeighbours(g, node_id, is_contracted)
		for _, from := range in_neigbours {
			heap.Clear()
			flags.Reset()
			_RunLocalSearch(from.node, out_neigbours, g, heap, flags, is_contracted, settle_limit)
			for _, to := range out_neigbours {
				if from.node == to.node {
					continue
				}
				edges, shortcut_needed := _GetShortcut(from, to, node_id, flags)
				if !shortcut_needed {
					continue
				}
				g.addShortcut(edges[0], edges[1])
			}
		}
		is_contracted[node_id] = true
		node_levels[node_id] = level
		level += 1

		// update neighbours
		update := func(nb int32) {
			contracted_neighbours[nb] += 1
			prio := _ComputeNodePriority(nb, g, heap, flags, is_contracted, contracted_neighbours, settle_limit)
			node_priorities[nb] = prio
			contraction_order.Enqueue(entry{nb, prio}, prio)
		}
		for _, nb := range in_neigbours {
			update(nb.node)
		}
		for _, nb := range out_neigbours {
			update(nb.node)
		}
	}
	slog.Info("finished contracting graph", "shortcuts", len(g.edges)-base.EdgeCount())

	nodes := make([]network.NodeID, node_count)
	for i := range nodes {
		nodes[i] = base.GetNodeID(int32(i))
	}
	return comps.NewCH(nodes, node_levels, g.edges)
}

func _ComputeNodePriority(node int32, g *chPreprocGraph, heap PriorityQueue[int32, int64], flags *Flags[_FlagSH], is_contracted []bool, contracted_neighbours []int, settle_limit int) int {
	in_neigbours, out_neigbours := _FindNeighbours(g, node, is_contracted)
	edge_diff := -(len(in_neigbours) + len(out_neigbours))
	for _, from := range in_neigbours {
		flags.Reset()
		heap.Clear()
		_RunLocalSearch(from.node, out_neigbours, g, heap, flags, is_contracted, settle_limit)
		for _, to := range out_neigbours {
			if from.node == to.node {
				continue
			}
			if _, shortcut_needed := _GetShortcut(from, to, node, flags); shortcut_needed {
				edge_diff += 1
			}
		}
	}
	return 2*edge_diff + contracted_neighbours[node]
}
