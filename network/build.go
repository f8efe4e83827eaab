package network

import (
	"fmt"

	"github.com/ttpr0/go-cycleflow/attr"
	"github.com/ttpr0/go-cycleflow/cost"
	"github.com/ttpr0/go-cycleflow/geo"
	. "github.com/ttpr0/go-cycleflow/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// build network
//*******************************************

// Build turns a raw graph into a Network. Lengths come from the edge
// geometry; slope and slope factors are only set when the elevation source
// knows both end heights. Later raw edges replace earlier ones with the same
// node pair.
func Build(raw RawGraph, rule attr.ILTSRule, fn cost.IFunction, elevation IElevation) (*Network, error) {
	net := &Network{
		Edges:         make(map[EdgeKey]*Edge, len(raw.Edges)),
		Intersections: make(map[NodeID]geo.Position),
	}

	replaced := 0
	for i, re := range raw.Edges {
		if len(re.Geometry) < 2 {
			return nil, fmt.Errorf("raw edge %d of way %d has %d vertices", i, re.WayID, len(re.Geometry))
		}
		posA, ok := raw.Nodes[re.NodeA]
		if !ok {
			return nil, fmt.Errorf("raw edge %d of way %d references unknown node %d", i, re.WayID, re.NodeA)
		}
		posB, ok := raw.Nodes[re.NodeB]
		if !ok {
			return nil, fmt.Errorf("raw edge %d of way %d references unknown node %d", i, re.WayID, re.NodeB)
		}

		edge := &Edge{
			WayID:        re.WayID,
			Tags:         re.Tags,
			Geometry:     re.Geometry,
			LengthMeters: geo.LineLength(re.Geometry),
			LTS:          rule.Classify(re.Tags),
		}
		if elevation != nil {
			applyElevation(edge, elevation)
		}
		edge.ForwardCost, edge.BackwardCost = cost.EdgeCost(fn, edge.Tags, edge.LTS, edge.LengthMeters, edge.SlopeFactor)

		key := EdgeKey{From: re.NodeA, To: re.NodeB}
		if _, ok := net.Edges[key]; ok {
			replaced += 1
		}
		net.Edges[key] = edge
		net.Intersections[re.NodeA] = posA
		net.Intersections[re.NodeB] = posB
	}
	if replaced > 0 {
		slog.Debug("parallel edges collapsed", "count", replaced)
	}
	slog.Info("built network", "edges", len(net.Edges), "intersections", len(net.Intersections))
	return net, nil
}

func applyElevation(edge *Edge, elevation IElevation) {
	start, ok := elevation.Height(edge.Geometry[0])
	if !ok {
		return
	}
	end, ok := elevation.Height(edge.Geometry[len(edge.Geometry)-1])
	if !ok {
		return
	}
	slope := cost.Slope(start, end, edge.LengthMeters)
	fwd, bwd := cost.SlopeFactors(slope, edge.LengthMeters)
	edge.Slope = Some(slope)
	edge.SlopeFactor = Some([2]float64{fwd, bwd})
}
