package network

import (
	"fmt"

	"github.com/ttpr0/go-cycleflow/attr"
	"github.com/ttpr0/go-cycleflow/geo"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// network structs
//*******************************************

// NodeID is the OSM id of an intersection.
type NodeID int64

// EdgeKey identifies an edge by its ordered node pair.
type EdgeKey struct {
	From NodeID
	To   NodeID
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("(%d, %d)", k.From, k.To)
}

type Edge struct {
	WayID    int64
	Tags     attr.Tags
	Geometry []geo.Position
	// Slope in percent, e.g. 3.0 for a 3% climb from From to To.
	Slope Optional[float64]
	// SlopeFactor holds the cost multipliers for forward and backward traversal.
	SlopeFactor  Optional[[2]float64]
	LengthMeters float64
	LTS          attr.LTS
	ForwardCost  Optional[int32]
	BackwardCost Optional[int32]
}

// Network is immutable once built or loaded. Only one edge per ordered node
// pair is kept.
type Network struct {
	Edges         map[EdgeKey]*Edge
	Intersections map[NodeID]geo.Position
}

func (n *Network) EdgeCount() int {
	return len(n.Edges)
}

func (n *Network) NodeCount() int {
	return len(n.Intersections)
}

//*******************************************
// raw graph
//*******************************************

// RawEdge is a way segment between two intersections as read from the map.
type RawEdge struct {
	WayID    int64
	Tags     attr.Tags
	NodeA    NodeID
	NodeB    NodeID
	Geometry []geo.Position
}

type RawGraph struct {
	Edges []RawEdge
	Nodes map[NodeID]geo.Position
}

// IElevation samples terrain heights in meters.
type IElevation interface {
	Height(pos geo.Position) (float64, bool)
}

// ElevationFunc adapts a function to IElevation.
type ElevationFunc func(pos geo.Position) (float64, bool)

func (f ElevationFunc) Height(pos geo.Position) (float64, bool) {
	return f(pos)
}
