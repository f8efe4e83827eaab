package network

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
	"github.com/ttpr0/go-cycleflow/geo"
)

//*******************************************
// nearest node index
//*******************************************

// DefaultMaxSnapMeters is the search radius used when none is configured.
const DefaultMaxSnapMeters = 500.0

const metersPerDegree = 111320.0

type indexedNode struct {
	id  NodeID
	pos geo.Position
	p   orb.Point
}

func (n *indexedNode) Point() orb.Point {
	return n.p
}

// NodeIndex resolves points to the nearest intersection. It is read-only
// after construction and safe for concurrent use.
type NodeIndex struct {
	tree          *quadtree.Quadtree
	count         int
	maxSnapMeters float64
}

// NewNodeIndex indexes every intersection of the network. Nodes farther than
// maxSnapMeters from a query point are never returned.
func NewNodeIndex(net *Network, maxSnapMeters float64) *NodeIndex {
	points := make(orb.MultiPoint, 0, len(net.Intersections))
	for _, pos := range net.Intersections {
		points = append(points, pos.ToPoint())
	}
	bound := points.Bound().Pad(0.01)
	tree := quadtree.New(bound)
	for id, pos := range net.Intersections {
		// only fails for points outside the bound
		_ = tree.Add(&indexedNode{id: id, pos: pos, p: pos.ToPoint()})
	}
	return &NodeIndex{
		tree:          tree,
		count:         len(net.Intersections),
		maxSnapMeters: maxSnapMeters,
	}
}

// ClosestNode returns the intersection nearest to pos by great-circle
// distance, or false if none lies within the snap radius. Equidistant
// intersections resolve to the lower id.
func (i *NodeIndex) ClosestNode(pos geo.Position) (NodeID, bool) {
	if i.count == 0 {
		return 0, false
	}
	p := pos.ToPoint()
	candidates := i.tree.InBound(nil, i.searchBound(p))

	var best *indexedNode
	bestDist := 0.0
	for _, c := range candidates {
		node := c.(*indexedNode)
		dist := geo.Distance(pos, node.pos)
		if dist > i.maxSnapMeters {
			continue
		}
		if best == nil || dist < bestDist || (dist == bestDist && node.id < best.id) {
			best = node
			bestDist = dist
		}
	}
	if best == nil {
		return 0, false
	}
	return best.id, true
}

// searchBound covers every point within the snap radius of p. A degree of
// longitude shrinks towards the poles, so the box is widened by the latitude
// of its poleward edge.
func (i *NodeIndex) searchBound(p orb.Point) orb.Bound {
	// 1% margin over the great-circle radius used by geo.Distance
	dLat := 1.01 * i.maxSnapMeters / metersPerDegree
	lat := math.Min(math.Abs(p.Lat())+dLat, 90)
	cos := math.Cos(lat * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01
	}
	dLon := math.Min(dLat/cos, 180)
	return orb.Bound{
		Min: orb.Point{p.Lon() - dLon, p.Lat() - dLat},
		Max: orb.Point{p.Lon() + dLon, p.Lat() + dLat},
	}
}
