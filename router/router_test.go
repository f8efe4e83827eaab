package router

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ttpr0/go-cycleflow/attr"
	"github.com/ttpr0/go-cycleflow/comps"
	"github.com/ttpr0/go-cycleflow/geo"
	"github.com/ttpr0/go-cycleflow/network"
	"github.com/ttpr0/go-cycleflow/od"
	"github.com/ttpr0/go-cycleflow/preproc"
	"github.com/ttpr0/go-cycleflow/routing"
	"github.com/ttpr0/go-cycleflow/uptake"
	. "github.com/ttpr0/go-cycleflow/util"
)

var (
	posA = geo.FromDegrees(0, 0)
	posB = geo.FromDegrees(0.001, 0)
	posC = geo.FromDegrees(0.002, 0)
)

// lineNetwork is A - B - C with a cost of 10 per edge in both directions.
func lineNetwork() *network.Network {
	net := &network.Network{
		Edges: map[network.EdgeKey]*network.Edge{},
		Intersections: map[network.NodeID]geo.Position{
			1: posA,
			2: posB,
			3: posC,
		},
	}
	add := func(from, to network.NodeID, lts attr.LTS) {
		net.Edges[network.EdgeKey{From: from, To: to}] = &network.Edge{
			Geometry:     []geo.Position{net.Intersections[from], net.Intersections[to]},
			LengthMeters: 100,
			LTS:          lts,
			ForwardCost:  Some[int32](10),
			BackwardCost: Some[int32](10),
		}
	}
	add(1, 2, attr.LTS1)
	add(2, 3, attr.LTS3)
	return net
}

func chFinder(net *network.Network) routing.IShortestPath {
	base, weight := comps.BuildGraph(net)
	return routing.NewCHRouting(preproc.CalcContraction(base, weight))
}

func TestRunEndToEnd(t *testing.T) {
	net := lineNetwork()
	index := network.NewNodeIndex(net, network.DefaultMaxSnapMeters)
	demands := []od.Demand{{Origin: posA, Destination: posC, Weight: 1}}

	counts, err := Run(net, index, chFinder(net), demands, uptake.Identity{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Errors != 0 {
		t.Errorf("expected no errors, got %d", counts.Errors)
	}
	if c := counts.CountPerEdge[network.EdgeKey{From: 1, To: 2}]; c != 1 {
		t.Errorf("expected count 1 on (A,B), got %v", c)
	}
	if c := counts.CountPerEdge[network.EdgeKey{From: 2, To: 3}]; c != 1 {
		t.Errorf("expected count 1 on (B,C), got %v", c)
	}
	if counts.CountPerOrigin[posA] != 1 || counts.CountPerDestination[posC] != 1 {
		t.Error("expected origin and destination to be counted once")
	}
	if counts.TotalDistanceByLTS[attr.LTS1] != 100 || counts.TotalDistanceByLTS[attr.LTS3] != 100 {
		t.Errorf("unexpected distance by lts %v", counts.TotalDistanceByLTS)
	}
}

func TestRunReverseDirectionKeepsEdgeKey(t *testing.T) {
	net := lineNetwork()
	index := network.NewNodeIndex(net, network.DefaultMaxSnapMeters)
	demands := []od.Demand{{Origin: posC, Destination: posA, Weight: 0.5}}

	counts, err := Run(net, index, chFinder(net), demands, uptake.Identity{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c := counts.CountPerEdge[network.EdgeKey{From: 1, To: 2}]; c != 0.5 {
		t.Errorf("expected count 0.5 on (A,B), got %v", c)
	}
	if c := counts.CountPerEdge[network.EdgeKey{From: 2, To: 3}]; c != 0.5 {
		t.Errorf("expected count 0.5 on (B,C), got %v", c)
	}
}

func TestRunUnroutable(t *testing.T) {
	net := lineNetwork()
	index := network.NewNodeIndex(net, network.DefaultMaxSnapMeters)
	demands := []od.Demand{{Origin: posA, Destination: geo.FromDegrees(1, 1), Weight: 1}}

	counts, err := Run(net, index, chFinder(net), demands, uptake.Identity{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Errors != 1 {
		t.Errorf("expected one error, got %d", counts.Errors)
	}
	if len(counts.CountPerEdge) != 0 || len(counts.CountPerOrigin) != 0 {
		t.Error("expected no counts for an unroutable demand")
	}
}

func TestRunImpassableDirection(t *testing.T) {
	net := lineNetwork()
	net.Edges[network.EdgeKey{From: 2, To: 3}].ForwardCost = None[int32]()
	index := network.NewNodeIndex(net, network.DefaultMaxSnapMeters)
	demands := []od.Demand{
		{Origin: posA, Destination: posC, Weight: 1},
		{Origin: posC, Destination: posA, Weight: 1},
	}

	counts, err := Run(net, index, chFinder(net), demands, uptake.Identity{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Errors != 1 {
		t.Errorf("expected one error, got %d", counts.Errors)
	}
	if counts.CountPerOrigin[posC] != 1 {
		t.Error("expected the reverse demand to be routed")
	}
}

func TestRunZeroUptake(t *testing.T) {
	net := lineNetwork()
	index := network.NewNodeIndex(net, network.DefaultMaxSnapMeters)
	demands := []od.Demand{{Origin: posA, Destination: posC, Weight: 1}}

	counts, err := Run(net, index, chFinder(net), demands, uptake.CutoffMaxDistanceMeters{Meters: 50}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Errors != 0 || len(counts.CountPerEdge) != 0 || len(counts.CountPerOrigin) != 0 {
		t.Errorf("expected no weighted counts, got %+v", counts)
	}
	// the route still contributes its unweighted length
	if counts.TotalDistanceByLTS[attr.LTS1] != 100 || counts.TotalDistanceByLTS[attr.LTS3] != 100 {
		t.Errorf("unexpected distance by lts %v", counts.TotalDistanceByLTS)
	}
}

func TestRunPartitionedMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	net := &network.Network{
		Edges:         map[network.EdgeKey]*network.Edge{},
		Intersections: map[network.NodeID]geo.Position{},
	}
	const size = 8
	id := func(x, y int) network.NodeID { return network.NodeID(y*size + x) }
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			net.Intersections[id(x, y)] = geo.FromDegrees(float64(x)*0.001, float64(y)*0.001)
		}
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			for _, n := range [][2]int{{x + 1, y}, {x, y + 1}} {
				if n[0] >= size || n[1] >= size {
					continue
				}
				net.Edges[network.EdgeKey{From: id(x, y), To: id(n[0], n[1])}] = &network.Edge{
					LengthMeters: 111,
					Slope:        Some(float64(rng.Intn(10) - 5)),
					LTS:          attr.LTS(1 + rng.Intn(4)),
					ForwardCost:  Some(int32(1 + rng.Intn(20))),
					BackwardCost: Some(int32(1 + rng.Intn(20))),
				}
			}
		}
	}
	index := network.NewNodeIndex(net, network.DefaultMaxSnapMeters)
	finder := chFinder(net)

	demands := make([]od.Demand, 300)
	for i := range demands {
		demands[i] = od.Demand{
			Origin:      net.Intersections[network.NodeID(rng.Intn(size*size))],
			Destination: net.Intersections[network.NodeID(rng.Intn(size*size))],
			Weight:      rng.Float64(),
		}
	}
	// a few demands far outside the network
	demands[7].Destination = geo.FromDegrees(10, 10)
	demands[123].Origin = geo.FromDegrees(-10, 10)

	sequential, err := Run(net, index, finder, demands, uptake.GoDutchPCT{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if sequential.Errors != 2 {
		t.Errorf("expected two errors, got %d", sequential.Errors)
	}
	for _, workers := range []int{2, 3, 7, 1000} {
		partitioned, err := Run(net, index, finder, demands, uptake.GoDutchPCT{}, workers)
		if err != nil {
			t.Fatal(err)
		}
		if !sequential.Equal(partitioned, 1e-9) {
			t.Errorf("counts with %d workers differ from sequential run", workers)
		}
	}
}

func TestRunDetailedKeepsOrder(t *testing.T) {
	net := lineNetwork()
	index := network.NewNodeIndex(net, network.DefaultMaxSnapMeters)
	demands := []od.Demand{
		{Origin: posA, Destination: posC, Weight: 1},
		{Origin: posA, Destination: geo.FromDegrees(1, 1), Weight: 1},
		{Origin: posB, Destination: posC, Weight: 1},
		{Origin: posC, Destination: posA, Weight: 1},
	}

	routes, err := RunDetailed(net, index, chFinder(net), demands, uptake.Identity{}, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(routes))
	}
	if !routes[0].Valid || routes[1].Valid || !routes[2].Valid {
		t.Fatalf("unexpected slots %v %v %v", routes[0].Valid, routes[1].Valid, routes[2].Valid)
	}
	if len(routes[0].Value.Path.Edges) != 2 || routes[0].Value.LengthMeters != 200 {
		t.Errorf("unexpected first route %+v", routes[0].Value)
	}
	if len(routes[2].Value.Path.Edges) != 1 || routes[2].Value.Origin != posB {
		t.Errorf("unexpected third route %+v", routes[2].Value)
	}
}

type staticFinder struct {
	path routing.Path
}

func (f staticFinder) CreateSolver() routing.ISolver { return f }

func (f staticFinder) FindPath(from, to network.NodeID) (routing.Path, bool) {
	return f.path, true
}

func TestRunIndexMismatch(t *testing.T) {
	net := lineNetwork()
	index := network.NewNodeIndex(net, network.DefaultMaxSnapMeters)
	finder := staticFinder{path: routing.Path{Cost: 5, Edges: []network.EdgeKey{{From: 1, To: 3}}}}
	demands := []od.Demand{{Origin: posA, Destination: posC, Weight: 1}}

	_, err := Run(net, index, finder, demands, uptake.Identity{}, 1)
	if !errors.Is(err, ErrIndexMismatch) {
		t.Errorf("expected ErrIndexMismatch, got %v", err)
	}
}

func TestPartition(t *testing.T) {
	for _, n := range []int{0, 1, 5, 17} {
		for _, count := range []int{1, 2, 3, 7} {
			next := 0
			for w := 0; w < count; w++ {
				start, end := partition(n, count, w)
				if start != next || end < start {
					t.Fatalf("n=%d count=%d: bad chunk %d [%d,%d)", n, count, w, start, end)
				}
				next = end
			}
			if next != n {
				t.Fatalf("n=%d count=%d: chunks end at %d", n, count, next)
			}
		}
	}
}
