package router

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/ttpr0/go-cycleflow/geo"
	"github.com/ttpr0/go-cycleflow/network"
	"github.com/ttpr0/go-cycleflow/od"
	"github.com/ttpr0/go-cycleflow/routing"
	"github.com/ttpr0/go-cycleflow/uptake"
	. "github.com/ttpr0/go-cycleflow/util"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// ErrIndexMismatch is returned when the routing index produces an edge the
// network does not contain, which means the index was built from a
// different network.
var ErrIndexMismatch = errors.New("routing index does not match network")

// INodeIndex snaps points to network nodes.
type INodeIndex interface {
	ClosestNode(pos geo.Position) (network.NodeID, bool)
}

// Route is a successfully routed demand.
type Route struct {
	Origin       geo.Position
	Destination  geo.Position
	Path         routing.Path
	LengthMeters float64
	// Length weighted mean of the absolute edge slopes in percent.
	Gradient float64
	Uptake   float64
	Weight   float64
}

//*******************************************
// aggregate mode
//*******************************************

// Run routes every demand and returns the merged counts. Every routed demand
// adds its path length to TotalDistanceByLTS; only demands with a non-zero
// weighted uptake add edge, origin and destination counts. Demands are split
// into contiguous partitions, one per worker; workers <= 0 uses GOMAXPROCS.
func Run(net *network.Network, index INodeIndex, finder routing.IShortestPath, demands []od.Demand, model uptake.IUptake, workers int) (*network.Counts, error) {
	workers = workerCount(workers, len(demands))
	partials := make([]*network.Counts, workers)

	g := errgroup.Group{}
	for w := 0; w < workers; w++ {
		start, end := partition(len(demands), workers, w)
		g.Go(func() error {
			counts, err := runPartition(net, index, finder, demands[start:end], model, w)
			if err != nil {
				return err
			}
			partials[w] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := network.NewCounts()
	for _, partial := range partials {
		if partial != nil {
			counts.Combine(partial)
		}
	}
	return counts, nil
}

func runPartition(net *network.Network, index INodeIndex, finder routing.IShortestPath, demands []od.Demand, model uptake.IUptake, worker int) (*network.Counts, error) {
	counts := network.NewCounts()
	solver := finder.CreateSolver()
	report := time.Now()
	for i, d := range demands {
		route, ok, err := routeDemand(net, index, solver, d, model)
		if err != nil {
			return nil, err
		}
		if !ok {
			counts.Errors += 1
			continue
		}
		// distance is unweighted and counts every routed demand
		for _, key := range route.Path.Edges {
			edge := net.Edges[key]
			counts.TotalDistanceByLTS[edge.LTS] += edge.LengthMeters
		}
		if route.Weight > 0 {
			counts.AddRoute(d.Origin, d.Destination, route.Path.Edges, route.Weight)
		}
		if time.Since(report) > 10*time.Second {
			slog.Debug(fmt.Sprintf("worker %v routed %v/%v demands", worker, i+1, len(demands)))
			report = time.Now()
		}
	}
	return counts, nil
}

func routeDemand(net *network.Network, index INodeIndex, solver routing.ISolver, d od.Demand, model uptake.IUptake) (Route, bool, error) {
	from, ok := index.ClosestNode(d.Origin)
	if !ok {
		return Route{}, false, nil
	}
	to, ok := index.ClosestNode(d.Destination)
	if !ok {
		return Route{}, false, nil
	}
	path, ok := solver.FindPath(from, to)
	if !ok {
		return Route{}, false, nil
	}

	length := 0.0
	climb := 0.0
	for _, key := range path.Edges {
		edge, ok := net.Edges[key]
		if !ok {
			return Route{}, false, fmt.Errorf("%w: edge %v -> %v", ErrIndexMismatch, key.From, key.To)
		}
		length += edge.LengthMeters
		climb += math.Abs(edge.Slope.ValueOr(0)) * edge.LengthMeters
	}
	gradient := 0.0
	if length > 0 {
		gradient = climb / length
	}
	share := model.Calculate(length, gradient)
	return Route{
		Origin:       d.Origin,
		Destination:  d.Destination,
		Path:         path,
		LengthMeters: length,
		Gradient:     gradient,
		Uptake:       share,
		Weight:       d.Weight * share,
	}, true, nil
}

//*******************************************
// detailed mode
//*******************************************

// RunDetailed routes the first n demands and returns one slot per demand in
// input order. Unroutable demands leave their slot empty.
func RunDetailed(net *network.Network, index INodeIndex, finder routing.IShortestPath, demands []od.Demand, model uptake.IUptake, n int, workers int) ([]Optional[Route], error) {
	if n < len(demands) {
		demands = demands[:n]
	}
	routes := make([]Optional[Route], len(demands))
	workers = workerCount(workers, len(demands))

	g := errgroup.Group{}
	for w := 0; w < workers; w++ {
		start, end := partition(len(demands), workers, w)
		g.Go(func() error {
			solver := finder.CreateSolver()
			for i := start; i < end; i++ {
				route, ok, err := routeDemand(net, index, solver, demands[i], model)
				if err != nil {
					return err
				}
				if ok {
					routes[i] = Some(route)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return routes, nil
}

//*******************************************
// partitioning
//*******************************************

func workerCount(workers, demands int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > demands {
		workers = demands
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// partition returns the bounds of the w-th of count contiguous chunks.
func partition(n, count, w int) (int, int) {
	size := n / count
	rest := n % count
	start := w*size + min(w, rest)
	end := start + size
	if w < rest {
		end += 1
	}
	return start, end
}
