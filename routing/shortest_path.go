package routing

import (
	"github.com/ttpr0/go-cycleflow/network"
)

// Path is a route through the network as the sequence of network edges it
// traverses.
type Path struct {
	Cost  int64
	Edges []network.EdgeKey
}

type IShortestPath interface {
	// CreateSolver returns a solver with its own search state. Solvers are
	// not safe for concurrent use; create one per goroutine.
	CreateSolver() ISolver
}

type ISolver interface {
	// FindPath returns the cheapest path between two network nodes, or false
	// if either node is unknown or no path exists.
	FindPath(from, to network.NodeID) (Path, bool)
}
