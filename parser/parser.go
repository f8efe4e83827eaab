package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/ttpr0/go-cycleflow/attr"
	"github.com/ttpr0/go-cycleflow/geo"
	"github.com/ttpr0/go-cycleflow/network"
	"golang.org/x/exp/slog"
)

// ParseOSM reads the ways accepted by decoder from a pbf extract and splits
// them into edges between intersections.
func ParseOSM(pbf_file string, decoder IOSMDecoder) (network.RawGraph, error) {
	file, err := os.Open(pbf_file)
	if err != nil {
		return network.RawGraph{}, err
	}
	defer file.Close()

	osm_nodes := make(map[int64]TempNode, 10000)
	ways, err := _WayHandler(file, decoder, osm_nodes)
	if err != nil {
		return network.RawGraph{}, fmt.Errorf("read ways of %s: %w", pbf_file, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return network.RawGraph{}, err
	}
	if err := _NodeHandler(file, osm_nodes); err != nil {
		return network.RawGraph{}, fmt.Errorf("read nodes of %s: %w", pbf_file, err)
	}
	graph := SplitWays(ways, osm_nodes)
	slog.Info(fmt.Sprintf("edges: %v, nodes: %v", len(graph.Edges), len(graph.Nodes)))
	return graph, nil
}

// SplitWays cuts every way at nodes shared with other ways. Ways referencing
// nodes missing from the extract are dropped.
func SplitWays(ways []OSMWay, osm_nodes map[int64]TempNode) network.RawGraph {
	graph := network.RawGraph{
		Edges: make([]network.RawEdge, 0, len(ways)*2),
		Nodes: make(map[network.NodeID]geo.Position, len(osm_nodes)/4),
	}
	dropped := 0
	for _, way := range ways {
		if !_HasAllNodes(way, osm_nodes) {
			dropped += 1
			continue
		}
		start := way.Nodes[0]
		geometry := []geo.Position{osm_nodes[start].Point}
		for _, curr := range way.Nodes[1:] {
			on := osm_nodes[curr]
			geometry = append(geometry, on.Point)
			if on.Count <= 1 || curr == start {
				continue
			}
			graph.Edges = append(graph.Edges, network.RawEdge{
				WayID:    way.ID,
				Tags:     way.Tags,
				NodeA:    network.NodeID(start),
				NodeB:    network.NodeID(curr),
				Geometry: geometry,
			})
			graph.Nodes[network.NodeID(start)] = osm_nodes[start].Point
			graph.Nodes[network.NodeID(curr)] = on.Point
			start = curr
			geometry = []geo.Position{on.Point}
		}
	}
	if dropped > 0 {
		slog.Warn(fmt.Sprintf("dropped %v ways with nodes outside the extract", dropped))
	}
	return graph
}

func _HasAllNodes(way OSMWay, osm_nodes map[int64]TempNode) bool {
	if len(way.Nodes) < 2 {
		return false
	}
	for _, id := range way.Nodes {
		if !osm_nodes[id].Found {
			return false
		}
	}
	return true
}

// CountNodes registers the way's nodes. Way ends count twice.
func CountNodes(way OSMWay, osm_nodes map[int64]TempNode) {
	l := len(way.Nodes)
	for i, ref := range way.Nodes {
		node := osm_nodes[ref]
		node.Count += 1
		if i == 0 || i == l-1 {
			node.Count += 1
		}
		osm_nodes[ref] = node
	}
}

//*******************************************
// osm handler methods
//*******************************************

func _WayHandler(file io.Reader, decoder IOSMDecoder, osm_nodes map[int64]TempNode) ([]OSMWay, error) {
	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	ways := make([]OSMWay, 0, 10000)
	for scanner.Scan() {
		object, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		tags := attr.Tags(object.TagMap())
		if !decoder.IsValidHighway(tags) {
			continue
		}
		ids := object.Nodes.NodeIDs()
		if len(ids) < 2 {
			continue
		}
		way := OSMWay{
			ID:    int64(object.ID),
			Tags:  tags,
			Nodes: make([]int64, len(ids)),
		}
		for i, id := range ids {
			way.Nodes[i] = int64(id)
		}
		CountNodes(way, osm_nodes)
		ways = append(ways, way)
		if len(ways)%100000 == 0 {
			slog.Debug(fmt.Sprintf("%v ways", len(ways)))
		}
	}
	return ways, scanner.Err()
}

func _NodeHandler(file io.Reader, osm_nodes map[int64]TempNode) error {
	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		object, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		id := int64(object.ID)
		on, ok := osm_nodes[id]
		if !ok {
			continue
		}
		on.Point = geo.FromDegrees(object.Lon, object.Lat)
		on.Found = true
		osm_nodes[id] = on
	}
	return scanner.Err()
}
