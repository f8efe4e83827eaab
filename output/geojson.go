package output

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-cycleflow/geo"
	"github.com/ttpr0/go-cycleflow/network"
	"github.com/ttpr0/go-cycleflow/router"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// network output
//*******************************************

// GeoJSONOptions selects the optional parts of the network output.
type GeoJSONOptions struct {
	ODPoints bool
	OSMTags  bool
	Metadata any
}

// WriteGeoJSON writes every edge with flow as a LineString feature, and
// optionally the origin and destination points with their counts. The run
// metadata is stored as a foreign member of the collection.
func WriteGeoJSON(w io.Writer, net *network.Network, counts *network.Counts, opts GeoJSONOptions) error {
	fc := geojson.NewFeatureCollection()
	for _, key := range net.SortedKeys() {
		count := counts.CountPerEdge[key]
		if count == 0 {
			continue
		}
		fc.Append(edgeFeature(key, net.Edges[key], count, opts.OSMTags))
	}
	if opts.ODPoints {
		for _, pos := range sortedPositions(counts.CountPerOrigin) {
			fc.Append(pointFeature(pos, "origin", counts.CountPerOrigin[pos]))
		}
		for _, pos := range sortedPositions(counts.CountPerDestination) {
			fc.Append(pointFeature(pos, "destination", counts.CountPerDestination[pos]))
		}
	}
	if opts.Metadata != nil {
		fc.ExtraMembers = geojson.Properties{"metadata": opts.Metadata}
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteGeoJSONFile writes the network output to path.
func WriteGeoJSONFile(path string, net *network.Network, counts *network.Counts, opts GeoJSONOptions) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(file)
	if err := WriteGeoJSON(buf, net, counts, opts); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

func edgeFeature(key network.EdgeKey, edge *network.Edge, count float64, withTags bool) *geojson.Feature {
	f := geojson.NewFeature(geo.ToDisplayLineString(edge.Geometry))
	f.Properties["way"] = edge.WayID
	f.Properties["node1"] = int64(key.From)
	f.Properties["node2"] = int64(key.To)
	f.Properties["count"] = count
	f.Properties["length"] = edge.LengthMeters
	f.Properties["lts"] = uint8(edge.LTS)
	setOptional(f.Properties, "slope", edge.Slope)
	setOptional(f.Properties, "forward_cost", edge.ForwardCost)
	setOptional(f.Properties, "backward_cost", edge.BackwardCost)
	if withTags {
		f.Properties["osm_tags"] = map[string]string(edge.Tags)
	}
	return f
}

func setOptional[T any](props geojson.Properties, name string, value Optional[T]) {
	if v, ok := value.Get(); ok {
		props[name] = v
	}
}

func pointFeature(pos geo.Position, kind string, count float64) *geojson.Feature {
	f := geojson.NewFeature(pos.ToDisplayPoint())
	f.Properties[kind+"_count"] = count
	return f
}

func sortedPositions(m map[geo.Position]float64) []geo.Position {
	keys := make([]geo.Position, 0, len(m))
	for pos := range m {
		keys = append(keys, pos)
	}
	slices.SortFunc(keys, func(a, b geo.Position) int {
		if c := cmp.Compare(a.Lon, b.Lon); c != 0 {
			return c
		}
		return cmp.Compare(a.Lat, b.Lat)
	})
	return keys
}

//*******************************************
// detailed routes
//*******************************************

// WriteDetailedRoutes writes route_<i>.geojson for every routed slot, with
// one feature per traversed edge and the route summary as foreign members.
func WriteDetailedRoutes(dir string, net *network.Network, routes []Optional[router.Route]) (int, error) {
	written := 0
	for i, slot := range routes {
		route, ok := slot.Get()
		if !ok {
			continue
		}
		fc := geojson.NewFeatureCollection()
		for _, key := range route.Path.Edges {
			fc.Append(edgeFeature(key, net.Edges[key], route.Weight, true))
		}
		fc.ExtraMembers = geojson.Properties{
			"origin":        pointCoordinates(route.Origin),
			"destination":   pointCoordinates(route.Destination),
			"cost":          route.Path.Cost,
			"length_meters": route.LengthMeters,
			"gradient":      route.Gradient,
			"uptake":        route.Uptake,
		}
		data, err := fc.MarshalJSON()
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, fmt.Sprintf("route_%d.geojson", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, err
		}
		written += 1
	}
	return written, nil
}

func pointCoordinates(pos geo.Position) orb.Point {
	return pos.ToDisplayPoint()
}
