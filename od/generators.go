package od

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-cycleflow/geo"
	. "github.com/ttpr0/go-cycleflow/util"
	"golang.org/x/exp/slog"
)

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

//*******************************************
// csv
//*******************************************

type csvDemand struct {
	OriginLon      float64 `csv:"origin_lon"`
	OriginLat      float64 `csv:"origin_lat"`
	DestinationLon float64 `csv:"destination_lon"`
	DestinationLat float64 `csv:"destination_lat"`
	Weight         string  `csv:"weight,optional"`
}

// FromCSV reads demands with the columns origin_lon, origin_lat,
// destination_lon, destination_lat and an optional weight defaulting to 1.
// A missing coordinate column or an unreadable row fails the whole file.
type FromCSV struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
}

func (g FromCSV) Generate(dir string, seed int64) ([]Demand, error) {
	delimiter := ','
	if g.Delimiter != "" {
		delimiter = []rune(g.Delimiter)[0]
	}
	path := resolve(dir, g.Path)
	demands := make([]Demand, 0, 1024)
	for row, err := range ReadCSVFromFile[csvDemand](path, delimiter) {
		if err != nil {
			return nil, fmt.Errorf("read demands from %s: %w", path, err)
		}
		weight := 1.0
		if row.Weight != "" {
			weight, err = strconv.ParseFloat(row.Weight, 64)
			if err != nil {
				return nil, fmt.Errorf("demand %d in %s: invalid weight %q", len(demands), path, row.Weight)
			}
		}
		if err := validateWeight(len(demands), weight); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		demands = append(demands, Demand{
			Origin:      geo.FromDegrees(row.OriginLon, row.OriginLat),
			Destination: geo.FromDegrees(row.DestinationLon, row.DestinationLat),
			Weight:      weight,
		})
	}
	slog.Debug("read demands", "path", path, "count", len(demands))
	return demands, nil
}

//*******************************************
// geojson
//*******************************************

func readFeatures(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func featureWeight(f *geojson.Feature) float64 {
	return f.Properties.MustFloat64("weight", 1)
}

// FromGeoJSON reads LineString features; the first vertex is the origin and
// the last the destination. An optional weight property defaults to 1.
type FromGeoJSON struct {
	Path string `yaml:"path"`
}

func (g FromGeoJSON) Generate(dir string, seed int64) ([]Demand, error) {
	path := resolve(dir, g.Path)
	fc, err := readFeatures(path)
	if err != nil {
		return nil, err
	}
	demands := make([]Demand, 0, len(fc.Features))
	for i, f := range fc.Features {
		line, ok := f.Geometry.(orb.LineString)
		if !ok || len(line) < 2 {
			return nil, fmt.Errorf("%s: feature %d is not a LineString with two points", path, i)
		}
		weight := featureWeight(f)
		if err := validateWeight(i, weight); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		demands = append(demands, Demand{
			Origin:      geo.FromPoint(line[0]),
			Destination: geo.FromPoint(line[len(line)-1]),
			Weight:      weight,
		})
	}
	return demands, nil
}

func readPoints(path string) ([]geo.Position, error) {
	fc, err := readFeatures(path)
	if err != nil {
		return nil, err
	}
	points := make([]geo.Position, 0, len(fc.Features))
	for i, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("%s: feature %d is not a Point", path, i)
		}
		points = append(points, geo.FromPoint(p))
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s contains no points", path)
	}
	return points, nil
}

//*******************************************
// sampled
//*******************************************

// BetweenPoints samples Count random pairs of an origin and a destination
// point.
type BetweenPoints struct {
	Origins      string `yaml:"origins"`
	Destinations string `yaml:"destinations"`
	Count        int    `yaml:"count"`
}

func (g BetweenPoints) Generate(dir string, seed int64) ([]Demand, error) {
	origins, err := readPoints(resolve(dir, g.Origins))
	if err != nil {
		return nil, err
	}
	destinations, err := readPoints(resolve(dir, g.Destinations))
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	demands := make([]Demand, g.Count)
	for i := range demands {
		demands[i] = Demand{
			Origin:      origins[rng.Intn(len(origins))],
			Destination: destinations[rng.Intn(len(destinations))],
			Weight:      1,
		}
	}
	return demands, nil
}

// FromEveryOriginToOneDestination creates one trip per origin point to a
// fixed destination.
type FromEveryOriginToOneDestination struct {
	Origins     string     `yaml:"origins"`
	Destination [2]float64 `yaml:"destination"`
}

func (g FromEveryOriginToOneDestination) Generate(dir string, seed int64) ([]Demand, error) {
	origins, err := readPoints(resolve(dir, g.Origins))
	if err != nil {
		return nil, err
	}
	destination := geo.FromDegrees(g.Destination[0], g.Destination[1])
	demands := make([]Demand, len(origins))
	for i, origin := range origins {
		demands[i] = Demand{
			Origin:      origin,
			Destination: destination,
			Weight:      1,
		}
	}
	return demands, nil
}
