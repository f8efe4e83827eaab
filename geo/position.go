package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

//*******************************************
// position
//*******************************************

// Position is a point in decimicrodegrees (10^-7 degrees). It is used as the
// identity of nodes and of origin/destination points, so it must stay an
// integer type and never be built from floats except through FromDegrees.
type Position struct {
	Lon int32
	Lat int32
}

const scale = 1e7

func FromDegrees(lon, lat float64) Position {
	return Position{
		Lon: int32(math.Round(lon * scale)),
		Lat: int32(math.Round(lat * scale)),
	}
}

// ToDegrees returns the exact grid value; FromDegrees(p.ToDegrees()) == p.
func (p Position) ToDegrees() (float64, float64) {
	return float64(p.Lon) / scale, float64(p.Lat) / scale
}

// ToDisplayDegrees rounds to 6 decimals for output files.
func (p Position) ToDisplayDegrees() (float64, float64) {
	lon, lat := p.ToDegrees()
	return trim(lon), trim(lat)
}

func (p Position) ToPoint() orb.Point {
	lon, lat := p.ToDegrees()
	return orb.Point{lon, lat}
}

// ToDisplayPoint is ToPoint with display rounding.
func (p Position) ToDisplayPoint() orb.Point {
	lon, lat := p.ToDisplayDegrees()
	return orb.Point{lon, lat}
}

func (p Position) String() string {
	lon, lat := p.ToDegrees()
	return fmt.Sprintf("(%.7f, %.7f)", lon, lat)
}

func trim(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

//*******************************************
// geometry helpers
//*******************************************

func FromPoint(p orb.Point) Position {
	return FromDegrees(p.Lon(), p.Lat())
}

func ToLineString(geom []Position) orb.LineString {
	line := make(orb.LineString, len(geom))
	for i, p := range geom {
		line[i] = p.ToPoint()
	}
	return line
}

func ToDisplayLineString(geom []Position) orb.LineString {
	line := make(orb.LineString, len(geom))
	for i, p := range geom {
		line[i] = p.ToDisplayPoint()
	}
	return line
}

// Distance is the haversine distance in meters.
func Distance(a, b Position) float64 {
	return orbgeo.DistanceHaversine(a.ToPoint(), b.ToPoint())
}

// LineLength sums haversine distances between consecutive vertices.
func LineLength(geom []Position) float64 {
	length := 0.0
	for i := 1; i < len(geom); i++ {
		length += Distance(geom[i-1], geom[i])
	}
	return length
}
