package cost

import (
	"fmt"

	"github.com/ttpr0/go-cycleflow/attr"
)

//*******************************************
// base cost functions
//*******************************************

// IFunction gives the unscaled cost of traversing a way. The second return
// is false when the way is impassable under this function.
type IFunction interface {
	BaseCost(tags attr.Tags, lts attr.LTS, length float64) (float64, bool)
}

// Distance uses the length in meters.
type Distance struct{}

func (Distance) BaseCost(tags attr.Tags, lts attr.LTS, length float64) (float64, bool) {
	return length, true
}

// AvoidMainRoads penalizes busier road classes.
type AvoidMainRoads struct{}

func (AvoidMainRoads) BaseCost(tags attr.Tags, lts attr.LTS, length float64) (float64, bool) {
	var penalty float64
	switch tags.RoadType() {
	case attr.TRUNK, attr.TRUNK_LINK, attr.PRIMARY, attr.PRIMARY_LINK:
		penalty = 5
	case attr.SECONDARY, attr.SECONDARY_LINK:
		penalty = 3
	case attr.TERTIARY, attr.TERTIARY_LINK:
		penalty = 2
	default:
		penalty = 1
	}
	return length * penalty, true
}

// ByLTS multiplies the length by a weight per stress level.
type ByLTS struct {
	LTS1 float64 `yaml:"lts1" json:"lts1"`
	LTS2 float64 `yaml:"lts2" json:"lts2"`
	LTS3 float64 `yaml:"lts3" json:"lts3"`
	LTS4 float64 `yaml:"lts4" json:"lts4"`
}

func (f ByLTS) BaseCost(tags attr.Tags, lts attr.LTS, length float64) (float64, bool) {
	switch lts {
	case attr.LTS1:
		return length * f.LTS1, true
	case attr.LTS2:
		return length * f.LTS2, true
	case attr.LTS3:
		return length * f.LTS3, true
	case attr.LTS4:
		return length * f.LTS4, true
	}
	return 0, false
}

func (f ByLTS) Validate() error {
	for i, w := range [4]float64{f.LTS1, f.LTS2, f.LTS3, f.LTS4} {
		if w <= 0 {
			return fmt.Errorf("weight for lts%d must be positive, got %v", i+1, w)
		}
	}
	return nil
}

// OsmHighwayType multiplies the length by a weight per highway tag. Highway
// types missing from the map are impassable.
type OsmHighwayType struct {
	Weights map[string]float64 `yaml:"weights" json:"weights"`
}

func (f OsmHighwayType) BaseCost(tags attr.Tags, lts attr.LTS, length float64) (float64, bool) {
	w, ok := f.Weights[tags.Get("highway")]
	if !ok {
		return 0, false
	}
	return length * w, true
}
