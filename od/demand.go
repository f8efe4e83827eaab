package od

import (
	"fmt"

	"github.com/ttpr0/go-cycleflow/geo"
)

//*******************************************
// demand
//*******************************************

// Demand is one origin-destination trip. Weight is the expected share of
// the trip made by bike, in [0, 1].
type Demand struct {
	Origin      geo.Position
	Destination geo.Position
	Weight      float64
}

// IGenerator produces the demand batch of a run. Relative input paths are
// resolved against dir; seed only affects generators that sample.
type IGenerator interface {
	Generate(dir string, seed int64) ([]Demand, error)
}

func validateWeight(i int, weight float64) error {
	if weight < 0 || weight > 1 {
		return fmt.Errorf("demand %d has weight %v outside [0, 1]", i, weight)
	}
	return nil
}
