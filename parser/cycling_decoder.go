package parser

import (
	"github.com/ttpr0/go-cycleflow/attr"
)

type IOSMDecoder interface {
	IsValidHighway(tags attr.Tags) bool
}

// CyclingDecoder keeps every way that could carry bikes. Ways where cycling
// is forbidden are kept as well so the network shows them; the traffic
// stress rule marks them as not allowed.
type CyclingDecoder struct {
}

var excluded_types = map[string]bool{"proposed": true, "construction": true, "abandoned": true,
	"razed": true, "platform": true, "elevator": true, "corridor": true, "bus_stop": true, "rest_area": true, "services": true}

func (d *CyclingDecoder) IsValidHighway(tags attr.Tags) bool {
	highway, ok := tags["highway"]
	if !ok {
		return false
	}
	if excluded_types[highway] {
		return false
	}
	if tags.Is("area", "yes") {
		return false
	}
	return true
}
