package cost

import (
	"math"
	"strings"

	"github.com/ttpr0/go-cycleflow/attr"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// directional edge cost
//*******************************************

// EdgeCost computes the forward and backward routing cost of an edge. A
// direction that cannot be traversed is None. Without slope factors the base
// cost is used unscaled.
func EdgeCost(fn IFunction, tags attr.Tags, lts attr.LTS, length float64, slopeFactor Optional[[2]float64]) (Optional[int32], Optional[int32]) {
	if lts == attr.NOT_ALLOWED {
		return None[int32](), None[int32]()
	}
	base, ok := fn.BaseCost(tags, lts, length)
	if !ok {
		return None[int32](), None[int32]()
	}

	fwdFactor, bwdFactor := 1.0, 1.0
	if factors, ok := slopeFactor.Get(); ok {
		fwdFactor, bwdFactor = factors[0], factors[1]
	}
	forward := Some(toCost(base * fwdFactor))
	backward := Some(toCost(base * bwdFactor))

	fwdAllowed, bwdAllowed := onewayDirections(tags)
	if !fwdAllowed {
		forward = None[int32]()
	}
	if !bwdAllowed {
		backward = None[int32]()
	}
	return forward, backward
}

func toCost(value float64) int32 {
	c := math.Round(value)
	if c > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(c)
}

// onewayDirections reports which directions a cyclist may use. Contraflow
// cycling is allowed by oneway:bicycle=no or an opposite cycleway.
func onewayDirections(tags attr.Tags) (bool, bool) {
	if tags.Is("oneway:bicycle", "no") || strings.HasPrefix(tags.Get("cycleway"), "opposite") {
		return true, true
	}
	switch {
	case tags.IsAny("oneway", "yes", "true", "1"), tags.Is("junction", "roundabout") && !tags.Is("oneway", "no"):
		return true, false
	case tags.Is("oneway", "-1"):
		return false, true
	}
	return true, true
}
