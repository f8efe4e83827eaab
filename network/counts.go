package network

import (
	"math"

	"github.com/ttpr0/go-cycleflow/attr"
	"github.com/ttpr0/go-cycleflow/geo"
)

//*******************************************
// counts
//*******************************************

// Counts accumulates routed volume. The values are summed uptake rather than
// trip counts; with an uptake of 1 for every demand they coincide.
type Counts struct {
	CountPerEdge        map[EdgeKey]float64
	CountPerOrigin      map[geo.Position]float64
	CountPerDestination map[geo.Position]float64
	// Meters routed, indexed by LTS.
	TotalDistanceByLTS [attr.NumLTS]float64
	Errors             uint64
}

func NewCounts() *Counts {
	return &Counts{
		CountPerEdge:        make(map[EdgeKey]float64),
		CountPerOrigin:      make(map[geo.Position]float64),
		CountPerDestination: make(map[geo.Position]float64),
	}
}

// Combine adds other into c. It is associative and commutative with
// NewCounts as identity, up to floating point summation order.
func (c *Counts) Combine(other *Counts) {
	c.Errors += other.Errors
	for key, count := range other.CountPerEdge {
		c.CountPerEdge[key] += count
	}
	for key, count := range other.CountPerOrigin {
		c.CountPerOrigin[key] += count
	}
	for key, count := range other.CountPerDestination {
		c.CountPerDestination[key] += count
	}
	for i := range c.TotalDistanceByLTS {
		c.TotalDistanceByLTS[i] += other.TotalDistanceByLTS[i]
	}
}

// AddRoute records one routed demand.
func (c *Counts) AddRoute(origin, destination geo.Position, edges []EdgeKey, weight float64) {
	for _, key := range edges {
		c.CountPerEdge[key] += weight
	}
	c.CountPerOrigin[origin] += weight
	c.CountPerDestination[destination] += weight
}

// Equal compares two counts, allowing a relative difference of tol between
// floating point sums. A missing key equals zero.
func (c *Counts) Equal(other *Counts, tol float64) bool {
	if c.Errors != other.Errors {
		return false
	}
	if !mapsClose(c.CountPerEdge, other.CountPerEdge, tol) {
		return false
	}
	if !mapsClose(c.CountPerOrigin, other.CountPerOrigin, tol) {
		return false
	}
	if !mapsClose(c.CountPerDestination, other.CountPerDestination, tol) {
		return false
	}
	for i := range c.TotalDistanceByLTS {
		if !floatClose(c.TotalDistanceByLTS[i], other.TotalDistanceByLTS[i], tol) {
			return false
		}
	}
	return true
}

func mapsClose[K comparable](a, b map[K]float64, tol float64) bool {
	for key, va := range a {
		if !floatClose(va, b[key], tol) {
			return false
		}
	}
	for key, vb := range b {
		if _, ok := a[key]; !ok && !floatClose(0, vb, tol) {
			return false
		}
	}
	return true
}

func floatClose(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}
