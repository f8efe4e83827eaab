package parser

import (
	"github.com/ttpr0/go-cycleflow/attr"
	"github.com/ttpr0/go-cycleflow/geo"
)

//*******************************************
// parser structs
//*******************************************

// TempNode is a node referenced by a valid way. Count is the number of way
// references, with way ends counted twice so they always become
// intersections.
type TempNode struct {
	Point geo.Position
	Count int32
	Found bool
}

type OSMWay struct {
	ID    int64
	Tags  attr.Tags
	Nodes []int64
}
