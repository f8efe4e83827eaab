package network

import (
	"fmt"
	"strconv"

	"github.com/ttpr0/go-cycleflow/geo"
	. "github.com/ttpr0/go-cycleflow/util"
)

//*******************************************
// elevation table
//*******************************************

// ElevationTable holds heights sampled at exact positions, usually the
// intersections of a network.
type ElevationTable map[geo.Position]float64

func (t ElevationTable) Height(pos geo.Position) (float64, bool) {
	h, ok := t[pos]
	return h, ok
}

type elevationRow struct {
	Lon    float64 `csv:"lon"`
	Lat    float64 `csv:"lat"`
	Height string  `csv:"height"`
}

// ReadElevationCSV reads a lon,lat,height table. Rows without a height are
// skipped, as are positions outside a raster.
func ReadElevationCSV(path string) (ElevationTable, error) {
	table := make(ElevationTable)
	for row, err := range ReadCSVFromFile[elevationRow](path, ',') {
		if err != nil {
			return nil, fmt.Errorf("read elevation from %s: %w", path, err)
		}
		if row.Height == "" {
			continue
		}
		height, err := strconv.ParseFloat(row.Height, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid height %q", path, row.Height)
		}
		table[geo.FromDegrees(row.Lon, row.Lat)] = height
	}
	return table, nil
}
