package cost

//*******************************************
// slope factor
//*******************************************

// CalculateSlopeFactor returns the multiplier applied to the cost of
// traversing an edge of the given length (meters) at the given slope
// (percent, positive is uphill).
//
// Based on https://github.com/U-Shift/Declives-RedeViaria/blob/main/SpeedSlopeFactor/SpeedSlopeFactor.md,
// used as a cost multiplier instead of a speed divisor.
func CalculateSlopeFactor(slope, length float64) float64 {
	var g float64
	switch {
	case 13 >= slope && slope > 10 && length > 15:
		g = 4
	case slope < 8 && slope <= 10 && length > 30:
		g = 4.5
	case slope < 5 && slope <= 8 && length > 60:
		g = 5
	case slope < 3 && slope <= 5 && length > 120:
		g = 6
	default:
		g = 7
	}

	switch {
	case slope < -30:
		return 1.5
	case slope < 0:
		return 1 + 2*0.7*slope/13 + 0.7*slope*slope/13/13
	case slope <= 20:
		return 1 + slope*slope/g/g
	}
	return 10
}

// SlopeFactors evaluates the factor for both traversal directions. The
// backward direction climbs -slope.
func SlopeFactors(slope, length float64) (float64, float64) {
	return CalculateSlopeFactor(slope, length), CalculateSlopeFactor(-slope, length)
}

// Slope is the grade in percent between the first and last vertex heights.
func Slope(startHeight, endHeight, length float64) float64 {
	return (endHeight - startHeight) / length * 100
}
