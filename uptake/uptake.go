package uptake

import (
	"math"
)

//*******************************************
// uptake models
//*******************************************

// IUptake estimates the share of a trip that would be cycled given the
// route length in meters and its mean gradient in percent. Results lie in
// [0, 1].
type IUptake interface {
	Calculate(distanceMeters, gradientPercent float64) float64
}

// Identity keeps the full demand weight.
type Identity struct{}

func (Identity) Calculate(distanceMeters, gradientPercent float64) float64 {
	return 1
}

// CutoffMaxDistanceMeters keeps trips up to a maximum length and drops
// longer ones.
type CutoffMaxDistanceMeters struct {
	Meters float64 `yaml:"meters" json:"meters"`
}

func (c CutoffMaxDistanceMeters) Calculate(distanceMeters, gradientPercent float64) float64 {
	if distanceMeters <= c.Meters {
		return 1
	}
	return 0
}

// GovTargetPCT is the government target scenario of the Propensity to Cycle
// Tool.
type GovTargetPCT struct{}

func (GovTargetPCT) Calculate(distanceMeters, gradientPercent float64) float64 {
	return pctGovTarget(distanceMeters, gradientPercent)
}

// GoDutchPCT is the Go Dutch scenario of the Propensity to Cycle Tool.
type GoDutchPCT struct{}

func (GoDutchPCT) Calculate(distanceMeters, gradientPercent float64) float64 {
	return pctGoDutch(distanceMeters, gradientPercent)
}

// PCT logit models take the distance in km and are not fitted above 30km.
const pctMaxKm = 30.0

func pctGovTargetLogit(km, gradient float64) float64 {
	return -3.959 + -0.5963*km + 1.866*math.Sqrt(km) + 0.008050*km*km +
		-0.2710*gradient + 0.009394*km*gradient + -0.05135*math.Sqrt(km)*gradient
}

func pctGovTarget(distanceMeters, gradient float64) float64 {
	km := distanceMeters / 1000
	if km > pctMaxKm {
		return 0
	}
	return inverseLogit(pctGovTargetLogit(km, gradient))
}

func pctGoDutch(distanceMeters, gradient float64) float64 {
	km := distanceMeters / 1000
	if km > pctMaxKm {
		return 0
	}
	return inverseLogit(pctGovTargetLogit(km, gradient) + 2.550 + -0.08036*km)
}

func inverseLogit(x float64) float64 {
	return math.Exp(x) / (1 + math.Exp(x))
}
