package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal returns the two-tailed z-value for a confidence level given in
// percent.
func ZVal(confidence float64) float64 {
	unit := distuv.UnitNormal
	return unit.Quantile((1 + confidence/100) / 2)
}
