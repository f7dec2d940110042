package estimation

import "math"

// Plates are the available load increments, largest first. The last one is
// also the rounding granularity.
var Plates = []float64{20, 10, 5, 2.5, 1.25}

// RoundToAvailablePlates greedily decomposes weight over Plates and returns
// whichever of the resulting floor and floor+smallest plate lies closer.
// A tie goes to the floor.
func RoundToAvailablePlates(weight float64) float64 {
	remainder := weight
	var floor float64
	for _, plate := range Plates {
		n := math.Floor(remainder / plate)
		floor += n * plate
		remainder -= n * plate
	}

	ceil := floor + Plates[len(Plates)-1]
	if math.Abs(weight-floor) <= math.Abs(weight-ceil) {
		return floor
	}
	return ceil
}

// PlateWeights is the plate-rounded working weight for each fraction of e1RM.
func PlateWeights(fractions []float64, e1RM float64) []float64 {
	weights := make([]float64, len(fractions))
	for i, f := range fractions {
		weights[i] = RoundToAvailablePlates(e1RM * f)
	}
	return weights
}
