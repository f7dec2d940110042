package estimation

import "fmt"

// IntensityVolumeMatrix holds, for each intensity fraction (rows) and rep count
// (columns), how far the estimate for lifting e1RM×fraction for that many reps
// at requiredRPE lands from the current e1RM, rounded to plates. Positive cells
// are prescriptions that would raise the e1RM.
func IntensityVolumeMatrix(fractions, reps []float64, e1RM, requiredRPE, bodyweight float64) ([][]float64, error) {
	matrix := make([][]float64, len(fractions))
	for i, fraction := range fractions {
		matrix[i] = make([]float64, len(reps))
		for j, r := range reps {
			estimate, err := EstimateOneRM(Observation{
				Weight:     e1RM * fraction,
				Bodyweight: bodyweight,
				Reps:       r,
				RPE:        RPE(requiredRPE),
			})
			if err != nil {
				return nil, fmt.Errorf("fraction %v at %v reps: %w", fraction, r, err)
			}
			matrix[i][j] = RoundToAvailablePlates(estimate - e1RM)
		}
	}
	return matrix, nil
}
