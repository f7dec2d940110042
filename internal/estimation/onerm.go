package estimation

import (
	"errors"
	"fmt"
	"math"

	"github.com/2beens/gymsheets/internal/numeric"
)

var ErrInvalidInput = errors.New("invalid input")

// brzyckiPole is the adjusted rep count at which the Brzycki curve diverges.
const brzyckiPole = 37

// Observation is one logged set: the external load, the lifter's bodyweight,
// the completed reps and optionally the rated perceived exertion.
type Observation struct {
	Weight     float64  `json:"weight"`
	Bodyweight float64  `json:"bodyweight"`
	Reps       float64  `json:"reps"`
	RPE        *float64 `json:"rpe,omitempty"`
}

// RPE is a helper for setting the optional Observation.RPE.
func RPE(v float64) *float64 {
	return &v
}

func (o Observation) validate() error {
	if o.Weight < 0 {
		return fmt.Errorf("weight %v is negative: %w", o.Weight, ErrInvalidInput)
	}
	if o.Bodyweight < 0 {
		return fmt.Errorf("bodyweight %v is negative: %w", o.Bodyweight, ErrInvalidInput)
	}
	if o.Reps < 0 {
		return fmt.Errorf("reps %v is negative: %w", o.Reps, ErrInvalidInput)
	}
	if o.RPE != nil && (*o.RPE < 0 || *o.RPE > 10) {
		return fmt.Errorf("rpe %v outside [0, 10]: %w", *o.RPE, ErrInvalidInput)
	}
	if o.adjustedReps() >= brzyckiPole {
		return fmt.Errorf("adjusted reps %v out of range: %w", o.adjustedReps(), ErrInvalidInput)
	}
	return nil
}

// adjustedReps adds the reps left in reserve; a missing RPE means the set went to failure.
func (o Observation) adjustedReps() float64 {
	if o.RPE == nil {
		return o.Reps
	}
	return o.Reps + 10 - *o.RPE
}

// estimates returns the Epley, Brzycki and Berger estimates. Each model works
// on the total load moved, and the bodyweight is taken back out at the end.
func (o Observation) estimates() [3]float64 {
	load := o.Weight + o.Bodyweight
	reps := o.adjustedReps()
	return [3]float64{
		load*(1+reps/30) - o.Bodyweight,
		load*36/(37-reps) - o.Bodyweight,
		load*(1/(1.0261*math.Exp(-0.0262*reps))) - o.Bodyweight,
	}
}

// EstimateOneRM estimates the one-rep max from a single set.
func EstimateOneRM(o Observation) (float64, error) {
	return EstimateOneRMMultipoint([]Observation{o})
}

// EstimateOneRMMultipoint averages every model over every observation, that is
// 3×N values, rather than averaging per-observation estimates.
func EstimateOneRMMultipoint(observations []Observation) (float64, error) {
	if len(observations) == 0 {
		return 0, fmt.Errorf("no observations: %w", ErrInvalidInput)
	}

	values := make([]float64, 0, 3*len(observations))
	for i, o := range observations {
		if err := o.validate(); err != nil {
			return 0, fmt.Errorf("observation %d: %w", i, err)
		}
		e := o.estimates()
		values = append(values, e[:]...)
	}

	return numeric.Average(values), nil
}

// ObservationsFromColumns joins weight, bodyweight, reps and (optional) rpe
// columns side by side and reads one observation per row. A NaN rpe is
// treated as not logged.
func ObservationsFromColumns(columns ...[][]float64) ([]Observation, error) {
	m, err := numeric.ConcatHorizontally(columns...)
	if err != nil {
		return nil, fmt.Errorf("join columns: %w", err)
	}

	observations := make([]Observation, 0, len(m))
	for i, row := range m {
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d has %d columns, need at least 3: %w", i, len(row), ErrInvalidInput)
		}
		o := Observation{
			Weight:     row[0],
			Bodyweight: row[1],
			Reps:       row[2],
		}
		if len(row) > 3 && !math.IsNaN(row[3]) {
			o.RPE = RPE(row[3])
		}
		observations = append(observations, o)
	}

	return observations, nil
}
