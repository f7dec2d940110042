package dashboards

import (
	"context"
	"fmt"
	"math"

	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/pipeline"
	"github.com/2beens/gymsheets/internal/tabular"
)

const (
	// sets, reps, target RPE
	timedStrengthParamWidth = 3
	// intensity, RPE, TEC
	timedStrengthStride = 3
	// average RPE and average TEC trail every data block
	timedStrengthTrailer = 2
	movingAverageWindow  = 3
)

type TimedStrengthArgs struct {
	// Previous1RM is the reference max for relative intensity. When
	// Previous1RMRef is set, the value is read from that cell on every run.
	Previous1RM    float64
	Previous1RMRef *tabular.Region
	// MinSetsPerMicrocycle is the set count the sheet reserves per block, by
	// microcycle. Blocks are read at least this wide.
	MinSetsPerMicrocycle []int
	StartSequenceNumber  int
}

type TimedStrengthEntry struct {
	Sets      int
	Reps      float64
	TargetRPE float64
	Intensity []float64
	RPE       []float64
	TEC       []float64
}

type TimedStrengthEntryMetrics struct {
	RPEStability      []float64
	TotalVolume       float64
	RelativeIntensity []float64
	AvgTEC            float64
}

type TimedStrengthMetrics struct {
	Entries                    []TimedStrengthEntryMetrics
	MovingAvgRelativeIntensity []float64
	MovingAvgTEC               []float64
}

// TimedStrength is the strategy behind timed strength dashboards. Each entry
// is a parameter row (sets, reps, target RPE) followed by a block of
// (intensity, RPE, TEC) triplets and two trailing averages.
type TimedStrength struct {
	args TimedStrengthArgs
}

func NewTimedStrength(args TimedStrengthArgs) *TimedStrength {
	return &TimedStrength{
		args: args,
	}
}

// Prepare resolves Previous1RMRef. The strategy itself is never mutated.
func (s *TimedStrength) Prepare(ctx context.Context, r pipeline.Reader) (pipeline.Strategy[TimedStrengthEntry, TimedStrengthMetrics], error) {
	if s.args.Previous1RMRef == nil {
		return s, nil
	}

	t, err := r.Read(ctx, s.args.Previous1RMRef.Resize(1, 1))
	if err != nil {
		return nil, fmt.Errorf("read previous 1RM: %w", err)
	}
	prev := t.Scalar().Float()
	if math.IsNaN(prev) {
		return nil, fmt.Errorf("previous 1RM at %s is %q: %w", s.args.Previous1RMRef, t.Scalar().String(), pipeline.ErrMalformedEntry)
	}

	args := s.args
	args.Previous1RM = prev
	args.Previous1RMRef = nil
	return NewTimedStrength(args), nil
}

func (s *TimedStrength) minSets(microcycle int) int {
	if microcycle < len(s.args.MinSetsPerMicrocycle) {
		return s.args.MinSetsPerMicrocycle[microcycle]
	}
	return 0
}

func (s *TimedStrength) ParseEntry(
	ctx context.Context,
	r pipeline.Reader,
	cursor tabular.Region,
	microcycle int,
) (TimedStrengthEntry, tabular.Region, error) {
	paramsRegion := cursor.Resize(1, timedStrengthParamWidth)
	params, err := r.Read(ctx, paramsRegion, tabular.WithMinCols(timedStrengthParamWidth))
	if err != nil {
		return TimedStrengthEntry{}, cursor, err
	}
	row := params.Row(0)

	sets, err := parseSets(row[0], paramsRegion)
	if err != nil {
		return TimedStrengthEntry{}, cursor, err
	}

	width := max(sets, s.minSets(microcycle))*timedStrengthStride + timedStrengthTrailer
	data := paramsRegion.Move(0, timedStrengthParamWidth).Resize(1, width)
	next := data.Resize(1, timedStrengthParamWidth).Move(0, width)

	entry := TimedStrengthEntry{
		Sets:      sets,
		Reps:      row[1].Float(),
		TargetRPE: row[2].Float(),
		Intensity: make([]float64, 0, sets),
		RPE:       make([]float64, 0, sets),
		TEC:       make([]float64, 0, sets),
	}

	block, err := r.Read(ctx, data, tabular.WithMinCols(width))
	if err != nil {
		return TimedStrengthEntry{}, cursor, err
	}
	values := block.Row(0)
	for i := 0; i < sets*timedStrengthStride; i += timedStrengthStride {
		entry.Intensity = append(entry.Intensity, values[i].Float())
		entry.RPE = append(entry.RPE, values[i+1].Float())
		entry.TEC = append(entry.TEC, values[i+2].Float())
	}

	return entry, next, nil
}

func (s *TimedStrength) ComputeMetrics(entries []TimedStrengthEntry, _ int) (TimedStrengthMetrics, error) {
	metrics := TimedStrengthMetrics{
		Entries: make([]TimedStrengthEntryMetrics, len(entries)),
	}

	var allRelative, allTEC []float64
	for i, entry := range entries {
		em := TimedStrengthEntryMetrics{
			RPEStability:      make([]float64, len(entry.RPE)),
			TotalVolume:       float64(entry.Sets) * entry.Reps,
			RelativeIntensity: make([]float64, len(entry.Intensity)),
			AvgTEC:            numeric.Average(entry.TEC),
		}
		for j, rpe := range entry.RPE {
			em.RPEStability[j] = numeric.Round(rpe-entry.TargetRPE, numeric.DefaultPlaces)
		}
		for j, intensity := range entry.Intensity {
			em.RelativeIntensity[j] = numeric.Round(intensity/s.args.Previous1RM, numeric.DefaultPlaces)
		}
		metrics.Entries[i] = em

		allRelative = append(allRelative, em.RelativeIntensity...)
		allTEC = append(allTEC, entry.TEC...)
	}

	metrics.MovingAvgRelativeIntensity = numeric.MovingAverage(allRelative, movingAverageWindow)
	metrics.MovingAvgTEC = numeric.MovingAverage(allTEC, movingAverageWindow)
	return metrics, nil
}

// Transform emits one row per set:
// seq, sets, reps, volume, target RPE, TEC, moving avg TEC, RPE stability,
// relative intensity, moving avg relative intensity.
func (s *TimedStrength) Transform(entries []TimedStrengthEntry, metrics TimedStrengthMetrics) ([][]tabular.Cell, error) {
	var rows [][]tabular.Cell
	seq := 0
	for i, entry := range entries {
		em := metrics.Entries[i]
		for set := 0; set < entry.Sets; set++ {
			rows = append(rows, tabular.NumberRow(
				float64(s.args.StartSequenceNumber+seq),
				float64(entry.Sets),
				entry.Reps,
				em.TotalVolume,
				entry.TargetRPE,
				entry.TEC[set],
				metrics.MovingAvgTEC[seq],
				em.RPEStability[set],
				em.RelativeIntensity[set],
				metrics.MovingAvgRelativeIntensity[seq],
			))
			seq++
		}
	}
	return rows, nil
}

// parseSets reads a set count. Blank means no sets were logged.
func parseSets(c tabular.Cell, at tabular.Region) (int, error) {
	if c.IsBlank() {
		return 0, nil
	}
	sets, ok := c.Int()
	if !ok || sets < 0 {
		return 0, fmt.Errorf("set count %q at %s: %w", c.String(), at, pipeline.ErrMalformedEntry)
	}
	return sets, nil
}
