package dashboards

import (
	"context"
	"fmt"

	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/pipeline"
	"github.com/2beens/gymsheets/internal/tabular"
)

const (
	// sets, reps, suggested intensity
	gripStrengthParamWidth = 3
	// left fingers, right fingers, TEC
	gripStrengthFields = 3
)

// Fingers are the grip categories reported in usage histograms: 10 is the
// whole palm, 0 is a dead hang without grip work.
var Fingers = []float64{10, 5, 4, 3, 2, 1, 0}

type GripStrengthArgs struct {
	StartMicrocycle int
}

type GripStrengthEntry struct {
	Sets               int
	Reps               string
	SuggestedIntensity string
	Left               []float64
	Right              []float64
	TEC                []float64
}

type GripStrengthMicrocycleMetrics struct {
	MedianLeft  float64
	MedianRight float64
	MedianTEC   float64
}

type GripStrengthMesocycleMetrics struct {
	MedianLeft       float64
	MedianRight      float64
	LeftFingerUsage  []float64
	RightFingerUsage []float64
}

type GripStrengthMetrics struct {
	Microcycles []GripStrengthMicrocycleMetrics
	Mesocycle   GripStrengthMesocycleMetrics
}

// GripStrength is the strategy behind grip strength control panels. A data
// block holds all left-hand values, then all right-hand values, then TEC.
type GripStrength struct {
	args GripStrengthArgs
}

func NewGripStrength(args GripStrengthArgs) *GripStrength {
	return &GripStrength{
		args: args,
	}
}

func (s *GripStrength) ParseEntry(
	ctx context.Context,
	r pipeline.Reader,
	cursor tabular.Region,
	_ int,
) (GripStrengthEntry, tabular.Region, error) {
	paramsRegion := cursor.Resize(1, gripStrengthParamWidth)
	params, err := r.Read(ctx, paramsRegion, tabular.WithMinCols(gripStrengthParamWidth))
	if err != nil {
		return GripStrengthEntry{}, cursor, err
	}
	row := params.Row(0)

	sets, err := parseSets(row[0], paramsRegion)
	if err != nil {
		return GripStrengthEntry{}, cursor, err
	}

	entry := GripStrengthEntry{
		Sets:               sets,
		Reps:               row[1].String(),
		SuggestedIntensity: row[2].String(),
	}

	width := sets * gripStrengthFields
	data := paramsRegion.Move(0, gripStrengthParamWidth)
	if sets == 0 {
		return entry, data, nil
	}
	data = data.Resize(1, width)
	next := data.Resize(1, gripStrengthParamWidth).Move(0, width)

	block, err := r.Read(ctx, data, tabular.WithMinCols(width))
	if err != nil {
		return GripStrengthEntry{}, cursor, err
	}
	values := block.Row(0)
	entry.Left = floats(values[:sets])
	entry.Right = floats(values[sets : 2*sets])
	entry.TEC = floats(values[2*sets : 3*sets])

	return entry, next, nil
}

func (s *GripStrength) ComputeMetrics(entries []GripStrengthEntry, microcycleCount int) (GripStrengthMetrics, error) {
	if len(entries) == 0 {
		return GripStrengthMetrics{}, nil
	}
	if microcycleCount < 1 || len(entries)%microcycleCount != 0 {
		return GripStrengthMetrics{}, fmt.Errorf("%d entries over %d microcycles: %w", len(entries), microcycleCount, pipeline.ErrMalformedEntry)
	}

	var metrics GripStrengthMetrics
	for _, group := range numeric.Chunk(entries, len(entries)/microcycleCount) {
		left, right, tec := gripValues(group)
		metrics.Microcycles = append(metrics.Microcycles, GripStrengthMicrocycleMetrics{
			MedianLeft:  numeric.Round(numeric.Median(left), numeric.DefaultPlaces),
			MedianRight: numeric.Round(numeric.Median(right), numeric.DefaultPlaces),
			MedianTEC:   numeric.Round(numeric.Median(tec), numeric.DefaultPlaces),
		})
	}

	left, right, _ := gripValues(entries)
	metrics.Mesocycle = GripStrengthMesocycleMetrics{
		MedianLeft:       numeric.Round(numeric.Median(left), numeric.DefaultPlaces),
		MedianRight:      numeric.Round(numeric.Median(right), numeric.DefaultPlaces),
		LeftFingerUsage:  fingerUsage(left),
		RightFingerUsage: fingerUsage(right),
	}
	return metrics, nil
}

// Transform emits one row per microcycle:
// microcycle, median left, mesocycle median left, median right, mesocycle
// median right, median TEC, left finger usage, right finger usage.
func (s *GripStrength) Transform(_ []GripStrengthEntry, metrics GripStrengthMetrics) ([][]tabular.Cell, error) {
	rows := make([][]tabular.Cell, 0, len(metrics.Microcycles))
	for i, mc := range metrics.Microcycles {
		row := []float64{
			float64(s.args.StartMicrocycle + i),
			mc.MedianLeft,
			metrics.Mesocycle.MedianLeft,
			mc.MedianRight,
			metrics.Mesocycle.MedianRight,
			mc.MedianTEC,
		}
		row = append(row, metrics.Mesocycle.LeftFingerUsage...)
		row = append(row, metrics.Mesocycle.RightFingerUsage...)
		rows = append(rows, tabular.NumberRow(row...))
	}
	return rows, nil
}

func gripValues(entries []GripStrengthEntry) (left, right, tec []float64) {
	for _, e := range entries {
		left = append(left, e.Left...)
		right = append(right, e.Right...)
		tec = append(tec, e.TEC...)
	}
	return left, right, tec
}

func fingerUsage(values []float64) []float64 {
	freq := numeric.RelativeFrequencies(values)
	usage := make([]float64, len(Fingers))
	for i, f := range Fingers {
		usage[i] = numeric.Round(freq[f], numeric.DefaultPlaces)
	}
	return usage
}

func floats(cells []tabular.Cell) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = c.Float()
	}
	return out
}
