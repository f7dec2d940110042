package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/pipeline"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cellStrategy reads one cell per entry and walks right.
type cellStrategy struct {
	failAt int
	seen   []tabular.Region
}

func (s *cellStrategy) ParseEntry(ctx context.Context, r pipeline.Reader, cursor tabular.Region, microcycle int) (float64, tabular.Region, error) {
	s.seen = append(s.seen, cursor)
	if s.failAt > 0 && len(s.seen) == s.failAt {
		return 0, cursor, pipeline.ErrMalformedEntry
	}
	t, err := r.Read(ctx, cursor)
	if err != nil {
		return 0, cursor, err
	}
	return t.Scalar().Float(), cursor.Move(0, 1), nil
}

func (s *cellStrategy) ComputeMetrics(entries []float64, _ int) (float64, error) {
	var sum float64
	for _, e := range entries {
		sum += e
	}
	return sum, nil
}

func (s *cellStrategy) Transform(entries []float64, sum float64) ([][]tabular.Cell, error) {
	rows := make([][]tabular.Cell, len(entries))
	for i, e := range entries {
		rows[i] = tabular.NumberRow(float64(i), e, sum)
	}
	return rows, nil
}

func setup(t *testing.T) (*tabular.IO, *tabular.MemoryGrid) {
	t.Helper()
	grid := tabular.NewMemoryGrid("log", "out")
	io, err := tabular.NewIO(grid)
	require.NoError(t, err)
	require.NoError(t, io.Write(context.Background(), tabular.MustParseRegion("log!A1:B2"), tabular.Numbers([][]float64{
		{1, 2},
		{10, 20},
	})))
	return io, grid
}

func TestPipeline_RunOrderAndWrite(t *testing.T) {
	ctx := context.Background()
	io, _ := setup(t)
	m := metrics.NewTestManager()
	strategy := &cellStrategy{}

	p := pipeline.New[float64, float64](pipeline.Params{
		Name:            "cells",
		Inputs:          []tabular.Region{tabular.MustParseRegion("log!A1"), tabular.MustParseRegion("log!A2")},
		Output:          tabular.MustParseRegion("out!A1:C10"),
		MicrocycleCount: 2,
	}, io, strategy, m)
	assert.Equal(t, "cells", p.Name())

	res, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Entries)
	assert.Equal(t, 4, res.RowsWritten)
	assert.Equal(t, "out!A1:C10", res.Output)
	assert.NotEmpty(t, res.RunID)

	// microcycle outer, input inner
	assert.Equal(t, []string{"log!A1", "log!A2", "log!B1", "log!B2"}, regionStrings(strategy.seen))

	out, err := io.Read(ctx, tabular.MustParseRegion("out!A1:C10"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{0, 1, 33},
		{1, 10, 33},
		{2, 2, 33},
		{3, 20, 33},
	}, out.Floats())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterPipelineRuns.WithLabelValues("cells", "ok")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CounterRowsWritten.WithLabelValues("cells")))
}

func TestPipeline_ParseErrorAbortsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	io, _ := setup(t)
	m := metrics.NewTestManager()

	p := pipeline.New[float64, float64](pipeline.Params{
		Name:            "cells",
		Inputs:          []tabular.Region{tabular.MustParseRegion("log!A1"), tabular.MustParseRegion("log!A2")},
		Output:          tabular.MustParseRegion("out!A1:C10"),
		MicrocycleCount: 2,
	}, io, &cellStrategy{failAt: 3}, m)

	_, err := p.Run(ctx)
	require.ErrorIs(t, err, pipeline.ErrMalformedEntry)
	assert.Contains(t, err.Error(), "microcycle 1")

	out, err := io.Read(ctx, tabular.MustParseRegion("out!A1:C10"))
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterPipelineRuns.WithLabelValues("cells", "error")))
}

func TestPipeline_NaNPolicy(t *testing.T) {
	ctx := context.Background()

	params := pipeline.Params{
		Name: "cells",
		// C1 is blank, so the entry is NaN
		Inputs:          []tabular.Region{tabular.MustParseRegion("log!B1")},
		Output:          tabular.MustParseRegion("out!A1:C10"),
		MicrocycleCount: 2,
	}

	t.Run("tolerant writes NaN", func(t *testing.T) {
		io, _ := setup(t)
		res, err := pipeline.New[float64, float64](params, io, &cellStrategy{}, metrics.NewTestManager()).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, res.RowsWritten)

		out, err := io.Read(ctx, tabular.MustParseRegion("out!B2"))
		require.NoError(t, err)
		assert.Equal(t, "NaN", out.Scalar().String())
	})

	t.Run("strict rejects the batch", func(t *testing.T) {
		io, _ := setup(t)
		strict := params
		strict.NaNPolicy = numeric.Strict
		_, err := pipeline.New[float64, float64](strict, io, &cellStrategy{}, metrics.NewTestManager()).Run(ctx)
		require.ErrorIs(t, err, numeric.ErrInvalidNumber)

		out, err := io.Read(ctx, tabular.MustParseRegion("out!A1:C10"))
		require.NoError(t, err)
		assert.True(t, out.IsEmpty())
	})
}

func TestPipeline_NoInputs(t *testing.T) {
	io, _ := setup(t)
	_, err := pipeline.New[float64, float64](pipeline.Params{Name: "empty", MicrocycleCount: 1}, io, &cellStrategy{}, metrics.NewTestManager()).
		Run(context.Background())
	require.True(t, errors.Is(err, pipeline.ErrNoInputs))
}

func regionStrings(regions []tabular.Region) []string {
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = r.String()
	}
	return out
}
