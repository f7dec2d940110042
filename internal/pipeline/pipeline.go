package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"
	"github.com/2beens/gymsheets/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNoInputs = errors.New("pipeline has no inputs")
	// ErrMalformedEntry is returned by parsers for row blocks they cannot interpret.
	ErrMalformedEntry = errors.New("malformed entry")
)

type Reader interface {
	Read(ctx context.Context, region tabular.Region, opts ...tabular.ReadOption) (tabular.Tensor, error)
}

type ReadWriter interface {
	Reader
	Write(ctx context.Context, region tabular.Region, data tabular.Tensor) error
}

// Parser reads one entry starting at cursor and returns the cursor for the
// same input's next microcycle.
type Parser[E any] interface {
	ParseEntry(ctx context.Context, r Reader, cursor tabular.Region, microcycle int) (E, tabular.Region, error)
}

// Aggregator computes per-entry and cross-entry metrics over all entries of a run.
type Aggregator[E, M any] interface {
	ComputeMetrics(entries []E, microcycleCount int) (M, error)
}

// Transformer flattens entries and their metrics into output rows.
type Transformer[E, M any] interface {
	Transform(entries []E, metrics M) ([][]tabular.Cell, error)
}

// Strategy bundles the three phases of a pipeline variant.
type Strategy[E, M any] interface {
	Parser[E]
	Aggregator[E, M]
	Transformer[E, M]
}

// Preparer is implemented by strategies that resolve run-wide arguments from
// the grid. Prepare returns the strategy to use for one run.
type Preparer[E, M any] interface {
	Prepare(ctx context.Context, r Reader) (Strategy[E, M], error)
}

// Runner is a pipeline with its type parameters erased.
type Runner interface {
	Name() string
	Run(ctx context.Context) (*RunResult, error)
}

type RunResult struct {
	RunID       string        `json:"runId"`
	Pipeline    string        `json:"pipeline"`
	Entries     int           `json:"entries"`
	RowsWritten int           `json:"rowsWritten"`
	Output      string        `json:"output"`
	Duration    time.Duration `json:"duration"`
}

type Params struct {
	Name            string
	Inputs          []tabular.Region
	Output          tabular.Region
	MicrocycleCount int
	NaNPolicy       numeric.NaNPolicy
}

// Pipeline drives parse -> aggregate -> transform -> write. Entries are parsed
// microcycle by microcycle, and within a microcycle input by input, so
// entries[i] always belongs to microcycle i / len(inputs). Runs of one
// pipeline are serialized.
type Pipeline[E, M any] struct {
	mu       sync.Mutex
	params   Params
	io       ReadWriter
	strategy Strategy[E, M]
	metrics  *metrics.Manager
}

func New[E, M any](
	params Params,
	io ReadWriter,
	strategy Strategy[E, M],
	metricsManager *metrics.Manager,
) *Pipeline[E, M] {
	return &Pipeline[E, M]{
		params:   params,
		io:       io,
		strategy: strategy,
		metrics:  metricsManager,
	}
}

func (p *Pipeline[E, M]) Name() string {
	return p.params.Name
}

func (p *Pipeline[E, M]) Run(ctx context.Context) (_ *RunResult, err error) {
	runID := uuid.NewString()
	ctx, span := tracing.GlobalTracer.Start(ctx, "pipeline.run")
	started := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		p.metrics.CounterPipelineRuns.WithLabelValues(p.params.Name, status).Inc()
		p.metrics.HistogramPipelineDuration.WithLabelValues(p.params.Name).Observe(time.Since(started).Seconds())
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("pipeline", p.params.Name),
		attribute.String("run_id", runID),
		attribute.Int("inputs", len(p.params.Inputs)),
		attribute.Int("microcycles", p.params.MicrocycleCount),
	)

	if len(p.params.Inputs) == 0 {
		return nil, ErrNoInputs
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	strategy := p.strategy
	if preparer, ok := strategy.(Preparer[E, M]); ok {
		if strategy, err = preparer.Prepare(ctx, p.io); err != nil {
			return nil, fmt.Errorf("prepare: %w", err)
		}
	}

	entries, err := p.parseAll(ctx, strategy)
	if err != nil {
		return nil, err
	}

	m, err := strategy.ComputeMetrics(entries, p.params.MicrocycleCount)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	rows, err := strategy.Transform(entries, m)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	if err := p.checkNumbers(rows); err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		if err := p.io.Write(ctx, p.params.Output, tabular.Matrix(rows)); err != nil {
			return nil, fmt.Errorf("write output: %w", err)
		}
	}
	p.metrics.CounterRowsWritten.WithLabelValues(p.params.Name).Add(float64(len(rows)))

	result := &RunResult{
		RunID:       runID,
		Pipeline:    p.params.Name,
		Entries:     len(entries),
		RowsWritten: len(rows),
		Output:      p.params.Output.String(),
		Duration:    time.Since(started),
	}
	log.Debugf("pipeline [%s] run %s: %d entries, %d rows -> %s", p.params.Name, runID, len(entries), len(rows), result.Output)
	return result, nil
}

func (p *Pipeline[E, M]) parseAll(ctx context.Context, parser Parser[E]) ([]E, error) {
	cursors := make([]tabular.Region, len(p.params.Inputs))
	copy(cursors, p.params.Inputs)

	entries := make([]E, 0, p.params.MicrocycleCount*len(cursors))
	for mc := 0; mc < p.params.MicrocycleCount; mc++ {
		for i := range cursors {
			entry, next, err := parser.ParseEntry(ctx, p.io, cursors[i], mc)
			if err != nil {
				return nil, fmt.Errorf("parse input %d (%s), microcycle %d: %w", i, cursors[i], mc, err)
			}
			entries = append(entries, entry)
			cursors[i] = next
		}
	}
	return entries, nil
}

func (p *Pipeline[E, M]) checkNumbers(rows [][]tabular.Cell) error {
	for r, row := range rows {
		for c, cell := range row {
			if cell.Kind() != tabular.CellNumber {
				continue
			}
			if err := p.params.NaNPolicy.Check(cell.Float()); err != nil {
				return fmt.Errorf("output row %d, column %d: %w", r, c, err)
			}
		}
	}
	return nil
}
