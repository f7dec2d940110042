package periodization

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/2beens/gymsheets/internal/editguard"
	"github.com/2beens/gymsheets/internal/estimation"
	"github.com/2beens/gymsheets/internal/kvstore"
	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"
	"github.com/2beens/gymsheets/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNotFound = errors.New("periodization not found")

type Outcome string

const (
	OutcomeIgnored    Outcome = "ignored"
	OutcomeUnchanged  Outcome = "unchanged"
	OutcomeRecomputed Outcome = "recomputed"
)

// memo value names
const (
	valueE1RM        = "e1rm"
	valueBodyweight  = "bodyweight"
	valueRequiredRPE = "requiredRPE"
)

type readWriter interface {
	Read(ctx context.Context, region tabular.Region, opts ...tabular.ReadOption) (tabular.Tensor, error)
	Write(ctx context.Context, region tabular.Region, data tabular.Tensor) error
}

// Layout locates the cells of one intensity/volume decision sheet.
type Layout struct {
	Name string
	// Watched is where edits trigger a recompute, usually the three input cells.
	Watched     tabular.Region
	E1RM        tabular.Region
	Bodyweight  tabular.Region
	RequiredRPE tabular.Region
	// Intensities is a column of e1RM fractions, Reps a row of rep counts.
	Intensities tabular.Region
	Reps        tabular.Region
	// Output receives the fractions x reps matrix followed by a plate weight column.
	Output tabular.Region
}

// Matrix recomputes the decision matrix of one sheet when its inputs change.
type Matrix struct {
	mu      sync.Mutex
	layout  Layout
	io      readWriter
	guard   *editguard.Guard
	metrics *metrics.Manager
}

func NewMatrix(layout Layout, io readWriter, store kvstore.Store, metricsManager *metrics.Manager) *Matrix {
	return &Matrix{
		layout:  layout,
		io:      io,
		guard:   editguard.NewGuard(layout.Watched, store, metricsManager),
		metrics: metricsManager,
	}
}

func (p *Matrix) Name() string {
	return p.layout.Name
}

// OnEdit handles an edit of the given region. Edits outside the watched
// region are ignored; edits that leave e1RM, bodyweight and required RPE as
// memoized skip the recompute.
func (p *Matrix) OnEdit(ctx context.Context, edited tabular.Region) (outcome Outcome, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "periodization.edit")
	defer func() {
		label := string(outcome)
		if err != nil {
			label = "error"
		}
		p.metrics.CounterEditEvents.WithLabelValues(p.layout.Name, label).Inc()
		span.SetAttributes(attribute.String("outcome", label))
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("periodization", p.layout.Name),
		attribute.String("edited", edited.String()),
	)

	if !p.guard.ShouldHandle(edited) {
		return OutcomeIgnored, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	values, err := p.readInputs(ctx)
	if err != nil {
		return "", err
	}

	changed, err := p.guard.Changed(ctx, values)
	if err != nil {
		return "", fmt.Errorf("compare memo: %w", err)
	}
	if !changed {
		log.Debugf("periodization [%s]: inputs unchanged after edit of %s", p.layout.Name, edited)
		return OutcomeUnchanged, nil
	}

	if err := p.recompute(ctx, values); err != nil {
		return "", err
	}
	if err := p.guard.Commit(ctx, values); err != nil {
		return "", fmt.Errorf("commit memo: %w", err)
	}

	log.Debugf("periodization [%s]: recomputed %s after edit of %s", p.layout.Name, p.layout.Output, edited)
	return OutcomeRecomputed, nil
}

func (p *Matrix) readInputs(ctx context.Context) (map[string]tabular.Cell, error) {
	cells := map[string]tabular.Region{
		valueE1RM:        p.layout.E1RM,
		valueBodyweight:  p.layout.Bodyweight,
		valueRequiredRPE: p.layout.RequiredRPE,
	}
	values := make(map[string]tabular.Cell, len(cells))
	for name, region := range cells {
		t, err := p.io.Read(ctx, region.Resize(1, 1))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		values[name] = t.Scalar()
	}
	return values, nil
}

func (p *Matrix) recompute(ctx context.Context, values map[string]tabular.Cell) error {
	e1RM, err := requireNumber(values[valueE1RM], valueE1RM)
	if err != nil {
		return err
	}
	requiredRPE, err := requireNumber(values[valueRequiredRPE], valueRequiredRPE)
	if err != nil {
		return err
	}
	var bodyweight float64
	if c := values[valueBodyweight]; !c.IsBlank() {
		if bodyweight, err = requireNumber(c, valueBodyweight); err != nil {
			return err
		}
	}

	fractions, err := p.readAxis(ctx, p.layout.Intensities)
	if err != nil {
		return fmt.Errorf("read intensities: %w", err)
	}
	reps, err := p.readAxis(ctx, p.layout.Reps)
	if err != nil {
		return fmt.Errorf("read reps: %w", err)
	}

	differences, err := estimation.IntensityVolumeMatrix(fractions, reps, e1RM, requiredRPE, bodyweight)
	if err != nil {
		return err
	}
	plates := numeric.Transpose([][]float64{estimation.PlateWeights(fractions, e1RM)})
	output, err := numeric.ConcatHorizontally(differences, plates)
	if err != nil {
		return err
	}

	if err := p.io.Write(ctx, p.layout.Output, tabular.Numbers(output)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// readAxis reads a row or column of numbers; trailing blanks are dropped.
func (p *Matrix) readAxis(ctx context.Context, region tabular.Region) ([]float64, error) {
	t, err := p.io.Read(ctx, region)
	if err != nil {
		return nil, err
	}
	if t.IsEmpty() {
		return nil, fmt.Errorf("%s is empty: %w", region, estimation.ErrInvalidInput)
	}
	return t.FlatFloats(), nil
}

func requireNumber(c tabular.Cell, name string) (float64, error) {
	v := c.Float()
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%s is %q: %w", name, c.String(), estimation.ErrInvalidInput)
	}
	return v, nil
}
