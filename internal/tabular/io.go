package tabular

import (
	"context"
	"fmt"

	"github.com/2beens/gymsheets/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=io_mocks_test.go -package=tabular_test

// Backend is a concrete grid store: a workbook file, a spreadsheet service, memory.
// GetValues may return fewer rows or shorter rows than the region; the missing
// cells are blank. SetValues receives values shaped exactly like the region.
type Backend interface {
	GetValues(ctx context.Context, region Region) ([][]Cell, error)
	SetValues(ctx context.Context, region Region, values [][]Cell) error
}

// IO reads and writes regions of a Backend, normalizing shapes on the way.
type IO struct {
	backend Backend
}

func NewIO(backend Backend) (*IO, error) {
	if backend == nil {
		return nil, fmt.Errorf("tabular backend: %w", ErrMissingCollaborator)
	}
	return &IO{
		backend: backend,
	}, nil
}

type readOptions struct {
	minRows int
	minCols int
}

type ReadOption func(*readOptions)

// WithMinRows keeps at least n rows when trimming trailing blank rows.
func WithMinRows(n int) ReadOption {
	return func(o *readOptions) {
		o.minRows = n
	}
}

// WithMinCols keeps at least n columns when trimming trailing blank columns.
func WithMinCols(n int) ReadOption {
	return func(o *readOptions) {
		o.minCols = n
	}
}

// Read returns a scalar for a single-cell region, otherwise a matrix with
// trailing blank rows and columns trimmed down to the requested minimum
// shape (at least 1x1).
func (p *IO) Read(ctx context.Context, region Region, opts ...ReadOption) (_ Tensor, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tabular.read")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("region", region.String()))

	if err := region.Validate(); err != nil {
		return Tensor{}, err
	}

	options := readOptions{minRows: 1, minCols: 1}
	for _, opt := range opts {
		opt(&options)
	}

	values, err := p.backend.GetValues(ctx, region)
	if err != nil {
		return Tensor{}, fmt.Errorf("get values %s: %w", region, err)
	}

	grid := fit(values, region.Rows, region.Cols, Blank)
	if region.IsCell() {
		return Scalar(grid[0][0]), nil
	}

	return Matrix(trim(grid, options.minRows, options.minCols)), nil
}

// Write stores data into region. A scalar fills the whole region. A matrix is
// padded with blanks or truncated from the top-left to the region's shape;
// a single-cell region takes the top-left element. Vectors are rejected.
func (p *IO) Write(ctx context.Context, region Region, data Tensor) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tabular.write")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("region", region.String()),
		attribute.String("kind", data.Kind().String()),
	)

	if err := region.Validate(); err != nil {
		return err
	}

	var grid [][]Cell
	switch data.Kind() {
	case KindScalar:
		grid = fill(region.Rows, region.Cols, data.Scalar())
	case KindMatrix:
		if !data.rectangular() {
			return fmt.Errorf("write %s: ragged or empty matrix: %w", region, ErrUnsupportedShape)
		}
		grid = fit(data.Rows(), region.Rows, region.Cols, Blank)
	default:
		return fmt.Errorf("write %s: %s data: %w", region, data.Kind(), ErrUnsupportedShape)
	}

	if err := p.backend.SetValues(ctx, region, grid); err != nil {
		return fmt.Errorf("set values %s: %w", region, err)
	}
	return nil
}

func fill(rows, cols int, c Cell) [][]Cell {
	grid := make([][]Cell, rows)
	for i := range grid {
		grid[i] = make([]Cell, cols)
		for j := range grid[i] {
			grid[i][j] = c
		}
	}
	return grid
}

// fit pads with filler or truncates values to exactly rows x cols.
func fit(values [][]Cell, rows, cols int, filler Cell) [][]Cell {
	grid := fill(rows, cols, filler)
	for i := 0; i < rows && i < len(values); i++ {
		copy(grid[i], values[i])
	}
	return grid
}

func trim(grid [][]Cell, minRows, minCols int) [][]Cell {
	for i := max(minRows, 1); i < len(grid); i++ {
		if allBlank(grid[i:], 0) {
			grid = grid[:i]
			break
		}
	}

	width := len(grid[0])
	for j := max(minCols, 1); j < width; j++ {
		if allBlank(grid, j) {
			for i := range grid {
				grid[i] = grid[i][:j]
			}
			break
		}
	}

	return grid
}

// allBlank reports whether every cell from column fromCol on is blank.
func allBlank(rows [][]Cell, fromCol int) bool {
	for _, r := range rows {
		for j := fromCol; j < len(r); j++ {
			if !r[j].IsBlank() {
				return false
			}
		}
	}
	return true
}
