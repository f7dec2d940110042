package numeric

import (
	"errors"
	"fmt"
)

var ErrDimensionMismatch = errors.New("dimension mismatch")

// Transpose swaps rows and columns. Rows are assumed to be of equal length.
func Transpose[T any](m [][]T) [][]T {
	if len(m) == 0 {
		return [][]T{}
	}
	out := make([][]T, len(m[0]))
	for c := range out {
		out[c] = make([]T, len(m))
		for r := range m {
			out[c][r] = m[r][c]
		}
	}
	return out
}

// ConcatHorizontally joins matrices side by side. All of them must have the
// same number of rows.
func ConcatHorizontally[T any](matrices ...[][]T) ([][]T, error) {
	if len(matrices) == 0 {
		return [][]T{}, nil
	}
	rows := len(matrices[0])
	for i, m := range matrices {
		if len(m) != rows {
			return nil, fmt.Errorf("matrix %d has %d rows, expected %d: %w", i, len(m), rows, ErrDimensionMismatch)
		}
	}
	out := make([][]T, rows)
	for r := range out {
		for _, m := range matrices {
			out[r] = append(out[r], m[r]...)
		}
	}
	return out, nil
}

// FillRows appends copies of filler rows until m has n rows.
func FillRows[T any](m [][]T, n int, filler T) [][]T {
	cols := 0
	if len(m) > 0 {
		cols = len(m[0])
	}
	out := append([][]T{}, m...)
	for len(out) < n {
		row := make([]T, cols)
		for i := range row {
			row[i] = filler
		}
		out = append(out, row)
	}
	return out
}

// FillCols right-pads every row of m with filler up to n columns.
func FillCols[T any](m [][]T, n int, filler T) [][]T {
	out := make([][]T, len(m))
	for r, row := range m {
		out[r] = append(make([]T, 0, max(n, len(row))), row...)
		for len(out[r]) < n {
			out[r] = append(out[r], filler)
		}
	}
	return out
}

// SliceRows returns rows [from, to) clamped to the matrix bounds.
func SliceRows[T any](m [][]T, from, to int) [][]T {
	from, to = clamp(from, to, len(m))
	return m[from:to]
}

// SliceCols returns columns [from, to) of every row, clamped to the row length.
func SliceCols[T any](m [][]T, from, to int) [][]T {
	out := make([][]T, len(m))
	for r, row := range m {
		f, t := clamp(from, to, len(row))
		out[r] = row[f:t]
	}
	return out
}

func clamp(from, to, n int) (int, int) {
	from = min(max(from, 0), n)
	to = min(max(to, from), n)
	return from, to
}
