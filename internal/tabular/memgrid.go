package tabular

import (
	"context"
	"fmt"
	"sync"
)

// MemoryGrid is an in-process Backend. Sheets must be added before use.
type MemoryGrid struct {
	mu     sync.RWMutex
	sheets map[string][][]Cell
}

func NewMemoryGrid(sheets ...string) *MemoryGrid {
	g := &MemoryGrid{
		sheets: make(map[string][][]Cell),
	}
	for _, s := range sheets {
		g.sheets[s] = nil
	}
	return g
}

func (g *MemoryGrid) AddSheet(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.sheets[name]; !ok {
		g.sheets[name] = nil
	}
}

func (g *MemoryGrid) GetValues(_ context.Context, region Region) ([][]Cell, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	data, ok := g.sheets[region.Sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", region.Sheet, ErrMissingCollaborator)
	}

	values := fill(region.Rows, region.Cols, Blank)
	for i := range values {
		r := region.Row - 1 + i
		if r >= len(data) {
			break
		}
		for j := range values[i] {
			c := region.Col - 1 + j
			if c < len(data[r]) {
				values[i][j] = data[r][c]
			}
		}
	}
	return values, nil
}

func (g *MemoryGrid) SetValues(_ context.Context, region Region, values [][]Cell) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	data, ok := g.sheets[region.Sheet]
	if !ok {
		return fmt.Errorf("sheet %q: %w", region.Sheet, ErrMissingCollaborator)
	}

	for len(data) < region.EndRow() {
		data = append(data, nil)
	}
	for i, row := range values {
		r := region.Row - 1 + i
		for len(data[r]) < region.EndCol() {
			data[r] = append(data[r], Blank)
		}
		copy(data[r][region.Col-1:], row)
	}
	g.sheets[region.Sheet] = data
	return nil
}
