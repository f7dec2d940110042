// Package xlsx is a tabular backend over a local Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"sync"

	"github.com/2beens/gymsheets/internal/tabular"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Backend struct {
	mu       sync.Mutex
	file     *excelize.File
	path     string
	autoSave bool
}

// Open loads the workbook at path. Changes are kept in memory until Save.
func Open(path string) (*Backend, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return New(f, path), nil
}

func New(file *excelize.File, path string) *Backend {
	return &Backend{
		file: file,
		path: path,
	}
}

// SetAutoSave makes every SetValues persist the workbook right away, which
// the long-running service relies on. The CLI saves once at the end instead.
func (b *Backend) SetAutoSave(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoSave = on
}

func (b *Backend) GetValues(_ context.Context, region tabular.Region) ([][]tabular.Cell, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkSheet(region.Sheet); err != nil {
		return nil, err
	}

	rows, err := b.file.GetRows(region.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}

	values := make([][]tabular.Cell, 0, region.Rows)
	for r := region.Row - 1; r < region.EndRow() && r < len(rows); r++ {
		row := make([]tabular.Cell, 0, region.Cols)
		for c := region.Col - 1; c < region.EndCol() && c < len(rows[r]); c++ {
			row = append(row, tabular.ParseCell(rows[r][c]))
		}
		values = append(values, row)
	}
	return values, nil
}

func (b *Backend) SetValues(_ context.Context, region tabular.Region, values [][]tabular.Cell) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkSheet(region.Sheet); err != nil {
		return err
	}

	for i, row := range values {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(region.Col+j, region.Row+i)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := b.file.SetCellValue(region.Sheet, name, cell.Value()); err != nil {
				return fmt.Errorf("set %s!%s: %w", region.Sheet, name, err)
			}
		}
	}
	if b.autoSave {
		return b.save()
	}
	return nil
}

// Save writes the workbook back to its path.
func (b *Backend) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.save()
}

func (b *Backend) save() error {
	if err := b.file.SaveAs(b.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", b.path, err)
	}
	log.Debugf("workbook saved: %s", b.path)
	return nil
}

func (b *Backend) Close() error {
	return b.file.Close()
}

func (b *Backend) checkSheet(sheet string) error {
	idx, err := b.file.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		return fmt.Errorf("sheet %q: %w", sheet, tabular.ErrMissingCollaborator)
	}
	return nil
}
