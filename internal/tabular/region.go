package tabular

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	cellRefRegex  = regexp.MustCompile(`^[A-Z]+[0-9]+$`)
	rangeRefRegex = regexp.MustCompile(`^[A-Z]+[0-9]+:[A-Z]+[0-9]+$`)
)

// Region is a rectangle on one sheet: a 1-based origin plus an extent.
// It is a value; Move and Resize return new regions.
type Region struct {
	Sheet string
	Row   int
	Col   int
	Rows  int
	Cols  int
}

// ParseRegion parses "Sheet!A1" or "Sheet!A1:C3". Sheet names with spaces
// may be single-quoted.
func ParseRegion(ref string) (Region, error) {
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return Region{}, newReferenceError(ref, "missing sheet name")
	}
	sheet := strings.TrimSpace(ref[:idx])
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	r, err := ParseA1(sheet, ref[idx+1:])
	var refErr *ReferenceError
	if errors.As(err, &refErr) {
		refErr.Ref = ref
	}
	return r, err
}

// ParseA1 parses an A1 cell or range reference on the given sheet.
func ParseA1(sheet, a1 string) (Region, error) {
	ref := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(a1), "$", ""))
	if sheet == "" {
		return Region{}, newReferenceError(a1, "missing sheet name")
	}

	var start, end string
	switch {
	case cellRefRegex.MatchString(ref):
		start, end = ref, ref
	case rangeRefRegex.MatchString(ref):
		start, end, _ = strings.Cut(ref, ":")
	default:
		return Region{}, newReferenceError(a1, "not an A1 cell or range")
	}

	col, row, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return Region{}, newReferenceError(a1, err.Error())
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return Region{}, newReferenceError(a1, err.Error())
	}
	if endRow < row || endCol < col {
		return Region{}, newReferenceError(a1, "range end precedes its start")
	}

	r := Region{
		Sheet: sheet,
		Row:   row,
		Col:   col,
		Rows:  endRow - row + 1,
		Cols:  endCol - col + 1,
	}
	return r, r.Validate()
}

// MustParseRegion is ParseRegion for references known at compile time.
func MustParseRegion(ref string) Region {
	r, err := ParseRegion(ref)
	if err != nil {
		panic(err)
	}
	return r
}

// Move translates the origin, keeping the extent.
func (r Region) Move(dRows, dCols int) Region {
	r.Row += dRows
	r.Col += dCols
	return r
}

// Resize changes the extent, keeping the origin.
func (r Region) Resize(rows, cols int) Region {
	r.Rows = rows
	r.Cols = cols
	return r
}

func (r Region) EndRow() int {
	return r.Row + r.Rows - 1
}

func (r Region) EndCol() int {
	return r.Col + r.Cols - 1
}

func (r Region) IsCell() bool {
	return r.Rows == 1 && r.Cols == 1
}

// Validate checks that the region has a sheet, a positive extent and lies
// within the grid limits.
func (r Region) Validate() error {
	switch {
	case r.Sheet == "":
		return newReferenceError(r.String(), "missing sheet name")
	case r.Rows < 1 || r.Cols < 1:
		return newReferenceError(r.String(), fmt.Sprintf("extent %dx%d is empty", r.Rows, r.Cols))
	case r.Row < 1 || r.Col < 1:
		return newReferenceError(r.String(), "origin outside the grid")
	case r.EndRow() > excelize.TotalRows || r.EndCol() > excelize.MaxColumns:
		return newReferenceError(r.String(), "extent outside the grid")
	}
	return nil
}

// A1 renders the region without its sheet, e.g. "B2" or "B2:D4".
func (r Region) A1() (string, error) {
	start, err := excelize.CoordinatesToCellName(r.Col, r.Row)
	if err != nil {
		return "", newReferenceError(r.raw(), err.Error())
	}
	if r.IsCell() {
		return start, nil
	}
	end, err := excelize.CoordinatesToCellName(r.EndCol(), r.EndRow())
	if err != nil {
		return "", newReferenceError(r.raw(), err.Error())
	}
	return start + ":" + end, nil
}

func (r Region) String() string {
	a1, err := r.A1()
	if err != nil {
		return r.raw()
	}
	return quoteSheet(r.Sheet) + "!" + a1
}

func (r Region) raw() string {
	return fmt.Sprintf("%s!R%dC%d:%dx%d", quoteSheet(r.Sheet), r.Row, r.Col, r.Rows, r.Cols)
}

func quoteSheet(sheet string) string {
	if sheet == "" || strings.ContainsAny(sheet, " '!:") {
		return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet
}
