package tabular

import (
	"math"
	"strconv"
	"strings"
)

type CellKind int

const (
	CellBlank CellKind = iota
	CellNumber
	CellText
	CellBool
)

// Cell is the content of a single grid cell.
type Cell struct {
	kind CellKind
	num  float64
	text string
	flag bool
}

// Blank is the filler used to pad writes and the value of untouched cells.
var Blank = Cell{}

func Number(v float64) Cell {
	return Cell{kind: CellNumber, num: v}
}

// Text returns a text cell; the empty string is Blank.
func Text(s string) Cell {
	if s == "" {
		return Blank
	}
	return Cell{kind: CellText, text: s}
}

func Boolean(b bool) Cell {
	return Cell{kind: CellBool, flag: b}
}

// CellOf converts a backend value into a Cell. Unknown types are rendered as text.
func CellOf(v any) Cell {
	switch t := v.(type) {
	case nil:
		return Blank
	case Cell:
		return t
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case string:
		return Text(t)
	case bool:
		return Boolean(t)
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return Text(s.String())
		}
		return Blank
	}
}

// ParseCell interprets raw text, as stored in files, turning numeric literals into numbers.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Blank
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Text(raw)
}

func (c Cell) Kind() CellKind {
	return c.kind
}

func (c Cell) IsBlank() bool {
	return c.kind == CellBlank
}

// Float returns the numeric value of the cell, parsing numeric text.
// Blank and non-numeric cells are NaN.
func (c Cell) Float() float64 {
	switch c.kind {
	case CellNumber:
		return c.num
	case CellText:
		if f, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64); err == nil {
			return f
		}
	case CellBool:
		if c.flag {
			return 1
		}
		return 0
	}
	return math.NaN()
}

// Int returns the cell as a whole number; ok is false for non-numeric cells.
func (c Cell) Int() (n int, ok bool) {
	f := c.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

func (c Cell) String() string {
	switch c.kind {
	case CellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case CellText:
		return c.text
	case CellBool:
		return strconv.FormatBool(c.flag)
	default:
		return ""
	}
}

// Value is the cell as handed to a backend. Non-finite numbers are rendered
// as text so they stay visible in the sheet.
func (c Cell) Value() any {
	switch c.kind {
	case CellNumber:
		if math.IsNaN(c.num) || math.IsInf(c.num, 0) {
			return c.String()
		}
		return c.num
	case CellText:
		return c.text
	case CellBool:
		return c.flag
	default:
		return nil
	}
}

// Row is a convenience for building a row of cells from plain values.
func Row(values ...any) []Cell {
	row := make([]Cell, len(values))
	for i, v := range values {
		row[i] = CellOf(v)
	}
	return row
}

// NumberRow builds a row of number cells.
func NumberRow(values ...float64) []Cell {
	row := make([]Cell, len(values))
	for i, v := range values {
		row[i] = Number(v)
	}
	return row
}
