package tabular

type Kind int

const (
	KindScalar Kind = iota
	KindVector
	KindMatrix
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	default:
		return "matrix"
	}
}

// Tensor is what moves across the tabular boundary: a scalar, a flat vector
// or a matrix. The shape is fixed at construction.
type Tensor struct {
	kind Kind
	rows [][]Cell
}

func Scalar(c Cell) Tensor {
	return Tensor{kind: KindScalar, rows: [][]Cell{{c}}}
}

func Vector(cells []Cell) Tensor {
	return Tensor{kind: KindVector, rows: [][]Cell{cells}}
}

func Matrix(rows [][]Cell) Tensor {
	return Tensor{kind: KindMatrix, rows: rows}
}

// MatrixOf builds a matrix from rows of plain values (see CellOf).
func MatrixOf(rows ...[]any) Tensor {
	m := make([][]Cell, len(rows))
	for i, r := range rows {
		m[i] = Row(r...)
	}
	return Matrix(m)
}

// Numbers builds a matrix of number cells.
func Numbers(rows [][]float64) Tensor {
	m := make([][]Cell, len(rows))
	for i, r := range rows {
		m[i] = NumberRow(r...)
	}
	return Matrix(m)
}

func (t Tensor) Kind() Kind {
	return t.kind
}

// Scalar returns the top-left cell, which for a scalar tensor is its value.
func (t Tensor) Scalar() Cell {
	if len(t.rows) == 0 || len(t.rows[0]) == 0 {
		return Blank
	}
	return t.rows[0][0]
}

func (t Tensor) Rows() [][]Cell {
	return t.rows
}

// Row returns row i, or nil when out of range.
func (t Tensor) Row(i int) []Cell {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return t.rows[i]
}

// Dims returns the number of rows and the width of the first row.
func (t Tensor) Dims() (rows, cols int) {
	if len(t.rows) == 0 {
		return 0, 0
	}
	return len(t.rows), len(t.rows[0])
}

// IsEmpty reports whether the tensor holds nothing or its first cell is blank.
func (t Tensor) IsEmpty() bool {
	return t.Scalar().IsBlank()
}

func (t Tensor) Flatten() []Cell {
	var cells []Cell
	for _, r := range t.rows {
		cells = append(cells, r...)
	}
	return cells
}

// Floats converts every cell with Cell.Float.
func (t Tensor) Floats() [][]float64 {
	out := make([][]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = make([]float64, len(r))
		for j, c := range r {
			out[i][j] = c.Float()
		}
	}
	return out
}

// FlatFloats is Flatten followed by Cell.Float.
func (t Tensor) FlatFloats() []float64 {
	cells := t.Flatten()
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = c.Float()
	}
	return out
}

func (t Tensor) rectangular() bool {
	if len(t.rows) == 0 || len(t.rows[0]) == 0 {
		return false
	}
	for _, r := range t.rows {
		if len(r) != len(t.rows[0]) {
			return false
		}
	}
	return true
}
