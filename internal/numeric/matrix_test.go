package numeric_test

import (
	"testing"

	"github.com/2beens/gymsheets/internal/numeric"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspose(t *testing.T) {
	m := [][]int{{1, 2, 3}, {4, 5, 6}}
	assert.Equal(t, [][]int{{1, 4}, {2, 5}, {3, 6}}, numeric.Transpose(m))
	assert.Equal(t, m, numeric.Transpose(numeric.Transpose(m)))
	assert.Empty(t, numeric.Transpose([][]int{}))
}

func TestConcatHorizontally(t *testing.T) {
	out, err := numeric.ConcatHorizontally([][]int{{1}, {2}}, [][]int{{3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 3, 4}, {2, 5, 6}}, out)

	_, err = numeric.ConcatHorizontally([][]int{{1}}, [][]int{{3}, {5}})
	require.ErrorIs(t, err, numeric.ErrDimensionMismatch)

	out, err = numeric.ConcatHorizontally[int]()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFillAndSlice(t *testing.T) {
	m := [][]string{{"a", "b"}}
	filled := numeric.FillCols(numeric.FillRows(m, 2, ""), 3, "")
	assert.Equal(t, [][]string{{"a", "b", ""}, {"", "", ""}}, filled)
	assert.Equal(t, [][]string{{"a", "b"}}, m)

	assert.Equal(t, [][]string{{"b", ""}, {"", ""}}, numeric.SliceCols(filled, 1, 10))
	assert.Equal(t, [][]string{{"", "", ""}}, numeric.SliceRows(filled, 1, 5))
	assert.Empty(t, numeric.SliceRows(filled, 3, 1))
}
