package xlsx_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/tabular/xlsx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBackend_ReadWriteSave(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("13-ST")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("13-ST", "H14", 2))
	require.NoError(t, f.SetCellValue("13-ST", "I14", 12))
	require.NoError(t, f.SetCellValue("13-ST", "J14", 4))
	require.NoError(t, f.SetCellValue("13-ST", "K14", `10"`))

	path := filepath.Join(t.TempDir(), "training.xlsx")
	backend := xlsx.New(f, path)
	io, err := tabular.NewIO(backend)
	require.NoError(t, err)

	ctx := context.Background()
	params, err := io.Read(ctx, tabular.MustParseRegion("13-ST!H14:K15"))
	require.NoError(t, err)
	rows, cols := params.Dims()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, []float64{2, 12, 4}, params.FlatFloats()[:3])
	assert.Equal(t, `10"`, params.Row(0)[3].String())

	out := tabular.MustParseRegion("13-ST!A1:C2")
	require.NoError(t, io.Write(ctx, out, tabular.MatrixOf([]any{1.5, "x"})))
	require.NoError(t, backend.Save())
	require.NoError(t, backend.Close())

	reopened, err := xlsx.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	io, err = tabular.NewIO(reopened)
	require.NoError(t, err)
	got, err := io.Read(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, [][]tabular.Cell{{tabular.Number(1.5), tabular.Text("x")}}, got.Rows())
}

func TestBackend_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	backend := xlsx.New(f, "")
	defer backend.Close()

	_, err := backend.GetValues(context.Background(), tabular.MustParseRegion("nope!A1"))
	require.ErrorIs(t, err, tabular.ErrMissingCollaborator)

	err = backend.SetValues(context.Background(), tabular.MustParseRegion("nope!A1"), [][]tabular.Cell{{tabular.Number(1)}})
	require.ErrorIs(t, err, tabular.ErrMissingCollaborator)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := xlsx.Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}

func TestBackend_AutoSave(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "training.xlsx")
	backend := xlsx.New(f, path)
	backend.SetAutoSave(true)

	ctx := context.Background()
	require.NoError(t, backend.SetValues(ctx, tabular.MustParseRegion("Sheet1!B2"), [][]tabular.Cell{{tabular.Number(42)}}))
	require.NoError(t, backend.Close())

	reopened, err := xlsx.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	values, err := reopened.GetValues(ctx, tabular.MustParseRegion("Sheet1!B2"))
	require.NoError(t, err)
	assert.Equal(t, [][]tabular.Cell{{tabular.Number(42)}}, values)
}
