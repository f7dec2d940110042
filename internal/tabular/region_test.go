package tabular_test

import (
	"testing"

	"github.com/2beens/gymsheets/internal/tabular"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegion(t *testing.T) {
	r, err := tabular.ParseRegion("03-STEstimation!S7:AB46")
	require.NoError(t, err)
	assert.Equal(t, tabular.Region{Sheet: "03-STEstimation", Row: 7, Col: 19, Rows: 40, Cols: 10}, r)
	assert.Equal(t, "03-STEstimation!S7:AB46", r.String())

	r, err = tabular.ParseRegion("'My Log'!$b$2")
	require.NoError(t, err)
	assert.Equal(t, tabular.Region{Sheet: "My Log", Row: 2, Col: 2, Rows: 1, Cols: 1}, r)
	assert.True(t, r.IsCell())
	assert.Equal(t, "'My Log'!B2", r.String())
}

func TestParseRegion_Invalid(t *testing.T) {
	for _, ref := range []string{
		"A1",
		"Sheet!",
		"Sheet!1A",
		"Sheet!A1:",
		"Sheet!C3:A1",
		"Sheet!A1:B2:C3",
		"!A1",
	} {
		t.Run(ref, func(t *testing.T) {
			_, err := tabular.ParseRegion(ref)
			require.ErrorIs(t, err, tabular.ErrInvalidReference)

			var refErr *tabular.ReferenceError
			require.ErrorAs(t, err, &refErr)
			assert.NotEmpty(t, refErr.Ref)
		})
	}
}

func TestRegion_Validate(t *testing.T) {
	assert.NoError(t, tabular.Region{Sheet: "s", Row: 1, Col: 1, Rows: 1, Cols: 1}.Validate())
	assert.ErrorIs(t, tabular.Region{Row: 1, Col: 1, Rows: 1, Cols: 1}.Validate(), tabular.ErrInvalidReference)
	assert.ErrorIs(t, tabular.Region{Sheet: "s", Row: 0, Col: 1, Rows: 1, Cols: 1}.Validate(), tabular.ErrInvalidReference)
	assert.ErrorIs(t, tabular.Region{Sheet: "s", Row: 1, Col: 1, Rows: 0, Cols: 1}.Validate(), tabular.ErrInvalidReference)
	assert.ErrorIs(t, tabular.Region{Sheet: "s", Row: 1, Col: 16384, Rows: 1, Cols: 2}.Validate(), tabular.ErrInvalidReference)
}

func TestRegion_MoveResizeCompose(t *testing.T) {
	original := tabular.MustParseRegion("13-ST!H14:J14")

	peek := original.Resize(1, 11).Move(0, 3)
	assert.Equal(t, "13-ST!K14:U14", peek.String())

	restored := peek.Resize(1, 3).Move(0, -3)
	assert.Equal(t, original, restored)

	faker := gofakeit.New(7)
	for i := 0; i < 100; i++ {
		n, k := faker.IntRange(1, 50), faker.IntRange(-5, 50)
		r := original.Resize(original.Rows, n).Move(0, k).Resize(original.Rows, original.Cols).Move(0, -k)
		require.Equal(t, original, r)
	}
}

func TestRegion_MoveDoesNotAlias(t *testing.T) {
	r := tabular.MustParseRegion("s!A1:B2")
	moved := r.Move(1, 1)
	assert.Equal(t, 1, r.Row)
	assert.Equal(t, 2, moved.Row)
	assert.Equal(t, r.Rows, moved.Rows)
}
