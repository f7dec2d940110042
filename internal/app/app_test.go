package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/2beens/gymsheets/internal/app"
	"github.com/2beens/gymsheets/internal/config"
	"github.com/2beens/gymsheets/internal/periodization"
	"github.com/2beens/gymsheets/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Backend: config.BackendConfig{
			Kind:   config.BackendMemory,
			Sheets: []string{"est", "grip", "out"},
		},
		Memo: config.MemoConfig{Kind: config.MemoMemory},
		Dashboards: []config.DashboardConfig{
			{
				Name:            "oahs",
				Variant:         "grip_strength",
				Inputs:          []string{"grip!A1:C1"},
				Output:          "out!A1:T10",
				Microcycles:     2,
				StartMicrocycle: 1,
			},
		},
		Periodizations: []config.PeriodizationConfig{
			{
				Name:        "squat",
				Watched:     "est!O5:O7",
				E1RM:        "est!O5",
				Bodyweight:  "est!O6",
				RequiredRPE: "est!O7",
				Intensities: "est!R7:R9",
				Reps:        "est!S6:U6",
				Output:      "est!S7:V9",
			},
		},
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	a, err := app.New(ctx, app.Params{Config: testConfig(), Subsystem: "test"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	assert.Nil(t, a.RedisClient)
	assert.Nil(t, a.DBPool)
	assert.Equal(t, []string{"squat"}, a.Periodizations.Names())
	require.Len(t, a.Dashboards.List(), 1)
	assert.Equal(t, "oahs", a.Dashboards.List()[0].Name)

	// empty grip log: two microcycles without sets
	res, err := a.Dashboards.Run(ctx, "oahs")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Entries)
	assert.Equal(t, 2, res.RowsWritten)

	require.NoError(t, a.IO.Write(ctx, tabular.MustParseRegion("est!O5:O7"), tabular.Numbers([][]float64{{100}, {72}, {10}})))
	require.NoError(t, a.IO.Write(ctx, tabular.MustParseRegion("est!R7:R9"), tabular.Numbers([][]float64{{1}, {.75}, {.5}})))
	require.NoError(t, a.IO.Write(ctx, tabular.MustParseRegion("est!S6:U6"), tabular.Numbers([][]float64{{1, 3, 5}})))

	outcome, err := a.Periodizations.OnEdit(ctx, "squat", tabular.MustParseRegion("est!O5"))
	require.NoError(t, err)
	assert.Equal(t, periodization.OutcomeRecomputed, outcome)

	out, err := a.IO.Read(ctx, tabular.MustParseRegion("est!S7:V9"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{2.5, 12.5, 22.5, 100},
		{-23.75, -15, -5, 75},
		{-48.75, -41.25, -33.75, 50},
	}, out.Floats())
}

func TestNew_XlsxBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training.xlsx")
	f := excelize.NewFile()
	for _, sheet := range []string{"est", "grip", "out"} {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := testConfig()
	cfg.Backend = config.BackendConfig{Kind: config.BackendXlsx, XlsxPath: path}

	a, err := app.New(context.Background(), app.Params{Config: cfg})
	require.NoError(t, err)
	require.NotNil(t, a.Workbook)
	assert.NoError(t, a.Close())
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := app.New(ctx, app.Params{})
	require.Error(t, err)

	cfg := testConfig()
	cfg.Backend = config.BackendConfig{Kind: config.BackendXlsx, XlsxPath: filepath.Join(t.TempDir(), "missing.xlsx")}
	_, err = app.New(ctx, app.Params{Config: cfg})
	require.Error(t, err)

	cfg = testConfig()
	cfg.Backend = config.BackendConfig{Kind: config.BackendGSheets, SpreadsheetID: "sheet-id"}
	_, err = app.New(ctx, app.Params{Config: cfg})
	require.ErrorContains(t, err, "google credentials file not set")

	cfg = testConfig()
	cfg.Dashboards = append(cfg.Dashboards, cfg.Dashboards[0])
	_, err = app.New(ctx, app.Params{Config: cfg})
	require.Error(t, err)
}

func TestNew_BackendOverride(t *testing.T) {
	grid := tabular.NewMemoryGrid("est", "grip", "out")
	cfg := testConfig()
	cfg.Backend = config.BackendConfig{Kind: config.BackendGSheets, SpreadsheetID: "unused"}

	a, err := app.New(context.Background(), app.Params{Config: cfg, Backend: grid})
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}
