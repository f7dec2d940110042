package editguard_test

import (
	"context"
	"testing"

	"github.com/2beens/gymsheets/internal/editguard"
	"github.com/2beens/gymsheets/internal/kvstore"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_ChangedAndCommit(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore(0)
	metricsManager := metrics.NewTestManager()
	guard := editguard.NewGuard(tabular.MustParseRegion("03-STEstimation!O5:O7"), store, metricsManager)

	values := map[string]tabular.Cell{
		"previousE1RM": tabular.Number(100),
		"previousRPE":  tabular.Number(8),
	}

	changed, err := guard.Changed(ctx, values)
	require.NoError(t, err)
	assert.True(t, changed, "nothing memoized yet")

	require.NoError(t, guard.Commit(ctx, values))
	changed, err = guard.Changed(ctx, values)
	require.NoError(t, err)
	assert.False(t, changed)

	values["previousRPE"] = tabular.Number(9)
	changed, err = guard.Changed(ctx, values)
	require.NoError(t, err)
	assert.True(t, changed)

	raw, ok, err := store.Get(ctx, "memo::03-STEstimation!O5:O7::previousE1RM")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "100", raw)

	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterMemoOps.WithLabelValues("set", "ok")))
}

func TestGuard_NamespacesDoNotCollide(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore(0)
	metricsManager := metrics.NewTestManager()

	first := editguard.NewGuard(tabular.MustParseRegion("bench!O5:O7"), store, metricsManager)
	second := editguard.NewGuard(tabular.MustParseRegion("dips!O5:O7"), store, metricsManager)

	values := map[string]tabular.Cell{"previousE1RM": tabular.Number(100)}
	require.NoError(t, first.Commit(ctx, values))

	changed, err := second.Changed(ctx, values)
	require.NoError(t, err)
	assert.True(t, changed, "a commit on one sheet must not satisfy another sheet's guard")

	changed, err = first.Changed(ctx, values)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestGuard_BlankValues(t *testing.T) {
	ctx := context.Background()
	guard := editguard.NewGuard(tabular.MustParseRegion("s!A1"), kvstore.NewMemoryStore(0), metrics.NewTestManager())

	values := map[string]tabular.Cell{"previousE1RM": tabular.Blank}
	require.NoError(t, guard.Commit(ctx, values))
	changed, err := guard.Changed(ctx, values)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = guard.Changed(ctx, map[string]tabular.Cell{"previousE1RM": tabular.Number(0)})
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestMemo_Forget(t *testing.T) {
	ctx := context.Background()
	memo := editguard.NewMemo(kvstore.NewMemoryStore(0), "ns", metrics.NewTestManager())
	assert.Equal(t, "memo::ns::x", memo.Key("x"))

	require.NoError(t, memo.Save(ctx, "x", "1"))
	v, ok, err := memo.Load(ctx, "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, memo.Forget(ctx, "x"))
	_, ok, err = memo.Load(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)
}
