package editguard

import (
	"context"
	"maps"
	"slices"

	"github.com/2beens/gymsheets/internal/kvstore"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// Guard decides whether an edit event warrants a recompute: the edit must touch
// the watched region and at least one watched value must differ from the memo.
// The memo is namespaced by the watched region, so guards sharing a store do
// not see each other's values.
type Guard struct {
	watched tabular.Region
	memo    *Memo
}

func NewGuard(watched tabular.Region, store kvstore.Store, metricsManager *metrics.Manager) *Guard {
	return &Guard{
		watched: watched,
		memo:    NewMemo(store, watched.String(), metricsManager),
	}
}

func (g *Guard) Watched() tabular.Region {
	return g.watched
}

func (g *Guard) Memo() *Memo {
	return g.memo
}

func (g *Guard) ShouldHandle(edited tabular.Region) bool {
	return ShouldHandle(edited, g.watched)
}

// Changed compares the current watched values with the memo. A value that was
// never memoized counts as changed.
func (g *Guard) Changed(ctx context.Context, values map[string]tabular.Cell) (bool, error) {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		prev, ok, err := g.memo.Load(ctx, name)
		if err != nil {
			return false, err
		}
		if !ok || prev != encodeCell(values[name]) {
			log.Tracef("memo %s changed: [%s] -> [%s]", g.memo.Key(name), prev, encodeCell(values[name]))
			return true, nil
		}
	}
	return false, nil
}

// Commit stores the values the last recompute was based on.
func (g *Guard) Commit(ctx context.Context, values map[string]tabular.Cell) error {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if err := g.memo.Save(ctx, name, encodeCell(values[name])); err != nil {
			return err
		}
	}
	return nil
}

func encodeCell(c tabular.Cell) string {
	if c.IsBlank() {
		return "null"
	}
	encoded, err := kvstore.Encode(c.Value())
	if err != nil {
		return c.String()
	}
	return encoded
}
