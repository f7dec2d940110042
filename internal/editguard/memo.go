package editguard

import (
	"context"
	"fmt"

	"github.com/2beens/gymsheets/internal/kvstore"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"
)

const memoKeyPrefix = "memo::"

// Memo is a namespaced view of a key-value store holding the last seen inputs.
type Memo struct {
	store     kvstore.Store
	namespace string
	metrics   *metrics.Manager
}

func NewMemo(store kvstore.Store, namespace string, metricsManager *metrics.Manager) *Memo {
	return &Memo{
		store:     store,
		namespace: namespace,
		metrics:   metricsManager,
	}
}

func (m *Memo) Key(name string) string {
	return memoKeyPrefix + m.namespace + "::" + name
}

func (m *Memo) Load(ctx context.Context, name string) (string, bool, error) {
	val, ok, err := m.store.Get(ctx, m.Key(name))
	switch {
	case err != nil:
		m.metrics.CounterMemoOps.WithLabelValues("get", "error").Inc()
		return "", false, fmt.Errorf("load memo %s: %w", name, err)
	case !ok:
		m.metrics.CounterMemoOps.WithLabelValues("get", "miss").Inc()
	default:
		m.metrics.CounterMemoOps.WithLabelValues("get", "hit").Inc()
	}
	return val, ok, nil
}

func (m *Memo) Save(ctx context.Context, name, value string) error {
	if err := m.store.Set(ctx, m.Key(name), value); err != nil {
		m.metrics.CounterMemoOps.WithLabelValues("set", "error").Inc()
		return fmt.Errorf("save memo %s: %w", name, err)
	}
	m.metrics.CounterMemoOps.WithLabelValues("set", "ok").Inc()
	return nil
}

func (m *Memo) Forget(ctx context.Context, name string) error {
	if err := m.store.Delete(ctx, m.Key(name)); err != nil {
		return fmt.Errorf("forget memo %s: %w", name, err)
	}
	return nil
}
