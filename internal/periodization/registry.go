package periodization

import (
	"context"
	"fmt"
	"slices"

	"github.com/2beens/gymsheets/internal/kvstore"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"
)

type Registry struct {
	matrices map[string]*Matrix
}

func NewRegistry(layouts []Layout, io readWriter, store kvstore.Store, metricsManager *metrics.Manager) (*Registry, error) {
	r := &Registry{
		matrices: make(map[string]*Matrix, len(layouts)),
	}
	for _, l := range layouts {
		if _, ok := r.matrices[l.Name]; ok {
			return nil, fmt.Errorf("duplicate periodization name: %s", l.Name)
		}
		r.matrices[l.Name] = NewMatrix(l, io, store, metricsManager)
	}
	return r, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.matrices))
	for name := range r.matrices {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) OnEdit(ctx context.Context, name string, edited tabular.Region) (Outcome, error) {
	m, ok := r.matrices[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return m.OnEdit(ctx, edited)
}
