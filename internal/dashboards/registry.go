package dashboards

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/pipeline"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"
)

var (
	ErrNotFound       = errors.New("dashboard not found")
	ErrUnknownVariant = errors.New("unknown dashboard variant")
	ErrDuplicateName  = errors.New("duplicate dashboard name")
)

type Variant string

const (
	VariantTimedStrength Variant = "timed_strength"
	VariantGripStrength  Variant = "grip_strength"
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantTimedStrength, VariantGripStrength:
		return v, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownVariant)
	}
}

// Definition is everything needed to build one dashboard pipeline.
type Definition struct {
	Name            string
	Variant         Variant
	Inputs          []tabular.Region
	Output          tabular.Region
	MicrocycleCount int
	NaNPolicy       numeric.NaNPolicy

	TimedStrength TimedStrengthArgs
	GripStrength  GripStrengthArgs
}

// Build selects the strategy for the definition's variant.
func Build(def Definition, io pipeline.ReadWriter, metricsManager *metrics.Manager) (pipeline.Runner, error) {
	params := pipeline.Params{
		Name:            def.Name,
		Inputs:          def.Inputs,
		Output:          def.Output,
		MicrocycleCount: def.MicrocycleCount,
		NaNPolicy:       def.NaNPolicy,
	}

	switch def.Variant {
	case VariantTimedStrength:
		if def.TimedStrength.Previous1RMRef == nil && def.TimedStrength.Previous1RM <= 0 {
			return nil, fmt.Errorf("dashboard %s: previous 1RM must be positive or read from a cell", def.Name)
		}
		return pipeline.New[TimedStrengthEntry, TimedStrengthMetrics](
			params, io, NewTimedStrength(def.TimedStrength), metricsManager,
		), nil
	case VariantGripStrength:
		return pipeline.New[GripStrengthEntry, GripStrengthMetrics](
			params, io, NewGripStrength(def.GripStrength), metricsManager,
		), nil
	default:
		return nil, fmt.Errorf("dashboard %s, variant %q: %w", def.Name, def.Variant, ErrUnknownVariant)
	}
}

type Info struct {
	Name    string  `json:"name"`
	Variant Variant `json:"variant"`
	Output  string  `json:"output"`
}

// Registry holds the configured dashboards by name.
type Registry struct {
	runners map[string]pipeline.Runner
	infos   []Info
}

func NewRegistry(defs []Definition, io pipeline.ReadWriter, metricsManager *metrics.Manager) (*Registry, error) {
	r := &Registry{
		runners: make(map[string]pipeline.Runner, len(defs)),
	}
	for _, def := range defs {
		if _, ok := r.runners[def.Name]; ok {
			return nil, fmt.Errorf("%s: %w", def.Name, ErrDuplicateName)
		}
		runner, err := Build(def, io, metricsManager)
		if err != nil {
			return nil, err
		}
		r.runners[def.Name] = runner
		r.infos = append(r.infos, Info{
			Name:    def.Name,
			Variant: def.Variant,
			Output:  def.Output.String(),
		})
	}
	slices.SortFunc(r.infos, func(a, b Info) int {
		return strings.Compare(a.Name, b.Name)
	})
	return r, nil
}

func (r *Registry) List() []Info {
	return slices.Clone(r.infos)
}

func (r *Registry) Run(ctx context.Context, name string) (*pipeline.RunResult, error) {
	runner, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return runner.Run(ctx)
}
