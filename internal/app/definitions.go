package app

import (
	"fmt"

	"github.com/2beens/gymsheets/internal/config"
	"github.com/2beens/gymsheets/internal/dashboards"
	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/periodization"
	"github.com/2beens/gymsheets/internal/tabular"

	"go.uber.org/multierr"
)

// DashboardDefinitions resolves the A1 references of the configured dashboards.
// Every broken dashboard is reported, not only the first one.
func DashboardDefinitions(cfgs []config.DashboardConfig) ([]dashboards.Definition, error) {
	var errs error
	defs := make([]dashboards.Definition, 0, len(cfgs))
	for _, c := range cfgs {
		def, err := dashboardDefinition(c)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("dashboard %s: %w", c.Name, err))
			continue
		}
		defs = append(defs, def)
	}
	if errs != nil {
		return nil, errs
	}
	return defs, nil
}

func dashboardDefinition(c config.DashboardConfig) (dashboards.Definition, error) {
	variant, err := dashboards.ParseVariant(c.Variant)
	if err != nil {
		return dashboards.Definition{}, err
	}
	nanPolicy, err := numeric.ParseNaNPolicy(c.NaNPolicy)
	if err != nil {
		return dashboards.Definition{}, err
	}

	inputs := make([]tabular.Region, 0, len(c.Inputs))
	for _, ref := range c.Inputs {
		region, err := tabular.ParseRegion(ref)
		if err != nil {
			return dashboards.Definition{}, fmt.Errorf("input: %w", err)
		}
		inputs = append(inputs, region)
	}
	output, err := tabular.ParseRegion(c.Output)
	if err != nil {
		return dashboards.Definition{}, fmt.Errorf("output: %w", err)
	}

	microcycles := c.Microcycles
	if microcycles == 0 {
		microcycles = 1
	}

	def := dashboards.Definition{
		Name:            c.Name,
		Variant:         variant,
		Inputs:          inputs,
		Output:          output,
		MicrocycleCount: microcycles,
		NaNPolicy:       nanPolicy,
	}

	switch variant {
	case dashboards.VariantTimedStrength:
		args := dashboards.TimedStrengthArgs{
			Previous1RM:          c.Previous1RM,
			MinSetsPerMicrocycle: c.MinSetsPerMicrocycle,
			StartSequenceNumber:  c.StartSequenceNumber,
		}
		if c.Previous1RMRef != "" {
			ref, err := tabular.ParseRegion(c.Previous1RMRef)
			if err != nil {
				return dashboards.Definition{}, fmt.Errorf("previous 1RM ref: %w", err)
			}
			args.Previous1RMRef = &ref
		}
		def.TimedStrength = args
	case dashboards.VariantGripStrength:
		def.GripStrength = dashboards.GripStrengthArgs{
			StartMicrocycle: c.StartMicrocycle,
		}
	}
	return def, nil
}

// PeriodizationLayouts resolves the A1 references of the configured periodization sheets.
func PeriodizationLayouts(cfgs []config.PeriodizationConfig) ([]periodization.Layout, error) {
	var errs error
	layouts := make([]periodization.Layout, 0, len(cfgs))
	for _, c := range cfgs {
		layout := periodization.Layout{Name: c.Name}
		refs := []struct {
			name string
			ref  string
			dst  *tabular.Region
		}{
			{"watched", c.Watched, &layout.Watched},
			{"e1rm", c.E1RM, &layout.E1RM},
			{"bodyweight", c.Bodyweight, &layout.Bodyweight},
			{"required_rpe", c.RequiredRPE, &layout.RequiredRPE},
			{"intensities", c.Intensities, &layout.Intensities},
			{"reps", c.Reps, &layout.Reps},
			{"output", c.Output, &layout.Output},
		}

		var layoutErr error
		for _, r := range refs {
			region, err := tabular.ParseRegion(r.ref)
			if err != nil {
				layoutErr = multierr.Append(layoutErr, fmt.Errorf("%s: %w", r.name, err))
				continue
			}
			*r.dst = region
		}
		if layoutErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("periodization %s: %w", c.Name, layoutErr))
			continue
		}
		layouts = append(layouts, layout)
	}
	if errs != nil {
		return nil, errs
	}
	return layouts, nil
}
