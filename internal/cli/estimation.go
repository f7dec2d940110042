package cli

import (
	"fmt"
	"strconv"

	"github.com/2beens/gymsheets/internal/estimation"
	"github.com/2beens/gymsheets/internal/numeric"

	"github.com/spf13/cobra"
)

func newE1RMCommand(opts *RootOptions) *cobra.Command {
	var (
		o   estimation.Observation
		rpe float64
	)
	cmd := &cobra.Command{
		Use:   "e1rm",
		Short: "Estimate the one rep max of a set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("rpe") {
				o.RPE = estimation.RPE(rpe)
			}
			e1rm, err := estimation.EstimateOneRM(o)
			if err != nil {
				return err
			}
			return newPrinter(cmd, opts).print(estimation.EstimateResponse{E1RM: e1rm}, "%.2f", e1rm)
		},
	}
	cmd.Flags().Float64Var(&o.Weight, "weight", 0, "lifted weight")
	cmd.Flags().Float64Var(&o.Bodyweight, "bodyweight", 0, "bodyweight, for bodyweight movements")
	cmd.Flags().Float64Var(&o.Reps, "reps", 0, "repetitions")
	cmd.Flags().Float64Var(&rpe, "rpe", 10, "rated perceived exertion, 10 when omitted")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("reps")
	return cmd
}

func newPlatesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plates <weight>",
		Short: "Round a weight to what the available plates can load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q: %w", args[0], err)
			}
			rounded := estimation.RoundToAvailablePlates(weight)
			return newPrinter(cmd, opts).print(estimation.PlatesResponse{
				Weight:  weight,
				Rounded: rounded,
			}, "%g", rounded)
		},
	}
}

func newDurationCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "duration <minutes> [seconds]",
		Short: "Split a duration into hours, minutes and seconds",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q: %w", args[0], err)
			}
			seconds := 0
			if len(args) == 2 {
				if seconds, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid seconds %q: %w", args[1], err)
				}
			}
			h, m, s := numeric.SplitDuration(minutes, seconds)
			return newPrinter(cmd, opts).print(estimation.DurationResponse{
				Hours:   h,
				Minutes: m,
				Seconds: s,
			}, "%dh %dm %ds", h, m, s)
		},
	}
}
