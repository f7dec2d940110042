package cli

import (
	"fmt"

	"github.com/2beens/gymsheets/internal/periodization"
	"github.com/2beens/gymsheets/internal/tabular"

	"github.com/spf13/cobra"
)

func newEditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <periodization> <range>",
		Short: "Replay an edit event, e.g. edit st-estimation \"'03-STEstimation'!O5\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			edited, err := tabular.ParseRegion(args[1])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			outcome := periodization.OutcomeIgnored
			defer func() {
				if finishErr := finish(a, outcome == periodization.OutcomeRecomputed); finishErr != nil && err == nil {
					err = finishErr
				}
			}()

			outcome, err = a.Periodizations.OnEdit(cmd.Context(), args[0], edited)
			if err != nil {
				return fmt.Errorf("edit %s: %w", args[0], err)
			}

			return newPrinter(cmd, opts).print(periodization.EditResponse{
				Periodization: args[0],
				Outcome:       outcome,
			}, "%s: %s", args[0], outcome)
		},
	}
}
