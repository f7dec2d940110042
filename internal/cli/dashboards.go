package cli

import (
	"fmt"

	"github.com/2beens/gymsheets/internal/dashboards"

	"github.com/spf13/cobra"
)

func newDashboardsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboards",
		Short: "List and run the configured dashboards",
	}
	cmd.AddCommand(newDashboardsListCommand(opts))
	cmd.AddCommand(newDashboardsRunCommand(opts))
	return cmd
}

func newDashboardsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured dashboards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = finish(a, false) }()

			p := newPrinter(cmd, opts)
			infos := a.Dashboards.List()
			if p.format == "json" {
				return p.print(dashboards.ListResponse{Dashboards: infos}, "")
			}
			for _, info := range infos {
				if err := p.print(nil, "%-24s %-16s %s", info.Name, info.Variant, info.Output); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newDashboardsRunCommand(opts *RootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "run [name...]",
		Short: "Run dashboards and write their output back to the workbook",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) == 0 && !all {
				return fmt.Errorf("name at least one dashboard or pass --all")
			}

			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			wrote := false
			defer func() {
				if finishErr := finish(a, wrote); finishErr != nil && err == nil {
					err = finishErr
				}
			}()

			names := args
			if all {
				names = nil
				for _, info := range a.Dashboards.List() {
					names = append(names, info.Name)
				}
			}

			p := newPrinter(cmd, opts)
			for _, name := range names {
				res, err := a.Dashboards.Run(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("run %s: %w", name, err)
				}
				wrote = wrote || res.RowsWritten > 0
				if err := p.print(res, "%s: %d entries, %d rows written to %s in %s",
					res.Pipeline, res.Entries, res.RowsWritten, res.Output, res.Duration); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "run every configured dashboard")
	return cmd
}
