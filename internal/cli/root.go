// Package cli is the operator command line: run dashboards, replay edit
// events and use the estimation helpers against the configured workbook.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/2beens/gymsheets/internal/app"
	"github.com/2beens/gymsheets/internal/config"
	"github.com/2beens/gymsheets/internal/logging"

	"github.com/spf13/cobra"
)

var validFormats = []string{"text", "json"}

// RootOptions holds the global flags.
type RootOptions struct {
	Env        string
	ConfigPath string
	Format     string
	LogLevel   string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gymsheets",
		Short: "Training log dashboards and periodization tooling",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			logging.Setup(logging.LoggerSetupParams{
				Console:   cmd.ErrOrStderr(),
				LogLevel:  opts.LogLevel,
				Component: "cli",
			})
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Env, "env", "development", "environment [prod | production | dev | development]")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "./config.toml", "path for the TOML config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level")

	cmd.AddCommand(newDashboardsCommand(opts))
	cmd.AddCommand(newEditCommand(opts))
	cmd.AddCommand(newE1RMCommand(opts))
	cmd.AddCommand(newPlatesCommand(opts))
	cmd.AddCommand(newDurationCommand(opts))

	return cmd
}

// openApp loads the config and wires the app with the CLI metrics subsystem.
func openApp(ctx context.Context, opts *RootOptions) (*app.App, error) {
	cfg, err := config.Load(opts.Env, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, app.Params{
		Config:                cfg,
		Subsystem:             "cli",
		GoogleCredentialsFile: os.Getenv("GYMSHEETS_GOOGLE_CREDENTIALS"),
		RedisPassword:         os.Getenv("GYMSHEETS_REDIS_PASS"),
		PostgresPassword:      os.Getenv("GYMSHEETS_POSTGRES_PASS"),
	})
}

// finish saves a local workbook after writes and closes the app.
func finish(a *app.App, wrote bool) error {
	var err error
	if wrote && a.Workbook != nil {
		err = a.Workbook.Save()
	}
	if closeErr := a.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// printer writes either the text rendering or the JSON encoding of a result.
type printer struct {
	format string
	out    io.Writer
}

func newPrinter(cmd *cobra.Command, opts *RootOptions) *printer {
	return &printer{
		format: opts.Format,
		out:    cmd.OutOrStdout(),
	}
}

func (p *printer) print(v any, text string, args ...any) error {
	if p.format == "json" {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintf(p.out, text+"\n", args...)
	return err
}
