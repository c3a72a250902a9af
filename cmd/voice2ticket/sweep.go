package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one periodic sweep and exit",
		Long:  "Runs a single sweep invocation for hosts that schedule sweeps externally. The result is printed as JSON.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "jobs",
		Short: "Turn completed transcription jobs into tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context, app *application) (any, error) {
				return app.completion.Sweep(ctx)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "inactive",
		Short: "Close tickets inactive for seven days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context, app *application) (any, error) {
				return app.autoClose.CloseInactive(ctx)
			})
		},
	})
	return cmd
}

func runSweep(ctx context.Context, out io.Writer, run func(context.Context, *application) (any, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := run(ctx, app)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
