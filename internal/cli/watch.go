package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/contrastcheck/internal/colour"
	"github.com/jmylchreest/contrastcheck/internal/report"
	"github.com/jmylchreest/contrastcheck/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(g *globals) *cobra.Command {
	f := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "watch <document>",
		Short: "Re-run the check every time the document file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(f.format)
			if err != nil {
				return err
			}

			ws, err := g.openWorkspace(args[0], &f.selection)
			if err != nil {
				return err
			}
			c := g.newChecker(ws)
			out := cmd.OutOrStdout()
			opts := report.Options{Preview: f.preview, Colour: colour.SupportsANSIColours()}

			run := func() {
				summary, err := c.CheckSelection()
				if err != nil {
					g.reportRunError(out, err, opts.Colour)
					return
				}
				if err := report.Write(out, format, summary, c.Policy(), opts); err != nil {
					g.logger.Error("failed to write report", "error", err)
				}
			}

			w, err := watch.New(args[0], g.cfg.Watch.Debounce, g.logger.Named("watch"))
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				_ = w.Stop()
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			run()
			for {
				select {
				case <-ctx.Done():
					if errors.Is(ctx.Err(), context.Canceled) {
						return nil
					}
					return ctx.Err()
				case <-w.Changes():
					if err := ws.Reload(); err != nil {
						g.reportRunError(out, fmt.Errorf("reload failed: %w", err), opts.Colour)
						continue
					}
					if !g.quiet {
						fmt.Fprintf(out, "\n--- %s changed, re-checking ---\n\n", args[0])
					}
					run()
				}
			}
		},
	}

	f.selection.register(cmd)
	cmd.Flags().StringVarP(&f.format, "format", "f", "table", "output format (table, json)")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "show each text rendered in its resolved colours")

	return cmd
}

// reportRunError prints a failed run and keeps watching.
func (g *globals) reportRunError(w io.Writer, err error, useColour bool) {
	if !isUserError(err) {
		g.logger.Error("check failed", "error", err)
	}
	if werr := report.WriteNotice(w, err.Error(), true, useColour); werr != nil {
		g.logger.Error("failed to write notice", "error", werr)
	}
}
