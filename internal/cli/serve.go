package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/contrastcheck/internal/bridge"
	"github.com/spf13/cobra"
)

func newServeCmd(g *globals) *cobra.Command {
	sel := &selectionFlags{}

	cmd := &cobra.Command{
		Use:   "serve <document>",
		Short: "Answer panel messages as newline-delimited JSON on stdin/stdout",
		Long: `Serve loads the document and then reads one JSON message per line from stdin,
writing replies to stdout. Logs go to stderr.

Inbound:  {"type":"check-contrast"}
          {"type":"highlight-failed-texts"}
          {"type":"clear-highlights"}
          {"type":"set-selection","ids":["node-id", ...]}
          {"type":"reload"}

Outbound: {"type":"check-complete","data":{...}}
          {"type":"check-error","error":"..."}
          {"type":"notify","message":"...","error":false}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.openWorkspace(args[0], sel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := g.logger.Named("bridge")
			rt := bridge.New(g.newChecker(ws), ws, bridge.NewEncoder(cmd.OutOrStdout()),
				bridge.WithLogger(logger),
				bridge.WithDebug(g.verbose),
			)

			in := make(chan bridge.Inbound)
			go func() {
				if err := bridge.Pump(ctx, bridge.NewDecoder(cmd.InOrStdin()), in, logger); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("input closed", "error", err)
				}
			}()

			logger.Info("serving", "document", ws.Document().Name)
			if err := rt.Run(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("stopped")
			return nil
		},
	}

	sel.register(cmd)
	return cmd
}
