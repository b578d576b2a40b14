// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/agora/conversation"
	"github.com/katalvlaran/agora/worker"
)

// newWorker builds a worker with the configured engine; ext feeds stored
// extremity into priorities.
func (e *env) newWorker(src worker.Source, sink worker.Sink, ext conversation.ExtremitySource) (*worker.Worker, error) {
	opts, err := e.cfg.Worker.Options()
	if err != nil {
		return nil, err
	}
	convOpts := append(e.cfg.Engine.ConversationOptions(), conversation.WithExtremitySource(ext))
	opts = append(opts,
		worker.WithLogger(e.log),
		worker.WithConversationOptions(convOpts...),
	)

	return worker.New(src, sink, opts...)
}

// RunCmd runs the ingestion loop until interrupted.
func RunCmd(e *env) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest votes and recompute conversations continuously",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			w, err := e.newWorker(st, st, st)
			if err != nil {
				return err
			}

			if once {
				round, err := w.RunOnce(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"conversations=%d votes=%d recomputed=%d throttled=%d discarded=%d failed=%d\n",
					round.Conversations, round.Votes, round.Recomputed,
					round.Throttled, round.Discarded, round.Failed)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			e.log.Info("worker started", "db", e.cfg.Store.Path, "interval", e.cfg.Worker.Interval)
			err = w.Run(ctx)
			e.log.Info("worker stopped")

			return err
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single round and print its summary")

	return cmd
}
