package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process [session-id]",
		Short: "Run one slicing pass without starting the daemon",
		Long: "Process a single session by id, or scan once for every session " +
			"awaiting slicing when no id is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.buildLogger(false)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			st, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer st.Close()

			w, err := ctx.buildWorker(st, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				claimed, err := w.ProcessOne(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !claimed {
					return fmt.Errorf("session %s is not awaiting processing", args[0])
				}
				session, err := st.GetSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Session %s finished with status %s\n", session.ID, session.Status)
				if session.ErrorMessage != "" {
					fmt.Fprintf(out, "Error: %s\n", session.ErrorMessage)
				}
				return nil
			}

			processed, err := w.ProcessEligibleOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Processed %d session(s)\n", processed)
			return nil
		},
	}
}
