package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"roomclip/internal/preflight"
	"roomclip/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show environment checks and session counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{result.Name, statusGlyph(result.Passed), result.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "OK", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			statRows := make([][]string, 0, 4)
			for _, status := range []store.Status{store.StatusUploading, store.StatusProcessing, store.StatusReady, store.StatusError} {
				statRows = append(statRows, []string{string(status), strconv.Itoa(stats[status])})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Status", "Sessions"},
				statRows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func statusGlyph(passed bool) string {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		if passed {
			return "✓"
		}
		return "✗"
	}
	if passed {
		return "ok"
	}
	return "FAIL"
}
