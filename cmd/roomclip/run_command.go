package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"roomclip/internal/api"
	"roomclip/internal/daemon"
	"roomclip/internal/logging"
	"roomclip/internal/preflight"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the slicing daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := ctx.buildLogger(true)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !skipPreflight {
				results := preflight.RunAll(runCtx, cfg)
				for _, result := range results {
					if result.Passed {
						logger.Debug("preflight check passed",
							logging.String("check", result.Name),
							logging.String("detail", result.Detail))
						continue
					}
					logger.Error("preflight check failed",
						logging.String("check", result.Name),
						logging.String("detail", result.Detail))
				}
				if !preflight.AllPassed(results) {
					return fmt.Errorf("preflight checks failed; fix the reported problems or pass --skip-preflight")
				}
			}

			st, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}

			w, err := ctx.buildWorker(st, logger)
			if err != nil {
				st.Close()
				return err
			}

			var server *api.Server
			if cfg.API.Enabled {
				server = api.New(cfg.API.Bind, st, w, logger)
			}

			d, err := daemon.New(cfg, st, w, server, logger)
			if err != nil {
				st.Close()
				return err
			}
			defer d.Close()

			if err := d.Start(runCtx); err != nil {
				return err
			}

			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks at startup")
	return cmd
}
