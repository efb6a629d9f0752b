package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"roomclip/internal/blob"
	"roomclip/internal/config"
	"roomclip/internal/logging"
	"roomclip/internal/services/ffmpeg"
	"roomclip/internal/store"
	"roomclip/internal/worker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

func (c *commandContext) buildLogger(toFile bool) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if toFile {
		opts.OutputPaths = []string{"stdout", filepath.Join(cfg.Paths.LogDir, "roomclip.log")}
	}
	return logging.New(opts)
}

func (c *commandContext) buildWorker(st *store.Store, logger *slog.Logger) (*worker.SessionWorker, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	blobs, err := blob.NewLocal(cfg.Paths.StorageDir, cfg.Storage.BaseURL)
	if err != nil {
		return nil, err
	}
	cutter, err := ffmpeg.New(cfg.FFmpegBinary(), cfg.Slicing.CutTimeout)
	if err != nil {
		return nil, err
	}
	return worker.New(cfg, st, blobs, cutter, logger)
}
