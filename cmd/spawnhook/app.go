package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kingrea/spawnhook/internal/config"
	"github.com/kingrea/spawnhook/internal/logging"
	"github.com/kingrea/spawnhook/internal/spawn"
)

// app bundles what every subcommand needs: the project config, the run log,
// and a processor carrying the effective alias table.
type app struct {
	projectDir string
	cfg        *config.Config
	logger     *logging.Logger
	processor  *spawn.Processor
}

// loadApp resolves the project directory and loads its config. A broken
// config is reported on stderr and replaced by defaults when lenient is
// set, so the filter never blocks the host over a typo.
func loadApp(projectFlag string, stderr io.Writer, lenient bool) (*app, error) {
	project := projectFlag
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		if !lenient {
			return nil, err
		}
		fmt.Fprintf(stderr, "spawnhook: %v (using builtin aliases)\n", err)
		cfg = &config.Config{
			ProjectDir: absoluteProject,
			HookDir:    filepath.Join(absoluteProject, config.ProjectDirName),
		}
	}
	a := &app{
		projectDir: absoluteProject,
		cfg:        cfg,
		processor:  spawn.NewProcessor(spawn.WithAliases(cfg.AliasOverrides())),
	}
	if cfg.LoggingEnabled() {
		logger, err := logging.New(cfg.LogPath())
		if err != nil {
			fmt.Fprintf(stderr, "spawnhook: %v\n", err)
		} else {
			a.logger = logger
		}
	}
	return a, nil
}

func (a *app) Close() error {
	if a == nil {
		return nil
	}
	return a.logger.Close()
}
