// Package common builds the dependencies shared by the newsbrief commands.
package common

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsbrief/internal/config"
	"github.com/jonesrussell/newsbrief/internal/logger"
	"github.com/jonesrussell/newsbrief/internal/metrics"
)

// Deps bundles the collaborators every command starts from.
type Deps struct {
	Config  *config.Config
	Logger  logger.Interface
	Metrics *metrics.Metrics
}

// NewCommandDeps loads configuration from the command's persistent flags
// and constructs the logger and metrics registry.
func NewCommandDeps(cmd *cobra.Command) (*Deps, error) {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("read config flag: %w", err)
	}

	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, fmt.Errorf("read debug flag: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.Logger
	if debug {
		logCfg.Level = "debug"
		logCfg.Development = true
	}

	return &Deps{
		Config:  cfg,
		Logger:  logger.New(logCfg),
		Metrics: metrics.New(),
	}, nil
}
