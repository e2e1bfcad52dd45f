// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
)

// rootOptions holds persistent flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd creates the marquee command tree.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "marquee",
		Short: "Content-based movie and book recommendations",
		Long: `marquee works with the precomputed similarity artifacts served by the
Marquee server. Configuration is read exactly like the server does:
defaults, then config.yaml (or --config), then environment variables.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "C", "", "Config file (overrides CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(
		newFetchCmd(&opts),
		newValidateCmd(&opts),
		newRecommendCmd(&opts),
	)
	return cmd
}

// loadConfig loads configuration and initializes console logging on stderr.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	if opts.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, opts.configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    "console",
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})
	return cfg, nil
}
