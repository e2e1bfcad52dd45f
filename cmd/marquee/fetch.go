// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/bootstrap"
	"github.com/tomtom215/marquee/internal/logging"
)

func newFetchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download missing remote artifacts",
		Long: `Download every configured artifact that has a remote url and is not
present locally yet. Files that already exist are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if err := bootstrap.FetchAll(cmd.Context(), cfg, logging.Logger()); err != nil {
				return err
			}
			for _, src := range bootstrap.Sources(cfg) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", src.Domain, src.Artifact, src.Path)
			}
			return nil
		},
	}
}
