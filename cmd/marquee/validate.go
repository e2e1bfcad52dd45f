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

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load every dataset and report its shape",
		Long: `Load every enabled dataset exactly as the server would at startup.
Exits non-zero when an artifact is missing, malformed or misaligned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			store, err := bootstrap.LoadStore(cmd.Context(), cfg, logging.Logger())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), bootstrap.Describe(store))
			return nil
		},
	}
}
