// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/bootstrap"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/enrich"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/query"
	"github.com/tomtom215/marquee/internal/recommend"
)

// recommendOptions holds CLI flags for recommend.
type recommendOptions struct {
	domain  string
	query   string
	count   int
	enrich  bool
	popular bool
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	var opts recommendOptions

	cmd := &cobra.Command{
		Use:   "recommend [title]",
		Short: "Print recommendations as JSON",
		Long: `Rank the entities most similar to a title and print the result records.

Examples:
  marquee recommend --domain movies --query Inception -k 5
  marquee recommend Inception --enrich
  marquee recommend --domain books --popular -k 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && opts.query == "" {
				opts.query = args[0]
			}
			return runRecommend(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.domain, "domain", "d", config.DomainMovies, "Domain: movies or books")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Title to find similar entities for")
	cmd.Flags().IntVarP(&opts.count, "count", "k", 5, "Number of similar entities")
	cmd.Flags().BoolVar(&opts.enrich, "enrich", false, "Fetch poster URLs (needs OMDB_API_KEY)")
	cmd.Flags().BoolVar(&opts.popular, "popular", false, "Print the popularity listing instead")

	return cmd
}

func runRecommend(cmd *cobra.Command, root *rootOptions, opts recommendOptions) error {
	if opts.domain != config.DomainMovies && opts.domain != config.DomainBooks {
		return fmt.Errorf("unknown domain %q (want %s or %s)", opts.domain, config.DomainMovies, config.DomainBooks)
	}

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	logger := logging.Logger()

	store, err := bootstrap.LoadStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	domains := bootstrap.QueryDomains(cfg)
	var enricher query.Enricher
	if opts.enrich {
		enricher = enrich.New(bootstrap.EnrichConfig(cfg), logger)
	} else {
		for i := range domains {
			domains[i].Enrich = false
		}
	}

	engine := recommend.NewEngine(&recommend.Config{IncludeSelf: cfg.Recommend.IncludeSelf}, logger)
	svc := query.NewService(catalog.NewHolder(store), engine, enricher, domains, logger)

	var records []catalog.Record
	if opts.popular {
		records, err = svc.Popular(cmd.Context(), opts.domain, &opts.count)
	} else {
		records, err = svc.Recommend(cmd.Context(), opts.domain, strings.TrimSpace(opts.query), &opts.count)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
