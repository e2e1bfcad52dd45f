// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package config provides centralized configuration management for Marquee.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. The merged tree is unmarshaled into
Config and validated before use.

# Config File

The first existing file among CONFIG_PATH, config.yaml, config.yml,
marquee.yaml and /etc/marquee/config.yaml is loaded:

	artifacts:
	  dir: /data
	movies:
	  entities:
	    path: movies.csv
	    url: https://example.com/artifacts/movies.csv
	  matrix:
	    path: movies_similarity.npy
	  list_columns: [genres, keywords]
	books:
	  enabled: false

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, SERVER_TIMEOUT, IDLE_TIMEOUT, SHUTDOWN_TIMEOUT, ENVIRONMENT

Security:
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Artifacts:
  - ARTIFACTS_DIR, ARTIFACTS_FETCH_TIMEOUT, ARTIFACTS_RELOAD_INTERVAL
  - MOVIES_ENTITIES_PATH / _URL, MOVIES_MATRIX_PATH / _URL
  - BOOKS_ENTITIES_PATH / _URL, BOOKS_MATRIX_PATH / _URL, BOOKS_AUX_PATH / _URL,
    BOOKS_DETAILS_PATH / _URL, BOOKS_POPULAR_PATH / _URL

Enrichment:
  - OMDB_API_KEY, OMDB_BASE_URL, OMDB_TIMEOUT, OMDB_MAX_CONCURRENCY,
    OMDB_RATE_LIMIT, OMDB_RATE_BURST, OMDB_CACHE_SIZE, OMDB_CACHE_TTL,
    OMDB_BREAKER_ENABLED

Unmapped environment variables are ignored.
*/
package config
