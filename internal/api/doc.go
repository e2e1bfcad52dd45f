// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package api provides the HTTP surface of the recommendation service.
//
// # Endpoints
//
//	GET  /recommend_movies?m=<title>&c=<count>  {"recommended_movies": [...]}
//	GET  /recommend_books?b=<title>&c=<count>   {"recommended_books": [...]}
//	GET  /popular_books?c=<count>               {"popular_books": [...]}
//	POST /recommend {"movie": "...", "count": n} {"recommended_movies": [...]}
//	GET  /recommend?m=<title>&c=<count>         alias of /recommend_movies
//	GET  /health/live, /health/ready            probes
//	GET  /metrics                               Prometheus exposition
//
// Every error body is {"error": "<message>"}. Validation and not-found
// failures answer 404; anything unexpected answers 500.
//
// # Middleware
//
// Routing uses Chi with go-chi/cors for CORS, go-chi/httprate for per-IP
// rate limiting and chi's Recoverer. Each request gets an X-Request-ID that
// is attached to the zerolog context logger.
package api
