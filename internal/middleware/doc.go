// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package middleware provides HTTP middleware components for the API server.

All middleware here uses the http.HandlerFunc signature. The api package
adapts them to chi's func(http.Handler) http.Handler form when building the
router.

Key Components:

  - RequestID: X-Request-ID propagation plus request/correlation IDs on the
    logging context
  - AccessLog: one zerolog line per request
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    chi route pattern
  - Compression: gzip for clients sending Accept-Encoding: gzip

Middleware Stack:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.AccessLog))
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.Use(chiMiddleware(middleware.Compression))
	    ...
	})

Thread Safety:

All middleware is stateless apart from the pooled gzip writers and the
Prometheus collectors, both safe for concurrent use.

See Also:

  - internal/api: router and handlers wrapped by this middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
