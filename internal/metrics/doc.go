// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3000/metrics

# Available Metrics

API Metrics:
  - api_requests_total (method, endpoint, status_code)
  - api_request_duration_seconds (method, endpoint)
  - api_active_requests

Storage Metrics:
  - db_query_duration_seconds (operation, table)
  - db_query_errors_total (operation, table)

Upstream Metrics (catalog and text generation):
  - upstream_request_duration_seconds (upstream, operation)
  - upstream_errors_total (upstream, operation)
  - circuit_breaker_state (name), 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total (name, result)
  - circuit_breaker_consecutive_failures (name)
  - circuit_breaker_state_transitions_total (name, from_state, to_state)
  - cache_hits_total, cache_misses_total (cache_type)

Recommendation Metrics:
  - recommendations_served_total (list)
  - recommendation_candidates (list)
  - recommendation_reason_source_total (source)
  - memo_summary_jobs_total (result)
  - memo_summary_queue_depth

# Example Alert

	- alert: ReasonGenerationDegraded
	  expr: sum(rate(recommendation_reason_source_total{source!="ai"}[15m]))
	        / sum(rate(recommendation_reason_source_total[15m])) > 0.5
	  for: 30m
*/
package metrics
