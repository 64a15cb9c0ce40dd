// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package supervisor provides process supervision for Bookpath using suture v4.

# Overview

The tree separates request serving from background work:

	RootSupervisor ("bookpath")
	├── APISupervisor ("api-layer")
	│   └── HTTPServerService
	└── WorkerSupervisor ("worker-layer")
	    └── MemoSummaryService

A memo worker crash is restarted inside the worker layer and never takes the
HTTP server down with it.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddWorkerService(memoWorker)

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events are logged through sutureslog, bridged to zerolog by
logging.NewSlogHandler.

# Configuration

Zero TreeConfig fields take suture's defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# What Is NOT Supervised

The database handle is not a service. DuckDB is embedded and the Postgres
pool reconnects on its own; both are closed by main after the tree stops.

# Debugging Shutdown Issues

	report, _ := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("service did not stop")
	}
*/
package supervisor
