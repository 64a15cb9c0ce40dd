// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package services provides suture.Service wrappers for Bookpath components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer, which suture uses to name the service in its events.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts http.ErrServerClosed to a clean return

Memo Worker (MemoSummaryService):
  - Summarizes reading-log memos in the background
  - Owns a bounded job queue that outlives Serve restarts
  - Stores a fallback summary when generation fails

# Usage

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddWorkerService(memoWorker)
*/
package services
