// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

/*
Package main is the entry point for the Bookpath server.

Bookpath keeps a reading log of a young child's books and recommends what
to read next, both from the family library and from new Aladin arrivals.

# Application Architecture

	RootSupervisor ("bookpath")
	├── APISupervisor ("api-layer")
	│   └── HTTP Server (chi router, /api/v1)
	└── WorkerSupervisor ("worker-layer")
	    └── Memo summary worker

Initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog JSON lines tagged with service and component
 3. Database: DuckDB file or Postgres (STORAGE_DRIVER)
 4. Catalog: Aladin TTB client, disabled without ALADIN_TTB_KEY
 5. Text generation: OpenAI Responses client, disabled without OPENAI_API_KEY
 6. Recommendation engine and library service
 7. Supervisor Tree: Suture v4 process supervision

Without the optional keys the server still runs: library recommendations use
rule-based reasons, new-book lists are empty and guides are skipped.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT, then the catalog cache and the database are closed.

# Example Usage

	export DUCKDB_PATH=./bookpath.duckdb
	export ALADIN_TTB_KEY=ttbkey
	export OPENAI_API_KEY=sk-...
	./bookpath
*/
package main
