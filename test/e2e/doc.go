/*
Package main provides the end-to-end tests of jobsched.

The suite runs against a jobsched instance started separately, and talks to
it through the diagnostics API only.

# Package Structure

	test/e2e/
	├── main.go          Entry point: flags, config, Ginkgo runner
	├── tests.go         Ginkgo test specs
	├── doc.go           This file
	└── service/
	    └── service.go   JobschedSvc, HTTP client for the diagnostics API

# Running

	jobsched run --server.mode=prod &
	go run ./test/e2e -api-url http://localhost:8000

Flags:
  - -api-url: base url of the API (default http://localhost:8000)
  - -timeout: how long Eventually waits for a job to be recorded (default 10s)

Jobs are recorded once a tick has delivered their callback, so assertions on
the job history use Eventually.
*/
package main
