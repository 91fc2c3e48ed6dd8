// Package handlers implements the diagnostics API of jobsched.
//
// Handlers delegate to the services layer and only deal with request
// validation, response formatting and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request validation                                           │
//	│  - Parameter parsing                                            │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  JobService │ WorkloadService                                   │
//	└─────────────────────────────────────────────────────────────────┘
//
// Handler implements v1.ServerInterface, and routes are mounted with:
//
//	v1.RegisterHandlers(router, handler)
//
// # API Endpoints
//
// Scheduler Endpoints (scheduler.go):
//
//	┌────────┬────────────┬───────────────────────────────────────────┐
//	│ Method │ Endpoint   │ Description                               │
//	├────────┼────────────┼───────────────────────────────────────────┤
//	│ GET    │ /scheduler │ Status, counters and history totals       │
//	│ GET    │ /workers   │ Worker masks, current job, thread id      │
//	│ GET    │ /queues    │ Depth of the high, normal and low queues  │
//	└────────┴────────────┴───────────────────────────────────────────┘
//
// Job Endpoints (jobs.go):
//
//	┌────────┬────────────────┬───────────────────────────────────────┐
//	│ Method │ Endpoint       │ Description                           │
//	├────────┼────────────────┼───────────────────────────────────────┤
//	│ POST   │ /jobs          │ Submit a synthetic job                │
//	│ GET    │ /jobs          │ List job history with filters         │
//	│ GET    │ /jobs/{handle} │ Get the history record of one job     │
//	└────────┴────────────────┴───────────────────────────────────────┘
//
// Workload Endpoints (workload.go):
//
//	┌────────┬───────────┬────────────────────────────────────────────┐
//	│ Method │ Endpoint  │ Description                                │
//	├────────┼───────────┼────────────────────────────────────────────┤
//	│ GET    │ /workload │ Workload generator status                  │
//	│ POST   │ /workload │ Start generating jobs on a new batch       │
//	│ DELETE │ /workload │ Stop the generator                         │
//	└────────┴───────────┴────────────────────────────────────────────┘
//
// # Submitting Jobs
//
// POST /jobs accepts:
//
//	{
//	    "type":     "general|resource-load",  // names joined by | or ,
//	    "priority": "high",                   // low, normal, high
//	    "duration": "150ms",                  // optional, at most 1m
//	    "fail":     false                     // optional
//	}
//
// and answers 202 with the job handle. The job shows up in GET /jobs once a
// tick has delivered its callback.
//
// # Error Handling
//
//	┌─────────────────────────────┬───────────────────────────────────┐
//	│ Error                       │ Status                            │
//	├─────────────────────────────┼───────────────────────────────────┤
//	│ Malformed body or query     │ 400 Bad Request                   │
//	│ InvalidJobError             │ 400 Bad Request                   │
//	│ InvalidPriorityError        │ 400 Bad Request                   │
//	│ ResourceNotFoundError       │ 404 Not Found                     │
//	│ QueueFullError              │ 429 Too Many Requests (+ handle)  │
//	│ SchedulerStateError         │ 503 Service Unavailable           │
//	│ Store failures              │ 500 Internal Server Error         │
//	└─────────────────────────────┴───────────────────────────────────┘
//
// # Pagination
//
// GET /jobs accepts page (default 1) and pageSize (default 20, max 100), and
// the filters outcome, priority and batch. outcome and priority may be
// repeated. The response carries page, pageCount and total.
package handlers
