// Package services implements the application layer of jobsched.
//
// Services sit between the HTTP handlers and the scheduler core. They own the
// goroutines around the scheduler: the tick loop that calls Update, and the
// optional workload generator.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── JobService ──────► Scheduler, Store, TickService
//	    ├── WorkloadService ─► JobService
//	    └── TickService ─────► Scheduler
//
// # TickService
//
// TickService is the single owner of Scheduler.Update. It calls Update on
// every tick of its interval (16ms by default, one frame at 60Hz) until it is
// stopped:
//
//	┌─────────┐  Start()   ┌─────────┐
//	│ Stopped │ ─────────► │ Running │ ──┐ every interval:
//	└─────────┘ ◄───────── └─────────┘ ◄─┘   Update(), ticks++
//	              Stop()
//
// Stop waits for the Update in progress to return. After Stop the caller may
// take ownership of Update, for instance to drain the mailbox once the
// scheduler is shut down.
//
// # JobService
//
// JobService builds synthetic jobs: the entry point sleeps for the requested
// duration and returns false when the job is asked to fail. Both callbacks
// write a JobRecord to the history store:
//
//	Submit(SyntheticJob)
//	    │
//	    ▼
//	Scheduler.Submit ──► worker runs entry ──► mailbox
//	                                              │
//	                                 Update (tick goroutine)
//	                                              │
//	                                              ▼
//	                               onSuccess / onFailure
//	                                              │
//	                                              ▼
//	                                 store.Jobs().Insert(record)
//
// A job rejected by Submit never reaches the history.
//
// Status assembles a SchedulerStatus from the scheduler diagnostics (workers,
// queue depths, pending callbacks, counters) and the tick counter.
//
// # WorkloadService
//
// WorkloadService submits random jobs through JobService. Submission is paced
// by a token bucket (golang.org/x/time/rate) of Rate jobs per second with the
// configured Burst. Job types and priorities are drawn from a fixed mix
// weighted towards general work at normal priority.
//
// Key behaviors:
//   - Each Start opens a batch identified by a uuid, stored with every record
//   - Jobs rejected because their queue is full are counted and skipped
//   - The generator exits when the scheduler stops accepting jobs
//   - Stop cancels the generator and waits for it to exit
package services
