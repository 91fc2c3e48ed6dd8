// Package scheduler implements a tick-driven job scheduler with typed worker affinity.
//
// Callers submit jobs from any goroutine without blocking. Jobs run on a fixed
// pool of workers, each locked to its own OS thread and restricted to a subset
// of job types. Completion callbacks are never run by the workers: they are
// posted to a mailbox and executed by Update, on the goroutine that drives the
// scheduler tick.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler                                 │
//	│                                                                     │
//	│   Submit(job) ──┬── high, no deps, free worker ──────────────┐      │
//	│                 │                                            │      │
//	│                 ▼                                            │      │
//	│  ┌──────────────────────┐                                    │      │
//	│  │ High   [j1] [j4] ... │──┐                                 │      │
//	│  ├──────────────────────┤  │                                 ▼      │
//	│  │ Normal [j2] [j5] ... │──┼── Update() ──►  ┌──────────┐ ┌──────────┐
//	│  ├──────────────────────┤  │    phase 1      │ Worker 0 │ │ Worker N │
//	│  │ Low    [j3] ...      │──┘                 │ gpu      │ │ general  │
//	│  └──────────────────────┘                    └────┬─────┘ └────┬─────┘
//	│                                                   │            │    │
//	│                                                   ▼            ▼    │
//	│                                             ┌─────────────────────┐ │
//	│             Update() phase 2 ◄──────────────│   Result mailbox    │ │
//	│             (callbacks on caller)           └─────────────────────┘ │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Worker Affinity
//
// Init assigns each worker a type mask once:
//
//	┌─────────────────────────────┬────────────────────────────────────────────┐
//	│ Configuration               │ Masks                                      │
//	├─────────────────────────────┼────────────────────────────────────────────┤
//	│ 1 worker or single-threaded │ w0: general|resource-load|gpu-resource     │
//	│ renderer                    │ w1..wN-1: general                          │
//	│ 2 workers                   │ w0: general|gpu-resource                   │
//	│                             │ w1: general|resource-load                  │
//	│ 3+ workers                  │ w0: gpu-resource, w1: resource-load        │
//	│                             │ w2..wN-1: general                          │
//	└─────────────────────────────┴────────────────────────────────────────────┘
//
// GPU submission and resource loading are therefore always performed by the
// same worker, and since workers never migrate between OS threads, by the same
// thread.
//
// # Job Lifecycle
//
//  1. Submit validates the job and allocates a handle from a per-scheduler
//     atomic counter.
//  2. A high priority job without dependencies is offered to the workers in
//     index order. The first free worker whose mask intersects the job type
//     takes it, before any tick.
//  3. Any other job is appended to the queue of its priority. A full queue
//     rejects the job with a QueueFullError; the handle is still returned.
//  4. Update drains High, then Normal, then Low. Each queue hands its head to
//     the first free matching worker and stops at the first head that cannot
//     be placed. A queue never skips its head.
//  5. The worker runs the entry point outside of any lock. Depending on the
//     result it posts onSuccess or onFailure to the mailbox.
//  6. Update runs every callback present in the mailbox when the drain starts.
//     Entries posted during the drain wait for the next tick.
//
// Worker Lifecycle:
//
//	┌───────────┐   tryAssign (Submit/Update)   ┌───────────┐
//	│   Idle    │ ────────────────────────────► │   Busy    │
//	│ slot nil  │                               │ slot = j  │
//	└───────────┘                               └─────┬─────┘
//	      ▲                                           │
//	      │      run entry, post callback, clear slot │
//	      └───────────────────────────────────────────┘
//
// An idle worker sleeps according to its idle BackOff (a constant 1ms by
// default) and looks at its slot again. Assignment also sends a non-blocking
// wake-up so a freshly assigned job does not wait for the sleep to end.
//
// # Failure Handling
//
// An entry point returning false is a job failure, not a scheduler error: it
// is reported through onFailure and otherwise handled like a success. A panic
// inside an entry point is recovered, logged and reported as a failure. A
// panic inside a callback is recovered and logged by Update; the remaining
// callbacks of the tick still run.
//
// There are no retries, timeouts or cancellation. A job blocking forever
// stalls its worker, and queued jobs needing that worker's mask wait behind
// it. Every tick on which a queue head cannot be placed is counted in
// Stats.Stalls.
//
// Dependencies are copied into the job and bounded by MaxDependencies, but they
// do not gate dispatch. Declaring any dependency only disables the direct
// dispatch on Submit.
//
// # Usage Example
//
//	s := scheduler.NewScheduler(scheduler.WithQueueCapacity(256))
//	if err := s.Init(4, renderer.Static{MultiThreaded: true}); err != nil {
//	    return err
//	}
//	defer s.Shutdown()
//
//	_, err := s.Submit(scheduler.Job{
//	    Type:      scheduler.JobTypeResourceLoad,
//	    Priority:  scheduler.PriorityNormal,
//	    Entry:     func() bool { return load(path) == nil },
//	    OnSuccess: func() { fmt.Println("loaded") },
//	    OnFailure: func() { fmt.Println("failed") },
//	})
//
//	for running {
//	    s.Update() // once per frame
//	}
package scheduler
