// Package store implements the job history for jobsched.
//
// The history is kept in DuckDB, in memory by default or in a file when a path
// is configured. Every job whose callback was delivered by the scheduler tick is
// recorded by the job service, so the diagnostics API can show what ran, when and
// with which outcome.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│                           JobStore                              │
//	│                              ▼                                  │
//	│                         job_history                             │
//	├─────────────────────────────────────────────────────────────────┤
//	│                QueryInterceptor (debug query log)               │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  job_history       │  One row per delivered job                  │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// Schema:
//
//	job_history (
//	    scheduler_id VARCHAR,      -- scheduler instance (uuid)
//	    handle UBIGINT,            -- job handle, unique per scheduler
//	    batch_id VARCHAR,
//	    job_type VARCHAR,          -- e.g. "general|gpu-resource"
//	    priority VARCHAR,          -- low, normal, high
//	    outcome VARCHAR,           -- success, failure
//	    submitted_at TIMESTAMP,
//	    completed_at TIMESTAMP,    -- callback delivery time
//	    run_ms BIGINT,             -- time spent in the entry point
//	    PRIMARY KEY (scheduler_id, handle)
//	)
//
// # Initialization Flow
//
//	NewDB(path)
//	    └── Opens DuckDB (":memory:" for an in-memory database)
//
//	NewStore(db)
//	    └── Wraps db in a QueryInterceptor shared by the sub-stores
//
//	Store.Migrate(ctx)
//	    └── migrations.Run() → applies embedded sql/*.sql in version order
//
// # List Options
//
// JobStore.List and JobStore.Count use the functional options pattern. Each
// ListOption modifies the squirrel select builder:
//
//	records, err := store.Jobs().List(ctx,
//	    store.ByOutcome(models.JobOutcomeFailure),
//	    store.ByPriority("high"),
//	    store.WithLimit(50),
//	    store.WithOffset(0),
//	)
//
// Records are ordered by completion time, most recent first.
package store
