// Package config defines the configuration structure for jobsched.
//
// Configuration is organized into logical sections (Server, Scheduler, Workload, Store).
// Defaults come from `default` struct tags applied with creasty/defaults and are
// overlaid by viper with, in increasing precedence, the config file, JOBSCHED_*
// environment variables and command line flags.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - Diagnostics HTTP API
//	├── Scheduler      - Worker pool and tick settings
//	├── Workload       - Synthetic job generator
//	├── Store          - Job history database
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Scheduler Configuration
//
//	┌──────────────────┬──────────┬────────────────────────────────────────────┐
//	│ Field            │ Default  │ Description                                │
//	├──────────────────┼──────────┼────────────────────────────────────────────┤
//	│ Threads          │ 4        │ Number of workers (1..32)                  │
//	│ Renderer         │ "vulkan" │ vulkan, opengl or headless                 │
//	│ QueueCapacity    │ 1024     │ Capacity of each priority queue            │
//	│ IdleInterval     │ 1ms      │ Idle worker poll interval                  │
//	│ IdleMax          │ 0s       │ If set, idle polls back off up to this     │
//	│ TickInterval     │ 16ms     │ Period of the Update tick                  │
//	└──────────────────┴──────────┴────────────────────────────────────────────┘
//
// The renderer name decides whether GPU jobs may be isolated on their own
// worker (vulkan, headless) or must share worker 0 with every other job type
// (opengl).
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ Enabled          │ true    │ Serve the diagnostics API              │
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Workload Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ Enabled          │ false   │ Generate synthetic jobs                │
//	│ Rate             │ 50      │ Jobs per second                        │
//	│ Burst            │ 10      │ Rate limiter burst                     │
//	│ MaxDuration      │ 20ms    │ Upper bound of a synthetic job run     │
//	│ FailureRate      │ 0.1     │ Share of synthetic jobs failing        │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Debug Logging
//
// DebugMap flattens the configuration for structured logging:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
