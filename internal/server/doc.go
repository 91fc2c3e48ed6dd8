// Package server provides the HTTP server of the jobsched diagnostics API.
//
// The server uses the Gin web framework. It serves plain HTTP in both modes;
// the mode only selects the Gin run mode.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap (request logging, "http" logger)                │  │
//	│  │  Recovery (panic recovery with zap logging)             │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  /health                                                │  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"):
//   - Gin runs in debug mode and prints its routes
//
// Production Mode (ServerMode = "prod"):
//   - Gin runs in release mode
//
// Unknown routes return a JSON 404 in both modes.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router gin.IRouter) {
//	    v1.RegisterHandlers(router, handler)
//	})
//	if err != nil {
//	    return err
//	}
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        zap.S().Errorw("server error", "error", err)
//	    }
//	}()
//
//	<-shutdownCh
//	srv.Stop(ctx)
//
// Start blocks until the server stops and returns nil after a graceful
// shutdown. Stop waits for in-flight requests to complete.
//
// # Middleware
//
// Logger Middleware (ginzap.GinzapWithConfig):
//   - Logs method, path, query, IP, user-agent, status and latency
//   - Timestamps in RFC3339, UTC
//   - /api/v1/health is not logged
//
// Recovery Middleware (ginzap.RecoveryWithZap):
//   - Recovers from panics in handlers
//   - Logs panic details with stack trace
//   - Returns 500 Internal Server Error
package server
