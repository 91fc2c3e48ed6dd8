package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/jobsched/api/v1"
	"github.com/kubev2v/jobsched/internal/config"
	"github.com/kubev2v/jobsched/internal/handlers"
	"github.com/kubev2v/jobsched/internal/logger"
	"github.com/kubev2v/jobsched/internal/metrics"
	"github.com/kubev2v/jobsched/internal/models"
	"github.com/kubev2v/jobsched/internal/server"
	"github.com/kubev2v/jobsched/internal/services"
	"github.com/kubev2v/jobsched/internal/store"
	"github.com/kubev2v/jobsched/pkg/renderer"
	"github.com/kubev2v/jobsched/pkg/scheduler"
)

const shutdownTimeout = 10 * time.Second

func newRunCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config file: %w", err)
				}
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			restore, err := logger.Setup(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer restore()

			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a configuration file (yaml, json or toml)")
	registerFlags(cmd.Flags())
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}

	return cmd
}

// registerFlags declares one flag per configuration key. Flags only override
// the configuration when set.
func registerFlags(fs *pflag.FlagSet) {
	d, err := config.NewConfigurationWithDefaults()
	if err != nil {
		panic(err)
	}

	fs.Bool("server.enabled", d.Server.Enabled, "Serve the diagnostics API")
	fs.String("server.mode", d.Server.ServerMode, "Server mode (dev, prod)")
	fs.Int("server.http-port", d.Server.HTTPPort, "Diagnostics API port")

	fs.Int("scheduler.threads", d.Scheduler.Threads, fmt.Sprintf("Number of workers (1-%d)", scheduler.MaxWorkers))
	fs.String("scheduler.renderer", d.Scheduler.Renderer, "Render backend (vulkan, opengl, headless)")
	fs.Int("scheduler.queue-capacity", d.Scheduler.QueueCapacity, "Capacity of each priority queue")
	fs.Duration("scheduler.idle-interval", d.Scheduler.IdleInterval, "Sleep of an idle worker between polls")
	fs.Duration("scheduler.idle-max", d.Scheduler.IdleMax, "Upper bound of the idle sleep; enables exponential backoff when set")
	fs.Duration("scheduler.tick-interval", d.Scheduler.TickInterval, "Interval between two Update calls")

	fs.Bool("workload.enabled", d.Workload.Enabled, "Generate a synthetic workload on startup")
	fs.Float64("workload.rate", d.Workload.Rate, "Synthetic jobs per second")
	fs.Int("workload.burst", d.Workload.Burst, "Burst size of the workload rate limiter")
	fs.Duration("workload.max-duration", d.Workload.MaxDuration, "Maximum run time of a synthetic job")
	fs.Float64("workload.failure-rate", d.Workload.FailureRate, "Share of synthetic jobs that fail (0-1)")

	fs.String("store.path", d.Store.Path, "Job history database path (:memory: for in-memory)")

	fs.String("log-format", d.LogFormat, "Log format (console, json)")
	fs.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
}

func run(ctx context.Context, cfg *config.Configuration, out io.Writer) error {
	log := zap.S().Named("main")
	log.Infow("starting jobsched", "version", version, "config", cfg.DebugMap())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := renderer.FromName(cfg.Scheduler.Renderer)
	if err != nil {
		return err
	}

	opts := []scheduler.Option{scheduler.WithQueueCapacity(cfg.Scheduler.QueueCapacity)}
	if cfg.Scheduler.IdleMax > 0 {
		opts = append(opts, scheduler.WithIdleBackOff(
			scheduler.IdleExponentialBackOff(cfg.Scheduler.IdleInterval, cfg.Scheduler.IdleMax)))
	} else {
		opts = append(opts, scheduler.WithIdleInterval(cfg.Scheduler.IdleInterval))
	}

	sched := scheduler.NewScheduler(opts...)
	if err := sched.Init(cfg.Scheduler.Threads, backend); err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}
	defer sched.Shutdown()

	db, err := store.NewDB(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open job history: %w", err)
	}
	st := store.NewStore(db)
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate job history: %w", err)
	}

	reg, err := metrics.Register(sched)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	defer func() { _ = reg.Unregister() }()

	tick := services.NewTickService(sched, cfg.Scheduler.TickInterval)
	jobSrv := services.NewJobService(sched, st, tick)
	workloadSrv := services.NewWorkloadService(jobSrv, services.WorkloadParams{
		Rate:        cfg.Workload.Rate,
		Burst:       cfg.Workload.Burst,
		MaxDuration: cfg.Workload.MaxDuration,
		FailureRate: cfg.Workload.FailureRate,
	})

	tick.Start()
	if cfg.Workload.Enabled {
		workloadSrv.Start(ctx)
	}

	var srv *server.Server
	errCh := make(chan error, 1)
	if cfg.Server.Enabled {
		srv, err = server.NewServer(cfg, func(router gin.IRouter) {
			v1.RegisterHandlers(router, handlers.New(jobSrv, workloadSrv))
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		go func() {
			errCh <- srv.Start(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err = <-errCh:
		if err != nil {
			log.Errorw("server stopped", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Errorw("failed to stop server", "error", err)
		}
	}

	workloadSrv.Stop()
	tick.Stop()
	sched.Shutdown()
	// the tick is stopped, this goroutine now owns Update
	sched.Update()

	printSummary(shutdownCtx, out, jobSrv, tick.Ticks())

	return err
}

func printSummary(ctx context.Context, out io.Writer, jobSrv *services.JobService, ticks uint64) {
	status := jobSrv.Status()
	stats := status.Stats

	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(out, "\n%s %s\n", bold("scheduler"), status.ID)
	fmt.Fprintf(out, "  ticks:      %d\n", ticks)
	fmt.Fprintf(out, "  submitted:  %d (fast path %d, queued %d, rejected %s)\n",
		stats.Submitted, stats.FastPathed, stats.Enqueued, yellow(stats.Rejected))
	fmt.Fprintf(out, "  succeeded:  %s\n", green(stats.Succeeded))
	fmt.Fprintf(out, "  failed:     %s (panicked %d)\n", red(stats.Failed), stats.Panicked)
	fmt.Fprintf(out, "  delivered:  %d\n", stats.Delivered)
	fmt.Fprintf(out, "  stalls:     %d\n", stats.Stalls)
	fmt.Fprintf(out, "  dropped:    %s\n", yellow(stats.Dropped))

	if outcomes, err := jobSrv.Outcomes(ctx); err == nil {
		fmt.Fprintf(out, "  recorded:   %s success, %s failure\n",
			green(outcomes[models.JobOutcomeSuccess]), red(outcomes[models.JobOutcomeFailure]))
	}

	for _, w := range status.Workers {
		fmt.Fprintf(out, "  worker %-2d  %-36s %d jobs\n", w.Index, w.Mask, w.JobsRun)
	}
}
