package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"

	"github.com/kubev2v/jobsched/pkg/renderer"
	"github.com/kubev2v/jobsched/pkg/scheduler"
)

const EnvPrefix = "JOBSCHED"

type Configuration struct {
	Server    Server    `mapstructure:"server"`
	Scheduler Scheduler `mapstructure:"scheduler"`
	Workload  Workload  `mapstructure:"workload"`
	Store     Store     `mapstructure:"store"`
	LogFormat string    `mapstructure:"log-format" default:"console" debugmap:"visible"`
	LogLevel  string    `mapstructure:"log-level" default:"info" debugmap:"visible"`
}

type Server struct {
	Enabled    bool   `mapstructure:"enabled" default:"true" debugmap:"visible"`
	ServerMode string `mapstructure:"mode" default:"dev" debugmap:"visible"`
	HTTPPort   int    `mapstructure:"http-port" default:"8000" debugmap:"visible"`
}

type Scheduler struct {
	Threads       int           `mapstructure:"threads" default:"4" debugmap:"visible"`
	Renderer      string        `mapstructure:"renderer" default:"vulkan" debugmap:"visible"`
	QueueCapacity int           `mapstructure:"queue-capacity" default:"1024" debugmap:"visible"`
	IdleInterval  time.Duration `mapstructure:"idle-interval" default:"1ms" debugmap:"visible"`
	IdleMax       time.Duration `mapstructure:"idle-max" default:"0s" debugmap:"visible"`
	TickInterval  time.Duration `mapstructure:"tick-interval" default:"16ms" debugmap:"visible"`
}

type Workload struct {
	Enabled     bool          `mapstructure:"enabled" default:"false" debugmap:"visible"`
	Rate        float64       `mapstructure:"rate" default:"50" debugmap:"visible"`
	Burst       int           `mapstructure:"burst" default:"10" debugmap:"visible"`
	MaxDuration time.Duration `mapstructure:"max-duration" default:"20ms" debugmap:"visible"`
	FailureRate float64       `mapstructure:"failure-rate" default:"0.1" debugmap:"visible"`
}

type Store struct {
	Path string `mapstructure:"path" default:":memory:" debugmap:"visible"`
}

// NewConfigurationWithDefaults returns a configuration with every default
// tag applied.
func NewConfigurationWithDefaults() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to set configuration defaults: %w", err)
	}
	return cfg, nil
}

// Load builds the configuration from defaults overlaid with the values known
// to v (config file, environment and bound flags).
func Load(v *viper.Viper) (*Configuration, error) {
	cfg, err := NewConfigurationWithDefaults()
	if err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// viper only resolves environment variables for keys it knows about
	for key, value := range cfg.DebugMap() {
		v.SetDefault(key, value)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Configuration) Validate() error {
	if c.Scheduler.Threads < 1 || c.Scheduler.Threads > scheduler.MaxWorkers {
		return fmt.Errorf("scheduler.threads must be between 1 and %d, got %d", scheduler.MaxWorkers, c.Scheduler.Threads)
	}
	if _, err := renderer.FromName(c.Scheduler.Renderer); err != nil {
		return fmt.Errorf("scheduler.renderer: %w", err)
	}
	if c.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("scheduler.tick-interval must be positive")
	}
	if c.Scheduler.IdleMax > 0 && c.Scheduler.IdleMax < c.Scheduler.IdleInterval {
		return fmt.Errorf("scheduler.idle-max must not be lower than scheduler.idle-interval")
	}
	switch c.Server.ServerMode {
	case "dev", "prod":
	default:
		return fmt.Errorf("server.mode must be dev or prod, got %q", c.Server.ServerMode)
	}
	if c.Workload.Enabled && c.Workload.Rate <= 0 {
		return fmt.Errorf("workload.rate must be positive")
	}
	if c.Workload.FailureRate < 0 || c.Workload.FailureRate > 1 {
		return fmt.Errorf("workload.failure-rate must be between 0 and 1")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log-format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// DebugMap returns the configuration as a flat map suitable for structured
// logging.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"server.enabled":           c.Server.Enabled,
		"server.mode":              c.Server.ServerMode,
		"server.http-port":         c.Server.HTTPPort,
		"scheduler.threads":        c.Scheduler.Threads,
		"scheduler.renderer":       c.Scheduler.Renderer,
		"scheduler.queue-capacity": c.Scheduler.QueueCapacity,
		"scheduler.idle-interval":  c.Scheduler.IdleInterval.String(),
		"scheduler.idle-max":       c.Scheduler.IdleMax.String(),
		"scheduler.tick-interval":  c.Scheduler.TickInterval.String(),
		"workload.enabled":         c.Workload.Enabled,
		"workload.rate":            c.Workload.Rate,
		"workload.burst":           c.Workload.Burst,
		"workload.max-duration":    c.Workload.MaxDuration.String(),
		"workload.failure-rate":    c.Workload.FailureRate,
		"store.path":               c.Store.Path,
		"log-format":               c.LogFormat,
		"log-level":                c.LogLevel,
	}
}
