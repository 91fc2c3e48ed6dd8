package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/kubev2v/jobsched/internal/config"
)

var _ = Describe("Configuration", func() {
	Context("defaults", func() {
		It("should apply every default tag", func() {
			cfg, err := config.NewConfigurationWithDefaults()
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Scheduler.Threads).To(Equal(4))
			Expect(cfg.Scheduler.Renderer).To(Equal("vulkan"))
			Expect(cfg.Scheduler.IdleInterval).To(Equal(time.Millisecond))
			Expect(cfg.Scheduler.TickInterval).To(Equal(16 * time.Millisecond))
			Expect(cfg.Server.HTTPPort).To(Equal(8000))
			Expect(cfg.Store.Path).To(Equal(":memory:"))
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Context("Load", func() {
		// Given values set on viper and in the environment
		// When the configuration is loaded
		// Then they should override the defaults
		It("should overlay viper values and environment variables", func() {
			// Arrange
			v := viper.New()
			v.Set("scheduler.threads", 8)
			v.Set("scheduler.tick-interval", "5ms")
			GinkgoT().Setenv("JOBSCHED_SCHEDULER_RENDERER", "opengl")
			GinkgoT().Setenv("JOBSCHED_LOG_LEVEL", "debug")

			// Act
			cfg, err := config.Load(v)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Scheduler.Threads).To(Equal(8))
			Expect(cfg.Scheduler.TickInterval).To(Equal(5 * time.Millisecond))
			Expect(cfg.Scheduler.Renderer).To(Equal("opengl"))
			Expect(cfg.LogLevel).To(Equal("debug"))
			Expect(cfg.Scheduler.QueueCapacity).To(Equal(1024))
		})

		It("should reject an invalid thread count", func() {
			v := viper.New()
			v.Set("scheduler.threads", 33)

			_, err := config.Load(v)
			Expect(err).To(MatchError(ContainSubstring("scheduler.threads")))
		})
	})

	DescribeTable("Validate",
		func(mutate func(*config.Configuration), expected string) {
			cfg, err := config.NewConfigurationWithDefaults()
			Expect(err).NotTo(HaveOccurred())
			mutate(cfg)

			Expect(cfg.Validate()).To(MatchError(ContainSubstring(expected)))
		},
		Entry("zero threads", func(c *config.Configuration) { c.Scheduler.Threads = 0 }, "scheduler.threads"),
		Entry("unknown renderer", func(c *config.Configuration) { c.Scheduler.Renderer = "metal" }, "scheduler.renderer"),
		Entry("zero tick", func(c *config.Configuration) { c.Scheduler.TickInterval = 0 }, "tick-interval"),
		Entry("idle max below idle interval", func(c *config.Configuration) {
			c.Scheduler.IdleMax = time.Microsecond
		}, "idle-max"),
		Entry("bad server mode", func(c *config.Configuration) { c.Server.ServerMode = "test" }, "server.mode"),
		Entry("failure rate above one", func(c *config.Configuration) { c.Workload.FailureRate = 2 }, "failure-rate"),
		Entry("bad log format", func(c *config.Configuration) { c.LogFormat = "xml" }, "log-format"),
	)
})
