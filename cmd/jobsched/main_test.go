package main

import (
	"bytes"
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/kubev2v/jobsched/internal/config"
)

var _ = Describe("jobsched", func() {
	Context("version", func() {
		It("should print the version", func() {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"version"})

			Expect(cmd.Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("jobsched dev"))
		})
	})

	Context("flags", func() {
		It("should override the configuration only when set", func() {
			// Arrange
			cmd := newRunCmd()
			Expect(cmd.Flags().Parse([]string{"--scheduler.threads=2", "--workload.rate=5"})).To(Succeed())
			v := viper.New()
			Expect(v.BindPFlags(cmd.Flags())).To(Succeed())

			// Act
			cfg, err := config.Load(v)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Scheduler.Threads).To(Equal(2))
			Expect(cfg.Workload.Rate).To(Equal(5.0))
			Expect(cfg.Scheduler.TickInterval).To(Equal(16 * time.Millisecond))
			Expect(cfg.Server.HTTPPort).To(Equal(8000))
		})

		It("should reject an invalid thread count", func() {
			cmd := newRootCmd()
			cmd.SetArgs([]string{"run", "--scheduler.threads=64"})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			Expect(cmd.Execute()).NotTo(Succeed())
		})
	})

	Context("run", func() {
		It("should run a workload and print a summary on shutdown", func() {
			// Arrange
			cfg, err := config.NewConfigurationWithDefaults()
			Expect(err).NotTo(HaveOccurred())
			cfg.Server.Enabled = false
			cfg.Workload.Enabled = true
			cfg.Workload.Rate = 500
			cfg.Workload.MaxDuration = time.Millisecond
			cfg.Scheduler.TickInterval = time.Millisecond

			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			// Act
			var out bytes.Buffer
			err = run(ctx, cfg, &out)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("submitted:"))
			Expect(out.String()).To(ContainSubstring("worker 0"))
			Expect(out.String()).To(ContainSubstring("worker 3"))
		})
	})
})
