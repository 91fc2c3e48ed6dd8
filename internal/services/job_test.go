package services_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobsched/internal/models"
	"github.com/kubev2v/jobsched/internal/services"
	"github.com/kubev2v/jobsched/internal/store"
	srvErrors "github.com/kubev2v/jobsched/pkg/errors"
	"github.com/kubev2v/jobsched/pkg/renderer"
	"github.com/kubev2v/jobsched/pkg/scheduler"
)

var _ = Describe("JobService", func() {
	var (
		ctx   context.Context
		db    *sql.DB
		st    *store.Store
		sched *scheduler.Scheduler
		tick  *services.TickService
		srv   *services.JobService
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())

		sched = scheduler.NewScheduler(scheduler.WithQueueCapacity(8))
		Expect(sched.Init(3, renderer.Static{MultiThreaded: true})).To(Succeed())

		tick = services.NewTickService(sched, time.Millisecond)
		srv = services.NewJobService(sched, st, tick)
	})

	AfterEach(func() {
		tick.Stop()
		sched.Shutdown()
		db.Close()
	})

	Context("Submit", func() {
		It("should record a successful job", func() {
			// Arrange
			tick.Start()

			// Act
			h, err := srv.Submit(ctx, models.SyntheticJob{
				Type:     scheduler.JobTypeGeneral,
				Priority: scheduler.PriorityNormal,
				Duration: 5 * time.Millisecond,
				BatchID:  "batch-a",
			})
			Expect(err).NotTo(HaveOccurred())

			// Assert
			var record *models.JobRecord
			Eventually(func() error {
				record, err = srv.Get(ctx, uint64(h))
				return err
			}).Should(Succeed())

			Expect(record.Outcome).To(Equal(models.JobOutcomeSuccess))
			Expect(record.SchedulerID).To(Equal(sched.ID()))
			Expect(record.Type).To(Equal("general"))
			Expect(record.Priority).To(Equal("normal"))
			Expect(record.BatchID).To(Equal("batch-a"))
			Expect(record.RunTime).To(BeNumerically(">=", 5*time.Millisecond))
		})

		It("should record a failed job", func() {
			tick.Start()

			h, err := srv.Submit(ctx, models.SyntheticJob{
				Type:     scheduler.JobTypeGpuResource,
				Priority: scheduler.PriorityHigh,
				Fail:     true,
			})
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() (models.JobOutcome, error) {
				r, err := srv.Get(ctx, uint64(h))
				if err != nil {
					return "", err
				}
				return r.Outcome, nil
			}).Should(Equal(models.JobOutcomeFailure))
		})

		It("should not record anything before a tick delivers the callback", func() {
			h, err := srv.Submit(ctx, models.SyntheticJob{
				Type:     scheduler.JobTypeGeneral,
				Priority: scheduler.PriorityHigh,
			})
			Expect(err).NotTo(HaveOccurred())

			Eventually(sched.PendingCompletions).Should(Equal(1))
			_, err = srv.Get(ctx, uint64(h))
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())

			sched.Update()

			_, err = srv.Get(ctx, uint64(h))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should pass scheduler errors through", func() {
			_, err := srv.Submit(ctx, models.SyntheticJob{Type: scheduler.JobTypeGeneral})
			Expect(srvErrors.IsInvalidPriorityError(err)).To(BeTrue())
		})

		It("should return the handle of a job rejected by a full queue", func() {
			// Arrange: no tick, so queued jobs stay queued
			for range 8 {
				_, err := srv.Submit(ctx, models.SyntheticJob{Type: scheduler.JobTypeGeneral, Priority: scheduler.PriorityLow})
				Expect(err).NotTo(HaveOccurred())
			}

			// Act
			h, err := srv.Submit(ctx, models.SyntheticJob{Type: scheduler.JobTypeGeneral, Priority: scheduler.PriorityLow})

			// Assert
			Expect(srvErrors.IsQueueFullError(err)).To(BeTrue())
			Expect(h).NotTo(BeZero())
		})
	})

	Context("List", func() {
		It("should filter and paginate the history", func() {
			// Arrange
			tick.Start()
			for i := range 6 {
				_, err := srv.Submit(ctx, models.SyntheticJob{
					Type:     scheduler.JobTypeGeneral,
					Priority: scheduler.PriorityNormal,
					Fail:     i%3 == 0,
				})
				Expect(err).NotTo(HaveOccurred())
			}
			Eventually(func() (int, error) {
				res, err := srv.List(ctx, services.JobListParams{})
				if err != nil {
					return 0, err
				}
				return res.Total, nil
			}).Should(Equal(6))

			// Act
			failed, err := srv.List(ctx, services.JobListParams{Outcomes: []models.JobOutcome{models.JobOutcomeFailure}})
			Expect(err).NotTo(HaveOccurred())
			page, err := srv.List(ctx, services.JobListParams{Limit: 4, Offset: 4})
			Expect(err).NotTo(HaveOccurred())

			// Assert
			Expect(failed.Total).To(Equal(2))
			Expect(failed.Records).To(HaveLen(2))
			Expect(page.Total).To(Equal(6))
			Expect(page.Records).To(HaveLen(2))

			outcomes, err := srv.Outcomes(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[models.JobOutcomeSuccess]).To(Equal(4))
			Expect(outcomes[models.JobOutcomeFailure]).To(Equal(2))
		})
	})

	Context("Status", func() {
		It("should report workers, queues and ticks", func() {
			tick.Start()
			Eventually(tick.Ticks).Should(BeNumerically(">=", 1))

			status := srv.Status()

			Expect(status.ID).To(Equal(sched.ID()))
			Expect(status.Running).To(BeTrue())
			Expect(status.Ticks).To(BeNumerically(">=", 1))
			Expect(status.Workers).To(HaveLen(3))
			Expect(status.Queues).To(HaveKey(scheduler.PriorityHigh))
			Expect(status.Queues).To(HaveKey(scheduler.PriorityNormal))
			Expect(status.Queues).To(HaveKey(scheduler.PriorityLow))
		})

		It("should report a shut down scheduler", func() {
			sched.Shutdown()
			Expect(srv.Status().Running).To(BeFalse())
		})
	})
})
