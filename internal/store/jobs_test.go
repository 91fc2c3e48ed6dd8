package store_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobsched/internal/models"
	"github.com/kubev2v/jobsched/internal/store"
	srvErrors "github.com/kubev2v/jobsched/pkg/errors"
)

var _ = Describe("JobStore", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
		now time.Time
	)

	record := func(handle uint64, outcome models.JobOutcome, priority string, completedAt time.Time) models.JobRecord {
		return models.JobRecord{
			SchedulerID: "sched-1",
			Handle:      handle,
			BatchID:     "batch-1",
			Type:        "general",
			Priority:    priority,
			Outcome:     outcome,
			SubmittedAt: completedAt.Add(-time.Second),
			CompletedAt: completedAt,
			RunTime:     250 * time.Millisecond,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Now().UTC().Truncate(time.Millisecond)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
		Expect(s.Migrate(ctx)).To(Succeed())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Get", func() {
		// Given an empty job history
		// When we get a record by handle
		// Then it should return ResourceNotFoundError
		It("should return ResourceNotFoundError for an unknown handle", func() {
			// Act
			_, err := s.Jobs().Get(ctx, "sched-1", 42)

			// Assert
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		// Given a recorded job
		// When we get it by scheduler id and handle
		// Then every field should round trip
		It("should return an inserted record", func() {
			// Arrange
			r := record(7, models.JobOutcomeFailure, "high", now)
			Expect(s.Jobs().Insert(ctx, r)).To(Succeed())

			// Act
			got, err := s.Jobs().Get(ctx, "sched-1", 7)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Handle).To(Equal(uint64(7)))
			Expect(got.Outcome).To(Equal(models.JobOutcomeFailure))
			Expect(got.Priority).To(Equal("high"))
			Expect(got.BatchID).To(Equal("batch-1"))
			Expect(got.RunTime).To(Equal(250 * time.Millisecond))
			Expect(got.CompletedAt.Equal(now)).To(BeTrue())
		})

		It("should reject a duplicate handle for the same scheduler", func() {
			r := record(1, models.JobOutcomeSuccess, "low", now)
			Expect(s.Jobs().Insert(ctx, r)).To(Succeed())
			Expect(s.Jobs().Insert(ctx, r)).NotTo(Succeed())

			r.SchedulerID = "sched-2"
			Expect(s.Jobs().Insert(ctx, r)).To(Succeed())
		})
	})

	Context("List", func() {
		BeforeEach(func() {
			Expect(s.Jobs().Insert(ctx, record(1, models.JobOutcomeSuccess, "low", now.Add(-3*time.Second)))).To(Succeed())
			Expect(s.Jobs().Insert(ctx, record(2, models.JobOutcomeFailure, "normal", now.Add(-2*time.Second)))).To(Succeed())
			Expect(s.Jobs().Insert(ctx, record(3, models.JobOutcomeSuccess, "high", now.Add(-time.Second)))).To(Succeed())
			Expect(s.Jobs().Insert(ctx, record(4, models.JobOutcomeSuccess, "high", now))).To(Succeed())
		})

		It("should list the most recent completions first", func() {
			records, err := s.Jobs().List(ctx)
			Expect(err).NotTo(HaveOccurred())

			handles := []uint64{}
			for _, r := range records {
				handles = append(handles, r.Handle)
			}
			Expect(handles).To(Equal([]uint64{4, 3, 2, 1}))
		})

		It("should filter by outcome and priority", func() {
			records, err := s.Jobs().List(ctx, store.ByOutcome(models.JobOutcomeSuccess), store.ByPriority("high"))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))

			count, err := s.Jobs().Count(ctx, store.ByOutcome(models.JobOutcomeFailure))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("should paginate", func() {
			records, err := s.Jobs().List(ctx, store.WithLimit(2), store.WithOffset(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Handle).To(Equal(uint64(3)))
			Expect(records[1].Handle).To(Equal(uint64(2)))
		})

		It("should return an empty list for an unknown batch", func() {
			records, err := s.Jobs().List(ctx, store.ByBatch("nope"))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		It("should count by outcome", func() {
			counts, err := s.Jobs().CountByOutcome(ctx, store.BySchedulerID("sched-1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(counts).To(Equal(map[models.JobOutcome]int{
				models.JobOutcomeSuccess: 3,
				models.JobOutcomeFailure: 1,
			}))
		})

		It("should prune old records", func() {
			n, err := s.Jobs().Prune(ctx, now.Add(-1500*time.Millisecond))
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(2)))

			count, err := s.Jobs().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})
	})
})
