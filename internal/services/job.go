package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/jobsched/internal/models"
	"github.com/kubev2v/jobsched/internal/store"
	"github.com/kubev2v/jobsched/pkg/scheduler"
)

const recordTimeout = 5 * time.Second

// TickCounter reports how many ticks the scheduler has seen.
type TickCounter interface {
	Ticks() uint64
}

type JobListParams struct {
	Outcomes   []models.JobOutcome
	Priorities []string
	BatchID    string
	Limit      uint64
	Offset     uint64
}

type JobListResult struct {
	Records []models.JobRecord
	Total   int
}

// JobService submits synthetic jobs and keeps their history. Records are
// written by the completion callbacks, so on the tick goroutine.
type JobService struct {
	scheduler *scheduler.Scheduler
	store     *store.Store
	ticks     TickCounter
}

func NewJobService(s *scheduler.Scheduler, st *store.Store, ticks TickCounter) *JobService {
	return &JobService{
		scheduler: s,
		store:     st,
		ticks:     ticks,
	}
}

// Submit builds a job that sleeps for j.Duration and then reports success
// unless j.Fail is set.
func (s *JobService) Submit(ctx context.Context, j models.SyntheticJob) (scheduler.JobHandle, error) {
	var (
		handle      scheduler.JobHandle
		submittedAt = time.Now()
		runTime     time.Duration
		// closed once handle is set; a fast-pathed job may start before
		// Submit returns
		ready = make(chan struct{})
	)

	entry := func() bool {
		<-ready
		start := time.Now()
		if j.Duration > 0 {
			time.Sleep(j.Duration)
		}
		runTime = time.Since(start)
		return !j.Fail
	}

	record := func(outcome models.JobOutcome) scheduler.Callback {
		return func() {
			s.record(models.JobRecord{
				SchedulerID: s.scheduler.ID(),
				Handle:      uint64(handle),
				BatchID:     j.BatchID,
				Type:        j.Type.String(),
				Priority:    j.Priority.String(),
				Outcome:     outcome,
				SubmittedAt: submittedAt,
				CompletedAt: time.Now(),
				RunTime:     runTime,
			})
		}
	}

	h, err := s.scheduler.Submit(scheduler.Job{
		Type:      j.Type,
		Priority:  j.Priority,
		Entry:     entry,
		OnSuccess: record(models.JobOutcomeSuccess),
		OnFailure: record(models.JobOutcomeFailure),
	})
	handle = h
	close(ready)
	if err != nil {
		return h, err
	}

	zap.S().Named("job_service").Debugw("job submitted",
		"handle", h,
		"type", j.Type.String(),
		"priority", j.Priority.String(),
		"duration", j.Duration,
		"batch_id", j.BatchID)

	return h, nil
}

func (s *JobService) record(r models.JobRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := s.store.Jobs().Insert(ctx, r); err != nil {
		zap.S().Named("job_service").Errorw("failed to record job", "handle", r.Handle, "error", err)
	}
}

// Get returns the history record of a job of this scheduler.
func (s *JobService) Get(ctx context.Context, handle uint64) (*models.JobRecord, error) {
	return s.store.Jobs().Get(ctx, s.scheduler.ID(), handle)
}

// List returns the history of this scheduler matching params, most recent
// first, along with the total number of matching records.
func (s *JobService) List(ctx context.Context, params JobListParams) (*JobListResult, error) {
	filters := []store.ListOption{
		store.BySchedulerID(s.scheduler.ID()),
		store.ByOutcome(params.Outcomes...),
		store.ByPriority(params.Priorities...),
		store.ByBatch(params.BatchID),
	}

	total, err := s.store.Jobs().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	opts := append(filters, store.WithLimit(params.Limit), store.WithOffset(params.Offset))
	records, err := s.store.Jobs().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &JobListResult{Records: records, Total: total}, nil
}

// Outcomes returns the number of recorded jobs per outcome.
func (s *JobService) Outcomes(ctx context.Context) (map[models.JobOutcome]int, error) {
	return s.store.Jobs().CountByOutcome(ctx, store.BySchedulerID(s.scheduler.ID()))
}

func (s *JobService) Status() models.SchedulerStatus {
	status := models.SchedulerStatus{
		ID:                 s.scheduler.ID(),
		Running:            s.scheduler.Running(),
		Workers:            s.scheduler.Workers(),
		Queues:             make(map[scheduler.JobPriority]int, 3),
		PendingCompletions: s.scheduler.PendingCompletions(),
		Stats:              s.scheduler.Stats(),
	}
	for _, p := range []scheduler.JobPriority{scheduler.PriorityHigh, scheduler.PriorityNormal, scheduler.PriorityLow} {
		status.Queues[p] = s.scheduler.QueueLen(p)
	}
	if s.ticks != nil {
		status.Ticks = s.ticks.Ticks()
	}
	return status
}
