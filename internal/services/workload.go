package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kubev2v/jobsched/internal/models"
	srvErrors "github.com/kubev2v/jobsched/pkg/errors"
	"github.com/kubev2v/jobsched/pkg/scheduler"
)

// JobSubmitter submits synthetic jobs.
type JobSubmitter interface {
	Submit(ctx context.Context, j models.SyntheticJob) (scheduler.JobHandle, error)
}

type WorkloadParams struct {
	Rate        float64
	Burst       int
	MaxDuration time.Duration
	FailureRate float64
}

var workloadTypes = []scheduler.JobType{
	scheduler.JobTypeGeneral,
	scheduler.JobTypeGeneral,
	scheduler.JobTypeResourceLoad,
	scheduler.JobTypeGpuResource,
	scheduler.JobTypeGeneral | scheduler.JobTypeResourceLoad,
}

var workloadPriorities = []scheduler.JobPriority{
	scheduler.PriorityLow,
	scheduler.PriorityNormal,
	scheduler.PriorityNormal,
	scheduler.PriorityHigh,
}

// WorkloadService submits a random mix of synthetic jobs at a limited rate.
// Each Start opens a new batch.
type WorkloadService struct {
	submitter JobSubmitter
	params    WorkloadParams

	submitted atomic.Uint64
	rejected  atomic.Uint64

	mu      sync.Mutex
	batchID string
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewWorkloadService(submitter JobSubmitter, params WorkloadParams) *WorkloadService {
	if params.Burst < 1 {
		params.Burst = 1
	}
	return &WorkloadService{
		submitter: submitter,
		params:    params,
	}
}

// Start begins generating jobs until Stop is called, ctx is cancelled or the
// scheduler stops accepting jobs. It returns the batch id of the run.
func (w *WorkloadService) Start(ctx context.Context) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return w.batchID
	}

	w.batchID = uuid.New().String()
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(runCtx, w.batchID, w.done)

	zap.S().Named("workload_service").Infow("workload started",
		"batch_id", w.batchID,
		"rate", w.params.Rate,
		"burst", w.params.Burst)

	return w.batchID
}

func (w *WorkloadService) Stop() {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return
	}
	w.cancel()
	done := w.done
	w.cancel = nil
	w.mu.Unlock()

	<-done
}

func (w *WorkloadService) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel == nil {
		return false
	}
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// BatchID returns the batch of the current or last run.
func (w *WorkloadService) BatchID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.batchID
}

func (w *WorkloadService) Submitted() uint64 {
	return w.submitted.Load()
}

// Rejected returns the number of jobs refused because their queue was full.
func (w *WorkloadService) Rejected() uint64 {
	return w.rejected.Load()
}

func (w *WorkloadService) run(ctx context.Context, batchID string, done chan struct{}) {
	defer close(done)

	log := zap.S().Named("workload_service").With("batch_id", batchID)
	limiter := rate.NewLimiter(rate.Limit(w.params.Rate), w.params.Burst)

	for {
		if err := limiter.Wait(ctx); err != nil {
			log.Infow("workload stopped", "submitted", w.submitted.Load(), "rejected", w.rejected.Load())
			return
		}

		_, err := w.submitter.Submit(ctx, w.next(batchID))
		switch {
		case err == nil:
			w.submitted.Add(1)
		case srvErrors.IsQueueFullError(err):
			w.rejected.Add(1)
			log.Debugw("job rejected", "error", err)
		case srvErrors.IsSchedulerStateError(err):
			log.Infow("scheduler not running, workload stopped", "submitted", w.submitted.Load())
			return
		default:
			log.Errorw("failed to submit job", "error", err)
		}
	}
}

func (w *WorkloadService) next(batchID string) models.SyntheticJob {
	j := models.SyntheticJob{
		Type:     workloadTypes[rand.IntN(len(workloadTypes))],
		Priority: workloadPriorities[rand.IntN(len(workloadPriorities))],
		Fail:     rand.Float64() < w.params.FailureRate,
		BatchID:  batchID,
	}
	if w.params.MaxDuration > 0 {
		j.Duration = rand.N(w.params.MaxDuration)
	}
	return j
}
