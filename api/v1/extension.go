package v1

import (
	"strings"

	"github.com/kubev2v/jobsched/internal/models"
	"github.com/kubev2v/jobsched/pkg/scheduler"
)

// NewSchedulerStatusFromModel converts a models.SchedulerStatus to the API status.
func NewSchedulerStatusFromModel(m models.SchedulerStatus) SchedulerStatus {
	s := SchedulerStatus{
		Id:                 m.ID,
		Running:            m.Running,
		Ticks:              m.Ticks,
		PendingCompletions: m.PendingCompletions,
		Queues: QueueDepths{
			High:   m.Queues[scheduler.PriorityHigh],
			Normal: m.Queues[scheduler.PriorityNormal],
			Low:    m.Queues[scheduler.PriorityLow],
		},
		Stats: SchedulerStats{
			Submitted:  m.Stats.Submitted,
			FastPathed: m.Stats.FastPathed,
			Enqueued:   m.Stats.Enqueued,
			Rejected:   m.Stats.Rejected,
			Dispatched: m.Stats.Dispatched,
			Succeeded:  m.Stats.Succeeded,
			Failed:     m.Stats.Failed,
			Panicked:   m.Stats.Panicked,
			Delivered:  m.Stats.Delivered,
			Stalls:     m.Stats.Stalls,
			Dropped:    m.Stats.Dropped,
		},
		Workers: make([]Worker, 0, len(m.Workers)),
	}
	for _, w := range m.Workers {
		s.Workers = append(s.Workers, NewWorkerFromModel(w))
	}
	return s
}

func NewWorkerFromModel(w scheduler.WorkerInfo) Worker {
	apiWorker := Worker{
		Index:    w.Index,
		Types:    strings.Split(w.Mask.String(), "|"),
		Busy:     w.Busy,
		JobsRun:  w.JobsRun,
		ThreadId: w.ThreadID,
	}
	if w.Busy {
		current := uint64(w.Current)
		apiWorker.Current = &current
	}
	return apiWorker
}

// NewJobFromModel converts a history record to an API job.
func NewJobFromModel(r models.JobRecord) Job {
	return Job{
		Handle:      r.Handle,
		BatchId:     r.BatchID,
		Type:        r.Type,
		Priority:    r.Priority,
		Outcome:     r.Outcome.Value(),
		SubmittedAt: r.SubmittedAt,
		CompletedAt: r.CompletedAt,
		RunTimeMs:   r.RunTime.Milliseconds(),
	}
}

// ParseOutcomes converts API outcome filters to model outcomes, ignoring
// unknown values.
func ParseOutcomes(values []string) []models.JobOutcome {
	var result []models.JobOutcome
	for _, v := range values {
		switch models.JobOutcome(strings.ToLower(v)) {
		case models.JobOutcomeSuccess:
			result = append(result, models.JobOutcomeSuccess)
		case models.JobOutcomeFailure:
			result = append(result, models.JobOutcomeFailure)
		}
	}
	return result
}
