package models

import (
	"time"

	"github.com/kubev2v/jobsched/pkg/scheduler"
)

type JobOutcome string

const (
	JobOutcomeSuccess JobOutcome = "success"
	JobOutcomeFailure JobOutcome = "failure"
)

func (o JobOutcome) Value() string {
	return string(o)
}

// JobRecord is the history entry of a job whose callback has been delivered.
type JobRecord struct {
	SchedulerID string
	Handle      uint64
	BatchID     string
	Type        string
	Priority    string
	Outcome     JobOutcome
	SubmittedAt time.Time
	CompletedAt time.Time
	// RunTime is the time spent inside the entry point.
	RunTime time.Duration
}

// SyntheticJob describes a job built by the job service: it sleeps for
// Duration and then reports success unless Fail is set.
type SyntheticJob struct {
	Type     scheduler.JobType
	Priority scheduler.JobPriority
	Duration time.Duration
	Fail     bool
	BatchID  string
}

// SchedulerStatus is a point-in-time view of the scheduler.
type SchedulerStatus struct {
	ID                 string
	Running            bool
	Ticks              uint64
	Workers            []scheduler.WorkerInfo
	Queues             map[scheduler.JobPriority]int
	PendingCompletions int
	Stats              scheduler.Stats
}
