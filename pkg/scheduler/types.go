package scheduler

import (
	"sort"
	"strings"

	srvErrors "github.com/kubev2v/jobsched/pkg/errors"
)

const (
	// MaxWorkers is the hard cap on the number of workers a scheduler may run.
	MaxWorkers = 32
	// MaxDependencies is the maximum number of dependency handles a job may declare.
	MaxDependencies = 8
)

// JobType is a bitset describing which resources a job touches.
type JobType uint32

const (
	JobTypeGeneral JobType = 1 << iota
	JobTypeResourceLoad
	JobTypeGpuResource

	JobTypeNone JobType = 0
	JobTypeAll          = JobTypeGeneral | JobTypeResourceLoad | JobTypeGpuResource
)

var jobTypeNames = map[JobType]string{
	JobTypeGeneral:      "general",
	JobTypeResourceLoad: "resource-load",
	JobTypeGpuResource:  "gpu-resource",
}

// Has reports whether every bit of o is set in t.
func (t JobType) Has(o JobType) bool {
	return o != 0 && t&o == o
}

// Intersects reports whether t and o share at least one bit.
func (t JobType) Intersects(o JobType) bool {
	return t&o != 0
}

func (t JobType) String() string {
	if t == JobTypeNone {
		return "none"
	}
	parts := make([]string, 0, len(jobTypeNames))
	for bit, name := range jobTypeNames {
		if t&bit != 0 {
			parts = append(parts, name)
		}
	}
	sort.Strings(parts)
	if rest := t &^ JobTypeAll; rest != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

// ParseJobType parses names separated by '|' or ','.
func ParseJobType(s string) (JobType, error) {
	var t JobType
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' })
	for _, f := range fields {
		name := strings.ToLower(strings.TrimSpace(f))
		found := false
		for bit, n := range jobTypeNames {
			if n == name {
				t |= bit
				found = true
				break
			}
		}
		if !found {
			return JobTypeNone, srvErrors.NewInvalidJobTypeError(s)
		}
	}
	if t == JobTypeNone {
		return JobTypeNone, srvErrors.NewInvalidJobTypeError(s)
	}
	return t, nil
}

// JobPriority orders jobs across the three queues. PriorityNone is not
// accepted by Submit.
type JobPriority uint8

const (
	PriorityNone JobPriority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
)

// drainOrder is the order in which Update services the queues.
var drainOrder = [...]JobPriority{PriorityHigh, PriorityNormal, PriorityLow}

func (p JobPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	default:
		return "none"
	}
}

func (p JobPriority) valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func ParseJobPriority(s string) (JobPriority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "normal":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityNone, srvErrors.NewInvalidPriorityError(s)
	}
}

// JobHandle identifies a submission for diagnostics. Handles are never reused
// by a scheduler and zero is never assigned.
type JobHandle uint64

// ResultID identifies a completion entry.
type ResultID uint64

// EntryPoint is the work function of a job. Returning false reports a job
// level failure which is delivered through the failure callback.
type EntryPoint func() bool

// Callback is invoked by Update on the goroutine driving the scheduler.
type Callback func()

// Job is a submission request.
type Job struct {
	Type         JobType
	Priority     JobPriority
	Entry        EntryPoint
	OnSuccess    Callback
	OnFailure    Callback
	Dependencies []JobHandle
}

// jobDescriptor is the immutable form of a Job once a handle has been
// assigned. Only inUse changes after submission, always under the lock of
// the container that holds the descriptor.
type jobDescriptor struct {
	handle       JobHandle
	jobType      JobType
	priority     JobPriority
	entry        EntryPoint
	onSuccess    Callback
	onFailure    Callback
	dependencies []JobHandle
	inUse        bool
}

func newJobDescriptor(h JobHandle, j Job) *jobDescriptor {
	var deps []JobHandle
	if len(j.Dependencies) > 0 {
		deps = make([]JobHandle, len(j.Dependencies))
		copy(deps, j.Dependencies)
	}
	return &jobDescriptor{
		handle:       h,
		jobType:      j.Type,
		priority:     j.Priority,
		entry:        j.Entry,
		onSuccess:    j.OnSuccess,
		onFailure:    j.OnFailure,
		dependencies: deps,
	}
}

// CompletionEntry is produced by a worker when a job finishes and consumed
// exactly once by Update.
type CompletionEntry struct {
	ID       ResultID
	Handle   JobHandle
	Callback Callback
}

// Backend is the render backend capability consulted once by Init.
type Backend interface {
	IsMultiThreaded() bool
}

// WorkerInfo is a point-in-time view of one worker.
type WorkerInfo struct {
	Index    int
	Mask     JobType
	Busy     bool
	Current  JobHandle
	JobsRun  uint64
	ThreadID int
}
