package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/jobsched/pkg/errors"
)

type state int

const (
	stateNew state = iota
	stateRunning
	stateStopped
)

func (s state) String() string {
	switch s {
	case stateNew:
		return "not initialized"
	case stateRunning:
		return "running"
	default:
		return "shut down"
	}
}

type Scheduler struct {
	id      string
	queues  [PriorityHigh + 1]*priorityQueue
	workers []*worker
	results mailbox

	handles   atomic.Uint64
	resultIDs atomic.Uint64
	stats     counters

	// lifecycle guards state. Submit and Update hold it for reading so no
	// descriptor can be handed to a worker that is being joined.
	lifecycle sync.RWMutex
	state     state
	stop      chan struct{}
	wg        sync.WaitGroup

	queueCapacity int
	idleBackOff   func() backoff.BackOff
	log           *zap.SugaredLogger
}

// NewScheduler returns a scheduler with no workers. Init must be called
// before jobs can be submitted.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		id:            uuid.New().String(),
		queueCapacity: DefaultQueueCapacity,
		idleBackOff: func() backoff.BackOff {
			return backoff.NewConstantBackOff(DefaultIdleInterval)
		},
		log: zap.S().Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("scheduler_id", s.id)

	for _, p := range drainOrder {
		s.queues[p] = newPriorityQueue(p, s.queueCapacity)
	}
	return s
}

// Init assigns a type mask to each worker and starts one goroutine per
// worker. The backend is consulted once; a nil backend is treated as
// single threaded.
func (s *Scheduler) Init(threadCount int, backend Backend) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.state != stateNew {
		return srvErrors.NewSchedulerStateError("init", s.state.String())
	}
	if threadCount < 1 || threadCount > MaxWorkers {
		return srvErrors.NewInvalidThreadCountError(threadCount, MaxWorkers)
	}

	multiThreaded := backend != nil && backend.IsMultiThreaded()
	masks := AffinityMasks(threadCount, multiThreaded)

	s.workers = make([]*worker, threadCount)
	for i, mask := range masks {
		s.workers[i] = newWorker(i, mask, s)
	}

	s.stop = make(chan struct{})
	s.state = stateRunning
	for _, w := range s.workers {
		s.wg.Add(1)
		go w.run()
	}

	s.log.Infow("scheduler initialized",
		"workers", threadCount,
		"renderer_multi_threaded", multiThreaded,
		"queue_capacity", s.queueCapacity)

	return nil
}

// Submit validates j, assigns it a handle and either hands it straight to a
// free worker or appends it to the queue of its priority. Only high priority
// jobs without dependencies may take the direct path; workers are tried in
// index order.
//
// Once a handle has been allocated it is always returned, even when the job
// could not be queued.
func (s *Scheduler) Submit(j Job) (JobHandle, error) {
	if !j.Priority.valid() {
		return 0, srvErrors.NewInvalidPriorityError(j.Priority.String())
	}
	if j.Entry == nil {
		return 0, srvErrors.NewInvalidJobError("entry point is nil")
	}
	if !j.Type.Intersects(JobTypeAll) {
		return 0, srvErrors.NewInvalidJobError(fmt.Sprintf("job type %s matches no worker", j.Type))
	}
	if len(j.Dependencies) > MaxDependencies {
		return 0, srvErrors.NewInvalidJobError(
			fmt.Sprintf("%d dependencies declared, at most %d allowed", len(j.Dependencies), MaxDependencies))
	}

	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()

	if s.state != stateRunning {
		return 0, srvErrors.NewSchedulerStateError("submit", s.state.String())
	}

	d := newJobDescriptor(JobHandle(s.handles.Add(1)), j)
	s.stats.submitted.Add(1)

	if d.priority == PriorityHigh && len(d.dependencies) == 0 {
		for _, w := range s.workers {
			if w.tryAssign(d) {
				s.stats.fastPathed.Add(1)
				s.log.Debugw("job dispatched on submit", "handle", d.handle, "worker", w.index)
				return d.handle, nil
			}
		}
	}

	q := s.queues[d.priority]
	if !q.enqueue(d) {
		s.stats.rejected.Add(1)
		s.log.Warnw("queue full, job rejected", "handle", d.handle, "priority", d.priority.String())
		return d.handle, srvErrors.NewQueueFullError(d.priority.String(), q.capacity)
	}
	s.stats.enqueued.Add(1)

	return d.handle, nil
}

// Update drains the queues into free workers, high priority first, and then
// runs the callbacks of every job that completed before the call. Callbacks
// run on the calling goroutine. Update must always be called from the same
// logical owner.
func (s *Scheduler) Update() {
	s.lifecycle.RLock()
	if s.state == stateRunning {
		for _, p := range drainOrder {
			s.dispatch(s.queues[p])
		}
	}
	s.lifecycle.RUnlock()

	s.deliver()
}

// dispatch pairs the queue head with the first free matching worker until
// the head cannot be placed.
func (s *Scheduler) dispatch(q *priorityQueue) {
	n, stalled := q.drain(s.assign)
	if n > 0 {
		s.stats.dispatched.Add(uint64(n))
	}
	if stalled {
		s.stats.stalls.Add(1)
	}
}

func (s *Scheduler) assign(d *jobDescriptor) bool {
	for _, w := range s.workers {
		if w.tryAssign(d) {
			return true
		}
	}
	return false
}

func (s *Scheduler) deliver() {
	for _, e := range s.results.take() {
		s.invoke(e)
		s.stats.delivered.Add(1)
	}
}

func (s *Scheduler) invoke(e CompletionEntry) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Errorw("job callback panicked", "handle", e.Handle, "result_id", e.ID, "panic", rec)
		}
	}()
	e.Callback()
}

// Shutdown stops every worker and waits for them to exit. Jobs already held
// by a worker run to completion and their callbacks remain available to a
// later Update; queued jobs are dropped. Shutdown is idempotent.
func (s *Scheduler) Shutdown() {
	s.lifecycle.Lock()
	if s.state != stateRunning {
		s.state = stateStopped
		s.lifecycle.Unlock()
		return
	}
	s.state = stateStopped
	close(s.stop)
	s.lifecycle.Unlock()

	s.wg.Wait()

	dropped := 0
	for _, p := range drainOrder {
		dropped += s.queues[p].clear()
	}
	s.stats.dropped.Add(uint64(dropped))

	s.log.Infow("scheduler shut down", "dropped", dropped, "pending_callbacks", s.results.len())
}

// ID returns the unique identifier of this scheduler instance.
func (s *Scheduler) ID() string {
	return s.id
}

func (s *Scheduler) Running() bool {
	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()
	return s.state == stateRunning
}

func (s *Scheduler) Stats() Stats {
	return s.stats.snapshot()
}

// Workers returns a snapshot of every worker, ordered by index.
func (s *Scheduler) Workers() []WorkerInfo {
	s.lifecycle.RLock()
	workers := s.workers
	s.lifecycle.RUnlock()

	infos := make([]WorkerInfo, 0, len(workers))
	for _, w := range workers {
		infos = append(infos, w.info())
	}
	return infos
}

// QueueLen returns the number of jobs waiting in the queue of priority p.
func (s *Scheduler) QueueLen(p JobPriority) int {
	if !p.valid() {
		return 0
	}
	return s.queues[p].len()
}

// PendingCompletions returns the number of callbacks waiting for Update.
func (s *Scheduler) PendingCompletions() int {
	return s.results.len()
}
