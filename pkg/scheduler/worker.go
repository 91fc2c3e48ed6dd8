package scheduler

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// worker owns one goroutine locked to its own OS thread and holds at most
// one descriptor at a time.
type worker struct {
	index int
	mask  JobType
	s     *Scheduler

	mu   sync.Mutex
	slot *jobDescriptor

	wake     chan struct{}
	jobsRun  atomic.Uint64
	threadID atomic.Int64
}

func newWorker(index int, mask JobType, s *Scheduler) *worker {
	return &worker{
		index: index,
		mask:  mask,
		s:     s,
		wake:  make(chan struct{}, 1),
	}
}

// tryAssign claims the worker for d if the masks intersect and the slot is
// free.
func (w *worker) tryAssign(d *jobDescriptor) bool {
	if !w.mask.Intersects(d.jobType) {
		return false
	}

	w.mu.Lock()
	if w.slot != nil {
		w.mu.Unlock()
		return false
	}
	d.inUse = true
	w.slot = d
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

func (w *worker) current() *jobDescriptor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slot
}

func (w *worker) release(d *jobDescriptor) {
	w.mu.Lock()
	d.inUse = false
	w.slot = nil
	w.mu.Unlock()
}

func (w *worker) info() WorkerInfo {
	w.mu.Lock()
	defer w.mu.Unlock()

	wi := WorkerInfo{
		Index:    w.index,
		Mask:     w.mask,
		Busy:     w.slot != nil,
		JobsRun:  w.jobsRun.Load(),
		ThreadID: int(w.threadID.Load()),
	}
	if w.slot != nil {
		wi.Current = w.slot.handle
	}
	return wi
}

func (w *worker) run() {
	defer w.s.wg.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tid := currentThreadID()
	w.threadID.Store(int64(tid))
	log := w.s.log.With("worker", w.index, "mask", w.mask.String(), "tid", tid)
	log.Debug("worker started")

	idle := w.s.idleBackOff()
	idle.Reset()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		d := w.current()
		if d == nil {
			wait := idle.NextBackOff()
			if wait < 0 {
				wait = DefaultIdleInterval
			}
			timer.Reset(wait)
			select {
			case <-w.s.stop:
				timer.Stop()
				// a job assigned right before the stop signal still runs
				if w.current() == nil {
					log.Debug("worker stopped")
					return
				}
			case <-w.wake:
				timer.Stop()
			case <-timer.C:
			}
			continue
		}

		idle.Reset()
		w.process(d, log)
		w.release(d)
	}
}

func (w *worker) process(d *jobDescriptor, log *zap.SugaredLogger) {
	start := time.Now()
	ok, err := w.execute(d)
	w.jobsRun.Add(1)

	if err != nil {
		w.s.stats.panicked.Add(1)
		log.Errorw("job panicked", "handle", d.handle, "type", d.jobType.String(), "error", err)
	}

	cb := d.onFailure
	if ok {
		w.s.stats.succeeded.Add(1)
		cb = d.onSuccess
	} else {
		w.s.stats.failed.Add(1)
	}

	log.Debugw("job finished", "handle", d.handle, "success", ok, "duration", time.Since(start))

	if cb == nil {
		return
	}
	w.s.results.push(CompletionEntry{
		ID:       ResultID(w.s.resultIDs.Add(1)),
		Handle:   d.handle,
		Callback: cb,
	})
}

// execute runs the entry point outside any lock. A panic is reported as a
// failed run.
func (w *worker) execute(d *jobDescriptor) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			err = fmt.Errorf("worker panicked: %v\n%s", rec, debug.Stack())
		}
	}()
	return d.entry(), nil
}
