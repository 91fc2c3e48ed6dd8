package scheduler

import "sync/atomic"

// Stats is a snapshot of the scheduler counters.
type Stats struct {
	// Submitted counts accepted and rejected submissions that received a handle.
	Submitted uint64
	// FastPathed counts jobs handed directly to a worker by Submit.
	FastPathed uint64
	Enqueued   uint64
	// Rejected counts submissions refused because their queue was full.
	Rejected   uint64
	Dispatched uint64
	Succeeded  uint64
	Failed     uint64
	Panicked   uint64
	// Delivered counts callbacks run by Update.
	Delivered uint64
	// Stalls counts ticks on which a queue head found no free matching worker.
	Stalls uint64
	// Dropped counts queued jobs discarded by Shutdown.
	Dropped uint64
}

// Completed returns the number of jobs that finished running.
func (s Stats) Completed() uint64 {
	return s.Succeeded + s.Failed
}

type counters struct {
	submitted  atomic.Uint64
	fastPathed atomic.Uint64
	enqueued   atomic.Uint64
	rejected   atomic.Uint64
	dispatched atomic.Uint64
	succeeded  atomic.Uint64
	failed     atomic.Uint64
	panicked   atomic.Uint64
	delivered  atomic.Uint64
	stalls     atomic.Uint64
	dropped    atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Submitted:  c.submitted.Load(),
		FastPathed: c.fastPathed.Load(),
		Enqueued:   c.enqueued.Load(),
		Rejected:   c.rejected.Load(),
		Dispatched: c.dispatched.Load(),
		Succeeded:  c.succeeded.Load(),
		Failed:     c.failed.Load(),
		Panicked:   c.panicked.Load(),
		Delivered:  c.delivered.Load(),
		Stalls:     c.stalls.Load(),
		Dropped:    c.dropped.Load(),
	}
}
