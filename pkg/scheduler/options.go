package scheduler

import (
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	// DefaultQueueCapacity is the capacity of each priority queue.
	DefaultQueueCapacity = 1024
	// DefaultIdleInterval is how long an idle worker sleeps before looking
	// at its slot again.
	DefaultIdleInterval = time.Millisecond
)

type Option func(*Scheduler)

// WithQueueCapacity sets the capacity of each priority queue. Zero or a
// negative value leaves the queues unbounded.
func WithQueueCapacity(n int) Option {
	return func(s *Scheduler) { s.queueCapacity = n }
}

// WithIdleInterval makes idle workers poll their slot at a fixed interval.
func WithIdleInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d <= 0 {
			return
		}
		s.idleBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(d) }
	}
}

// WithIdleBackOff sets the policy idle workers use between two looks at
// their slot. The factory is called once per worker; the returned BackOff is
// reset every time the worker picks up a job.
func WithIdleBackOff(factory func() backoff.BackOff) Option {
	return func(s *Scheduler) {
		if factory != nil {
			s.idleBackOff = factory
		}
	}
}

// IdleExponentialBackOff grows the idle sleep from initial up to max while a
// worker stays idle.
func IdleExponentialBackOff(initial, max time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.MaxInterval = max
		b.RandomizationFactor = 0
		return b
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}
