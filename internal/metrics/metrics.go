// Package metrics exposes the scheduler diagnostics as OpenTelemetry
// observable instruments. Values are read from the scheduler on every
// collection; nothing is recorded on the hot path.
//
// Instruments:
//   - jobsched.jobs (Int64ObservableCounter): job counters, with attribute
//     event (submitted, fast_pathed, enqueued, rejected, dispatched,
//     succeeded, failed, panicked, delivered, dropped)
//   - jobsched.stalls (Int64ObservableCounter): ticks on which a queue head
//     found no free worker
//   - jobsched.queue.depth (Int64ObservableGauge): queued jobs, with
//     attribute priority
//   - jobsched.workers.busy (Int64ObservableGauge): workers holding a job
//   - jobsched.completions.pending (Int64ObservableGauge): callbacks waiting
//     for the next tick
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kubev2v/jobsched/pkg/scheduler"
)

const meterName = "github.com/kubev2v/jobsched"

// Source is the part of the scheduler observed by the instruments.
type Source interface {
	ID() string
	Stats() scheduler.Stats
	QueueLen(p scheduler.JobPriority) int
	PendingCompletions() int
	Workers() []scheduler.WorkerInfo
}

var priorities = []scheduler.JobPriority{
	scheduler.PriorityHigh,
	scheduler.PriorityNormal,
	scheduler.PriorityLow,
}

// Register registers the instruments on the global MeterProvider.
func Register(src Source) (metric.Registration, error) {
	return RegisterWithMeter(otel.Meter(meterName), src)
}

// RegisterWithMeter registers the instruments on meter. Unregister the
// returned registration to stop observing src.
func RegisterWithMeter(meter metric.Meter, src Source) (metric.Registration, error) {
	jobs, err := meter.Int64ObservableCounter(
		"jobsched.jobs",
		metric.WithDescription("Number of jobs per lifecycle event"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, err
	}

	stalls, err := meter.Int64ObservableCounter(
		"jobsched.stalls",
		metric.WithDescription("Ticks on which a queue head found no free matching worker"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	depth, err := meter.Int64ObservableGauge(
		"jobsched.queue.depth",
		metric.WithDescription("Number of jobs waiting in a priority queue"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, err
	}

	busy, err := meter.Int64ObservableGauge(
		"jobsched.workers.busy",
		metric.WithDescription("Number of workers running a job"),
		metric.WithUnit("{worker}"),
	)
	if err != nil {
		return nil, err
	}

	pending, err := meter.Int64ObservableGauge(
		"jobsched.completions.pending",
		metric.WithDescription("Number of callbacks waiting for the next tick"),
		metric.WithUnit("{callback}"),
	)
	if err != nil {
		return nil, err
	}

	schedulerAttr := attribute.String("scheduler_id", src.ID())

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := src.Stats()
		for event, v := range map[string]uint64{
			"submitted":   stats.Submitted,
			"fast_pathed": stats.FastPathed,
			"enqueued":    stats.Enqueued,
			"rejected":    stats.Rejected,
			"dispatched":  stats.Dispatched,
			"succeeded":   stats.Succeeded,
			"failed":      stats.Failed,
			"panicked":    stats.Panicked,
			"delivered":   stats.Delivered,
			"dropped":     stats.Dropped,
		} {
			o.ObserveInt64(jobs, int64(v), metric.WithAttributes(schedulerAttr, attribute.String("event", event)))
		}
		o.ObserveInt64(stalls, int64(stats.Stalls), metric.WithAttributes(schedulerAttr))

		for _, p := range priorities {
			o.ObserveInt64(depth, int64(src.QueueLen(p)),
				metric.WithAttributes(schedulerAttr, attribute.String("priority", p.String())))
		}

		n := 0
		for _, w := range src.Workers() {
			if w.Busy {
				n++
			}
		}
		o.ObserveInt64(busy, int64(n), metric.WithAttributes(schedulerAttr))
		o.ObserveInt64(pending, int64(src.PendingCompletions()), metric.WithAttributes(schedulerAttr))

		return nil
	}, jobs, stalls, depth, busy, pending)
}
