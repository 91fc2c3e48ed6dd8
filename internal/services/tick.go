package services

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Updater is the part of the scheduler driven by the tick.
type Updater interface {
	Update()
}

// TickService owns the goroutine calling Update. Every completion callback
// runs on that goroutine.
type TickService struct {
	updater  Updater
	interval time.Duration
	ticks    atomic.Uint64

	mu      sync.Mutex
	running bool
	done    chan struct{}
	stopped chan struct{}
}

func NewTickService(u Updater, interval time.Duration) *TickService {
	return &TickService{
		updater:  u,
		interval: interval,
	}
}

// Start launches the tick loop. Calling Start on a running service is a no-op.
func (t *TickService) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.running = true
	t.done = make(chan struct{})
	t.stopped = make(chan struct{})

	go t.run(t.done, t.stopped)

	zap.S().Named("tick_service").Infow("tick loop started", "interval", t.interval)
}

// Stop ends the tick loop and waits for the last Update to return.
func (t *TickService) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.done)
	stopped := t.stopped
	t.mu.Unlock()

	<-stopped

	zap.S().Named("tick_service").Infow("tick loop stopped", "ticks", t.ticks.Load())
}

func (t *TickService) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Ticks returns the number of Update calls made so far.
func (t *TickService) Ticks() uint64 {
	return t.ticks.Load()
}

func (t *TickService) run(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			t.updater.Update()
			t.ticks.Add(1)
		}
	}
}
