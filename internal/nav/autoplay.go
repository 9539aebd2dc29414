package nav

import (
	"sync"
	"time"
)

// AutoplayInterval is the delay between automatic chapter advances.
const AutoplayInterval = 3 * time.Second

// Autoplay is a single-slot repeating timer. Start while running and Stop
// while stopped are both no-ops, so there is never more than one ticking
// goroutine per instance.
type Autoplay struct {
	mu       sync.Mutex
	interval time.Duration
	tick     func()
	stop     chan struct{}
	running  bool
}

// NewAutoplay returns a stopped timer that calls tick every interval once
// started. The tick callback must not call Start or Stop on its own
// goroutine's behalf beyond the controller's locking discipline.
func NewAutoplay(interval time.Duration, tick func()) *Autoplay {
	return &Autoplay{interval: interval, tick: tick}
}

// Start begins ticking. No-op when already running.
func (a *Autoplay) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.running = true
	stop := make(chan struct{})
	a.stop = stop
	go a.loop(stop)
}

func (a *Autoplay) loop(stop chan struct{}) {
	t := time.NewTicker(a.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			a.tick()
		}
	}
}

// Stop halts ticking. Safe to call when already stopped.
func (a *Autoplay) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	close(a.stop)
	a.running = false
}

// Running reports whether the timer is ticking.
func (a *Autoplay) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
