// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package worker

import (
	"log/slog"
	"sync"

	"github.com/daniroblesc/scottcpu/internal/diag"
)

// AutoTicker repeatedly invokes a tick function on its own goroutine until
// told to stop. Pause blocks until the goroutine has actually parked
// between ticks (never mid-tick); Resume is fire-and-forget.
type AutoTicker struct {
	mu   sync.Mutex
	cond *sync.Cond
	log  *slog.Logger

	tick           func()
	running        bool
	paused         bool
	pauseRequested bool
	stopRequested  bool
	done           chan struct{}
}

// NewAutoTicker returns an AutoTicker that has not been started. name
// identifies the ticker in its debug-level state transition log (typically
// the owning Circuit's id).
func NewAutoTicker(name string) *AutoTicker {
	a := &AutoTicker{log: diag.Logger(name)}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Start spawns the ticking goroutine, which calls tick repeatedly until
// Stop is called. Start on an already-running AutoTicker is a no-op.
func (a *AutoTicker) Start(tick func()) {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.stopRequested = false
	a.pauseRequested = false
	a.paused = false
	a.tick = tick
	a.done = make(chan struct{})
	a.mu.Unlock()

	go a.run()
	a.log.Debug("started")
}

// Stop requests termination and waits for the goroutine to exit. Stop on
// an AutoTicker that was never started, or already stopped, is a no-op.
func (a *AutoTicker) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.stopRequested = true
	a.pauseRequested = false
	a.cond.Broadcast()
	a.mu.Unlock()

	<-a.done
	a.log.Debug("stopped")
}

// Pause blocks until the ticker has parked between two ticks, guaranteeing
// no tick is ever interrupted mid-flight. Pause on a stopped AutoTicker
// returns immediately.
func (a *AutoTicker) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.pauseRequested = true
	for !a.paused && a.running {
		a.cond.Wait()
	}
	a.log.Debug("paused")
}

// Resume releases a paused ticker without waiting for it to produce its
// next tick.
func (a *AutoTicker) Resume() {
	a.mu.Lock()
	a.pauseRequested = false
	a.cond.Broadcast()
	a.mu.Unlock()
	a.log.Debug("resumed")
}

func (a *AutoTicker) run() {
	for {
		a.mu.Lock()
		if a.stopRequested {
			a.mu.Unlock()
			break
		}
		if a.pauseRequested {
			a.paused = true
			a.cond.Broadcast()
			for a.pauseRequested && !a.stopRequested {
				a.cond.Wait()
			}
			a.paused = false
			if a.stopRequested {
				a.mu.Unlock()
				break
			}
		}
		tick := a.tick
		a.mu.Unlock()

		if tick != nil {
			tick()
		}
	}

	a.mu.Lock()
	a.running = false
	a.mu.Unlock()
	close(a.done)
}
