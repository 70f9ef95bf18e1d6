// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package worker

import (
	"log/slog"
	"sync"

	"github.com/daniroblesc/scottcpu/internal/diag"
)

// CircuitWorker drives one buffer slot's worth of node ticking on its own
// goroutine. Unlike NodeWorker, its single entry point SyncAndResume folds
// the "wait for the previous round" and "hand out the next one" steps into
// one locked operation, because a circuit's round-robin scheduler always
// issues the two back to back and never needs them split.
type CircuitWorker struct {
	mu         sync.Mutex
	syncCond   *sync.Cond
	resumeCond *sync.Cond
	log        *slog.Logger

	task      func()
	gotSync   bool
	gotResume bool
	stop      bool
	stopped   bool
	done      chan struct{}
}

// NewCircuitWorker returns a CircuitWorker in the stopped state. name
// identifies the worker in its debug-level state transition log (typically
// the owning Circuit's id plus its buffer slot).
func NewCircuitWorker(name string) *CircuitWorker {
	w := &CircuitWorker{stopped: true, log: diag.Logger(name)}
	w.syncCond = sync.NewCond(&w.mu)
	w.resumeCond = sync.NewCond(&w.mu)
	return w
}

// Start spawns the worker goroutine if it isn't already running and
// blocks until it has parked waiting for its first round.
func (w *CircuitWorker) Start() {
	w.mu.Lock()
	if !w.stopped {
		w.mu.Unlock()
		return
	}
	w.stop = false
	w.stopped = false
	w.gotSync = false
	w.gotResume = false
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.run()
	w.Sync()
	w.log.Debug("started")
}

// Stop drains the in-flight round, then terminates the worker goroutine
// and waits for it to exit.
func (w *CircuitWorker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.Sync()

	w.mu.Lock()
	w.stop = true
	w.mu.Unlock()

	w.resume(nil)
	<-w.done
	w.log.Debug("stopped")
}

// Sync blocks until the worker's current round has finished.
func (w *CircuitWorker) Sync() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	for !w.gotSync {
		w.syncCond.Wait()
	}
}

// SyncAndResume waits for the worker's current round to finish, then hands
// it the next round as a single atomic step. It panics if the worker has
// been Stopped.
func (w *CircuitWorker) SyncAndResume(round func()) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		panic("worker: SyncAndResume called on a stopped CircuitWorker")
	}
	for !w.gotSync {
		w.syncCond.Wait()
	}
	w.gotSync = false
	w.task = round
	w.gotResume = true
	w.resumeCond.Broadcast()
	w.mu.Unlock()
	w.log.Debug("resumed")
}

func (w *CircuitWorker) resume(round func()) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		panic("worker: resume called on a stopped CircuitWorker")
	}
	w.gotSync = false
	w.task = round
	w.gotResume = true
	w.resumeCond.Broadcast()
	w.mu.Unlock()
}

func (w *CircuitWorker) run() {
	for {
		w.mu.Lock()
		w.gotSync = true
		w.syncCond.Broadcast()
		for !w.gotResume {
			w.resumeCond.Wait()
		}
		w.gotResume = false
		stop := w.stop
		task := w.task
		w.mu.Unlock()

		if stop {
			break
		}
		if task != nil {
			task()
		}
	}

	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	close(w.done)
}
