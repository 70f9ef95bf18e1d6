// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package worker implements the ping-pong handshake that drives a node or
// circuit's dedicated goroutine one tick at a time: a caller Resumes the
// worker with a task, the worker runs it and signals Sync, and the two
// never race because each side only ever waits on an explicit boolean flag
// rather than on a bare condition-variable wakeup.
package worker

import (
	"log/slog"
	"sync"

	"github.com/daniroblesc/scottcpu/internal/diag"
)

// NodeWorker owns exactly one goroutine and hands it one task at a time.
// A task runs to completion before the next Resume is honoured; Sync
// blocks until the most recently handed-out task (if any) has finished.
//
// NodeWorker must be explicitly Started before use and does not restart
// itself on Resume once Stopped; Resume on a stopped worker panics.
type NodeWorker struct {
	mu         sync.Mutex
	syncCond   *sync.Cond
	resumeCond *sync.Cond
	log        *slog.Logger

	task       func()
	gotSync    bool
	gotResume  bool
	stop       bool
	stopped    bool
	done       chan struct{}
}

// NewNodeWorker returns a NodeWorker in the stopped state. name identifies
// the worker in its debug-level state transition log (typically the owning
// Node's id plus its buffer slot).
func NewNodeWorker(name string) *NodeWorker {
	w := &NodeWorker{stopped: true, log: diag.Logger(name)}
	w.syncCond = sync.NewCond(&w.mu)
	w.resumeCond = sync.NewCond(&w.mu)
	return w
}

// Start spawns the worker goroutine if it isn't already running and
// blocks until it has parked waiting for its first Resume. Calling Start
// on an already-running worker is a no-op.
func (w *NodeWorker) Start() {
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

// Stop drains any in-flight task, then terminates the worker goroutine and
// waits for it to exit. Calling Stop on an already-stopped worker is a
// no-op.
func (w *NodeWorker) Stop() {
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

	w.Resume(nil)
	<-w.done
	w.log.Debug("stopped")
}

// Sync blocks until the worker has finished whatever task it was last
// Resumed with. Sync on a stopped worker returns immediately.
func (w *NodeWorker) Sync() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	for !w.gotSync {
		w.syncCond.Wait()
	}
}

// Resume hands the worker a new task to run on its goroutine and returns
// without waiting for it to complete. Resume panics if the worker has been
// Stopped; callers that want an implicit restart must call Start
// themselves first.
func (w *NodeWorker) Resume(task func()) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		panic("worker: Resume called on a stopped NodeWorker")
	}
	w.gotSync = false
	w.task = task
	w.gotResume = true
	w.resumeCond.Broadcast()
	w.mu.Unlock()
	w.log.Debug("resumed")
}

func (w *NodeWorker) run() {
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
