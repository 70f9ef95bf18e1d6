// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package worker

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestNodeWorkerRunsTasksInOrder(t *testing.T) {
	w := NewNodeWorker("test-node-worker")
	w.Start()
	defer w.Stop()

	var n int32
	for i := 0; i < 5; i++ {
		w.Resume(func() { atomic.AddInt32(&n, 1) })
		w.Sync()
	}
	if got := atomic.LoadInt32(&n); got != 5 {
		t.Fatalf("expected 5 completed tasks, got %d", got)
	}
}

func TestNodeWorkerResumePanicsWhenStopped(t *testing.T) {
	w := NewNodeWorker("test-node-worker")
	w.Start()
	w.Stop()

	defer func() {
		if recover() == nil {
			t.Fatal("Resume on a stopped NodeWorker should panic")
		}
	}()
	w.Resume(func() {})
}

func TestCircuitWorkerSyncAndResume(t *testing.T) {
	w := NewCircuitWorker("test-circuit-worker")
	w.Start()
	defer w.Stop()

	var n int32
	for i := 0; i < 3; i++ {
		w.SyncAndResume(func() { atomic.AddInt32(&n, 1) })
	}
	w.Sync()
	if got := atomic.LoadInt32(&n); got != 3 {
		t.Fatalf("expected 3 completed rounds, got %d", got)
	}
}

func TestAutoTickerPauseBlocksUntilParked(t *testing.T) {
	a := NewAutoTicker("test-auto-ticker")
	var n int32
	a.Start(func() {
		atomic.AddInt32(&n, 1)
		time.Sleep(time.Millisecond)
	})

	a.Pause()
	afterPause := atomic.LoadInt32(&n)
	time.Sleep(5 * time.Millisecond)
	if got := atomic.LoadInt32(&n); got != afterPause {
		t.Fatalf("ticks kept advancing while paused: %d -> %d", afterPause, got)
	}

	a.Resume()
	time.Sleep(5 * time.Millisecond)
	if got := atomic.LoadInt32(&n); got <= afterPause {
		t.Fatalf("ticks did not resume after Resume: %d -> %d", afterPause, got)
	}

	a.Stop()
}
