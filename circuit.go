// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scottcpu

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/daniroblesc/scottcpu/internal/diag"
	"github.com/daniroblesc/scottcpu/internal/worker"
)

// A Circuit owns a set of Nodes, routes the wires between them, and
// drives ticks across them either inline (bufferCount == 0) or across a
// round-robin pool of CircuitWorkers, one per buffer slot. It also owns
// the optional AutoTicker that drives Tick repeatedly on its own
// goroutine.
//
// Every topology-mutating method brackets its work in PauseAutoTick and
// ResumeAutoTick so that structural changes never race with an in-flight
// tick.
type Circuit struct {
	id  string
	log *slog.Logger

	mu          sync.Mutex
	nodes       []*Node
	bufferCount int
	currentSlot int
	workers     []*worker.CircuitWorker

	pauseMu    sync.Mutex
	pauseCount int

	autoMu      sync.Mutex
	autoTicker  *worker.AutoTicker
	autoMode    TickMode
	autoRunning bool
}

// NewCircuit returns an empty Circuit with bufferCount 0 (single-threaded,
// inline ticking).
func NewCircuit() *Circuit {
	id := uuid.NewString()
	return &Circuit{id: id, log: diag.Logger(id)}
}

// ID returns the circuit's unique identifier.
func (c *Circuit) ID() string { return c.id }

// GetComponentCount returns the number of registered nodes.
func (c *Circuit) GetComponentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// BufferCount returns the circuit's current buffer slot count.
func (c *Circuit) BufferCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bufferCount
}

func (c *Circuit) indexOfLocked(n *Node) (int, bool) {
	for i, existing := range c.nodes {
		if existing == n {
			return i, true
		}
	}
	return -1, false
}

// AddComponent registers n with the circuit, resizing it to the circuit's
// current buffer count, and returns its index. Adding an already
// registered node is idempotent and returns its existing index. Adding a
// nil node returns -1.
func (c *Circuit) AddComponent(n *Node) int {
	if n == nil {
		return -1
	}
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.indexOfLocked(n); ok {
		return i
	}
	n.SetBufferCount(c.bufferCount)
	c.nodes = append(c.nodes, n)
	c.log.Info("component added", "node", n.ID(), "index", len(c.nodes)-1)
	return len(c.nodes) - 1
}

// RemoveComponent severs every wire touching n (both its inbound wires
// and any other registered node's wires sourced from n) and removes it
// from the circuit. It returns false if n is not registered.
func (c *Circuit) RemoveComponent(n *Node) bool {
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.indexOfLocked(n)
	if !ok {
		return false
	}
	c.removeAtLocked(idx)
	return true
}

// RemoveComponentAt is RemoveComponent addressed by index.
func (c *Circuit) RemoveComponentAt(index int) bool {
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.nodes) {
		return false
	}
	c.removeAtLocked(index)
	return true
}

func (c *Circuit) removeAtLocked(idx int) {
	n := c.nodes[idx]
	n.DisconnectAllInputs()
	for _, other := range c.nodes {
		if other != n {
			other.DisconnectInputFrom(n)
		}
	}
	c.nodes = append(c.nodes[:idx], c.nodes[idx+1:]...)
	c.log.Info("component removed", "node", n.ID(), "index", idx)
}

// RemoveAllComponents removes every registered node, severing all of
// their wires.
func (c *Circuit) RemoveAllComponents() {
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.nodes {
		n.DisconnectAllInputs()
	}
	c.log.Info("all components removed", "count", len(c.nodes))
	c.nodes = nil
}

func (c *Circuit) nodeAtLocked(idx int) (*Node, bool) {
	if idx < 0 || idx >= len(c.nodes) {
		return nil, false
	}
	return c.nodes[idx], true
}

// ConnectOutToIn wires output fromOut of from to input toIn of to. Both
// nodes must already be registered with this circuit. It returns false
// without effect if either node is unregistered or either port index is
// out of range.
func (c *Circuit) ConnectOutToIn(from *Node, fromOut int, to *Node, toIn int) bool {
	if from == nil || to == nil {
		return false
	}
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	_, fromOK := c.indexOfLocked(from)
	_, toOK := c.indexOfLocked(to)
	c.mu.Unlock()
	if !fromOK || !toOK {
		return false
	}
	return to.ConnectInput(toIn, from, fromOut)
}

// ConnectOutToInIndex is ConnectOutToIn addressed by index on both ends.
func (c *Circuit) ConnectOutToInIndex(fromIdx, fromOut, toIdx, toIn int) bool {
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	from, fromOK := c.nodeAtLocked(fromIdx)
	to, toOK := c.nodeAtLocked(toIdx)
	c.mu.Unlock()
	if !fromOK || !toOK {
		return false
	}
	return to.ConnectInput(toIn, from, fromOut)
}

// ConnectOutToInFromIndex is ConnectOutToIn addressed by index on the
// source end and by handle on the target end.
func (c *Circuit) ConnectOutToInFromIndex(fromIdx, fromOut int, to *Node, toIn int) bool {
	if to == nil {
		return false
	}
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	from, fromOK := c.nodeAtLocked(fromIdx)
	_, toOK := c.indexOfLocked(to)
	c.mu.Unlock()
	if !fromOK || !toOK {
		return false
	}
	return to.ConnectInput(toIn, from, fromOut)
}

// ConnectOutToInToIndex is ConnectOutToIn addressed by handle on the
// source end and by index on the target end.
func (c *Circuit) ConnectOutToInToIndex(from *Node, fromOut int, toIdx, toIn int) bool {
	if from == nil {
		return false
	}
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	_, fromOK := c.indexOfLocked(from)
	to, toOK := c.nodeAtLocked(toIdx)
	c.mu.Unlock()
	if !fromOK || !toOK {
		return false
	}
	return to.ConnectInput(toIn, from, fromOut)
}

// DisconnectComponent severs every wire touching n (its own inbound wires
// plus any other registered node's wires sourced from n) without removing
// n from the circuit.
func (c *Circuit) DisconnectComponent(n *Node) bool {
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.indexOfLocked(n); !ok {
		return false
	}
	n.DisconnectAllInputs()
	for _, other := range c.nodes {
		if other != n {
			other.DisconnectInputFrom(n)
		}
	}
	return true
}

// DisconnectComponentAt is DisconnectComponent addressed by index.
func (c *Circuit) DisconnectComponentAt(index int) bool {
	c.mu.Lock()
	n, ok := c.nodeAtLocked(index)
	c.mu.Unlock()
	if !ok {
		return false
	}
	return c.DisconnectComponent(n)
}

// SetBufferCount reshapes the circuit's CircuitWorker pool to k slots (0
// means single-threaded inline ticking) and propagates k to every
// registered node. It is a no-op if k already equals the current buffer
// count.
func (c *Circuit) SetBufferCount(k int) bool {
	if k < 0 {
		return false
	}
	c.PauseAutoTick()
	defer c.ResumeAutoTick()

	c.mu.Lock()
	defer c.mu.Unlock()
	if k == c.bufferCount {
		return true
	}
	for _, w := range c.workers {
		w.Stop()
	}
	workers := make([]*worker.CircuitWorker, k)
	for i := range workers {
		workers[i] = worker.NewCircuitWorker(fmt.Sprintf("%s/slot%d", c.id, i))
		workers[i].Start()
	}
	c.workers = workers
	c.bufferCount = k
	c.currentSlot = 0
	for _, n := range c.nodes {
		n.SetBufferCount(k)
	}
	c.log.Info("buffer count set", "count", k)
	return true
}

// Tick drives one logical time step. With bufferCount 0 it ticks and
// resets every node inline on the caller's goroutine. Otherwise it hands
// the round to the CircuitWorker owning the current slot and advances to
// the next slot, implementing the round-robin pipeline driver.
func (c *Circuit) Tick(mode TickMode) {
	c.mu.Lock()
	bc := c.bufferCount
	if bc == 0 {
		nodes := append([]*Node(nil), c.nodes...)
		c.mu.Unlock()
		for _, n := range nodes {
			n.Tick(mode, 0)
		}
		for _, n := range nodes {
			n.Reset(0)
		}
		return
	}
	slot := c.currentSlot
	w := c.workers[slot]
	c.currentSlot = (slot + 1) % bc
	c.mu.Unlock()

	w.SyncAndResume(func() { c.tickSlot(mode, slot) })
}

func (c *Circuit) tickSlot(mode TickMode, slot int) {
	c.mu.Lock()
	nodes := append([]*Node(nil), c.nodes...)
	c.mu.Unlock()
	for _, n := range nodes {
		n.Tick(mode, slot)
	}
	for _, n := range nodes {
		n.Reset(slot)
	}
}

// StartAutoTick starts a goroutine that repeatedly calls Tick(mode) until
// StopAutoTick is called.
func (c *Circuit) StartAutoTick(mode TickMode) {
	c.autoMu.Lock()
	c.autoMode = mode
	if c.autoTicker == nil {
		c.autoTicker = worker.NewAutoTicker(c.id)
	}
	ticker := c.autoTicker
	c.autoRunning = true
	c.autoMu.Unlock()

	ticker.Start(func() { c.Tick(mode) })
}

// StopAutoTick parks the AutoTicker, drains any in-flight round-robin
// round, and joins its goroutine.
func (c *Circuit) StopAutoTick() {
	c.autoMu.Lock()
	ticker := c.autoTicker
	c.autoRunning = false
	c.autoMu.Unlock()
	if ticker == nil {
		return
	}
	ticker.Pause()
	c.drainPipeline()
	ticker.Stop()
}

// PauseAutoTick pauses the AutoTicker and, on the outermost call, drains
// the in-flight round-robin pipeline back to slot 0 and syncs every
// CircuitWorker, so that a structural mutation performed immediately
// after this call returns is guaranteed safe. Nested pause/resume pairs
// compose: N calls to PauseAutoTick require N calls to ResumeAutoTick
// before ticking resumes.
func (c *Circuit) PauseAutoTick() {
	c.pauseMu.Lock()
	c.pauseCount++
	first := c.pauseCount == 1
	c.pauseMu.Unlock()
	if !first {
		return
	}

	c.autoMu.Lock()
	ticker := c.autoTicker
	running := c.autoRunning
	c.autoMu.Unlock()
	if ticker != nil && running {
		ticker.Pause()
	}
	c.drainPipeline()
}

// ResumeAutoTick reverses one PauseAutoTick call. Only the outermost
// resume (pause count reaching zero) actually releases the AutoTicker.
func (c *Circuit) ResumeAutoTick() {
	c.pauseMu.Lock()
	if c.pauseCount == 0 {
		c.pauseMu.Unlock()
		return
	}
	c.pauseCount--
	last := c.pauseCount == 0
	c.pauseMu.Unlock()
	if !last {
		return
	}

	c.autoMu.Lock()
	ticker := c.autoTicker
	running := c.autoRunning
	c.autoMu.Unlock()
	if ticker != nil && running {
		ticker.Resume()
	}
}

// AutoTickRunning reports whether StartAutoTick has been called without a
// matching StopAutoTick.
func (c *Circuit) AutoTickRunning() bool {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()
	return c.autoRunning
}

// AutoTickPaused reports whether the pause count is currently above zero.
func (c *Circuit) AutoTickPaused() bool {
	c.pauseMu.Lock()
	defer c.pauseMu.Unlock()
	return c.pauseCount > 0
}

func (c *Circuit) drainPipeline() {
	c.mu.Lock()
	mode := c.autoModeLocked()
	bc := c.bufferCount
	c.mu.Unlock()
	if bc == 0 {
		return
	}
	for {
		c.mu.Lock()
		slot := c.currentSlot
		c.mu.Unlock()
		if slot == 0 {
			break
		}
		c.Tick(mode)
	}
	c.mu.Lock()
	workers := append([]*worker.CircuitWorker(nil), c.workers...)
	c.mu.Unlock()
	for _, w := range workers {
		w.Sync()
	}
}

func (c *Circuit) autoModeLocked() TickMode {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()
	return c.autoMode
}

// Fingerprint returns a deterministic hash of the circuit's current
// topology (node identities and their inbound wiring), suitable for
// change detection across configuration reloads.
func (c *Circuit) Fingerprint() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sb strings.Builder
	for _, n := range c.nodes {
		sb.WriteString(n.ID())
		sb.WriteByte(';')
		for i := 0; i < n.InputCount(); i++ {
			w, ok := n.InboundWire(i)
			if !ok {
				continue
			}
			sb.WriteString(strconv.Itoa(i))
			sb.WriteByte(':')
			sb.WriteString(w.FromNode.ID())
			sb.WriteByte('.')
			sb.WriteString(strconv.Itoa(w.FromOutput))
			sb.WriteByte(',')
		}
		sb.WriteByte('|')
	}
	return xxhash.Sum64String(sb.String())
}
