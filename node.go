// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scottcpu

import (
	"fmt"
	"log/slog"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/daniroblesc/scottcpu/internal/diag"
	"github.com/daniroblesc/scottcpu/internal/worker"
)

// ProcessOrder controls whether a Node participates in the cross-slot
// release baton (InOrder) or is exempt from it and may run concurrently
// across slots (OutOfOrder).
type ProcessOrder int

const (
	// InOrder is the default: the node's Process calls across buffer
	// slots are serialised into strict round-robin order.
	InOrder ProcessOrder = iota
	// OutOfOrder exempts the node from the release baton; its Process
	// must be safe for concurrent invocation across distinct slots.
	OutOfOrder
)

// TickMode selects how a tick's upstream dependency walk is driven.
type TickMode int

const (
	// Parallel is the default: upstream ticking fans out onto
	// NodeWorkers, and feedback cycles are tracked explicitly.
	Parallel TickMode = iota
	// Series runs the entire dependency walk as synchronous recursion
	// on the calling goroutine; no NodeWorker is used.
	Series
)

type tickStatus int

const (
	notTicked tickStatus = iota
	tickStarted
	ticking
)

// Process is the per-node compute function. The engine guarantees in has
// the node's configured input count and out has been cleared to its
// configured output count before calling. Process must not retain either
// bus past return, and must be safe for concurrent invocation on distinct
// bus pairs when the owning node is OutOfOrder.
type Process func(in *SignalBus, out *SignalBus)

// A Node is one vertex of a dataflow graph: a user Process function
// wrapped with per-buffer-slot input/output buses, inbound wiring, the
// tick state machine, reference-counted output transport, and (for
// InOrder nodes with more than one buffer slot) the release baton that
// serialises their Process calls into round-robin order across slots.
type Node struct {
	id  string
	log *slog.Logger

	processOrder ProcessOrder
	process      Process

	structMu    sync.Mutex
	inputNames  []string
	outputNames []string
	inboundWires []*Wire // len == inputCount; nil entry means unconnected

	bufferCount int
	inputBus    []*SignalBus // per slot
	outputBus   []*SignalBus // per slot
	workers     []*worker.NodeWorker

	refsTotal   []int           // per output, shared across all slots
	refsCounter [][]int         // [slot][output]
	refsMu      [][]*sync.Mutex // [slot][output], used only when Parallel && total>1

	tickMu    sync.Mutex
	tickState []tickStatus // per slot

	feedbackMu    sync.Mutex
	feedbackWires []mapset.Set[*Wire] // per slot

	batonMu   sync.Mutex
	batonCond *sync.Cond
	batonSlot int
}

// NewNode returns a Node with the given input/output counts, process
// order and compute function, sized for a single buffer slot. It is
// given its working buffer count when added to a Circuit via
// AddComponent, which calls SetBufferCount on it.
func NewNode(inputCount, outputCount int, order ProcessOrder, process Process) *Node {
	n := &Node{
		id:           uuid.NewString(),
		processOrder: order,
		process:      process,
	}
	n.log = diag.Logger(n.id)
	n.batonCond = sync.NewCond(&n.batonMu)
	n.setInputCountLocked(inputCount, nil)
	n.setOutputCountLocked(outputCount, nil)
	n.SetBufferCount(1)
	return n
}

// ID returns the node's unique identifier.
func (n *Node) ID() string { return n.id }

// ProcessOrderOf reports the node's process order.
func (n *Node) ProcessOrderOf() ProcessOrder { return n.processOrder }

// InputCount returns the number of input ports.
func (n *Node) InputCount() int {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	return len(n.inboundWires)
}

// OutputCount returns the number of output ports.
func (n *Node) OutputCount() int {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	return len(n.refsTotal)
}

// BufferCount returns the node's current buffer slot count.
func (n *Node) BufferCount() int {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	return n.bufferCount
}

// InputName returns the name assigned to input i, or ("", false) if i is
// out of range or unnamed.
func (n *Node) InputName(i int) (string, bool) {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	if i < 0 || i >= len(n.inputNames) || n.inputNames[i] == "" {
		return "", false
	}
	return n.inputNames[i], true
}

// OutputName returns the name assigned to output i, or ("", false) if i
// is out of range or unnamed.
func (n *Node) OutputName(i int) (string, bool) {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	if i < 0 || i >= len(n.outputNames) || n.outputNames[i] == "" {
		return "", false
	}
	return n.outputNames[i], true
}

// SetInputCount resizes the node's input port count. Ports beyond the new
// count are disconnected first, which decrements their sources' reference
// totals. Optional names are assigned positionally; a short names slice
// leaves the remaining ports unnamed.
func (n *Node) SetInputCount(count int, names ...string) bool {
	if count < 0 {
		return false
	}
	n.structMu.Lock()
	defer n.structMu.Unlock()
	n.setInputCountLocked(count, names)
	return true
}

func (n *Node) setInputCountLocked(count int, names []string) {
	for i := count; i < len(n.inboundWires); i++ {
		if w := n.inboundWires[i]; w != nil {
			w.FromNode.decRefs(w.FromOutput)
		}
	}
	wires := make([]*Wire, count)
	copy(wires, n.inboundWires)
	n.inboundWires = wires

	nm := make([]string, count)
	copy(nm, n.inputNames)
	copy(nm, names)
	n.inputNames = nm

	for _, bus := range n.inputBus {
		bus.Resize(count)
	}
}

// SetOutputCount resizes the node's output port count. Optional names are
// assigned positionally.
func (n *Node) SetOutputCount(count int, names ...string) bool {
	if count < 0 {
		return false
	}
	n.structMu.Lock()
	defer n.structMu.Unlock()
	n.setOutputCountLocked(count, names)
	return true
}

func (n *Node) setOutputCountLocked(count int, names []string) {
	totals := make([]int, count)
	copy(totals, n.refsTotal)
	n.refsTotal = totals

	nm := make([]string, count)
	copy(nm, n.outputNames)
	copy(nm, names)
	n.outputNames = nm

	for _, bus := range n.outputBus {
		bus.Resize(count)
	}
	for slot := range n.refsCounter {
		n.refsCounter[slot] = resizeInts(n.refsCounter[slot], count)
		n.refsMu[slot] = resizeMutexes(n.refsMu[slot], count)
	}
}

func resizeInts(s []int, count int) []int {
	grown := make([]int, count)
	copy(grown, s)
	return grown
}

func resizeMutexes(s []*sync.Mutex, count int) []*sync.Mutex {
	grown := make([]*sync.Mutex, count)
	copy(grown, s)
	for i := len(s); i < count; i++ {
		grown[i] = &sync.Mutex{}
	}
	return grown
}

// SetBufferCount resizes the node's per-slot state (buses, tick state,
// feedback sets, NodeWorkers) to k slots, starting every slot's worker.
// It is a no-op if k already equals the current buffer count. A Circuit
// in inline mode (bufferCount 0) still needs slot 0 to exist for every
// node, so 0 is clamped up to 1 here; the Circuit itself is what tracks
// "0 buffers" as the sentinel for "no CircuitWorker pool".
func (n *Node) SetBufferCount(k int) bool {
	if k < 0 {
		return false
	}
	if k == 0 {
		k = 1
	}
	n.structMu.Lock()
	defer n.structMu.Unlock()
	if k == n.bufferCount {
		return true
	}

	for i := k; i < len(n.workers); i++ {
		n.workers[i].Stop()
	}

	inBus := make([]*SignalBus, k)
	outBus := make([]*SignalBus, k)
	workers := make([]*worker.NodeWorker, k)
	tickState := make([]tickStatus, k)
	feedback := make([]mapset.Set[*Wire], k)
	refsCounter := make([][]int, k)
	refsMu := make([][]*sync.Mutex, k)

	inputCount := len(n.inboundWires)
	outputCount := len(n.refsTotal)

	copy(inBus, n.inputBus)
	copy(outBus, n.outputBus)
	copy(workers, n.workers)
	copy(refsCounter, n.refsCounter)
	copy(refsMu, n.refsMu)

	for i := len(n.inputBus); i < k; i++ {
		inBus[i] = NewSignalBus(inputCount)
		outBus[i] = NewSignalBus(outputCount)
		workers[i] = worker.NewNodeWorker(fmt.Sprintf("%s/slot%d", n.id, i))
		refsCounter[i] = make([]int, outputCount)
		refsMu[i] = resizeMutexes(nil, outputCount)
	}
	for i := range feedback {
		feedback[i] = mapset.NewThreadUnsafeSet[*Wire]()
	}

	n.inputBus = inBus
	n.outputBus = outBus
	n.workers = workers
	n.tickState = tickState
	n.feedbackWires = feedback
	n.refsCounter = refsCounter
	n.refsMu = refsMu
	n.bufferCount = k
	n.batonSlot = 0

	for _, w := range n.workers {
		w.Start()
	}
	n.log.Info("buffer count set", "count", k)
	return true
}

// ConnectInput wires output fromOutput of from to input of n, replacing
// whatever wire previously occupied that input (and decrementing its
// former source's reference total). It returns false without effect if
// either port index is out of range.
func (n *Node) ConnectInput(input int, from *Node, fromOutput int) bool {
	n.structMu.Lock()
	if input < 0 || input >= len(n.inboundWires) {
		n.structMu.Unlock()
		return false
	}
	if fromOutput < 0 || fromOutput >= from.OutputCount() {
		n.structMu.Unlock()
		return false
	}
	if w := n.inboundWires[input]; w != nil {
		w.FromNode.decRefs(w.FromOutput)
	}
	w := &Wire{FromNode: from, FromOutput: fromOutput, ToInput: input}
	n.inboundWires[input] = w
	n.structMu.Unlock()

	from.incRefs(fromOutput)
	n.log.Info("input connected", "input", input, "from", from.id, "from_output", fromOutput)
	return true
}

// DisconnectInput removes the wire occupying input, if any, decrementing
// its source's reference total. It returns false if input was already
// unconnected or out of range.
func (n *Node) DisconnectInput(input int) bool {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	if input < 0 || input >= len(n.inboundWires) {
		return false
	}
	w := n.inboundWires[input]
	if w == nil {
		return false
	}
	n.inboundWires[input] = nil
	w.FromNode.decRefs(w.FromOutput)
	n.log.Info("input disconnected", "input", input)
	return true
}

// DisconnectInputFrom removes every inbound wire whose source is from. It
// returns true if at least one wire was removed.
func (n *Node) DisconnectInputFrom(from *Node) bool {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	removed := false
	for i, w := range n.inboundWires {
		if w != nil && w.FromNode == from {
			n.inboundWires[i] = nil
			w.FromNode.decRefs(w.FromOutput)
			removed = true
		}
	}
	if removed {
		n.log.Info("inputs disconnected from source", "source", from.id)
	}
	return removed
}

// DisconnectAllInputs removes every inbound wire. It is idempotent and
// returns true only if at least one wire was actually removed.
func (n *Node) DisconnectAllInputs() bool {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	removed := false
	for i, w := range n.inboundWires {
		if w != nil {
			n.inboundWires[i] = nil
			w.FromNode.decRefs(w.FromOutput)
			removed = true
		}
	}
	if removed {
		n.log.Info("all inputs disconnected")
	}
	return removed
}

func (n *Node) incRefs(out int) {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	if out < 0 || out >= len(n.refsTotal) {
		return
	}
	n.refsTotal[out]++
}

func (n *Node) decRefs(out int) {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	if out < 0 || out >= len(n.refsTotal) {
		return
	}
	if n.refsTotal[out] > 0 {
		n.refsTotal[out]--
	}
}

func (n *Node) refTotal(out int) int {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	if out < 0 || out >= len(n.refsTotal) {
		return 0
	}
	return n.refsTotal[out]
}

// Tick advances the node's tick state machine for slot one step. It
// returns false when it detects a feedback edge (the node is already
// TickStarted on this slot, meaning the caller reached it via a cycle)
// and when slot is out of range; every other path returns true.
func (n *Node) Tick(mode TickMode, slot int) bool {
	if slot < 0 || slot >= n.BufferCount() {
		return false
	}

	n.tickMu.Lock()
	switch n.tickState[slot] {
	case tickStarted:
		n.tickMu.Unlock()
		return false
	case ticking:
		n.tickMu.Unlock()
		return true
	}
	n.tickState[slot] = tickStarted
	n.tickMu.Unlock()

	n.structMu.Lock()
	wires := append([]*Wire(nil), n.inboundWires...)
	n.structMu.Unlock()

	for _, w := range wires {
		if w == nil {
			continue
		}
		if ok := w.FromNode.Tick(mode, slot); mode == Parallel && !ok {
			n.feedbackMu.Lock()
			n.feedbackWires[slot].Add(w)
			n.feedbackMu.Unlock()
		}
	}

	n.tickMu.Lock()
	n.tickState[slot] = ticking
	n.tickMu.Unlock()

	localWork := func() { n.localWork(mode, slot, wires) }
	if mode == Series {
		localWork()
	} else {
		n.workers[slot].Resume(localWork)
	}
	return true
}

func (n *Node) localWork(mode TickMode, slot int, wires []*Wire) {
	for i, w := range wires {
		if w == nil {
			continue
		}
		isFeedback := false
		if mode == Parallel {
			n.feedbackMu.Lock()
			isFeedback = n.feedbackWires[slot].Contains(w)
			n.feedbackMu.Unlock()
		}
		if mode == Parallel {
			if isFeedback {
				n.feedbackMu.Lock()
				n.feedbackWires[slot].Remove(w)
				n.feedbackMu.Unlock()
			} else {
				w.FromNode.workers[slot].Sync()
			}
		}
		w.FromNode.getOutput(mode, slot, w.FromOutput, n.inputBus[slot], i)
	}

	n.outputBus[slot].ClearAll()

	if n.processOrder == InOrder && n.BufferCount() > 1 {
		n.waitForBaton(slot)
		n.runProcess(slot)
		n.releaseBaton(slot)
	} else {
		n.runProcess(slot)
	}
}

func (n *Node) runProcess(slot int) {
	if n.process == nil {
		return
	}
	n.process(n.inputBus[slot], n.outputBus[slot])
}

// getOutput implements the reference-counted transport protocol: the
// last consumer of an output this tick moves the signal, every earlier
// consumer copies it.
func (n *Node) getOutput(mode TickMode, slot, fromOut int, target *SignalBus, toIn int) {
	src, ok := n.outputBus[slot].GetSignal(fromOut)
	if !ok || !src.HasValue() {
		return
	}

	total := n.refTotal(fromOut)
	locked := mode == Parallel && total > 1
	if locked {
		mu := n.refsMu[slot][fromOut]
		mu.Lock()
		defer mu.Unlock()
	}

	n.refsCounter[slot][fromOut]++
	if n.refsCounter[slot][fromOut] >= total {
		n.refsCounter[slot][fromOut] = 0
		target.MoveSignal(toIn, src)
	} else {
		target.CopySignal(toIn, src)
	}
}

func (n *Node) waitForBaton(slot int) {
	n.batonMu.Lock()
	for n.batonSlot != slot {
		n.batonCond.Wait()
	}
	n.batonMu.Unlock()
}

func (n *Node) releaseBaton(slot int) {
	n.batonMu.Lock()
	n.batonSlot = (slot + 1) % n.bufferCount
	n.batonCond.Broadcast()
	n.batonMu.Unlock()
}

// Reset syncs slot's worker (draining any in-flight Process call), clears
// its input bus, and returns the slot's tick state to NotTicked. Output
// buses are deliberately left populated so that feedback wires can read
// the previous tick's value on the next cycle.
func (n *Node) Reset(slot int) {
	if slot < 0 || slot >= n.BufferCount() {
		return
	}
	n.workers[slot].Sync()
	n.inputBus[slot].ClearAll()
	n.tickMu.Lock()
	n.tickState[slot] = notTicked
	n.tickMu.Unlock()
}

// InputBus returns slot's input bus, for tests and harnesses that need to
// seed a node's inputs directly.
func (n *Node) InputBus(slot int) *SignalBus {
	if slot < 0 || slot >= n.BufferCount() {
		return nil
	}
	return n.inputBus[slot]
}

// InboundWire returns the wire occupying input i, or (nil, false) if i is
// out of range or unconnected.
func (n *Node) InboundWire(i int) (*Wire, bool) {
	n.structMu.Lock()
	defer n.structMu.Unlock()
	if i < 0 || i >= len(n.inboundWires) {
		return nil, false
	}
	w := n.inboundWires[i]
	return w, w != nil
}

// OutputBus returns slot's output bus.
func (n *Node) OutputBus(slot int) *SignalBus {
	if slot < 0 || slot >= n.BufferCount() {
		return nil
	}
	return n.outputBus[slot]
}
