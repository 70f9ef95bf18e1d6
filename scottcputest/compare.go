// Package scottcputest provides truth-table and tick-history helpers for
// testing Nodes and Circuits built with the scottcpu package.
package scottcputest

import (
	"testing"

	sc "github.com/daniroblesc/scottcpu"
)

// Case is one row of a truth table: the inputs to seed and the outputs
// expected after one Tick/Reset cycle.
type Case struct {
	Name    string
	Inputs  []sc.Value
	Outputs []sc.Value
}

// Verify drives n through every Case in table, ticking in Series mode on
// slot 0, and reports every mismatching or empty output of every case
// through t.Errorf, so one run lists all failures. It is meant for simple combinational nodes with no inbound wires
// of their own (inputs are seeded directly on the node's bus).
func Verify(t *testing.T, n *sc.Node, table []Case) {
	t.Helper()
	for _, c := range table {
		for i, v := range c.Inputs {
			n.InputBus(0).SetValue(i, v)
		}
		n.Tick(sc.Series, 0)
		n.Reset(0)

		for i, want := range c.Outputs {
			got, ok := n.OutputBus(0).Value(i)
			if !ok {
				t.Errorf("case %q: output %d was empty, want %v", c.Name, i, want)
				continue
			}
			if got != want {
				t.Errorf("case %q: output %d = %v, want %v", c.Name, i, got, want)
			}
		}
	}
}

// History records the sequence of values observed at a node's input or
// output port across ticks, for precisely asserting ordering and timing
// in feedback and pipelining tests.
type History struct {
	values []sc.Value
}

// Record appends the bus's current value at index to the history.
func (h *History) Record(bus *sc.SignalBus, index int) {
	v, _ := bus.Value(index)
	h.values = append(h.values, v)
}

// Values returns the recorded sequence so far.
func (h *History) Values() []sc.Value {
	return h.values
}

// At returns the i-th recorded value, or (nil, false) if out of range.
func (h *History) At(i int) (sc.Value, bool) {
	if i < 0 || i >= len(h.values) {
		return nil, false
	}
	return h.values[i], true
}
