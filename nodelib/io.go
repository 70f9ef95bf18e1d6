package nodelib

import (
	"sync"

	sc "github.com/daniroblesc/scottcpu"
)

// Source returns a zero-input, one-output node that emits whatever value
// Set was last called with. It is the usual way to drive external values
// into a Circuit from test harnesses or live input.
type Source struct {
	*sc.Node
	mu  sync.Mutex
	val sc.Value
}

// NewSource returns a Source node, initially emitting nil.
func NewSource() *Source {
	s := &Source{}
	s.Node = sc.NewNode(0, 1, sc.OutOfOrder, func(_, out *sc.SignalBus) {
		s.mu.Lock()
		v := s.val
		s.mu.Unlock()
		out.SetValue(0, v)
	})
	return s
}

// Set changes the value the Source emits on its next tick.
func (s *Source) Set(v sc.Value) {
	s.mu.Lock()
	s.val = v
	s.mu.Unlock()
}

// Sink returns a one-input, zero-output node that records the last value
// it observed, readable via Last.
type Sink struct {
	*sc.Node
	mu   sync.Mutex
	last sc.Value
	seen bool
}

// NewSink returns a Sink node.
func NewSink() *Sink {
	s := &Sink{}
	s.Node = sc.NewNode(1, 0, sc.OutOfOrder, func(in, _ *sc.SignalBus) {
		v, ok := in.Value(0)
		s.mu.Lock()
		s.last = v
		s.seen = s.seen || ok
		s.mu.Unlock()
	})
	return s
}

// Last returns the most recently observed value and whether one has ever
// been observed.
func (s *Sink) Last() (sc.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.seen
}

// Identity returns a one-input, one-output OutOfOrder node that copies
// its input straight through to its output.
func Identity() *sc.Node {
	return sc.NewNode(1, 1, sc.OutOfOrder, func(in, out *sc.SignalBus) {
		v, ok := in.Value(0)
		if ok {
			out.SetValue(0, v)
		}
	})
}
