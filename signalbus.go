// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scottcpu

// A SignalBus is a fixed-length, index-addressed sequence of Signals. It
// is the I/O surface of a Node: a Process call reads its inputBus and
// populates its outputBus, both SignalBuses.
//
// Out-of-range accesses return a zero-value/false sentinel; SignalBus
// never panics on a bad index.
type SignalBus struct {
	signals []*Signal
}

// NewSignalBus returns a SignalBus with count empty Signals.
func NewSignalBus(count int) *SignalBus {
	b := &SignalBus{}
	b.Resize(count)
	return b
}

// Count returns the number of signals in the bus.
func (b *SignalBus) Count() int {
	return len(b.signals)
}

// Resize changes the bus's signal count. Existing slots below the new
// count are preserved; new slots above the old count are initialised to
// empty Signals.
func (b *SignalBus) Resize(count int) {
	from := len(b.signals)
	if count <= from {
		b.signals = b.signals[:count]
		return
	}
	grown := make([]*Signal, count)
	copy(grown, b.signals)
	for i := from; i < count; i++ {
		grown[i] = NewSignal()
	}
	b.signals = grown
}

// GetSignal returns the Signal at index i, or (nil, false) if i is out of
// range.
func (b *SignalBus) GetSignal(i int) (*Signal, bool) {
	if uint(i) >= uint(len(b.signals)) {
		return nil, false
	}
	return b.signals[i], true
}

// HasValue reports whether signal i holds a value. Out-of-range indices
// report false.
func (b *SignalBus) HasValue(i int) bool {
	s, ok := b.GetSignal(i)
	return ok && s.HasValue()
}

// Value returns signal i's value. Out-of-range or empty signals report
// false.
func (b *SignalBus) Value(i int) (Value, bool) {
	s, ok := b.GetSignal(i)
	if !ok {
		return nil, false
	}
	return s.Value()
}

// SetValue sets signal i's value. It returns false without effect if i is
// out of range.
func (b *SignalBus) SetValue(i int, v Value) bool {
	s, ok := b.GetSignal(i)
	if !ok {
		return false
	}
	s.Set(v)
	return true
}

// CopySignal copies from into signal i. It returns false if i is out of
// range or from is empty.
func (b *SignalBus) CopySignal(i int, from *Signal) bool {
	s, ok := b.GetSignal(i)
	if !ok {
		return false
	}
	return s.CopyFrom(from)
}

// MoveSignal moves from into signal i. It returns false if i is out of
// range or from is empty.
func (b *SignalBus) MoveSignal(i int, from *Signal) bool {
	s, ok := b.GetSignal(i)
	if !ok {
		return false
	}
	return s.MoveFrom(from)
}

// ClearAll empties every signal in the bus.
func (b *SignalBus) ClearAll() {
	for _, s := range b.signals {
		s.Clear()
	}
}

// TakeFrom transfers ownership of every signal in src to b, leaving src at
// zero signals. This is the Go rendering of spec.md §9's recommended
// "deep move" contract for SignalBus (the original C++ move constructor
// shallow-shares the underlying vector instead).
func (b *SignalBus) TakeFrom(src *SignalBus) {
	b.signals = src.signals
	src.signals = nil
}
