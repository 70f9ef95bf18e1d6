// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scottcpu

// A Value is the payload carried by a Signal. The engine is payload
// agnostic; callers decide what a Value actually holds.
type Value interface{}

// A Signal is a single slot that is either empty or holds a Value.
// Signals are the unit of transport between a Node's output bus and a
// downstream Node's input bus.
//
// Copy and move never propagate through chained signals: both operations
// are purely local to the pair of Signals involved.
type Signal struct {
	value    Value
	hasValue bool
}

// NewSignal returns an empty Signal.
func NewSignal() *Signal {
	return &Signal{}
}

// HasValue reports whether the signal currently holds a value.
func (s *Signal) HasValue() bool {
	return s.hasValue
}

// Clear empties the signal.
func (s *Signal) Clear() {
	s.value = nil
	s.hasValue = false
}

// Value returns the signal's value and whether one was present.
func (s *Signal) Value() (Value, bool) {
	if !s.hasValue {
		return nil, false
	}
	return s.value, true
}

// Set stores v in the signal.
func (s *Signal) Set(v Value) {
	s.value = v
	s.hasValue = true
}

// CopyFrom copies src's value into s, leaving src unchanged. It returns
// false without modifying s if src is empty.
func (s *Signal) CopyFrom(src *Signal) bool {
	if src == nil || !src.hasValue {
		return false
	}
	s.value = src.value
	s.hasValue = true
	return true
}

// MoveFrom transfers src's value into s in O(1), leaving src empty. It
// returns false without modifying s if src is empty.
func (s *Signal) MoveFrom(src *Signal) bool {
	if src == nil || !src.hasValue {
		return false
	}
	s.value = src.value
	s.hasValue = true
	src.value = nil
	src.hasValue = false
	return true
}
