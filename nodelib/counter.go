package nodelib

import sc "github.com/daniroblesc/scottcpu"

// Counter returns a zero-input, one-output InOrder node that emits an
// incrementing integer on every Process call, starting at 0. Because it
// is InOrder, its calls across buffer slots are serialised into strict
// round-robin order, so the emitted sequence is stable regardless of
// buffer count.
func Counter() *sc.Node {
	next := 0
	return sc.NewNode(0, 1, sc.InOrder, func(_, out *sc.SignalBus) {
		out.SetValue(0, next)
		next++
	})
}
