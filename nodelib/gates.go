// Package nodelib provides ready-made Node constructors for common
// dataflow building blocks: boolean gates, sources, sinks, and a simple
// stateful counter that demonstrates InOrder ordering guarantees.
package nodelib

import sc "github.com/daniroblesc/scottcpu"

func bit(v sc.Value) bool {
	b, _ := v.(bool)
	return b
}

// And returns a two-input, one-output OutOfOrder node computing logical
// AND over its boolean inputs. Missing inputs are treated as false.
func And() *sc.Node {
	return sc.NewNode(2, 1, sc.OutOfOrder, func(in, out *sc.SignalBus) {
		a, _ := in.Value(0)
		b, _ := in.Value(1)
		out.SetValue(0, bit(a) && bit(b))
	})
}

// Or returns a two-input, one-output OutOfOrder node computing logical OR.
func Or() *sc.Node {
	return sc.NewNode(2, 1, sc.OutOfOrder, func(in, out *sc.SignalBus) {
		a, _ := in.Value(0)
		b, _ := in.Value(1)
		out.SetValue(0, bit(a) || bit(b))
	})
}

// Not returns a one-input, one-output OutOfOrder node computing logical
// negation.
func Not() *sc.Node {
	return sc.NewNode(1, 1, sc.OutOfOrder, func(in, out *sc.SignalBus) {
		a, _ := in.Value(0)
		out.SetValue(0, !bit(a))
	})
}

// Xor returns a two-input, one-output OutOfOrder node computing logical
// exclusive-or.
func Xor() *sc.Node {
	return sc.NewNode(2, 1, sc.OutOfOrder, func(in, out *sc.SignalBus) {
		a, _ := in.Value(0)
		b, _ := in.Value(1)
		out.SetValue(0, bit(a) != bit(b))
	})
}
