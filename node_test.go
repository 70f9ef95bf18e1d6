package scottcpu_test

import (
	"sync"
	"testing"

	sc "github.com/daniroblesc/scottcpu"
)

func andGate() *sc.Node {
	return sc.NewNode(2, 1, sc.OutOfOrder, func(in, out *sc.SignalBus) {
		a, _ := in.Value(0)
		b, _ := in.Value(1)
		ab, _ := a.(bool)
		bb, _ := b.(bool)
		out.SetValue(0, ab && bb)
	})
}

func TestNodeAndGate(t *testing.T) {
	a := andGate()

	a.InputBus(0).SetValue(0, true)
	a.InputBus(0).SetValue(1, true)
	a.Tick(sc.Series, 0)
	a.Reset(0)
	if v, ok := a.OutputBus(0).Value(0); !ok || v != true {
		t.Fatalf("AND(1,1) = %v, want true", v)
	}

	a.InputBus(0).SetValue(0, true)
	a.InputBus(0).SetValue(1, false)
	a.Tick(sc.Series, 0)
	a.Reset(0)
	if v, ok := a.OutputBus(0).Value(0); !ok || v != false {
		t.Fatalf("AND(1,0) = %v, want false", v)
	}
}

func TestNodeAndGateParallel(t *testing.T) {
	a := andGate()
	a.InputBus(0).SetValue(0, true)
	a.InputBus(0).SetValue(1, true)
	a.Tick(sc.Parallel, 0)
	a.Reset(0)
	if v, ok := a.OutputBus(0).Value(0); !ok || v != true {
		t.Fatalf("AND(1,1) parallel = %v, want true", v)
	}
}

func TestNodeFanOutReferenceCounting(t *testing.T) {
	const seedValue = "signal"
	src := sc.NewNode(0, 1, sc.OutOfOrder, func(_, out *sc.SignalBus) {
		out.SetValue(0, seedValue)
	})

	var mu sync.Mutex
	var gotA, gotB, gotC interface{}
	record := func(dst *interface{}) func(*sc.SignalBus, *sc.SignalBus) {
		return func(in, _ *sc.SignalBus) {
			v, _ := in.Value(0)
			mu.Lock()
			*dst = v
			mu.Unlock()
		}
	}

	a := sc.NewNode(1, 0, sc.OutOfOrder, record(&gotA))
	b := sc.NewNode(1, 0, sc.OutOfOrder, record(&gotB))
	c := sc.NewNode(1, 0, sc.OutOfOrder, record(&gotC))

	a.ConnectInput(0, src, 0)
	b.ConnectInput(0, src, 0)
	c.ConnectInput(0, src, 0)

	a.Tick(sc.Parallel, 0)
	b.Tick(sc.Parallel, 0)
	c.Tick(sc.Parallel, 0)
	a.Reset(0)
	b.Reset(0)
	c.Reset(0)
	src.Reset(0)

	mu.Lock()
	defer mu.Unlock()
	for _, got := range []interface{}{gotA, gotB, gotC} {
		if got != seedValue {
			t.Fatalf("consumer did not observe seed value, got %v", got)
		}
	}

	if src.OutputBus(0).HasValue(0) {
		t.Fatal("source output should be empty after the last consumer moved it")
	}
}

func TestNodeConnectInputReplacesWire(t *testing.T) {
	src1 := sc.NewNode(0, 1, sc.OutOfOrder, func(_, out *sc.SignalBus) { out.SetValue(0, 1) })
	src2 := sc.NewNode(0, 1, sc.OutOfOrder, func(_, out *sc.SignalBus) { out.SetValue(0, 2) })
	dst := sc.NewNode(1, 0, sc.OutOfOrder, nil)

	// Give src1 a value while still disconnected, to prove below that
	// replacing its wire never causes it to be consumed.
	src1.Tick(sc.Series, 0)
	src1.Reset(0)

	dst.ConnectInput(0, src1, 0)
	dst.ConnectInput(0, src2, 0)

	w, ok := dst.InboundWire(0)
	if !ok || w.FromNode != src2 {
		t.Fatal("second ConnectInput should replace the first wire")
	}

	dst.Tick(sc.Series, 0)
	dst.Reset(0)
	if !src1.OutputBus(0).HasValue(0) {
		t.Fatal("replaced source should still hold its value, untouched")
	}
}

func TestNodeDisconnectAllInputsIdempotent(t *testing.T) {
	src := sc.NewNode(0, 1, sc.OutOfOrder, nil)
	dst := sc.NewNode(1, 0, sc.OutOfOrder, nil)
	dst.ConnectInput(0, src, 0)

	if !dst.DisconnectAllInputs() {
		t.Fatal("first DisconnectAllInputs should report a change")
	}
	if dst.DisconnectAllInputs() {
		t.Fatal("second DisconnectAllInputs should be a no-op")
	}
}

func TestNodeOutOfRangeAccessorsNeverPanic(t *testing.T) {
	n := sc.NewNode(1, 1, sc.OutOfOrder, nil)
	if _, ok := n.InputName(5); ok {
		t.Fatal("InputName out of range should report false")
	}
	if _, ok := n.OutputName(5); ok {
		t.Fatal("OutputName out of range should report false")
	}
	if _, ok := n.InboundWire(5); ok {
		t.Fatal("InboundWire out of range should report false")
	}
	if n.InputBus(5) != nil {
		t.Fatal("InputBus out of range should report nil")
	}
	if n.OutputBus(5) != nil {
		t.Fatal("OutputBus out of range should report nil")
	}
}
