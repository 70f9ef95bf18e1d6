package nodelib_test

import (
	"testing"

	sc "github.com/daniroblesc/scottcpu"
	"github.com/daniroblesc/scottcpu/nodelib"
)

func tickInline(n *sc.Node) {
	n.Tick(sc.Series, 0)
	n.Reset(0)
}

func TestAndGate(t *testing.T) {
	g := nodelib.And()
	cases := []struct {
		a, b, want bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, c := range cases {
		g.InputBus(0).SetValue(0, c.a)
		g.InputBus(0).SetValue(1, c.b)
		tickInline(g)
		got, _ := g.OutputBus(0).Value(0)
		if got != c.want {
			t.Fatalf("And(%v,%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestXorGate(t *testing.T) {
	g := nodelib.Xor()
	g.InputBus(0).SetValue(0, true)
	g.InputBus(0).SetValue(1, true)
	tickInline(g)
	if got, _ := g.OutputBus(0).Value(0); got != false {
		t.Fatalf("Xor(1,1) = %v, want false", got)
	}
}

func TestSourceSinkIdentity(t *testing.T) {
	src := nodelib.NewSource()
	id := nodelib.Identity()
	sink := nodelib.NewSink()

	id.ConnectInput(0, src.Node, 0)
	sink.ConnectInput(0, id, 0)

	src.Set(true)
	sink.Tick(sc.Series, 0)
	sink.Reset(0)
	id.Reset(0)
	src.Node.Reset(0)

	if v, ok := sink.Last(); !ok || v != true {
		t.Fatalf("sink observed %v, want true", v)
	}
}

func TestCounterEmitsIncrementingSequence(t *testing.T) {
	c := nodelib.Counter()
	for i := 0; i < 3; i++ {
		tickInline(c)
		got, _ := c.OutputBus(0).Value(0)
		if got != i {
			t.Fatalf("Counter tick %d emitted %v, want %d", i, got, i)
		}
	}
}
