package nodelib_test

import (
	"testing"

	sc "github.com/daniroblesc/scottcpu"
	"github.com/daniroblesc/scottcpu/nodelib"
)

type addProcessor struct {
	A, B struct{} `scottcpu:"in"`
	Sum  struct{} `scottcpu:"out"`
}

func (p *addProcessor) Process(in, out *sc.SignalBus) {
	a, _ := in.Value(0)
	b, _ := in.Value(1)
	out.SetValue(0, a.(int)+b.(int))
}

func TestMakeNodePortsFromTags(t *testing.T) {
	n, err := nodelib.MakeNode(&addProcessor{}, sc.OutOfOrder)
	if err != nil {
		t.Fatalf("MakeNode returned an error: %v", err)
	}

	if got := n.InputCount(); got != 2 {
		t.Fatalf("InputCount() = %d, want 2", got)
	}
	if got := n.OutputCount(); got != 1 {
		t.Fatalf("OutputCount() = %d, want 1", got)
	}

	wantIn := []string{"A", "B"}
	for i, want := range wantIn {
		got, ok := n.InputName(i)
		if !ok || got != want {
			t.Fatalf("InputName(%d) = %q, want %q", i, got, want)
		}
	}
	if got, ok := n.OutputName(0); !ok || got != "Sum" {
		t.Fatalf("OutputName(0) = %q, want %q", got, "Sum")
	}

	n.InputBus(0).SetValue(0, 2)
	n.InputBus(0).SetValue(1, 3)
	n.Tick(sc.Series, 0)
	n.Reset(0)
	if got, _ := n.OutputBus(0).Value(0); got != 5 {
		t.Fatalf("Sum = %v, want 5", got)
	}
}

type intProcessor int

func (p *intProcessor) Process(_, _ *sc.SignalBus) {}

func TestMakeNodeRejectsNonPointerToStruct(t *testing.T) {
	p := intProcessor(0)
	if _, err := nodelib.MakeNode(&p, sc.OutOfOrder); err == nil {
		t.Fatal("MakeNode should reject a pointer to a non-struct")
	}
}
