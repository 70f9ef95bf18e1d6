package scottcputest_test

import (
	"testing"

	sc "github.com/daniroblesc/scottcpu"
	"github.com/daniroblesc/scottcpu/nodelib"
	"github.com/daniroblesc/scottcpu/scottcputest"
)

func TestVerifyAndTruthTable(t *testing.T) {
	g := nodelib.And()
	scottcputest.Verify(t, g, []scottcputest.Case{
		{Name: "1,1", Inputs: []sc.Value{true, true}, Outputs: []sc.Value{true}},
		{Name: "1,0", Inputs: []sc.Value{true, false}, Outputs: []sc.Value{false}},
		{Name: "0,0", Inputs: []sc.Value{false, false}, Outputs: []sc.Value{false}},
	})
}

func TestHistoryRecordsFeedbackSequence(t *testing.T) {
	a := sc.NewNode(1, 1, sc.InOrder, func(in, out *sc.SignalBus) {
		v, ok := in.Value(0)
		if !ok {
			v = false
		}
		out.SetValue(0, v)
	})

	var h scottcputest.History
	for i := 0; i < 3; i++ {
		a.Tick(sc.Series, 0)
		a.Reset(0)
		h.Record(a.OutputBus(0), 0)
		a.InputBus(0).SetValue(0, true)
	}

	if len(h.Values()) != 3 {
		t.Fatalf("expected 3 recorded values, got %d", len(h.Values()))
	}
	if v, _ := h.At(0); v != false {
		t.Fatalf("first tick should observe no prior feedback, got %v", v)
	}
}
