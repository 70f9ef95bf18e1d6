package scottcpu_test

import (
	"testing"

	sc "github.com/daniroblesc/scottcpu"
)

func TestSignalCopyMove(t *testing.T) {
	src := sc.NewSignal()
	dst := sc.NewSignal()

	if dst.CopyFrom(src) {
		t.Fatal("copy from empty signal should report false")
	}

	src.Set(true)
	if !dst.CopyFrom(src) {
		t.Fatal("copy from non-empty signal should report true")
	}
	if v, ok := src.Value(); !ok || v != true {
		t.Fatal("copy must leave source unchanged")
	}
	if v, ok := dst.Value(); !ok || v != true {
		t.Fatal("copy must set destination to source's value")
	}

	dst2 := sc.NewSignal()
	if !dst2.MoveFrom(src) {
		t.Fatal("move from non-empty signal should report true")
	}
	if src.HasValue() {
		t.Fatal("move must leave source empty")
	}
	if v, ok := dst2.Value(); !ok || v != true {
		t.Fatal("move must set destination to source's prior value")
	}

	if dst2.MoveFrom(src) {
		t.Fatal("move from empty signal should report false")
	}
}

func TestSignalBusOutOfRange(t *testing.T) {
	b := sc.NewSignalBus(2)

	if v, ok := b.GetSignal(5); v != nil || ok {
		t.Fatal("out-of-range GetSignal must return nil/false sentinel")
	}
	if b.HasValue(5) {
		t.Fatal("out-of-range HasValue must be false")
	}
	if _, ok := b.Value(5); ok {
		t.Fatal("out-of-range Value must report false")
	}
	if b.SetValue(5, true) {
		t.Fatal("out-of-range SetValue must report false")
	}
	if b.CopySignal(5, sc.NewSignal()) {
		t.Fatal("out-of-range CopySignal must report false")
	}
	if b.MoveSignal(5, sc.NewSignal()) {
		t.Fatal("out-of-range MoveSignal must report false")
	}
}

func TestSignalBusResizePreservesExisting(t *testing.T) {
	b := sc.NewSignalBus(2)
	b.SetValue(0, 42)

	b.Resize(4)
	if b.Count() != 4 {
		t.Fatalf("Resize(4) should leave a 4-signal bus, got %d", b.Count())
	}
	if v, ok := b.Value(0); !ok || v != 42 {
		t.Fatal("Resize must preserve existing slot values")
	}
	if b.HasValue(3) {
		t.Fatal("new slots from Resize must be empty")
	}

	b.Resize(1)
	if b.Count() != 1 {
		t.Fatalf("Resize(1) should shrink to 1 signal, got %d", b.Count())
	}
}

func TestSignalBusClearAll(t *testing.T) {
	b := sc.NewSignalBus(3)
	b.SetValue(0, 1)
	b.SetValue(1, 2)
	b.SetValue(2, 3)

	b.ClearAll()

	for i := 0; i < 3; i++ {
		if b.HasValue(i) {
			t.Fatalf("slot %d should be empty after ClearAll", i)
		}
	}
}

func TestSignalBusTakeFrom(t *testing.T) {
	src := sc.NewSignalBus(2)
	src.SetValue(0, "a")
	src.SetValue(1, "b")

	dst := sc.NewSignalBus(0)
	dst.TakeFrom(src)

	if dst.Count() != 2 {
		t.Fatalf("TakeFrom should transfer signal count, got %d", dst.Count())
	}
	if v, _ := dst.Value(0); v != "a" {
		t.Fatal("TakeFrom should transfer signal 0's value")
	}
	if src.Count() != 0 {
		t.Fatal("TakeFrom must leave source at zero signals")
	}
}
