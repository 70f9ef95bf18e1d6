package scottcpu_test

import (
	"path/filepath"
	"testing"
	"time"

	sc "github.com/daniroblesc/scottcpu"
)

func TestTickRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.db")
	rec, err := sc.OpenTickRecorder(path)
	if err != nil {
		t.Fatalf("OpenTickRecorder: %v", err)
	}
	defer rec.Close()

	for slot := 0; slot < 3; slot++ {
		if err := rec.Observe(slot, time.Duration(slot+1)*time.Millisecond); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}

	count, err := rec.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Fatalf("Count = %d, want 3", count)
	}

	recent, err := rec.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d rows, want 2", len(recent))
	}
	if recent[0].Slot != 2 {
		t.Fatalf("most recent row should be slot 2, got %d", recent[0].Slot)
	}
}
