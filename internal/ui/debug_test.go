package ui

import (
	"fmt"
	"testing"
)

func TestDebugRing(t *testing.T) {
	r := NewDebugRing(3)
	if r.Len() != 0 || len(r.Recent(5)) != 0 {
		t.Fatal("new ring should be empty")
	}

	for i := 0; i < 5; i++ {
		r.Add(DebugFrame{Event: fmt.Sprintf("e%d", i)})
	}

	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}

	recent := r.Recent(10)
	want := []string{"e4", "e3", "e2"}
	if len(recent) != len(want) {
		t.Fatalf("Recent = %+v", recent)
	}
	for i, w := range want {
		if recent[i].Event != w {
			t.Errorf("Recent[%d] = %q, want %q", i, recent[i].Event, w)
		}
	}

	if got := r.Recent(1); len(got) != 1 || got[0].Event != "e4" {
		t.Errorf("Recent(1) = %+v", got)
	}
}
