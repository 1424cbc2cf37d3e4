package ui

import "time"

// DebugRingSize is how many frames the debug panel keeps.
const DebugRingSize = 64

// DebugFrame records one handled event while debug mode is on.
type DebugFrame struct {
	At             time.Time
	Event          string
	RenderDuration time.Duration
	FetchDuration  time.Duration
}

// DebugRing is a fixed-size ring of debug frames. The oldest frame is
// overwritten once it is full.
type DebugRing struct {
	frames []DebugFrame
	next   int
	full   bool
}

func NewDebugRing(size int) *DebugRing {
	return &DebugRing{frames: make([]DebugFrame, max(size, 1))}
}

// Add appends f.
func (r *DebugRing) Add(f DebugFrame) {
	r.frames[r.next] = f
	r.next = (r.next + 1) % len(r.frames)
	if r.next == 0 {
		r.full = true
	}
}

// Len returns the number of frames held.
func (r *DebugRing) Len() int {
	if r.full {
		return len(r.frames)
	}
	return r.next
}

// Recent returns up to n frames, newest first.
func (r *DebugRing) Recent(n int) []DebugFrame {
	n = min(n, r.Len())
	out := make([]DebugFrame, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.frames)) % len(r.frames)
		out = append(out, r.frames[idx])
	}
	return out
}
