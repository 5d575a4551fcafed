package main

import (
	"reflect"
	"testing"
)

// A tune that always writes register 0 then register 1 then register 4,
// frame after frame, should yield that exact canonical order.
func TestWriteTracker_ConsistentOrderDetected(t *testing.T) {
	wt := newWriteTracker()
	for frame := 0; frame < 5; frame++ {
		wt.recordWrite(sidBase+0, 0x10)
		wt.recordWrite(sidBase+1, 0x20)
		wt.recordWrite(sidBase+4, 0x30)
		wt.endFrame()
	}
	wt.analyzePattern()
	if !wt.hasConsistentPattern() {
		t.Fatal("expected a consistent write order")
	}
	want := []byte{0, 1, 4}
	if got := wt.writeOrder(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

// Registers whose relative order flips between frames never form a pair in
// the canonical order.
func TestWriteTracker_ConflictingOrderDropped(t *testing.T) {
	wt := newWriteTracker()
	wt.recordWrite(sidBase+0, 1)
	wt.recordWrite(sidBase+1, 1)
	wt.endFrame()
	wt.recordWrite(sidBase+1, 1)
	wt.recordWrite(sidBase+0, 1)
	wt.endFrame()
	wt.analyzePattern()
	if wt.hasConsistentPattern() {
		t.Errorf("expected no consistent pattern, got order %v", wt.writeOrder())
	}
}

// Only the first write to a register within a frame counts toward order
// inference; a second write to the same register in the same frame is
// ignored.
func TestWriteTracker_DedupsWithinFrame(t *testing.T) {
	wt := newWriteTracker()
	wt.recordWrite(sidBase+0, 1)
	wt.recordWrite(sidBase+0, 2)
	wt.endFrame()
	if wt.frameCount() != 1 {
		t.Fatalf("expected 1 frame, got %d", wt.frameCount())
	}
	if len(wt.frames[0]) != 1 {
		t.Errorf("expected exactly one recorded write, got %d", len(wt.frames[0]))
	}
}

func TestWriteTracker_WritesOutsideSIDWindowIgnored(t *testing.T) {
	wt := newWriteTracker()
	wt.recordWrite(0x0400, 1) // screen RAM, not a SID register
	wt.endFrame()
	if len(wt.frames[0]) != 0 {
		t.Error("expected non-SID writes to be ignored")
	}
}
