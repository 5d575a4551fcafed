package main

import "testing"

// playFrames drives n frames of a SID write to reg followed by a memory
// scan, mirroring how the emulator's OnWrite/OnFrameEnd hooks drive a
// ShadowFinder during a real run.
func playFrames(f *ShadowFinder, mem *MemoryImage, reg byte, n int) {
	for i := 0; i < n; i++ {
		value := byte(i % 256)
		f.recordSIDWrite(sidBase+uint16(reg), value)
		mem.write(0x0340, value, 0, WriteSource{}) // faithful shadow copy
		f.checkMemoryForShadowRegisters(mem)
	}
}

func TestShadowFinder_FindsReliableShadowAfterWarmupAndSamples(t *testing.T) {
	mem := newMemoryImage()
	f := newShadowFinder()
	playFrames(f, mem, 0x04, shadowWarmupFrames+shadowMinSamples+5)
	f.analyzeResults(shadowDefaultReliability)
	if got := f.ShadowRegisterFor(0x04); got != 0x0340 {
		t.Errorf("expected shadow register at $0340, got %#04x", got)
	}
	if f.ShadowRegisterCount() != 1 {
		t.Errorf("expected exactly one shadow register found, got %d", f.ShadowRegisterCount())
	}
}

func TestShadowFinder_RejectsCandidateBelowMinimumSamples(t *testing.T) {
	mem := newMemoryImage()
	f := newShadowFinder()
	playFrames(f, mem, 0x04, shadowWarmupFrames+shadowMinSamples-5)
	f.analyzeResults(shadowDefaultReliability)
	if got := f.ShadowRegisterFor(0x04); got != shadowNoAddress {
		t.Errorf("expected no shadow register below the sample floor, got %#04x", got)
	}
}

func TestShadowFinder_ExcludesIOWindowAddresses(t *testing.T) {
	mem := newMemoryImage()
	f := newShadowFinder()
	for i := 0; i < shadowWarmupFrames+shadowMinSamples+5; i++ {
		value := byte(i % 256)
		f.recordSIDWrite(sidBase+0x04, value)
		mem.write(0xD020, value, 0, WriteSource{}) // inside the excluded I/O range
		f.checkMemoryForShadowRegisters(mem)
	}
	f.analyzeResults(shadowDefaultReliability)
	if got := f.ShadowRegisterFor(0x04); got != shadowNoAddress {
		t.Errorf("expected $D020 to be excluded as a candidate, got %#04x", got)
	}
}

func TestShadowFinder_RecordSIDWriteIgnoresNonSIDAddresses(t *testing.T) {
	f := newShadowFinder()
	f.recordSIDWrite(0x0400, 0x55)
	if f.registerSeen[0] {
		t.Error("expected a non-SID write not to mark any register seen")
	}
}
