package main

import "testing"

func TestMemoryImage_BackupRestoreRoundTrips(t *testing.T) {
	mem := newMemoryImage()
	mem.bulkLoad(0x1000, []byte{1, 2, 3})
	snap := mem.backup()
	mem.write(0x1000, 0xFF, 0xC000, WriteSource{})
	if mem.peek(0x1000) != 0xFF {
		t.Fatal("setup failed: write did not take")
	}
	mem.restore(snap)
	if mem.peek(0x1000) != 1 {
		t.Errorf("expected restore to bring back the original byte, got %#02x", mem.peek(0x1000))
	}
}

func TestMemoryImage_ResetClearsAccessShadow(t *testing.T) {
	mem := newMemoryImage()
	mem.write(0x2000, 0x42, 0xC000, WriteSource{})
	mem.read(0x2000)
	if mem.accessAt(0x2000) == 0 {
		t.Fatal("setup failed: no access flags recorded")
	}
	mem.reset()
	if mem.accessAt(0x2000) != 0 {
		t.Error("expected reset to clear access flags")
	}
	if mem.peek(0x2000) != 0 {
		t.Error("expected reset to clear bytes")
	}
}

func TestMemoryImage_IndexRangeTracksMinMax(t *testing.T) {
	mem := newMemoryImage()
	mem.recordIndexOffset(0xC000, 5)
	mem.recordIndexOffset(0xC000, 1)
	mem.recordIndexOffset(0xC000, 9)
	ir, ok := mem.indexRangeAt(0xC000)
	if !ok {
		t.Fatal("expected an index range to be recorded")
	}
	if ir.Min != 1 || ir.Max != 9 {
		t.Errorf("expected [1,9], got [%d,%d]", ir.Min, ir.Max)
	}
}

func TestMemoryImage_BulkLoadSkipsAccessShadow(t *testing.T) {
	mem := newMemoryImage()
	mem.bulkLoad(0x3000, []byte{0xAA, 0xBB})
	if mem.accessAt(0x3000) != 0 {
		t.Error("expected bulkLoad not to mark access flags")
	}
	if mem.peek(0x3000) != 0xAA || mem.peek(0x3001) != 0xBB {
		t.Error("expected bulkLoad to place bytes verbatim")
	}
}
