// memory_image.go - 64 KiB shadow-tracked memory image (C2)
//
// Three parallel arrays keep the access shadow for every address: the byte
// itself, a bitset of access kinds, and the PC that last wrote it. A fourth
// per-address slot carries a tagged WriteSource so the relocator can
// reconstruct data flow into self-modified operands. Kept as parallel flat
// arrays rather than a struct-of-records, matching the teacher's
// cache-line-conscious layout in cpu_six5go2.go - this is a hot surface
// touched once per memory access during emulation.

package main

// AccessFlag is a bitset over the kinds of access a byte has seen.
type AccessFlag uint8

const (
	AccessRead AccessFlag = 1 << iota
	AccessWrite
	AccessExecute
	AccessOpcodeStart
	AccessJumpTarget
)

// WriteSourceKind tags what produced a given write, needed to trace operand
// provenance through self-modifying stores.
type WriteSourceKind uint8

const (
	SourceNone WriteSourceKind = iota
	SourceImmediate
	SourceFromRegA
	SourceFromRegX
	SourceFromRegY
	SourceFromMemory
)

// WriteSource is a tagged variant: Immediate carries Value, FromRegA/X/Y and
// FromMemory carry the writing instruction's PC, and FromMemory additionally
// carries the address the value was read from.
type WriteSource struct {
	Kind    WriteSourceKind
	Value   byte
	PC      uint16
	SrcAddr uint16
}

const memSize = 0x10000

// MemoryImage is the 64 KiB linear address space plus its access shadow.
// There is no bus emulation here - every access resolves directly into
// these arrays regardless of what real hardware would overlay at that
// address; I/O emulation (sid_bus.go) is layered in front of it.
type MemoryImage struct {
	bytes       [memSize]byte
	access      [memSize]AccessFlag
	lastWriter  [memSize]uint16
	writeSource [memSize]WriteSource

	// Per-instruction-PC observed index-register range, used by the
	// relocator to decide which bytes of a data table are actually live.
	indexRanges map[uint16]*IndexRange
}

// IndexRange records the smallest and largest index-register value observed
// at a given instruction PC across every execution of that instruction.
type IndexRange struct {
	Min, Max byte
	Seen     bool
}

func newMemoryImage() *MemoryImage {
	return &MemoryImage{indexRanges: make(map[uint16]*IndexRange)}
}

// read returns the byte at addr and marks it Read.
func (m *MemoryImage) read(addr uint16) byte {
	m.access[addr] |= AccessRead
	return m.bytes[addr]
}

// write stores value at addr, marking Write and recording provenance.
func (m *MemoryImage) write(addr uint16, value byte, writerPC uint16, source WriteSource) {
	m.bytes[addr] = value
	m.access[addr] |= AccessWrite
	m.lastWriter[addr] = writerPC
	m.writeSource[addr] = source
}

// fetchOpcode reads the byte at pc and marks it as an instruction head.
func (m *MemoryImage) fetchOpcode(pc uint16) byte {
	m.access[pc] |= AccessExecute | AccessOpcodeStart
	return m.bytes[pc]
}

// fetchOperand reads an operand byte belonging to the instruction at pc,
// marking it Execute but not Opcode-start.
func (m *MemoryImage) fetchOperand(pc uint16) byte {
	m.access[pc] |= AccessExecute
	return m.bytes[pc]
}

func (m *MemoryImage) markJumpTarget(addr uint16) {
	m.access[addr] |= AccessJumpTarget
}

// bulkLoad copies bytes into the image starting at startAddr without
// touching the access shadow - used by the music-file loader (C6) to plant
// the program image.
func (m *MemoryImage) bulkLoad(startAddr uint16, data []byte) {
	for i, b := range data {
		m.bytes[uint16(int(startAddr)+i)] = b
	}
}

func (m *MemoryImage) accessAt(addr uint16) AccessFlag   { return m.access[addr] }
func (m *MemoryImage) lastWriterAt(addr uint16) uint16   { return m.lastWriter[addr] }
func (m *MemoryImage) writeSourceAt(addr uint16) WriteSource { return m.writeSource[addr] }
func (m *MemoryImage) peek(addr uint16) byte             { return m.bytes[addr] } // no flag side effect

// recordIndexOffset tracks the [min,max] index-register value observed at
// an instruction PC. Grounded on AddressingModes.cpp's recordIndexOffset,
// called before resolving any indexed addressing mode.
func (m *MemoryImage) recordIndexOffset(pc uint16, offset byte) {
	r, ok := m.indexRanges[pc]
	if !ok {
		r = &IndexRange{}
		m.indexRanges[pc] = r
	}
	if !r.Seen || offset < r.Min {
		r.Min = offset
	}
	if !r.Seen || offset > r.Max {
		r.Max = offset
	}
	r.Seen = true
}

func (m *MemoryImage) indexRangeAt(pc uint16) (IndexRange, bool) {
	r, ok := m.indexRanges[pc]
	if !ok {
		return IndexRange{}, false
	}
	return *r, true
}

// snapshot is a backup/restore pair over the full image, used by the
// emulation driver between experiments. backup/restore are explicit
// operations, never copy-on-write, per the concurrency model.
type memorySnapshot struct {
	bytes [memSize]byte
}

func (m *MemoryImage) backup() *memorySnapshot {
	snap := &memorySnapshot{}
	snap.bytes = m.bytes
	return snap
}

func (m *MemoryImage) restore(snap *memorySnapshot) {
	m.bytes = snap.bytes
}

// reset clears both the byte array and the full access shadow, used by a
// hard CPU reset.
func (m *MemoryImage) reset() {
	m.bytes = [memSize]byte{}
	m.access = [memSize]AccessFlag{}
	m.lastWriter = [memSize]uint16{}
	m.writeSource = [memSize]WriteSource{}
	m.indexRanges = make(map[uint16]*IndexRange)
}
