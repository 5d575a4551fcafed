// sid_bus.go - minimal C64-shaped I/O shell layered over the memory image
//
// Covers just enough VIC raster / CIA #1 timer / SID register behaviour for
// a PSID player to run unattended: a polled player reads nothing back from
// these windows, an interrupt-driven one needs CIA timer IRQs to fire. CIA
// writes and timer IRQs are live during emulation; the read intercepts
// below are reached only through CPU.readMemory, which the executor does
// not call, and the raster line changes only through setRaster, which the
// emulation loop does not call. Grounded on sid_playback_bus_6502.go, adapted
// to sit in front of a MemoryImage (for the access shadow) rather than
// owning its own flat RAM array.

package main

// sidBus holds the I/O side-channel state that doesn't belong in the plain
// byte array: CIA timer latches/counters and the free-running raster line.
// Actual register bytes still live in the MemoryImage so the access shadow
// and disassembler see them uniformly.
type sidBus struct {
	mem *MemoryImage

	ciaTimerA, ciaTimerB uint16
	ciaLatchA, ciaLatchB uint16
	ciaCtrlA, ciaCtrlB   uint8
	ciaICR               uint8
	ciaIRQMask           uint8
	irqPending           bool

	raster uint16
}

func newSIDBus(mem *MemoryImage) *sidBus {
	b := &sidBus{mem: mem}
	b.installIRQStub()
	return b
}

// installIRQStub plants a JMP ($0314) trampoline at $FF00 and points the
// IRQ vector at it, matching the C64 KERNAL's own IRQ dispatch convention
// so a player-installed handler at $0314 still runs.
func (b *sidBus) installIRQStub() {
	b.mem.bulkLoad(0xFF00, []byte{0x6C, 0x14, 0x03})
	b.mem.bulkLoad(irqVector, []byte{0x00, 0xFF})
}

// read intercepts a read falling in the I/O window for addresses whose
// behaviour is more than "return the last written byte". ok is false for
// anything the shell doesn't special-case, meaning the caller should fall
// through to the plain memory array.
func (b *sidBus) read(addr uint16) (value byte, ok bool) {
	switch {
	case addr == vicBase+0x11:
		v := b.mem.peek(addr) & 0x7F
		if b.raster&0x100 != 0 {
			v |= 0x80
		}
		return v, true
	case addr == vicBase+0x12:
		return byte(b.raster & 0xFF), true
	case addr == sidBase+0x1B || addr == sidBase+0x1C:
		return 0x00, true // oscillator/envelope read-back not modelled
	case addr == ciaTimerALo:
		return byte(b.ciaTimerA & 0xFF), true
	case addr == ciaTimerAHi:
		return byte(b.ciaTimerA >> 8), true
	case addr == ciaTimerBLo:
		return byte(b.ciaTimerB & 0xFF), true
	case addr == ciaTimerBHi:
		return byte(b.ciaTimerB >> 8), true
	case addr == ciaICRReg:
		v := b.ciaICR
		if v&b.ciaIRQMask != 0 {
			v |= 0x80
		}
		b.ciaICR = 0
		b.irqPending = false
		return v, true
	}
	return 0, false
}

// write intercepts a write whose side effect is more than "store the
// byte". It never suppresses the underlying store - the caller always
// also writes through to the memory image for tracking purposes.
func (b *sidBus) write(addr uint16, value byte) {
	switch addr {
	case ciaTimerALo:
		b.ciaLatchA = (b.ciaLatchA & 0xFF00) | uint16(value)
	case ciaTimerAHi:
		b.ciaLatchA = (b.ciaLatchA & 0x00FF) | uint16(value)<<8
	case ciaTimerBLo:
		b.ciaLatchB = (b.ciaLatchB & 0xFF00) | uint16(value)
	case ciaTimerBHi:
		b.ciaLatchB = (b.ciaLatchB & 0x00FF) | uint16(value)<<8
	case ciaICRReg:
		mask := value & 0x1F
		if value&0x80 != 0 {
			b.ciaIRQMask |= mask
		} else {
			b.ciaIRQMask &^= mask
		}
	case ciaCRA:
		if value&0x10 != 0 {
			b.ciaTimerA = b.ciaLatchA
		}
		b.ciaCtrlA = value
	case ciaCRB:
		if value&0x10 != 0 {
			b.ciaTimerB = b.ciaLatchB
		}
		b.ciaCtrlB = value
	}
}

// addCycles advances CIA timers by the given cycle count, raising IRQs on
// underflow the way the real 6526 does in one-shot/continuous mode.
func (b *sidBus) addCycles(cycles uint64) {
	if b.ciaCtrlA&0x01 != 0 {
		b.advanceTimer(&b.ciaTimerA, b.ciaLatchA, cycles, 0x01)
	}
	if b.ciaCtrlB&0x01 != 0 {
		b.advanceTimer(&b.ciaTimerB, b.ciaLatchB, cycles, 0x02)
	}
}

func (b *sidBus) advanceTimer(timer *uint16, latch uint16, cycles uint64, flag uint8) {
	if latch == 0 {
		return
	}
	remaining := uint64(*timer)
	if remaining == 0 {
		remaining = uint64(latch)
	}
	for cycles > 0 {
		if remaining <= cycles {
			cycles -= remaining
			b.ciaICR |= flag
			if b.ciaICR&b.ciaIRQMask != 0 {
				b.irqPending = true
			}
			remaining = uint64(latch)
		} else {
			remaining -= cycles
			cycles = 0
		}
	}
	*timer = uint16(remaining)
}

func (b *sidBus) setRaster(raster uint16) { b.raster = raster & 0x1FF }

func (b *sidBus) reset() {
	b.ciaTimerA, b.ciaTimerB = 0, 0
	b.ciaLatchA, b.ciaLatchB = 0, 0
	b.ciaCtrlA, b.ciaCtrlB = 0, 0
	b.ciaICR, b.ciaIRQMask = 0, 0
	b.irqPending = false
	b.raster = 0
	b.installIRQStub()
}
