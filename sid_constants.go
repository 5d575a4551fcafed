// sid_constants.go - C64 memory map and SID register addresses
//
// True C64 addresses, not the teacher's relocated 0xF0E00 multi-platform
// window: a PSID program expects the real $D400 SID base, since it was
// written against real hardware. Grounded on
// original_source/MemoryConstants.h's C64 memory map constants.

package main

const (
	vicBase  uint16 = 0xD000
	vicEnd   uint16 = 0xD3FF
	sidBase  uint16 = 0xD400
	sidWindowSize uint16 = 0x20
	sidRegisterCount = 25 // $D400-$D418
	cia1Base uint16 = 0xDC00
	cia2Base uint16 = 0xDD00

	ciaTimerALo = 0xDC04
	ciaTimerAHi = 0xDC05
	ciaTimerBLo = 0xDC06
	ciaTimerBHi = 0xDC07
	ciaICRReg   = 0xDC0D
	ciaCRA      = 0xDC0E
	ciaCRB      = 0xDC0F

	resetVector uint16 = 0xFFFC
	irqVector   uint16 = 0xFFFE
	nmiVector   uint16 = 0xFFFA

	sidClockPAL  = 985248
	sidClockNTSC = 1022727
)

// excludedShadowRanges are address ranges the shadow-register finder never
// proposes as a candidate: the I/O window itself.
var excludedShadowRanges = [][2]uint16{{0xD000, 0xDFFF}}

func isExcludedShadowAddress(addr uint16) bool {
	for _, r := range excludedShadowRanges {
		if addr >= r[0] && addr <= r[1] {
			return true
		}
	}
	return false
}
