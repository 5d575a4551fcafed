// shadow_finder.go - shadow-register finder (C10)
//
// Looks for RAM locations that mirror the most recently written value of
// each sound-chip register, a common pattern in hand-rolled players that
// keep a shadow copy of the chip state for read-modify-write effects.
// Grounded line-for-line on SIDShadowRegisterFinder.cpp: same warmup skip,
// same page-scan discovery window, same reliability-drop eviction and
// final selection thresholds.

package main

const (
	shadowWarmupFrames          = 10
	shadowDiscoveryFrameLimit   = 100
	shadowEvictionCheckFloor    = 100
	shadowEvictionReliability   = 0.5
	shadowMinSamples            = 50
	shadowDefaultReliability    = 0.95
	shadowNoAddress      uint16 = 0xFFFF
)

type shadowCandidate struct {
	address    uint16
	matchCount int
	totalChecks int
}

func (c *shadowCandidate) reliability() float64 {
	if c.totalChecks == 0 {
		return 0
	}
	return float64(c.matchCount) / float64(c.totalChecks)
}

// ShadowFinder tracks, for each of the 25 sound-chip registers, candidate
// RAM addresses whose byte has matched that register's most recent value,
// with match/check counts; a candidate is dropped once its reliability
// falls below shadowEvictionReliability after more than
// shadowEvictionCheckFloor checks.
type ShadowFinder struct {
	currentValues [sidRegisterCount]byte
	registerSeen  [sidRegisterCount]bool
	candidates    [sidRegisterCount]map[uint16]*shadowCandidate
	shadowMap     [sidRegisterCount]uint16
	frameCount    int
}

func newShadowFinder() *ShadowFinder {
	f := &ShadowFinder{}
	f.reset()
	return f
}

func (f *ShadowFinder) reset() {
	f.currentValues = [sidRegisterCount]byte{}
	f.registerSeen = [sidRegisterCount]bool{}
	for i := range f.candidates {
		f.candidates[i] = make(map[uint16]*shadowCandidate)
	}
	for i := range f.shadowMap {
		f.shadowMap[i] = shadowNoAddress
	}
	f.frameCount = 0
}

// recordSIDWrite updates the last-known value of a sound-chip register.
func (f *ShadowFinder) recordSIDWrite(addr uint16, value byte) {
	if addr < sidBase || addr > sidBase+0x18 {
		return
	}
	reg := byte(addr-sidBase) & 0x1F
	if int(reg) >= sidRegisterCount {
		return
	}
	f.currentValues[reg] = value
	f.registerSeen[reg] = true
}

// checkMemoryForShadowRegisters scans mem once per frame, updating
// candidate reliability and discovering new candidates while still in the
// early discovery window.
func (f *ShadowFinder) checkMemoryForShadowRegisters(mem *MemoryImage) {
	f.frameCount++
	if f.frameCount <= shadowWarmupFrames {
		return
	}

	for reg := 0; reg < sidRegisterCount; reg++ {
		if !f.registerSeen[reg] {
			continue
		}
		target := f.currentValues[reg]
		candidates := f.candidates[reg]

		var toRemove []uint16
		for addr, info := range candidates {
			info.totalChecks++
			if mem.peek(addr) == target {
				info.matchCount++
			} else if info.reliability() < shadowEvictionReliability && info.totalChecks > shadowEvictionCheckFloor {
				toRemove = append(toRemove, addr)
			}
		}
		for _, addr := range toRemove {
			delete(candidates, addr)
		}

		if f.frameCount < shadowDiscoveryFrameLimit && target != 0 {
			f.discoverCandidates(mem, reg, target, candidates)
		}
	}
}

func (f *ShadowFinder) discoverCandidates(mem *MemoryImage, reg int, target byte, candidates map[uint16]*shadowCandidate) {
	for page := 0; page < 0x10000; page += 256 {
		foundInPage := false
		for i := 0; i < 256 && page+i < 0x10000; i++ {
			if mem.peek(uint16(page + i)) == target {
				foundInPage = true
				break
			}
		}
		if !foundInPage {
			continue
		}
		for i := 0; i < 256 && page+i < 0x10000; i++ {
			addr := uint16(page + i)
			if isExcludedShadowAddress(addr) {
				continue
			}
			if _, exists := candidates[addr]; exists {
				continue
			}
			if mem.peek(addr) == target {
				candidates[addr] = &shadowCandidate{address: addr, matchCount: 1, totalChecks: 1}
			}
		}
	}
}

// analyzeResults picks, for each register, the candidate with the highest
// reliability meeting the sample-count and reliability thresholds. Ties
// are broken by lower address since map iteration order is unspecified.
func (f *ShadowFinder) analyzeResults(threshold float64) {
	for i := range f.shadowMap {
		f.shadowMap[i] = shadowNoAddress
	}
	for reg := 0; reg < sidRegisterCount; reg++ {
		best := shadowNoAddress
		bestReliability := 0.0
		for addr, info := range f.candidates[reg] {
			if info.totalChecks < shadowMinSamples {
				continue
			}
			r := info.reliability()
			if r < threshold {
				continue
			}
			if r > bestReliability || (r == bestReliability && addr < best) {
				bestReliability = r
				best = addr
			}
		}
		f.shadowMap[reg] = best
	}
}

func (f *ShadowFinder) ShadowRegisterFor(sidRegister byte) uint16 {
	if int(sidRegister) < sidRegisterCount {
		return f.shadowMap[sidRegister]
	}
	return shadowNoAddress
}

func (f *ShadowFinder) ShadowRegisterCount() int {
	count := 0
	for reg := 0; reg < sidRegisterCount; reg++ {
		if f.shadowMap[reg] != shadowNoAddress && f.registerSeen[reg] {
			count++
		}
	}
	return count
}
