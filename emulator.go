// emulator.go - emulation driver (C7)
//
// Runs a loaded tune's init/play routines against the CPU long enough to
// observe its steady-state SID writes, then hands the observations to the
// write tracker and pattern finder. Grounded line-for-line on
// original_source/SIDEmulator.cpp's runEmulation: the warmup-then-measure
// structure, the extraAddr heuristic and the "play once before enabling
// tracking" step are all preserved exactly, since the spec leaves them as
// an open question resolved by following the original.

package main

import "fmt"

const defaultEmulationFrames = 3
const defaultMaxInitFrames = 50

// EmulationOptions configures one runEmulation call.
type EmulationOptions struct {
	Frames                 int
	CallsPerFrame          int
	RegisterTrackingEnabled bool
	PatternDetectionEnabled bool
	TraceEnabled           bool
	TraceLogPath           string
	TraceFormat            TraceFormat
	WarmupFrames           int // 0 means defaultEmulationFrames

	// OnWrite and OnFrameEnd let a caller observe sound-chip writes and
	// frame boundaries without installing its own CallbackWriteSound
	// observer, which runEmulation would otherwise silently replace.
	OnWrite    func(addr uint16, value byte)
	OnFrameEnd func(mem *MemoryImage)
}

// Emulator owns a CPU and the analysis components that observe it while it
// runs a tune.
type Emulator struct {
	cpu *CPU
	sid *SIDFile

	writeTracker  *WriteTracker
	patternFinder *PatternFinder
	traceLogger   *TraceLogger

	totalCycles     uint64
	maxCyclesPerFrame uint64
	framesExecuted  int
}

func newEmulator(cpu *CPU, sid *SIDFile) *Emulator {
	return &Emulator{cpu: cpu, sid: sid, writeTracker: newWriteTracker(), patternFinder: newPatternFinder()}
}

// runEmulation executes the init/play cycle per options and leaves
// e.writeTracker / e.patternFinder populated for the caller to inspect.
// Memory is backed up on entry and restored on every return path.
// subsong is the 1-based song number (as in the header's StartSong); init
// receives the 0-based index subsong-1 in A.
func (e *Emulator) runEmulation(initAddr, playAddr uint16, subsong uint8, options EmulationOptions) error {
	songIndex := subsong
	if songIndex > 0 {
		songIndex--
	}

	if options.RegisterTrackingEnabled {
		e.writeTracker.reset()
	}
	if options.PatternDetectionEnabled {
		e.patternFinder.reset()
	}
	if options.TraceEnabled && options.TraceLogPath != "" {
		tl, err := newTraceLogger(options.TraceLogPath, options.TraceFormat)
		if err != nil {
			return err
		}
		e.traceLogger = tl
		defer e.traceLogger.close()
	} else {
		e.traceLogger = nil
	}

	callsPerFrame := options.CallsPerFrame
	if callsPerFrame <= 0 {
		callsPerFrame = 1
	}
	warmupFrames := options.WarmupFrames
	if warmupFrames <= 0 {
		warmupFrames = defaultEmulationFrames
	}

	snap := e.cpu.mem.backup()
	defer e.cpu.mem.restore(snap)

	extraAddr := detectExtraAddress(e.cpu, initAddr, playAddr)

	trackingEnabled := false
	setTrackingCallback := func(enabled bool) {
		e.cpu.setCallback(CallbackWriteSound, WriteObserver(func(addr uint16, value byte, pc uint16, src WriteSource) {
			if enabled {
				e.writeTracker.recordWrite(addr, value)
			}
			if options.PatternDetectionEnabled {
				e.patternFinder.recordWrite(addr, value)
			}
			if options.TraceEnabled && e.traceLogger != nil {
				e.traceLogger.logWrite(byte(addr-sidBase), value)
			}
			if options.OnWrite != nil {
				options.OnWrite(addr, value)
			}
		}))
	}

	e.cpu.resetRegistersAndFlags()
	e.cpu.A = songIndex // PSID calling convention: init receives the 0-based subsong index in A
	setTrackingCallback(false)
	if err := e.cpu.executeFunction(initAddr); err != nil {
		return fmt.Errorf("init routine failed: %w", err)
	}

	for frame := 0; frame < warmupFrames; frame++ {
		for call := 0; call < callsPerFrame; call++ {
			e.cpu.resetRegistersAndFlags()
			if err := e.cpu.executeFunction(playAddr); err != nil {
				return err
			}
			if options.TraceEnabled && e.traceLogger != nil {
				e.traceLogger.logFrameMarker()
			}
			if options.PatternDetectionEnabled {
				e.patternFinder.endFrame()
			}
			// The write tracker and OnFrameEnd see only the measured frames.
		}
	}

	if extraAddr != 0 {
		e.cpu.resetRegistersAndFlags()
		if err := e.cpu.executeFunction(extraAddr); err != nil {
			return err
		}
	}

	e.cpu.resetRegistersAndFlags()
	e.cpu.A = songIndex
	setTrackingCallback(false)
	if err := e.cpu.executeFunction(initAddr); err != nil {
		return fmt.Errorf("re-init routine failed: %w", err)
	}
	if options.TraceEnabled && e.traceLogger != nil {
		e.traceLogger.logFrameMarker()
	}

	e.totalCycles = 0
	e.maxCyclesPerFrame = 0
	e.framesExecuted = 0

	if options.RegisterTrackingEnabled || options.PatternDetectionEnabled {
		// Some tunes behave differently on the very first frame; play it
		// once, unobserved, before turning tracking on.
		if err := e.cpu.executeFunction(playAddr); err != nil {
			return err
		}
		trackingEnabled = true
		setTrackingCallback(true)
	}

	lastCycles := e.cpu.cycles
	for frame := 0; frame < options.Frames; frame++ {
		var err error
		for call := 0; call < callsPerFrame; call++ {
			e.cpu.resetRegistersAndFlags()
			if err = e.cpu.executeFunction(playAddr); err != nil {
				break
			}
		}
		if err != nil {
			return err
		}

		curCycles := e.cpu.cycles
		frameCycles := curCycles - lastCycles
		if frameCycles > e.maxCyclesPerFrame {
			e.maxCyclesPerFrame = frameCycles
		}
		e.totalCycles += frameCycles
		lastCycles = curCycles

		if options.TraceEnabled && e.traceLogger != nil {
			e.traceLogger.logFrameMarker()
		}
		if options.RegisterTrackingEnabled {
			e.writeTracker.endFrame()
		}
		if options.PatternDetectionEnabled {
			e.patternFinder.endFrame()
		}
		if options.OnFrameEnd != nil {
			options.OnFrameEnd(e.cpu.mem)
		}
		e.framesExecuted++
	}

	if extraAddr != 0 {
		e.cpu.resetRegistersAndFlags()
		if err := e.cpu.executeFunction(extraAddr); err != nil {
			return err
		}
	}

	if trackingEnabled {
		e.writeTracker.analyzePattern()
	}
	if options.PatternDetectionEnabled {
		e.patternFinder.analyzePattern(defaultMaxInitFrames)
	}

	if e.framesExecuted == 0 {
		return errNoDataCollected
	}
	return nil
}

// detectExtraAddress guesses at a player-reset/voice-setup routine squeezed
// between init and play in the common three-routine PSID layout: if play
// sits exactly 3 or 6 bytes past init, the remaining slot - if it starts
// with a JMP opcode - is assumed to be that extra routine.
func detectExtraAddress(cpu *CPU, initAddr, playAddr uint16) uint16 {
	var extraAddr uint16
	if playAddr == initAddr+3 {
		extraAddr = initAddr + 6
	}
	if playAddr == initAddr+6 {
		extraAddr = initAddr + 3
	}
	if extraAddr != 0 && cpu.mem.peek(extraAddr) != 0x4C {
		extraAddr = 0
	}
	return extraAddr
}

// CycleStats reports the average and peak play-routine cost observed
// during the measured portion of runEmulation.
func (e *Emulator) CycleStats() (avg, max uint64) {
	if e.framesExecuted == 0 {
		return 0, e.maxCyclesPerFrame
	}
	return e.totalCycles / uint64(e.framesExecuted), e.maxCyclesPerFrame
}
