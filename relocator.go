// relocator.go - relocator (C11)
//
// Given a loaded tune and a new load address, disassembles the observed
// program footprint, assembles it back at the new address, rewraps it in
// a fresh PSID header, and verifies the result by comparing sound-chip
// write traces before and after. Grounded on RelocationUtils.cpp's
// relocateSID/relocateAndVerifySID: same per-basename artefact names, same
// header field carry-over rules, same trace-diff verification step.

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// RelocationParams configures one relocate-and-verify run.
type RelocationParams struct {
	InputFile         string
	OutputFile        string
	TempDir           string
	RelocationAddress uint16
	AssemblerPath     string

	// Metadata/address overrides; zero value means "keep original".
	NameOverride      string
	AuthorOverride    string
	ReleasedOverride  string

	LoadAddrOverride *uint16
	InitAddrOverride *uint16
	PlayAddrOverride *uint16
}

// RelocationResult reports the computed addresses and artefact paths of a
// relocate-and-verify run.
type RelocationResult struct {
	OriginalLoad, OriginalInit, OriginalPlay uint16
	NewLoad, NewInit, NewPlay                uint16

	AsmFile, PrgFile               string
	OriginalTrace, RelocatedTrace  string
	DiffReport                     string

	TracesMatch bool
}

// Relocate runs the full pipeline and returns the populated result, or a
// *RelocationError / *LoadError / *IOError describing the failure; a
// failure of the analysis emulation is returned wrapped with context.
func Relocate(params RelocationParams, emulationFrames int) (*RelocationResult, error) {
	if filepath.Ext(params.InputFile) != ".sid" {
		return nil, newRelocationError(OutputNotSidFormat, "input file must be a .sid file")
	}
	if filepath.Ext(params.OutputFile) != ".sid" {
		return nil, newRelocationError(OutputNotSidFormat, "output file must be a .sid file")
	}
	if err := os.MkdirAll(params.TempDir, 0o755); err != nil {
		return nil, &IOError{Kind: CannotWrite, Path: params.TempDir, Err: err}
	}

	sid, err := LoadSIDFile(params.InputFile)
	if err != nil {
		return nil, err
	}
	if params.LoadAddrOverride != nil {
		sid.Header.LoadAddress = *params.LoadAddrOverride
	}
	if params.InitAddrOverride != nil {
		sid.Header.InitAddress = *params.InitAddrOverride
	}
	if params.PlayAddrOverride != nil {
		sid.Header.PlayAddress = *params.PlayAddrOverride
	}

	result := &RelocationResult{
		OriginalLoad: sid.Header.LoadAddress,
		OriginalInit: sid.Header.InitAddress,
		OriginalPlay: sid.Header.PlayAddress,
		NewLoad:      params.RelocationAddress,
	}
	result.NewInit = result.NewLoad + (result.OriginalInit - result.OriginalLoad)
	result.NewPlay = result.NewLoad + (result.OriginalPlay - result.OriginalLoad)

	cpu := newCPU()
	sid.plantInto(cpu.mem)

	em := newEmulator(cpu, sid)
	opts := EmulationOptions{Frames: emulationFrames, CallsPerFrame: 1}
	if err := em.runEmulation(sid.Header.InitAddress, sid.Header.PlayAddress, uint8(sid.Header.StartSong), opts); err != nil {
		return nil, fmt.Errorf("emulation for memory analysis: %w", err)
	}

	basename := baseNameNoExt(params.InputFile)
	asmPath := filepath.Join(params.TempDir, basename+"-relocated.asm")
	prgPath := filepath.Join(params.TempDir, basename+"-relocated.prg")
	result.AsmFile = asmPath
	result.PrgFile = prgPath

	programEnd := sid.Header.LoadAddress + uint16(len(sid.Data)) - 1
	dis := newDisassembler(cpu.mem, sid.Header.LoadAddress, programEnd)
	dis.labelFor(sid.Header.InitAddress)
	dis.labelFor(sid.Header.PlayAddress)
	lines := dis.Disassemble()
	source := renderRelocatedSource(lines, result.NewLoad)

	if err := os.WriteFile(asmPath, []byte(source), 0o644); err != nil {
		return nil, &IOError{Kind: CannotWrite, Path: asmPath, Err: err}
	}

	assembler := newAssemblerDriver(params.AssemblerPath)
	if err := assembler.Assemble(asmPath, prgPath, params.TempDir); err != nil {
		return nil, err
	}

	prgData, err := os.ReadFile(prgPath)
	if err != nil {
		return nil, &IOError{Kind: CannotOpen, Path: prgPath, Err: err}
	}
	if len(prgData) < 2 {
		return nil, newRelocationError(AssemblerFailed, "assembled PRG is too short to contain a load address")
	}
	prgLoad := uint16(prgData[0]) | uint16(prgData[1])<<8
	if prgLoad != result.NewLoad {
		return nil, newRelocationError(ReassembleLoadAddressMismatch,
			fmt.Sprintf("assembled load address $%04X != requested $%04X", prgLoad, result.NewLoad), asmPath, prgPath)
	}

	name, author, released := sid.Header.Name, sid.Header.Author, sid.Header.Released
	if params.NameOverride != "" {
		name = params.NameOverride
	}
	if params.AuthorOverride != "" {
		author = params.AuthorOverride
	}
	if params.ReleasedOverride != "" {
		released = params.ReleasedOverride
	}

	outHeader := SIDHeader{
		MagicID:     "PSID",
		Version:     sid.Header.Version,
		DataOffset:  dataOffsetForVersion(sid.Header.Version),
		LoadAddress: 0,
		InitAddress: result.NewInit,
		PlayAddress: result.NewPlay,
		Songs:       sid.Header.Songs,
		StartSong:   sid.Header.StartSong,
		Speed:       sid.Header.Speed,
		Name:        name,
		Author:      author,
		Released:    released,
		Flags:       sid.Header.Flags,
		StartPage:   sid.Header.StartPage,
		PageLength:  sid.Header.PageLength,
	}

	outBytes := encodeSIDFile(outHeader, prgData)
	if err := os.WriteFile(params.OutputFile, outBytes, 0o644); err != nil {
		return nil, &IOError{Kind: CannotWrite, Path: params.OutputFile, Err: err}
	}

	return result, nil
}

// VerifyRelocation re-emulates both the original and relocated files,
// capturing traces, and writes a diff report. Call after Relocate.
func VerifyRelocation(result *RelocationResult, originalPath, relocatedPath string, emulationFrames int) error {
	basename := baseNameNoExt(originalPath)
	tempDir := filepath.Dir(result.AsmFile)
	result.OriginalTrace = filepath.Join(tempDir, basename+"-original.trace")
	result.RelocatedTrace = filepath.Join(tempDir, basename+"-relocated.trace")
	result.DiffReport = filepath.Join(tempDir, basename+"-diff.txt")

	originalTrace, err := traceFile(originalPath, emulationFrames)
	if err != nil {
		return fmt.Errorf("tracing original: %w", err)
	}

	relocatedTrace, err := traceFile(relocatedPath, emulationFrames)
	if err != nil {
		return fmt.Errorf("tracing relocated: %w", err)
	}

	match, err := writeDiffReport(result.DiffReport, originalTrace, relocatedTrace)
	if err != nil {
		return err
	}
	result.TracesMatch = match
	if !match {
		return newRelocationError(VerifyMismatch, "before/after sound-chip write traces differ",
			result.OriginalTrace, result.RelocatedTrace, result.DiffReport)
	}
	return nil
}

func traceFile(path string, frames int) (Trace, error) {
	sid, err := LoadSIDFile(path)
	if err != nil {
		return Trace{}, err
	}
	cpu := newCPU()
	sid.plantInto(cpu.mem)

	rec := newTraceRecorder()
	em := newEmulator(cpu, sid)
	opts := EmulationOptions{
		Frames:        frames,
		CallsPerFrame: 1,
		OnWrite:       func(addr uint16, value byte) { rec.recordWrite(addr, value) },
		OnFrameEnd:    func(mem *MemoryImage) { rec.endFrame() },
	}
	if err := em.runEmulation(sid.Header.InitAddress, sid.Header.PlayAddress, uint8(sid.Header.StartSong), opts); err != nil {
		return Trace{}, err
	}
	return rec.trace, nil
}

func baseNameNoExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

func dataOffsetForVersion(version uint16) uint16 {
	if version == 1 {
		return 0x76
	}
	return 0x7C
}

// encodeSIDFile serialises a header and program bytes (including the
// leading 2-byte load address, since LoadAddress is always 0 on output)
// into a PSID file image.
func encodeSIDFile(h SIDHeader, prgData []byte) []byte {
	buf := make([]byte, h.DataOffset)
	copy(buf[0:4], h.MagicID)
	putBE16(buf[4:6], h.Version)
	putBE16(buf[6:8], h.DataOffset)
	putBE16(buf[8:10], h.LoadAddress)
	putBE16(buf[10:12], h.InitAddress)
	putBE16(buf[12:14], h.PlayAddress)
	putBE16(buf[14:16], h.Songs)
	putBE16(buf[16:18], h.StartSong)
	putBE32(buf[18:22], h.Speed)
	copyPadded(buf[22:54], h.Name)
	copyPadded(buf[54:86], h.Author)
	copyPadded(buf[86:118], h.Released)
	if len(buf) >= 0x78 {
		putBE16(buf[0x76:0x78], h.Flags)
	}
	if len(buf) >= 0x7A {
		buf[0x78] = h.StartPage
		buf[0x79] = h.PageLength
	}
	return append(buf, prgData...)
}

func putBE16(b []byte, v uint16) { b[0] = byte(v >> 8); b[1] = byte(v) }
func putBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
func copyPadded(dst []byte, s string) {
	copy(dst, s)
}

// renderRelocatedSource renders disassembled lines with an assembler
// directive setting the base address, since the cross-assembler places
// code wherever its own `*=` / `.org`-equivalent directive says.
func renderRelocatedSource(lines []DisassembledLine, loadAddr uint16) string {
	return fmt.Sprintf("* = $%04X\n\n%s", loadAddr, Render(lines))
}
