// cli.go - root command definition for the CLI (C15)
//
// Implements spec.md section 6's flag surface: -relocate, -trace,
// -player, -disassemble, -help, metadata and address overrides, plus the
// expansion's -asm for the cross-assembler path. pflag's GNU-style long
// flags are used throughout, matching the teacher pack's cobra/pflag
// combination (z80opt/main.go) rather than the stdlib flag package.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const defaultEmulationFramesForCLI = 3000

func newRootCommand() *cobra.Command {
	var (
		relocateAddr string
		traceArg     string
		traceSet     bool
		playerName   string
		disassemble  bool
		asmPath      string
		tempDir      string

		sidName      string
		sidAuthor    string
		sidCopyright string
		sidLoadAddr  string
		sidInitAddr  string
		sidPlayAddr  string
		playerAddr   string
	)

	cmd := &cobra.Command{
		Use:   "sid65reloc <input> <output>",
		Short: "Static analysis and relocation toolkit for PSID music files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]

			overrides := headerOverrides{
				loadAddr: sidLoadAddr,
				initAddr: sidInitAddr,
				playAddr: sidPlayAddr,
			}

			switch {
			case relocateAddr != "":
				return runRelocate(input, output, relocateAddr, asmPath, tempDir, sidName, sidAuthor, sidCopyright, overrides)
			case disassemble:
				return runDisassemble(input, output, overrides)
			case playerName != "":
				return runLinkPlayer(input, output, playerName, playerAddr, overrides)
			default:
				return runTrace(input, output, traceArg, traceSet, overrides)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&relocateAddr, "relocate", "", "relocate the program to this load address (hex, e.g. 0x2000)")
	flags.StringVar(&traceArg, "trace", "", "write a sound-chip write trace to this file (.bin for binary, .txt/.log for text)")
	flags.StringVar(&playerName, "player", "", "link a built-in visualiser stub by name (e.g. raster-poll)")
	flags.BoolVar(&disassemble, "disassemble", false, "emit assembler source for the input file's program footprint")
	flags.StringVar(&asmPath, "asm", "", "path to the external cross-assembler executable (required for -relocate)")
	flags.StringVar(&tempDir, "tempdir", ".", "directory for relocation artefacts (.asm/.prg/.trace/.log files)")

	flags.StringVar(&sidName, "sidname", "", "override the output file's name field")
	flags.StringVar(&sidAuthor, "sidauthor", "", "override the output file's author field")
	flags.StringVar(&sidCopyright, "sidcopyright", "", "override the output file's released/copyright field")
	flags.StringVar(&sidLoadAddr, "sidloadaddr", "", "override the load address (hex)")
	flags.StringVar(&sidInitAddr, "sidinitaddr", "", "override the init address (hex)")
	flags.StringVar(&sidPlayAddr, "sidplayaddr", "", "override the play address (hex)")
	flags.StringVar(&playerAddr, "playeraddr", "", "override the linked visualiser stub's address (hex)")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		traceSet = cmd.Flags().Changed("trace")
		return nil
	}

	return cmd
}

// headerOverrides carries the CLI's address-override flags through to
// loadSIDWithOverrides.
type headerOverrides struct {
	loadAddr, initAddr, playAddr string
}

// parsed converts the three optional hex strings into *uint16 overrides,
// nil meaning "not supplied".
func (ov headerOverrides) parsed() (load, init, play *uint16, err error) {
	parse := func(s string) (*uint16, error) {
		if s == "" {
			return nil, nil
		}
		v, err := parseHexAddr(s)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	if load, err = parse(ov.loadAddr); err != nil {
		return
	}
	if init, err = parse(ov.initAddr); err != nil {
		return
	}
	play, err = parse(ov.playAddr)
	return
}

// loadSIDWithOverrides loads a SID file and applies any non-empty hex
// address overrides (spec.md's -sidloadaddr/-sidinitaddr/-sidplayaddr).
// An overridden load address shifts where the program is planted into
// memory but does not move the bytes already read from the file.
func loadSIDWithOverrides(path string, ov headerOverrides) (*SIDFile, error) {
	sid, err := LoadSIDFile(path)
	if err != nil {
		return nil, err
	}
	if ov.loadAddr != "" {
		addr, err := parseHexAddr(ov.loadAddr)
		if err != nil {
			return nil, err
		}
		sid.Header.LoadAddress = addr
	}
	if ov.initAddr != "" {
		addr, err := parseHexAddr(ov.initAddr)
		if err != nil {
			return nil, err
		}
		sid.Header.InitAddress = addr
	}
	if ov.playAddr != "" {
		addr, err := parseHexAddr(ov.playAddr)
		if err != nil {
			return nil, err
		}
		sid.Header.PlayAddress = addr
	}
	return sid, nil
}

func parseHexAddr(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid hex address %q: %w", s, err)
	}
	return uint16(v), nil
}

func runRelocate(input, output, addrStr, asmPath, tempDir, name, author, released string, ov headerOverrides) error {
	addr, err := parseHexAddr(addrStr)
	if err != nil {
		return err
	}
	if asmPath == "" {
		return &cliExitError{code: 1, message: "sid65reloc: -asm=<path> is required for -relocate"}
	}

	params := RelocationParams{
		InputFile:         input,
		OutputFile:        output,
		TempDir:           tempDir,
		RelocationAddress: addr,
		AssemblerPath:     asmPath,
		NameOverride:      name,
		AuthorOverride:    author,
		ReleasedOverride:  released,
	}
	var err2 error
	params.LoadAddrOverride, params.InitAddrOverride, params.PlayAddrOverride, err2 = ov.parsed()
	if err2 != nil {
		return err2
	}

	result, err := Relocate(params, defaultEmulationFramesForCLI)
	if err != nil {
		return wrapCLIError(err)
	}

	if err := VerifyRelocation(result, input, output, defaultEmulationFramesForCLI); err != nil {
		if relErr, ok := err.(*RelocationError); ok && relErr.Kind == VerifyMismatch {
			fmt.Fprintf(os.Stderr, "sid65reloc: relocated to $%04X but traces differ: see %s\n", result.NewLoad, result.DiffReport)
			return &cliExitError{code: 2}
		}
		return wrapCLIError(err)
	}

	fmt.Printf("relocated $%04X -> $%04X, init $%04X, play $%04X (traces match)\n",
		result.OriginalLoad, result.NewLoad, result.NewInit, result.NewPlay)
	return nil
}

func runDisassemble(input, output string, ov headerOverrides) error {
	sid, err := loadSIDWithOverrides(input, ov)
	if err != nil {
		return wrapCLIError(err)
	}
	cpu := newCPU()
	sid.plantInto(cpu.mem)

	em := newEmulator(cpu, sid)
	opts := EmulationOptions{Frames: defaultEmulationFramesForCLI, CallsPerFrame: 1}
	if err := em.runEmulation(sid.Header.InitAddress, sid.Header.PlayAddress, uint8(sid.Header.StartSong), opts); err != nil {
		return wrapCLIError(err)
	}

	programEnd := sid.Header.LoadAddress + uint16(len(sid.Data)) - 1
	dis := newDisassembler(cpu.mem, sid.Header.LoadAddress, programEnd)
	dis.labelFor(sid.Header.InitAddress)
	dis.labelFor(sid.Header.PlayAddress)
	lines := dis.Disassemble()

	source := fmt.Sprintf("; %s by %s\n\n", sid.Header.Name, sid.Header.Author) + Render(lines)
	if err := os.WriteFile(output, []byte(source), 0o644); err != nil {
		return &IOError{Kind: CannotWrite, Path: output, Err: err}
	}
	return nil
}

func runLinkPlayer(input, output, playerName, playerAddr string, ov headerOverrides) error {
	sid, err := loadSIDWithOverrides(input, ov)
	if err != nil {
		return wrapCLIError(err)
	}
	cpu := newCPU()
	sid.plantInto(cpu.mem)

	shadow := newShadowFinder()
	em := newEmulator(cpu, sid)
	opts := EmulationOptions{
		Frames:        defaultEmulationFramesForCLI,
		CallsPerFrame: 1,
		OnWrite:       func(addr uint16, value byte) { shadow.recordSIDWrite(addr, value) },
		OnFrameEnd:    func(mem *MemoryImage) { shadow.checkMemoryForShadowRegisters(mem) },
	}
	if err := em.runEmulation(sid.Header.InitAddress, sid.Header.PlayAddress, uint8(sid.Header.StartSong), opts); err != nil {
		return wrapCLIError(err)
	}
	shadow.analyzeResults(shadowDefaultReliability)

	programEnd := sid.Header.LoadAddress + uint16(len(sid.Data))
	stubCode, stubAddr, err := LinkVisualiser(playerName, programEnd, shadow)
	if err != nil {
		return &cliExitError{code: 1, message: "sid65reloc: " + err.Error()}
	}
	if playerAddr != "" {
		addr, err := parseHexAddr(playerAddr)
		if err != nil {
			return err
		}
		if addr < stubAddr {
			return &cliExitError{code: 1, message: fmt.Sprintf("sid65reloc: -playeraddr $%04X lies inside the program, which ends at $%04X", addr, stubAddr-1)}
		}
		stubAddr = addr
	}

	stubOffset := 2 + int(stubAddr-sid.Header.LoadAddress)
	outData := make([]byte, stubOffset+len(stubCode))
	outData[0] = byte(sid.Header.LoadAddress & 0xFF)
	outData[1] = byte(sid.Header.LoadAddress >> 8)
	copy(outData[2:], sid.Data)
	copy(outData[stubOffset:], stubCode)

	header := sid.Header
	header.LoadAddress = 0
	header.DataOffset = dataOffsetForVersion(header.Version)
	outBytes := encodeSIDFile(header, outData)
	if err := os.WriteFile(output, outBytes, 0o644); err != nil {
		return &IOError{Kind: CannotWrite, Path: output, Err: err}
	}
	fmt.Printf("linked %q visualiser stub at $%04X\n", playerName, stubAddr)
	return nil
}

func runTrace(input, output, traceArg string, traceSet bool, ov headerOverrides) error {
	sid, err := loadSIDWithOverrides(input, ov)
	if err != nil {
		return wrapCLIError(err)
	}
	cpu := newCPU()
	sid.plantInto(cpu.mem)

	format := TraceFormatText
	path := traceArg
	if path == "" {
		path = output
	}
	if strings.HasSuffix(path, ".bin") {
		format = TraceFormatBinary
	}

	em := newEmulator(cpu, sid)
	opts := EmulationOptions{
		Frames:                  defaultEmulationFramesForCLI,
		CallsPerFrame:           1,
		RegisterTrackingEnabled: true,
		PatternDetectionEnabled: true,
		TraceEnabled:            traceSet || output != "",
		TraceLogPath:            path,
		TraceFormat:             format,
	}
	if err := em.runEmulation(sid.Header.InitAddress, sid.Header.PlayAddress, uint8(sid.Header.StartSong), opts); err != nil {
		return wrapCLIError(err)
	}

	if em.writeTracker.hasConsistentPattern() {
		fmt.Printf("canonical write order: %v\n", em.writeTracker.writeOrder())
	}
	if em.patternFinder.PatternFound() {
		fmt.Printf("pattern: %d init frame(s), period %d\n", em.patternFinder.InitFramesCount(), em.patternFinder.PatternPeriod())
	} else {
		fmt.Println("no repeating pattern detected")
	}
	return nil
}

// wrapCLIError reports a categorised failure as a single line on stderr
// with the generic fatal-error exit code (spec.md section 7); only
// verification mismatches get their own distinct exit code, handled
// separately in runRelocate.
func wrapCLIError(err error) error {
	return &cliExitError{code: 1, message: "sid65reloc: " + err.Error()}
}
