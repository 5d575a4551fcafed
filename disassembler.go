// disassembler.go - two-pass disassembler (C13)
//
// Pass 1 walks the access shadow to classify every byte as an instruction
// head, an instruction operand, misaligned execution, or data. Pass 2
// renders assembler source, substituting symbolic labels for absolute
// operands and slicing data regions into byte tables. Grounded on
// debug_disasm_6502.go's per-mode text rendering (same `$NNNN`/`#$NN`/
// `($NN,X)` operand syntax) generalized from its flat opcode table to the
// shared instructionTable and widened with label generation, which the
// teacher's version never needed since it disassembled live, unlabelled
// memory for a debugger view.

package main

import (
	"fmt"
	"strings"
)

// byteKind classifies one byte of the program footprint for pass 2.
type byteKind int

const (
	byteKindData byteKind = iota
	byteKindInstructionHead
	byteKindInstructionTail
	byteKindMisalignedExecution
)

// DisassembledLine is one line of emitted source: either an instruction or
// a data byte run.
type DisassembledLine struct {
	Address  uint16
	Label    string
	IsData   bool
	Mnemonic string
	DataRun  []byte
	Warning  string
}

// Disassembler renders a MemoryImage's program footprint as labelled
// assembler source, consulting the per-PC index ranges recorded during
// emulation to slice live data-table bytes from padding.
type Disassembler struct {
	mem        *MemoryImage
	start, end uint16 // inclusive program footprint bounds
	labels     map[uint16]string
	symbols    map[uint16]string // optional caller-supplied names, override LNNNN
}

func newDisassembler(mem *MemoryImage, start, end uint16) *Disassembler {
	return &Disassembler{mem: mem, start: start, end: end, labels: make(map[uint16]string), symbols: make(map[uint16]string)}
}

// setSymbol gives addr a human name instead of the generated LNNNN label.
func (d *Disassembler) setSymbol(addr uint16, name string) { d.symbols[addr] = name }

// Disassemble runs both passes and returns the rendered lines in address
// order.
func (d *Disassembler) Disassemble() []DisassembledLine {
	kinds, warnings := d.classify()
	d.collectLabels(kinds)
	return d.render(kinds, warnings)
}

// classify performs pass 1: walk memory from start to end, using the
// instruction table's declared size to mark consumed operand bytes.
func (d *Disassembler) classify() (map[uint16]byteKind, map[uint16]string) {
	kinds := make(map[uint16]byteKind)
	warnings := make(map[uint16]string)

	addr := d.start
	for addr <= d.end {
		flags := d.mem.accessAt(addr)
		if flags&AccessOpcodeStart != 0 {
			opcode := d.mem.peek(addr)
			inst := lookupInstruction(opcode)
			kinds[addr] = byteKindInstructionHead
			for i := uint16(1); i < uint16(inst.Size); i++ {
				if addr+i > d.end {
					break
				}
				kinds[addr+i] = byteKindInstructionTail
			}
			addr += uint16(inst.Size)
			if inst.Size == 0 {
				addr++
			}
			continue
		}
		if flags&AccessExecute != 0 {
			kinds[addr] = byteKindMisalignedExecution
			warnings[addr] = "executed but not an instruction head"
		}
		addr++
		if addr == 0 {
			break // wrapped past 0xFFFF
		}
	}
	return kinds, warnings
}

// collectLabels generates LNNNN labels at jump targets, at bytes written by
// a store, at instructions that executed with an indexed addressing mode,
// and at every in-range operand target of an absolute or indirect
// instruction, which covers the bases of absolute-indexed data tables.
func (d *Disassembler) collectLabels(kinds map[uint16]byteKind) {
	for addr := d.start; ; addr++ {
		flags := d.mem.accessAt(addr)
		if flags&AccessJumpTarget != 0 {
			d.labelFor(addr)
		}
		if flags&AccessWrite != 0 && d.mem.lastWriterAt(addr) != 0 {
			d.labelFor(addr)
		}
		if _, ok := d.mem.indexRangeAt(addr); ok {
			d.labelFor(addr)
		}
		if addr == d.end {
			break
		}
	}

	// Absolute-mode operands referencing in-range addresses also need a
	// label even if the target byte itself was never flagged above.
	for addr, kind := range kinds {
		if kind != byteKindInstructionHead {
			continue
		}
		opcode := d.mem.peek(addr)
		inst := lookupInstruction(opcode)
		if inst.Size != 3 {
			continue
		}
		switch inst.Mode {
		case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeIndirect:
			lo := d.mem.peek(addr + 1)
			hi := d.mem.peek(addr + 2)
			target := uint16(hi)<<8 | uint16(lo)
			if target >= d.start && target <= d.end {
				d.labelFor(target)
			}
		}
	}
}

func (d *Disassembler) labelFor(addr uint16) string {
	if name, ok := d.symbols[addr]; ok {
		d.labels[addr] = name
		return name
	}
	if name, ok := d.labels[addr]; ok {
		return name
	}
	name := fmt.Sprintf("L%04X", addr)
	d.labels[addr] = name
	return name
}

// render performs pass 2: emit one DisassembledLine per instruction and
// coalesce consecutive data bytes into runs, slicing a run against the
// widest index range recorded for its base address so trailing
// never-accessed bytes are dropped.
func (d *Disassembler) render(kinds map[uint16]byteKind, warnings map[uint16]string) []DisassembledLine {
	var lines []DisassembledLine
	addr := d.start
	var dataRun []byte
	dataRunStart := addr

	flushData := func(endAddr uint16) {
		if len(dataRun) == 0 {
			return
		}
		run := d.sliceDataRun(dataRunStart, dataRun)
		lines = append(lines, DisassembledLine{Address: dataRunStart, Label: d.labels[dataRunStart], IsData: true, DataRun: run})
		dataRun = nil
	}

	done := false
	for !done {
		kind := kinds[addr]
		switch kind {
		case byteKindInstructionHead:
			flushData(addr)
			opcode := d.mem.peek(addr)
			inst := lookupInstruction(opcode)
			lines = append(lines, DisassembledLine{
				Address:  addr,
				Label:    d.labels[addr],
				Mnemonic: d.renderInstruction(addr, opcode, inst),
				Warning:  warnings[addr],
			})
			size := uint16(inst.Size)
			if size == 0 {
				size = 1
			}
			next := addr + size
			if next <= addr || next > d.end {
				done = true
				continue
			}
			addr = next
			continue
		case byteKindInstructionTail:
			addr++
		default:
			if len(dataRun) == 0 {
				dataRunStart = addr
			}
			dataRun = append(dataRun, d.mem.peek(addr))
			addr++
		}
		if addr > d.end {
			done = true
		}
	}
	flushData(addr)
	return lines
}

// sliceDataRun trims a coalesced data run to the live portion implied by
// the widest per-PC index range recorded against its base, per the
// relocator's data-table slicing rule (spec section 4.11 step 2).
func (d *Disassembler) sliceDataRun(base uint16, run []byte) []byte {
	widest := 0
	for pc := d.start; pc <= d.end; pc++ {
		ir, ok := d.mem.indexRangeAt(pc)
		if !ok || !ir.Seen {
			continue
		}
		// An index range recorded against an absolute-indexed instruction
		// whose base operand equals this run's start bounds how many of its
		// bytes are actually live.
		inst := lookupInstruction(d.mem.peek(pc))
		if inst.Mode != ModeAbsoluteX && inst.Mode != ModeAbsoluteY {
			continue
		}
		if uint16(d.mem.peek(pc+1))|uint16(d.mem.peek(pc+2))<<8 != base {
			continue
		}
		if int(ir.Max)+1 > widest && int(ir.Max)+1 <= len(run) {
			widest = int(ir.Max) + 1
		}
	}
	if widest > 0 && widest < len(run) {
		return run[:widest]
	}
	return run
}

func (d *Disassembler) renderInstruction(addr uint16, opcode byte, inst Instruction) string {
	operandAddr := addr + 1
	switch inst.Mode {
	case ModeImplied:
		return inst.Mnemonic
	case ModeAccumulator:
		return inst.Mnemonic + " A"
	case ModeImmediate:
		return fmt.Sprintf("%s #$%02X", inst.Mnemonic, d.mem.peek(operandAddr))
	case ModeZeroPage:
		return fmt.Sprintf("%s %s", inst.Mnemonic, d.zpOperand(d.mem.peek(operandAddr)))
	case ModeZeroPageX:
		return fmt.Sprintf("%s %s,X", inst.Mnemonic, d.zpOperand(d.mem.peek(operandAddr)))
	case ModeZeroPageY:
		return fmt.Sprintf("%s %s,Y", inst.Mnemonic, d.zpOperand(d.mem.peek(operandAddr)))
	case ModeAbsolute:
		return fmt.Sprintf("%s %s", inst.Mnemonic, d.absOperand(addr))
	case ModeAbsoluteX:
		return fmt.Sprintf("%s %s,X", inst.Mnemonic, d.absOperand(addr))
	case ModeAbsoluteY:
		return fmt.Sprintf("%s %s,Y", inst.Mnemonic, d.absOperand(addr))
	case ModeIndirect:
		return fmt.Sprintf("%s (%s)", inst.Mnemonic, d.absOperand(addr))
	case ModeIndirectX:
		return fmt.Sprintf("%s (%s,X)", inst.Mnemonic, d.zpOperand(d.mem.peek(operandAddr)))
	case ModeIndirectY:
		return fmt.Sprintf("%s (%s),Y", inst.Mnemonic, d.zpOperand(d.mem.peek(operandAddr)))
	case ModeRelative:
		disp := int8(d.mem.peek(operandAddr))
		target := uint16(int32(addr) + 2 + int32(disp))
		return fmt.Sprintf("%s %s", inst.Mnemonic, d.labelOrHex(target))
	default:
		return inst.Mnemonic
	}
}

func (d *Disassembler) zpOperand(zp byte) string {
	addr := uint16(zp)
	if name, ok := d.labels[addr]; ok {
		return name
	}
	return fmt.Sprintf("$%02X", zp)
}

func (d *Disassembler) absOperand(instrAddr uint16) string {
	lo := d.mem.peek(instrAddr + 1)
	hi := d.mem.peek(instrAddr + 2)
	target := uint16(hi)<<8 | uint16(lo)
	return d.labelOrHex(target)
}

func (d *Disassembler) labelOrHex(target uint16) string {
	if name, ok := d.labels[target]; ok {
		return name
	}
	return fmt.Sprintf("$%04X", target)
}

// Render formats the disassembled lines as assembler source text.
func Render(lines []DisassembledLine) string {
	var b strings.Builder
	for _, line := range lines {
		if line.Label != "" {
			fmt.Fprintf(&b, "%s:\n", line.Label)
		}
		if line.IsData {
			b.WriteString("    .byte ")
			parts := make([]string, len(line.DataRun))
			for i, v := range line.DataRun {
				parts[i] = fmt.Sprintf("$%02X", v)
			}
			b.WriteString(strings.Join(parts, ","))
			b.WriteString("\n")
			continue
		}
		if line.Warning != "" {
			fmt.Fprintf(&b, "    %-24s ; warning: %s\n", line.Mnemonic, line.Warning)
			continue
		}
		fmt.Fprintf(&b, "    %s\n", line.Mnemonic)
	}
	return b.String()
}
