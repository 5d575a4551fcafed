// instructions.go - static 256-entry 6502 instruction table (C1)
//
// One descriptor per opcode byte: mnemonic, addressing mode, encoded size
// and base cycle count, plus a legality flag for the undocumented opcodes.
// Grounded on the opcodeTable in wasm/opcodes.h and its dispatch in
// wasm/cpu6510_wasm.cpp, extended to the full legal+illegal opcode matrix
// needed by real PSID players.

package main

// AddressingMode is one of the thirteen 6502 addressing modes.
type AddressingMode int

const (
	ModeImplied AddressingMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeRelative
)

// Instruction describes one opcode byte.
type Instruction struct {
	Mnemonic   string
	Mode       AddressingMode
	Size       uint8 // 1, 2 or 3
	BaseCycles uint8
	Illegal    bool
}

// instructionTable is indexed by opcode byte; every one of the 256 entries
// is populated, legal opcodes and the illegal ones real programs rely on
// alike. Unused encodings fall back to a single-byte illegal NOP so the
// executor and disassembler never have to special-case a hole in the table.
var instructionTable [256]Instruction

func init() {
	for i := range instructionTable {
		instructionTable[i] = Instruction{Mnemonic: "nop", Mode: ModeImplied, Size: 1, BaseCycles: 2, Illegal: true}
	}

	type row struct {
		op         byte
		mnemonic   string
		mode       AddressingMode
		size       uint8
		baseCycles uint8
		illegal    bool
	}

	rows := []row{
		// BRK / stack / flags
		{0x00, "brk", ModeImplied, 1, 7, false},
		{0x08, "php", ModeImplied, 1, 3, false},
		{0x28, "plp", ModeImplied, 1, 4, false},
		{0x48, "pha", ModeImplied, 1, 3, false},
		{0x68, "pla", ModeImplied, 1, 4, false},
		{0x18, "clc", ModeImplied, 1, 2, false},
		{0x38, "sec", ModeImplied, 1, 2, false},
		{0x58, "cli", ModeImplied, 1, 2, false},
		{0x78, "sei", ModeImplied, 1, 2, false},
		{0xB8, "clv", ModeImplied, 1, 2, false},
		{0xD8, "cld", ModeImplied, 1, 2, false},
		{0xF8, "sed", ModeImplied, 1, 2, false},
		{0xAA, "tax", ModeImplied, 1, 2, false},
		{0x8A, "txa", ModeImplied, 1, 2, false},
		{0xA8, "tay", ModeImplied, 1, 2, false},
		{0x98, "tya", ModeImplied, 1, 2, false},
		{0xBA, "tsx", ModeImplied, 1, 2, false},
		{0x9A, "txs", ModeImplied, 1, 2, false},
		{0xCA, "dex", ModeImplied, 1, 2, false},
		{0xE8, "inx", ModeImplied, 1, 2, false},
		{0x88, "dey", ModeImplied, 1, 2, false},
		{0xC8, "iny", ModeImplied, 1, 2, false},
		{0xEA, "nop", ModeImplied, 1, 2, false},
		{0x40, "rti", ModeImplied, 1, 6, false},
		{0x60, "rts", ModeImplied, 1, 6, false},
		{0x20, "jsr", ModeAbsolute, 3, 6, false},
		{0x4C, "jmp", ModeAbsolute, 3, 3, false},
		{0x6C, "jmp", ModeIndirect, 3, 5, false},

		// Branches (relative, base 2, +1 taken, +1 page-cross handled in executor)
		{0x10, "bpl", ModeRelative, 2, 2, false},
		{0x30, "bmi", ModeRelative, 2, 2, false},
		{0x50, "bvc", ModeRelative, 2, 2, false},
		{0x70, "bvs", ModeRelative, 2, 2, false},
		{0x90, "bcc", ModeRelative, 2, 2, false},
		{0xB0, "bcs", ModeRelative, 2, 2, false},
		{0xD0, "bne", ModeRelative, 2, 2, false},
		{0xF0, "beq", ModeRelative, 2, 2, false},

		// LDA
		{0xA9, "lda", ModeImmediate, 2, 2, false}, {0xA5, "lda", ModeZeroPage, 2, 3, false},
		{0xB5, "lda", ModeZeroPageX, 2, 4, false}, {0xAD, "lda", ModeAbsolute, 3, 4, false},
		{0xBD, "lda", ModeAbsoluteX, 3, 4, false}, {0xB9, "lda", ModeAbsoluteY, 3, 4, false},
		{0xA1, "lda", ModeIndirectX, 2, 6, false}, {0xB1, "lda", ModeIndirectY, 2, 5, false},
		// LDX
		{0xA2, "ldx", ModeImmediate, 2, 2, false}, {0xA6, "ldx", ModeZeroPage, 2, 3, false},
		{0xB6, "ldx", ModeZeroPageY, 2, 4, false}, {0xAE, "ldx", ModeAbsolute, 3, 4, false},
		{0xBE, "ldx", ModeAbsoluteY, 3, 4, false},
		// LDY
		{0xA0, "ldy", ModeImmediate, 2, 2, false}, {0xA4, "ldy", ModeZeroPage, 2, 3, false},
		{0xB4, "ldy", ModeZeroPageX, 2, 4, false}, {0xAC, "ldy", ModeAbsolute, 3, 4, false},
		{0xBC, "ldy", ModeAbsoluteX, 3, 4, false},
		// STA
		{0x85, "sta", ModeZeroPage, 2, 3, false}, {0x95, "sta", ModeZeroPageX, 2, 4, false},
		{0x8D, "sta", ModeAbsolute, 3, 4, false}, {0x9D, "sta", ModeAbsoluteX, 3, 5, false},
		{0x99, "sta", ModeAbsoluteY, 3, 5, false}, {0x81, "sta", ModeIndirectX, 2, 6, false},
		{0x91, "sta", ModeIndirectY, 2, 6, false},
		// STX / STY
		{0x86, "stx", ModeZeroPage, 2, 3, false}, {0x96, "stx", ModeZeroPageY, 2, 4, false},
		{0x8E, "stx", ModeAbsolute, 3, 4, false},
		{0x84, "sty", ModeZeroPage, 2, 3, false}, {0x94, "sty", ModeZeroPageX, 2, 4, false},
		{0x8C, "sty", ModeAbsolute, 3, 4, false},

		// ADC / SBC
		{0x69, "adc", ModeImmediate, 2, 2, false}, {0x65, "adc", ModeZeroPage, 2, 3, false},
		{0x75, "adc", ModeZeroPageX, 2, 4, false}, {0x6D, "adc", ModeAbsolute, 3, 4, false},
		{0x7D, "adc", ModeAbsoluteX, 3, 4, false}, {0x79, "adc", ModeAbsoluteY, 3, 4, false},
		{0x61, "adc", ModeIndirectX, 2, 6, false}, {0x71, "adc", ModeIndirectY, 2, 5, false},
		{0xE9, "sbc", ModeImmediate, 2, 2, false}, {0xE5, "sbc", ModeZeroPage, 2, 3, false},
		{0xF5, "sbc", ModeZeroPageX, 2, 4, false}, {0xED, "sbc", ModeAbsolute, 3, 4, false},
		{0xFD, "sbc", ModeAbsoluteX, 3, 4, false}, {0xF9, "sbc", ModeAbsoluteY, 3, 4, false},
		{0xE1, "sbc", ModeIndirectX, 2, 6, false}, {0xF1, "sbc", ModeIndirectY, 2, 5, false},

		// CMP / CPX / CPY
		{0xC9, "cmp", ModeImmediate, 2, 2, false}, {0xC5, "cmp", ModeZeroPage, 2, 3, false},
		{0xD5, "cmp", ModeZeroPageX, 2, 4, false}, {0xCD, "cmp", ModeAbsolute, 3, 4, false},
		{0xDD, "cmp", ModeAbsoluteX, 3, 4, false}, {0xD9, "cmp", ModeAbsoluteY, 3, 4, false},
		{0xC1, "cmp", ModeIndirectX, 2, 6, false}, {0xD1, "cmp", ModeIndirectY, 2, 5, false},
		{0xE0, "cpx", ModeImmediate, 2, 2, false}, {0xE4, "cpx", ModeZeroPage, 2, 3, false},
		{0xEC, "cpx", ModeAbsolute, 3, 4, false},
		{0xC0, "cpy", ModeImmediate, 2, 2, false}, {0xC4, "cpy", ModeZeroPage, 2, 3, false},
		{0xCC, "cpy", ModeAbsolute, 3, 4, false},

		// Logical
		{0x29, "and", ModeImmediate, 2, 2, false}, {0x25, "and", ModeZeroPage, 2, 3, false},
		{0x35, "and", ModeZeroPageX, 2, 4, false}, {0x2D, "and", ModeAbsolute, 3, 4, false},
		{0x3D, "and", ModeAbsoluteX, 3, 4, false}, {0x39, "and", ModeAbsoluteY, 3, 4, false},
		{0x21, "and", ModeIndirectX, 2, 6, false}, {0x31, "and", ModeIndirectY, 2, 5, false},
		{0x49, "eor", ModeImmediate, 2, 2, false}, {0x45, "eor", ModeZeroPage, 2, 3, false},
		{0x55, "eor", ModeZeroPageX, 2, 4, false}, {0x4D, "eor", ModeAbsolute, 3, 4, false},
		{0x5D, "eor", ModeAbsoluteX, 3, 4, false}, {0x59, "eor", ModeAbsoluteY, 3, 4, false},
		{0x41, "eor", ModeIndirectX, 2, 6, false}, {0x51, "eor", ModeIndirectY, 2, 5, false},
		{0x09, "ora", ModeImmediate, 2, 2, false}, {0x05, "ora", ModeZeroPage, 2, 3, false},
		{0x15, "ora", ModeZeroPageX, 2, 4, false}, {0x0D, "ora", ModeAbsolute, 3, 4, false},
		{0x1D, "ora", ModeAbsoluteX, 3, 4, false}, {0x19, "ora", ModeAbsoluteY, 3, 4, false},
		{0x01, "ora", ModeIndirectX, 2, 6, false}, {0x11, "ora", ModeIndirectY, 2, 5, false},
		{0x24, "bit", ModeZeroPage, 2, 3, false}, {0x2C, "bit", ModeAbsolute, 3, 4, false},

		// Shifts/rotates
		{0x0A, "asl", ModeAccumulator, 1, 2, false}, {0x06, "asl", ModeZeroPage, 2, 5, false},
		{0x16, "asl", ModeZeroPageX, 2, 6, false}, {0x0E, "asl", ModeAbsolute, 3, 6, false},
		{0x1E, "asl", ModeAbsoluteX, 3, 7, false},
		{0x4A, "lsr", ModeAccumulator, 1, 2, false}, {0x46, "lsr", ModeZeroPage, 2, 5, false},
		{0x56, "lsr", ModeZeroPageX, 2, 6, false}, {0x4E, "lsr", ModeAbsolute, 3, 6, false},
		{0x5E, "lsr", ModeAbsoluteX, 3, 7, false},
		{0x2A, "rol", ModeAccumulator, 1, 2, false}, {0x26, "rol", ModeZeroPage, 2, 5, false},
		{0x36, "rol", ModeZeroPageX, 2, 6, false}, {0x2E, "rol", ModeAbsolute, 3, 6, false},
		{0x3E, "rol", ModeAbsoluteX, 3, 7, false},
		{0x6A, "ror", ModeAccumulator, 1, 2, false}, {0x66, "ror", ModeZeroPage, 2, 5, false},
		{0x76, "ror", ModeZeroPageX, 2, 6, false}, {0x6E, "ror", ModeAbsolute, 3, 6, false},
		{0x7E, "ror", ModeAbsoluteX, 3, 7, false},

		// INC / DEC
		{0xE6, "inc", ModeZeroPage, 2, 5, false}, {0xF6, "inc", ModeZeroPageX, 2, 6, false},
		{0xEE, "inc", ModeAbsolute, 3, 6, false}, {0xFE, "inc", ModeAbsoluteX, 3, 7, false},
		{0xC6, "dec", ModeZeroPage, 2, 5, false}, {0xD6, "dec", ModeZeroPageX, 2, 6, false},
		{0xCE, "dec", ModeAbsolute, 3, 6, false}, {0xDE, "dec", ModeAbsoluteX, 3, 7, false},

		// Illegal/undocumented opcodes real PSID players depend on.
		{0xA7, "lax", ModeZeroPage, 2, 3, true}, {0xB7, "lax", ModeZeroPageY, 2, 4, true},
		{0xAF, "lax", ModeAbsolute, 3, 4, true}, {0xBF, "lax", ModeAbsoluteY, 3, 4, true},
		{0xA3, "lax", ModeIndirectX, 2, 6, true}, {0xB3, "lax", ModeIndirectY, 2, 5, true},
		{0x87, "sax", ModeZeroPage, 2, 3, true}, {0x97, "sax", ModeZeroPageY, 2, 4, true},
		{0x8F, "sax", ModeAbsolute, 3, 4, true}, {0x83, "sax", ModeIndirectX, 2, 6, true},
		{0xC7, "dcp", ModeZeroPage, 2, 5, true}, {0xD7, "dcp", ModeZeroPageX, 2, 6, true},
		{0xCF, "dcp", ModeAbsolute, 3, 6, true}, {0xDF, "dcp", ModeAbsoluteX, 3, 7, true},
		{0xDB, "dcp", ModeAbsoluteY, 3, 7, true}, {0xC3, "dcp", ModeIndirectX, 2, 8, true},
		{0xD3, "dcp", ModeIndirectY, 2, 8, true},
		{0xE7, "isc", ModeZeroPage, 2, 5, true}, {0xF7, "isc", ModeZeroPageX, 2, 6, true},
		{0xEF, "isc", ModeAbsolute, 3, 6, true}, {0xFF, "isc", ModeAbsoluteX, 3, 7, true},
		{0xFB, "isc", ModeAbsoluteY, 3, 7, true}, {0xE3, "isc", ModeIndirectX, 2, 8, true},
		{0xF3, "isc", ModeIndirectY, 2, 8, true},
		{0x07, "slo", ModeZeroPage, 2, 5, true}, {0x17, "slo", ModeZeroPageX, 2, 6, true},
		{0x0F, "slo", ModeAbsolute, 3, 6, true}, {0x1F, "slo", ModeAbsoluteX, 3, 7, true},
		{0x1B, "slo", ModeAbsoluteY, 3, 7, true}, {0x03, "slo", ModeIndirectX, 2, 8, true},
		{0x13, "slo", ModeIndirectY, 2, 8, true},
		{0x27, "rla", ModeZeroPage, 2, 5, true}, {0x37, "rla", ModeZeroPageX, 2, 6, true},
		{0x2F, "rla", ModeAbsolute, 3, 6, true}, {0x3F, "rla", ModeAbsoluteX, 3, 7, true},
		{0x3B, "rla", ModeAbsoluteY, 3, 7, true}, {0x23, "rla", ModeIndirectX, 2, 8, true},
		{0x33, "rla", ModeIndirectY, 2, 8, true},
		{0x47, "sre", ModeZeroPage, 2, 5, true}, {0x57, "sre", ModeZeroPageX, 2, 6, true},
		{0x4F, "sre", ModeAbsolute, 3, 6, true}, {0x5F, "sre", ModeAbsoluteX, 3, 7, true},
		{0x5B, "sre", ModeAbsoluteY, 3, 7, true}, {0x43, "sre", ModeIndirectX, 2, 8, true},
		{0x53, "sre", ModeIndirectY, 2, 8, true},
		{0x67, "rra", ModeZeroPage, 2, 5, true}, {0x77, "rra", ModeZeroPageX, 2, 6, true},
		{0x6F, "rra", ModeAbsolute, 3, 6, true}, {0x7F, "rra", ModeAbsoluteX, 3, 7, true},
		{0x7B, "rra", ModeAbsoluteY, 3, 7, true}, {0x63, "rra", ModeIndirectX, 2, 8, true},
		{0x73, "rra", ModeIndirectY, 2, 8, true},
		{0x0B, "anc", ModeImmediate, 2, 2, true}, {0x2B, "anc", ModeImmediate, 2, 2, true},
		{0x4B, "alr", ModeImmediate, 2, 2, true},
		{0x6B, "arr", ModeImmediate, 2, 2, true},
		{0x8B, "xaa", ModeImmediate, 2, 2, true},
		{0xAB, "lax", ModeImmediate, 2, 2, true},
		{0xCB, "axs", ModeImmediate, 2, 2, true},
		{0x9F, "ahx", ModeAbsoluteY, 3, 5, true}, {0x93, "ahx", ModeIndirectY, 2, 6, true},
		{0x9C, "shy", ModeAbsoluteX, 3, 5, true},
		{0x9E, "shx", ModeAbsoluteY, 3, 5, true},
		{0x9B, "tas", ModeAbsoluteY, 3, 5, true},
		{0xBB, "las", ModeAbsoluteY, 3, 4, true},
		{0xEB, "sbc", ModeImmediate, 2, 2, true}, // alias of 0xE9

		// KIL (halts the CPU before it consumes a cycle; surfaced as a fatal run error)
		{0x02, "kil", ModeImplied, 1, 0, true}, {0x12, "kil", ModeImplied, 1, 0, true},
		{0x22, "kil", ModeImplied, 1, 0, true}, {0x32, "kil", ModeImplied, 1, 0, true},
		{0x42, "kil", ModeImplied, 1, 0, true}, {0x52, "kil", ModeImplied, 1, 0, true},
		{0x62, "kil", ModeImplied, 1, 0, true}, {0x72, "kil", ModeImplied, 1, 0, true},
		{0x92, "kil", ModeImplied, 1, 0, true}, {0xB2, "kil", ModeImplied, 1, 0, true},
		{0xD2, "kil", ModeImplied, 1, 0, true}, {0xF2, "kil", ModeImplied, 1, 0, true},

		// NOP aliases (multi-byte illegal NOPs that still consume operand bytes)
		{0x1A, "nop", ModeImplied, 1, 2, true}, {0x3A, "nop", ModeImplied, 1, 2, true},
		{0x5A, "nop", ModeImplied, 1, 2, true}, {0x7A, "nop", ModeImplied, 1, 2, true},
		{0xDA, "nop", ModeImplied, 1, 2, true}, {0xFA, "nop", ModeImplied, 1, 2, true},
		{0x80, "nop", ModeImmediate, 2, 2, true}, {0x82, "nop", ModeImmediate, 2, 2, true},
		{0x89, "nop", ModeImmediate, 2, 2, true}, {0xC2, "nop", ModeImmediate, 2, 2, true},
		{0xE2, "nop", ModeImmediate, 2, 2, true},
		{0x04, "nop", ModeZeroPage, 2, 3, true}, {0x44, "nop", ModeZeroPage, 2, 3, true},
		{0x64, "nop", ModeZeroPage, 2, 3, true},
		{0x14, "nop", ModeZeroPageX, 2, 4, true}, {0x34, "nop", ModeZeroPageX, 2, 4, true},
		{0x54, "nop", ModeZeroPageX, 2, 4, true}, {0x74, "nop", ModeZeroPageX, 2, 4, true},
		{0xD4, "nop", ModeZeroPageX, 2, 4, true}, {0xF4, "nop", ModeZeroPageX, 2, 4, true},
		{0x0C, "nop", ModeAbsolute, 3, 4, true},
		{0x1C, "nop", ModeAbsoluteX, 3, 4, true}, {0x3C, "nop", ModeAbsoluteX, 3, 4, true},
		{0x5C, "nop", ModeAbsoluteX, 3, 4, true}, {0x7C, "nop", ModeAbsoluteX, 3, 4, true},
		{0xDC, "nop", ModeAbsoluteX, 3, 4, true}, {0xFC, "nop", ModeAbsoluteX, 3, 4, true},
	}

	for _, r := range rows {
		instructionTable[r.op] = Instruction{
			Mnemonic:   r.mnemonic,
			Mode:       r.mode,
			Size:       r.size,
			BaseCycles: r.baseCycles,
			Illegal:    r.illegal,
		}
	}
}

// lookupInstruction returns the static descriptor for an opcode byte.
func lookupInstruction(opcode byte) Instruction {
	return instructionTable[opcode]
}
