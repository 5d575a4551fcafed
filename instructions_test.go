package main

import "testing"

// Opcodes that once fell through to the table's default 1-byte illegal NOP
// instead of their real 2-byte immediate-mode encoding; a wrong Size here
// desyncs every instruction decoded after it for the rest of the run.
func TestLookupInstruction_TwoByteImmediateIllegalOpcodesHaveCorrectSize(t *testing.T) {
	cases := []struct {
		op       byte
		mnemonic string
	}{
		{0x82, "nop"},
		{0x89, "nop"},
		{0xAB, "lax"},
		{0xC2, "nop"},
		{0xE2, "nop"},
	}
	for _, c := range cases {
		in := lookupInstruction(c.op)
		if in.Size != 2 {
			t.Errorf("opcode %#02x: expected Size=2, got %d", c.op, in.Size)
		}
		if in.Mnemonic != c.mnemonic {
			t.Errorf("opcode %#02x: expected mnemonic %q, got %q", c.op, c.mnemonic, in.Mnemonic)
		}
		if in.Mode != ModeImmediate {
			t.Errorf("opcode %#02x: expected ModeImmediate, got %v", c.op, in.Mode)
		}
		if !in.Illegal {
			t.Errorf("opcode %#02x: expected Illegal=true", c.op)
		}
	}
}

// KIL halts the CPU before it consumes a cycle.
func TestLookupInstruction_KILOpcodesHaveZeroCycles(t *testing.T) {
	for _, op := range []byte{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		in := lookupInstruction(op)
		if in.Mnemonic != "kil" {
			t.Errorf("opcode %#02x: expected mnemonic kil, got %q", op, in.Mnemonic)
		}
		if in.BaseCycles != 0 {
			t.Errorf("opcode %#02x: expected BaseCycles=0, got %d", op, in.BaseCycles)
		}
	}
}

// $AB (LAX #imm) must advance the PC by 2, not fall back to the default
// 1-byte NOP and misinterpret its operand byte as the next opcode.
func TestCPU_LAXImmediateAdvancesPCByTwo(t *testing.T) {
	cpu := newCPU()
	cpu.mem.bulkLoad(0xC000, []byte{0xAB, 0x42, 0xEA})
	cpu.PC = 0xC000
	if err := cpu.step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cpu.PC != 0xC002 {
		t.Errorf("expected PC=$C002 after a 2-byte LAX #imm, got %#04x", cpu.PC)
	}
	if cpu.A != 0x42 || cpu.X != 0x42 {
		t.Errorf("expected LAX to load A and X with $42, got A=%#02x X=%#02x", cpu.A, cpu.X)
	}
}
