package main

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestCPU_LDAImmediateSetsZeroFlag(t *testing.T) {
	cpu := newCPU()
	cpu.mem.bulkLoad(0xC000, []byte{0xA9, 0x00})
	cpu.PC = 0xC000
	if err := cpu.step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cpu.A != 0 {
		t.Errorf("expected A=0, got %#02x", cpu.A)
	}
	if !cpu.flag(FlagZ) {
		t.Error("expected Z flag set")
	}
}

func TestCPU_STASetsAccessWriteFlag(t *testing.T) {
	cpu := newCPU()
	cpu.mem.bulkLoad(0xC000, []byte{0xA9, 0x42, 0x8D, 0x00, 0x04})
	cpu.PC = 0xC000
	for i := 0; i < 2; i++ {
		if err := cpu.step(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if cpu.mem.peek(0x0400) != 0x42 {
		t.Errorf("expected $0400=$42, got %#02x", cpu.mem.peek(0x0400))
	}
	if cpu.mem.accessAt(0x0400)&AccessWrite == 0 {
		t.Error("expected AccessWrite flag on the store target")
	}
}

// JSR/RTS round trip through executeFunction's synthetic return address.
func TestCPU_ExecuteFunctionJSRRTS(t *testing.T) {
	cpu := newCPU()
	// main: JSR sub; RTS. executeFunction returns once main's RTS lands PC
	// back on the synthetic address.
	cpu.mem.bulkLoad(0xC000, []byte{0x20, 0x00, 0xD0, 0x60}) // JSR $D000 ; RTS
	cpu.mem.bulkLoad(0xD000, []byte{0xA9, 0x07, 0x60})       // LDA #$07 ; RTS
	if err := cpu.executeFunction(0xC000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cpu.A != 0x07 {
		t.Errorf("expected A=$07 after the subroutine ran, got %#02x\nregisters:\n%s", cpu.A, spew.Sdump(cpu))
	}
}

// The indirect JMP page-wrap bug: ($xxFF) reads its high byte from
// ($xx00), not ($xx+1)00.
func TestCPU_IndirectJMPPageWrapBug(t *testing.T) {
	cpu := newCPU()
	cpu.mem.bulkLoad(0xC000, []byte{0x6C, 0xFF, 0xC1}) // JMP ($C1FF)
	cpu.mem.bulkLoad(0xC1FF, []byte{0x00})
	cpu.mem.bulkLoad(0xC100, []byte{0xD0}) // wrongly-read high byte
	cpu.mem.bulkLoad(0xC200, []byte{0xEA}) // correct high byte, never read
	cpu.PC = 0xC000
	if err := cpu.step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cpu.PC != 0xD000 {
		t.Errorf("expected the page-wrap bug to land on $D000, got %#04x", cpu.PC)
	}
}

// RTS with fewer than two bytes on the stack is a StackUnderflow, not a
// silent wraparound.
func TestCPU_RTSUnderflowHalts(t *testing.T) {
	cpu := newCPU()
	cpu.mem.bulkLoad(0xC000, []byte{0x60}) // bare RTS, nothing pushed
	cpu.PC = 0xC000
	err := cpu.step()
	if err == nil {
		t.Fatal("expected a StackUnderflow error")
	}
	emErr, ok := err.(*EmulationError)
	if !ok || emErr.Kind != StackUnderflow {
		t.Errorf("expected StackUnderflow, got %v", err)
	}
}

// A KIL opcode halts the CPU and every subsequent step returns the same
// error rather than continuing to execute.
func TestCPU_KILHalts(t *testing.T) {
	cpu := newCPU()
	cpu.mem.bulkLoad(0xC000, []byte{0x02, 0xA9, 0x99})
	cpu.PC = 0xC000
	if err := cpu.step(); err == nil {
		t.Fatal("expected KIL to produce an error")
	}
	if err := cpu.step(); err == nil {
		t.Fatal("expected the halted CPU to keep returning an error")
	}
	if cpu.A == 0x99 {
		t.Error("CPU executed past a KIL opcode")
	}
}

func TestCPU_WriteObserverFiresForSIDRange(t *testing.T) {
	cpu := newCPU()
	var got []byte
	cpu.setCallback(CallbackWriteSound, WriteObserver(func(addr uint16, value byte, pc uint16, src WriteSource) {
		got = append(got, value)
	}))
	cpu.mem.bulkLoad(0xC000, []byte{0xA9, 0x0F, 0x8D, 0x18, 0xD4}) // LDA #$0F ; STA $D418
	cpu.PC = 0xC000
	for i := 0; i < 2; i++ {
		if err := cpu.step(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(got) != 1 || got[0] != 0x0F {
		t.Errorf("expected one sound write of $0F, got %v", got)
	}
}
