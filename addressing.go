// addressing.go - addressing-mode resolver (C3)
//
// Computes the effective address for one instruction under the current
// register state, applying page-cross cycle penalties and the indirect-JMP
// page-wrap quirk. Grounded closely on original_source/src/6510/AddressingModes.cpp,
// translated from the CPU6510Impl friend-access style into methods on *CPU
// that only touch the memory image and register file through narrow
// accessors (see the "friend coupling" design note).

package main

// resolveAddress computes the effective address for mode, advancing PC past
// any operand bytes and charging page-cross cycles where the hardware does.
// It returns 0 for modes that carry no address (Implied/Accumulator); those
// are handled directly by the executor.
func (c *CPU) resolveAddress(mode AddressingMode) uint16 {
	switch mode {
	case ModeAbsoluteX, ModeAbsoluteY, ModeZeroPageX, ModeZeroPageY, ModeIndirectX, ModeIndirectY:
		var index byte
		switch mode {
		case ModeAbsoluteY, ModeZeroPageY, ModeIndirectY:
			index = c.Y
		default:
			index = c.X
		}
		c.mem.recordIndexOffset(c.instrPC, index)
	}

	switch mode {
	case ModeImmediate:
		addr := c.PC
		c.PC++
		return addr

	case ModeZeroPage:
		addr := uint16(c.mem.fetchOperand(c.PC))
		c.PC++
		return addr

	case ModeZeroPageX:
		zp := c.mem.fetchOperand(c.PC)
		c.PC++
		return uint16((zp + c.X) & 0xFF)

	case ModeZeroPageY:
		zp := c.mem.fetchOperand(c.PC)
		c.PC++
		return uint16((zp + c.Y) & 0xFF)

	case ModeAbsolute:
		lo := c.mem.fetchOperand(c.PC)
		c.PC++
		hi := c.mem.fetchOperand(c.PC)
		c.PC++
		return uint16(lo) | uint16(hi)<<8

	case ModeAbsoluteX:
		base := c.readWord16AtPC()
		addr := base + uint16(c.X)
		if (base & 0xFF00) != (addr & 0xFF00) {
			c.cycles++
		}
		return addr

	case ModeAbsoluteY:
		base := c.readWord16AtPC()
		addr := base + uint16(c.Y)
		if (base & 0xFF00) != (addr & 0xFF00) {
			c.cycles++
		}
		return addr

	case ModeIndirect:
		lo := c.mem.fetchOperand(c.PC)
		c.PC++
		hi := c.mem.fetchOperand(c.PC)
		c.PC++
		ptr := uint16(lo) | uint16(hi)<<8
		// Hardware bug: JMP indirect does not cross a page boundary when
		// reading the high byte of the target.
		low := c.mem.read(ptr)
		high := c.mem.read((ptr & 0xFF00) | ((ptr + 1) & 0x00FF))
		return uint16(low) | uint16(high)<<8

	case ModeIndirectX:
		zp := (c.mem.fetchOperand(c.PC) + c.X) & 0xFF
		c.PC++
		target := c.readWordZeroPage(zp)
		if c.onIndirectRead != nil {
			c.onIndirectRead(c.instrPC, zp, target)
		}
		return target

	case ModeIndirectY:
		zp := c.mem.fetchOperand(c.PC)
		c.PC++
		base := c.readWordZeroPage(zp)
		addr := base + uint16(c.Y)
		if c.onIndirectRead != nil {
			c.onIndirectRead(c.instrPC, zp, addr)
		}
		if (base & 0xFF00) != (addr & 0xFF00) {
			c.cycles++
		}
		return addr

	case ModeRelative:
		// Signed displacement; applied by the executor's branch handler.
		addr := c.PC
		c.mem.fetchOperand(addr)
		c.PC++
		return addr

	default: // Implied, Accumulator
		return 0
	}
}

// readWord16AtPC reads a little-endian 16-bit operand at PC and advances PC
// by two, without applying any page-cross logic (callers add that).
func (c *CPU) readWord16AtPC() uint16 {
	lo := c.mem.fetchOperand(c.PC)
	c.PC++
	hi := c.mem.fetchOperand(c.PC)
	c.PC++
	return uint16(lo) | uint16(hi)<<8
}

// readWordZeroPage reads a little-endian pointer out of zero page with
// zero-page wraparound on the high-byte fetch (zp+1 wraps mod 256).
func (c *CPU) readWordZeroPage(zp byte) uint16 {
	lo := c.mem.read(uint16(zp))
	hi := c.mem.read(uint16(zp + 1))
	return uint16(lo) | uint16(hi)<<8
}
