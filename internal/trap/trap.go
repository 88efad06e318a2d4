/*
 * v9emu - Trap and interrupt engine.
 *
 * Grounded on the teacher's suppress/lpsw/storePSW sequence
 * (emu/cpu/cpu.go): a trap code selects a PSW-style save area, two
 * words get pushed, and the PC redirects to a new-PSW vector. Adapted
 * from S/370's fixed low-memory PSW slots to this system's single
 * relocatable interrupt vector and explicit supervisor-stack push.
 */

// Package trap implements fault/interrupt delivery: context save,
// privilege switch, vector redirection, and RTI.
package trap

import (
	"github.com/paged32/v9emu/internal/memory"
	"github.com/paged32/v9emu/internal/mmu"
	"github.com/paged32/v9emu/internal/state"
)

// Deliver saves the current PC and trap code onto the (supervisor)
// stack and redirects execution to the interrupt vector. code must not
// include the USER bit; Deliver adds it when the fault originated in
// user mode.
//
// It returns fatal=true when the fault occurred in supervisor mode
// with interrupts disabled — per spec section 4.3 that condition is
// unrecoverable and the caller must log and halt without touching any
// further state.
func Deliver(regs *state.Registers, mem *memory.Memory, mm *mmu.MMU, code uint32) (fatal bool) {
	origPC := regs.PC

	if regs.User {
		regs.USP = regs.SP
		regs.SP = regs.SSP
		regs.User = false
		code |= state.USER
	} else if !regs.IntEnable {
		return true
	}

	if !pushQuad(regs, mem, mm, uint64(origPC)) || !pushQuad(regs, mem, mm, uint64(code)) {
		return true
	}

	regs.Trap = code
	regs.PC = regs.IVec
	regs.IntEnable = false
	return false
}

// RTI pops the saved trap code and PC, restores the privilege mode the
// fault interrupted, flushes the TLB, and re-enables interrupts —
// delivering the highest-priority pending interrupt first if any are
// queued.
func RTI(regs *state.Registers, mem *memory.Memory, mm *mmu.MMU) (fatal bool) {
	code, ok := popQuad(regs, mem, mm)
	if !ok {
		return true
	}
	pc, ok := popQuad(regs, mem, mm)
	if !ok {
		return true
	}

	regs.Trap = uint32(code)
	regs.PC = uint32(pc)

	if uint32(code)&state.USER != 0 {
		regs.SSP = regs.SP
		regs.SP = regs.USP
		regs.User = true
	}

	mm.Flush()
	regs.IntEnable = true

	if regs.IPend != 0 {
		next := lowestBit(regs.IPend)
		regs.IPend &^= next
		return Deliver(regs, mem, mm, bitToTrap(next))
	}
	return false
}

func lowestBit(mask uint32) uint32 {
	return mask & (^mask + 1)
}

// ipend uses one bit per trap code (bit N corresponds to trap code N),
// so the highest-priority pending interrupt is simply the lowest set
// bit's index.
func bitToTrap(bit uint32) uint32 {
	code := uint32(0)
	for bit > 1 {
		bit >>= 1
		code++
	}
	return code
}

// TrapBit returns the ipend bit for a given trap code.
func TrapBit(code uint32) uint32 {
	return 1 << code
}

func pushQuad(regs *state.Registers, mem *memory.Memory, mm *mmu.MMU, v uint64) bool {
	sp := regs.SP - 8
	off, tr := mm.TranslateWrite(mem, regs, sp)
	if tr != 0 {
		return false
	}
	regs.SP = sp
	mem.WriteDouble(off, v)
	return true
}

func popQuad(regs *state.Registers, mem *memory.Memory, mm *mmu.MMU) (uint64, bool) {
	off, tr := mm.TranslateRead(mem, regs, regs.SP)
	if tr != 0 {
		return 0, false
	}
	v := mem.ReadDouble(off)
	regs.SP += 8
	return v, true
}
