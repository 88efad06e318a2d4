package cpu

import (
	"github.com/paged32/v9emu/internal/device"
	"github.com/paged32/v9emu/internal/state"
)

func opNOP(m *Machine, step *stepInfo) uint32 { return 0 }

func opHALT(m *Machine, step *stepInfo) uint32 {
	if m.Regs.User {
		return state.FPRIV
	}
	m.State = state.Halted
	return 0
}

// opIDLE spins polling the device tick until an interrupt is
// delivered or the console asks to stop, per spec section 4.4. It is
// the one opcode that calls device.Tick directly rather than waiting
// for the dispatcher's Delta-cycle boundary.
func opIDLE(m *Machine, step *stepInfo) uint32 {
	if !m.Regs.IntEnable {
		// Resolves the spec's flagged Open Question: idling with
		// interrupts disabled can never wake up, so it is treated as
		// guest programming error rather than an infinite spin.
		return state.FINST
	}
	for {
		fatal, escape := device.Tick(&m.Regs, m.Mem, m.MMU, m.Console)
		if fatal {
			m.State = state.Halted
			m.escaped = false
			return 0
		}
		if escape {
			m.State = state.Halted
			m.escaped = true
			return 0
		}
		if !m.Regs.IntEnable {
			// Deliver always clears IntEnable on success, so this
			// means a pending interrupt was just delivered.
			return 0
		}
	}
}

// opJMP jumps to a PC-relative displacement: "unconditional ...
// relative jumps" (spec section 4.2).
func opJMP(m *Machine, step *stepInfo) uint32 {
	m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	return 0
}

// opJMPI is the "indirect relative" jump: the displacement names a
// location holding the actual target, read through the MMU.
func opJMPI(m *Machine, step *stepInfo) uint32 {
	addr := uint32(int32(step.origPC) + step.imm)
	off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, addr)
	if tr != 0 {
		return tr
	}
	m.Regs.PC = m.Mem.ReadWord(off)
	return 0
}

func opJSR(m *Machine, step *stepInfo) uint32 {
	if tr := m.pushWord(step.origPC + 4); tr != 0 {
		return tr
	}
	m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	return 0
}

func opRET(m *Machine, step *stepInfo) uint32 {
	v, tr := m.popWord()
	if tr != 0 {
		return tr
	}
	m.Regs.PC = v
	return 0
}

func opENT(m *Machine, step *stepInfo) uint32 {
	m.Regs.SP -= uint32(step.imm)
	m.invalidateStackWindow()
	return 0
}

// opLEV releases the imm-byte frame ENT reserved and returns to the
// caller in one instruction: SP += imm, then pop the return address
// JSR pushed.
func opLEV(m *Machine, step *stepInfo) uint32 {
	m.Regs.SP += uint32(step.imm)
	m.invalidateStackWindow()
	v, tr := m.popWord()
	if tr != 0 {
		return tr
	}
	m.Regs.PC = v
	return 0
}

func opBZ(m *Machine, step *stepInfo) uint32 {
	if m.Regs.A == 0 {
		m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	}
	return 0
}

func opBNZ(m *Machine, step *stepInfo) uint32 {
	if m.Regs.A != 0 {
		m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	}
	return 0
}

func opBLT(m *Machine, step *stepInfo) uint32 {
	if int32(m.Regs.A) < int32(m.Regs.B) {
		m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	}
	return 0
}

func opBGE(m *Machine, step *stepInfo) uint32 {
	if int32(m.Regs.A) >= int32(m.Regs.B) {
		m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	}
	return 0
}

func opBLTU(m *Machine, step *stepInfo) uint32 {
	if m.Regs.A < m.Regs.B {
		m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	}
	return 0
}

func opBGEU(m *Machine, step *stepInfo) uint32 {
	if m.Regs.A >= m.Regs.B {
		m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	}
	return 0
}

func opBFLT(m *Machine, step *stepInfo) uint32 {
	if m.Regs.F < m.Regs.G {
		m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	}
	return 0
}

func opBFGE(m *Machine, step *stepInfo) uint32 {
	if m.Regs.F >= m.Regs.G {
		m.Regs.PC = uint32(int32(step.origPC) + step.imm)
	}
	return 0
}
