/*
 * v9emu - Privileged system control and console opcodes.
 *
 * Every opcode here but TRAP requires supervisor mode (spec section
 * 4.2's invariant 4); TRAP is the guest's voluntary call into
 * supervisor code and so must stay reachable from user mode. "L*"
 * opcodes copy a control value into C; "S*" opcodes copy C into the
 * control value, so the family reads as a small, consistent
 * register/control-register transfer set.
 */

package cpu

import (
	"github.com/paged32/v9emu/internal/state"
	"github.com/paged32/v9emu/internal/trap"
)

func privCheck(m *Machine) uint32 {
	if m.Regs.User {
		return state.FPRIV
	}
	return 0
}

func opIVEC(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.IVec = m.Regs.C
	return 0
}

func opPDIR(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.PDir = m.Regs.C
	m.MMU.Flush()
	return 0
}

func opSPAGON(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.VMem = true
	m.MMU.Flush()
	m.invalidateWindows()
	return 0
}

func opSPAGOFF(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.VMem = false
	m.MMU.Flush()
	m.invalidateWindows()
	return 0
}

func opLUSP(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.C = m.Regs.USP
	return 0
}

func opSUSP(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.USP = m.Regs.C
	return 0
}

func opLSSP(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.C = m.Regs.SSP
	return 0
}

func opSSSP(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.SSP = m.Regs.C
	return 0
}

func opLVAD(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.C = m.Regs.VAdr
	return 0
}

func opTIME(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.Timeout = uint64(m.Regs.C)
	m.Regs.Timer = 0
	return 0
}

func opRCYC(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.A = uint32(m.Regs.Cycle >> 32)
	m.Regs.C = uint32(m.Regs.Cycle)
	return 0
}

func opMSIZ(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.C = m.Mem.Size()
	return 0
}

func opCLI(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.IntEnable = false
	return 0
}

func opSTI(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.IntEnable = true
	return 0
}

func opRTI(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	if fatal := trap.RTI(&m.Regs, m.Mem, m.MMU); fatal {
		return state.FMEM
	}
	m.invalidateWindows()
	return 0
}

func opTRAP(m *Machine, step *stepInfo) uint32 {
	m.Regs.C = uint32(step.imm)
	return state.FSYS
}

// opBIN loads the keystroke the last tick buffered into A (spec
// section 4.2/5: non-blocking, the tick supplies the byte).
func opBIN(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	m.Regs.A = m.Console.BIN()
	return 0
}

// opBOUT writes B to host stdout, but only when A==1 — spec section
// 6 models A as a file-descriptor selector, emulating fd 1.
func opBOUT(m *Machine, step *stepInfo) uint32 {
	if tr := privCheck(m); tr != 0 {
		return tr
	}
	if m.Regs.A == 1 {
		m.Console.BOUT(byte(m.Regs.B))
	}
	return 0
}
