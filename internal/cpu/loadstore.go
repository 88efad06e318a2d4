/*
 * v9emu - Loads and stores.
 *
 * Four addressing forms share one family per width (spec section 4.2):
 * local (SP-relative), global (PC-relative), and indexed off A or B. C
 * is the general load/store value register; LDD64/STD64 move a 64-bit
 * operand as the pair (A = high word, C = low word); LDF32/STF32 move
 * a single-precision value widened to/narrowed from F.
 */

package cpu

import "math"

type addrFunc func(*Machine, *stepInfo) uint32

func addrL(m *Machine, step *stepInfo) uint32  { return m.Regs.SP + uint32(step.imm) }
func addrG(m *Machine, step *stepInfo) uint32  { return uint32(int32(step.origPC) + step.imm) }
func addrIA(m *Machine, step *stepInfo) uint32 { return m.Regs.A + uint32(step.imm) }
func addrIB(m *Machine, step *stepInfo) uint32 { return m.Regs.B + uint32(step.imm) }

// addrForms is declared in the same L, G, IA, IB order as every
// addressing-mode block in opcodes.go.
var addrForms = [4]addrFunc{addrL, addrG, addrIA, addrIB}

func makeLoadB8(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Regs.C = uint32(m.Mem.ReadByte(off))
		return 0
	}
}

func makeLoadH16(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Regs.C = uint32(m.Mem.ReadHalf(off))
		return 0
	}
}

func makeLoadW32(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Regs.C = m.Mem.ReadWord(off)
		return 0
	}
}

func makeLoadD64(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		v := m.Mem.ReadDouble(off)
		m.Regs.A = uint32(v >> 32)
		m.Regs.C = uint32(v)
		return 0
	}
}

func makeLoadF32(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Regs.F = float64(math.Float32frombits(m.Mem.ReadWord(off)))
		return 0
	}
}

func makeStoreB8(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateWrite(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Mem.WriteByte(off, byte(m.Regs.C))
		return 0
	}
}

func makeStoreH16(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateWrite(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Mem.WriteHalf(off, uint16(m.Regs.C))
		return 0
	}
}

func makeStoreW32(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateWrite(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Mem.WriteWord(off, m.Regs.C)
		return 0
	}
}

func makeStoreD64(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateWrite(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Mem.WriteDouble(off, uint64(m.Regs.A)<<32|uint64(m.Regs.C))
		return 0
	}
}

func makeStoreF32(form addrFunc) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		off, tr := m.MMU.TranslateWrite(m.Mem, &m.Regs, form(m, step))
		if tr != 0 {
			return tr
		}
		m.Mem.WriteWord(off, math.Float32bits(float32(m.Regs.F)))
		return 0
	}
}

func opLI(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = uint32(step.imm)
	return 0
}
