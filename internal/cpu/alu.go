package cpu

import "github.com/paged32/v9emu/internal/state"

// binOp computes A op B for the integer ALU family (spec section 4.2).
// It returns FARITH when b is a zero divisor/modulus.
type binOp func(a, b uint32) (uint32, uint32)

// aluOps is declared in the same order as the ADD..SAR block of
// opcodes.go, so createTable can index it positionally.
var aluOps = [13]binOp{
	func(a, b uint32) (uint32, uint32) { return a + b, 0 },
	func(a, b uint32) (uint32, uint32) { return a - b, 0 },
	func(a, b uint32) (uint32, uint32) { return a * b, 0 },
	func(a, b uint32) (uint32, uint32) {
		if b == 0 {
			return 0, state.FARITH
		}
		return uint32(int32(a) / int32(b)), 0
	},
	func(a, b uint32) (uint32, uint32) {
		if b == 0 {
			return 0, state.FARITH
		}
		return a / b, 0
	},
	func(a, b uint32) (uint32, uint32) {
		if b == 0 {
			return 0, state.FARITH
		}
		return uint32(int32(a) % int32(b)), 0
	},
	func(a, b uint32) (uint32, uint32) {
		if b == 0 {
			return 0, state.FARITH
		}
		return a % b, 0
	},
	func(a, b uint32) (uint32, uint32) { return a & b, 0 },
	func(a, b uint32) (uint32, uint32) { return a | b, 0 },
	func(a, b uint32) (uint32, uint32) { return a ^ b, 0 },
	func(a, b uint32) (uint32, uint32) { return a << (b & 31), 0 },
	func(a, b uint32) (uint32, uint32) { return a >> (b & 31), 0 },
	func(a, b uint32) (uint32, uint32) { return uint32(int32(a) >> (b & 31)), 0 },
}

func makeAluR(op binOp) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		r, tr := op(m.Regs.A, m.Regs.B)
		if tr != 0 {
			return tr
		}
		m.Regs.A = r
		return 0
	}
}

func makeAluI(op binOp) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		r, tr := op(m.Regs.A, uint32(step.imm))
		if tr != 0 {
			return tr
		}
		m.Regs.A = r
		return 0
	}
}

func makeAluM(op binOp) opcodeFunc {
	return func(m *Machine, step *stepInfo) uint32 {
		addr := m.Regs.SP + uint32(step.imm)
		off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, addr)
		if tr != 0 {
			return tr
		}
		r, tr := op(m.Regs.A, m.Mem.ReadWord(off))
		if tr != 0 {
			return tr
		}
		m.Regs.A = r
		return 0
	}
}

func setBool(cond bool) uint32 {
	if cond {
		return 1
	}
	return 0
}

func opCEQ(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(m.Regs.A == m.Regs.B)
	return 0
}

func opCNE(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(m.Regs.A != m.Regs.B)
	return 0
}

func opCLT(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(int32(m.Regs.A) < int32(m.Regs.B))
	return 0
}

func opCGE(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(int32(m.Regs.A) >= int32(m.Regs.B))
	return 0
}

func opCLTU(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(m.Regs.A < m.Regs.B)
	return 0
}

func opCGEU(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(m.Regs.A >= m.Regs.B)
	return 0
}

func opCFEQ(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(m.Regs.F == m.Regs.G)
	return 0
}

func opCFNE(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(m.Regs.F != m.Regs.G)
	return 0
}

func opCFLT(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(m.Regs.F < m.Regs.G)
	return 0
}

func opCFGE(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = setBool(m.Regs.F >= m.Regs.G)
	return 0
}

func opCVTID(m *Machine, step *stepInfo) uint32 {
	m.Regs.F = float64(int32(m.Regs.A))
	return 0
}

func opCVTUD(m *Machine, step *stepInfo) uint32 {
	m.Regs.F = float64(m.Regs.A)
	return 0
}

func opCVTDI(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = uint32(int32(m.Regs.F))
	return 0
}

func opCVTDU(m *Machine, step *stepInfo) uint32 {
	m.Regs.A = uint32(m.Regs.F)
	return 0
}
