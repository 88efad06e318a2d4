package cpu

import (
	"math"

	"github.com/paged32/v9emu/internal/state"
)

func opFADD(m *Machine, step *stepInfo) uint32 {
	m.Regs.F += m.Regs.G
	return 0
}

func opFSUB(m *Machine, step *stepInfo) uint32 {
	m.Regs.F -= m.Regs.G
	return 0
}

func opFMUL(m *Machine, step *stepInfo) uint32 {
	m.Regs.F *= m.Regs.G
	return 0
}

func opFDIV(m *Machine, step *stepInfo) uint32 {
	if m.Regs.G == 0 {
		return state.FARITH
	}
	m.Regs.F /= m.Regs.G
	return 0
}

// flibFuncs implements the float library family (spec section 4.2),
// indexed by the FlibFunc constants. Two-argument functions take F and
// G; the rest take F alone. Every entry leaves its result in F.
var flibFuncs = [20]func(f, g float64) float64{
	FlPow:    math.Pow,
	FlAtan2:  math.Atan2,
	FlExp:    func(f, g float64) float64 { return math.Exp(f) },
	FlLog:    func(f, g float64) float64 { return math.Log(f) },
	FlLog10:  func(f, g float64) float64 { return math.Log10(f) },
	FlSqrt:   func(f, g float64) float64 { return math.Sqrt(f) },
	FlSin:    func(f, g float64) float64 { return math.Sin(f) },
	FlCos:    func(f, g float64) float64 { return math.Cos(f) },
	FlTan:    func(f, g float64) float64 { return math.Tan(f) },
	FlAsin:   func(f, g float64) float64 { return math.Asin(f) },
	FlAcos:   func(f, g float64) float64 { return math.Acos(f) },
	FlSinh:   func(f, g float64) float64 { return math.Sinh(f) },
	FlCosh:   func(f, g float64) float64 { return math.Cosh(f) },
	FlTanh:   func(f, g float64) float64 { return math.Tanh(f) },
	FlAtan:   func(f, g float64) float64 { return math.Atan(f) },
	FlFabs:   func(f, g float64) float64 { return math.Abs(f) },
	FlFloor:  func(f, g float64) float64 { return math.Floor(f) },
	FlCeil:   func(f, g float64) float64 { return math.Ceil(f) },
	FlHypot:  math.Hypot,
	FlFmod:   math.Mod,
}

func opFLIB(m *Machine, step *stepInfo) uint32 {
	idx := step.imm
	if idx < 0 || int(idx) >= len(flibFuncs) {
		return state.FINST
	}
	fn := flibFuncs[int(idx)]
	if fn == nil {
		return state.FINST
	}
	m.Regs.F = fn(m.Regs.F, m.Regs.G)
	return 0
}
