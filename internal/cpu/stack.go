/*
 * v9emu - Stack fast path.
 *
 * Grounded on the instruction fetch window in machine.go, and before
 * that on the teacher's windowed memory access (emu/cpu/cpu.go): cache
 * the host bytes of the page under SP and only re-translate when SP
 * crosses into a different page, instead of walking the MMU on every
 * push and pop.
 */

package cpu

import (
	"encoding/binary"
	"math"

	"github.com/paged32/v9emu/internal/memory"
)

// ensureStackWindow re-translates addr for write if it has left the
// cached stack page. Write permission is requested even for pops,
// since a page holding a stack is always writable and this lets push
// and pop within the same page share one cached window.
func (m *Machine) ensureStackWindow(addr uint32) uint32 {
	guestPage := addr &^ uint32(memory.PageSize-1)
	if m.stackValid && guestPage == m.stackBase {
		return 0
	}
	off, tr := m.MMU.TranslateWrite(m.Mem, &m.Regs, addr)
	if tr != 0 {
		return tr
	}
	hostBase := off &^ uint32(memory.PageSize-1)
	m.stackPage = m.Mem.Bytes()[hostBase : hostBase+memory.PageSize]
	m.stackBase = guestPage
	m.stackValid = true
	return 0
}

func (m *Machine) pushWord(v uint32) uint32 {
	sp := m.Regs.SP - 4
	if tr := m.ensureStackWindow(sp); tr != 0 {
		return tr
	}
	m.Regs.SP = sp
	off := sp & uint32(memory.PageSize-1)
	binary.LittleEndian.PutUint32(m.stackPage[off:], v)
	return 0
}

func (m *Machine) popWord() (uint32, uint32) {
	if tr := m.ensureStackWindow(m.Regs.SP); tr != 0 {
		return 0, tr
	}
	off := m.Regs.SP & uint32(memory.PageSize-1)
	v := binary.LittleEndian.Uint32(m.stackPage[off:])
	m.Regs.SP += 4
	return v, 0
}

func (m *Machine) pushDouble(v uint64) uint32 {
	sp := m.Regs.SP - 8
	if tr := m.ensureStackWindow(sp); tr != 0 {
		return tr
	}
	m.Regs.SP = sp
	off := sp & uint32(memory.PageSize-1)
	binary.LittleEndian.PutUint64(m.stackPage[off:], v)
	return 0
}

func (m *Machine) popDouble() (uint64, uint32) {
	if tr := m.ensureStackWindow(m.Regs.SP); tr != 0 {
		return 0, tr
	}
	off := m.Regs.SP & uint32(memory.PageSize-1)
	v := binary.LittleEndian.Uint64(m.stackPage[off:])
	m.Regs.SP += 8
	return v, 0
}

func opPUSHA(m *Machine, step *stepInfo) uint32 { return m.pushWord(m.Regs.A) }
func opPUSHB(m *Machine, step *stepInfo) uint32 { return m.pushWord(m.Regs.B) }
func opPUSHC(m *Machine, step *stepInfo) uint32 { return m.pushWord(m.Regs.C) }

func opPUSHF(m *Machine, step *stepInfo) uint32 {
	return m.pushDouble(math.Float64bits(m.Regs.F))
}

func opPUSHG(m *Machine, step *stepInfo) uint32 {
	return m.pushDouble(math.Float64bits(m.Regs.G))
}

func opPOPA(m *Machine, step *stepInfo) uint32 {
	v, tr := m.popWord()
	if tr != 0 {
		return tr
	}
	m.Regs.A = v
	return 0
}

func opPOPB(m *Machine, step *stepInfo) uint32 {
	v, tr := m.popWord()
	if tr != 0 {
		return tr
	}
	m.Regs.B = v
	return 0
}

func opPOPC(m *Machine, step *stepInfo) uint32 {
	v, tr := m.popWord()
	if tr != 0 {
		return tr
	}
	m.Regs.C = v
	return 0
}

func opPOPF(m *Machine, step *stepInfo) uint32 {
	v, tr := m.popDouble()
	if tr != 0 {
		return tr
	}
	m.Regs.F = math.Float64frombits(v)
	return 0
}

func opPOPG(m *Machine, step *stepInfo) uint32 {
	v, tr := m.popDouble()
	if tr != 0 {
		return tr
	}
	m.Regs.G = math.Float64frombits(v)
	return 0
}
