/*
 * v9emu - MMU: two-level paged address translation.
 *
 * Grounded on the teacher's transAddr (emu/cpu/cpu.go), which walks a
 * software TLB keyed by virtual page number and falls through to a
 * directory/table walk on a miss. Generalized from S/370's one-level
 * 256-entry TLB and segment/page split to this system's full
 * two-level 4 KiB paged scheme with four mode/direction TLB arrays.
 */

package mmu

import (
	"github.com/paged32/v9emu/internal/memory"
	"github.com/paged32/v9emu/internal/state"
)

// PTE/PDE flag bits. Only the low 5 bits of each 32-bit directory or
// table entry are interpreted; the upper 20 bits hold a page-aligned
// physical address.
const (
	PteP uint32 = 1 << 0 // Present
	PteW uint32 = 1 << 1 // Writeable
	PteU uint32 = 1 << 2 // User accessible
	PteA uint32 = 1 << 3 // Accessed
	PteD uint32 = 1 << 4 // Dirty
)

const (
	pageShift = 12
	pageMask  = memory.PageSize - 1
	dirShift  = 22
	tabShift  = 12 // tab field sits directly above the 12-bit page offset
	tabMask   = 0x3ff
	dirMask   = 0x3ff
)

// MMU couples the software TLB to the page-walk logic. It holds no
// processor state of its own — PDir/VMem/User live on the Registers
// passed into every call, per the Design Notes' explicit-handle rule.
type MMU struct {
	tlb *TLB
}

// New builds an MMU with an empty TLB.
func New() *MMU {
	return &MMU{tlb: newTLB()}
}

// Flush clears the whole TLB. Called on PDIR, SPAG, and RTI.
func (m *MMU) Flush() {
	m.tlb.Flush()
}

// TranslateRead resolves v for a load or instruction fetch, returning
// the physical byte offset and trapCode==0 on success. On failure it
// returns trapCode set to FRPAGE (or FMEM when the address, or a
// directory or table entry's address, is out of physical range) and
// records v in regs.VAdr; no other register is changed.
func (m *MMU) TranslateRead(mem *memory.Memory, regs *state.Registers, v uint32) (uint32, uint32) {
	return m.translate(mem, regs, v, false)
}

// TranslateWrite resolves v for a store, additionally requiring write
// permission and promoting the PTE's dirty bit.
func (m *MMU) TranslateWrite(mem *memory.Memory, regs *state.Registers, v uint32) (uint32, uint32) {
	return m.translate(mem, regs, v, true)
}

func (m *MMU) translate(mem *memory.Memory, regs *state.Registers, v uint32, write bool) (uint32, uint32) {
	off, tr := m.translateUnrecorded(mem, regs, v, write)
	if tr != 0 {
		regs.VAdr = v
	}
	return off, tr
}

func (m *MMU) translateUnrecorded(mem *memory.Memory, regs *state.Registers, v uint32, write bool) (uint32, uint32) {
	if !regs.VMem {
		if !mem.InRange(v, 1) {
			return 0, state.FMEM
		}
		return v, 0
	}

	vpn := v >> pageShift
	if physPage, ok := m.tlb.Lookup(regs.User, write, vpn); ok {
		return (physPage << pageShift) | (v & pageMask), 0
	}

	return m.walk(mem, regs, v, write)
}

func faultCode(write bool) uint32 {
	if write {
		return state.FWPAGE
	}
	return state.FRPAGE
}

// walk performs the two-level page table walk described in spec
// section 4.1 and installs the resulting translation into the TLB.
func (m *MMU) walk(mem *memory.Memory, regs *state.Registers, v uint32, write bool) (uint32, uint32) {
	dirIndex := (v >> dirShift) & dirMask
	pdeAddr := regs.PDir + dirIndex*4
	if !mem.InRange(pdeAddr, 4) {
		return 0, state.FMEM
	}
	pde := mem.ReadWord(pdeAddr)
	if pde&PteP == 0 {
		return 0, faultCode(write)
	}
	if pde&PteA == 0 {
		pde |= PteA
		mem.WriteWord(pdeAddr, pde)
	}

	tabIndex := (v >> tabShift) & tabMask
	pteAddr := (pde &^ pageMask) + tabIndex*4
	if !mem.InRange(pteAddr, 4) {
		return 0, state.FMEM
	}
	pte := mem.ReadWord(pteAddr)
	if pte&PteP == 0 {
		return 0, faultCode(write)
	}

	q := pte & pde & (PteU | PteW)
	userable := q&PteU != 0

	if !userable && regs.User {
		return 0, faultCode(write)
	}
	if write && q&PteW == 0 {
		return 0, state.FWPAGE
	}

	if write {
		if pte&(PteA|PteD) != PteA|PteD {
			pte |= PteA | PteD
			mem.WriteWord(pteAddr, pte)
		}
	} else if pte&PteA == 0 {
		pte |= PteA
		mem.WriteWord(pteAddr, pte)
	}

	physPage := pte >> pageShift

	if write {
		m.tlb.Install(v>>pageShift, physPage,
			true, userable, true, userable)
	} else {
		// Dirty-bit promotion trick: a plain read never installs a
		// write-capable entry, even if the page is writeable. The
		// first real write through TranslateWrite populates the
		// write arrays and marks the page dirty at that point.
		m.tlb.Install(v>>pageShift, physPage, true, userable, false, false)
	}

	return (physPage << pageShift) | (v & pageMask), 0
}
