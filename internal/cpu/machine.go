/*
 * v9emu - Machine: the processor's explicit, non-global handle.
 *
 * Design Notes calls for replacing "global mutable emulator state"
 * (the teacher's `var sysCPU cpuState` in emu/cpu/cpu.go) with a
 * value passed into every operation. Machine is that value: every
 * method below takes it as a receiver instead of reading a package
 * global, which is the one place this tree deliberately does NOT
 * keep the teacher's literal pattern.
 */

// Package cpu implements the fetch/decode/execute loop: the opcode
// table, the windowed instruction and stack fast paths, and every
// opcode family from spec section 4.2.
package cpu

import (
	"encoding/binary"
	"errors"

	"github.com/paged32/v9emu/internal/device"
	"github.com/paged32/v9emu/internal/memory"
	"github.com/paged32/v9emu/internal/mmu"
	"github.com/paged32/v9emu/internal/state"
	"github.com/paged32/v9emu/internal/trap"
)

// ErrEscape is returned by Run when the console's ungraceful-exit
// keystroke stopped the machine, distinguishing it from a supervisor
// HALT.
var ErrEscape = errors.New("cpu: escape keystroke")

// stepInfo is the decoded form of one instruction.
type stepInfo struct {
	opcode uint8
	imm    int32  // Sign-extended 24-bit immediate.
	origPC uint32 // PC of this instruction, for branches/JSR/traps.
}

type opcodeFunc func(*Machine, *stepInfo) uint32

// Machine is the whole emulator core: registers, physical memory, the
// MMU/TLB, the console, and the fast-path windows the dispatcher
// caches across instructions.
type Machine struct {
	Regs    state.Registers
	Mem     *memory.Memory
	MMU     *mmu.MMU
	Console *device.Console
	State   state.RunState

	table [256]opcodeFunc

	instrPage []byte // Host bytes of the page containing Regs.PC.
	instrBase uint32 // Guest page-aligned address instrPage covers.

	stackPage  []byte // Host bytes of the page containing Regs.SP.
	stackBase  uint32 // Guest page-aligned address stackPage covers.
	stackValid bool

	tickCounter uint32
	escaped     bool
}

// New builds a Machine over the given physical memory and console,
// ready to be given an entry point and stack pointer by the loader.
func New(mem *memory.Memory, con *device.Console) *Machine {
	m := &Machine{
		Mem:     mem,
		MMU:     mmu.New(),
		Console: con,
		State:   state.Running,
	}
	m.createTable()
	return m
}

// Reset puts the Machine into its power-on state: supervisor mode,
// paging disabled, interrupts disabled, and the given entry point and
// stack pointer (spec section 3's Lifecycle).
func (m *Machine) Reset(entry, sp uint32) {
	m.Regs = state.Registers{PC: entry, SP: sp}
	m.MMU.Flush()
	m.invalidateWindows()
	m.State = state.Running
}

func (m *Machine) invalidateWindows() {
	m.instrPage = nil
	m.invalidateStackWindow()
}

func (m *Machine) invalidateStackWindow() {
	m.stackValid = false
}

// ensureInstrWindow re-translates Regs.PC for read if it has left the
// currently cached instruction page.
func (m *Machine) ensureInstrWindow() uint32 {
	guestPage := m.Regs.PC &^ uint32(memory.PageSize-1)
	if m.instrPage != nil && guestPage == m.instrBase {
		return 0
	}
	off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, m.Regs.PC)
	if tr != 0 {
		if tr == state.FRPAGE {
			tr = state.FIPAGE
		}
		return tr
	}
	hostBase := off &^ uint32(memory.PageSize-1)
	m.instrPage = m.Mem.Bytes()[hostBase : hostBase+memory.PageSize]
	m.instrBase = guestPage
	return 0
}

func (m *Machine) fetch() (uint32, uint32) {
	if tr := m.ensureInstrWindow(); tr != 0 {
		return 0, tr
	}
	off := m.Regs.PC & uint32(memory.PageSize-1)
	return binary.LittleEndian.Uint32(m.instrPage[off:]), 0
}

// Step executes exactly one instruction (or delivers exactly one
// trap/interrupt). It returns fatal=true when a supervisor fault hit
// the emulator with interrupts disabled — the caller must stop.
func (m *Machine) Step() (fatal bool) {
	m.Regs.Cycle++

	word, tr := m.fetch()
	if tr != 0 {
		return trap.Deliver(&m.Regs, m.Mem, m.MMU, tr)
	}

	step := stepInfo{
		opcode: uint8(word),
		imm:    int32(word) >> 8,
		origPC: m.Regs.PC,
	}
	m.Regs.PC += 4

	tr = m.table[step.opcode](m, &step)
	if tr != 0 {
		// PC was already advanced past this instruction above, and no
		// opcode writes PC before returning a fault (bulk ops rewind it
		// themselves on their own partial-progress path, which makes
		// this redundant but harmless for them). Put it back so the
		// trap engine saves, and RTI restarts at, the instruction that
		// actually faulted.
		m.Regs.PC = step.origPC
		return trap.Deliver(&m.Regs, m.Mem, m.MMU, tr)
	}

	m.tickCounter++
	if m.tickCounter >= device.Delta {
		m.tickCounter = 0
		if fatal, escape := device.Tick(&m.Regs, m.Mem, m.MMU, m.Console); fatal || escape {
			m.State = state.Halted
			m.escaped = escape
			return fatal
		}
	}
	return false
}

// Run drives the machine until HALT in supervisor mode, an escape
// keystroke, or a fatal fault.
func (m *Machine) Run() error {
	for m.State == state.Running {
		if m.Step() {
			return errFatalFault
		}
	}
	if m.State == state.Halted && m.escaped {
		return ErrEscape
	}
	return nil
}

var errFatalFault = errors.New("cpu: fatal fault in supervisor mode with interrupts disabled")
