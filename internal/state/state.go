// Package state holds the processor registers shared by every other
// package in the emulator core. It has no behavior of its own.
package state

// Trap codes, one per fault/interrupt kind (spec section 7).
const (
	FMEM    uint32 = 1 + iota // Bad physical address
	FTIMER                    // Timer interrupt
	FKEYBD                    // Keyboard interrupt
	FPRIV                     // Privileged instruction in user mode
	FINST                     // Illegal or unknown opcode
	FSYS                      // Software trap (TRAP opcode)
	FARITH                    // Arithmetic fault (divide by zero)
	FIPAGE                    // Page fault on instruction fetch
	FWPAGE                    // Page fault on write
	FRPAGE                    // Page fault on read
)

// USER is OR'd into a trap code when the fault originated in user mode.
const USER uint32 = 16

// Registers is the full processor state: general, floating point,
// control, and MMU/trap bookkeeping. A Machine owns exactly one of
// these — there is no package-level instance, so the same core can be
// created, snapshotted, and torn down repeatedly in tests.
type Registers struct {
	A, B, C uint32  // General-purpose integer registers
	F, G    float64 // Floating point registers

	PC, SP   uint32 // Program counter, current stack pointer
	USP, SSP uint32 // Saved user and supervisor stack pointers

	User      bool   // false = supervisor, true = user
	IntEnable bool   // iena: interrupts enabled
	IPend     uint32 // Bitmask of pending interrupts
	Trap      uint32 // Current trap code, USER bit included
	VAdr      uint32 // Bad virtual address from the last fault

	IVec uint32 // Interrupt vector base
	PDir uint32 // Page directory physical base
	VMem bool   // Paging enabled

	Cycle   uint64 // Monotonic cycle counter
	Timer   uint64 // Software timer, advanced by the device tick
	Timeout uint64 // Timer comparison value; 0 disables it
}

// RunState is the dispatcher's run state. Halted is set by the HALT
// opcode in supervisor mode, by the console escape keystroke, and by a
// fatal fault raised while a device tick delivers an interrupt;
// Machine.Run stops when it sees it. A fatal fault delivered for an
// instruction leaves the state unchanged and is reported through
// Step's return value instead.
type RunState int

const (
	Running RunState = iota
	Halted
	Idle
)
