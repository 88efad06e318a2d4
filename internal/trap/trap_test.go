package trap

import (
	"testing"

	"github.com/paged32/v9emu/internal/memory"
	"github.com/paged32/v9emu/internal/mmu"
	"github.com/paged32/v9emu/internal/state"
)

func newMachine() (*memory.Memory, *mmu.MMU) {
	return memory.New(memory.PageSize * 4), mmu.New()
}

func TestDeliverFatalInSupervisorWithInterruptsDisabled(t *testing.T) {
	mem, mm := newMachine()
	regs := state.Registers{PC: 0x100, SP: memory.PageSize * 2, IntEnable: false}

	if fatal := Deliver(&regs, mem, mm, state.FARITH); !fatal {
		t.Fatal("expected fatal=true for a supervisor fault with interrupts disabled")
	}
}

func TestDeliverSupervisorWithInterruptsEnabled(t *testing.T) {
	mem, mm := newMachine()
	regs := state.Registers{PC: 0x100, SP: memory.PageSize * 2, IntEnable: true, IVec: 0x2000}

	if fatal := Deliver(&regs, mem, mm, state.FARITH); fatal {
		t.Fatal("unexpected fatal")
	}
	if regs.Trap != state.FARITH {
		t.Fatalf("Trap = %d, want FARITH (no USER bit in supervisor mode)", regs.Trap)
	}
	if regs.PC != regs.IVec {
		t.Fatalf("PC = %#x, want IVec %#x", regs.PC, regs.IVec)
	}
	if regs.IntEnable {
		t.Fatal("IntEnable must be cleared on entry to the handler")
	}
}

func TestDeliverUserModeSwitchesPrivilege(t *testing.T) {
	mem, mm := newMachine()
	regs := state.Registers{
		PC: 0x100, SP: 0x500, User: true, SSP: memory.PageSize * 2, IVec: 0x2000,
	}

	if fatal := Deliver(&regs, mem, mm, state.FPRIV); fatal {
		t.Fatal("unexpected fatal")
	}
	if regs.User {
		t.Fatal("expected supervisor mode after delivery")
	}
	if regs.USP != 0x500 {
		t.Fatalf("USP = %#x, want 0x500 (old SP saved)", regs.USP)
	}
	if regs.Trap&state.USER == 0 {
		t.Fatal("expected USER bit OR'd into the saved trap code")
	}
}

func TestDeliverRTIRoundTrip(t *testing.T) {
	mem, mm := newMachine()
	regs := state.Registers{
		PC: 0x100, SP: memory.PageSize * 2, IntEnable: true, IVec: 0x2000,
	}

	if fatal := Deliver(&regs, mem, mm, state.FARITH); fatal {
		t.Fatal("unexpected fatal on Deliver")
	}
	if fatal := RTI(&regs, mem, mm); fatal {
		t.Fatal("unexpected fatal on RTI")
	}
	if regs.PC != 0x100 {
		t.Fatalf("PC after RTI = %#x, want 0x100", regs.PC)
	}
	if regs.SP != memory.PageSize*2 {
		t.Fatalf("SP after RTI = %#x, want original SP", regs.SP)
	}
	if !regs.IntEnable {
		t.Fatal("RTI must re-enable interrupts")
	}
}

func TestDeliverUserRTIRestoresUserMode(t *testing.T) {
	mem, mm := newMachine()
	regs := state.Registers{
		PC: 0x100, SP: 0x500, User: true, SSP: memory.PageSize * 2, IVec: 0x2000,
	}

	if fatal := Deliver(&regs, mem, mm, state.FPRIV); fatal {
		t.Fatal("unexpected fatal on Deliver")
	}
	if fatal := RTI(&regs, mem, mm); fatal {
		t.Fatal("unexpected fatal on RTI")
	}
	if !regs.User {
		t.Fatal("RTI must restore user mode when the saved trap had USER set")
	}
	if regs.SP != 0x500 {
		t.Fatalf("SP after RTI = %#x, want 0x500", regs.SP)
	}
	if regs.PC != 0x100 {
		t.Fatalf("PC after RTI = %#x, want 0x100", regs.PC)
	}
}

func TestInterruptPriorityLowestBitWins(t *testing.T) {
	mem, mm := newMachine()
	regs := state.Registers{
		PC: 0x100, SP: memory.PageSize * 2, IntEnable: true, IVec: 0x2000,
	}
	regs.IPend = TrapBit(state.FTIMER) | TrapBit(state.FKEYBD)

	if fatal := Deliver(&regs, mem, mm, state.FARITH); fatal {
		t.Fatal("unexpected fatal on Deliver")
	}
	if fatal := RTI(&regs, mem, mm); fatal {
		t.Fatal("unexpected fatal on RTI")
	}
	// FTIMER has a lower numeric code than FKEYBD, so it must win.
	if regs.Trap != state.FTIMER {
		t.Fatalf("delivered trap = %d, want FTIMER (lowest pending bit)", regs.Trap)
	}
	if regs.IPend != TrapBit(state.FKEYBD) {
		t.Fatalf("IPend = %#x, want only FKEYBD left pending", regs.IPend)
	}
}

func TestRTIWithUnreadableStackIsFatal(t *testing.T) {
	mem, mm := newMachine()
	// SP at the very end of physical memory: the quad pop's translate
	// falls out of range with paging off, so RTI cannot recover the
	// saved context.
	regs := state.Registers{PC: 0x100, SP: mem.Size()}

	if fatal := RTI(&regs, mem, mm); !fatal {
		t.Fatal("expected fatal when the supervisor stack cannot be popped")
	}
}
