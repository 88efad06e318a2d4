package device

import (
	"github.com/paged32/v9emu/internal/memory"
	"github.com/paged32/v9emu/internal/mmu"
	"github.com/paged32/v9emu/internal/state"
	"github.com/paged32/v9emu/internal/trap"
)

// Tick polls the console and timer once. It is invoked by the
// dispatcher every Delta cycles and unconditionally inside IDLE
// (spec sections 4.2, 4.4). Keyboard and timer events become an
// immediate trap when interrupts are enabled, or a set bit in IPend
// otherwise. It returns escape=true when the host asked to terminate
// the emulator (the `` ` `` escape character).
func Tick(regs *state.Registers, mem *memory.Memory, mm *mmu.MMU, con *Console) (fatal, escape bool) {
	if _, read, esc := con.Poll(); read {
		if esc {
			return false, true
		}
		if regs.IntEnable {
			if trap.Deliver(regs, mem, mm, state.FKEYBD) {
				return true, false
			}
		} else {
			regs.IPend |= trap.TrapBit(state.FKEYBD)
		}
	}

	if regs.Timeout != 0 {
		regs.Timer++
		if regs.Timer >= regs.Timeout {
			regs.Timer = 0
			if regs.IntEnable {
				if trap.Deliver(regs, mem, mm, state.FTIMER) {
					return true, false
				}
			} else {
				regs.IPend |= trap.TrapBit(state.FTIMER)
			}
		}
	}

	return false, false
}
