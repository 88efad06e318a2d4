/*
 * v9emu - Machine lifecycle.
 *
 * Grounded on the teacher's core.go, a thin wrapper that owns the
 * fatter cpu package and exposes Run/Stop to main.go without main.go
 * reaching into dispatcher internals directly.
 */

// Package machine wires physical memory, the console, and the cpu
// dispatcher together and drives the run loop, with context-based
// cancellation for graceful shutdown.
package machine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/paged32/v9emu/internal/cpu"
	"github.com/paged32/v9emu/internal/device"
	"github.com/paged32/v9emu/internal/memory"
	"github.com/paged32/v9emu/internal/state"
)

var errFatal = errors.New("machine: fatal fault in supervisor mode with interrupts disabled")

// Machine couples a cpu.Machine to the memory and console it was
// built from, so callers have a single handle to load, reset, and run
// with.
type Machine struct {
	CPU     *cpu.Machine
	Mem     *memory.Memory
	Console *device.Console
	log     *slog.Logger
}

// New allocates physical memory of the given size (0 selects
// memory.DefaultSize) and a console wired to the host streams passed
// in via con.
func New(memSize uint32, con *device.Console, log *slog.Logger) *Machine {
	mem := memory.New(memSize)
	return &Machine{
		CPU:     cpu.New(mem, con),
		Mem:     mem,
		Console: con,
		log:     log,
	}
}

// Boot resets the CPU to the given entry point and stack pointer.
func (m *Machine) Boot(entry, sp uint32) {
	m.CPU.Reset(entry, sp)
	m.log.Info("boot", "entry", entry, "sp", sp, "memSize", m.Mem.Size())
}

// Run drives the dispatcher until it halts, hits a fatal fault, sees
// an escape keystroke, or ctx is cancelled. Cancellation is checked
// between instructions rather than inside cpu.Machine.Step, so a
// single step is never interrupted mid-way.
func (m *Machine) Run(ctx context.Context) error {
	for m.CPU.State == state.Running {
		select {
		case <-ctx.Done():
			m.log.Info("run cancelled", "cycle", m.CPU.Regs.Cycle)
			return ctx.Err()
		default:
		}
		if m.CPU.Step() {
			m.log.Error("fatal fault", "trap", m.CPU.Regs.Trap, "pc", m.CPU.Regs.PC)
			return errFatal
		}
	}
	m.log.Info("halted", "cycle", m.CPU.Regs.Cycle, "pc", m.CPU.Regs.PC)
	return nil
}

// RunAsync starts Run on a background goroutine and returns a channel
// that delivers its final error (nil on a clean halt) plus a cancel
// func the caller can use to request an early stop — e.g. the
// debugger backgrounding a "continue" so its prompt loop stays the
// one thing driving the terminal. Grounded on the teacher's
// core.Start/Stop goroutine-plus-done-channel shutdown shape
// (emu/core/core.go), adapted to the stdlib context/channel idiom
// this tree already uses for Run's own cancellation.
func (m *Machine) RunAsync() (done <-chan error, cancel func()) {
	ctx, cancelFn := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Run(ctx)
	}()
	return errCh, cancelFn
}
