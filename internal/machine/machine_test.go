package machine

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/paged32/v9emu/internal/cpu"
	"github.com/paged32/v9emu/internal/device"
	"github.com/paged32/v9emu/internal/memory"
	"github.com/paged32/v9emu/internal/state"
	"github.com/paged32/v9emu/util/logger"
)

func encode(opcode uint8, imm int32) uint32 {
	return uint32(opcode) | (uint32(imm) << 8)
}

func newMachine(t *testing.T) *Machine {
	t.Helper()
	debug := false
	log := slog.New(logger.NewHandler(nil, &slog.HandlerOptions{Level: slog.LevelError}, &debug))
	con := device.NewConsole(strings.NewReader(""), &bytes.Buffer{})
	return New(memory.PageSize*2, con, log)
}

// TestRunAsyncCompletesOnHalt exercises the backgrounded run path the
// debugger's "continue" command uses: RunAsync must deliver Run's
// final result on its channel without the caller blocking inline.
func TestRunAsyncCompletesOnHalt(t *testing.T) {
	m := newMachine(t)
	m.Mem.WriteWord(0, encode(cpu.OpLI, 0))
	m.Mem.WriteWord(4, encode(cpu.OpHALT, 0))
	m.Boot(0, memory.PageSize)

	done, cancel := m.RunAsync()
	defer cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunAsync error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunAsync did not complete within 1s")
	}

	if m.CPU.State != state.Halted {
		t.Fatalf("State = %v, want Halted", m.CPU.State)
	}
}

// TestRunAsyncCancel confirms the returned cancel func stops a guest
// that would otherwise run forever: a JMP back to its own address
// never halts on its own, but Run checks ctx between every step.
func TestRunAsyncCancel(t *testing.T) {
	m := newMachine(t)
	m.Mem.WriteWord(0, encode(cpu.OpJMP, 0)) // jump to self, forever
	m.Boot(0, memory.PageSize)

	done, cancel := m.RunAsync()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunAsync did not observe cancellation within 1s")
	}
}
