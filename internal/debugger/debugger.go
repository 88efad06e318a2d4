/*
 * v9emu - Interactive debugger.
 *
 * Grounded on the teacher's command/reader + command/parser line-editing
 * front end, simplified from a full token-grammar command set down to
 * the handful of single-letter commands this system's Design Notes
 * call for: continue, step, quit, inspect registers, examine memory.
 */

// Package debugger implements a liner-backed interactive prompt over a
// running machine.Machine.
package debugger

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/paged32/v9emu/internal/machine"
	hexfmt "github.com/paged32/v9emu/util/hex"
)

// Debugger is a read-mostly front end over a Machine: it only ever
// changes guest state by single-stepping or continuing it, never by
// poking registers or memory directly.
type Debugger struct {
	m    *machine.Machine
	line *liner.State
	out  io.Writer
}

// New builds a Debugger prompting on the host terminal.
func New(m *machine.Machine, out io.Writer) *Debugger {
	return &Debugger{m: m, line: liner.NewLiner(), out: out}
}

// Close releases the underlying terminal line editor.
func (d *Debugger) Close() error {
	return d.line.Close()
}

// Run reads commands from the terminal until 'q' or EOF.
func (d *Debugger) Run() error {
	defer d.Close()
	for {
		cmd, err := d.line.Prompt("v9emu> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}
		d.line.AppendHistory(cmd)

		fields := strings.Fields(cmd)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "c":
			done, cancel := d.m.RunAsync()
			err := <-done
			cancel()
			if err != nil {
				fmt.Fprintln(d.out, err)
			}
		case "s":
			d.step()
		case "i":
			d.inspect()
		case "x":
			d.examine(fields)
		case "q":
			return nil
		case "h":
			d.help()
		default:
			fmt.Fprintf(d.out, "unknown command %q; h for help\n", fields[0])
		}
	}
}

func (d *Debugger) step() {
	fatal := d.m.CPU.Step()
	d.inspect()
	if fatal {
		fmt.Fprintln(d.out, "fatal fault, machine stopped")
	}
}

func (d *Debugger) inspect() {
	r := d.m.CPU.Regs
	var b strings.Builder
	hexfmt.FormatWord(&b, []uint32{r.PC, r.SP, r.A, r.B, r.C})
	fmt.Fprintf(d.out, "pc/sp/a/b/c: %s user=%v iena=%v trap=%d cycle=%d\n",
		b.String(), r.User, r.IntEnable, r.Trap, r.Cycle)
}

// examine displays one byte at a guest virtual address (spec section
// 6's "x HEX" command), translated through the MMU exactly as the
// running guest would see it.
func (d *Debugger) examine(fields []string) {
	if len(fields) < 2 {
		fmt.Fprintln(d.out, "usage: x HEX")
		return
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 32)
	if err != nil {
		fmt.Fprintln(d.out, "bad hex address:", err)
		return
	}
	off, tr := d.m.CPU.MMU.TranslateRead(d.m.Mem, &d.m.CPU.Regs, uint32(addr))
	if tr != 0 {
		fmt.Fprintf(d.out, "%08x: fault %d\n", addr, tr)
		return
	}
	var b strings.Builder
	hexfmt.FormatByte(&b, d.m.Mem.ReadByte(off))
	fmt.Fprintf(d.out, "%08x: %s\n", addr, b.String())
}

func (d *Debugger) help() {
	fmt.Fprintln(d.out, "commands: c(ontinue) s(tep) i(nspect) x HEX (examine) q(uit) h(elp)")
}
