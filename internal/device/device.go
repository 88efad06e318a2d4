/*
 * v9emu - Device tick: console and timer polling.
 *
 * The teacher's I/O subsystem is a full channel-program emulation
 * across many peripheral models (emu/sys_channel, emu/model1052,
 * emu/model1403, ...); this system has exactly one device (a
 * keyboard/console) and one coarse interval timer, so the channel
 * machinery is not carried forward (see DESIGN.md). What is kept is
 * the shape of a non-blocking single-byte poll feeding an interrupt,
 * and the teacher's pattern (emu/core/core.go) of a background
 * goroutine doing the actual blocking I/O while the dispatcher only
 * ever does a non-blocking channel receive.
 */

// Package device implements the single console/timer tick polled by
// the dispatcher every delta cycles, and unconditionally inside IDLE.
package device

import "io"

// Delta is the number of host-pointer-equivalent steps between tick
// polls (spec section 4.2).
const Delta = 4096

// Escape is the ungraceful-exit character read from the console.
const Escape = '`'

// Console is the single keyboard/console device: a one-byte input
// buffer filled non-blockingly by Tick, and a byte sink for BOUT. A
// background goroutine does the actual (blocking) read from in and
// hands bytes off through a depth-1 channel, so Poll can check for a
// waiting byte without ever blocking the dispatcher.
type Console struct {
	out      io.Writer
	bytes    chan byte
	buffered bool
	pending  byte
}

// NewConsole wraps host stdin/stdout for the emulated console and
// starts the background reader goroutine.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{out: out, bytes: make(chan byte, 1)}
	go c.readLoop(in)
	return c
}

func (c *Console) readLoop(in io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			c.bytes <- buf[0]
		}
		if err != nil {
			return
		}
	}
}

// Poll performs one non-blocking check for a host keystroke. It
// returns (byte, true) if a key was waiting, escape=true if that key
// is the ungraceful-exit character.
func (c *Console) Poll() (b byte, read bool, escape bool) {
	select {
	case v := <-c.bytes:
		if v == Escape {
			return v, true, true
		}
		c.pending = v
		c.buffered = true
		return v, true, false
	default:
		return 0, false, false
	}
}

// BIN reads the most recently buffered keystroke and clears the
// buffer, per spec section 4.2's BIN opcode contract.
func (c *Console) BIN() uint32 {
	if !c.buffered {
		return 0
	}
	c.buffered = false
	return uint32(c.pending)
}

// BOUT writes one byte to the console's output sink.
func (c *Console) BOUT(b byte) {
	_, _ = c.out.Write([]byte{b})
}
