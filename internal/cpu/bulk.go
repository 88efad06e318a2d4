/*
 * v9emu - Bulk memory operations.
 *
 * MCPY/MCMP/MCHR/MSET process one page-clipped chunk at a time so a
 * mid-operation page fault can be serviced and the instruction
 * restarted: registers are only advanced past bytes already
 * transferred, and a fault rewinds PC to the instruction itself so the
 * next Step re-dispatches it with the remaining count in C.
 */

package cpu

import "github.com/paged32/v9emu/internal/memory"

// chunkLen caps a transfer at both operands' page boundaries so each
// step's MMU translation covers a contiguous host range.
func chunkLen(remaining, dst, src uint32) uint32 {
	n := remaining
	if d := memory.PageSize - (dst & (memory.PageSize - 1)); d < n {
		n = d
	}
	if s := memory.PageSize - (src & (memory.PageSize - 1)); s < n {
		n = s
	}
	return n
}

func opMCPY(m *Machine, step *stepInfo) uint32 {
	for m.Regs.C > 0 {
		n := chunkLen(m.Regs.C, m.Regs.A, m.Regs.B)
		dstOff, tr := m.MMU.TranslateWrite(m.Mem, &m.Regs, m.Regs.A)
		if tr != 0 {
			m.Regs.PC = step.origPC
			return tr
		}
		srcOff, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, m.Regs.B)
		if tr != 0 {
			m.Regs.PC = step.origPC
			return tr
		}
		copy(m.Mem.Bytes()[dstOff:dstOff+n], m.Mem.Bytes()[srcOff:srcOff+n])
		m.Regs.A += n
		m.Regs.B += n
		m.Regs.C -= n
	}
	return 0
}

// opMCMP compares C bytes at A against C bytes at B. On the first
// difference it sets A to the signed byte difference and consumes C
// to zero so a re-dispatch observes completion rather than resuming;
// on full equality A is set to 0.
func opMCMP(m *Machine, step *stepInfo) uint32 {
	for m.Regs.C > 0 {
		n := chunkLen(m.Regs.C, m.Regs.A, m.Regs.B)
		aOff, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, m.Regs.A)
		if tr != 0 {
			m.Regs.PC = step.origPC
			return tr
		}
		bOff, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, m.Regs.B)
		if tr != 0 {
			m.Regs.PC = step.origPC
			return tr
		}
		ab := m.Mem.Bytes()[aOff : aOff+n]
		bb := m.Mem.Bytes()[bOff : bOff+n]
		for i := uint32(0); i < n; i++ {
			if ab[i] != bb[i] {
				m.Regs.A = uint32(int32(ab[i]) - int32(bb[i]))
				m.Regs.B += i + 1
				m.Regs.C = 0
				return 0
			}
		}
		m.Regs.A += n
		m.Regs.B += n
		m.Regs.C -= n
	}
	m.Regs.A = 0
	return 0
}

// opMCHR scans up to C bytes at B for the byte value held in the low
// 8 bits of A, leaving A set to the offset of the first match (relative
// to B at the start of this dispatch) or A=0/C=0 if not found.
func opMCHR(m *Machine, step *stepInfo) uint32 {
	target := byte(m.Regs.A)
	scanned := uint32(0)
	for m.Regs.C > 0 {
		n := chunkLen(m.Regs.C, m.Regs.B, m.Regs.B)
		off, tr := m.MMU.TranslateRead(m.Mem, &m.Regs, m.Regs.B)
		if tr != 0 {
			m.Regs.PC = step.origPC
			return tr
		}
		buf := m.Mem.Bytes()[off : off+n]
		for i := uint32(0); i < n; i++ {
			if buf[i] == target {
				m.Regs.A = scanned + i
				m.Regs.B += i
				m.Regs.C = 0
				return 0
			}
		}
		m.Regs.B += n
		m.Regs.C -= n
		scanned += n
	}
	m.Regs.A = 0
	return 0
}

func opMSET(m *Machine, step *stepInfo) uint32 {
	fill := byte(m.Regs.B)
	for m.Regs.C > 0 {
		n := chunkLen(m.Regs.C, m.Regs.A, m.Regs.A)
		off, tr := m.MMU.TranslateWrite(m.Mem, &m.Regs, m.Regs.A)
		if tr != 0 {
			m.Regs.PC = step.origPC
			return tr
		}
		buf := m.Mem.Bytes()[off : off+n]
		for i := range buf {
			buf[i] = fill
		}
		m.Regs.A += n
		m.Regs.C -= n
	}
	return 0
}
