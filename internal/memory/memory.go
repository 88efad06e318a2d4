/*
 * v9emu - Low level physical memory.
 *
 * Grounded on the teacher's flat-array memory model (a single
 * contiguous buffer accessed by raw offset, no reentrant state) but
 * generalized to a configurable byte-addressable region and stripped
 * of the S/370 storage-protection key array, which has no analog in
 * this system's PTE/PDE-based permission model.
 */

// Package memory implements the emulator's flat physical memory: a
// contiguous byte-addressable buffer, little-endian, page aligned.
package memory

import "encoding/binary"

// PageSize is the fixed MMU page size.
const PageSize = 4096

// DefaultSize is the default physical memory size (128 MiB).
const DefaultSize = 128 * 1024 * 1024

// DefaultFSSize is the default size of the RAM filesystem window
// reserved at the top of memory.
const DefaultFSSize = 4 * 1024 * 1024

// Memory is a flat, page-aligned physical memory region.
type Memory struct {
	buf []byte
}

// New allocates size bytes of physical memory, rounded up to a whole
// number of pages.
func New(size uint32) *Memory {
	if size == 0 {
		size = DefaultSize
	}
	if rem := size % PageSize; rem != 0 {
		size += PageSize - rem
	}
	return &Memory{buf: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.buf))
}

// Bytes exposes the backing array directly, for the dispatcher's
// windowed fetch and the bulk-memory opcodes; callers must keep every
// access within bounds returned by the MMU.
func (m *Memory) Bytes() []byte {
	return m.buf
}

// InRange reports whether [off, off+n) lies entirely within memory.
func (m *Memory) InRange(off uint32, n uint32) bool {
	return off <= uint32(len(m.buf)) && n <= uint32(len(m.buf))-off
}

func (m *Memory) ReadByte(off uint32) uint8 { return m.buf[off] }

func (m *Memory) WriteByte(off uint32, v uint8) { m.buf[off] = v }

func (m *Memory) ReadHalf(off uint32) uint16 {
	return binary.LittleEndian.Uint16(m.buf[off:])
}

func (m *Memory) WriteHalf(off uint32, v uint16) {
	binary.LittleEndian.PutUint16(m.buf[off:], v)
}

func (m *Memory) ReadWord(off uint32) uint32 {
	return binary.LittleEndian.Uint32(m.buf[off:])
}

func (m *Memory) WriteWord(off uint32, v uint32) {
	binary.LittleEndian.PutUint32(m.buf[off:], v)
}

func (m *Memory) ReadDouble(off uint32) uint64 {
	return binary.LittleEndian.Uint64(m.buf[off:])
}

func (m *Memory) WriteDouble(off uint32, v uint64) {
	binary.LittleEndian.PutUint64(m.buf[off:], v)
}

// LoadAt copies data into physical memory starting at off. It is used
// by the loader for both the code+data image and the RAM filesystem
// blob.
func (m *Memory) LoadAt(off uint32, data []byte) error {
	if !m.InRange(off, uint32(len(data))) {
		return errOutOfRange
	}
	copy(m.buf[off:], data)
	return nil
}
