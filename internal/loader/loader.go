/*
 * v9emu - Executable image loader.
 *
 * Grounded on the teacher's card-deck/IPL loader concept (emu/model2540R
 * reads a fixed-format boot deck into low memory and hands control to a
 * fixed entry point) but reworked for a flat little-endian header
 * instead of punched-card framing: a magic number followed by bss,
 * entry, and flags, with the remainder of the file as the code+data
 * blob. The RAM-filesystem image is a second, independently supplied
 * file loaded at the top of memory.
 */

// Package loader reads an executable image into physical memory and
// reports the entry point to start execution at.
package loader

import (
	"encoding/binary"
	"os"

	"github.com/paged32/v9emu/internal/memory"
)

// Magic identifies a v9emu executable image.
const Magic uint32 = 0xC0DEF00D

// headerSize is magic, bss, entry, flags: four little-endian uint32
// fields.
const headerSize = 16

// FSSize is the reserved RAM-filesystem window at the top of memory.
const FSSize = 4 * 1024 * 1024

// Header is an image's fixed-size preamble.
type Header struct {
	Bss   uint32
	Entry uint32
	Flags uint32
}

// Load reads the image at path into mem starting at physical offset 0.
// It returns the entry point registers.Registers.PC should start at.
func Load(path string, mem *memory.Memory) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return LoadImage(data, mem)
}

// LoadImage is Load's in-memory counterpart, used directly by tests.
func LoadImage(data []byte, mem *memory.Memory) (uint32, error) {
	if len(data) < headerSize {
		return 0, errTooSmall
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != Magic {
		return 0, errBadMagic
	}
	hdr := Header{
		Bss:   binary.LittleEndian.Uint32(data[4:8]),
		Entry: binary.LittleEndian.Uint32(data[8:12]),
		Flags: binary.LittleEndian.Uint32(data[12:16]),
	}
	_ = hdr.Flags

	code := data[headerSize:]
	if err := mem.LoadAt(0, code); err != nil {
		return 0, err
	}
	// Bss is left zero: fresh physical memory is already zeroed, so
	// nothing more is required beyond reserving the range by
	// convention for the guest's linker script.
	_ = hdr.Bss

	return hdr.Entry, nil
}

// LoadFS reads a RAM-filesystem blob from path into the FSSize window
// at the top of mem.
func LoadFS(path string, mem *memory.Memory) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return LoadFSImage(data, mem)
}

// LoadFSImage is LoadFS's in-memory counterpart, used directly by tests.
func LoadFSImage(data []byte, mem *memory.Memory) error {
	fsBase := mem.Size() - FSSize
	if uint32(len(data)) > FSSize {
		data = data[:FSSize]
	}
	return mem.LoadAt(fsBase, data)
}
