package loader

import (
	"encoding/binary"
	"testing"

	"github.com/paged32/v9emu/internal/memory"
)

func buildImage(bss, entry, flags uint32, code []byte) []byte {
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:4], Magic)
	binary.LittleEndian.PutUint32(hdr[4:8], bss)
	binary.LittleEndian.PutUint32(hdr[8:12], entry)
	binary.LittleEndian.PutUint32(hdr[12:16], flags)
	return append(hdr, code...)
}

func TestLoadImageValid(t *testing.T) {
	code := []byte{0xde, 0xad, 0xbe, 0xef}
	data := buildImage(0, 0x1000, 0, code)
	mem := memory.New(memory.PageSize * 4)

	entry, err := LoadImage(data, mem)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if entry != 0x1000 {
		t.Fatalf("entry = %#x, want 0x1000", entry)
	}
	for i, b := range code {
		if got := mem.ReadByte(uint32(i)); got != b {
			t.Fatalf("code[%d] = %#x, want %#x", i, got, b)
		}
	}
}

func TestLoadImageBadMagic(t *testing.T) {
	data := buildImage(0, 0, 0, nil)
	data[0] ^= 0xff
	mem := memory.New(memory.PageSize)

	if _, err := LoadImage(data, mem); err != errBadMagic {
		t.Fatalf("err = %v, want errBadMagic", err)
	}
}

func TestLoadImageTooSmall(t *testing.T) {
	mem := memory.New(memory.PageSize)
	if _, err := LoadImage([]byte{1, 2, 3}, mem); err != errTooSmall {
		t.Fatalf("err = %v, want errTooSmall", err)
	}
}

func TestLoadImageEmptyCodeIsFine(t *testing.T) {
	data := buildImage(0, 0, 0, nil)
	mem := memory.New(memory.PageSize)

	if _, err := LoadImage(data, mem); err != nil {
		t.Fatalf("LoadImage with no code body: %v", err)
	}
}

func TestLoadFSImage(t *testing.T) {
	blob := []byte{1, 2, 3, 4, 5}
	mem := memory.New(FSSize + memory.PageSize)

	if err := LoadFSImage(blob, mem); err != nil {
		t.Fatalf("LoadFSImage: %v", err)
	}
	base := mem.Size() - FSSize
	for i, b := range blob {
		if got := mem.ReadByte(base + uint32(i)); got != b {
			t.Fatalf("fs blob[%d] = %#x, want %#x", i, got, b)
		}
	}
}

func TestLoadFSImageClipsToWindow(t *testing.T) {
	mem := memory.New(FSSize + memory.PageSize)
	blob := make([]byte, FSSize+1024)
	for i := range blob {
		blob[i] = byte(i)
	}
	if err := LoadFSImage(blob, mem); err != nil {
		t.Fatalf("LoadFSImage: %v", err)
	}
	base := mem.Size() - FSSize
	if got := mem.ReadByte(base); got != blob[0] {
		t.Fatalf("first byte = %#x, want %#x", got, blob[0])
	}
	if got := mem.ReadByte(mem.Size() - 1); got != blob[FSSize-1] {
		t.Fatalf("last byte of window = %#x, want clipped blob byte", got)
	}
}
