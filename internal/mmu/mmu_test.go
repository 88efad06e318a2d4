package mmu

import (
	"testing"

	"github.com/paged32/v9emu/internal/memory"
	"github.com/paged32/v9emu/internal/state"
)

// buildPageTables writes a one-entry page directory and page table
// at fixed physical offsets and maps virtual page 0 to physPage with
// the given flags, returning the page-directory base to install in
// regs.PDir.
func buildPageTables(mem *memory.Memory, physPage uint32, pteFlags uint32) uint32 {
	const dirBase = 0x1000
	const tabBase = 0x2000
	// The directory entry stays maximally permissive (U|W set); the
	// table entry carries the actual restriction under test, since
	// effective permission is the AND of both.
	mem.WriteWord(dirBase, tabBase|PteP|PteU|PteW)
	mem.WriteWord(tabBase, (physPage<<12)|PteP|pteFlags)
	return dirBase
}

func newRegs(pdir uint32, user bool) state.Registers {
	return state.Registers{VMem: true, PDir: pdir, User: user}
}

func TestTranslateReadWriteableUser(t *testing.T) {
	mem := memory.New(memory.PageSize * 4)
	pdir := buildPageTables(mem, 3, PteW|PteU)
	regs := newRegs(pdir, true)
	m := New()

	off, tr := m.TranslateRead(mem, &regs, 0x10)
	if tr != 0 {
		t.Fatalf("TranslateRead fault = %d", tr)
	}
	if want := uint32(3*memory.PageSize + 0x10); off != want {
		t.Fatalf("TranslateRead = %#x, want %#x", off, want)
	}
}

func TestTranslateNotPresentFaults(t *testing.T) {
	mem := memory.New(memory.PageSize * 4)
	const dirBase = 0x1000
	mem.WriteWord(dirBase, 0) // PteP clear
	regs := newRegs(dirBase, false)
	m := New()

	_, tr := m.TranslateRead(mem, &regs, 0x10)
	if tr != state.FRPAGE {
		t.Fatalf("trap = %d, want FRPAGE", tr)
	}
}

func TestTranslateUserDeniedOnKernelOnlyPage(t *testing.T) {
	mem := memory.New(memory.PageSize * 4)
	pdir := buildPageTables(mem, 3, PteW) // no PteU
	regs := newRegs(pdir, true)
	m := New()

	_, tr := m.TranslateRead(mem, &regs, 0)
	if tr != state.FRPAGE {
		t.Fatalf("trap = %d, want FRPAGE for user access to kernel-only page", tr)
	}
}

func TestTranslateWriteDeniedOnReadOnlyPage(t *testing.T) {
	mem := memory.New(memory.PageSize * 4)
	pdir := buildPageTables(mem, 3, PteU) // no PteW
	regs := newRegs(pdir, true)
	m := New()

	_, tr := m.TranslateWrite(mem, &regs, 0)
	if tr != state.FWPAGE {
		t.Fatalf("trap = %d, want FWPAGE for write to read-only page", tr)
	}
}

func TestDirtyBitSetOnlyAfterWrite(t *testing.T) {
	mem := memory.New(memory.PageSize * 4)
	const tabBase = 0x2000
	pdir := buildPageTables(mem, 3, PteW|PteU)
	regs := newRegs(pdir, false)
	m := New()

	if _, tr := m.TranslateRead(mem, &regs, 0); tr != 0 {
		t.Fatalf("TranslateRead fault = %d", tr)
	}
	if pte := mem.ReadWord(tabBase); pte&PteD != 0 {
		t.Fatal("dirty bit must not be set after a read")
	}

	if _, tr := m.TranslateWrite(mem, &regs, 0); tr != 0 {
		t.Fatalf("TranslateWrite fault = %d", tr)
	}
	if pte := mem.ReadWord(tabBase); pte&PteD == 0 {
		t.Fatal("dirty bit must be set after a write")
	}
}

func TestReadThenWriteUsesFreshTranslation(t *testing.T) {
	// The dirty-bit promotion trick: a prior read must not leave a
	// stale entry in the write-side TLB array that bypasses the
	// write permission check or skips setting the dirty bit.
	mem := memory.New(memory.PageSize * 4)
	const tabBase = 0x2000
	pdir := buildPageTables(mem, 3, PteW|PteU)
	regs := newRegs(pdir, false)
	m := New()

	if _, tr := m.TranslateRead(mem, &regs, 0); tr != 0 {
		t.Fatalf("TranslateRead fault = %d", tr)
	}
	if _, ok := m.tlb.Lookup(false, true, 0); ok {
		t.Fatal("a read must not install a write-side TLB entry")
	}
	if _, tr := m.TranslateWrite(mem, &regs, 0); tr != 0 {
		t.Fatalf("TranslateWrite fault = %d", tr)
	}
	if pte := mem.ReadWord(tabBase); pte&PteD == 0 {
		t.Fatal("dirty bit must be set by the subsequent write")
	}
}

func TestFlushClearsAllFourArrays(t *testing.T) {
	mem := memory.New(memory.PageSize * 4)
	pdir := buildPageTables(mem, 3, PteW|PteU)
	regs := newRegs(pdir, false)
	m := New()

	if _, tr := m.TranslateWrite(mem, &regs, 0); tr != 0 {
		t.Fatalf("TranslateWrite fault = %d", tr)
	}
	if _, ok := m.tlb.Lookup(false, false, 0); !ok {
		t.Fatal("expected a cached read entry before Flush")
	}

	m.Flush()

	if _, ok := m.tlb.Lookup(false, false, 0); ok {
		t.Fatal("kernel read array not cleared by Flush")
	}
	if _, ok := m.tlb.Lookup(false, true, 0); ok {
		t.Fatal("kernel write array not cleared by Flush")
	}
	if _, ok := m.tlb.Lookup(true, false, 0); ok {
		t.Fatal("user read array not cleared by Flush")
	}
	if _, ok := m.tlb.Lookup(true, true, 0); ok {
		t.Fatal("user write array not cleared by Flush")
	}
}

func TestTranslateRecordsFaultingAddress(t *testing.T) {
	mem := memory.New(memory.PageSize * 4)
	const dirBase = 0x1000
	mem.WriteWord(dirBase, 0) // PteP clear
	regs := newRegs(dirBase, false)
	m := New()

	if _, tr := m.TranslateWrite(mem, &regs, 0x1234); tr == 0 {
		t.Fatal("expected a fault")
	}
	if regs.VAdr != 0x1234 {
		t.Fatalf("VAdr = %#x, want 0x1234", regs.VAdr)
	}
}

func TestTranslateOutOfRangeWithPagingOff(t *testing.T) {
	mem := memory.New(memory.PageSize)
	regs := state.Registers{VMem: false}
	m := New()

	if _, tr := m.TranslateRead(mem, &regs, memory.PageSize); tr != state.FMEM {
		t.Fatalf("trap = %d, want FMEM", tr)
	}
}

func TestTLBHitAvoidsPageWalk(t *testing.T) {
	mem := memory.New(memory.PageSize * 4)
	pdir := buildPageTables(mem, 3, PteW|PteU)
	regs := newRegs(pdir, false)
	m := New()

	off1, tr := m.TranslateRead(mem, &regs, 5)
	if tr != 0 {
		t.Fatalf("first translate fault = %d", tr)
	}

	// Corrupt the page directory; a cached hit must not re-walk it.
	mem.WriteWord(0x1000, 0)

	off2, tr := m.TranslateRead(mem, &regs, 5)
	if tr != 0 {
		t.Fatalf("second (cached) translate fault = %d", tr)
	}
	if off1 != off2 {
		t.Fatalf("cached translation changed: %#x != %#x", off1, off2)
	}
}
