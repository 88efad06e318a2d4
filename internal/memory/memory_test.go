package memory

import "testing"

func TestNewRoundsUpToPage(t *testing.T) {
	m := New(1)
	if m.Size() != PageSize {
		t.Fatalf("Size() = %d, want %d", m.Size(), PageSize)
	}
}

func TestNewDefaultSize(t *testing.T) {
	m := New(0)
	if m.Size() != DefaultSize {
		t.Fatalf("Size() = %d, want %d", m.Size(), DefaultSize)
	}
}

func TestByteRoundTrip(t *testing.T) {
	m := New(PageSize)
	m.WriteByte(10, 0xab)
	if got := m.ReadByte(10); got != 0xab {
		t.Fatalf("ReadByte = %#x, want 0xab", got)
	}
}

func TestHalfRoundTrip(t *testing.T) {
	m := New(PageSize)
	m.WriteHalf(20, 0xbeef)
	if got := m.ReadHalf(20); got != 0xbeef {
		t.Fatalf("ReadHalf = %#x, want 0xbeef", got)
	}
}

func TestWordRoundTrip(t *testing.T) {
	m := New(PageSize)
	m.WriteWord(32, 0xdeadbeef)
	if got := m.ReadWord(32); got != 0xdeadbeef {
		t.Fatalf("ReadWord = %#x, want 0xdeadbeef", got)
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	m := New(PageSize)
	m.WriteDouble(64, 0x0123456789abcdef)
	if got := m.ReadDouble(64); got != 0x0123456789abcdef {
		t.Fatalf("ReadDouble = %#x, want 0x0123456789abcdef", got)
	}
}

func TestInRange(t *testing.T) {
	m := New(PageSize)
	if !m.InRange(0, PageSize) {
		t.Fatal("InRange(0, PageSize) should be true")
	}
	if m.InRange(0, PageSize+1) {
		t.Fatal("InRange(0, PageSize+1) should be false")
	}
	if m.InRange(PageSize, 1) {
		t.Fatal("InRange(PageSize, 1) should be false: one past the end")
	}
	if !m.InRange(PageSize, 0) {
		t.Fatal("InRange(PageSize, 0) should be true: zero-length at the boundary")
	}
}

func TestLoadAt(t *testing.T) {
	m := New(PageSize)
	data := []byte{1, 2, 3, 4}
	if err := m.LoadAt(100, data); err != nil {
		t.Fatalf("LoadAt: %v", err)
	}
	for i, b := range data {
		if got := m.ReadByte(100 + uint32(i)); got != b {
			t.Fatalf("ReadByte(%d) = %d, want %d", 100+i, got, b)
		}
	}
}

func TestLoadAtOutOfRange(t *testing.T) {
	m := New(PageSize)
	if err := m.LoadAt(PageSize-1, []byte{1, 2}); err == nil {
		t.Fatal("expected an error loading past the end of memory")
	}
}
