package mmu

// TLBSize covers the full virtual page number space for a 32-bit
// address space with 4 KiB pages (2^20 pages).
const TLBSize = 1 << 20

// MaxTracked bounds the recorded-index list; once it fills, the whole
// TLB is flushed rather than growing it further (spec section 3).
const MaxTracked = 4096

// tlbArray is one of the four parallel caches: {kernel,user} x
// {read,write}, indexed by virtual page number. Design Notes calls for
// a plain tuple instead of the original's XOR-encoded host pointer;
// here the "tuple" is just the physical page number plus a validity
// flag, since permission is already implied by which of the four
// arrays the entry lives in.
type tlbArray []uint32

const tlbNone uint32 = 0xffffffff // Sentinel: no cached translation.

func newTLBArray() tlbArray {
	a := make(tlbArray, TLBSize)
	for i := range a {
		a[i] = tlbNone
	}
	return a
}

// TLB is the full four-way software translation cache.
type TLB struct {
	kernelRead  tlbArray
	kernelWrite tlbArray
	userRead    tlbArray
	userWrite   tlbArray

	tracked []uint32 // Recorded non-empty VPN indices, len <= MaxTracked.
	present map[uint32]bool
}

// newTLB builds an empty TLB.
func newTLB() *TLB {
	return &TLB{
		kernelRead:  newTLBArray(),
		kernelWrite: newTLBArray(),
		userRead:    newTLBArray(),
		userWrite:   newTLBArray(),
		tracked:     make([]uint32, 0, MaxTracked),
		present:     make(map[uint32]bool, MaxTracked),
	}
}

func (t *TLB) array(user, write bool) tlbArray {
	switch {
	case user && write:
		return t.userWrite
	case user && !write:
		return t.userRead
	case !user && write:
		return t.kernelWrite
	default:
		return t.kernelRead
	}
}

// Lookup returns the cached physical page for vpn in the given
// mode/direction, or ok=false on a miss.
func (t *TLB) Lookup(user, write bool, vpn uint32) (physPage uint32, ok bool) {
	entry := t.array(user, write)[vpn]
	if entry == tlbNone {
		return 0, false
	}
	return entry, true
}

// track records vpn as holding a live entry in at least one array,
// flushing the whole TLB first if the tracked-index table is full.
func (t *TLB) track(vpn uint32) {
	if t.present[vpn] {
		return
	}
	if len(t.tracked) >= MaxTracked {
		t.Flush()
	}
	t.tracked = append(t.tracked, vpn)
	t.present[vpn] = true
}

// Install records a translation. Each bool controls whether the entry
// is written into that array; callers pass false to withhold a cache
// fill (e.g. the read path never installs into the write arrays, per
// the dirty-bit promotion trick in spec section 4.1).
func (t *TLB) Install(vpn, physPage uint32, kernelR, userR, kernelW, userW bool) {
	t.track(vpn)
	if kernelR {
		t.kernelRead[vpn] = physPage
	}
	if userR {
		t.userRead[vpn] = physPage
	}
	if kernelW {
		t.kernelWrite[vpn] = physPage
	}
	if userW {
		t.userWrite[vpn] = physPage
	}
}

// Flush clears every recorded index across all four arrays. Triggered
// by PDIR, SPAG, RTI, and automatically when the tracked table fills.
func (t *TLB) Flush() {
	for _, vpn := range t.tracked {
		t.kernelRead[vpn] = tlbNone
		t.kernelWrite[vpn] = tlbNone
		t.userRead[vpn] = tlbNone
		t.userWrite[vpn] = tlbNone
		delete(t.present, vpn)
	}
	t.tracked = t.tracked[:0]
}
