package mem

import "math"
import "testing"

import "ukern/defs"

func mkas(npages int) *As_t {
	as := &As_t{}
	as.Init()
	as.Mapuser(USERMIN, npages)
	return as
}

func TestUserokRejectsNull(t *testing.T) {
	as := mkas(1)
	if as.Userok(0, 1) {
		t.Fatalf("null pointer accepted")
	}
	if as.Userok(0, 0) {
		t.Fatalf("zero-length null pointer accepted")
	}
}

func TestUserokRejectsKernelRange(t *testing.T) {
	as := mkas(1)
	if as.Userok(USERMAX, 1) {
		t.Fatalf("kernel address accepted")
	}
	if as.Userok(USERMAX+PGSIZE, 8) {
		t.Fatalf("kernel address accepted")
	}
	// span ending in the kernel range is as bad as starting there
	if as.Userok(USERMAX-4, 8) {
		t.Fatalf("span reaching kernel range accepted")
	}
	if as.Userok(-8, 4) {
		t.Fatalf("negative address accepted")
	}
}

func TestUserokRejectsUnmapped(t *testing.T) {
	as := mkas(2)
	if as.Userok(USERMIN+2*PGSIZE, 1) {
		t.Fatalf("unmapped page accepted")
	}
	if !as.Userok(USERMIN, 1) {
		t.Fatalf("mapped page rejected")
	}
}

func TestUserokChecksWholeSpan(t *testing.T) {
	as := mkas(2)
	// crosses from the last mapped page into unmapped territory
	va := USERMIN + 2*PGSIZE - 4
	if as.Userok(va, 8) {
		t.Fatalf("span tail in unmapped page accepted")
	}
	if !as.Userok(va, 4) {
		t.Fatalf("span within mapped pages rejected")
	}
	// a large span must have every intermediate page mapped
	as.Unmap(USERMIN + PGSIZE)
	if as.Userok(USERMIN, 2*PGSIZE) {
		t.Fatalf("span with unmapped middle accepted")
	}
}

func TestUserokHugeLength(t *testing.T) {
	as := mkas(1)
	// a length that would wrap the span end past the integer range must
	// not slip past the kernel-boundary check
	if as.Userok(USERMIN, math.MaxInt) {
		t.Fatalf("overflowing span accepted")
	}
	if as.Userok(USERMIN, math.MaxInt-USERMIN+1) {
		t.Fatalf("overflowing span accepted")
	}
	if as.Userok(USERMIN, USERMAX) {
		t.Fatalf("span covering kernel range accepted")
	}
	if as.Userok(USERMIN, USERMAX-USERMIN+1) {
		t.Fatalf("span ending at kernel boundary accepted")
	}
	// the largest in-range span is still subject to the page checks
	if as.Userok(USERMIN, USERMAX-USERMIN) {
		t.Fatalf("unmapped giant span accepted")
	}
}

func TestUserokZeroLength(t *testing.T) {
	as := mkas(1)
	// a zero-length span still needs its address mapped
	if !as.Userok(USERMIN, 0) {
		t.Fatalf("zero-length span at mapped address rejected")
	}
	if as.Userok(USERMIN+PGSIZE, 0) {
		t.Fatalf("zero-length span at unmapped address accepted")
	}
	if as.Userok(USERMIN, -1) {
		t.Fatalf("negative length accepted")
	}
}

func TestCopyInOut(t *testing.T) {
	as := mkas(2)
	msg := []uint8("page crossing payload")
	// straddle the page boundary
	uva := USERMIN + PGSIZE - 5
	if err := as.K2user(msg, uva); err != 0 {
		t.Fatalf("k2user: %v", err)
	}
	back := make([]uint8, len(msg))
	if err := as.User2k(back, uva); err != 0 {
		t.Fatalf("user2k: %v", err)
	}
	if string(back) != string(msg) {
		t.Fatalf("got %q, want %q", back, msg)
	}
	if err := as.K2user(msg, USERMIN+2*PGSIZE-2); err != -defs.EFAULT {
		t.Fatalf("copy into unmapped page: %v", err)
	}
}

func TestUserstr(t *testing.T) {
	as := mkas(2)
	s := append([]uint8("echo hello"), 0)
	uva := USERMIN + PGSIZE - 4
	if err := as.K2user(s, uva); err != 0 {
		t.Fatalf("k2user: %v", err)
	}
	got, err := as.Userstr(uva, 64)
	if err != 0 {
		t.Fatalf("userstr: %v", err)
	}
	if got.String() != "echo hello" {
		t.Fatalf("got %q", got.String())
	}
	if _, err := as.Userstr(0, 64); err != -defs.EFAULT {
		t.Fatalf("null string pointer: %v", err)
	}
	if _, err := as.Userstr(USERMIN+2*PGSIZE, 64); err != -defs.EFAULT {
		t.Fatalf("unmapped string pointer: %v", err)
	}
}

func TestUserstrTooLong(t *testing.T) {
	as := mkas(4)
	long := make([]uint8, 2*PGSIZE)
	for i := range long {
		long[i] = 'a'
	}
	long = append(long, 0)
	if err := as.K2user(long, USERMIN); err != 0 {
		t.Fatalf("k2user: %v", err)
	}
	if _, err := as.Userstr(USERMIN, 128); err != -defs.ENAMETOOLONG {
		t.Fatalf("oversized string: %v", err)
	}
}

func TestUserstrRunsOffMapping(t *testing.T) {
	as := mkas(1)
	// fill the only page with no terminator; the scan falls off the mapping
	fill := make([]uint8, PGSIZE)
	for i := range fill {
		fill[i] = 'x'
	}
	if err := as.K2user(fill, USERMIN); err != 0 {
		t.Fatalf("k2user: %v", err)
	}
	if _, err := as.Userstr(USERMIN, 2*PGSIZE); err != -defs.EFAULT {
		t.Fatalf("unterminated string: %v", err)
	}
}

func TestAsCopy(t *testing.T) {
	as := mkas(2)
	msg := []uint8("inherited")
	as.K2user(msg, USERMIN)

	child := &As_t{}
	child.Init()
	as.Copy(child)

	back := make([]uint8, len(msg))
	if err := child.User2k(back, USERMIN); err != 0 {
		t.Fatalf("child user2k: %v", err)
	}
	if string(back) != string(msg) {
		t.Fatalf("child got %q", back)
	}
	// the copy is private
	child.K2user([]uint8("scribbled!"), USERMIN)
	as.User2k(back, USERMIN)
	if string(back) != string(msg) {
		t.Fatalf("child write visible in parent: %q", back)
	}
}

func TestUserbuf(t *testing.T) {
	as := mkas(2)
	uva := USERMIN + PGSIZE - 3
	ub := as.Mkuserbuf(uva, 8)
	if ub.Totalsz() != 8 || ub.Remain() != 8 {
		t.Fatalf("fresh buf remain %v total %v", ub.Remain(), ub.Totalsz())
	}
	n, err := ub.Uiowrite([]uint8("abcdefgh"))
	if n != 8 || err != 0 {
		t.Fatalf("uiowrite: %v %v", n, err)
	}
	if ub.Remain() != 0 {
		t.Fatalf("remain after full write: %v", ub.Remain())
	}

	rb := as.Mkuserbuf(uva, 8)
	dst := make([]uint8, 8)
	n, err = rb.Uioread(dst)
	if n != 8 || err != 0 {
		t.Fatalf("uioread: %v %v", n, err)
	}
	if string(dst) != "abcdefgh" {
		t.Fatalf("got %q", dst)
	}
}

func TestUserbufFaultsMidTransfer(t *testing.T) {
	as := mkas(1)
	// buffer claims more than is mapped; the transfer stops at the fault
	ub := as.Mkuserbuf(USERMIN+PGSIZE-4, 16)
	n, err := ub.Uiowrite(make([]uint8, 16))
	if n != 4 || err != -defs.EFAULT {
		t.Fatalf("partial write: %v %v", n, err)
	}
}

func TestFakeubuf(t *testing.T) {
	var fb Fakeubuf_t
	fb.Fake_init(make([]uint8, 4))
	n, err := fb.Uiowrite([]uint8("wxyz"))
	if n != 4 || err != 0 {
		t.Fatalf("fake write: %v %v", n, err)
	}
	if fb.Remain() != 0 || fb.Totalsz() != 4 {
		t.Fatalf("remain %v total %v", fb.Remain(), fb.Totalsz())
	}
}
