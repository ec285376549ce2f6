package mem

import "sync"

import "ukern/defs"
import "ukern/ustr"

const (
	PGSHIFT = 12
	PGSIZE  = 1 << PGSHIFT
	// the zero page is never mapped so a null pointer always faults
	USERMIN = PGSIZE
	// addresses at or above USERMAX belong to the kernel
	USERMAX = 1 << 39
)

func pgn(va int) int {
	return va >> PGSHIFT
}

func pgoff(va int) int {
	return va & (PGSIZE - 1)
}

// As_t is one process's user address space: a sparse set of mapped pages.
// virtual address lookups and the copies through them must be atomic with
// respect to map/unmap, thus the lock.
type As_t struct {
	sync.Mutex
	pages map[int][]uint8
}

func (as *As_t) Init() {
	as.pages = make(map[int][]uint8)
}

// Mapuser maps npages fresh zero pages starting at va. va must be page
// aligned and inside the user region.
func (as *As_t) Mapuser(va, npages int) {
	if pgoff(va) != 0 {
		panic("unaligned user mapping")
	}
	if va < USERMIN || va+npages*PGSIZE > USERMAX {
		panic("mapping outside user region")
	}
	as.Lock()
	for i := 0; i < npages; i++ {
		as.pages[pgn(va)+i] = make([]uint8, PGSIZE)
	}
	as.Unlock()
}

func (as *As_t) Unmap(va int) {
	as.Lock()
	delete(as.pages, pgn(va))
	as.Unlock()
}

// Uvmfree drops every user mapping. called at exec and at termination.
func (as *As_t) Uvmfree() {
	as.Lock()
	as.pages = make(map[int][]uint8)
	as.Unlock()
}

// Copy gives child a private copy of every mapped page. the simulation has
// no COW; fork pays for the full copy up front.
func (as *As_t) Copy(child *As_t) {
	as.Lock()
	defer as.Unlock()
	child.Lock()
	defer child.Unlock()
	for n, pg := range as.pages {
		npg := make([]uint8, PGSIZE)
		copy(npg, pg)
		child.pages[n] = npg
	}
}

func (as *As_t) mapped(va int) bool {
	_, ok := as.pages[pgn(va)]
	return ok
}

// Userok is the address validator: the n-byte span starting at va is safe to
// touch from kernel context iff va is non-null, every byte lies below the
// kernel-reserved region, and every page the span crosses is mapped. the
// whole range is checked, not just its head byte.
func (as *As_t) Userok(va, n int) bool {
	if va <= 0 || va >= USERMAX || n < 0 {
		return false
	}
	if n == 0 {
		n = 1
	}
	// bound n before any span arithmetic so va+n cannot wrap around
	if n > USERMAX-va {
		return false
	}
	last := va + n - 1
	as.Lock()
	defer as.Unlock()
	for p := pgn(va); p <= pgn(last); p++ {
		if _, ok := as.pages[p]; !ok {
			return false
		}
	}
	return true
}

// userdmap returns the mapped bytes from va to the end of its page.
func (as *As_t) userdmap(va int) ([]uint8, defs.Err_t) {
	if va <= 0 || va >= USERMAX {
		return nil, -defs.EFAULT
	}
	pg, ok := as.pages[pgn(va)]
	if !ok {
		return nil, -defs.EFAULT
	}
	return pg[pgoff(va):], 0
}

// Userstr copies in the NUL-terminated string at uva. a string longer than
// lenmax is an error, not a truncation.
func (as *As_t) Userstr(uva int, lenmax int) (ustr.Ustr, defs.Err_t) {
	if uva == 0 {
		return nil, -defs.EFAULT
	}
	as.Lock()
	defer as.Unlock()
	i := 0
	s := ustr.MkUstr()
	for {
		str, err := as.userdmap(uva + i)
		if err != 0 {
			return nil, err
		}
		for j, c := range str {
			if c == 0 {
				s = append(s, str[:j]...)
				return s, 0
			}
		}
		s = append(s, str...)
		i += len(str)
		if len(s) >= lenmax {
			return nil, -defs.ENAMETOOLONG
		}
	}
}

// K2user copies src into user memory at uva.
func (as *As_t) K2user(src []uint8, uva int) defs.Err_t {
	as.Lock()
	defer as.Unlock()
	for len(src) != 0 {
		dst, err := as.userdmap(uva)
		if err != 0 {
			return err
		}
		c := copy(dst, src)
		src = src[c:]
		uva += c
	}
	return 0
}

// User2k copies len(dst) bytes of user memory at uva into dst.
func (as *As_t) User2k(dst []uint8, uva int) defs.Err_t {
	as.Lock()
	defer as.Unlock()
	for len(dst) != 0 {
		src, err := as.userdmap(uva)
		if err != 0 {
			return err
		}
		c := copy(dst, src)
		dst = dst[c:]
		uva += c
	}
	return 0
}
