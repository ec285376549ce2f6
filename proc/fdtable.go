package proc

import "sync"

import "ukern/defs"
import "ukern/fd"
import "ukern/limits"

type fdent_t struct {
	fdn int
	fd  *fd.Fd_t
}

// Fdtable_t maps a process's small integer handles to open files. entries
// are kept in ascending handle order and handles are never reused: nextfd
// only grows, so a lookup can stop as soon as a stored handle exceeds the
// target. handles 0 and 1 are the console and never appear here.
type Fdtable_t struct {
	sync.Mutex
	entries []fdent_t
	nextfd  int
	nfds    int
	drained bool
}

func (ft *Fdtable_t) Init() {
	ft.nextfd = defs.FD_FIRST
}

// Add allocates the next handle for f. fails once the open-file limit or
// the handle space is exhausted.
func (ft *Fdtable_t) Add(f *fd.Fd_t) (int, bool) {
	ft.Lock()
	defer ft.Unlock()
	if ft.nfds == limits.Syslimit.Nofile || ft.nextfd == limits.Syslimit.Fdmax {
		return -1, false
	}
	fdn := ft.nextfd
	ft.nextfd++
	ft.entries = append(ft.entries, fdent_t{fdn: fdn, fd: f})
	ft.nfds++
	return fdn, true
}

// Get returns the file open as fdn without transferring ownership. the
// reserved handles and anything never issued or already closed are simply
// not found.
func (ft *Fdtable_t) Get(fdn int) (*fd.Fd_t, bool) {
	ft.Lock()
	defer ft.Unlock()
	e, _ := ft.find(fdn)
	if e == nil {
		return nil, false
	}
	return e.fd, true
}

// Del removes fdn and returns its file for the caller to close. removing a
// reserved, unissued, or already removed handle is a safe no-op.
func (ft *Fdtable_t) Del(fdn int) (*fd.Fd_t, bool) {
	ft.Lock()
	defer ft.Unlock()
	e, i := ft.find(fdn)
	if e == nil {
		return nil, false
	}
	ret := e.fd
	ft.entries = append(ft.entries[:i], ft.entries[i+1:]...)
	ft.nfds--
	if ft.nfds < 0 {
		panic("neg nfds")
	}
	return ret, true
}

func (ft *Fdtable_t) find(fdn int) (*fdent_t, int) {
	if fdn < defs.FD_FIRST || fdn >= ft.nextfd {
		return nil, -1
	}
	for i := range ft.entries {
		if ft.entries[i].fdn == fdn {
			return &ft.entries[i], i
		} else if ft.entries[i].fdn > fdn {
			// entries are sorted; fdn was closed
			break
		}
	}
	return nil, -1
}

// Drain closes every remaining entry. called exactly once, when the owning
// process terminates.
func (ft *Fdtable_t) Drain() {
	ft.Lock()
	defer ft.Unlock()
	if ft.drained {
		panic("fd table drained twice")
	}
	ft.drained = true
	for i := range ft.entries {
		fd.Close_panic(ft.entries[i].fd)
	}
	ft.entries = nil
	ft.nfds = 0
}

// Copy duplicates every entry into child via Reopen, preserving handle
// values and the next-handle counter. an entry whose reopen fails is
// skipped, the way a racing close would have left it missing. child must be
// freshly initialized.
func (ft *Fdtable_t) Copy(child *Fdtable_t) {
	ft.Lock()
	defer ft.Unlock()
	for _, e := range ft.entries {
		nfd, err := fd.Copyfd(e.fd)
		if err != 0 {
			continue
		}
		child.entries = append(child.entries, fdent_t{fdn: e.fdn, fd: nfd})
		child.nfds++
	}
	child.nextfd = ft.nextfd
}

func (ft *Fdtable_t) Nfds() int {
	ft.Lock()
	defer ft.Unlock()
	return ft.nfds
}
