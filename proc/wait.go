package proc

import "sync"

import "ukern/defs"

// requirements for the wait syscall:
// - wait for a pid that is not my child must fail
// - only one wait for a specific pid may succeed; others must fail
// - a child's status is released exactly once, when it is finalized
type Waitst_t struct {
	Pid    int
	status int
	// closed exactly once, when status is finalized
	done chan struct{}
	once sync.Once
}

// Wait_t is the parent's side of the exit-status handoff: one single-use
// completion record per waitable child.
type Wait_t struct {
	sync.Mutex
	childs map[int]*Waitst_t
}

func (w *Wait_t) Wait_init() {
	w.childs = make(map[int]*Waitst_t)
}

// Start registers pid as a waitable child. must happen before the child can
// possibly exit.
func (w *Wait_t) Start(pid int) {
	w.Lock()
	defer w.Unlock()
	if _, ok := w.childs[pid]; ok {
		panic("pid exists")
	}
	w.childs[pid] = &Waitst_t{Pid: pid, done: make(chan struct{})}
}

// Put finalizes pid's exit status and releases any waiter. safe against a
// second finalization attempt; the first status wins.
func (w *Wait_t) Put(pid, status int) {
	w.Lock()
	wst, ok := w.childs[pid]
	w.Unlock()
	if !ok {
		panic("pid must exist")
	}
	wst.once.Do(func() {
		wst.status = status
		close(wst.done)
	})
}

// Reap blocks until pid's status is finalized, then removes the record so a
// second reap of the same pid fails. a pid that was never a child of this
// process fails immediately.
func (w *Wait_t) Reap(pid int) (int, defs.Err_t) {
	w.Lock()
	wst, ok := w.childs[pid]
	w.Unlock()
	if !ok {
		return 0, -defs.ECHILD
	}
	<-wst.done
	w.Lock()
	defer w.Unlock()
	// two waiters can race past the lookup; only the one that removes the
	// record succeeds
	if _, ok := w.childs[pid]; !ok {
		return 0, -defs.ECHILD
	}
	delete(w.childs, pid)
	return wst.status, 0
}
