package proc

import "fmt"
import "io"
import "sync"
import "sync/atomic"

import "ukern/limits"
import "ukern/mem"
import "ukern/ustr"

// process states. a process moves Running -> Exiting -> Terminated exactly
// once and never back.
const (
	RUNNING int32 = iota
	EXITING
	TERMINATED
)

// Prog_t is a user program image: the body the process's thread executes.
// it issues requests through the syscall interface it is handed, touching
// kernel state only across that boundary.
type Prog_t func(p *Proc_t, sc Syscall_i)

type Proc_t struct {
	Pid  int
	Name ustr.Ustr

	// user address space
	As mem.As_t

	// descriptor table
	Fdt Fdtable_t

	// waitinfo for my child processes
	Mywait Wait_t
	// waitinfo of my parent
	Pwait *Wait_t

	// where termination records are written
	Cons io.Writer

	state      int32
	exitstatus int
	exitonce   sync.Once

	syscall Syscall_i
}

type ptable_t struct {
	sync.Mutex
	procs map[int]*Proc_t
}

var Ptable = ptable_t{procs: make(map[int]*Proc_t)}

func (pt *ptable_t) Get(pid int) (*Proc_t, bool) {
	pt.Lock()
	defer pt.Unlock()
	p, ok := pt.procs[pid]
	return p, ok
}

func (pt *ptable_t) set(pid int, p *Proc_t) {
	pt.Lock()
	defer pt.Unlock()
	if _, ok := pt.procs[pid]; ok {
		panic("pid exists")
	}
	pt.procs[pid] = p
}

func (pt *ptable_t) del(pid int) {
	pt.Lock()
	defer pt.Unlock()
	delete(pt.procs, pid)
}

// Iter may execute concurrently with inserts and deletes.
func (pt *ptable_t) Iter(f func(int, *Proc_t) bool) {
	pt.Lock()
	pids := make([]int, 0, len(pt.procs))
	for pid := range pt.procs {
		pids = append(pids, pid)
	}
	pt.Unlock()
	for _, pid := range pids {
		if p, ok := pt.Get(pid); ok {
			if !f(pid, p) {
				return
			}
		}
	}
}

var nprocs int64
var atomic_pid int64

// Proc_new creates an empty process: fresh descriptor table, fresh address
// space, no waitable children. fails when the systemwide process cap is
// reached, which the caller reports as fork failure.
func Proc_new(name ustr.Ustr, cons io.Writer, sys Syscall_i) (*Proc_t, bool) {
	if atomic.AddInt64(&nprocs, 1) > int64(limits.Syslimit.Sysprocs) {
		atomic.AddInt64(&nprocs, -1)
		return nil, false
	}
	pid := int(atomic.AddInt64(&atomic_pid, 1))

	p := &Proc_t{}
	p.Pid = pid
	p.Name = name
	p.Cons = cons
	p.As.Init()
	p.Fdt.Init()
	p.Mywait.Wait_init()
	p.syscall = sys
	Ptable.set(pid, p)
	return p, true
}

func (p *Proc_t) State() int32 {
	return atomic.LoadInt32(&p.state)
}

func (p *Proc_t) Exitstatus() int {
	return p.exitstatus
}

// unwind sentinels. syscall dispatch runs on the process's own goroutine,
// so a handler that must not return to user code (exit, a trust-boundary
// fault, a successful exec) panics with one of these and run() recovers.
type exitmsg_t struct{}

type execmsg_t struct {
	prog Prog_t
}

// Unwind aborts the current user program without touching process state.
// Exit or a successful exec must already have run.
func Unwind() {
	panic(exitmsg_t{})
}

// Unwindexec aborts the current image and resumes the process at prog.
func Unwindexec(prog Prog_t) {
	panic(execmsg_t{prog})
}

// Sched_add hands the process image to the scheduler: one goroutine per
// process thread.
func (p *Proc_t) Sched_add(prog Prog_t) {
	go p.run(prog)
}

func (p *Proc_t) run(prog Prog_t) {
	for prog != nil {
		prog = p.runimage(prog)
	}
}

// runimage executes one program image and catches the kernel's nonlocal
// exits. returns the next image when the old one was replaced by exec.
func (p *Proc_t) runimage(prog Prog_t) (next Prog_t) {
	defer func() {
		switch r := recover().(type) {
		case nil, exitmsg_t:
		case execmsg_t:
			next = r.prog
		default:
			panic(r)
		}
	}()
	prog(p, p.syscall)
	// the image returned from its body; treat as a clean exit(0)
	p.syscall.Sys_exit(p, 0)
	return nil
}

// Exit is the shared termination path for every trigger: an explicit exit
// request, an invalid-address fault, an unrecognized call, or exec load
// failure. it runs exactly once per process regardless of how many triggers
// race; the first status wins.
func (p *Proc_t) Exit(status int) {
	p.exitonce.Do(func() {
		atomic.StoreInt32(&p.state, EXITING)
		p.exitstatus = status
		// publish to a waiting parent first; the rest of teardown is
		// invisible to it
		if p.Pwait != nil {
			p.Pwait.Put(p.Pid, status)
			p.Pwait = nil
		}
		p.Fdt.Drain()
		p.As.Uvmfree()
		// teardown is done; the process is terminated while its record is
		// written and it is still listed, so snapshots can observe the
		// final state
		atomic.StoreInt32(&p.state, TERMINATED)
		fmt.Fprintf(p.Cons, "%s: exit(%d)\n", p.Name, status)
		Ptable.del(p.Pid)
		atomic.AddInt64(&nprocs, -1)
	})
}
