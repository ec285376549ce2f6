package kernel

import "io"
import "os"
import "sync"

import "ukern/fdops"
import "ukern/fs"
import "ukern/mem"
import "ukern/proc"
import "ukern/ustr"

// pages of user memory a fresh image starts with
const USERPAGES = 16

// Kernel_t ties the boundary together: the file-system collaborator and the
// systemwide lock serializing its metadata operations, the console device,
// the program registry the fork/exec loader consults, and the power switch.
type Kernel_t struct {
	thefs  fdops.Fsops_i
	fslock sync.Mutex

	cons *console_t

	proglock sync.Mutex
	progs    map[string]proc.Prog_t

	sys *syscall_t

	// waitinfo for processes booted directly via Spawn
	initwait proc.Wait_t

	halted   chan struct{}
	haltonce sync.Once
}

type Opt_t func(*Kernel_t)

// WithConsole replaces the console's input source and output sink.
func WithConsole(in io.Reader, out io.Writer) Opt_t {
	return func(k *Kernel_t) {
		k.cons = mkconsole(in, out)
	}
}

// WithFs replaces the file-system collaborator.
func WithFs(thefs fdops.Fsops_i) Opt_t {
	return func(k *Kernel_t) {
		k.thefs = thefs
	}
}

func Mkkernel(opts ...Opt_t) *Kernel_t {
	k := &Kernel_t{
		thefs:  fs.MkMemfs(),
		cons:   mkconsole(os.Stdin, os.Stdout),
		progs:  make(map[string]proc.Prog_t),
		halted: make(chan struct{}),
	}
	for _, o := range opts {
		o(k)
	}
	k.sys = &syscall_t{k: k}
	k.initwait.Wait_init()
	return k
}

// Register adds a program image to the loader's table. fork and exec
// resolve their validated name arguments against it.
func (k *Kernel_t) Register(name string, prog proc.Prog_t) {
	k.proglock.Lock()
	k.progs[name] = prog
	k.proglock.Unlock()
}

func (k *Kernel_t) lookupprog(name ustr.Ustr) (proc.Prog_t, bool) {
	k.proglock.Lock()
	defer k.proglock.Unlock()
	prog, ok := k.progs[name.String()]
	return prog, ok
}

// Spawn boots the registered program name as a new process whose exit
// status is reaped via Wait. fails on an unregistered name or when the
// process cap is hit.
func (k *Kernel_t) Spawn(name string) (*proc.Proc_t, bool) {
	prog, ok := k.lookupprog(ustr.Ustr(name))
	if !ok {
		return nil, false
	}
	p, ok := proc.Proc_new(ustr.Ustr(name), k.cons.out, k.sys)
	if !ok {
		return nil, false
	}
	p.As.Mapuser(mem.USERMIN, USERPAGES)
	p.Pwait = &k.initwait
	k.initwait.Start(p.Pid)
	p.Sched_add(prog)
	return p, true
}

// Wait blocks until the Spawned process pid terminates and returns its exit
// status, or -1 if pid is not waitable.
func (k *Kernel_t) Wait(pid int) int {
	st, err := k.initwait.Reap(pid)
	if err != 0 {
		return -1
	}
	return st
}

// Poweroff is halt: released exactly once, observable via Halted.
func (k *Kernel_t) Poweroff() {
	k.haltonce.Do(func() {
		close(k.halted)
	})
}

func (k *Kernel_t) Halted() <-chan struct{} {
	return k.halted
}

// Syscalls exposes the dispatcher, for callers that drive a process
// directly instead of through Spawn.
func (k *Kernel_t) Syscalls() proc.Syscall_i {
	return k.sys
}

// Procinfo_t is a point-in-time view of one process, for the monitor.
type Procinfo_t struct {
	Pid    int
	Name   string
	State  string
	Nfds   int
	Status int
}

func statestr(s int32) string {
	switch s {
	case proc.RUNNING:
		return "running"
	case proc.EXITING:
		return "exiting"
	case proc.TERMINATED:
		return "terminated"
	}
	return "?"
}

// Proclist snapshots the process table in pid order.
func (k *Kernel_t) Proclist() []Procinfo_t {
	var ret []Procinfo_t
	proc.Ptable.Iter(func(pid int, p *proc.Proc_t) bool {
		ret = append(ret, Procinfo_t{
			Pid:    pid,
			Name:   p.Name.String(),
			State:  statestr(p.State()),
			Nfds:   p.Fdt.Nfds(),
			Status: p.Exitstatus(),
		})
		return true
	})
	for i := 1; i < len(ret); i++ {
		for j := i; j > 0 && ret[j-1].Pid > ret[j].Pid; j-- {
			ret[j-1], ret[j] = ret[j], ret[j-1]
		}
	}
	return ret
}
