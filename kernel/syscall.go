package kernel

import "fmt"

import "ukern/defs"
import "ukern/fd"
import "ukern/limits"
import "ukern/mem"
import "ukern/proc"
import "ukern/ustr"

// syscall_t is the dispatcher: the single entry point through which a
// trapped user request reaches a kernel service. implements proc.Syscall_i.
// every pointer-typed argument is validated before the service it names is
// invoked; a pointer that fails validation terminates the process with the
// killed status and never reaches the service.
type syscall_t struct {
	k *Kernel_t
}

func (s *syscall_t) Syscall(p *proc.Proc_t, tf *[defs.TFSIZE]int) int {
	sysno := tf[defs.TF_RAX]

	a1 := tf[defs.TF_RDI]
	a2 := tf[defs.TF_RSI]
	a3 := tf[defs.TF_RDX]

	var ret int
	switch sysno {
	case defs.SYS_HALT:
		s.sys_halt(p)
	case defs.SYS_EXIT:
		s.Sys_exit(p, a1)
	case defs.SYS_FORK:
		ret = s.sys_fork(p, a1)
	case defs.SYS_EXEC:
		// the caller survives a failed exec long enough to observe -1,
		// then terminates with status -1
		if s.sys_exec(p, a1) == -1 {
			s.Sys_exit(p, -1)
		}
	case defs.SYS_WAIT:
		ret = s.sys_wait(p, a1)
	case defs.SYS_CREATE:
		ret = s.sys_create(p, a1, a2)
	case defs.SYS_REMOVE:
		ret = s.sys_remove(p, a1)
	case defs.SYS_OPEN:
		ret = s.sys_open(p, a1)
	case defs.SYS_FILESIZE:
		ret = s.sys_filesize(p, a1)
	case defs.SYS_READ:
		ret = s.sys_read(p, a1, a2, a3)
	case defs.SYS_WRITE:
		ret = s.sys_write(p, a1, a2, a3)
	case defs.SYS_SEEK:
		ret = s.sys_seek(p, a1, a2)
	case defs.SYS_TELL:
		ret = s.sys_tell(p, a1)
	case defs.SYS_CLOSE:
		ret = s.Sys_close(p, a1)
	default:
		fmt.Fprintf(s.k.cons.out, "unexpected syscall %v\n", sysno)
		s.Sys_exit(p, defs.STATUS_KILLED)
	}
	tf[defs.TF_RAX] = ret
	return ret
}

// kill terminates p for a trust-boundary fault. never returns.
func (s *syscall_t) kill(p *proc.Proc_t) {
	s.Sys_exit(p, defs.STATUS_KILLED)
}

// userstr copies in the string argument at uva, terminating p on an invalid
// pointer. never returns an error to its caller.
func (s *syscall_t) userstr(p *proc.Proc_t, uva int) ustr.Ustr {
	str, err := p.As.Userstr(uva, limits.Syslimit.Namemax)
	if err != 0 {
		s.kill(p)
	}
	return str
}

func (s *syscall_t) sys_halt(p *proc.Proc_t) {
	s.k.Poweroff()
	proc.Unwind()
}

func (s *syscall_t) Sys_exit(p *proc.Proc_t, status int) {
	p.Exit(status)
	proc.Unwind()
}

func (s *syscall_t) sys_fork(p *proc.Proc_t, namen int) int {
	name := s.userstr(p, namen)
	prog, ok := s.k.lookupprog(name)
	if !ok {
		return -1
	}
	child, ok := proc.Proc_new(name, s.k.cons.out, s.k.sys)
	if !ok {
		// process cap reached; the parent keeps running
		return -1
	}
	p.As.Copy(&child.As)
	p.Fdt.Copy(&child.Fdt)
	child.Pwait = &p.Mywait
	p.Mywait.Start(child.Pid)
	child.Sched_add(prog)
	return child.Pid
}

// sys_exec replaces the calling image. on success it does not return: the
// process resumes at the new image with a fresh address space and its
// descriptor table intact.
func (s *syscall_t) sys_exec(p *proc.Proc_t, linen int) int {
	line := s.userstr(p, linen)
	name := line.Firstfield()
	prog, ok := s.k.lookupprog(name)
	if !ok {
		return -1
	}
	p.As.Uvmfree()
	p.As.Mapuser(mem.USERMIN, USERPAGES)
	p.Name = name
	proc.Unwindexec(prog)
	panic("unreachable")
}

func (s *syscall_t) sys_wait(p *proc.Proc_t, cpid int) int {
	st, err := p.Mywait.Reap(cpid)
	if err != 0 {
		return -1
	}
	return st
}

func (s *syscall_t) sys_create(p *proc.Proc_t, namen, size int) int {
	name := s.userstr(p, namen)
	s.k.fslock.Lock()
	ok := s.k.thefs.Create(name, size)
	s.k.fslock.Unlock()
	if ok {
		return 1
	}
	return 0
}

func (s *syscall_t) sys_remove(p *proc.Proc_t, namen int) int {
	name := s.userstr(p, namen)
	s.k.fslock.Lock()
	ok := s.k.thefs.Remove(name)
	s.k.fslock.Unlock()
	if ok {
		return 1
	}
	return 0
}

func (s *syscall_t) sys_open(p *proc.Proc_t, namen int) int {
	name := s.userstr(p, namen)
	s.k.fslock.Lock()
	fops, ok := s.k.thefs.Open(name)
	s.k.fslock.Unlock()
	if !ok {
		return -1
	}
	fdn, ok := p.Fdt.Add(&fd.Fd_t{Fops: fops})
	if !ok {
		// table full; close the open so nothing leaks
		fops.Close()
		return -1
	}
	return fdn
}

func (s *syscall_t) sys_filesize(p *proc.Proc_t, fdn int) int {
	f, ok := p.Fdt.Get(fdn)
	if !ok {
		return -1
	}
	return f.Fops.Len()
}

func (s *syscall_t) sys_read(p *proc.Proc_t, fdn, bufn, sz int) int {
	if sz < 0 {
		return -1
	}
	if !p.As.Userok(bufn, sz) {
		s.kill(p)
	}
	if fdn == defs.FD_STDOUT {
		return -1
	}
	ub := p.As.Mkuserbuf(bufn, sz)
	if fdn == defs.FD_STDIN {
		ret, err := s.k.cons.Cons_read(ub)
		if err != 0 {
			s.kill(p)
		}
		return ret
	}
	f, ok := p.Fdt.Get(fdn)
	if !ok {
		return -1
	}
	ret, err := f.Fops.Read(ub)
	if err != 0 {
		s.kill(p)
	}
	return ret
}

func (s *syscall_t) sys_write(p *proc.Proc_t, fdn, bufn, sz int) int {
	if sz < 0 {
		return -1
	}
	if !p.As.Userok(bufn, sz) {
		s.kill(p)
	}
	if fdn == defs.FD_STDIN {
		return -1
	}
	ub := p.As.Mkuserbuf(bufn, sz)
	if fdn == defs.FD_STDOUT {
		ret, err := s.k.cons.Cons_write(ub)
		if err != 0 {
			s.kill(p)
		}
		return ret
	}
	f, ok := p.Fdt.Get(fdn)
	if !ok {
		return -1
	}
	ret, err := f.Fops.Write(ub)
	if err != 0 {
		s.kill(p)
	}
	return ret
}

func (s *syscall_t) sys_seek(p *proc.Proc_t, fdn, pos int) int {
	f, ok := p.Fdt.Get(fdn)
	if !ok {
		// console or unknown handle: no-op
		return 0
	}
	// the file refuses a negative position and keeps its offset; like the
	// console case, the caller learns nothing
	f.Fops.Lseek(pos)
	return 0
}

func (s *syscall_t) sys_tell(p *proc.Proc_t, fdn int) int {
	f, ok := p.Fdt.Get(fdn)
	if !ok {
		// deterministic sentinel for console or unknown handles
		return -1
	}
	ret, err := f.Fops.Tell()
	if err != 0 {
		return -1
	}
	return ret
}

func (s *syscall_t) Sys_close(p *proc.Proc_t, fdn int) int {
	f, ok := p.Fdt.Del(fdn)
	if !ok {
		return 0
	}
	s.k.fslock.Lock()
	f.Fops.Close()
	s.k.fslock.Unlock()
	return 0
}
