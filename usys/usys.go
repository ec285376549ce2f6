// Package usys is the user side of the boundary: the stubs a simulated user
// program calls. they place string and buffer arguments in the process's own
// user memory and marshal the call number and arguments into a trap frame,
// which is what the dispatcher contract accepts.
package usys

import "ukern/defs"
import "ukern/mem"
import "ukern/proc"

type U struct {
	p  *proc.Proc_t
	sc proc.Syscall_i
	// bump allocator over the image's mapped user pages
	brk int
}

func Mk(p *proc.Proc_t, sc proc.Syscall_i) *U {
	return &U{p: p, sc: sc, brk: mem.USERMIN}
}

// Syscall issues a raw request: call number plus up to six word arguments.
// tests use it directly to hand the dispatcher arbitrary addresses and call
// numbers.
func (u *U) Syscall(sysno int, args ...int) int {
	tf := &[defs.TFSIZE]int{}
	tf[defs.TF_RAX] = sysno
	slots := [...]int{defs.TF_RDI, defs.TF_RSI, defs.TF_RDX, defs.TF_R10, defs.TF_R8, defs.TF_R9}
	if len(args) > len(slots) {
		panic("too many args")
	}
	for i, a := range args {
		tf[slots[i]] = a
	}
	u.sc.Syscall(u.p, tf)
	return tf[defs.TF_RAX]
}

// Alloc reserves n bytes of user memory and returns its address.
func (u *U) Alloc(n int) int {
	uva := u.brk
	u.brk += n
	// keep arguments word aligned
	if r := u.brk % 8; r != 0 {
		u.brk += 8 - r
	}
	return uva
}

// Mkstr places s NUL-terminated in user memory.
func (u *U) Mkstr(s string) int {
	b := append([]uint8(s), 0)
	uva := u.Alloc(len(b))
	if err := u.p.As.K2user(b, uva); err != 0 {
		panic("mkstr")
	}
	return uva
}

// Mkbuf places b in user memory.
func (u *U) Mkbuf(b []uint8) int {
	uva := u.Alloc(len(b))
	if err := u.p.As.K2user(b, uva); err != 0 {
		panic("mkbuf")
	}
	return uva
}

// Readback copies n bytes of user memory at uva back out.
func (u *U) Readback(uva, n int) []uint8 {
	b := make([]uint8, n)
	if err := u.p.As.User2k(b, uva); err != 0 {
		panic("readback")
	}
	return b
}

func (u *U) Halt() {
	u.Syscall(defs.SYS_HALT)
}

func (u *U) Exit(status int) {
	u.Syscall(defs.SYS_EXIT, status)
}

func (u *U) Fork(name string) int {
	return u.Syscall(defs.SYS_FORK, u.Mkstr(name))
}

func (u *U) Exec(cmdline string) int {
	return u.Syscall(defs.SYS_EXEC, u.Mkstr(cmdline))
}

func (u *U) Wait(pid int) int {
	return u.Syscall(defs.SYS_WAIT, pid)
}

func (u *U) Create(name string, size int) bool {
	return u.Syscall(defs.SYS_CREATE, u.Mkstr(name), size) != 0
}

func (u *U) Remove(name string) bool {
	return u.Syscall(defs.SYS_REMOVE, u.Mkstr(name)) != 0
}

func (u *U) Open(name string) int {
	return u.Syscall(defs.SYS_OPEN, u.Mkstr(name))
}

func (u *U) Filesize(fdn int) int {
	return u.Syscall(defs.SYS_FILESIZE, fdn)
}

// Read reads up to len(b) bytes from fdn through a user buffer, copying
// what arrived back into b.
func (u *U) Read(fdn int, b []uint8) int {
	uva := u.Alloc(len(b))
	ret := u.Syscall(defs.SYS_READ, fdn, uva, len(b))
	if ret > 0 {
		copy(b, u.Readback(uva, ret))
	}
	return ret
}

// Write writes b to fdn from a user buffer.
func (u *U) Write(fdn int, b []uint8) int {
	return u.Syscall(defs.SYS_WRITE, fdn, u.Mkbuf(b), len(b))
}

func (u *U) Seek(fdn, pos int) {
	u.Syscall(defs.SYS_SEEK, fdn, pos)
}

func (u *U) Tell(fdn int) int {
	return u.Syscall(defs.SYS_TELL, fdn)
}

func (u *U) Close(fdn int) {
	u.Syscall(defs.SYS_CLOSE, fdn)
}
