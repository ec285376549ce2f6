package main

import (
	"flag"
	"fmt"
	"os"

	"ukern/kernel"
	"ukern/proc"
	"ukern/usys"
)

// a small workload exercising the whole call surface: the parent stages a
// file, forks a child that reads it back, then powers off.

func child(p *proc.Proc_t, sc proc.Syscall_i) {
	u := usys.Mk(p, sc)
	fdn := u.Open("greeting")
	if fdn < 0 {
		u.Exit(1)
	}
	buf := make([]uint8, u.Filesize(fdn))
	n := u.Read(fdn, buf)
	u.Close(fdn)
	u.Write(1, append([]uint8("child read: "), buf[:n]...))
	u.Write(1, []uint8("\n"))
	u.Exit(0)
}

var nchildren = flag.Int("children", 1, "children to fork")

func parent(p *proc.Proc_t, sc proc.Syscall_i) {
	u := usys.Mk(p, sc)
	if !u.Create("greeting", 32) {
		u.Exit(1)
	}
	fdn := u.Open("greeting")
	u.Write(fdn, []uint8("hello from the other side"))
	u.Close(fdn)

	for i := 0; i < *nchildren; i++ {
		cpid := u.Fork("child")
		if cpid < 0 {
			u.Exit(1)
		}
		st := u.Wait(cpid)
		u.Write(1, []uint8(fmt.Sprintf("parent: child %d exited with %d\n", cpid, st)))
	}
	u.Remove("greeting")
	u.Halt()
}

func main() {
	flag.Parse()

	k := kernel.Mkkernel()
	k.Register("parent", parent)
	k.Register("child", child)

	if _, ok := k.Spawn("parent"); !ok {
		fmt.Fprintln(os.Stderr, "spawn failed")
		os.Exit(1)
	}
	<-k.Halted()
}
