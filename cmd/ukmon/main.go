// ukmon boots the simulated kernel with a churning workload and shows the
// live process table in an interactive terminal view.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"ukern/kernel"
	"ukern/proc"
	"ukern/usys"
)

var interval = flag.Duration("interval", 500*time.Millisecond, "refresh interval")
var workers = flag.Int("workers", 3, "concurrent worker processes")

func worker(p *proc.Proc_t, sc proc.Syscall_i) {
	u := usys.Mk(p, sc)
	name := fmt.Sprintf("scratch-%d", p.Pid)
	if !u.Create(name, 64) {
		u.Exit(1)
	}
	fdn := u.Open(name)
	for i := 0; i < 8; i++ {
		u.Seek(fdn, 0)
		u.Write(fdn, []uint8("spinning"))
		time.Sleep(100 * time.Millisecond)
	}
	u.Close(fdn)
	u.Remove(name)
	u.Exit(0)
}

func driver(p *proc.Proc_t, sc proc.Syscall_i) {
	u := usys.Mk(p, sc)
	for {
		pids := make([]int, 0, *workers)
		for i := 0; i < *workers; i++ {
			if cpid := u.Fork("worker"); cpid > 0 {
				pids = append(pids, cpid)
			}
		}
		for _, cpid := range pids {
			u.Wait(cpid)
		}
	}
}

func main() {
	flag.Parse()

	// the workload's console output would fight the terminal view
	k := kernel.Mkkernel(kernel.WithConsole(os.Stdin, io.Discard))
	k.Register("driver", driver)
	k.Register("worker", worker)
	if _, ok := k.Spawn("driver"); !ok {
		fmt.Fprintln(os.Stderr, "spawn failed")
		os.Exit(1)
	}

	if err := run(k); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
