package proc

import "ukern/defs"

// Syscall_i is the boundary the process hands its user programs: one
// dispatch per trapped request. Sys_exit and Sys_close are exposed
// separately so kernel paths outside the dispatcher can reuse them.
type Syscall_i interface {
	Syscall(p *Proc_t, tf *[defs.TFSIZE]int) int
	Sys_close(p *Proc_t, fdn int) int
	// never returns
	Sys_exit(p *Proc_t, status int)
}
