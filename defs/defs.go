package defs

// the closed set of calls a user program may request. anything outside this
// enumeration is itself a fault.
const (
	SYS_HALT = iota
	SYS_EXIT
	SYS_FORK
	SYS_EXEC
	SYS_WAIT
	SYS_CREATE
	SYS_REMOVE
	SYS_OPEN
	SYS_FILESIZE
	SYS_READ
	SYS_WRITE
	SYS_SEEK
	SYS_TELL
	SYS_CLOSE
	SYS_MAX
)

// trap frame layout. the trap entry hands the dispatcher a decoded request:
// call number in TF_RAX, up to six word arguments in the argument slots. the
// single result word is written back to TF_RAX.
const (
	TF_RAX = iota
	TF_RDI
	TF_RSI
	TF_RDX
	TF_R10
	TF_R8
	TF_R9
	TFSIZE
)

// reserved handles. never present in a descriptor table.
const (
	FD_STDIN  = 0
	FD_STDOUT = 1
	// first handle a descriptor table may issue
	FD_FIRST = 2
)

// exit status of a process that never exited cleanly
const STATUS_KILLED = -1

type Pid_t int
