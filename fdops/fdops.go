package fdops

import "ukern/defs"
import "ukern/ustr"

// interface for reading/writing user space memory via a pointer and length
// pair certified by the address validator.
type Userio_i interface {
	// copy src to user memory
	Uiowrite(src []uint8) (int, defs.Err_t)
	// copy user memory to dst
	Uioread(dst []uint8) (int, defs.Err_t)
	// the number of unwritten/unread bytes remaining
	Remain() int
	// the total buffer size
	Totalsz() int
}

// Fdops_i is the per-file surface the file system hands back from open. the
// dispatcher delegates to it verbatim; position tracking lives behind it.
type Fdops_i interface {
	Read(Userio_i) (int, defs.Err_t)
	Write(Userio_i) (int, defs.Err_t)
	// set the file position to an absolute byte offset
	Lseek(off int) defs.Err_t
	// current byte position
	Tell() (int, defs.Err_t)
	// byte length of the underlying file
	Len() int
	// duplicate this open file, for descriptor table copies across fork
	Reopen() defs.Err_t
	Close() defs.Err_t
}

// Fsops_i is the file-system collaborator: the three metadata operations the
// dispatcher serializes under the systemwide filesystem lock.
type Fsops_i interface {
	Create(name ustr.Ustr, size int) bool
	Remove(name ustr.Ustr) bool
	Open(name ustr.Ustr) (Fdops_i, bool)
}
