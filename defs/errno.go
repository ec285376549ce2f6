package defs

// kernel-internal error values. these never reach user code: the dispatcher
// maps every ordinary failure to the in-band sentinel (-1 or false) before
// writing the result word back.
const (
	EBADF        Err_t = 9
	ECHILD       Err_t = 10
	ENOMEM       Err_t = 12
	EFAULT       Err_t = 14
	EINVAL       Err_t = 22
	EMFILE       Err_t = 24
	ESPIPE       Err_t = 29
	ENAMETOOLONG Err_t = 36
	ENOSYS       Err_t = 38
	ENOENT       Err_t = 2
)

type Err_t int
