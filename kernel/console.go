package kernel

import "bufio"
import "io"
import "sync"

import "ukern/defs"
import "ukern/fdops"

// console_t backs the two reserved handles: 0 reads from in, 1 writes to
// out. termination records also land on out.
type console_t struct {
	sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func mkconsole(in io.Reader, out io.Writer) *console_t {
	return &console_t{in: bufio.NewReader(in), out: out}
}

// Cons_read fills ub one byte at a time until the buffer is exhausted or a
// NUL byte is produced. the NUL is stored but not counted. input
// availability may block indefinitely; there is no timeout.
func (c *console_t) Cons_read(ub fdops.Userio_i) (int, defs.Err_t) {
	c.Lock()
	defer c.Unlock()
	did := 0
	for ub.Remain() > 0 {
		b, err := c.in.ReadByte()
		if err != nil {
			// input source closed; terminate the string
			b = 0
		}
		if _, uerr := ub.Uiowrite([]uint8{b}); uerr != 0 {
			return did, uerr
		}
		if b == 0 {
			break
		}
		did++
	}
	return did, 0
}

// Cons_write merges the user buffer into one kernel buffer so the console
// lock is taken once, then writes it out. console writes always succeed
// with the full length.
func (c *console_t) Cons_write(src fdops.Userio_i) (int, defs.Err_t) {
	big := make([]uint8, src.Totalsz())
	read, err := src.Uioread(big)
	if err != 0 {
		return 0, err
	}
	if read != src.Totalsz() {
		panic("short read")
	}
	c.Lock()
	c.out.Write(big)
	c.Unlock()
	return len(big), 0
}
