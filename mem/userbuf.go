package mem

import "ukern/defs"

// a helper object for reading/writing a user buffer-and-length pair. page
// lookups and the copies through them are atomic with respect to unmap.
type Userbuf_t struct {
	userva int
	len    int
	// 0 <= off <= len
	off int
	as  *As_t
}

func (ub *Userbuf_t) ub_init(as *As_t, uva, len int) {
	if len < 0 {
		panic("negative length")
	}
	ub.userva = uva
	ub.len = len
	ub.off = 0
	ub.as = as
}

func (as *As_t) Mkuserbuf(userva, len int) *Userbuf_t {
	ub := &Userbuf_t{}
	ub.ub_init(as, userva, len)
	return ub
}

func (ub *Userbuf_t) Remain() int {
	return ub.len - ub.off
}

func (ub *Userbuf_t) Totalsz() int {
	return ub.len
}

func (ub *Userbuf_t) Uioread(dst []uint8) (int, defs.Err_t) {
	ub.as.Lock()
	a, b := ub._tx(dst, false)
	ub.as.Unlock()
	return a, b
}

func (ub *Userbuf_t) Uiowrite(src []uint8) (int, defs.Err_t) {
	ub.as.Lock()
	a, b := ub._tx(src, true)
	ub.as.Unlock()
	return a, b
}

// copies the min of either the provided buffer or the bytes remaining in the
// user buffer. returns the count copied and error. on a mid-transfer fault
// the offset is left such that the operation could be restarted.
func (ub *Userbuf_t) _tx(buf []uint8, write bool) (int, defs.Err_t) {
	ret := 0
	for len(buf) != 0 && ub.off != ub.len {
		va := ub.userva + ub.off
		ubuf, err := ub.as.userdmap(va)
		if err != 0 {
			return ret, err
		}
		if left := ub.len - ub.off; len(ubuf) > left {
			ubuf = ubuf[:left]
		}
		var c int
		if write {
			c = copy(ubuf, buf)
		} else {
			c = copy(buf, ubuf)
		}
		buf = buf[c:]
		ub.off += c
		ret += c
	}
	return ret, 0
}

// kernel code can use a Fakeubuf_t as a Userio_i that is actually backed by
// a kernel buffer.
type Fakeubuf_t struct {
	fbuf []uint8
	len  int
}

func (fb *Fakeubuf_t) Fake_init(buf []uint8) {
	fb.fbuf = buf
	fb.len = len(fb.fbuf)
}

func (fb *Fakeubuf_t) Remain() int {
	return len(fb.fbuf)
}

func (fb *Fakeubuf_t) Totalsz() int {
	return fb.len
}

func (fb *Fakeubuf_t) _tx(buf []uint8, tofbuf bool) (int, defs.Err_t) {
	var c int
	if tofbuf {
		c = copy(fb.fbuf, buf)
	} else {
		c = copy(buf, fb.fbuf)
	}
	fb.fbuf = fb.fbuf[c:]
	return c, 0
}

func (fb *Fakeubuf_t) Uioread(dst []uint8) (int, defs.Err_t) {
	return fb._tx(dst, false)
}

func (fb *Fakeubuf_t) Uiowrite(src []uint8) (int, defs.Err_t) {
	return fb._tx(src, true)
}
