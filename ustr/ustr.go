package ustr

// Ustr is a byte string copied in from user memory. kernel paths use it for
// filenames and program names so that no intermediate string conversions
// happen on hot paths.
type Ustr []uint8

func (us Ustr) Eq(s Ustr) bool {
	if len(us) != len(s) {
		return false
	}
	for i, v := range us {
		if v != s[i] {
			return false
		}
	}
	return true
}

func MkUstr() Ustr {
	us := Ustr{}
	return us
}

// MkUstrSlice truncates buf at its first NUL byte.
func MkUstrSlice(buf []uint8) Ustr {
	for i := 0; i < len(buf); i++ {
		if buf[i] == uint8(0) {
			return buf[:i]
		}
	}
	return buf
}

func (us Ustr) IndexByte(b uint8) int {
	for i, v := range us {
		if v == b {
			return i
		}
	}
	return -1
}

// Firstfield returns the leading token of a command line, up to the first
// space, the way a loader picks the program name out of "prog arg1 arg2".
func (us Ustr) Firstfield() Ustr {
	if i := us.IndexByte(' '); i != -1 {
		return us[:i]
	}
	return us
}

func (us Ustr) String() string {
	return string(us)
}
