package limits

type Syslimit_t struct {
	// max simultaneously open files per process
	Nofile int
	// a descriptor table saturates once its next handle reaches Fdmax;
	// handles are never reused, so this bounds the handles ever issued
	Fdmax int
	// systemwide process cap; fork fails once reached
	Sysprocs int
	// longest filename or program name the kernel will copy in
	Namemax int
}

var Syslimit *Syslimit_t = MkSysLimit()

func MkSysLimit() *Syslimit_t {
	return &Syslimit_t{
		Nofile:   128,
		Fdmax:    1 << 9,
		Sysprocs: 1 << 10,
		Namemax:  128,
	}
}
