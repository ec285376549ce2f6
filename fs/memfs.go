package fs

import "sync"

import "ukern/defs"
import "ukern/fdops"
import "ukern/ustr"

// Memfs_t is a flat in-memory file system implementing the metadata surface
// the dispatcher serializes under the systemwide filesystem lock. files have
// a fixed byte length chosen at create time; writes never grow a file.
// removing a file unlinks its name immediately, but open handles keep
// working until their last close.
type Memfs_t struct {
	sync.Mutex
	files map[string]*mfile_t
}

type mfile_t struct {
	sync.Mutex
	data  []uint8
	opens int
}

func MkMemfs() *Memfs_t {
	return &Memfs_t{files: make(map[string]*mfile_t)}
}

func (m *Memfs_t) Create(name ustr.Ustr, size int) bool {
	if len(name) == 0 || size < 0 {
		return false
	}
	m.Lock()
	defer m.Unlock()
	if _, ok := m.files[name.String()]; ok {
		return false
	}
	m.files[name.String()] = &mfile_t{data: make([]uint8, size)}
	return true
}

func (m *Memfs_t) Remove(name ustr.Ustr) bool {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.files[name.String()]; !ok {
		return false
	}
	// existing opens still reference the mfile_t; only the name dies
	delete(m.files, name.String())
	return true
}

func (m *Memfs_t) Open(name ustr.Ustr) (fdops.Fdops_i, bool) {
	m.Lock()
	defer m.Unlock()
	f, ok := m.files[name.String()]
	if !ok {
		return nil, false
	}
	f.Lock()
	f.opens++
	f.Unlock()
	return &fileops_t{file: f}, true
}

// fileops_t is one open of a file: the file position lives here, the bytes
// live in the shared mfile_t.
type fileops_t struct {
	sync.Mutex
	file *mfile_t
	off  int
}

func (fo *fileops_t) Read(dst fdops.Userio_i) (int, defs.Err_t) {
	fo.Lock()
	defer fo.Unlock()
	f := fo.file
	f.Lock()
	defer f.Unlock()
	if fo.off >= len(f.data) {
		return 0, 0
	}
	src := f.data[fo.off:]
	did, err := dst.Uiowrite(src)
	fo.off += did
	return did, err
}

func (fo *fileops_t) Write(src fdops.Userio_i) (int, defs.Err_t) {
	fo.Lock()
	defer fo.Unlock()
	f := fo.file
	f.Lock()
	defer f.Unlock()
	if fo.off >= len(f.data) {
		return 0, 0
	}
	did, err := src.Uioread(f.data[fo.off:])
	fo.off += did
	return did, err
}

func (fo *fileops_t) Lseek(off int) defs.Err_t {
	if off < 0 {
		return -defs.EINVAL
	}
	fo.Lock()
	fo.off = off
	fo.Unlock()
	return 0
}

func (fo *fileops_t) Tell() (int, defs.Err_t) {
	fo.Lock()
	defer fo.Unlock()
	return fo.off, 0
}

func (fo *fileops_t) Len() int {
	fo.file.Lock()
	defer fo.file.Unlock()
	return len(fo.file.data)
}

// Reopen duplicates this open for a forked child's descriptor table.
func (fo *fileops_t) Reopen() defs.Err_t {
	fo.file.Lock()
	fo.file.opens++
	fo.file.Unlock()
	return 0
}

func (fo *fileops_t) Close() defs.Err_t {
	f := fo.file
	f.Lock()
	defer f.Unlock()
	f.opens--
	if f.opens < 0 {
		panic("neg opens")
	}
	return 0
}
