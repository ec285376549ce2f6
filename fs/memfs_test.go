package fs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ukern/defs"
	"ukern/mem"
	"ukern/ustr"
)

func kbuf(b []uint8) *mem.Fakeubuf_t {
	fb := &mem.Fakeubuf_t{}
	fb.Fake_init(b)
	return fb
}

func TestCreateOpenRemove(t *testing.T) {
	m := MkMemfs()

	require.True(t, m.Create(ustr.Ustr("notes"), 16))
	// a name exists exactly once
	require.False(t, m.Create(ustr.Ustr("notes"), 16))
	require.False(t, m.Create(ustr.MkUstr(), 16))
	require.False(t, m.Create(ustr.Ustr("bad"), -1))

	fops, ok := m.Open(ustr.Ustr("notes"))
	require.True(t, ok)
	require.Equal(t, 16, fops.Len())
	require.Equal(t, defs.Err_t(0), fops.Close())

	require.True(t, m.Remove(ustr.Ustr("notes")))
	require.False(t, m.Remove(ustr.Ustr("notes")))
	_, ok = m.Open(ustr.Ustr("notes"))
	require.False(t, ok)
}

func TestOpenMissing(t *testing.T) {
	m := MkMemfs()
	_, ok := m.Open(ustr.Ustr("nope"))
	require.False(t, ok)
}

func TestReadWriteSeekTell(t *testing.T) {
	m := MkMemfs()
	require.True(t, m.Create(ustr.Ustr("f"), 8))
	fops, ok := m.Open(ustr.Ustr("f"))
	require.True(t, ok)

	n, err := fops.Write(kbuf([]uint8("abcd")))
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 4, n)
	pos, err := fops.Tell()
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 4, pos)

	require.Equal(t, defs.Err_t(0), fops.Lseek(0))
	dst := make([]uint8, 4)
	n, err = fops.Read(kbuf(dst))
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 4, n)
	require.Equal(t, "abcd", string(dst))

	require.Equal(t, -defs.EINVAL, fops.Lseek(-1))
}

func TestWriteNeverGrows(t *testing.T) {
	m := MkMemfs()
	require.True(t, m.Create(ustr.Ustr("fixed"), 4))
	fops, _ := m.Open(ustr.Ustr("fixed"))

	n, err := fops.Write(kbuf([]uint8("abcdefgh")))
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 4, n)
	require.Equal(t, 4, fops.Len())

	// at the end writes do nothing, they do not extend
	n, err = fops.Write(kbuf([]uint8("more")))
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 0, n)

	// reads past the end return nothing
	fops.Lseek(100)
	n, err = fops.Read(kbuf(make([]uint8, 4)))
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 0, n)
}

func TestIndependentPositions(t *testing.T) {
	m := MkMemfs()
	require.True(t, m.Create(ustr.Ustr("shared"), 8))
	a, _ := m.Open(ustr.Ustr("shared"))
	b, _ := m.Open(ustr.Ustr("shared"))

	a.Write(kbuf([]uint8("12345678")))

	// b's position is untouched by a's write
	pos, _ := b.Tell()
	require.Equal(t, 0, pos)
	dst := make([]uint8, 8)
	n, _ := b.Read(kbuf(dst))
	require.Equal(t, 8, n)
	require.Equal(t, "12345678", string(dst))
}

func TestRemoveWhileOpen(t *testing.T) {
	m := MkMemfs()
	require.True(t, m.Create(ustr.Ustr("ghost"), 8))
	fops, _ := m.Open(ustr.Ustr("ghost"))
	fops.Write(kbuf([]uint8("linger")))

	require.True(t, m.Remove(ustr.Ustr("ghost")))

	// the open handle still reads the bytes; only the name is gone
	fops.Lseek(0)
	dst := make([]uint8, 6)
	n, err := fops.Read(kbuf(dst))
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 6, n)
	require.Equal(t, "linger", string(dst))

	// the name can be created anew; the old handle still sees the old file
	require.True(t, m.Create(ustr.Ustr("ghost"), 4))
	require.Equal(t, 8, fops.Len())
	fops.Close()
}

func TestReopenCounts(t *testing.T) {
	m := MkMemfs()
	require.True(t, m.Create(ustr.Ustr("rc"), 1))
	fops, _ := m.Open(ustr.Ustr("rc"))
	require.Equal(t, defs.Err_t(0), fops.Reopen())
	require.Equal(t, defs.Err_t(0), fops.Close())
	require.Equal(t, defs.Err_t(0), fops.Close())
}
