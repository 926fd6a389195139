package archive

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(b [BlockSize]byte, off, n int) string {
	return string(b[off : off+n])
}

func TestHeaderEncode_FieldOffsets(t *testing.T) {
	mtime := time.Unix(1700000000, 0)
	b, err := Header{Name: "dir0000001/jagexcache/code.dat", Size: 10, ModTime: mtime}.Encode()
	require.NoError(t, err)

	name := "dir0000001/jagexcache/code.dat"
	assert.Equal(t, name, field(b, 0, len(name)))
	assert.Equal(t, strings.Repeat("\x00", 100-len(name)), field(b, len(name), 100-len(name)))

	assert.Equal(t, "0000644\x00", field(b, 100, 8))
	assert.Equal(t, "0001750\x00", field(b, 108, 8))
	assert.Equal(t, "0001750\x00", field(b, 116, 8))
	assert.Equal(t, "00000000012\x00", field(b, 124, 12))
	assert.Equal(t, "14524770400\x00", field(b, 136, 12)) // 1700000000 in octal
	assert.Equal(t, byte('0'), b[156])
	assert.Equal(t, strings.Repeat("\x00", 100), field(b, 157, 100), "linkname")
	assert.Equal(t, "ustar\x00", field(b, 257, 6))
	assert.Equal(t, "00", field(b, 263, 2))
	assert.Equal(t, "user\x00", field(b, 265, 5))
	assert.Equal(t, "user\x00", field(b, 297, 5))
	assert.Equal(t, strings.Repeat("\x00", 155), field(b, 345, 155), "prefix")
	assert.Equal(t, strings.Repeat("\x00", 12), field(b, 500, 12), "padding")
}

func TestHeaderEncode_Checksum(t *testing.T) {
	b, err := Header{Name: "dir0000001/x/a.jag", Size: 12345, ModTime: time.Unix(42, 0)}.Encode()
	require.NoError(t, err)

	// 7 octal digits then NUL.
	raw := field(b, 148, 8)
	assert.Equal(t, byte(0), raw[7])
	got, err := strconv.ParseInt(raw[:7], 8, 64)
	require.NoError(t, err)

	var want int64
	for i, c := range b {
		if i >= 148 && i < 156 {
			c = ' '
		}
		want += int64(c)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, want, Checksum(b))
}

func TestHeaderEncode_ChecksumIgnoresStoredField(t *testing.T) {
	b, err := Header{Name: "a/b", Size: 1, ModTime: time.Unix(1, 0)}.Encode()
	require.NoError(t, err)

	before := Checksum(b)
	copy(b[148:156], "9999999\x00")
	assert.Equal(t, before, Checksum(b))
}

func TestHeaderEncode_ZeroSize(t *testing.T) {
	b, err := Header{Name: "a/b", ModTime: time.Unix(0, 0)}.Encode()
	require.NoError(t, err)
	assert.Equal(t, "00000000000\x00", field(b, 124, 12))
	assert.Equal(t, "00000000000\x00", field(b, 136, 12))
}

func TestHeaderEncode_NegativeMtimeClamped(t *testing.T) {
	b, err := Header{Name: "a/b", ModTime: time.Unix(-100, 0)}.Encode()
	require.NoError(t, err)
	assert.Equal(t, "00000000000\x00", field(b, 136, 12))
}

func TestHeaderEncode_TooLarge(t *testing.T) {
	_, err := Header{Name: "a/b", Size: maxOctal11 + 1}.Encode()
	require.ErrorIs(t, err, ErrFileTooLarge)

	b, err := Header{Name: "a/b", Size: maxOctal11}.Encode()
	require.NoError(t, err)
	assert.Equal(t, "77777777777\x00", field(b, 124, 12))
}

func TestHeaderEncode_EmptyName(t *testing.T) {
	_, err := Header{}.Encode()
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestSplitName(t *testing.T) {
	short := "dir0000001/folder/runescape/main_file_cache.dat2"
	prefix, name, err := splitName(short)
	require.NoError(t, err)
	assert.Empty(t, prefix)
	assert.Equal(t, short, name)

	exact := strings.Repeat("a", 100)
	prefix, name, err = splitName(exact)
	require.NoError(t, err)
	assert.Empty(t, prefix)
	assert.Equal(t, exact, name)

	dir := "dir0000002/" + strings.Repeat("p", 60) + "/" + strings.Repeat("n", 60)
	long := dir + "/code.dat"
	prefix, name, err = splitName(long)
	require.NoError(t, err)
	assert.Equal(t, dir, prefix)
	assert.Equal(t, "code.dat", name)
	assert.LessOrEqual(t, len(prefix), 155)
	assert.Equal(t, long, prefix+"/"+name)
}

func TestSplitName_TooLong(t *testing.T) {
	// Base name alone exceeds the name field.
	_, _, err := splitName("dir0000001/x/" + strings.Repeat("f", 101))
	require.ErrorIs(t, err, ErrNameTooLong)

	// Directory part exceeds the prefix field with no usable split.
	_, _, err = splitName(strings.Repeat("d", 200) + "/file")
	require.ErrorIs(t, err, ErrNameTooLong)
}

func TestHeaderEncode_LongNameUsesPrefix(t *testing.T) {
	dir := "dir0000003/" + strings.Repeat("p", 80) + "/" + strings.Repeat("n", 40)
	b, err := Header{Name: dir + "/worldmap.dat", Size: 1, ModTime: time.Unix(1, 0)}.Encode()
	require.NoError(t, err)

	assert.Equal(t, "worldmap.dat\x00", field(b, 0, 13))
	assert.Equal(t, dir, strings.TrimRight(field(b, 345, 155), "\x00"))
}
