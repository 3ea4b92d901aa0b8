package cdf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BioDeep/netcdf/netcdf/util"
)

func TestTypeSizes(t *testing.T) {
	sizes := map[uint32]uint32{
		typeByte:   1,
		typeChar:   1,
		typeShort:  2,
		typeInt:    4,
		typeFloat:  4,
		typeDouble: 8,
	}
	for code, want := range sizes {
		assert.Equal(t, want, typeSize(code))
	}
}

func TestTypeNames(t *testing.T) {
	names := map[uint32]string{
		typeByte:   "byte",
		typeChar:   "char",
		typeShort:  "short",
		typeInt:    "int",
		typeFloat:  "float",
		typeDouble: "double",
	}
	for code, want := range names {
		assert.Equal(t, want, cdlTypeName(code))
		assert.Equal(t, code, cdlTypeCode(want))
	}
	assert.Equal(t, uint32(typeNone), cdlTypeCode("compound"))
}

func TestGoTypeNames(t *testing.T) {
	names := map[uint32]string{
		typeByte:   "int8",
		typeChar:   "string",
		typeShort:  "int16",
		typeInt:    "int32",
		typeFloat:  "float32",
		typeDouble: "float64",
	}
	for code, want := range names {
		assert.Equal(t, want, goTypeName(code))
	}
}

func TestInvalidTypeThrows(t *testing.T) {
	for _, code := range []uint32{0, 7, 0xffffffff} {
		err := catch(func() { typeSize(code) })
		require.ErrorIs(t, err, ErrInvalidType, "code %d", code)
		err = catch(func() { cdlTypeName(code) })
		require.ErrorIs(t, err, ErrInvalidType)
		err = catch(func() { goTypeName(code) })
		require.ErrorIs(t, err, ErrInvalidType)
	}
}

func TestTrimNul(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"hi":        "hi",
		"hi\x00":    "hi",
		"hi\x00\x00": "hi\x00",
		"h\x00i":    "h\x00i",
		"\x00":      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, trimNul(in))
	}
}

func TestReadValues(t *testing.T) {
	cur := func(b ...byte) *util.Cursor {
		return util.NewCursor(b, binary.BigEndian)
	}

	// single-element numeric payloads collapse to scalars
	assert.Equal(t, int16(1), readValues(cur(0, 1), typeShort, 1))
	assert.Equal(t, []int16{1, 2}, readValues(cur(0, 1, 0, 2), typeShort, 2))
	assert.Equal(t, int8(-1), readValues(cur(0xff), typeByte, 1))
	assert.Equal(t, []int8{-1, 1}, readValues(cur(0xff, 1), typeByte, 2))
	assert.Equal(t, int32(3), readValues(cur(0, 0, 0, 3), typeInt, 1))
	assert.Equal(t, float32(1.5), readValues(cur(0x3f, 0xc0, 0, 0), typeFloat, 1))
	assert.Equal(t, 2.5, readValues(cur(0x40, 0x04, 0, 0, 0, 0, 0, 0), typeDouble, 1))

	// char runs decode to a string with one trailing NUL trimmed
	assert.Equal(t, "hi", readValues(cur('h', 'i', 0), typeChar, 3))
	assert.Equal(t, "h", readValues(cur('h'), typeChar, 1))
	assert.Equal(t, "", readValues(cur(0), typeChar, 1))

	err := catch(func() { readValues(cur(), typeNone, 1) })
	require.ErrorIs(t, err, ErrInvalidType)
	err = catch(func() { readValues(cur(0), typeShort, 1) })
	require.ErrorIs(t, err, ErrTruncated)
}

func TestPad4(t *testing.T) {
	c := util.NewCursor(make([]byte, 8), binary.BigEndian)
	pad4(c)
	assert.Equal(t, int64(0), c.Offset())
	c.Skip(1)
	pad4(c)
	assert.Equal(t, int64(4), c.Offset())
	c.Skip(3)
	pad4(c)
	assert.Equal(t, int64(8), c.Offset())
}

// The framing invariant: reading a name of byte length L advances the
// cursor by 4 + L + pad(L).
func TestNameAdvance(t *testing.T) {
	for _, nm := range []string{"x", "ab", "abc", "abcd", "abcde"} {
		fb := &fileBuilder{}
		fb.name(nm)
		fb.u32(0xdeadbeef) // following field
		c := util.NewCursor(fb.bytes(), binary.BigEndian)
		nc := &CDF{version: 1}
		got := nc.readName(c)
		assert.Equal(t, nm, got)
		pad := (4 - len(nm)%4) % 4
		assert.Equal(t, int64(4+len(nm)+pad), c.Offset())
		assert.Equal(t, uint32(0xdeadbeef), c.U32())
	}
}
