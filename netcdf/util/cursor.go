package util

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/batchatco/go-thrower"
)

// ErrTruncated is thrown when a read would pass the end of the byte image.
var ErrTruncated = errors.New("unexpected end of data")

// Cursor is a random-access view over an immutable byte image. It keeps a
// current offset; every typed read advances the offset by the read width and
// throws ErrTruncated if the read would pass the end of the image. The byte
// order must be chosen at construction (NetCDF classic files are big-endian).
//
// A Cursor is not safe for concurrent use, but Clone returns an independent
// cursor over the same image, which is never written to.
type Cursor struct {
	order binary.ByteOrder
	data  []byte
	off   int64
}

// NewCursor returns a cursor positioned at offset 0.
func NewCursor(data []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{order: order, data: data}
}

// Clone returns an independent cursor over the same image, at the same offset.
func (c *Cursor) Clone() *Cursor {
	clone := *c
	return &clone
}

// Offset returns the current offset.
func (c *Cursor) Offset() int64 {
	return c.off
}

// Size returns the total length of the byte image.
func (c *Cursor) Size() int64 {
	return int64(len(c.data))
}

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(off int64) {
	if off < 0 || off > int64(len(c.data)) {
		thrower.Throw(ErrTruncated)
	}
	c.off = off
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int64) {
	c.Seek(c.off + n)
}

// require throws unless n more bytes are available at the current offset.
func (c *Cursor) require(n int64) {
	if n < 0 || c.off+n > int64(len(c.data)) {
		thrower.Throw(ErrTruncated)
	}
}

// U8 reads one byte.
func (c *Cursor) U8() byte {
	c.require(1)
	b := c.data[c.off]
	c.off++
	return b
}

// U32 reads an unsigned 32-bit integer.
func (c *Cursor) U32() uint32 {
	c.require(4)
	v := c.order.Uint32(c.data[c.off:])
	c.off += 4
	return v
}

// I16 reads a signed 16-bit integer.
func (c *Cursor) I16() int16 {
	c.require(2)
	v := int16(c.order.Uint16(c.data[c.off:]))
	c.off += 2
	return v
}

// I32 reads a signed 32-bit integer.
func (c *Cursor) I32() int32 {
	return int32(c.U32())
}

// F32 reads an IEEE-754 single-precision float.
func (c *Cursor) F32() float32 {
	return math.Float32frombits(c.U32())
}

// F64 reads an IEEE-754 double-precision float.
func (c *Cursor) F64() float64 {
	c.require(8)
	v := math.Float64frombits(c.order.Uint64(c.data[c.off:]))
	c.off += 8
	return v
}

// Bytes reads n raw bytes into a fresh slice owned by the caller.
func (c *Cursor) Bytes(n int64) []byte {
	c.require(n)
	b := make([]byte, n)
	copy(b, c.data[c.off:])
	c.off += n
	return b
}

// Chars reads n bytes as an ASCII string.
func (c *Cursor) Chars(n int64) string {
	c.require(n)
	s := string(c.data[c.off : c.off+n])
	c.off += n
	return s
}

// I8s reads n signed bytes.
func (c *Cursor) I8s(n int64) []int8 {
	c.require(n)
	v := make([]int8, n)
	for i := range v {
		v[i] = int8(c.data[c.off+int64(i)])
	}
	c.off += n
	return v
}

// I16s reads n signed 16-bit integers.
func (c *Cursor) I16s(n int64) []int16 {
	c.require(2 * n)
	v := make([]int16, n)
	for i := range v {
		v[i] = int16(c.order.Uint16(c.data[c.off+2*int64(i):]))
	}
	c.off += 2 * n
	return v
}

// I32s reads n signed 32-bit integers.
func (c *Cursor) I32s(n int64) []int32 {
	c.require(4 * n)
	v := make([]int32, n)
	for i := range v {
		v[i] = int32(c.order.Uint32(c.data[c.off+4*int64(i):]))
	}
	c.off += 4 * n
	return v
}

// F32s reads n single-precision floats.
func (c *Cursor) F32s(n int64) []float32 {
	c.require(4 * n)
	v := make([]float32, n)
	for i := range v {
		v[i] = math.Float32frombits(c.order.Uint32(c.data[c.off+4*int64(i):]))
	}
	c.off += 4 * n
	return v
}

// F64s reads n double-precision floats.
func (c *Cursor) F64s(n int64) []float64 {
	c.require(8 * n)
	v := make([]float64, n)
	for i := range v {
		v[i] = math.Float64frombits(c.order.Uint64(c.data[c.off+8*int64(i):]))
	}
	c.off += 8 * n
	return v
}
