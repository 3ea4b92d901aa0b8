package cdf

import (
	"fmt"

	"github.com/BioDeep/netcdf/netcdf/util"
)

// Header list tags.
const (
	fieldDimension = 0x0000000a
	fieldVariable  = 0x0000000b
	fieldAttribute = 0x0000000c
)

// On-the-wire type codes.
const (
	typeNone = iota // never stored in a file: only a sentinel value
	typeByte        // same as go int8
	typeChar        // same as go string when in an array
	typeShort
	typeInt
	typeFloat
	typeDouble
)

// typeSize returns the wire size in bytes of one element of the given type.
func typeSize(vType uint32) uint32 {
	switch vType {
	case typeByte, typeChar:
		return 1
	case typeShort:
		return 2
	case typeInt, typeFloat:
		return 4
	case typeDouble:
		return 8
	}
	throwInvalidType(vType)
	panic("never gets here")
}

// cdlTypeName returns the CDL name of the given type code.
func cdlTypeName(vType uint32) string {
	switch vType {
	case typeByte:
		return "byte"
	case typeChar:
		return "char"
	case typeShort:
		return "short"
	case typeInt:
		return "int"
	case typeFloat:
		return "float"
	case typeDouble:
		return "double"
	}
	throwInvalidType(vType)
	panic("never gets here")
}

// cdlTypeCode is the inverse of cdlTypeName. It returns typeNone when the
// name is not a CDL primitive.
func cdlTypeCode(name string) uint32 {
	switch name {
	case "byte":
		return typeByte
	case "char":
		return typeChar
	case "short":
		return typeShort
	case "int":
		return typeInt
	case "float":
		return typeFloat
	case "double":
		return typeDouble
	}
	return typeNone
}

// goTypeName returns the Go base type the given code decodes to.
func goTypeName(vType uint32) string {
	switch vType {
	case typeByte:
		return "int8"
	case typeChar:
		return "string"
	case typeShort:
		return "int16"
	case typeInt:
		return "int32"
	case typeFloat:
		return "float32"
	case typeDouble:
		return "float64"
	}
	throwInvalidType(vType)
	panic("never gets here")
}

func throwInvalidType(vType uint32) {
	fail(fmt.Sprint("unknown type: ", vType),
		fmt.Errorf("%w: %d", ErrInvalidType, vType))
}

// trimNul removes exactly one trailing NUL from a decoded CHAR string.
// Earlier NULs are kept verbatim.
func trimNul(s string) string {
	if n := len(s); n > 0 && s[n-1] == 0 {
		return s[:n-1]
	}
	return s
}

// readValues decodes n elements of the given type from the cursor. CHAR runs
// become a string with one trailing NUL trimmed; the numeric types become
// typed slices, collapsed to a scalar when n is 1.
func readValues(cur *util.Cursor, vType uint32, n uint32) interface{} {
	switch vType {
	case typeByte:
		b := cur.I8s(int64(n))
		if n == 1 {
			return b[0]
		}
		return b

	case typeChar:
		return trimNul(cur.Chars(int64(n)))

	case typeShort:
		sv := cur.I16s(int64(n))
		if n == 1 {
			return sv[0]
		}
		return sv

	case typeInt:
		iv := cur.I32s(int64(n))
		if n == 1 {
			return iv[0]
		}
		return iv

	case typeFloat:
		fv := cur.F32s(int64(n))
		if n == 1 {
			return fv[0]
		}
		return fv

	case typeDouble:
		dv := cur.F64s(int64(n))
		if n == 1 {
			return dv[0]
		}
		return dv
	}
	throwInvalidType(vType)
	panic("never gets here")
}

// pad4 skips to the next 4-byte boundary. Every variable-length header
// section (names, attribute payloads) is followed by zero bytes up to such a
// boundary; the pad bytes are not validated on read.
func pad4(cur *util.Cursor) {
	if r := cur.Offset() & 3; r != 0 {
		cur.Skip(4 - r)
	}
}
