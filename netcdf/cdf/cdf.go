// Package cdf decodes the NetCDF classic binary formats: v1 (classic) and
// v2 (64-bit offset). The decoder works over a byte image already resident
// in memory; file and network retrieval belong to the caller.
package cdf

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/batchatco/go-thrower"

	"github.com/BioDeep/netcdf/internal"
	"github.com/BioDeep/netcdf/netcdf/api"
	"github.com/BioDeep/netcdf/netcdf/util"
)

const (
	maxDimensions = 1024
	ncpKey        = "_NCProperties"

	// streamingSize in a variable's vsize field means the true size
	// exceeds 32 bits. It is recorded verbatim and never resolved.
	streamingSize = 0xffffffff
)

var (
	// ErrNotNetCDF is wrapped with a short reason describing what made the
	// input unreadable as a classic file.
	ErrNotNetCDF = errors.New("Not a valid NetCDF v3.x file")
	// ErrInvalidType is wrapped with the offending type code.
	ErrInvalidType = errors.New("invalid NetCDF type")
	// ErrTruncated means a read passed the end of the byte image.
	ErrTruncated = util.ErrTruncated
	// ErrNotFound is wrapped with the requested variable name.
	ErrNotFound = errors.New("variable not found")
	// ErrEmptyInput means the constructor was given no data.
	ErrEmptyInput = errors.New("empty input")
)

var (
	logger = internal.NewLogger()
)

// Dimension is one entry of the header's dimension list. A declared length
// of zero marks the record (unlimited) dimension; its true length lives in
// RecordDimension.Length.
type Dimension struct {
	Name   string
	Length uint32
}

// Variable is one entry of the header's variable list. Size is the wire
// size in bytes of one record's worth of the variable, including internal
// padding to a 4-byte boundary; for fixed variables it covers all the data.
// Offset is the absolute byte offset of the variable's first byte.
type Variable struct {
	Name     string
	DimIDs   []uint32
	Attrs    *util.OrderedMap
	Type     uint32
	Size     uint32
	Offset   int64
	IsRecord bool
}

// RecordDimension describes the unlimited dimension, if any. ID is the
// index of the unlimited dimension in the dimension list, or -1 when the
// file has none. Step is the stride in bytes between successive records of
// any record variable: the sum of Size over all record variables.
type RecordDimension struct {
	Length uint32
	ID     int
	Name   string
	Step   uint32
}

// CDF is a read-only decoder for one classic-format byte image. The header
// is parsed once at construction and is immutable afterwards; variable data
// is decoded on demand on a cloned cursor, so a CDF may be used from
// multiple goroutines concurrently. The byte image is borrowed read-only
// for the lifetime of the decoder.
type CDF struct {
	version     uint8
	recDim      RecordDimension
	dimensions  []Dimension
	globalAttrs *util.OrderedMap
	vars        []Variable
	cursor      *util.Cursor
}

// SetLogLevel sets the logging level to the given level, and returns
// the old level. This is for internal debugging use. The log messages
// are not expected to make much sense to anyone but the developers.
// The lowest level is 0 (no error logs at all) and the highest level is
// 3 (errors, warnings and debug messages).
func SetLogLevel(level int) int {
	old := logger.LogLevel()
	switch level {
	case 0:
		logger.SetLogLevel(internal.LevelFatal)
	case 1:
		logger.SetLogLevel(internal.LevelError)
	case 2:
		logger.SetLogLevel(internal.LevelWarn)
	default:
		logger.SetLogLevel(internal.LevelInfo)
	}
	return int(old)
}

func fail(message string, err error) {
	logger.Error(message)
	thrower.Throw(err)
}

func checkInvariant(condition bool, message string, err error) {
	if condition {
		return
	}
	fail(message, err)
}

func notNetCDF(reason string) error {
	return fmt.Errorf("%w: %s", ErrNotNetCDF, reason)
}

// New constructs a decoder over a NetCDF classic byte image and parses its
// header.
func New(data []byte) (c *CDF, err error) {
	defer thrower.RecoverError(&err)
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	c = &CDF{cursor: util.NewCursor(data, binary.BigEndian)}
	if err := c.readHeader(); err != nil {
		return nil, err
	}
	return c, nil
}

func (cdf *CDF) readName(cur *util.Cursor) string {
	nameLen := cur.U32()
	b := cur.Bytes(int64(nameLen))
	pad4(cur)
	name := string(b)
	for i := range b {
		if b[i] == 0 {
			logger.Warnf("null found in name %q at %d, version %d",
				name, i, cdf.version)
			break
		}
	}
	if !internal.IsValidNetCDFName(name) {
		logger.Infof("nonstandard name %q", name)
	}
	return name
}

// getNElems reads the (tag, count) framing shared by the three header
// lists. An absent list is encoded as tag 0 with count 0 and occupies the
// same 8 bytes as a present-but-empty list.
func (cdf *CDF) getNElems(cur *util.Cursor, expectedField uint32, what string) uint32 {
	fieldType := cur.U32()
	nElems := cur.U32()
	switch fieldType {
	case 0:
		checkInvariant(nElems == 0,
			fmt.Sprint("elems with absent field, expected: ", expectedField, " ", nElems),
			notNetCDF("wrong empty tag for list of "+what))
	case expectedField:
		break
	default:
		fail(fmt.Sprint("unexpected field: ", fieldType),
			notNetCDF("wrong tag for list of "+what))
	}
	return nElems
}

func (cdf *CDF) getDim(cur *util.Cursor) Dimension {
	name := cdf.readName(cur)
	dimLength := cur.U32()
	return Dimension{name, dimLength}
}

func (cdf *CDF) getAttr(cur *util.Cursor) (string, interface{}) {
	name := cdf.readName(cur)
	vType := cur.U32()
	if vType < typeByte || vType > typeDouble {
		throwInvalidType(vType)
	}
	nElems := cur.U32()
	values := readValues(cur, vType, nElems)
	pad4(cur)
	return name, values
}

func (cdf *CDF) getAttrList(cur *util.Cursor, what string) *util.OrderedMap {
	nElems := cdf.getNElems(cur, fieldAttribute, what)
	attrs := make(map[string]interface{})
	keys := make([]string, 0)
	for i := uint32(0); i < nElems; i++ {
		name, val := cdf.getAttr(cur)
		if _, has := attrs[name]; has {
			// ill-formed input; the first occurrence wins
			logger.Warnf("duplicate attribute %q", name)
			continue
		}
		keys = append(keys, name)
		attrs[name] = val
	}
	om, err := util.NewOrderedMap(keys, attrs)
	thrower.ThrowIfError(err)
	return om
}

func (cdf *CDF) getVar(cur *util.Cursor) Variable {
	name := cdf.readName(cur)
	nDims := cur.U32()
	checkInvariant(nDims <= maxDimensions,
		"too many dimensions",
		notNetCDF("too many dimensions"))
	dimids := make([]uint32, nDims)
	for i := uint32(0); i < nDims; i++ {
		dimids[i] = cur.U32()
		checkInvariant(dimids[i] < uint32(len(cdf.dimensions)),
			fmt.Sprint(name, " dimid out of range: ", dimids[i]),
			notNetCDF("dimension id out of range"))
		checkInvariant(i == 0 || cdf.dimensions[dimids[i]].Length != 0,
			"unlimited dimension must be first",
			notNetCDF("unlimited dimension must be first"))
	}
	attrs := cdf.getAttrList(cur, "attributes")
	vType := cur.U32()
	if vType < typeByte || vType > typeDouble {
		throwInvalidType(vType)
	}
	vsize := cur.U32()
	if vsize == streamingSize {
		logger.Warnf("variable %s has the streaming size sentinel; its size is unknown", name)
	}
	var offset int64
	switch cdf.version {
	case 1:
		offset = int64(cur.U32())
	case 2:
		high := cur.U32()
		low := cur.U32()
		checkInvariant(high == 0,
			fmt.Sprint(name, " offset high word: ", high),
			notNetCDF("offsets larger than 4GB not supported"))
		offset = int64(low)
	}
	isRecord := nDims > 0 && cdf.recDim.ID >= 0 && dimids[0] == uint32(cdf.recDim.ID)
	return Variable{name, dimids, attrs, vType, vsize, offset, isRecord}
}

func (cdf *CDF) readHeader() (err error) {
	defer thrower.RecoverError(&err)
	cur := cdf.cursor

	// magic
	magic := cur.Chars(3)
	if magic != "CDF" {
		logger.Infof("not cdf: %q", magic)
		thrower.Throw(notNetCDF("should start with CDF"))
	}
	version := cur.U8()
	if version < 1 || version > 2 {
		fail(fmt.Sprint("unknown version: ", version),
			notNetCDF("unknown version"))
	}
	cdf.version = version

	// numrecs
	numRecs := cur.U32()
	checkInvariant(numRecs != streamingSize,
		"streaming record counts not supported",
		notNetCDF("streaming record counts not supported"))
	cdf.recDim = RecordDimension{Length: numRecs, ID: -1}

	// dim_list
	nDims := cdf.getNElems(cur, fieldDimension, "dimensions")
	checkInvariant(nDims <= maxDimensions,
		"too many dimensions",
		notNetCDF("too many dimensions"))
	if nDims > 0 {
		cdf.dimensions = make([]Dimension, nDims)
		for i := uint32(0); i < nDims; i++ {
			d := cdf.getDim(cur)
			if d.Length == 0 {
				checkInvariant(cdf.recDim.ID < 0,
					"more than one unlimited dimension",
					notNetCDF("more than one unlimited dimension"))
				cdf.recDim.ID = int(i)
				cdf.recDim.Name = d.Name
			}
			cdf.dimensions[i] = d
		}
	}

	// gatt_list
	cdf.globalAttrs = cdf.getAttrList(cur, "global attributes")
	cdf.globalAttrs.Hide(ncpKey)

	// var_list
	nVars := cdf.getNElems(cur, fieldVariable, "variables")
	cdf.vars = make([]Variable, 0, nVars)
	for i := uint32(0); i < nVars; i++ {
		v := cdf.getVar(cur)
		if v.IsRecord {
			cdf.recDim.Step += v.Size
		}
		cdf.vars = append(cdf.vars, v)
	}
	return nil
}

// Version returns the raw version byte: 1 or 2.
func (cdf *CDF) Version() uint8 {
	return cdf.version
}

// VersionLabel returns the conventional name of the file layout.
func (cdf *CDF) VersionLabel() string {
	if cdf.version == 1 {
		return "classic format"
	}
	return "64-bit offset format"
}

// Dimensions returns the dimension list in header order.
func (cdf *CDF) Dimensions() []Dimension {
	return cdf.dimensions
}

// ListDimensions lists the names of the dimensions.
func (cdf *CDF) ListDimensions() []string {
	var ret []string
	for _, d := range cdf.dimensions {
		ret = append(ret, d.Name)
	}
	return ret
}

// GetDimension returns the declared length of the named dimension. The
// record dimension reports zero; its true length is RecordDimension().Length.
func (cdf *CDF) GetDimension(name string) (uint32, bool) {
	for _, d := range cdf.dimensions {
		if d.Name == name {
			return d.Length, true
		}
	}
	return 0, false
}

// GlobalAttributes returns the file's global attributes.
func (cdf *CDF) GlobalAttributes() api.AttributeMap {
	return cdf.globalAttrs
}

// GetAttribute returns the value of the named global attribute, or false
// when no such attribute exists. Lookup is by byte equality; the first
// match in header order wins.
func (cdf *CDF) GetAttribute(name string) (interface{}, bool) {
	return cdf.globalAttrs.Get(name)
}

// AttributeExists reports whether a global attribute with the given name
// was present in the header.
func (cdf *CDF) AttributeExists(name string) bool {
	_, has := cdf.globalAttrs.Get(name)
	return has
}

// Variables returns the variable list in header order.
func (cdf *CDF) Variables() []Variable {
	return cdf.vars
}

// ListVariables lists the variable names in header order.
func (cdf *CDF) ListVariables() []string {
	var ret []string
	for _, v := range cdf.vars {
		ret = append(ret, v.Name)
	}
	return ret
}

// RecordDimension describes the unlimited dimension, if the file has one.
func (cdf *CDF) RecordDimension() RecordDimension {
	return cdf.recDim
}

// findVar scans the variable list in header order; the first match wins.
func (cdf *CDF) findVar(name string) *Variable {
	for i := range cdf.vars {
		if cdf.vars[i].Name == name {
			return &cdf.vars[i]
		}
	}
	return nil
}

// VariableExists reports whether a variable with the given name was present
// in the header.
func (cdf *CDF) VariableExists(name string) bool {
	return cdf.findVar(name) != nil
}
