package cdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/batchatco/go-thrower"

	"github.com/BioDeep/netcdf/netcdf/api"
	"github.com/BioDeep/netcdf/netcdf/util"
)

// shape returns the variable's row count and elements per row. Rows are
// records for record variables, the first dimension's length for other
// dimensioned variables, and 1 for scalars.
func (cdf *CDF) shape(v *Variable) (rows int64, perRow int64) {
	elemSize := int64(typeSize(v.Type))
	total := int64(v.Size) / elemSize
	if v.IsRecord {
		if v.Size == 0 {
			total = 1
		}
		return int64(cdf.recDim.Length), total
	}
	if len(v.DimIDs) == 0 {
		// a scalar holds one element; the rest of Size is padding
		return 1, 1
	}
	first := int64(cdf.dimensions[v.DimIDs[0]].Length)
	if first == 0 {
		return 1, total
	}
	return first, total / first
}

// readRows decodes rows [begin, end) of a variable on the given cursor.
// Fixed variables are contiguous. Record variables are interleaved: after
// this variable's slice of record i, the cursor jumps by the full record
// step, not by this variable's size, to land on its slice of record i+1.
func (cdf *CDF) readRows(v *Variable, cur *util.Cursor, begin, end int64) interface{} {
	elemSize := int64(typeSize(v.Type))
	_, perRow := cdf.shape(v)
	n := (end - begin) * perRow

	if !v.IsRecord {
		cur.Seek(v.Offset + begin*perRow*elemSize)
		switch v.Type {
		case typeByte:
			return cur.I8s(n)
		case typeChar:
			return trimNul(cur.Chars(n))
		case typeShort:
			return cur.I16s(n)
		case typeInt:
			return cur.I32s(n)
		case typeFloat:
			return cur.F32s(n)
		case typeDouble:
			return cur.F64s(n)
		}
		throwInvalidType(v.Type)
	}

	step := int64(cdf.recDim.Step)
	seek := func(i int64) {
		cur.Seek(v.Offset + i*step)
	}
	switch v.Type {
	case typeByte:
		out := make([]int8, 0, n)
		for i := begin; i < end; i++ {
			seek(i)
			out = append(out, cur.I8s(perRow)...)
		}
		return out

	case typeChar:
		var sb strings.Builder
		for i := begin; i < end; i++ {
			seek(i)
			sb.WriteString(trimNul(cur.Chars(perRow)))
		}
		return sb.String()

	case typeShort:
		out := make([]int16, 0, n)
		for i := begin; i < end; i++ {
			seek(i)
			out = append(out, cur.I16s(perRow)...)
		}
		return out

	case typeInt:
		out := make([]int32, 0, n)
		for i := begin; i < end; i++ {
			seek(i)
			out = append(out, cur.I32s(perRow)...)
		}
		return out

	case typeFloat:
		out := make([]float32, 0, n)
		for i := begin; i < end; i++ {
			seek(i)
			out = append(out, cur.F32s(perRow)...)
		}
		return out

	case typeDouble:
		out := make([]float64, 0, n)
		for i := begin; i < end; i++ {
			seek(i)
			out = append(out, cur.F64s(perRow)...)
		}
		return out
	}
	throwInvalidType(v.Type)
	panic("never gets here")
}

// varReader implements api.VarGetter for one variable of a parsed file.
// Row granularity follows the variable's layout: records for record
// variables, the first dimension for other dimensioned variables.
type varReader struct {
	cdf      *CDF
	v        *Variable
	rows     int64
	dimNames []string
}

func (vr *varReader) Len() int64 {
	return vr.rows
}

// GetSlice decodes rows [begin, end). Each call extracts on a clone of the
// decoder's cursor, so the decoder's own cursor never moves after the
// header is parsed and concurrent readers share only the immutable image.
func (vr *varReader) GetSlice(begin, end int64) (val interface{}, err error) {
	defer thrower.RecoverError(&err)
	if begin < 0 || end < begin || end > vr.rows {
		return nil, errors.New("invalid slice parameters")
	}
	return vr.cdf.readRows(vr.v, vr.cdf.cursor.Clone(), begin, end), nil
}

func (vr *varReader) Values() (interface{}, error) {
	return vr.GetSlice(0, vr.rows)
}

func (vr *varReader) Dimensions() []string {
	return vr.dimNames
}

func (vr *varReader) Attributes() api.AttributeMap {
	return vr.v.Attrs
}

func (vr *varReader) Type() string {
	return cdlTypeName(vr.v.Type)
}

func (vr *varReader) GoType() string {
	return goTypeName(vr.v.Type)
}

func (cdf *CDF) getVarCommon(v *Variable) api.VarGetter {
	dimNames := make([]string, len(v.DimIDs))
	for i, id := range v.DimIDs {
		dimNames[i] = cdf.dimensions[id].Name
	}
	rows, _ := cdf.shape(v)
	return &varReader{cdf: cdf, v: v, rows: rows, dimNames: dimNames}
}

// GetVarGetter returns an accessor for reading the named variable a few
// rows at a time, in case it is large and the full value is unwanted.
func (cdf *CDF) GetVarGetter(name string) (slicer api.VarGetter, err error) {
	defer thrower.RecoverError(&err)
	v := cdf.findVar(name)
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return cdf.getVarCommon(v), nil
}

// GetVariable decodes all values of the named variable. CHAR variables
// decode to a string; the other types decode to a flat typed slice in row
// order, or to a scalar for variables with no dimensions. Callers reshape
// using the dimension list if they want nesting.
func (cdf *CDF) GetVariable(name string) (v *api.Variable, err error) {
	defer thrower.RecoverError(&err)
	varFound := cdf.findVar(name)
	if varFound == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	sl := cdf.getVarCommon(varFound)
	vals, err := sl.Values()
	if err != nil {
		return nil, err
	}
	if len(varFound.DimIDs) == 0 {
		vals = collapseScalar(vals)
	}
	return &api.Variable{
		Values:     vals,
		Dimensions: sl.Dimensions(),
		Attributes: sl.Attributes()}, nil
}

// GetVariableText decodes the named variable and renders it as one string.
// This is only meaningful for CHAR variables, whose elements concatenate;
// other types are formatted with the fmt package.
func (cdf *CDF) GetVariableText(name string) (string, error) {
	v, err := cdf.GetVariable(name)
	if err != nil {
		return "", err
	}
	if s, ok := v.Values.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v.Values), nil
}

func collapseScalar(vals interface{}) interface{} {
	switch v := vals.(type) {
	case []int8:
		if len(v) == 1 {
			return v[0]
		}
	case []int16:
		if len(v) == 1 {
			return v[0]
		}
	case []int32:
		if len(v) == 1 {
			return v[0]
		}
	case []float32:
		if len(v) == 1 {
			return v[0]
		}
	case []float64:
		if len(v) == 1 {
			return v[0]
		}
	}
	return vals
}
