package cdf

import (
	"fmt"
	"strings"
)

const dumpPreviewLen = 50

// Dump renders the header and a short preview of every variable's values.
// The output is for debugging only and its exact form is not stable.
func (cdf *CDF) Dump() string {
	var b strings.Builder
	fmt.Fprintln(&b, cdf.VersionLabel())

	fmt.Fprintln(&b, "dimensions:")
	for i, d := range cdf.dimensions {
		if i == cdf.recDim.ID {
			fmt.Fprintf(&b, "\t%s = UNLIMITED ; // (%d currently)\n",
				d.Name, cdf.recDim.Length)
			continue
		}
		fmt.Fprintf(&b, "\t%s = %d ;\n", d.Name, d.Length)
	}

	fmt.Fprintln(&b, "global attributes:")
	for _, key := range cdf.globalAttrs.Keys() {
		val, _ := cdf.globalAttrs.Get(key)
		fmt.Fprintf(&b, "\t:%s = %v ;\n", key, val)
	}

	fmt.Fprintln(&b, "variables:")
	for i := range cdf.vars {
		v := &cdf.vars[i]
		dimNames := make([]string, len(v.DimIDs))
		for j, id := range v.DimIDs {
			dimNames[j] = cdf.dimensions[id].Name
		}
		fmt.Fprintf(&b, "\t%s %s(%s) = %s\n", cdlTypeName(v.Type), v.Name,
			strings.Join(dimNames, ", "), cdf.previewVar(v.Name))
	}
	return b.String()
}

// previewVar decodes a variable and truncates its rendering to the first
// dumpPreviewLen characters, with the total element count appended.
func (cdf *CDF) previewVar(name string) string {
	v, err := cdf.GetVariable(name)
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	text := fmt.Sprint(v.Values)
	if len(text) > dumpPreviewLen {
		text = text[:dumpPreviewLen] + "..."
	}
	return fmt.Sprintf("%s (length %d)", text, valueLen(v.Values))
}

func valueLen(vals interface{}) int {
	switch v := vals.(type) {
	case string:
		return len(v)
	case []int8:
		return len(v)
	case []int16:
		return len(v)
	case []int32:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	}
	return 1
}
