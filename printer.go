// printer.go — the display operation.
//
// FormatValue maps every value to its display string; purr, string
// concatenation and date stringification all go through it. Numbers render
// with no fractional part when integer-valued and as the shortest
// round-tripping decimal otherwise; containers render recursively, with
// cycles cut short so display stays total.
package mew

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatValue returns the display form of v.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v, map[interface{}]bool{})
	return b.String()
}

// FormatNumber renders a number: "NaN", "Infinity"/"-Infinity", integers
// without a fractional part, everything else shortest round-trip.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func writeValue(b *strings.Builder, v Value, seen map[interface{}]bool) {
	switch v.Tag {
	case VTUndefined:
		b.WriteString("undefined")
	case VTNull:
		b.WriteString("null")
	case VTBool:
		if v.Data.(bool) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case VTNumber:
		b.WriteString(FormatNumber(v.Data.(float64)))
	case VTStr:
		b.WriteString(v.Data.(string))

	case VTArray:
		ao := v.Data.(*ArrayObject)
		if seen[ao] {
			b.WriteString("[...]")
			return
		}
		seen[ao] = true
		b.WriteByte('[')
		for i, el := range ao.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, el, seen)
		}
		b.WriteByte(']')
		delete(seen, ao)

	case VTObject:
		mo := v.Data.(*MapObject)
		if seen[mo] {
			b.WriteString("{...}")
			return
		}
		seen[mo] = true
		b.WriteByte('{')
		for i, k := range mo.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			writeValue(b, mo.Entries[k], seen)
		}
		b.WriteByte('}')
		delete(seen, mo)

	case VTFun, VTNative:
		b.WriteString("<function>")
	case VTNamespace:
		b.WriteString("<namespace " + v.Data.(*Namespace).Name + ">")
	case VTDate:
		b.WriteString(formatDate(v.Data.(time.Time)))
	default:
		b.WriteString("<unknown>")
	}
}
