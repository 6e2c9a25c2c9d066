// builtin_json.go — the MewJ namespace.
//
// sniff parses RFC 8259 JSON text. The standard decoder alone would drop
// object key order, so sniff walks encoding/json's token stream directly
// and builds ordered objects itself. mewify goes the other way: values are
// lowered to a graph whose objects are *orderedmap.OrderedMap, which
// marshals keys in insertion order, both compact and indented.
package mew

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
)

func registerJSONBuiltins(ip *Interpreter) {
	mewj := &Namespace{Name: "MewJ", Members: NewMapObject()}

	// sniff(s) — parse a JSON string into values. JSON null maps to null;
	// object key order is preserved.
	mewj.Members.Set("sniff", NativeVal("sniff", func(_ *Interpreter, args []Value) Value {
		sv := argOr(args, 0)
		if sv.Tag != VTStr {
			fail(DiagType, "MewJ.sniff requires a string, got "+typeName(sv))
		}
		dec := json.NewDecoder(strings.NewReader(sv.Data.(string)))
		dec.UseNumber()
		v, err := decodeJSONValue(dec)
		if err != nil {
			fail(DiagValue, "MewJ.sniff: invalid JSON: "+err.Error())
		}
		if _, err := dec.Token(); err != io.EOF {
			fail(DiagValue, "MewJ.sniff: trailing characters after JSON value")
		}
		return v
	}))

	// mewify(v [, indent]) — serialize a value to JSON. NaN and infinities
	// are rejected; undefined is omitted from objects and becomes null in
	// arrays. A positive integer indent pretty-prints.
	mewj.Members.Set("mewify", NativeVal("mewify", func(_ *Interpreter, args []Value) Value {
		root, err := valueToJSON(argOr(args, 0), map[interface{}]bool{})
		if err != nil {
			fail(DiagValue, "MewJ.mewify: "+err.Error())
		}

		indent := 0
		if len(args) >= 2 && args[1].Tag == VTNumber {
			n := toNumber(args[1])
			if n >= 1 && n == math.Trunc(n) {
				indent = int(n)
				if indent > 10 {
					indent = 10
				}
			}
		}

		var out []byte
		if indent > 0 {
			out, err = json.MarshalIndent(root, "", strings.Repeat(" ", indent))
		} else {
			out, err = json.Marshal(root)
		}
		if err != nil {
			fail(DiagValue, "MewJ.mewify: "+err.Error())
		}
		return Str(string(out))
	}))

	defineCore(ip, "MewJ", NamespaceVal(mewj))
}

// decodeJSONValue reads one complete JSON value from the token stream.
func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Undefined, err
	}
	return jsonTokenValue(dec, tok)
}

func jsonTokenValue(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			mo := NewMapObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Undefined, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Undefined, fmt.Errorf("object key is not a string")
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Undefined, err
				}
				mo.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Undefined, err
			}
			return ObjectOf(mo), nil
		case '[':
			var elems []Value
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Undefined, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Undefined, err
			}
			return Arr(elems), nil
		}
		return Undefined, fmt.Errorf("unexpected delimiter %v", t)

	case string:
		return Str(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Undefined, err
		}
		return Num(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null, nil
	default:
		return Undefined, fmt.Errorf("unexpected token %v", tok)
	}
}

// valueToJSON lowers a value to a marshalable graph. Objects become ordered
// maps so key order survives; cycles and functions are rejected.
func valueToJSON(v Value, seen map[interface{}]bool) (interface{}, error) {
	switch v.Tag {
	case VTNull, VTUndefined:
		return nil, nil
	case VTBool:
		return v.Data.(bool), nil
	case VTStr:
		return v.Data.(string), nil

	case VTNumber:
		f := v.Data.(float64)
		if math.IsNaN(f) {
			return nil, fmt.Errorf("cannot serialize NaN")
		}
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot serialize Infinity")
		}
		return json.Number(jsonNumberText(f)), nil

	case VTArray:
		ao := v.Data.(*ArrayObject)
		if seen[ao] {
			return nil, fmt.Errorf("cannot serialize a cyclic structure")
		}
		seen[ao] = true
		defer delete(seen, ao)
		out := make([]interface{}, 0, len(ao.Elems))
		for _, el := range ao.Elems {
			gv, err := valueToJSON(el, seen)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil

	case VTObject:
		mo := v.Data.(*MapObject)
		if seen[mo] {
			return nil, fmt.Errorf("cannot serialize a cyclic structure")
		}
		seen[mo] = true
		defer delete(seen, mo)
		om := orderedmap.New()
		for _, k := range mo.Keys {
			ev := mo.Entries[k]
			if ev.Tag == VTUndefined {
				continue
			}
			gv, err := valueToJSON(ev, seen)
			if err != nil {
				return nil, err
			}
			om.Set(k, gv)
		}
		return om, nil

	case VTDate:
		return formatDate(v.Data.(time.Time)), nil

	default:
		return nil, fmt.Errorf("cannot serialize a %s", typeName(v))
	}
}

// jsonNumberText renders a float as a JSON number literal.
func jsonNumberText(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
