// interpreter_ops.go — expression evaluation: operators, coercions, member
// and index dispatch, lvalues, and the string/array method tables.
package mew

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// fail raises a runtime error with no position; failAt attaches the
// position of the blamed node. Both unwind to runTop.
func fail(kind Kind, msg string) {
	panic(&Error{Kind: kind, Msg: msg})
}

func failAt(at Pos, kind Kind, msg string) {
	panic(&Error{Kind: kind, Msg: msg, Line: at.Line, Col: at.Col})
}

// raiseAt panics with e, attaching at when e carries no position yet.
func raiseAt(e *Error, at Pos) {
	if e.Line == 0 {
		e.Line, e.Col = at.Line, at.Col
	}
	panic(e)
}

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }

func argOr(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}

// typeName names a value's kind for diagnostics.
func typeName(v Value) string {
	switch v.Tag {
	case VTUndefined:
		return "undefined"
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNumber:
		return "number"
	case VTStr:
		return "string"
	case VTArray:
		return "array"
	case VTObject:
		return "object"
	case VTFun, VTNative:
		return "function"
	case VTNamespace:
		return "namespace"
	case VTDate:
		return "date"
	default:
		return "unknown"
	}
}

// truthy projects a value to a boolean. Exactly six values are falsy:
// false, null, undefined, NaN, 0 and the empty string.
func (ip *Interpreter) truthy(v Value) bool {
	switch v.Tag {
	case VTBool:
		return v.Data.(bool)
	case VTNull, VTUndefined:
		return false
	case VTNumber:
		f := v.Data.(float64)
		return f != 0 && !math.IsNaN(f)
	case VTStr:
		return v.Data.(string) != ""
	default:
		return true
	}
}

// toNumber applies the coercion of the display/coercion table: booleans map
// to 0/1, null to 0, undefined to NaN, strings parse as numbers (empty is
// 0, unparsable is NaN), arrays/objects/functions to NaN, dates to their
// epoch milliseconds.
func toNumber(v Value) float64 {
	switch v.Tag {
	case VTNumber:
		return v.Data.(float64)
	case VTBool:
		if v.Data.(bool) {
			return 1
		}
		return 0
	case VTNull:
		return 0
	case VTStr:
		s := strings.TrimSpace(v.Data.(string))
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return nan()
	case VTDate:
		return float64(v.Data.(time.Time).UnixMilli())
	default:
		return nan()
	}
}

// valueEquals is == : value equality for primitives, reference identity for
// arrays, objects and functions. Values of different tags are never equal;
// NaN is not equal to NaN.
func valueEquals(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull, VTUndefined:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNumber:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTDate:
		return a.Data.(time.Time).UnixMilli() == b.Data.(time.Time).UnixMilli()
	default:
		// arrays, objects, functions, namespaces: identity
		return a.Data == b.Data
	}
}

// ----- expression evaluation -----

func (ip *Interpreter) evalExpr(e Expr, env *Env) Value {
	switch e := e.(type) {
	case *NumberLit:
		return Num(e.Value)
	case *StringLit:
		return Str(e.Value)
	case *BoolLit:
		return Bool(e.Value)
	case *NullLit:
		return Null
	case *UndefinedLit:
		return Undefined

	case *Ident:
		v, ok := env.Get(e.Name)
		if !ok {
			failAt(e.At, DiagName, "undefined variable '"+e.Name+"'")
		}
		return v

	case *ArrayLit:
		elems := make([]Value, 0, len(e.Elems))
		for _, el := range e.Elems {
			elems = append(elems, ip.evalExpr(el, env))
		}
		return Arr(elems)

	case *ObjectLit:
		mo := NewMapObject()
		for _, entry := range e.Entries {
			mo.Set(entry.Key, ip.evalExpr(entry.Value, env))
		}
		return ObjectOf(mo)

	case *FuncLit:
		return FunVal(&Fun{Params: e.Params, Body: e.Body, Env: env})

	case *MemberExpr:
		obj := ip.evalExpr(e.Object, env)
		return ip.getMember(obj, e.Name, e.At)

	case *IndexExpr:
		obj := ip.evalExpr(e.Object, env)
		idx := ip.evalExpr(e.Index, env)
		return ip.getIndex(obj, idx, e.At)

	case *CallExpr:
		callee := ip.evalExpr(e.Callee, env)
		args := make([]Value, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, ip.evalExpr(a, env))
		}
		return ip.callFunction(callee, args, e.At)

	case *UnaryExpr:
		operand := ip.evalExpr(e.Operand, env)
		if e.Op == BANG {
			return Bool(!ip.truthy(operand))
		}
		return Num(-toNumber(operand))

	case *UpdateExpr:
		return ip.evalUpdate(e, env)

	case *LogicalExpr:
		left := ip.evalExpr(e.Left, env)
		if e.Op == AND {
			if !ip.truthy(left) {
				return left
			}
			return ip.evalExpr(e.Right, env)
		}
		if ip.truthy(left) {
			return left
		}
		return ip.evalExpr(e.Right, env)

	case *TernaryExpr:
		if ip.truthy(ip.evalExpr(e.Cond, env)) {
			return ip.evalExpr(e.Then, env)
		}
		return ip.evalExpr(e.Else, env)

	case *BinaryExpr:
		left := ip.evalExpr(e.Left, env)
		right := ip.evalExpr(e.Right, env)
		return ip.binaryOp(e.Op, left, right)

	case *AssignExpr:
		return ip.evalAssign(e, env)

	default:
		failAt(e.Pos(), DiagInternal, "unhandled expression")
		return Undefined
	}
}

// binaryOp implements the arithmetic, comparison and equality operators.
// `+` concatenates when either operand is a string; the other arithmetic
// operators are numeric with the §4.4 coercions, so division by zero yields
// ±Infinity and 0/0 yields NaN.
func (ip *Interpreter) binaryOp(op TokenType, l, r Value) Value {
	switch op {
	case PLUS:
		if l.Tag == VTStr || r.Tag == VTStr {
			return Str(FormatValue(l) + FormatValue(r))
		}
		return Num(toNumber(l) + toNumber(r))
	case MINUS:
		return Num(toNumber(l) - toNumber(r))
	case STAR:
		return Num(toNumber(l) * toNumber(r))
	case SLASH:
		return Num(toNumber(l) / toNumber(r))
	case PERCENT:
		return Num(math.Mod(toNumber(l), toNumber(r)))
	case EQ:
		return Bool(valueEquals(l, r))
	case NEQ:
		return Bool(!valueEquals(l, r))
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return Bool(compareValues(op, l, r))
	default:
		fail(DiagInternal, "unhandled binary operator")
		return Undefined
	}
}

// compareValues: lexicographic when both operands are strings, numeric
// otherwise. Any comparison involving NaN is false.
func compareValues(op TokenType, l, r Value) bool {
	if l.Tag == VTStr && r.Tag == VTStr {
		a, b := l.Data.(string), r.Data.(string)
		switch op {
		case LESS:
			return a < b
		case LESS_EQ:
			return a <= b
		case GREATER:
			return a > b
		default:
			return a >= b
		}
	}
	a, b := toNumber(l), toNumber(r)
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	switch op {
	case LESS:
		return a < b
	case LESS_EQ:
		return a <= b
	case GREATER:
		return a > b
	default:
		return a >= b
	}
}

// ----- lvalues -----

// lvalue is a resolved assignment target: the receiver expressions have
// been evaluated exactly once, and get/set close over them.
type lvalue struct {
	get func() Value
	set func(Value)
}

func (ip *Interpreter) resolveLvalue(target Expr, env *Env) lvalue {
	switch t := target.(type) {
	case *Ident:
		return lvalue{
			get: func() Value {
				v, ok := env.Get(t.Name)
				if !ok {
					failAt(t.At, DiagName, "undefined variable '"+t.Name+"'")
				}
				return v
			},
			set: func(v Value) {
				if derr := env.Assign(t.Name, v); derr != nil {
					raiseAt(derr, t.At)
				}
			},
		}
	case *MemberExpr:
		obj := ip.evalExpr(t.Object, env)
		return lvalue{
			get: func() Value { return ip.getMember(obj, t.Name, t.At) },
			set: func(v Value) { ip.setMember(obj, t.Name, v, t.At) },
		}
	case *IndexExpr:
		obj := ip.evalExpr(t.Object, env)
		idx := ip.evalExpr(t.Index, env)
		return lvalue{
			get: func() Value { return ip.getIndex(obj, idx, t.At) },
			set: func(v Value) { ip.setIndex(obj, idx, v, t.At) },
		}
	default:
		failAt(target.Pos(), DiagType, "invalid assignment target")
		return lvalue{}
	}
}

func (ip *Interpreter) evalAssign(e *AssignExpr, env *Env) Value {
	lv := ip.resolveLvalue(e.Target, env)
	val := ip.evalExpr(e.Value, env)
	if e.Op != ASSIGN {
		val = ip.binaryOp(compoundBase(e.Op), lv.get(), val)
	}
	lv.set(val)
	return val
}

func compoundBase(op TokenType) TokenType {
	switch op {
	case PLUS_EQ:
		return PLUS
	case MINUS_EQ:
		return MINUS
	case STAR_EQ:
		return STAR
	case SLASH_EQ:
		return SLASH
	default:
		return PERCENT
	}
}

// evalUpdate implements prefix and postfix ++/--. The current value is
// coerced to a number; prefix returns the new value, postfix the old one.
func (ip *Interpreter) evalUpdate(e *UpdateExpr, env *Env) Value {
	lv := ip.resolveLvalue(e.Target, env)
	old := toNumber(lv.get())
	delta := 1.0
	if e.Op == MINUS_MINUS {
		delta = -1
	}
	lv.set(Num(old + delta))
	if e.Prefix {
		return Num(old + delta)
	}
	return Num(old)
}

// ----- member access -----

func (ip *Interpreter) getMember(obj Value, name string, at Pos) Value {
	switch obj.Tag {
	case VTObject:
		if v, ok := obj.Data.(*MapObject).Get(name); ok {
			return v
		}
		return Undefined

	case VTNamespace:
		ns := obj.Data.(*Namespace)
		if v, ok := ns.Members.Get(name); ok {
			return v
		}
		failAt(at, DiagName, ns.Name+" has no member '"+name+"'")

	case VTStr:
		s := obj.Data.(string)
		if name == "length" {
			return Num(float64(utf8.RuneCountInString(s)))
		}
		if m, ok := stringMethod(s, name); ok {
			return m
		}
		return Undefined

	case VTArray:
		if name == "length" {
			return Num(float64(len(obj.Data.(*ArrayObject).Elems)))
		}
		if m, ok := arrayMethod(obj, name); ok {
			return m
		}
		return Undefined

	case VTNull:
		failAt(at, DiagType, "cannot read property '"+name+"' of null")
	case VTUndefined:
		failAt(at, DiagType, "cannot read property '"+name+"' of undefined")
	}
	return Undefined
}

func (ip *Interpreter) setMember(obj Value, name string, v Value, at Pos) {
	switch obj.Tag {
	case VTObject:
		obj.Data.(*MapObject).Set(name, v)
	case VTArray:
		if name == "length" {
			failAt(at, DiagType, "cannot assign to array length")
		}
		failAt(at, DiagType, "cannot set property '"+name+"' on an array")
	case VTNamespace:
		failAt(at, DiagValue, "cannot modify builtin namespace "+obj.Data.(*Namespace).Name)
	case VTNull:
		failAt(at, DiagType, "cannot set property '"+name+"' of null")
	case VTUndefined:
		failAt(at, DiagType, "cannot set property '"+name+"' of undefined")
	default:
		failAt(at, DiagType, "cannot set property on a "+typeName(obj))
	}
}

// ----- index access -----

// arrayIndex validates the index form for arrays and strings: it must
// coerce to a non-negative integer.
func arrayIndex(idx Value, at Pos) int {
	n := toNumber(idx)
	if math.IsNaN(n) || n != math.Trunc(n) {
		failAt(at, DiagRange, "index must be an integer")
	}
	if n < 0 {
		failAt(at, DiagRange, "index must not be negative")
	}
	return int(n)
}

func (ip *Interpreter) getIndex(obj, idx Value, at Pos) Value {
	switch obj.Tag {
	case VTArray:
		elems := obj.Data.(*ArrayObject).Elems
		i := arrayIndex(idx, at)
		if i >= len(elems) {
			return Undefined
		}
		return elems[i]

	case VTObject:
		if v, ok := obj.Data.(*MapObject).Get(FormatValue(idx)); ok {
			return v
		}
		return Undefined

	case VTStr:
		runes := []rune(obj.Data.(string))
		i := arrayIndex(idx, at)
		if i >= len(runes) {
			return Undefined
		}
		return Str(string(runes[i]))

	case VTNamespace:
		if idx.Tag == VTStr {
			return ip.getMember(obj, idx.Data.(string), at)
		}
		failAt(at, DiagType, "namespace members are accessed by name")

	case VTNull:
		failAt(at, DiagType, "cannot index null")
	case VTUndefined:
		failAt(at, DiagType, "cannot index undefined")
	default:
		failAt(at, DiagType, "a "+typeName(obj)+" is not indexable")
	}
	return Undefined
}

func (ip *Interpreter) setIndex(obj, idx, v Value, at Pos) {
	switch obj.Tag {
	case VTArray:
		ao := obj.Data.(*ArrayObject)
		i := arrayIndex(idx, at)
		for len(ao.Elems) <= i {
			ao.Elems = append(ao.Elems, Undefined)
		}
		ao.Elems[i] = v

	case VTObject:
		obj.Data.(*MapObject).Set(FormatValue(idx), v)

	case VTStr:
		failAt(at, DiagType, "strings are immutable")
	case VTNull:
		failAt(at, DiagType, "cannot index null")
	case VTUndefined:
		failAt(at, DiagType, "cannot index undefined")
	default:
		failAt(at, DiagType, "a "+typeName(obj)+" is not indexable")
	}
}

// ----- string methods -----

// stringMethod returns a builtin bound to the receiver string.
func stringMethod(s, name string) (Value, bool) {
	switch name {
	case "charAt":
		return NativeVal("charAt", func(_ *Interpreter, args []Value) Value {
			runes := []rune(s)
			i := intArg(argOr(args, 0))
			if i < 0 || i >= len(runes) {
				return Str("")
			}
			return Str(string(runes[i]))
		}), true

	case "substring":
		return NativeVal("substring", func(_ *Interpreter, args []Value) Value {
			runes := []rune(s)
			start := clampIndex(intArg(argOr(args, 0)), len(runes))
			end := len(runes)
			if len(args) >= 2 && args[1].Tag != VTUndefined {
				end = clampIndex(intArg(args[1]), len(runes))
			}
			if start > end {
				start, end = end, start
			}
			return Str(string(runes[start:end]))
		}), true

	case "indexOf":
		return NativeVal("indexOf", func(_ *Interpreter, args []Value) Value {
			sub := FormatValue(argOr(args, 0))
			byteIdx := strings.Index(s, sub)
			if byteIdx < 0 {
				return Num(-1)
			}
			return Num(float64(utf8.RuneCountInString(s[:byteIdx])))
		}), true

	case "split":
		return NativeVal("split", func(_ *Interpreter, args []Value) Value {
			sep := argOr(args, 0)
			if sep.Tag == VTUndefined {
				return Arr([]Value{Str(s)})
			}
			sepStr := FormatValue(sep)
			var parts []string
			if sepStr == "" {
				for _, r := range s {
					parts = append(parts, string(r))
				}
			} else {
				parts = strings.Split(s, sepStr)
			}
			out := make([]Value, 0, len(parts))
			for _, p := range parts {
				out = append(out, Str(p))
			}
			return Arr(out)
		}), true

	case "toUpperCase":
		return NativeVal("toUpperCase", func(_ *Interpreter, _ []Value) Value {
			return Str(strings.ToUpper(s))
		}), true

	case "toLowerCase":
		return NativeVal("toLowerCase", func(_ *Interpreter, _ []Value) Value {
			return Str(strings.ToLower(s))
		}), true

	case "trim":
		return NativeVal("trim", func(_ *Interpreter, _ []Value) Value {
			return Str(strings.TrimSpace(s))
		}), true
	}
	return Undefined, false
}

// intArg coerces an argument to an int, mapping NaN to 0.
func intArg(v Value) int {
	n := toNumber(v)
	if math.IsNaN(n) {
		return 0
	}
	return int(math.Trunc(n))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// ----- array methods -----

// arrayMethod returns a builtin bound to the receiver array. Mutating
// methods operate on the shared ArrayObject, so aliases observe the change.
func arrayMethod(recv Value, name string) (Value, bool) {
	ao := recv.Data.(*ArrayObject)
	switch name {
	case "push":
		return NativeVal("push", func(_ *Interpreter, args []Value) Value {
			ao.Elems = append(ao.Elems, args...)
			return recv
		}), true

	case "pop":
		return NativeVal("pop", func(_ *Interpreter, _ []Value) Value {
			if len(ao.Elems) == 0 {
				return Undefined
			}
			v := ao.Elems[len(ao.Elems)-1]
			ao.Elems = ao.Elems[:len(ao.Elems)-1]
			return v
		}), true

	case "shift":
		return NativeVal("shift", func(_ *Interpreter, _ []Value) Value {
			if len(ao.Elems) == 0 {
				return Undefined
			}
			v := ao.Elems[0]
			ao.Elems = ao.Elems[1:]
			return v
		}), true

	case "unshift":
		return NativeVal("unshift", func(_ *Interpreter, args []Value) Value {
			ao.Elems = append(append([]Value{}, args...), ao.Elems...)
			return recv
		}), true

	case "join":
		return NativeVal("join", func(_ *Interpreter, args []Value) Value {
			sep := ","
			if len(args) >= 1 && args[0].Tag != VTUndefined {
				sep = FormatValue(args[0])
			}
			parts := make([]string, 0, len(ao.Elems))
			for _, el := range ao.Elems {
				parts = append(parts, FormatValue(el))
			}
			return Str(strings.Join(parts, sep))
		}), true

	case "indexOf":
		return NativeVal("indexOf", func(_ *Interpreter, args []Value) Value {
			want := argOr(args, 0)
			for i, el := range ao.Elems {
				if valueEquals(el, want) {
					return Num(float64(i))
				}
			}
			return Num(-1)
		}), true

	case "includes":
		return NativeVal("includes", func(_ *Interpreter, args []Value) Value {
			want := argOr(args, 0)
			for _, el := range ao.Elems {
				if valueEquals(el, want) {
					return Bool(true)
				}
			}
			return Bool(false)
		}), true

	case "slice":
		return NativeVal("slice", func(_ *Interpreter, args []Value) Value {
			n := len(ao.Elems)
			start := 0
			if len(args) >= 1 && args[0].Tag != VTUndefined {
				start = relativeIndex(intArg(args[0]), n)
			}
			end := n
			if len(args) >= 2 && args[1].Tag != VTUndefined {
				end = relativeIndex(intArg(args[1]), n)
			}
			if start > end {
				start = end
			}
			out := make([]Value, end-start)
			copy(out, ao.Elems[start:end])
			return Arr(out)
		}), true
	}
	return Undefined, false
}

// relativeIndex resolves a possibly-negative slice bound against length n.
func relativeIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return clampIndex(i, n)
}
