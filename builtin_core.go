// builtin_core.go — purr, toString, the type predicates and the Object
// namespace.
package mew

func registerCoreBuiltins(ip *Interpreter) {
	// purr(...args) — write each argument's display form, joined by
	// nothing, followed by a newline. Always returns undefined.
	defineCore(ip, "purr", NativeVal("purr", func(ip *Interpreter, args []Value) Value {
		var out []byte
		for _, a := range args {
			out = append(out, FormatValue(a)...)
		}
		out = append(out, '\n')
		if _, err := ip.Stdout.Write(out); err != nil {
			fail(DiagInternal, "purr: "+err.Error())
		}
		return Undefined
	}))

	// toString(v) — the display form as a string value.
	defineCore(ip, "toString", NativeVal("toString", func(_ *Interpreter, args []Value) Value {
		return Str(FormatValue(argOr(args, 0)))
	}))

	predicate := func(name string, test func(Value) bool) {
		defineCore(ip, name, NativeVal(name, func(_ *Interpreter, args []Value) Value {
			return Bool(test(argOr(args, 0)))
		}))
	}
	predicate("isNumber", func(v Value) bool { return v.Tag == VTNumber })
	predicate("isString", func(v Value) bool { return v.Tag == VTStr })
	predicate("isBoolean", func(v Value) bool { return v.Tag == VTBool })
	predicate("isNull", func(v Value) bool { return v.Tag == VTNull })
	predicate("isUndefined", func(v Value) bool { return v.Tag == VTUndefined })
	predicate("isArray", func(v Value) bool { return v.Tag == VTArray })
	predicate("isObject", func(v Value) bool { return v.Tag == VTObject })
	predicate("isFunction", func(v Value) bool { return v.Tag == VTFun || v.Tag == VTNative })

	object := &Namespace{Name: "Object", Members: NewMapObject()}

	// Object.keys(o) — property names in insertion order.
	object.Members.Set("keys", NativeVal("keys", func(_ *Interpreter, args []Value) Value {
		o := argOr(args, 0)
		if o.Tag != VTObject {
			fail(DiagType, "Object.keys requires an object, got "+typeName(o))
		}
		mo := o.Data.(*MapObject)
		out := make([]Value, 0, len(mo.Keys))
		for _, k := range mo.Keys {
			out = append(out, Str(k))
		}
		return Arr(out)
	}))

	// Object.values(o) — property values in insertion order.
	object.Members.Set("values", NativeVal("values", func(_ *Interpreter, args []Value) Value {
		o := argOr(args, 0)
		if o.Tag != VTObject {
			fail(DiagType, "Object.values requires an object, got "+typeName(o))
		}
		mo := o.Data.(*MapObject)
		out := make([]Value, 0, len(mo.Keys))
		for _, k := range mo.Keys {
			out = append(out, mo.Entries[k])
		}
		return Arr(out)
	}))

	defineCore(ip, "Object", NamespaceVal(object))
}
