// interpreter.go — public surface of the Mew runtime.
//
// This file holds the runtime value model (Value and its payload types), the
// lexical environment, and the Interpreter with its entry points:
//
//   - EvalSource: parse + evaluate a program in a fresh child of Global.
//   - EvalPersistentSource: evaluate a fragment in Global itself (REPL).
//   - EvalFile: read a .mew file and evaluate it as a program.
//
// All Eval* methods return (Value, error); the Value is the result of the
// last top-level expression statement (Undefined when there is none). Lexing,
// parsing and evaluation errors are *Error with a 1-based position when one
// is known; EvalFile returns a file read error unchanged.
//
// Two well-known environments exist: Core holds the builtins (purr, Mewth,
// MewJ, CatTime, …) as constants, and Global is the mutable program/REPL
// frame whose parent is Core. Declaring `catlt purr = …` therefore shadows
// the builtin, while assigning `purr = …` is rejected.
package mew

import (
	"io"
	"os"
	"time"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTUndefined ValueTag = iota // no payload
	VTNull                      // no payload
	VTBool                      // bool
	VTNumber                    // float64
	VTStr                       // string
	VTArray                     // *ArrayObject (shared by reference)
	VTObject                    // *MapObject (ordered; shared by reference)
	VTFun                       // *Fun (closure)
	VTNative                    // *NativeFun
	VTNamespace                 // *Namespace (builtin member table)
	VTDate                      // time.Time (millisecond resolution)
)

// Value is the universal runtime carrier. Tag selects which Go type Data
// holds (see ValueTag). Numbers, strings, booleans, null and undefined are
// by-value; arrays, objects and functions share identity through their
// pointer payloads.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Undefined and Null are the two unit values.
var (
	Undefined = Value{Tag: VTUndefined}
	Null      = Value{Tag: VTNull}
)

func Num(f float64) Value  { return Value{Tag: VTNumber, Data: f} }
func Str(s string) Value   { return Value{Tag: VTStr, Data: s} }
func Bool(b bool) Value    { return Value{Tag: VTBool, Data: b} }
func DateVal(t time.Time) Value {
	return Value{Tag: VTDate, Data: t}
}

// Arr wraps a slice into a new array value.
func Arr(elems []Value) Value {
	return Value{Tag: VTArray, Data: &ArrayObject{Elems: elems}}
}

// ArrayObject is the mutable payload of an array value.
type ArrayObject struct {
	Elems []Value
}

// MapObject is an ordered map preserving key insertion order. Setting a new
// key appends it to Keys; setting an existing key keeps its position.
type MapObject struct {
	Entries map[string]Value
	Keys    []string
}

func NewMapObject() *MapObject {
	return &MapObject{Entries: map[string]Value{}}
}

func (m *MapObject) Set(key string, v Value) {
	if _, ok := m.Entries[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.Entries[key] = v
}

func (m *MapObject) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	return v, ok
}

func (m *MapObject) Delete(key string) {
	if _, ok := m.Entries[key]; !ok {
		return
	}
	delete(m.Entries, key)
	keys := m.Keys[:0]
	for _, k := range m.Keys {
		if k != key {
			keys = append(keys, k)
		}
	}
	m.Keys = keys
}

// ObjectOf wraps a MapObject into an object value.
func ObjectOf(m *MapObject) Value { return Value{Tag: VTObject, Data: m} }

// Fun is a user-defined function: parameter names, body statements and the
// environment captured at the definition site.
type Fun struct {
	Name   string // "" for function expressions
	Params []string
	Body   []Stmt
	Env    *Env
}

func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// NativeImpl is the implementation signature of builtin functions. Arguments
// arrive already evaluated; implementations report failures through fail/
// failAt.
type NativeImpl func(ip *Interpreter, args []Value) Value

// NativeFun is a builtin function value.
type NativeFun struct {
	Name string
	Fn   NativeImpl
}

func NativeVal(name string, fn NativeImpl) Value {
	return Value{Tag: VTNative, Data: &NativeFun{Name: name, Fn: fn}}
}

// Namespace is a builtin member table (Mewth, MewJ, CatTime, Object).
// Members are reachable through property access only.
type Namespace struct {
	Name    string
	Members *MapObject
}

func NamespaceVal(ns *Namespace) Value { return Value{Tag: VTNamespace, Data: ns} }

// ----- environments -----

type binding struct {
	value Value
	konst bool
}

// Env is one frame of the lexical scope chain. Lookups walk parent-ward;
// fnBoundary marks frames that catv (var) declarations bind into.
type Env struct {
	parent     *Env
	table      map[string]*binding
	fnBoundary bool
}

// NewEnv creates a block-level frame with the given parent (may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: map[string]*binding{}}
}

// NewFuncEnv creates a frame that catches catv declarations (function bodies
// and the program/global frame).
func NewFuncEnv(parent *Env) *Env {
	e := NewEnv(parent)
	e.fnBoundary = true
	return e
}

// Define binds name in this frame. Declaring the same name twice in one
// frame is an error.
func (e *Env) Define(name string, v Value, konst bool) *Error {
	if _, ok := e.table[name]; ok {
		return &Error{Kind: DiagName, Msg: "'" + name + "' has already been declared in this scope"}
	}
	e.table[name] = &binding{value: v, konst: konst}
	return nil
}

// DefineVar installs a function-scoped (catv) binding in the nearest
// function frame.
func (e *Env) DefineVar(name string, v Value) *Error {
	target := e
	for target.parent != nil && !target.fnBoundary {
		target = target.parent
	}
	return target.Define(name, v, false)
}

// Assign updates the nearest visible binding. Assigning to a constant or to
// an undeclared name is an error.
func (e *Env) Assign(name string, v Value) *Error {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.table[name]; ok {
			if b.konst {
				return &Error{Kind: DiagValue, Msg: "cannot reassign constant '" + name + "'"}
			}
			b.value = v
			return nil
		}
	}
	return &Error{Kind: DiagName, Msg: "undefined variable '" + name + "'"}
}

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.table[name]; ok {
			return b.value, true
		}
	}
	return Value{}, false
}

// ----- interpreter -----

// maxCallDepth bounds user-level recursion so deep programs fail with a
// clean RangeError instead of exhausting the host stack.
const maxCallDepth = 10000

// Interpreter evaluates Mew programs against a persistent global
// environment. Stdout receives everything purr writes.
type Interpreter struct {
	Core   *Env // builtins; parent of Global
	Global *Env // persistent program/REPL state
	Stdout io.Writer

	depth int // current user-call depth
}

// NewInterpreter constructs an engine with all builtins installed (see
// runtime.go) and an empty Global.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{Stdout: os.Stdout}
	ip.Core = NewEnv(nil)
	ip.Global = NewFuncEnv(ip.Core)
	registerBuiltins(ip)
	return ip
}

// EvalSource parses and evaluates a program in a fresh child of Global.
// Returns the last top-level expression value, or a *Error.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return Undefined, err
	}
	return ip.runTop(stmts, NewFuncEnv(ip.Global))
}

// EvalPersistentSource parses and evaluates a fragment directly in Global,
// so declarations persist across calls (REPL semantics).
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return Undefined, err
	}
	return ip.runTop(stmts, ip.Global)
}

// EvalFile reads path and evaluates its contents as a program.
func (ip *Interpreter) EvalFile(path string) (Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Undefined, err
	}
	return ip.EvalSource(string(src))
}
