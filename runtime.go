// runtime.go — builtin wiring.
package mew

// Version is the interpreter version reported by the CLI.
const Version = "0.3.0"

// registerBuiltins installs the standard globals into Core. Everything is
// defined const, so user code can shadow a builtin with a declaration but
// cannot assign over it.
func registerBuiltins(ip *Interpreter) {
	registerCoreBuiltins(ip)
	registerMathBuiltins(ip)
	registerJSONBuiltins(ip)
	registerTimeBuiltins(ip)
}

// defineCore binds a builtin name in Core.
func defineCore(ip *Interpreter, name string, v Value) {
	if derr := ip.Core.Define(name, v, true); derr != nil {
		fail(DiagInternal, "duplicate builtin '"+name+"'")
	}
}
