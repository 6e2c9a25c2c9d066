// builtin_math.go — the Mewth namespace.
//
// All functions coerce their arguments with the standard to-number rules.
// curl rounds half away from zero; tailDirection is the sign function with
// NaN passing through.
package mew

import (
	"math"
	"math/rand"
)

func registerMathBuiltins(ip *Interpreter) {
	mewth := &Namespace{Name: "Mewth", Members: NewMapObject()}

	mewth.Members.Set("PI", Num(math.Pi))

	unary := func(name string, f func(float64) float64) {
		mewth.Members.Set(name, NativeVal(name, func(_ *Interpreter, args []Value) Value {
			return Num(f(toNumber(argOr(args, 0))))
		}))
	}
	unary("pounce", math.Floor)
	unary("leap", math.Ceil)
	unary("curl", math.Round)
	unary("lick", math.Abs)

	// dig(x) — square root; negative input is rejected rather than NaN.
	mewth.Members.Set("dig", NativeVal("dig", func(_ *Interpreter, args []Value) Value {
		n := toNumber(argOr(args, 0))
		if n < 0 {
			fail(DiagValue, "Mewth.dig: cannot take the square root of a negative number")
		}
		return Num(math.Sqrt(n))
	}))

	// scratch(b, e) — power.
	mewth.Members.Set("scratch", NativeVal("scratch", func(_ *Interpreter, args []Value) Value {
		return Num(math.Pow(toNumber(argOr(args, 0)), toNumber(argOr(args, 1))))
	}))

	// alpha(...xs) — maximum. NaN in the inputs wins.
	mewth.Members.Set("alpha", NativeVal("alpha", func(_ *Interpreter, args []Value) Value {
		if len(args) == 0 {
			fail(DiagType, "Mewth.alpha requires at least one argument")
		}
		best := math.Inf(-1)
		for _, a := range args {
			n := toNumber(a)
			if math.IsNaN(n) {
				return Num(n)
			}
			if n > best {
				best = n
			}
		}
		return Num(best)
	}))

	// kitten(...xs) — minimum. NaN in the inputs wins.
	mewth.Members.Set("kitten", NativeVal("kitten", func(_ *Interpreter, args []Value) Value {
		if len(args) == 0 {
			fail(DiagType, "Mewth.kitten requires at least one argument")
		}
		best := math.Inf(1)
		for _, a := range args {
			n := toNumber(a)
			if math.IsNaN(n) {
				return Num(n)
			}
			if n < best {
				best = n
			}
		}
		return Num(best)
	}))

	// chase() — uniform random in [0, 1).
	mewth.Members.Set("chase", NativeVal("chase", func(_ *Interpreter, _ []Value) Value {
		return Num(rand.Float64())
	}))

	// tailDirection(x) — sign: -1, 0 or +1; NaN stays NaN.
	mewth.Members.Set("tailDirection", NativeVal("tailDirection", func(_ *Interpreter, args []Value) Value {
		n := toNumber(argOr(args, 0))
		switch {
		case math.IsNaN(n):
			return Num(n)
		case n > 0:
			return Num(1)
		case n < 0:
			return Num(-1)
		default:
			return Num(0)
		}
	}))

	defineCore(ip, "Mewth", NamespaceVal(mewth))
}
