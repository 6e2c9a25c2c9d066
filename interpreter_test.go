package mew

import (
	"bytes"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// runSrc evaluates a program and returns everything purr wrote.
func runSrc(t *testing.T, src string) string {
	t.Helper()
	ip := NewInterpreter()
	var out bytes.Buffer
	ip.Stdout = &out
	if _, err := ip.EvalSource(src); err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return out.String()
}

// evalSrc evaluates a program and returns the last expression value.
func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := NewInterpreter()
	ip.Stdout = &bytes.Buffer{}
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v
}

// runErr evaluates a program expecting a runtime error of the given kind;
// it returns the error and whatever was printed before the failure.
func runErr(t *testing.T, src string, kind Kind) (*Error, string) {
	t.Helper()
	ip := NewInterpreter()
	var out bytes.Buffer
	ip.Stdout = &out
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("expected error for:\n%s", src)
	}
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if e.Kind != kind {
		t.Fatalf("want %v, got %v (%v)", kind, e.Kind, e)
	}
	return e, out.String()
}

func wantOut(t *testing.T, src, want string) {
	t.Helper()
	if got := runSrc(t, src); got != want {
		t.Fatalf("output mismatch\nsource:\n%s\nwant: %q\ngot:  %q", src, want, got)
	}
}

func wantLines(t *testing.T, src string, lines ...string) {
	t.Helper()
	wantOut(t, src, strings.Join(lines, "\n")+"\n")
}

func wantNum(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTNumber || v.Data.(float64) != f {
		t.Fatalf("want number %v, got %#v", f, v)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.Data.(string) != s {
		t.Fatalf("want string %q, got %#v", s, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

// --- the end-to-end scenarios ----------------------------------------------

func Test_Eval_Scenario_Hello(t *testing.T) {
	wantLines(t, `purr("Hello, Mew world!");`, "Hello, Mew world!")
}

func Test_Eval_Scenario_ArithmeticAndStringJoin(t *testing.T) {
	wantLines(t, `purr("sum=" + (2 + 3)); purr("cat=" + 10 + 5);`,
		"sum=5", "cat=105")
}

func Test_Eval_Scenario_ClosureCounter(t *testing.T) {
	wantLines(t, `
		cat makeCounter() {
			catv n = 0;
			return cat() { n = n + 1; return n; };
		}
		catlt c = makeCounter();
		purr(c()); purr(c()); purr(c());
	`, "1", "2", "3")
}

func Test_Eval_Scenario_Recursion(t *testing.T) {
	wantLines(t, `
		cat fact(n) {
			meow? (n <= 1) { return 1; }
			hiss { return n * fact(n - 1); }
		}
		purr(fact(5));
	`, "120")
}

func Test_Eval_Scenario_ArrayIteration(t *testing.T) {
	wantLines(t, `
		catlt xs = ["a","b","c"];
		fur (catlt i = 0; i < xs.length; i++) { purr(i + ":" + xs[i]); }
	`, "0:a", "1:b", "2:c")
}

func Test_Eval_Scenario_ObjectAccess(t *testing.T) {
	wantLines(t, `
		catlt k = { name: "Whiskers", age: 3 };
		purr(k.name + " is " + k.age);
	`, "Whiskers is 3")
}

func Test_Eval_Scenario_JSONRoundTrip(t *testing.T) {
	wantLines(t, `
		catlt o = MewJ.sniff('{"x":1,"y":[true,null,"s"]}');
		purr(MewJ.mewify(o));
	`, `{"x":1,"y":[true,null,"s"]}`)
}

func Test_Eval_Scenario_ConstReassignment(t *testing.T) {
	e, printed := runErr(t, `catst P = 1; P = 2;`, DiagValue)
	if printed != "" {
		t.Fatalf("nothing should print, got %q", printed)
	}
	if !strings.Contains(e.Msg, "constant") {
		t.Fatalf("message should mention the constant: %v", e)
	}
}

// --- arithmetic, coercion, comparison --------------------------------------

func Test_Eval_Arithmetic(t *testing.T) {
	wantNum(t, evalSrc(t, `2 + 3 * 4;`), 14)
	wantNum(t, evalSrc(t, `(2 + 3) * 4;`), 20)
	wantNum(t, evalSrc(t, `10 % 3;`), 1)
	wantNum(t, evalSrc(t, `1 + true;`), 2)
	wantNum(t, evalSrc(t, `"5" * "2";`), 10)
	wantNum(t, evalSrc(t, `-"3";`), -3)
	wantNum(t, evalSrc(t, `1 + null;`), 1)
}

func Test_Eval_DivisionByZero(t *testing.T) {
	wantLines(t, `purr(1/0); purr(-1/0); purr(0/0);`,
		"Infinity", "-Infinity", "NaN")
}

func Test_Eval_StringConcatenation(t *testing.T) {
	wantStr(t, evalSrc(t, `"a" + 1 + true + null + undefined;`), "a1truenullundefined")
	wantStr(t, evalSrc(t, `1 + 2 + "a";`), "3a")
	wantStr(t, evalSrc(t, `"xs=" + [1, [2, "3"]];`), "xs=[1, [2, 3]]")
}

func Test_Eval_Comparisons(t *testing.T) {
	wantBool(t, evalSrc(t, `"apple" < "banana";`), true)
	wantBool(t, evalSrc(t, `"b" < "apple";`), false)
	wantBool(t, evalSrc(t, `"10" < 9;`), false)
	wantBool(t, evalSrc(t, `"10" > 9;`), true)
	wantBool(t, evalSrc(t, `NaN < 1;`), false)
	wantBool(t, evalSrc(t, `NaN >= 1;`), false)
	wantBool(t, evalSrc(t, `2 <= 2;`), true)
}

func Test_Eval_Equality(t *testing.T) {
	wantBool(t, evalSrc(t, `1 == 1;`), true)
	wantBool(t, evalSrc(t, `1 == "1";`), false)
	wantBool(t, evalSrc(t, `null == undefined;`), false)
	wantBool(t, evalSrc(t, `null == null;`), true)
	wantBool(t, evalSrc(t, `NaN == NaN;`), false)
	wantBool(t, evalSrc(t, `NaN != NaN;`), true)
	wantBool(t, evalSrc(t, `[1] == [1];`), false)
	wantBool(t, evalSrc(t, `catlt a = [1]; catlt b = a; a == b;`), true)
	wantBool(t, evalSrc(t, `({} == {});`), false)
	wantBool(t, evalSrc(t, `catlt o = {}; catlt p = o; o == p;`), true)
}

func Test_Eval_Truthiness(t *testing.T) {
	// Exactly six falsy values.
	for _, falsy := range []string{`false`, `null`, `undefined`, `NaN`, `0`, `""`} {
		wantBool(t, evalSrc(t, `!`+falsy+`;`), true)
	}
	for _, truthy := range []string{`true`, `1`, `-1`, `"0"`, `" "`, `[]`, `{}`, `cat(){}`} {
		wantBool(t, evalSrc(t, `!(`+truthy+`);`), false)
	}
}

func Test_Eval_LogicalOperatorsReturnOperands(t *testing.T) {
	wantStr(t, evalSrc(t, `0 || "fallback";`), "fallback")
	wantNum(t, evalSrc(t, `1 && 2;`), 2)
	wantNum(t, evalSrc(t, `0 && 2;`), 0)
	wantStr(t, evalSrc(t, `"first" || "second";`), "first")
}

func Test_Eval_ShortCircuitSkipsSideEffects(t *testing.T) {
	wantLines(t, `
		cat loud() { purr("boom"); return true; }
		false && loud();
		true || loud();
		purr("done");
	`, "done")
}

func Test_Eval_Ternary(t *testing.T) {
	wantStr(t, evalSrc(t, `1 ? "a" : "b";`), "a")
	wantStr(t, evalSrc(t, `"" ? "a" : "b";`), "b")
	wantLines(t, `
		cat loud() { purr("boom"); return "x"; }
		purr(true ? "quiet" : loud());
	`, "quiet")
}

// --- declarations, scoping, assignment -------------------------------------

func Test_Eval_LetIsBlockScoped(t *testing.T) {
	runErr(t, `{ catlt y = 1; } purr(y);`, DiagName)
	wantLines(t, `catlt y = 1; { catlt y = 2; purr(y); } purr(y);`, "2", "1")
}

func Test_Eval_VarIsFunctionScoped(t *testing.T) {
	wantLines(t, `
		cat f() {
			meow? (true) { catv x = 41; }
			x = x + 1;
			return x;
		}
		purr(f());
	`, "42")
}

func Test_Eval_RedeclarationRejected(t *testing.T) {
	runErr(t, `catlt z = 1; catlt z = 2;`, DiagName)
	runErr(t, `catst z = 1; catv z = 2;`, DiagName)
	runErr(t, `cat f(){} catlt f = 1;`, DiagName)
}

func Test_Eval_UndeclaredAssignmentRejected(t *testing.T) {
	runErr(t, `missing = 1;`, DiagName)
	runErr(t, `purr(missing);`, DiagName)
}

func Test_Eval_ConstDeepMutationAllowed(t *testing.T) {
	// The binding is constant, not the referenced object.
	wantLines(t, `
		catst o = { n: 1 };
		o.n = 2;
		purr(o.n);
		catst xs = [];
		xs.push(9);
		purr(xs[0]);
	`, "2", "9")
}

func Test_Eval_CompoundAssignment(t *testing.T) {
	wantNum(t, evalSrc(t, `catlt a = 10; a += 5; a -= 3; a *= 2; a /= 4; a %= 4; a;`), 2)
	wantStr(t, evalSrc(t, `catlt s = "a"; s += 1; s;`), "a1")
	wantNum(t, evalSrc(t, `catlt xs = [1, 2]; xs[0] += 5; xs[0];`), 6)
	wantNum(t, evalSrc(t, `catlt o = { n: 1 }; o.n += 2; o.n;`), 3)
}

func Test_Eval_IncrementDecrement(t *testing.T) {
	wantLines(t, `
		catlt i = 5;
		purr(i++); purr(i);
		purr(++i); purr(i--);
		purr(--i); purr(i);
	`, "5", "6", "7", "7", "5", "5")
	wantNum(t, evalSrc(t, `catlt o = { n: 1 }; o.n++; o.n;`), 2)
	runErr(t, `5++;`, DiagType)
}

func Test_Eval_AssignmentIsAnExpression(t *testing.T) {
	wantNum(t, evalSrc(t, `catlt a = 0; catlt b = (a = 3) + 1; b;`), 4)
}

func Test_Eval_ShadowingBuiltins(t *testing.T) {
	wantNum(t, evalSrc(t, `catlt purr = 5; purr;`), 5)
	runErr(t, `purr = 5;`, DiagValue)
}

// --- control flow ----------------------------------------------------------

func Test_Eval_IfElseIfElse(t *testing.T) {
	src := `
		cat judge(n) {
			meow? (n < 0) { return "neg"; }
			meowse? (n == 0) { return "zero"; }
			meowse? (n < 10) { return "small"; }
			hiss { return "big"; }
		}
		purr(judge(-1)); purr(judge(0)); purr(judge(5)); purr(judge(50));
	`
	wantLines(t, src, "neg", "zero", "small", "big")
}

func Test_Eval_WhileBreakContinue(t *testing.T) {
	wantLines(t, `
		catlt i = 0;
		catlt s = "";
		mewhile (true) {
			i++;
			meow? (i == 2) { continue; }
			meow? (i > 4) { break; }
			s = s + i;
		}
		purr(s);
	`, "134")
}

func Test_Eval_DoWhileRunsBodyFirst(t *testing.T) {
	wantLines(t, `
		catlt i = 10;
		domeow { purr("ran"); i++; } mewhile (i < 3);
		purr(i);
	`, "ran", "11")
}

func Test_Eval_ForLoopClausesOptional(t *testing.T) {
	wantLines(t, `
		catlt s = "";
		fur (catlt i = 0; ; i++) {
			meow? (i >= 3) { break; }
			s = s + i;
		}
		purr(s);
	`, "012")
}

func Test_Eval_ForInObjectKeysInsertionOrder(t *testing.T) {
	wantLines(t, `
		catlt o = { b: 1, a: 2, c: 3 };
		catlt ks = "";
		fur (catlt k in o) { ks = ks + k; }
		purr(ks);
	`, "bac")
}

func Test_Eval_ForInArrayIndicesAreNumbers(t *testing.T) {
	wantLines(t, `
		catlt xs = [10, 20, 30];
		catlt total = 0;
		fur (catlt i in xs) { total = total + i; }
		purr(total);
	`, "3")
}

func Test_Eval_ForOfValues(t *testing.T) {
	wantLines(t, `
		catlt total = 0;
		fur (catlt v of [10, 20, 30]) { total += v; }
		purr(total);
		catlt s = "";
		fur (catlt ch of "mew") { s = s + ch + "."; }
		purr(s);
	`, "60", "m.e.w.")
}

func Test_Eval_ForOfObjectIsTypeError(t *testing.T) {
	runErr(t, `fur (catlt v of {a: 1}) {}`, DiagType)
}

func Test_Eval_ForInStringIndices(t *testing.T) {
	wantLines(t, `
		catlt s = "";
		fur (catlt i in "mew") { s = s + i; }
		purr(s);
	`, "012")
}

func Test_Eval_Switch_MatchAndClawt(t *testing.T) {
	src := `
		cat pick(x) {
			catlt r = "";
			catwalk (x) {
				claw 1: r = r + "a"; clawt;
				claw 2: r = r + "b";
				claw 3: r = r + "c"; clawt;
				default: r = r + "d";
			}
			return r;
		}
		purr(pick(1)); purr(pick(2)); purr(pick(3)); purr(pick(9));
	`
	// claw 2 has no clawt, so it falls through into claw 3.
	wantLines(t, src, "a", "bc", "c", "d")
}

func Test_Eval_Switch_BreakTerminates(t *testing.T) {
	wantLines(t, `
		catwalk (1) {
			claw 1: purr("one"); break; purr("never");
			default: purr("no");
		}
		purr("after");
	`, "one", "after")
}

func Test_Eval_Switch_MatchesByValueEquality(t *testing.T) {
	wantLines(t, `
		catwalk ("b") {
			claw "a": purr("A"); clawt;
			claw "b": purr("B"); clawt;
		}
	`, "B")
}

func Test_Eval_BreakInsideLoopInsideSwitchCase(t *testing.T) {
	wantLines(t, `
		catwalk (1) {
			claw 1:
				fur (catlt i = 0; i < 9; i++) {
					meow? (i == 2) { break; }
					purr(i);
				}
				purr("case done");
				clawt;
		}
	`, "0", "1", "case done")
}

func Test_Eval_ControlFlowOutsidePlace(t *testing.T) {
	runErr(t, `break;`, DiagValue)
	runErr(t, `continue;`, DiagValue)
	runErr(t, `clawt;`, DiagValue)
	runErr(t, `return 1;`, DiagValue)
	runErr(t, `cat f() { break; } f();`, DiagValue)
}

// --- functions and closures ------------------------------------------------

func Test_Eval_FunctionsAreValues(t *testing.T) {
	wantLines(t, `
		cat twice(f, x) { return f(f(x)); }
		purr(twice(cat(n) { return n + 1; }, 5));
	`, "7")
}

func Test_Eval_ExtraAndMissingArguments(t *testing.T) {
	wantLines(t, `
		cat one(a) { return a; }
		purr(one(1, 2, 3));
		purr(one());
	`, "1", "undefined")
}

func Test_Eval_FallingOffTheEndYieldsUndefined(t *testing.T) {
	wantLines(t, `cat g() { catlt x = 1; } purr(g());`, "undefined")
	wantLines(t, `cat h() { return; } purr(h());`, "undefined")
}

func Test_Eval_ClosuresCaptureByReference(t *testing.T) {
	wantLines(t, `
		catlt n = 1;
		cat get() { return n; }
		n = 42;
		purr(get());
	`, "42")
}

func Test_Eval_ClosuresShareOneEnvironment(t *testing.T) {
	wantLines(t, `
		cat makePair() {
			catv n = 0;
			return [cat() { n++; return n; }, cat() { return n; }];
		}
		catlt pair = makePair();
		pair[0](); pair[0]();
		purr(pair[1]());
	`, "2")
}

func Test_Eval_CallingNonFunction(t *testing.T) {
	runErr(t, `catlt x = 3; x();`, DiagType)
	runErr(t, `null();`, DiagType)
}

func Test_Eval_RecursionDepthGuard(t *testing.T) {
	e, _ := runErr(t, `cat r() { return r(); } r();`, DiagRange)
	if !strings.Contains(e.Msg, "depth") {
		t.Fatalf("message should mention depth: %v", e)
	}
}

// --- member and index access -----------------------------------------------

func Test_Eval_MemberAccess(t *testing.T) {
	wantNum(t, evalSrc(t, `catlt o = { a: 1 }; o.a;`), 1)
	v := evalSrc(t, `catlt o = { a: 1 }; o.missing;`)
	if v.Tag != VTUndefined {
		t.Fatalf("missing property should be undefined, got %#v", v)
	}
	runErr(t, `null.x;`, DiagType)
	runErr(t, `undefined.x;`, DiagType)
	runErr(t, `catlt o = {}; o.a.b;`, DiagType)
}

func Test_Eval_IndexAccess(t *testing.T) {
	wantStr(t, evalSrc(t, `["a","b"][1];`), "b")
	wantNum(t, evalSrc(t, `catlt o = { x: 7 }; o["x"];`), 7)
	wantNum(t, evalSrc(t, `catlt o = { "1": 5 }; o[1];`), 5)
	wantStr(t, evalSrc(t, `"mew"[0];`), "m")
	wantStr(t, evalSrc(t, `"héllo"[1];`), "é")

	if v := evalSrc(t, `[1][5];`); v.Tag != VTUndefined {
		t.Fatalf("out of range should be undefined, got %#v", v)
	}
	if v := evalSrc(t, `"ab"[9];`); v.Tag != VTUndefined {
		t.Fatalf("out of range should be undefined, got %#v", v)
	}
	runErr(t, `[1][-1];`, DiagRange)
	runErr(t, `[1][0.5];`, DiagRange)
	runErr(t, `3[0];`, DiagType)
	runErr(t, `null[0];`, DiagType)
}

func Test_Eval_IndexAssignment(t *testing.T) {
	wantLines(t, `
		catlt xs = [1];
		xs[0] = 5;
		xs[2] = 7;
		purr(xs);
		catlt o = {};
		o["k"] = 1;
		o[2] = "two";
		purr(o);
	`, "[5, undefined, 7]", "{k: 1, 2: two}")
	runErr(t, `"abc"[0] = "x";`, DiagType)
}

func Test_Eval_ObjectKeyOrderStableOnOverwrite(t *testing.T) {
	wantLines(t, `
		catlt o = { a: 1, b: 2 };
		o.a = 9;
		o.c = 3;
		purr(o);
	`, "{a: 9, b: 2, c: 3}")
}

func Test_Eval_ArraysShareIdentity(t *testing.T) {
	wantLines(t, `
		catlt a = [1];
		catlt b = a;
		b.push(2);
		purr(a.length);
		cat grow(xs) { xs.push(99); }
		grow(a);
		purr(a[2]);
	`, "2", "99")
}

func Test_Eval_StringMethods(t *testing.T) {
	wantNum(t, evalSrc(t, `"héllo".length;`), 5)
	wantStr(t, evalSrc(t, `"hello".charAt(1);`), "e")
	wantStr(t, evalSrc(t, `"hello".charAt(99);`), "")
	wantStr(t, evalSrc(t, `"hello".substring(1, 3);`), "el")
	wantStr(t, evalSrc(t, `"hello".substring(3);`), "lo")
	wantStr(t, evalSrc(t, `"hello".substring(3, 1);`), "el")
	wantNum(t, evalSrc(t, `"hello".indexOf("ll");`), 2)
	wantNum(t, evalSrc(t, `"hello".indexOf("z");`), -1)
	wantStr(t, evalSrc(t, `"mew".toUpperCase();`), "MEW")
	wantStr(t, evalSrc(t, `"MEW".toLowerCase();`), "mew")
	wantStr(t, evalSrc(t, `"  x  ".trim();`), "x")
	wantLines(t, `purr("a,b,c".split(","));`, "[a, b, c]")
	wantLines(t, `purr("mew".split(""));`, "[m, e, w]")
}

func Test_Eval_ArrayMethods(t *testing.T) {
	wantLines(t, `
		catlt xs = [1, 2];
		xs.push(3, 4);
		purr(xs);
		purr(xs.pop());
		purr(xs.shift());
		xs.unshift(0);
		purr(xs);
		purr(xs.join("-"));
		purr(xs.indexOf(3));
		purr(xs.includes(2));
		purr(xs.slice(1));
		purr([1,2,3,4].slice(1, -1));
	`,
		"[1, 2, 3, 4]",
		"4",
		"1",
		"[0, 2, 3]",
		"0-2-3",
		"2",
		"true",
		"[2, 3]",
		"[2, 3]",
	)
	if v := evalSrc(t, `[].pop();`); v.Tag != VTUndefined {
		t.Fatalf("pop of empty should be undefined, got %#v", v)
	}
}

// --- builtin namespace plumbing --------------------------------------------

func Test_Eval_NamespaceMemberLookup(t *testing.T) {
	wantNum(t, evalSrc(t, `Mewth["PI"];`), 3.141592653589793)
	runErr(t, `Mewth.meowMeow;`, DiagName)
	runErr(t, `Mewth.PI = 4;`, DiagValue)
}

func Test_Eval_CorePredicates(t *testing.T) {
	wantBool(t, evalSrc(t, `isNumber(3);`), true)
	wantBool(t, evalSrc(t, `isString("s");`), true)
	wantBool(t, evalSrc(t, `isBoolean(false);`), true)
	wantBool(t, evalSrc(t, `isNull(null);`), true)
	wantBool(t, evalSrc(t, `isNull(undefined);`), false)
	wantBool(t, evalSrc(t, `isUndefined(undefined);`), true)
	wantBool(t, evalSrc(t, `isArray([]);`), true)
	wantBool(t, evalSrc(t, `isObject({});`), true)
	wantBool(t, evalSrc(t, `isObject([]);`), false)
	wantBool(t, evalSrc(t, `isFunction(cat(){});`), true)
	wantBool(t, evalSrc(t, `isFunction(purr);`), true)
}

func Test_Eval_ObjectNamespace(t *testing.T) {
	wantLines(t, `
		catlt o = { b: 1, a: 2 };
		purr(Object.keys(o));
		purr(Object.values(o));
	`, "[b, a]", "[1, 2]")
	runErr(t, `Object.keys([1]);`, DiagType)
}

func Test_Eval_ToString(t *testing.T) {
	wantStr(t, evalSrc(t, `toString(42);`), "42")
	wantStr(t, evalSrc(t, `toString([1, 2]);`), "[1, 2]")
	wantStr(t, evalSrc(t, `toString(null);`), "null")
}

// --- sessions --------------------------------------------------------------

func Test_Eval_PersistentSessionKeepsState(t *testing.T) {
	ip := NewInterpreter()
	ip.Stdout = &bytes.Buffer{}

	if _, err := ip.EvalPersistentSource(`catlt n = 1;`); err != nil {
		t.Fatalf("first fragment: %v", err)
	}
	v, err := ip.EvalPersistentSource(`n + 1;`)
	if err != nil {
		t.Fatalf("second fragment: %v", err)
	}
	wantNum(t, v, 2)

	// A failing fragment leaves earlier state intact.
	if _, err := ip.EvalPersistentSource(`boom();`); err == nil {
		t.Fatalf("expected error")
	}
	v, err = ip.EvalPersistentSource(`n;`)
	if err != nil {
		t.Fatalf("after error: %v", err)
	}
	wantNum(t, v, 1)
}

func Test_Eval_LastExpressionValueSurfaces(t *testing.T) {
	wantNum(t, evalSrc(t, `1 + 1; 2 + 2;`), 4)
	v := evalSrc(t, `catlt a = 5;`)
	if v.Tag != VTUndefined {
		t.Fatalf("declaration alone should yield undefined, got %#v", v)
	}
}
