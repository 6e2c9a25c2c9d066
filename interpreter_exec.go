// interpreter_exec.go — statement execution and the call engine.
//
// Statements evaluate to a completion: Normal, Break, Continue, BreakCase
// (clawt) or Return(value). Loops and catwalk consume the completions they
// understand and propagate the rest; a control completion that escapes to
// the top level is a runtime error.
//
// Runtime failures are raised as panics carrying *Error (see fail/failAt in
// interpreter_ops.go) and recovered once, in runTop. This keeps every
// evaluation path free of error plumbing while the public API still returns
// ordinary Go errors.
package mew

import "fmt"

type ctrlKind int

const (
	ctrlNormal ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlBreakCase
	ctrlReturn
)

type completion struct {
	kind  ctrlKind
	value Value
}

var normalDone = completion{kind: ctrlNormal, value: Undefined}

// runTop executes a parsed program in env and returns the value of the last
// top-level expression statement.
func (ip *Interpreter) runTop(stmts []Stmt, env *Env) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				out = Undefined
				err = e
				return
			}
			out = Undefined
			err = &Error{Kind: DiagInternal, Msg: fmt.Sprintf("runtime panic: %v", r)}
		}
	}()

	last := Undefined
	for _, s := range stmts {
		c := ip.evalStmt(s, env)
		switch c.kind {
		case ctrlNormal:
			if _, ok := s.(*ExprStmt); ok {
				last = c.value
			}
		case ctrlReturn:
			failAt(s.Pos(), DiagValue, "return outside of a function")
		case ctrlBreak:
			failAt(s.Pos(), DiagValue, "break outside of a loop or catwalk")
		case ctrlContinue:
			failAt(s.Pos(), DiagValue, "continue outside of a loop")
		case ctrlBreakCase:
			failAt(s.Pos(), DiagValue, "clawt outside of a catwalk")
		}
	}
	return last, nil
}

// evalStmts runs statements in env, stopping at the first non-normal
// completion.
func (ip *Interpreter) evalStmts(stmts []Stmt, env *Env) completion {
	for _, s := range stmts {
		if c := ip.evalStmt(s, env); c.kind != ctrlNormal {
			return c
		}
	}
	return normalDone
}

// evalBlock runs a block in a fresh child frame.
func (ip *Interpreter) evalBlock(b *BlockStmt, parent *Env) completion {
	return ip.evalStmts(b.Stmts, NewEnv(parent))
}

func (ip *Interpreter) evalStmt(s Stmt, env *Env) completion {
	switch s := s.(type) {
	case *ExprStmt:
		return completion{kind: ctrlNormal, value: ip.evalExpr(s.X, env)}

	case *VarDecl:
		v := Undefined
		if s.Init != nil {
			v = ip.evalExpr(s.Init, env)
		}
		var derr *Error
		switch s.Keyword {
		case CONST:
			derr = env.Define(s.Name, v, true)
		case LET:
			derr = env.Define(s.Name, v, false)
		default: // VAR
			derr = env.DefineVar(s.Name, v)
		}
		if derr != nil {
			raiseAt(derr, s.At)
		}
		return normalDone

	case *FuncDecl:
		fn := &Fun{Name: s.Name, Params: s.Params, Body: s.Body, Env: env}
		if derr := env.Define(s.Name, FunVal(fn), false); derr != nil {
			raiseAt(derr, s.At)
		}
		return normalDone

	case *BlockStmt:
		return ip.evalBlock(s, env)

	case *IfStmt:
		if ip.truthy(ip.evalExpr(s.Cond, env)) {
			return ip.evalBlock(s.Then, env)
		}
		for _, ei := range s.ElseIfs {
			if ip.truthy(ip.evalExpr(ei.Cond, env)) {
				return ip.evalBlock(ei.Body, env)
			}
		}
		if s.Else != nil {
			return ip.evalBlock(s.Else, env)
		}
		return normalDone

	case *WhileStmt:
		for ip.truthy(ip.evalExpr(s.Cond, env)) {
			c := ip.evalBlock(s.Body, env)
			switch c.kind {
			case ctrlNormal, ctrlContinue:
			case ctrlBreak:
				return normalDone
			default:
				return c
			}
		}
		return normalDone

	case *DoWhileStmt:
		for {
			c := ip.evalBlock(s.Body, env)
			switch c.kind {
			case ctrlNormal, ctrlContinue:
			case ctrlBreak:
				return normalDone
			default:
				return c
			}
			if !ip.truthy(ip.evalExpr(s.Cond, env)) {
				return normalDone
			}
		}

	case *ForStmt:
		scope := NewEnv(env)
		if s.Init != nil {
			if c := ip.evalStmt(s.Init, scope); c.kind != ctrlNormal {
				return c
			}
		}
		for s.Cond == nil || ip.truthy(ip.evalExpr(s.Cond, scope)) {
			c := ip.evalBlock(s.Body, scope)
			switch c.kind {
			case ctrlNormal, ctrlContinue:
			case ctrlBreak:
				return normalDone
			default:
				return c
			}
			if s.Step != nil {
				ip.evalExpr(s.Step, scope)
			}
		}
		return normalDone

	case *ForInStmt:
		return ip.evalForIn(s, env)

	case *SwitchStmt:
		return ip.evalSwitch(s, env)

	case *BreakStmt:
		return completion{kind: ctrlBreak, value: Undefined}

	case *ContinueStmt:
		return completion{kind: ctrlContinue, value: Undefined}

	case *CaseBreakStmt:
		return completion{kind: ctrlBreakCase, value: Undefined}

	case *ReturnStmt:
		v := Undefined
		if s.Value != nil {
			v = ip.evalExpr(s.Value, env)
		}
		return completion{kind: ctrlReturn, value: v}

	default:
		failAt(s.Pos(), DiagInternal, fmt.Sprintf("unhandled statement %T", s))
		return normalDone
	}
}

// evalForIn drives both fur-in (keys/indices) and fur-of (values). The loop
// variable is freshly bound for every iteration, scoped to the body.
func (ip *Interpreter) evalForIn(s *ForInStmt, env *Env) completion {
	iterable := ip.evalExpr(s.Iterable, env)

	var items []Value
	if s.Of {
		switch iterable.Tag {
		case VTArray:
			items = append(items, iterable.Data.(*ArrayObject).Elems...)
		case VTStr:
			for _, r := range iterable.Data.(string) {
				items = append(items, Str(string(r)))
			}
		default:
			failAt(s.Iterable.Pos(), DiagType, "fur-of cannot iterate over a "+typeName(iterable))
		}
	} else {
		switch iterable.Tag {
		case VTArray:
			for i := range iterable.Data.(*ArrayObject).Elems {
				items = append(items, Num(float64(i)))
			}
		case VTObject:
			mo := iterable.Data.(*MapObject)
			keys := append([]string(nil), mo.Keys...)
			for _, k := range keys {
				items = append(items, Str(k))
			}
		case VTStr:
			n := 0
			for range iterable.Data.(string) {
				items = append(items, Num(float64(n)))
				n++
			}
		default:
			failAt(s.Iterable.Pos(), DiagType, "fur-in cannot iterate over a "+typeName(iterable))
		}
	}

	for _, item := range items {
		iterEnv := NewEnv(env)
		if derr := iterEnv.Define(s.Name, item, s.Keyword == CONST); derr != nil {
			raiseAt(derr, s.At)
		}
		c := ip.evalBlock(s.Body, iterEnv)
		switch c.kind {
		case ctrlNormal, ctrlContinue:
		case ctrlBreak:
			return normalDone
		default:
			return c
		}
	}
	return normalDone
}

// evalSwitch compares the scrutinee against each claw value with == in
// source order. Execution starts at the first match (or default) and falls
// through until a clawt, a break, or the end of the catwalk.
func (ip *Interpreter) evalSwitch(s *SwitchStmt, env *Env) completion {
	sv := ip.evalExpr(s.Scrutinee, env)

	start := -1
	defaultIdx := -1
	for i, c := range s.Cases {
		if c.Test == nil {
			if defaultIdx < 0 {
				defaultIdx = i
			}
			continue
		}
		if valueEquals(sv, ip.evalExpr(c.Test, env)) {
			start = i
			break
		}
	}
	if start < 0 {
		start = defaultIdx
	}
	if start < 0 {
		return normalDone
	}

	caseEnv := NewEnv(env)
	for i := start; i < len(s.Cases); i++ {
		for _, st := range s.Cases[i].Body {
			c := ip.evalStmt(st, caseEnv)
			switch c.kind {
			case ctrlNormal:
			case ctrlBreak, ctrlBreakCase:
				return normalDone
			default:
				return c
			}
		}
	}
	return normalDone
}

// callFunction applies a function or builtin to already-evaluated
// arguments. Extra arguments are ignored; missing ones arrive as Undefined.
func (ip *Interpreter) callFunction(callee Value, args []Value, at Pos) Value {
	switch callee.Tag {
	case VTNative:
		return callee.Data.(*NativeFun).Fn(ip, args)

	case VTFun:
		f := callee.Data.(*Fun)
		if ip.depth >= maxCallDepth {
			failAt(at, DiagRange, "maximum call depth exceeded")
		}
		ip.depth++
		defer func() { ip.depth-- }()

		env := NewFuncEnv(f.Env)
		for i, name := range f.Params {
			v := Undefined
			if i < len(args) {
				v = args[i]
			}
			if derr := env.Define(name, v, false); derr != nil {
				raiseAt(derr, at)
			}
		}

		c := ip.evalStmts(f.Body, env)
		switch c.kind {
		case ctrlReturn:
			return c.value
		case ctrlNormal:
			return Undefined
		case ctrlBreak:
			failAt(at, DiagValue, "break outside of a loop or catwalk")
		case ctrlContinue:
			failAt(at, DiagValue, "continue outside of a loop")
		default:
			failAt(at, DiagValue, "clawt outside of a catwalk")
		}
		return Undefined

	default:
		failAt(at, DiagType, "cannot call a "+typeName(callee))
		return Undefined
	}
}
