package compiler

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/sym"
)

// resolveIterCall resolves a for-loop's "iter_expr(args)" call to the
// IteratorSym it names, plain or generic, without generating any argument
// code yet (spec §4.6 step 1).
func (g *gen) resolveIterCall(call *ast.CallExpr) (*sym.IteratorSym, []ast.Expr, error) {
	switch fn := ast.Unwrap(call.Fn).(type) {
	case *ast.Ident:
		s, ok := g.lookup(fn.Name)
		if !ok {
			return nil, nil, g.errorf(fn.Pos(), errors.UndefinedReference, "'%s' is not declared", fn.Name)
		}
		if isGenericSym(s) {
			return nil, nil, g.errorf(fn.Pos(), errors.CouldNotInferGeneric,
				"'%s' is generic and must be referenced as '%s[...]'", fn.Name, fn.Name)
		}
		switch v := s.(type) {
		case *sym.IteratorSym:
			return v, call.Args, nil
		case *sym.ChoiceSym:
			// argument expressions aren't evaluated yet at this point (spec
			// §4.6 step 1), so overloaded iterators can only be picked apart
			// by arity here; a genuine ambiguity between same-arity
			// overloads is reported the same as an ambiguous proc call.
			it, err := g.resolveIterChoice(fn, v, len(call.Args))
			if err != nil {
				return nil, nil, err
			}
			return it, call.Args, nil
		default:
			return nil, nil, g.errorf(fn.Pos(), errors.SymKindMismatch, "'%s' is not an iterator", fn.Name)
		}
	case *ast.IndexExpr:
		inst, err := g.instantiateGeneric(fn)
		if err != nil {
			return nil, nil, err
		}
		it, ok := inst.(*sym.IteratorSym)
		if !ok {
			return nil, nil, g.errorf(fn.Pos(), errors.SymKindMismatch, "generic reference is not an iterator")
		}
		return it, call.Args, nil
	default:
		return nil, nil, g.syntaxf(call.Pos(), "for-loop iterator must be a name or a generic reference")
	}
}

// resolveIterChoice picks the single member of an overloaded iterator
// set whose arity matches nArgs, erroring if none or more than one do.
func (g *gen) resolveIterChoice(fn *ast.Ident, choice *sym.ChoiceSym, nArgs int) (*sym.IteratorSym, error) {
	var match *sym.IteratorSym
	for _, it := range choice.Iterators {
		if len(it.Params) == nArgs {
			if match != nil {
				return nil, g.errorf(fn.Pos(), errors.TypeMismatchChoice, "ambiguous call to overloaded iterator '%s'", fn.Name)
			}
			match = it
		}
	}
	if match == nil {
		return nil, g.errorf(fn.Pos(), errors.TypeMismatchChoice, "no overload of iterator '%s' takes %d argument(s)", fn.Name, nArgs)
	}
	return match, nil
}

// forStmt lowers "for x in iter_expr(args) { body }" by splicing: there is
// no iterator object or resume instruction in the bytecode, so the
// iterator's own declaration body is compiled directly into the current
// chunk, and every "yield v" inside it is replaced by the caller's body
// with x bound to v (spec §4.6).
func (g *gen) forStmt(s *ast.ForStmt) error {
	iterSym, iterArgs, err := g.resolveIterCall(s.Iter)
	if err != nil {
		return err
	}
	body, ok := g.c.iterBodies[iterSym]
	if !ok {
		return g.errorf(s.Iter.Pos(), errors.SymKindMismatch, "'%s' is not an iterator", iterSym.Name)
	}
	if len(iterArgs) != len(iterSym.Params) {
		return g.errorf(s.Iter.Pos(), errors.TypeMismatch, "'%s' called with the wrong number of arguments", iterSym.Name)
	}

	// a fresh context keeps the iterator's own locals invisible to the
	// caller and vice versa (spec §4.3 Lookup, §4.6 step 4); the outer flow
	// block is stamped with the CALLER's context so a "break" spliced deep
	// inside the iterator's body still finds it.
	callerCtx := g.context
	innerCtx := g.c.Module.NewContext()
	outer := g.pushFlow(loopOuter, callerCtx)
	defer g.popFlow()

	innerScope := sym.NewScope(g.c.Module.Root, innerCtx)
	for i, p := range iterSym.Params {
		argTy, err := g.expr(iterArgs[i])
		if err != nil {
			return err
		}
		if !p.Type.SameAs(argTy) {
			return g.errorf(iterArgs[i].Pos(), errors.TypeMismatch, "'%s' argument %d must be '%s'", iterSym.Name, i, p.Type.Name)
		}
		v := &sym.VarSym{Name: p.Name, Type: p.Type, Let: true, Local: true, StackPos: g.nLocals}
		g.nLocals++
		innerScope.Declare(p.Name, v)
		g.chunk.SetPos(iterArgs[i].Pos())
		g.chunk.EmitOp(chunk.PopL)
		g.chunk.EmitU8(v.StackPos)
	}

	prevScope, prevCtx := g.scope, g.context
	prevBody, prevVar, prevIterCtx, prevYieldTy := g.iterForBody, g.iterForVar, g.iterForCtx, g.iterYieldTy
	prevForScope := g.iterForScope

	g.scope, g.context = innerScope, innerCtx
	g.iterForBody = s.Body
	g.iterForVar = s.Var
	g.iterForCtx = callerCtx
	g.iterYieldTy = iterSym.YieldTy
	g.iterForScope = prevScope

	err = g.stmts(body.Stmts)

	g.scope, g.context = prevScope, prevCtx
	g.iterForBody, g.iterForVar, g.iterForCtx, g.iterYieldTy = prevBody, prevVar, prevIterCtx, prevYieldTy
	g.iterForScope = prevForScope
	if err != nil {
		return err
	}

	g.chunk.SetPos(body.Rbrace)
	for _, h := range outer.breaks {
		g.chunk.PatchHoleU16(h)
	}
	return nil
}

// yieldStmt splices the enclosing for-loop's body in at the yield point
// (spec §4.6 steps 5-7): it is valid only while compiling the body of an
// iterator currently being spliced (g.context must be the iterator's own
// context, not the caller's — the same check that rejects a "yield" typed
// outside any iterator, since g.iterForBody is nil there too).
func (g *gen) yieldStmt(y *ast.YieldStmt) error {
	if g.iterForBody == nil || g.context == g.iterForCtx {
		return g.errorf(y.Pos(), errors.OnlyUsableInAnIterator,
			"'yield' is only valid directly inside an iterator body consumed by a for loop")
	}
	valTy, err := g.expr(y.Value)
	if err != nil {
		return err
	}
	if !valTy.SameAs(g.iterYieldTy) {
		return g.errorf(y.Value.Pos(), errors.TypeMismatch, "yielded value must be '%s'", g.iterYieldTy.Name)
	}

	callerBody, callerVar, callerCtx := g.iterForBody, g.iterForVar, g.iterForCtx
	prevScope, prevCtx := g.scope, g.context
	callerScope := sym.NewScope(g.iterForScope, callerCtx)
	g.scope, g.context = callerScope, callerCtx
	startLocals := g.nLocals

	g.chunk.SetPos(y.Pos())
	v := &sym.VarSym{Name: callerVar.Name, Type: g.iterYieldTy, Let: true, Local: true, StackPos: g.nLocals}
	g.nLocals++
	callerScope.Declare(callerVar.Name, v)
	g.chunk.EmitOp(chunk.PopL)
	g.chunk.EmitU8(v.StackPos)

	// continue inside the spliced body only ends this one splice instance;
	// the iterator's own loop (wherever it lives in body) keeps running.
	iter := g.pushFlow(loopIter, callerCtx)
	err = g.stmts(callerBody.Stmts)
	g.popFlow()

	n := g.nLocals - startLocals
	g.nLocals = startLocals
	g.scope, g.context = prevScope, prevCtx
	if err != nil {
		return err
	}

	g.chunk.SetPos(callerBody.Rbrace)
	for _, h := range iter.breaks {
		g.chunk.PatchHoleU16(h)
	}
	if n > 0 {
		g.chunk.EmitOp(chunk.NDiscard)
		g.chunk.EmitU8(uint8(n))
	}
	return nil
}
