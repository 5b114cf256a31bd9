package compiler

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/sym"
)

// stmts generates a sequence of statements, stopping at the first error.
func (g *gen) stmts(list []ast.Stmt) error {
	for _, s := range list {
		if err := g.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// stmt generates s with its value, if any, discarded.
func (g *gen) stmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.ExprStmt:
		if ifx, ok := ast.Unwrap(s.X).(*ast.IfExpr); ok {
			// an "if" in statement position needs no else and its branches
			// need not agree on a type; nothing is left on the stack.
			_, err := g.ifExpr(ifx, false)
			return err
		}
		ty, err := g.expr(s.X)
		if err != nil {
			return err
		}
		if ty != voidTy {
			g.chunk.SetPos(s.Pos())
			g.chunk.EmitOp(chunk.Discard)
		}
		return nil
	case *ast.AssignStmt:
		return g.assignStmt(s)
	case *ast.VarDecl:
		return g.varDecl(s)
	case *ast.ProcDecl:
		return g.procDecl(s)
	case *ast.IteratorDecl:
		return g.iteratorDecl(s)
	case *ast.ObjectDecl:
		return g.objectDecl(s)
	case *ast.WhileStmt:
		return g.whileStmt(s)
	case *ast.ForStmt:
		return g.forStmt(s)
	case *ast.BreakStmt:
		return g.breakStmt(s)
	case *ast.ContinueStmt:
		return g.continueStmt(s)
	case *ast.ReturnStmt:
		return g.returnStmt(s)
	case *ast.YieldStmt:
		return g.yieldStmt(s)
	case *ast.Block:
		_, err := g.block(s, false)
		return err
	default:
		return g.syntaxf(s.Pos(), "statement form not usable here")
	}
}

// block generates a scoped sequence of statements (spec §4.5 "block").
// In expression mode the final statement must itself be an expression and
// its value is left on the stack instead of discarded; the scope's locals
// are then dropped below it with nDiscard.
func (g *gen) block(b *ast.Block, exprMode bool) (*sym.TypeSym, error) {
	prev := g.pushScope()
	startLocals := g.nLocals

	var resultTy *sym.TypeSym = voidTy
	for i, s := range b.Stmts {
		last := i == len(b.Stmts)-1
		if exprMode && last {
			es, ok := s.(*ast.ExprStmt)
			if !ok {
				return nil, g.errorf(s.Pos(), errors.TypeMismatch, "block used as an expression must end with an expression")
			}
			ty, err := g.expr(es.X)
			if err != nil {
				return nil, err
			}
			resultTy = ty
			continue
		}
		if err := g.stmt(s); err != nil {
			return nil, err
		}
	}

	n := g.nLocals - startLocals
	g.nLocals = startLocals
	g.popScope(prev)

	if n > 0 {
		// nDiscard drops the n locals the scope declared; in expression mode
		// the block's result is the current top of stack and nDiscard leaves
		// it in place, removing the n slots beneath it instead (spec §4.5
		// "pop scope, emitting discard n").
		g.chunk.SetPos(b.Rbrace)
		g.chunk.EmitOp(chunk.NDiscard)
		g.chunk.EmitU8(uint8(n))
	}
	return resultTy, nil
}

func (g *gen) assignStmt(s *ast.AssignStmt) error {
	if !ast.IsAssignable(s.Left) {
		return g.errorf(s.Pos(), errors.InvalidAssignment, "invalid assignment target")
	}
	switch left := ast.Unwrap(s.Left).(type) {
	case *ast.Ident:
		return g.assignIdent(s, left)
	case *ast.DotExpr:
		return g.assignField(s, left)
	default:
		return g.errorf(s.Pos(), errors.InvalidAssignment, "invalid assignment target")
	}
}

func (g *gen) assignIdent(s *ast.AssignStmt, left *ast.Ident) error {
	sy, ok := g.lookup(left.Name)
	if !ok {
		return g.errorf(left.Pos(), errors.UndefinedReference, "'%s' is not declared", left.Name)
	}
	v, ok := sy.(*sym.VarSym)
	if !ok {
		return g.errorf(left.Pos(), errors.InvalidAssignment, "'%s' is not a variable", left.Name)
	}
	if v.Let {
		return g.errorf(s.Pos(), errors.LetReassignment, "'%s' was declared with 'let' and cannot be reassigned", left.Name)
	}
	rhsTy, err := g.expr(s.Right)
	if err != nil {
		return err
	}
	if !rhsTy.SameAs(v.Type) {
		return g.errorf(s.Right.Pos(), errors.TypeMismatch, "cannot assign '%s' to '%s'", rhsTy.Name, v.Type.Name)
	}
	g.chunk.SetPos(s.Pos())
	if v.Local {
		g.chunk.EmitOp(chunk.PopL)
		g.chunk.EmitU8(v.StackPos)
	} else {
		g.chunk.EmitOp(chunk.PopG)
		g.chunk.EmitU16(g.globalID(left.Name))
	}
	return nil
}

func (g *gen) assignField(s *ast.AssignStmt, left *ast.DotExpr) error {
	recvTy, err := g.expr(left.X)
	if err != nil {
		return err
	}
	if recvTy == nil || recvTy.Kind != sym.Object {
		return g.errorf(left.Pos(), errors.TypeIsNotAnObject, "left side of '.' is not an object")
	}
	idx := -1
	for i, f := range recvTy.Fields {
		if f.Name == left.Name.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return g.errorf(left.Name.Pos(), errors.NonExistentField, "'%s' has no field '%s'", recvTy.Name, left.Name.Name)
	}
	rhsTy, err := g.expr(s.Right)
	if err != nil {
		return err
	}
	if !rhsTy.SameAs(recvTy.Fields[idx].Type) {
		return g.errorf(s.Right.Pos(), errors.TypeMismatch, "field '%s' expects type '%s'", left.Name.Name, recvTy.Fields[idx].Type.Name)
	}
	g.chunk.SetPos(s.Pos())
	g.chunk.EmitOp(chunk.PopF)
	g.chunk.EmitU8(uint8(idx))
	return nil
}

// varDecl lowers "var"/"let" declarations (spec §4.5 "var/let decl"): a
// bare "Ident {',' Ident} [':' type] ['=' expr]" group shares one optional
// type annotation and one initializing value across all its names.
func (g *gen) varDecl(d *ast.VarDecl) error {
	if d.Value == nil {
		return g.errorf(d.Pos(), errors.VarMustHaveValue, "'%s' must be initialized", d.Names[0].Name)
	}
	valTy, err := g.expr(d.Value)
	if err != nil {
		return err
	}
	if d.Type != nil {
		declTy, err := g.resolveType(d.Type)
		if err != nil {
			return err
		}
		if !valTy.SameAs(declTy) {
			return g.errorf(d.Value.Pos(), errors.TypeMismatch, "declared type does not match initializer")
		}
	}
	var prev *sym.VarSym
	for i, name := range d.Names {
		if i > 0 {
			// additional names in one identDefs group share the same value;
			// push the previous binding back on the stack before declaring the
			// next one.
			g.chunk.SetPos(name.Pos())
			if prev.Local {
				g.chunk.EmitOp(chunk.PushL)
				g.chunk.EmitU8(prev.StackPos)
			} else {
				g.chunk.EmitOp(chunk.PushG)
				g.chunk.EmitU16(g.globalID(prev.Name))
			}
		}
		v, err := g.declareVar(name, valTy, d.Let)
		if err != nil {
			return err
		}
		prev = v
		g.chunk.SetPos(name.Pos())
		if v.Local {
			g.chunk.EmitOp(chunk.PopL)
			g.chunk.EmitU8(v.StackPos)
		} else {
			g.chunk.EmitOp(chunk.PopG)
			g.chunk.EmitU16(g.globalID(name.Name))
		}
	}
	return nil
}

func (g *gen) whileStmt(w *ast.WhileStmt) error {
	outer := g.pushFlow(loopOuter, g.context)
	defer g.popFlow()

	if lit, ok := w.Cond.(*ast.BoolLit); ok && !lit.Value {
		// "while false": the body never runs and is not even generated.
		return nil
	}

	loopTop := g.chunk.Offset()
	var exitHole int
	omitCond := false
	if lit, ok := w.Cond.(*ast.BoolLit); ok && lit.Value {
		omitCond = true
	}
	if !omitCond {
		condTy, err := g.expr(w.Cond)
		if err != nil {
			return err
		}
		if condTy != boolTy {
			return g.errorf(w.Cond.Pos(), errors.TypeMismatch, "while condition must be bool")
		}
		g.chunk.SetPos(w.Cond.Pos())
		g.chunk.EmitOp(chunk.JumpFwdF)
		exitHole = g.chunk.EmitHole(2)
		g.chunk.EmitOp(chunk.Discard)
	}

	iter := g.pushFlow(loopIter, g.context)
	if _, err := g.block(w.Body, false); err != nil {
		return err
	}
	g.popFlow()

	// "continue" targets the back-edge itself: every recorded continue
	// jump converges here, then falls straight into the condition re-test.
	g.chunk.SetPos(w.Body.Rbrace)
	for _, h := range iter.breaks {
		g.chunk.PatchHoleU16(h)
	}
	g.chunk.EmitOp(chunk.JumpBack)
	g.chunk.EmitU16(g.chunk.BackJumpDistance(loopTop))

	if !omitCond {
		g.chunk.PatchHoleU16(exitHole)
		g.chunk.EmitOp(chunk.Discard)
	}
	for _, h := range outer.breaks {
		g.chunk.PatchHoleU16(h)
	}
	return nil
}

func (g *gen) breakStmt(s *ast.BreakStmt) error {
	fb := g.findFlow(loopOuter)
	if fb == nil {
		return g.errorf(s.Pos(), errors.OnlyUsableInALoop, "'break' used outside a loop")
	}
	g.chunk.SetPos(s.Pos())
	g.chunk.EmitOp(chunk.JumpFwd)
	fb.breaks = append(fb.breaks, g.chunk.EmitHole(2))
	return nil
}

func (g *gen) continueStmt(s *ast.ContinueStmt) error {
	fb := g.findFlow(loopIter)
	if fb == nil {
		return g.errorf(s.Pos(), errors.OnlyUsableInALoop, "'continue' used outside a loop")
	}
	g.chunk.SetPos(s.Pos())
	g.chunk.EmitOp(chunk.JumpFwd)
	fb.breaks = append(fb.breaks, g.chunk.EmitHole(2))
	return nil
}

func (g *gen) returnStmt(s *ast.ReturnStmt) error {
	if g.kind != kindProc {
		return g.errorf(s.Pos(), errors.OnlyUsableInAProc, "'return' used outside a procedure")
	}
	if s.Value == nil {
		if g.returnTy != nil && g.returnTy != voidTy {
			return g.errorf(s.Pos(), errors.TypeMismatch, "procedure must return a value of type '%s'", g.returnTy.Name)
		}
		g.chunk.SetPos(s.Pos())
		g.chunk.EmitOp(chunk.ReturnVoid)
		return nil
	}
	valTy, err := g.expr(s.Value)
	if err != nil {
		return err
	}
	if !valTy.SameAs(g.returnTy) {
		return g.errorf(s.Value.Pos(), errors.TypeMismatch, "return value does not match declared return type")
	}
	g.chunk.SetPos(s.Pos())
	g.chunk.EmitOp(chunk.ReturnVal)
	return nil
}

// resolveType evaluates a type-annotation expression: either a bare
// identifier naming a primitive or object type, or a generic instantiation
// "name[A, B, ...]" (spec §4.3 Lookup, §4.4).
func (g *gen) resolveType(e ast.Expr) (*sym.TypeSym, error) {
	switch n := ast.Unwrap(e).(type) {
	case *ast.Ident:
		s, ok := g.lookup(n.Name)
		if !ok {
			return nil, g.errorf(n.Pos(), errors.UndefinedReference, "'%s' is not declared", n.Name)
		}
		if isGenericSym(s) {
			return nil, g.errorf(n.Pos(), errors.CouldNotInferGeneric,
				"'%s' is generic and must be referenced as '%s[...]'", n.Name, n.Name)
		}
		ty, ok := s.(*sym.TypeSym)
		if !ok {
			return nil, g.errorf(n.Pos(), errors.InvalidSymName, "'%s' is not a type", n.Name)
		}
		return ty, nil
	case *ast.IndexExpr:
		inst, err := g.instantiateGeneric(n)
		if err != nil {
			return nil, err
		}
		ty, ok := inst.(*sym.TypeSym)
		if !ok {
			return nil, g.errorf(n.Pos(), errors.InvalidSymName, "generic reference does not name a type")
		}
		return ty, nil
	default:
		return nil, g.syntaxf(e.Pos(), "type annotation must be a name")
	}
}
