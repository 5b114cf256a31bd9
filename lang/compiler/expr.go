package compiler

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/sym"
	"github.com/mna/bryony/lang/token"
)

// expr generates e, leaving exactly one value on the stack, and returns
// its static type (spec §4.5 "gen_expr → Sym").
func (g *gen) expr(e ast.Expr) (*sym.TypeSym, error) {
	g.chunk.SetPos(e.Pos())
	switch e := e.(type) {
	case *ast.NumberLit:
		g.chunk.EmitOp(chunk.PushN)
		g.chunk.EmitF64(e.Value)
		return numberTy, nil
	case *ast.StringLit:
		g.chunk.EmitOp(chunk.PushS)
		g.chunk.EmitU16(g.chunk.InternString(e.Value))
		return stringTy, nil
	case *ast.BoolLit:
		if e.Value {
			g.chunk.EmitOp(chunk.PushTrue)
		} else {
			g.chunk.EmitOp(chunk.PushFalse)
		}
		return boolTy, nil
	case *ast.NullLit:
		return nil, g.errorf(e.Pos(), errors.ValueIsVoid, "'null' requires a known object type in context")
	case *ast.ParenExpr:
		return g.expr(e.X)
	case *ast.Ident:
		return g.identExpr(e)
	case *ast.UnaryExpr:
		return g.unaryExpr(e)
	case *ast.BinaryExpr:
		return g.binaryExpr(e)
	case *ast.DotExpr:
		return g.dotExpr(e)
	case *ast.CallExpr:
		return g.callExpr(e)
	case *ast.IfExpr:
		return g.ifExpr(e, true)
	default:
		return nil, g.syntaxf(e.Pos(), "expression form not usable here")
	}
}

func (g *gen) identExpr(id *ast.Ident) (*sym.TypeSym, error) {
	s, ok := g.lookup(id.Name)
	if !ok {
		return nil, g.errorf(id.Pos(), errors.UndefinedReference, "'%s' is not declared", id.Name)
	}
	v, ok := s.(*sym.VarSym)
	if !ok {
		return nil, g.errorf(id.Pos(), errors.SymKindMismatch, "'%s' is not a variable", id.Name)
	}
	if v.Local {
		g.chunk.EmitOp(chunk.PushL)
		g.chunk.EmitU8(v.StackPos)
	} else {
		g.chunk.EmitOp(chunk.PushG)
		g.chunk.EmitU16(g.globalID(id.Name))
	}
	return v.Type, nil
}

// globalID interns id.Name's string id to stand in for a global's
// name_id; the Chunk's string pool doubles as the global name table since
// both are "string -> stable u16" lookups (spec §3.3, §4.2).
func (g *gen) globalID(name string) uint16 {
	return g.chunk.InternString(name)
}

func (g *gen) unaryExpr(u *ast.UnaryExpr) (*sym.TypeSym, error) {
	xTy, err := g.expr(u.X)
	if err != nil {
		return nil, err
	}
	g.chunk.SetPos(u.Pos())
	switch {
	case u.Op.Raw == "-" && xTy == numberTy:
		g.chunk.EmitOp(chunk.NegN)
		return numberTy, nil
	case u.Op.Raw == "not" && xTy == boolTy:
		g.chunk.EmitOp(chunk.InvB)
		return boolTy, nil
	default:
		return g.overloadCall(u.Pos(), u.Op.Raw, []*sym.TypeSym{xTy})
	}
}

func (g *gen) binaryExpr(b *ast.BinaryExpr) (*sym.TypeSym, error) {
	switch b.Op.Raw {
	case "or":
		return g.shortCircuit(b, chunk.JumpFwdT)
	case "and":
		return g.shortCircuit(b, chunk.JumpFwdF)
	}

	xTy, err := g.expr(b.X)
	if err != nil {
		return nil, err
	}
	yTy, err := g.expr(b.Y)
	if err != nil {
		return nil, err
	}
	g.chunk.SetPos(b.Pos())

	if xTy == numberTy && yTy == numberTy {
		switch b.Op.Raw {
		case "+":
			g.chunk.EmitOp(chunk.AddN)
			return numberTy, nil
		case "-":
			g.chunk.EmitOp(chunk.SubN)
			return numberTy, nil
		case "*":
			g.chunk.EmitOp(chunk.MultN)
			return numberTy, nil
		case "/":
			g.chunk.EmitOp(chunk.DivN)
			return numberTy, nil
		case "<":
			g.chunk.EmitOp(chunk.LessN)
			return boolTy, nil
		case ">":
			g.chunk.EmitOp(chunk.GreaterN)
			return boolTy, nil
		case "==":
			g.chunk.EmitOp(chunk.EqN)
			return boolTy, nil
		}
	}
	if b.Op.Raw == "==" && xTy == boolTy && yTy == boolTy {
		g.chunk.EmitOp(chunk.EqB)
		return boolTy, nil
	}

	return g.overloadCall(b.Pos(), b.Op.Raw, []*sym.TypeSym{xTy, yTy})
}

// shortCircuit lowers "or"/"and": both operands must be bool; the
// right-hand side is only evaluated when the left doesn't already decide
// the result (spec §4.5 Infix op).
func (g *gen) shortCircuit(b *ast.BinaryExpr, skipWhen chunk.Opcode) (*sym.TypeSym, error) {
	xTy, err := g.expr(b.X)
	if err != nil {
		return nil, err
	}
	if xTy != boolTy {
		return nil, g.errorf(b.X.Pos(), errors.TypeMismatch, "operand of '%s' must be bool", b.Op.Raw)
	}
	g.chunk.SetPos(b.Pos())
	g.chunk.EmitOp(skipWhen)
	hole := g.chunk.EmitHole(2)
	g.chunk.EmitOp(chunk.Discard)
	yTy, err := g.expr(b.Y)
	if err != nil {
		return nil, err
	}
	if yTy != boolTy {
		return nil, g.errorf(b.Y.Pos(), errors.TypeMismatch, "operand of '%s' must be bool", b.Op.Raw)
	}
	g.chunk.PatchHoleU16(hole)
	return boolTy, nil
}

func (g *gen) dotExpr(d *ast.DotExpr) (*sym.TypeSym, error) {
	xTy, err := g.expr(d.X)
	if err != nil {
		return nil, err
	}
	if xTy == nil || xTy.Kind != sym.Object {
		return nil, g.errorf(d.Pos(), errors.TypeIsNotAnObject, "left side of '.' is not an object")
	}
	for i, f := range xTy.Fields {
		if f.Name == d.Name.Name {
			g.chunk.SetPos(d.Pos())
			g.chunk.EmitOp(chunk.PushF)
			g.chunk.EmitU8(uint8(i))
			return f.Type, nil
		}
	}
	return nil, g.errorf(d.Name.Pos(), errors.NonExistentField, "'%s' has no field '%s'", xTy.Name, d.Name.Name)
}

// ifExpr implements spec §4.5's if/elif/else lowering. In statement
// position (exprMode == false) branch types need not agree and a missing
// else is fine; in expression position every branch (including a
// mandatory else) must agree on type.
func (g *gen) ifExpr(n *ast.IfExpr, exprMode bool) (*sym.TypeSym, error) {
	var endJumps []int
	var resultTy *sym.TypeSym
	resultSet := false

	for i, cond := range n.Conds {
		condTy, err := g.expr(cond)
		if err != nil {
			return nil, err
		}
		if condTy != boolTy {
			return nil, g.errorf(cond.Pos(), errors.TypeMismatch, "if condition must be bool")
		}
		g.chunk.SetPos(cond.Pos())
		g.chunk.EmitOp(chunk.JumpFwdF)
		falseHole := g.chunk.EmitHole(2)
		g.chunk.EmitOp(chunk.Discard)

		bodyTy, err := g.block(n.Bodies[i], exprMode)
		if err != nil {
			return nil, err
		}
		if exprMode {
			if resultSet && bodyTy != resultTy {
				return nil, g.errorf(n.Bodies[i].Pos(), errors.TypeMismatch, "if/elif branches must agree on type")
			}
			resultTy, resultSet = bodyTy, true
		}

		g.chunk.SetPos(n.Bodies[i].Rbrace)
		g.chunk.EmitOp(chunk.JumpFwd)
		endJumps = append(endJumps, g.chunk.EmitHole(2))
		g.chunk.PatchHoleU16(falseHole)
		g.chunk.EmitOp(chunk.Discard)
	}

	if n.Else != nil {
		elseTy, err := g.block(n.Else, exprMode)
		if err != nil {
			return nil, err
		}
		if exprMode {
			if resultSet && elseTy != resultTy {
				return nil, g.errorf(n.Else.Pos(), errors.TypeMismatch, "else branch must agree with if/elif type")
			}
			resultTy, resultSet = elseTy, true
		}
	} else if exprMode {
		return nil, g.errorf(n.Pos(), errors.TypeMismatch, "if used as an expression requires an else branch")
	}

	for _, h := range endJumps {
		g.chunk.PatchHoleU16(h)
	}
	return resultTy, nil
}

func (g *gen) callExpr(call *ast.CallExpr) (*sym.TypeSym, error) {
	if idx, ok := ast.Unwrap(call.Fn).(*ast.IndexExpr); ok {
		return g.genericCallExpr(call, idx)
	}

	fnIdent, ok := ast.Unwrap(call.Fn).(*ast.Ident)
	if !ok {
		return nil, g.syntaxf(call.Pos(), "call target must be a name")
	}
	s, ok := g.lookup(fnIdent.Name)
	if !ok {
		return nil, g.errorf(fnIdent.Pos(), errors.UndefinedReference, "'%s' is not declared", fnIdent.Name)
	}
	if isGenericSym(s) {
		return nil, g.errorf(fnIdent.Pos(), errors.CouldNotInferGeneric,
			"'%s' is generic and must be referenced as '%s[...]'", fnIdent.Name, fnIdent.Name)
	}

	if ty, ok := s.(*sym.TypeSym); ok {
		return g.constructObject(call, ty)
	}

	argTypes := make([]*sym.TypeSym, len(call.Args))
	for i, a := range call.Args {
		aTy, err := g.expr(a)
		if err != nil {
			return nil, err
		}
		argTypes[i] = aTy
	}

	proc, err := g.resolveCallable(call.Pos(), fnIdent.Name, s, argTypes)
	if err != nil {
		return nil, err
	}
	g.chunk.SetPos(call.Pos())
	g.chunk.EmitOp(chunk.CallD)
	g.chunk.EmitU16(proc.ProcID)
	if proc.ReturnTy == nil {
		return voidTy, nil
	}
	return proc.ReturnTy, nil
}

// resolveCallable implements spec §4.3's overload selection: a lone
// callable must match arity and per-position type identity; a Choice
// picks the single member that does.
func (g *gen) resolveCallable(pos token.Pos, name string, s sym.Sym, argTypes []*sym.TypeSym) (*sym.ProcSym, error) {
	switch v := s.(type) {
	case *sym.ProcSym:
		if !signatureMatches(v, argTypes) {
			return nil, g.errorf(pos, errors.TypeMismatch, "'%s' called with mismatched argument types", name)
		}
		return v, nil
	case *sym.ChoiceSym:
		var match *sym.ProcSym
		for _, choice := range v.Choices {
			if signatureMatches(choice, argTypes) {
				if match != nil {
					return nil, g.errorf(pos, errors.TypeMismatchChoice, "ambiguous call to overloaded '%s'", name)
				}
				match = choice
			}
		}
		if match == nil {
			return nil, g.errorf(pos, errors.TypeMismatchChoice, "no overload of '%s' matches the given arguments", name)
		}
		return match, nil
	default:
		return nil, g.errorf(pos, errors.NotAProc, "'%s' is not callable", name)
	}
}

func signatureMatches(p *sym.ProcSym, argTypes []*sym.TypeSym) bool {
	if len(p.Params) != len(argTypes) {
		return false
	}
	for i, param := range p.Params {
		if !param.Type.SameAs(argTypes[i]) {
			return false
		}
	}
	return true
}

// overloadCall resolves an operator to a user-defined overload when no
// builtin instruction applies to the operand types (spec §4.5 Prefix/
// Infix op "else call the resolved overloaded procedure").
func (g *gen) overloadCall(pos token.Pos, op string, argTypes []*sym.TypeSym) (*sym.TypeSym, error) {
	s, ok := g.lookup(op)
	if !ok {
		return nil, g.errorf(pos, errors.UndefinedReference, "no builtin or overload for operator '%s'", op)
	}
	proc, err := g.resolveCallable(pos, op, s, argTypes)
	if err != nil {
		return nil, err
	}
	g.chunk.SetPos(pos)
	g.chunk.EmitOp(chunk.CallD)
	g.chunk.EmitU16(proc.ProcID)
	if proc.ReturnTy == nil {
		return voidTy, nil
	}
	return proc.ReturnTy, nil
}

// constructObject lowers "T(field: v, ...)" (spec §4.5 Object
// constructor): every field must be initialized exactly once via a colon
// expression, evaluated in field-declaration order regardless of source
// order.
func (g *gen) constructObject(call *ast.CallExpr, ty *sym.TypeSym) (*sym.TypeSym, error) {
	values := make([]ast.Expr, len(ty.Fields))
	seen := make([]bool, len(ty.Fields))

	for _, arg := range call.Args {
		ce, ok := arg.(*ast.ColonExpr)
		if !ok {
			return nil, g.errorf(arg.Pos(), errors.FieldInitMustBeAColonExpr, "object field initializer must be 'name: value'")
		}
		idx := -1
		for i, f := range ty.Fields {
			if f.Name == ce.Name.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, g.errorf(ce.Name.Pos(), errors.NoSuchField, "'%s' has no field '%s'", ty.Name, ce.Name.Name)
		}
		if seen[idx] {
			return nil, g.errorf(ce.Name.Pos(), errors.NoSuchField, "field '%s' initialized more than once", ce.Name.Name)
		}
		seen[idx] = true
		values[idx] = ce.Value
	}
	for i, ok := range seen {
		if !ok {
			return nil, g.errorf(call.Pos(), errors.ObjectFieldsMustBeInitialized,
				"object '%s' is missing initializer for field '%s'", ty.Name, ty.Fields[i].Name)
		}
	}

	for i, v := range values {
		vTy, err := g.expr(v)
		if err != nil {
			return nil, err
		}
		if !vTy.SameAs(ty.Fields[i].Type) {
			return nil, g.errorf(v.Pos(), errors.TypeMismatch, "field '%s' expects type '%s'", ty.Fields[i].Name, ty.Fields[i].Type.Name)
		}
	}

	g.chunk.SetPos(call.Pos())
	g.chunk.EmitOp(chunk.ConstrObj)
	g.chunk.EmitU16(ty.ObjectID)
	g.chunk.EmitU8(uint8(len(ty.Fields)))
	return ty, nil
}
