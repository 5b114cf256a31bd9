package compiler

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/sym"
)

// isGenericSym reports whether s declares its own type parameters, which
// means a bare identifier reference to it is invalid: spec §4.3 Lookup
// requires the index form "name[A, B, ...]" instead, raising
// CouldNotInferGeneric otherwise.
func isGenericSym(s sym.Sym) bool {
	type generic interface{ IsGeneric() bool }
	g, ok := s.(generic)
	return ok && g.IsGeneric()
}

// instantiateGeneric resolves a "name[A, B, ...]" reference to its concrete
// instantiation (spec §4.4), compiling a procedure's body the first time a
// given argument vector is used and leaving a fresh object TypeSym fully
// substituted with no further code generation needed (object declarations
// never emit bytecode of their own). Iterator instantiations are left for
// the caller (for-loop splicing) to consume; the template's body AST is
// made reachable under the instantiated symbol for that purpose.
func (g *gen) instantiateGeneric(idx *ast.IndexExpr) (sym.Sym, error) {
	id, ok := ast.Unwrap(idx.X).(*ast.Ident)
	if !ok {
		return nil, g.syntaxf(idx.Pos(), "generic reference must name a declared symbol")
	}
	tpl, ok := g.lookup(id.Name)
	if !ok {
		return nil, g.errorf(id.Pos(), errors.UndefinedReference, "'%s' is not declared", id.Name)
	}

	args := make([]*sym.TypeSym, len(idx.Args))
	for i, a := range idx.Args {
		ty, err := g.resolveType(a)
		if err != nil {
			return nil, err
		}
		args[i] = ty
	}

	inst, err := sym.Instantiate(tpl, args, idx.Pos())
	if err != nil {
		return nil, err
	}

	switch t := tpl.(type) {
	case *sym.ProcSym:
		instProc := inst.(*sym.ProcSym)
		if !g.c.compiledInst[instProc] {
			g.c.compiledInst[instProc] = true
			d, ok := g.c.procBodies[t]
			if !ok {
				return nil, g.errorf(id.Pos(), errors.NotGeneric, "'%s' has no stashed body to instantiate", id.Name)
			}
			returnTy := instProc.ReturnTy
			if returnTy == nil {
				returnTy = voidTy
			}
			pid := g.c.Script.ReserveProc(t.Name, len(instProc.Params), instProc.ReturnTy != nil)
			instProc.ProcID = pid
			if err := g.compileProcBody(instProc, d.Params, d.Body, returnTy); err != nil {
				return nil, err
			}
		}
	case *sym.IteratorSym:
		instIter := inst.(*sym.IteratorSym)
		if _, ok := g.c.iterBodies[instIter]; !ok {
			if d, ok := g.c.iterBodies[t]; ok {
				g.c.iterBodies[instIter] = d
			}
		}
	}
	return inst, nil
}

// genericCallExpr lowers a call whose target is a generic reference:
// "identity[number](5)" (a procedure instantiation) or
// "Box[number](value: 5)" (an object constructor instantiation).
func (g *gen) genericCallExpr(call *ast.CallExpr, idx *ast.IndexExpr) (*sym.TypeSym, error) {
	inst, err := g.instantiateGeneric(idx)
	if err != nil {
		return nil, err
	}

	if ty, ok := inst.(*sym.TypeSym); ok {
		return g.constructObject(call, ty)
	}

	proc, ok := inst.(*sym.ProcSym)
	if !ok {
		return nil, g.errorf(call.Pos(), errors.NotAProc, "generic reference is not callable")
	}
	argTypes := make([]*sym.TypeSym, len(call.Args))
	for i, a := range call.Args {
		aTy, err := g.expr(a)
		if err != nil {
			return nil, err
		}
		argTypes[i] = aTy
	}
	if !signatureMatches(proc, argTypes) {
		return nil, g.errorf(call.Pos(), errors.TypeMismatch, "'%s' called with mismatched argument types", proc.Name)
	}
	g.chunk.SetPos(call.Pos())
	g.chunk.EmitOp(chunk.CallD)
	g.chunk.EmitU16(proc.ProcID)
	if proc.ReturnTy == nil {
		return voidTy, nil
	}
	return proc.ReturnTy, nil
}
