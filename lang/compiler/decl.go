package compiler

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/sym"
)

// declareGenerics pushes a transient scope binding each generic name to a
// placeholder TypeSym the body can reference like any other type, and
// returns the GenericParamSym list plus a function to pop the scope.
func (g *gen) declareGenerics(idents []*ast.Ident) ([]*sym.GenericParamSym, func(), error) {
	if len(idents) == 0 {
		return nil, func() {}, nil
	}
	prev := g.pushScope()
	params := make([]*sym.GenericParamSym, len(idents))
	for i, id := range idents {
		placeholder := &sym.TypeSym{Name: id.Name, Kind: sym.Object}
		if redeclared := g.scope.Declare(id.Name, placeholder); redeclared {
			g.popScope(prev)
			return nil, nil, g.errorf(id.Pos(), errors.LocalRedeclaration, "generic parameter '%s' already declared", id.Name)
		}
		params[i] = &sym.GenericParamSym{Name: id.Name}
	}
	return params, func() { g.popScope(prev) }, nil
}

func (g *gen) resolveParams(params []*ast.Param) ([]*sym.Param, error) {
	out := make([]*sym.Param, len(params))
	for i, p := range params {
		ty, err := g.resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		out[i] = &sym.Param{Name: p.Name.Name, Type: ty}
	}
	return out, nil
}

// procDecl lowers a named procedure declaration (spec §4.5 Procedures).
func (g *gen) procDecl(d *ast.ProcDecl) error {
	generics, popGenerics, err := g.declareGenerics(d.Generics)
	if err != nil {
		return err
	}
	defer popGenerics()

	params, err := g.resolveParams(d.Params)
	if err != nil {
		return err
	}
	returnTy := voidTy
	if d.ReturnType != nil {
		returnTy, err = g.resolveType(d.ReturnType)
		if err != nil {
			return err
		}
	}

	proc := &sym.ProcSym{Name: d.Name.Name, Params: params, ReturnTy: returnTy}
	if returnTy == voidTy {
		proc.ReturnTy = nil
	}
	proc.Generics = generics

	// procedures declare into the scope that encloses the declaration
	// itself, not the transient generics scope just pushed.
	declScope := g.scope
	if len(generics) > 0 {
		declScope = g.scope.Parent
	}
	if redeclared := declScope.Declare(d.Name.Name, proc); redeclared {
		return g.errorf(d.Name.Pos(), errors.GlobalRedeclaration, "'%s' is already declared", d.Name.Name)
	}

	if len(generics) > 0 {
		// the template's body is compiled lazily, once per concrete
		// instantiation (spec §4.4 step 3 "recompile the procedure body");
		// stash the AST so Instantiate's caller can reach it.
		g.c.procBodies[proc] = d
		return nil
	}

	id := g.c.Script.ReserveProc(d.Name.Name, len(params), proc.ReturnTy != nil)
	proc.ProcID = id
	return g.compileProcBody(proc, d.Params, d.Body, returnTy)
}

// compileProcBody generates the chunk for a (possibly freshly
// instantiated) procedure's body, per spec §4.5 step 4.
func (g *gen) compileProcBody(proc *sym.ProcSym, astParams []*ast.Param, body *ast.Block, returnTy *sym.TypeSym) error {
	ch := chunk.NewChunk(g.chunk.File)
	pg := &gen{c: g.c, kind: kindProc, chunk: ch, scope: sym.NewScope(g.c.Module.Root, g.c.Module.Root.Context), context: g.c.Module.Root.Context}
	pg.returnTy = returnTy

	for i, p := range astParams {
		if _, err := pg.declareVar(p.Name, proc.Params[i].Type, true); err != nil {
			return err
		}
		// parameters arrive already on the call frame; no popL is emitted,
		// the declared StackPos simply documents where the caller placed
		// each argument.
	}

	var resultVar *sym.VarSym
	if returnTy != voidTy {
		resultVar = &sym.VarSym{Name: "result", Type: returnTy, Let: false, Local: true, StackPos: pg.nLocals}
		pg.nLocals++
		pg.scope.Declare("result", resultVar)
	}

	if err := pg.stmts(body.Stmts); err != nil {
		return err
	}

	ch.SetPos(body.Rbrace)
	if resultVar != nil {
		ch.EmitOp(chunk.PushL)
		ch.EmitU8(resultVar.StackPos)
		ch.EmitOp(chunk.ReturnVal)
	} else {
		ch.EmitOp(chunk.ReturnVoid)
	}

	g.c.Script.SetProcChunk(proc.ProcID, ch)
	return nil
}

// iteratorDecl only registers the symbol; its body is compiled once per
// for-loop call site by iterator splicing (spec §4.5 Iterators, §4.6).
func (g *gen) iteratorDecl(d *ast.IteratorDecl) error {
	generics, popGenerics, err := g.declareGenerics(d.Generics)
	if err != nil {
		return err
	}
	defer popGenerics()

	params, err := g.resolveParams(d.Params)
	if err != nil {
		return err
	}
	if d.YieldType == nil {
		return g.errorf(d.Pos(), errors.IterMustHaveYieldType, "iterator '%s' must declare a yield type", d.Name.Name)
	}
	yieldTy, err := g.resolveType(d.YieldType)
	if err != nil {
		return err
	}

	it := &sym.IteratorSym{Name: d.Name.Name, Params: params, YieldTy: yieldTy}
	it.Generics = generics

	declScope := g.scope
	if len(generics) > 0 {
		declScope = g.scope.Parent
	}
	if redeclared := declScope.Declare(d.Name.Name, it); redeclared {
		return g.errorf(d.Name.Pos(), errors.GlobalRedeclaration, "'%s' is already declared", d.Name.Name)
	}
	g.c.iterBodies[it] = d
	return nil
}

// objectDecl lowers an object type declaration (spec §4.5 Objects): same
// skeleton as a procedure, minus a body, assigning object_id before
// registering fields.
func (g *gen) objectDecl(d *ast.ObjectDecl) error {
	generics, popGenerics, err := g.declareGenerics(d.Generics)
	if err != nil {
		return err
	}
	defer popGenerics()

	ty := &sym.TypeSym{Name: d.Name.Name, Kind: sym.Object, ObjectID: g.c.Script.NextObjectID()}
	ty.Generics = generics

	declScope := g.scope
	if len(generics) > 0 {
		declScope = g.scope.Parent
	}
	if redeclared := declScope.Declare(d.Name.Name, ty); redeclared {
		return g.errorf(d.Name.Pos(), errors.GlobalRedeclaration, "'%s' is already declared", d.Name.Name)
	}

	fields := make([]*sym.Field, len(d.Fields))
	for i, f := range d.Fields {
		fTy, err := g.resolveType(f.Type)
		if err != nil {
			return err
		}
		fields[i] = &sym.Field{Name: f.Name.Name, Type: fTy}
	}
	ty.Fields = fields
	return nil
}
