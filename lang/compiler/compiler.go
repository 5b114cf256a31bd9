// Package compiler takes a parsed AST and turns it directly into
// bytecode, resolving identifiers and overloads as it goes rather than as
// a separate pass: there is no resolver package in this module, the
// teacher's resolve step and compile step are one walk here.
package compiler

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/sym"
	"github.com/mna/bryony/lang/token"
)

// builtin primitive types, shared by every compilation: there is exactly
// one Sym for "number", one for "bool", etc., so type identity checks
// (spec §4.3, §4.4: "no subtyping, no coercion") can compare pointers.
var (
	voidTy   = &sym.TypeSym{Name: "void", Kind: sym.Void}
	boolTy   = &sym.TypeSym{Name: "bool", Kind: sym.Bool}
	numberTy = &sym.TypeSym{Name: "number", Kind: sym.Number}
	stringTy = &sym.TypeSym{Name: "string", Kind: sym.String}
)

// flowKind distinguishes the two block kinds a for/while loop pushes:
// loopOuter is the target of break, loopIter of continue (spec §4.5,
// §4.6).
type flowKind int

const (
	loopOuter flowKind = iota
	loopIter
)

// flowBlock is one entry of the generator's break/continue search stack.
// context lets iterator splicing stamp a block with the *caller's*
// context so break/continue inside a spliced body still finds it (spec
// §4.6 step 4).
type flowBlock struct {
	kind    flowKind
	context sym.ContextId
	// breaks collects the offsets of jumpFwd holes emitted inside this
	// block by "break" (outer blocks) or "continue" (iteration blocks),
	// patched once the block's end point is known.
	breaks []int
}

// genKind distinguishes the bodies a generator can be compiling.
type genKind int

const (
	kindTop genKind = iota
	kindProc
	kindIterator
)

// gen is the per-procedure compiler state. A fresh gen is created for
// every Chunk being emitted, sharing the Script and Module owned by the
// enclosing Compiler; splicing an iterator into a for loop reuses the
// caller's gen, saving and restoring the fields it changes.
type gen struct {
	c       *Compiler
	kind    genKind
	chunk   *chunk.Chunk
	scope   *sym.Scope
	context sym.ContextId

	// nLocals hands out StackPos values in declaration order for the
	// current call frame.
	nLocals uint8

	returnTy *sym.TypeSym // meaningful only when kind == kindProc

	flow []*flowBlock

	// set only while splicing a for-loop's iterator body (spec §4.6).
	iterForBody *ast.Block
	iterForVar  *ast.Ident
	iterForCtx  sym.ContextId
	iterYieldTy *sym.TypeSym
	// iterForScope is the caller's own scope at the for-statement's call
	// site, captured before g.scope switches to the iterator's innerScope;
	// yieldStmt parents the spliced body's scope to this, not to the module
	// root, so the caller's own locals (e.g. an accumulator declared in an
	// enclosing proc) stay visible inside the spliced body.
	iterForScope *sym.Scope
}

// Compiler holds the state shared across every gen compiling a single
// source file: the Script being built (its proc table and object_id
// counter) and the Module (its symbol table and context allocator).
type Compiler struct {
	Script *chunk.Script
	Module *sym.Module

	// procBodies/iterBodies stash the declaration AST of every generic
	// procedure/iterator, keyed by its template Sym, so each concrete
	// instantiation can recompile the body (spec §4.4 step 3).
	procBodies map[*sym.ProcSym]*ast.ProcDecl
	iterBodies map[*sym.IteratorSym]*ast.IteratorDecl

	// compiledInst marks which instantiated ProcSym values already have a
	// Chunk, so repeated calls to the same instantiation (cached by
	// sym.Instantiate) don't recompile its body.
	compiledInst map[*sym.ProcSym]bool
}

// NewCompiler returns a compiler for a source file named name.
func NewCompiler(name string) *Compiler {
	c := &Compiler{
		Script:       chunk.NewScript(name),
		Module:       sym.NewModule(name),
		procBodies:   make(map[*sym.ProcSym]*ast.ProcDecl),
		iterBodies:   make(map[*sym.IteratorSym]*ast.IteratorDecl),
		compiledInst: make(map[*sym.ProcSym]bool),
	}
	// the four primitive types are looked up by name just like any other
	// type reference (resolveType has no separate builtin path), so they
	// must be pre-declared in the module's root scope (spec §4.3 "no
	// subtyping, no coercion" relies on these exact Sym pointers for
	// identity checks throughout lang/compiler).
	c.Module.Root.Declare("void", voidTy)
	c.Module.Root.Declare("bool", boolTy)
	c.Module.Root.Declare("number", numberTy)
	c.Module.Root.Declare("string", stringTy)
	return c
}

// CompileChunk compiles a parsed top-level chunk into the compiler's
// Script, returning the first error encountered (compilation stops at the
// first SyntaxError/CompileError, spec §7).
func (c *Compiler) CompileChunk(file *ast.Chunk) error {
	ch := chunk.NewChunk(file.Name)
	c.Script.AddProc("main", 0, false, ch)

	g := &gen{
		c:       c,
		kind:    kindTop,
		chunk:   ch,
		scope:   c.Module.Root,
		context: c.Module.Root.Context,
	}
	if err := g.stmts(file.Stmts); err != nil {
		return err
	}
	g.chunk.SetPos(file.EOF)
	g.chunk.EmitOp(chunk.Halt)
	return nil
}

func (g *gen) errorf(pos token.Pos, kind errors.Kind, format string, args ...any) error {
	return errors.Compilef(pos, kind, format, args...)
}

func (g *gen) syntaxf(pos token.Pos, format string, args ...any) error {
	return errors.Syntaxf(pos, format, args...)
}

// pushScope opens a new lexical scope nested in g's current scope and
// returns the previous scope, to be restored by popScope.
func (g *gen) pushScope() *sym.Scope {
	prev := g.scope
	g.scope = sym.NewScope(prev, g.context)
	return prev
}

func (g *gen) popScope(prev *sym.Scope) {
	g.scope = prev
}

// declareVar binds name as a new local or global variable. Module-root
// scope variables are globals; anything else is a local, numbered in
// declaration order for its StackPos.
func (g *gen) declareVar(ident *ast.Ident, ty *sym.TypeSym, let bool) (*sym.VarSym, error) {
	local := g.scope != g.c.Module.Root
	v := &sym.VarSym{Name: ident.Name, Type: ty, Let: let, Local: local}
	if local {
		v.StackPos = g.nLocals
		g.nLocals++
	}
	if redeclared := g.scope.Declare(ident.Name, v); redeclared {
		kind := errors.GlobalRedeclaration
		if local {
			kind = errors.LocalRedeclaration
		}
		return nil, g.errorf(ident.Pos(), kind, "'%s' is already declared in this scope", ident.Name)
	}
	return v, nil
}

// lookup resolves name starting at g.scope, skipping any scope whose
// context differs from g's current context (spec §4.3 Lookup) — this is
// what keeps a spliced iterator body from seeing the caller's locals, and
// vice versa, by design rather than by lexical nesting alone.
func (g *gen) lookup(name string) (sym.Sym, bool) {
	for s := g.scope; s != nil; s = s.Parent {
		if s.Context != g.context {
			continue
		}
		if v, ok := s.LookupLocal(name); ok {
			return v, true
		}
	}
	if v, _, ok := g.c.Module.Root.Lookup(name); ok {
		return v, true
	}
	return nil, false
}

func (g *gen) findFlow(kind flowKind) *flowBlock {
	for i := len(g.flow) - 1; i >= 0; i-- {
		if fb := g.flow[i]; fb.kind == kind && fb.context == g.context {
			return fb
		}
	}
	return nil
}

func (g *gen) pushFlow(kind flowKind, context sym.ContextId) *flowBlock {
	fb := &flowBlock{kind: kind, context: context}
	g.flow = append(g.flow, fb)
	return fb
}

func (g *gen) popFlow() {
	g.flow = g.flow[:len(g.flow)-1]
}
