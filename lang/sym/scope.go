package sym

import "github.com/dolthub/swiss"

// ContextId tags a scope (or the flow-block built for a loop) so break,
// continue and yield can find the construct they target even when a
// for-loop's iterator body has been spliced into the caller's code and no
// longer shares a lexical nesting with it (spec §4.6).
type ContextId uint32

// ContextAllocator hands out strictly increasing ContextIds for a single
// script compilation.
type ContextAllocator struct {
	next ContextId
}

// Next returns a fresh, previously unused ContextId.
func (a *ContextAllocator) Next() ContextId {
	a.next++
	return a.next
}

// Scope is one lexical block's name table: a parent link for outward
// lookup and the names bound directly in this block.
type Scope struct {
	Parent  *Scope
	Context ContextId
	syms    *swiss.Map[string, Sym]
}

// NewScope returns an empty scope nested under parent (nil for the
// module's root scope) tagged with context.
func NewScope(parent *Scope, context ContextId) *Scope {
	return &Scope{Parent: parent, Context: context, syms: swiss.NewMap[string, Sym](uint32(8))}
}

// Declare binds name to newSym in this scope, implementing spec §4.3's
// Insertion algorithm: a first binding under name always succeeds; a
// second one is folded into a ChoiceSym overload set when newSym and the
// existing binding are both Procs (or both Iterators) with distinct
// parameter-type signatures (can_add), and is otherwise a redeclaration
// — reported back as redeclared so the caller can raise the
// LocalRedeclaration/GlobalRedeclaration error appropriate to its scope.
func (s *Scope) Declare(name string, newSym Sym) (redeclared bool) {
	existing, ok := s.syms.Get(name)
	if !ok {
		s.syms.Put(name, newSym)
		return false
	}

	choice, isChoice := existing.(*ChoiceSym)
	if !isChoice {
		switch e := existing.(type) {
		case *ProcSym:
			choice = &ChoiceSym{Name: name, Choices: []*ProcSym{e}}
		case *IteratorSym:
			choice = &ChoiceSym{Name: name, Iterators: []*IteratorSym{e}}
		default:
			// Var/Let and Type never form a choice set (can_add always
			// fails once one of either already exists under this name).
			return true
		}
	}

	switch v := newSym.(type) {
	case *ProcSym:
		if len(choice.Iterators) > 0 || !canAddProc(choice.Choices, v) {
			return true
		}
		choice.Choices = append(choice.Choices, v)
	case *IteratorSym:
		if len(choice.Choices) > 0 || !canAddIterator(choice.Iterators, v) {
			return true
		}
		choice.Iterators = append(choice.Iterators, v)
	default:
		return true
	}
	s.syms.Put(name, choice)
	return false
}

// Lookup searches this scope and its ancestors for name, returning the
// scope it was found in along with the symbol.
func (s *Scope) Lookup(name string) (Sym, *Scope, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if v, ok := sc.syms.Get(name); ok {
			return v, sc, true
		}
	}
	return nil, nil, false
}

// LookupLocal searches only this scope, not its ancestors.
func (s *Scope) LookupLocal(name string) (Sym, bool) {
	return s.syms.Get(name)
}

// Module is the root of a script's symbol table: a name and the top-level
// scope holding its globals, types and procedures.
type Module struct {
	Name  string
	Root  *Scope
	alloc ContextAllocator
}

// NewModule returns an empty module named after its source file, with a
// freshly allocated root scope.
func NewModule(name string) *Module {
	m := &Module{Name: name}
	m.Root = NewScope(nil, m.alloc.Next())
	return m
}

// NewContext allocates a fresh ContextId scoped to this module's
// compilation.
func (m *Module) NewContext() ContextId {
	return m.alloc.Next()
}
