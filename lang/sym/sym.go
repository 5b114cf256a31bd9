// Package sym models the symbol table built while resolving a parsed
// script: variables, types, procedures, iterators, generic parameters and
// the overload sets ("choice" symbols) that arity- and type-based
// resolution picks among (spec §3.5).
package sym

// Sym is any entry a Scope can bind a name to.
type Sym interface {
	SymName() string
	sym()
}

// TypeKind is the primitive shape backing a TypeSym. Object is the only
// kind with further structure (Fields, ObjectID).
type TypeKind int

const (
	Void TypeKind = iota
	Bool
	Number
	String
	Object
)

func (k TypeKind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Field is one member of an object type, in declaration order (the order
// a constrObj instruction expects its field values pushed in).
type Field struct {
	Name string
	Type *TypeSym
}

// TypeSym names a type: a primitive, or a user-declared object with its
// field list and the object_id a constrObj/pushNil operand refers to.
type TypeSym struct {
	Name     string
	Kind     TypeKind
	ObjectID uint16 // valid when Kind == Object
	Fields   []*Field

	generic
}

func (t *TypeSym) SymName() string { return t.Name }
func (*TypeSym) sym()              {}

// SameAs reports whether t and other are identical for overload and
// assignment purposes: exact type identity, no subtyping or coercion
// (spec §3.5, §4.4).
func (t *TypeSym) SameAs(other *TypeSym) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == Object {
		return t.ObjectID == other.ObjectID
	}
	return true
}

// Param is a formal parameter of a Proc or Iterator.
type Param struct {
	Name string
	Type *TypeSym
}

// VarSym is a variable binding, declared with "var" (reassignable) or
// "let" (not). Local is false for top-level (module-scope) variables;
// StackPos is meaningful only when Local is true, giving the pushL/popL
// operand.
type VarSym struct {
	Name     string
	Type     *TypeSym
	Let      bool
	Local    bool
	StackPos uint8
}

func (v *VarSym) SymName() string { return v.Name }
func (*VarSym) sym()               {}

// ProcSym is a procedure binding: its declared signature and the proc_id
// a callD operand refers to.
type ProcSym struct {
	Name     string
	ProcID   uint16
	Params   []*Param
	ReturnTy *TypeSym // nil means void

	generic
}

func (p *ProcSym) SymName() string { return p.Name }
func (*ProcSym) sym()              {}

// IteratorSym is an iterator binding, spliced into the caller's code at
// each for-loop site rather than called (spec §4.6).
type IteratorSym struct {
	Name     string
	Params   []*Param
	YieldTy  *TypeSym

	generic
}

func (it *IteratorSym) SymName() string { return it.Name }
func (*IteratorSym) sym()               {}

// GenericParamSym is a placeholder type bound inside a generic proc,
// iterator or object declaration's body until instantiation substitutes
// it with a concrete TypeSym.
type GenericParamSym struct {
	Name       string
	Constraint *TypeSym // nil means unconstrained
}

func (g *GenericParamSym) SymName() string { return g.Name }
func (*GenericParamSym) sym()              {}

// ChoiceSym is an overload set: several symbols sharing one name,
// disambiguated at a call site by argument count and exact parameter
// type identity (spec §4.3 Insertion/Overload selection). Procs and
// iterators each keep their own overload list: a name used in call
// position only ever needs Procs, a name used in a for-loop's iterator
// position only ever needs Iterators, so nothing in this codebase ever
// needs to pick between the two kinds at the same call site.
type ChoiceSym struct {
	Name      string
	Choices   []*ProcSym
	Iterators []*IteratorSym
}

func (c *ChoiceSym) SymName() string { return c.Name }
func (*ChoiceSym) sym()              {}

// sameParams reports whether a and b are an identical parameter-type
// signature: same arity and each parameter's type is the same Sym (spec
// §4.3 can_add: "arity + each type identity").
func sameParams(a, b []*Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

// canAddProc reports whether p may join an existing set of overloaded
// procs: no member may already share p's exact parameter-type signature.
func canAddProc(existing []*ProcSym, p *ProcSym) bool {
	for _, c := range existing {
		if sameParams(c.Params, p.Params) {
			return false
		}
	}
	return true
}

// canAddIterator is canAddProc's counterpart for overloaded iterators.
func canAddIterator(existing []*IteratorSym, it *IteratorSym) bool {
	for _, c := range existing {
		if sameParams(c.Params, it.Params) {
			return false
		}
	}
	return true
}
