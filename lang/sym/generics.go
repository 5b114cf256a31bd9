package sym

import (
	"fmt"
	"strings"

	"github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/token"
)

// generic is embedded in every Sym kind that can be declared with type
// parameters (ProcSym, IteratorSym, TypeSym for objects). It owns the
// instantiation cache keyed by argument-symbol vector (spec §4.4) and the
// in-progress set used to reject a generic instantiating itself while its
// own instantiation is still being built.
type generic struct {
	Generics []*GenericParamSym

	instCache   map[string]Sym
	instPending map[string]bool
}

// IsGeneric reports whether a symbol declares its own type parameters.
func (g *generic) IsGeneric() bool { return len(g.Generics) > 0 }

func instKey(args []*TypeSym) string {
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%p", a)
	}
	return sb.String()
}

// Instantiate resolves template against the given concrete type
// arguments, memoizing the result so repeated instantiation with the same
// arguments returns the identical Sym (spec §4.4):
//
//  1. validate template is generic and len(args) matches len(Generics);
//  2. build the key from the argument vector and consult the cache;
//  3. guard against a generic instantiating itself recursively through
//     its own body while step 5 below is still running;
//  4. build the substitution map from generic parameter name to argument
//     type, checking each argument against its constraint if any;
//  5. deep-copy template's shape (params, return/yield type, object
//     fields) substituting generic parameter references for their
//     argument, cache the result, and return it.
func Instantiate(template Sym, args []*TypeSym, pos token.Pos) (Sym, error) {
	g := genericOf(template)
	if g == nil || !g.IsGeneric() {
		return nil, errors.Compilef(pos, errors.NotGeneric, "'%s' is not generic", template.SymName())
	}
	if len(args) != len(g.Generics) {
		return nil, errors.Compilef(pos, errors.GenericArgLenMismatch,
			"'%s' expects %d type argument(s), got %d", template.SymName(), len(g.Generics), len(args))
	}

	key := instKey(args)
	if g.instCache == nil {
		g.instCache = make(map[string]Sym)
	}
	if cached, ok := g.instCache[key]; ok {
		return cached, nil
	}
	if g.instPending == nil {
		g.instPending = make(map[string]bool)
	}
	if g.instPending[key] {
		return nil, errors.Compilef(pos, errors.RecursiveGenericInstantiation,
			"'%s' instantiation is recursive", template.SymName())
	}

	subst := make(map[string]*TypeSym, len(args))
	for i, gp := range g.Generics {
		if gp.Constraint != nil && !gp.Constraint.SameAs(args[i]) {
			return nil, errors.Compilef(pos, errors.TypeMismatch,
				"type argument %d for '%s' does not satisfy constraint '%s'", i, template.SymName(), gp.Constraint.Name)
		}
		subst[gp.Name] = args[i]
	}

	g.instPending[key] = true
	defer delete(g.instPending, key)

	result := substituteSym(template, subst)
	g.instCache[key] = result
	return result, nil
}

func genericOf(s Sym) *generic {
	switch v := s.(type) {
	case *ProcSym:
		return &v.generic
	case *IteratorSym:
		return &v.generic
	case *TypeSym:
		return &v.generic
	default:
		return nil
	}
}

func substituteTy(ty *TypeSym, subst map[string]*TypeSym) *TypeSym {
	if ty == nil {
		return nil
	}
	if repl, ok := subst[ty.Name]; ok {
		return repl
	}
	if ty.Kind != Object || len(ty.Fields) == 0 {
		return ty
	}
	fields := make([]*Field, len(ty.Fields))
	changed := false
	for i, f := range ty.Fields {
		nt := substituteTy(f.Type, subst)
		fields[i] = &Field{Name: f.Name, Type: nt}
		if nt != f.Type {
			changed = true
		}
	}
	if !changed {
		return ty
	}
	cp := *ty
	cp.Fields = fields
	cp.Generics = nil
	return &cp
}

func substituteParams(params []*Param, subst map[string]*TypeSym) []*Param {
	out := make([]*Param, len(params))
	for i, p := range params {
		out[i] = &Param{Name: p.Name, Type: substituteTy(p.Type, subst)}
	}
	return out
}

func substituteSym(template Sym, subst map[string]*TypeSym) Sym {
	switch t := template.(type) {
	case *ProcSym:
		return &ProcSym{
			Name:     t.Name,
			ProcID:   t.ProcID,
			Params:   substituteParams(t.Params, subst),
			ReturnTy: substituteTy(t.ReturnTy, subst),
		}
	case *IteratorSym:
		return &IteratorSym{
			Name:    t.Name,
			Params:  substituteParams(t.Params, subst),
			YieldTy: substituteTy(t.YieldTy, subst),
		}
	case *TypeSym:
		return substituteTy(t, subst)
	default:
		return template
	}
}
