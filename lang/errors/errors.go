// Package errors defines the two fatal diagnostic types raised by the
// front end: SyntaxError (scanner/parser) and CompileError (symbol model
// and code generator). Both are immediately fatal — the language does not
// yet support best-effort error recovery (spec §7) — so a single value is
// enough; there is no accumulating error list to sort or deduplicate.
package errors

import (
	"fmt"

	"github.com/mna/bryony/lang/token"
)

// SyntaxError is raised by the scanner or the parser.
type SyntaxError struct {
	Pos     token.Pos
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Kind identifies a CompileError's template, letting callers (tests in
// particular) assert on the class of failure without parsing the message.
type Kind int

const (
	_ Kind = iota
	ShadowResult
	LocalRedeclaration
	GlobalRedeclaration
	UndefinedReference
	LetReassignment
	TypeMismatch
	TypeMismatchChoice
	NotAProc
	InvalidField
	NonExistentField
	InvalidAssignment
	TypeIsNotAnObject
	ObjectFieldsMustBeInitialized
	FieldInitMustBeAColonExpr
	NoSuchField
	ValueIsVoid
	OnlyUsableInABlock
	OnlyUsableInALoop
	OnlyUsableInAProc
	OnlyUsableInAnIterator
	VarMustHaveValue
	IterMustHaveYieldType
	SymKindMismatch
	InvalidSymName
	CouldNotInferGeneric
	NotGeneric
	GenericArgLenMismatch
	RecursiveGenericInstantiation
)

var kindNames = [...]string{
	ShadowResult:                  "ShadowResult",
	LocalRedeclaration:            "LocalRedeclaration",
	GlobalRedeclaration:           "GlobalRedeclaration",
	UndefinedReference:            "UndefinedReference",
	LetReassignment:               "LetReassignment",
	TypeMismatch:                  "TypeMismatch",
	TypeMismatchChoice:            "TypeMismatchChoice",
	NotAProc:                      "NotAProc",
	InvalidField:                  "InvalidField",
	NonExistentField:              "NonExistentField",
	InvalidAssignment:             "InvalidAssignment",
	TypeIsNotAnObject:             "TypeIsNotAnObject",
	ObjectFieldsMustBeInitialized: "ObjectFieldsMustBeInitialized",
	FieldInitMustBeAColonExpr:     "FieldInitMustBeAColonExpr",
	NoSuchField:                   "NoSuchField",
	ValueIsVoid:                   "ValueIsVoid",
	OnlyUsableInABlock:            "OnlyUsableInABlock",
	OnlyUsableInALoop:             "OnlyUsableInALoop",
	OnlyUsableInAProc:             "OnlyUsableInAProc",
	OnlyUsableInAnIterator:        "OnlyUsableInAnIterator",
	VarMustHaveValue:              "VarMustHaveValue",
	IterMustHaveYieldType:         "IterMustHaveYieldType",
	SymKindMismatch:               "SymKindMismatch",
	InvalidSymName:                "InvalidSymName",
	CouldNotInferGeneric:          "CouldNotInferGeneric",
	NotGeneric:                    "NotGeneric",
	GenericArgLenMismatch:         "GenericArgLenMismatch",
	RecursiveGenericInstantiation: "RecursiveGenericInstantiation",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UnknownKind"
}

// CompileError is raised by the symbol model or the code generator.
type CompileError struct {
	Pos     token.Pos
	Kind    Kind
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Syntaxf constructs a SyntaxError with a formatted message.
func Syntaxf(pos token.Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Compilef constructs a CompileError of the given kind with a formatted
// message.
func Compilef(pos token.Pos, kind Kind, format string, args ...any) *CompileError {
	return &CompileError{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
