package depm

import (
	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// Symbol represents a named, globally visible definition of a unit.
type Symbol struct {
	Name string

	// DefSpan is where the symbol was defined.
	DefSpan *report.TextSpan

	// DefKind indicates what type of symbol this is.  Must be one of the
	// enumerated def kinds.
	DefKind int

	// The definition the symbol refers to.  Exactly one of these is set,
	// according to the def kind.
	Type    types.Type
	Wrapper *ast.WrapperDef
	Func    *ast.FuncDef
}

// Enumeration of definition kinds.
const (
	DefKindType = iota
	DefKindWrapper
	DefKindFunc
)

// defKindNames are the user facing names of the definition kinds.
var defKindNames = [...]string{
	DefKindType:    "type",
	DefKindWrapper: "wrapper",
	DefKindFunc:    "function",
}
