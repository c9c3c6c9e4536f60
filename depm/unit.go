package depm

import (
	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// Unit is a single compilation unit: the wrappers, functions and expressions
// loaded from one unit file.
type Unit struct {
	// The name of the unit.
	Name string

	// AbsPath is the absolute path to the unit file.  It is used to display
	// source text for diagnostics.
	AbsPath string

	// ReprPath is the path of the unit file as it is displayed to the user.
	ReprPath string

	// The global symbol table of the unit.
	Table *SymbolTable

	// The definitions of the unit in the order they were loaded.
	Wrappers []*ast.WrapperDef
	Funcs    []*ast.FuncDef

	// The top level expressions to desugar, in the order they were loaded.
	Exprs []ast.Expr
}

// NewUnit creates a new empty unit.
func NewUnit(name, absPath, reprPath string) *Unit {
	return &Unit{
		Name:     name,
		AbsPath:  absPath,
		ReprPath: reprPath,
		Table:    NewSymbolTable(),
	}
}

// AddType defines a nominal type in the unit.
func (u *Unit) AddType(nt *types.NamedType, span *report.TextSpan) *report.CompileError {
	if _, ok := types.LookupPrimitive(nt.Name); ok {
		return report.Raise(report.KindDefinition, span, "cannot redefine builtin type `%s`", nt.Name)
	}

	return u.Table.Define(&Symbol{Name: nt.Name, DefSpan: span, DefKind: DefKindType, Type: nt})
}

// AddWrapper defines a wrapper in the unit.
func (u *Unit) AddWrapper(wd *ast.WrapperDef) *report.CompileError {
	if cerr := u.Table.Define(&Symbol{Name: wd.Name, DefSpan: wd.Span(), DefKind: DefKindWrapper, Wrapper: wd}); cerr != nil {
		return cerr
	}

	u.Wrappers = append(u.Wrappers, wd)
	return nil
}

// AddFunc defines a function in the unit.
func (u *Unit) AddFunc(fd *ast.FuncDef) *report.CompileError {
	if cerr := u.Table.Define(&Symbol{Name: fd.Name, DefSpan: fd.Span(), DefKind: DefKindFunc, Func: fd}); cerr != nil {
		return cerr
	}

	u.Funcs = append(u.Funcs, fd)
	return nil
}
