// Package manifest loads unit files: the TOML manifests describing the
// wrappers, functions and expressions of a compilation unit.  Types and
// expressions are written as short source strings which are parsed into the
// AST with their positions in the unit file preserved for diagnostics.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml"

	"wrapc/ast"
	"wrapc/common"
	"wrapc/depm"
	"wrapc/report"
	"wrapc/types"
	"wrapc/util"
)

// Manifest is a loaded unit file.
type Manifest struct {
	Unit *depm.Unit

	// The settings of the unit header.
	Version string
	Emit    string
	Output  string

	// The errors and warnings in the definitions of the unit.  Definitions
	// with errors are omitted from the unit.
	Errors   []*report.CompileError
	Warnings []*report.CompileError
}

// LoadManifest loads the unit file at the given path.  The returned error is
// only set if the file could not be read or is not a valid unit file at all:
// errors in individual definitions are collected in the manifest.
func LoadManifest(path string) (*Manifest, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	buff, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	return LoadManifestBytes(buff, absPath, path)
}

// LoadManifestBytes loads a unit file from its contents.
func LoadManifestBytes(buff []byte, absPath, reprPath string) (*Manifest, error) {
	tree, err := toml.LoadBytes(buff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", reprPath, err)
	}

	tuf := &tomlUnitFile{}
	if err := tree.Unmarshal(tuf); err != nil {
		return nil, fmt.Errorf("%s: %w", reprPath, err)
	}

	if tuf.Unit == nil {
		return nil, fmt.Errorf("%s: missing [unit] table", reprPath)
	} else if tuf.Unit.Name == "" {
		return nil, errors.New(reprPath + ": missing unit name")
	}

	if tuf.Unit.Emit != "" && !util.Contains(common.EmitFormats, tuf.Unit.Emit) {
		return nil, fmt.Errorf("%s: invalid output format `%s`: expected one of %s", reprPath, tuf.Unit.Emit, strings.Join(common.EmitFormats, ", "))
	}

	l := &loader{
		man: &Manifest{
			Unit:    depm.NewUnit(tuf.Unit.Name, absPath, reprPath),
			Version: tuf.Unit.Version,
			Emit:    tuf.Unit.Emit,
			Output:  tuf.Unit.Output,
		},
		lines:    strings.Split(string(buff), "\n"),
		wrappers: make(map[string]struct{}),
	}

	if tuf.Unit.Version != common.WrapcVersion {
		l.man.Warnings = append(l.man.Warnings, report.Raise(
			report.KindDefinition,
			l.keySpan(subtree(tree, "unit"), "wrapc-version"),
			"version of unit `%s` (v%s) does not match current wrapc version (v%s)",
			tuf.Unit.Name,
			tuf.Unit.Version,
			common.WrapcVersion,
		))
	}

	for _, tw := range tuf.Wrappers {
		l.wrappers[tw.Name] = struct{}{}
	}

	typeTrees := subtrees(tree, "type")
	for i, tt := range tuf.Types {
		l.loadType(tt, treeAt(typeTrees, i))
	}

	wrapperTrees := subtrees(tree, "wrapper")
	for i, tw := range tuf.Wrappers {
		l.loadWrapper(tw, treeAt(wrapperTrees, i))
	}

	funcTrees := subtrees(tree, "func")
	for i, tf := range tuf.Funcs {
		l.loadFunc(tf, treeAt(funcTrees, i))
	}

	l.loadExprs(tree, tuf)
	return l.man, nil
}

// -----------------------------------------------------------------------------

// loader holds the state of loading the definitions of a unit file.
type loader struct {
	man *Manifest

	// The lines of the unit file: used to locate strings.
	lines []string

	// The names of all the wrappers declared in the unit file.
	wrappers map[string]struct{}

	// The type parameters in scope while loading a wrapper or a generic
	// function.
	typeParams []*types.TypeParam
}

func (l *loader) lookupType(name string) (types.Type, bool) {
	if pt, ok := types.LookupPrimitive(name); ok {
		return pt, true
	}

	for _, tp := range l.typeParams {
		if tp.Name == name {
			return tp, true
		}
	}

	return l.man.Unit.ResolveType(name)
}

func (l *loader) isWrapper(name string) bool {
	_, ok := l.wrappers[name]
	return ok
}

// addError records an error in a definition.
func (l *loader) addError(err error) {
	if cerr, ok := err.(*report.CompileError); ok {
		l.man.Errors = append(l.man.Errors, cerr)
	} else {
		l.man.Errors = append(l.man.Errors, report.Raise(report.KindSyntax, nil, "%s", err))
	}
}

// loadType loads a nominal type.
func (l *loader) loadType(tt *tomlType, tree *toml.Tree) {
	span := l.tableSpan(tree)
	if tt.Name == "" {
		l.addError(report.Raise(report.KindDefinition, span, "type is missing a name"))
		return
	}

	if cerr := l.man.Unit.AddType(&types.NamedType{Name: tt.Name, Conformances: tt.Conforms}, span); cerr != nil {
		l.addError(cerr)
	}
}

// loadWrapper loads a wrapper type.
func (l *loader) loadWrapper(tw *tomlWrapper, tree *toml.Tree) {
	span := l.tableSpan(tree)
	if tw.Name == "" {
		l.addError(report.Raise(report.KindDefinition, span, "wrapper is missing a name"))
		return
	}

	paramName := tw.Param
	if paramName == "" {
		paramName = "Value"
	}

	tp := &types.TypeParam{Name: paramName, Constraints: tw.Constraints}
	l.typeParams = []*types.TypeParam{tp}
	defer func() {
		l.typeParams = nil
	}()

	wd := &ast.WrapperDef{
		ASTBase:   ast.NewASTBaseOn(span),
		Name:      tw.Name,
		TypeParam: tp,
	}

	var ok bool
	if wd.Access, ok = l.loadAccess(tw.Access, tree); !ok {
		return
	}

	if tw.Wrapped != nil {
		if wd.WrappedValue, ok = l.loadProperty(tw.Wrapped, subtree(tree, "wrapped")); !ok {
			return
		}
	}

	if tw.Projected != nil {
		if wd.ProjectedValue, ok = l.loadProperty(tw.Projected, subtree(tree, "projected")); !ok {
			return
		}
	}

	initTrees := subtrees(tree, "init")
	for i, ti := range tw.Inits {
		init, ok := l.loadInit(ti, treeAt(initTrees, i), wd.Access)
		if !ok {
			return
		}

		wd.Inits = append(wd.Inits, init)
	}

	if cerr := l.man.Unit.AddWrapper(wd); cerr != nil {
		l.addError(cerr)
	}
}

// loadProperty loads a wrapper property.
func (l *loader) loadProperty(tp *tomlProperty, tree *toml.Tree) (*ast.Property, bool) {
	prop := &ast.Property{ASTBase: ast.NewASTBaseOn(l.tableSpan(tree))}

	var ok bool
	if prop.Type, ok = parseString(l, tree, "type", tp.Type, parseTypeString); !ok {
		return nil, false
	}

	if prop.Get, ok = l.loadMutability(tp.Get, ast.Nonmutating, tree, "get"); !ok {
		return nil, false
	}

	if prop.Set, ok = l.loadMutability(tp.Set, ast.Unavailable, tree, "set"); !ok {
		return nil, false
	}

	return prop, true
}

// loadMutability converts an accessor mutability keyword.  The empty string
// gives the default.
func (l *loader) loadMutability(name string, def ast.Mutability, tree *toml.Tree, key string) (ast.Mutability, bool) {
	switch name {
	case "":
		return def, true
	case "nonmutating":
		return ast.Nonmutating, true
	case "mutating":
		return ast.Mutating, true
	case "none":
		return ast.Unavailable, true
	}

	l.addError(report.Raise(
		report.KindDefinition,
		l.keySpan(tree, key),
		"invalid accessor mutability `%s`: expected `nonmutating`, `mutating` or `none`",
		name,
	))
	return 0, false
}

// loadAccess converts an access level keyword.
func (l *loader) loadAccess(name string, tree *toml.Tree) (ast.AccessLevel, bool) {
	if al, ok := ast.ParseAccessLevel(name); ok {
		return al, true
	}

	l.addError(report.Raise(report.KindDefinition, l.keySpan(tree, "access"), "invalid access level `%s`", name))
	return 0, false
}

// loadInit loads a wrapper constructor.  Constructors default to the access
// level of their wrapper.
func (l *loader) loadInit(ti *tomlInit, tree *toml.Tree, wrapperAccess ast.AccessLevel) (*ast.InitDef, bool) {
	init := &ast.InitDef{
		ASTBase:  ast.NewASTBaseOn(l.tableSpan(tree)),
		Where:    ti.Where,
		Failable: ti.Failable,
		Access:   wrapperAccess,
	}

	if ti.Access != "" {
		var ok bool
		if init.Access, ok = l.loadAccess(ti.Access, tree); !ok {
			return nil, false
		}
	}

	if len(ti.Params) == 0 {
		l.addError(report.Raise(report.KindDefinition, init.Span(), "constructor must take at least one parameter"))
		return nil, false
	}

	for _, text := range ti.Params {
		ip, ok := parseString(l, tree, "params", text, parseInitParamString)
		if !ok {
			return nil, false
		}

		init.Params = append(init.Params, ip)
	}

	return init, true
}

// loadFunc loads a function.
func (l *loader) loadFunc(tf *tomlFunc, tree *toml.Tree) {
	span := l.tableSpan(tree)
	if tf.Name == "" {
		l.addError(report.Raise(report.KindDefinition, span, "function is missing a name"))
		return
	}

	fd := &ast.FuncDef{
		ASTBase:    ast.NewASTBaseOn(span),
		Name:       tf.Name,
		ReturnType: types.PrimTypeVoid,
		Overrides:  tf.Overrides,
	}

	var ok bool
	if fd.Access, ok = l.loadAccess(tf.Access, tree); !ok {
		return
	}

	for _, text := range tf.Generics {
		tp, err := parseGenericParam(text)
		if err != nil {
			l.addError(report.Raise(report.KindSyntax, l.keySpan(tree, "generics"), "%s", err))
			return
		}

		fd.TypeParams = append(fd.TypeParams, tp)
	}

	l.typeParams = fd.TypeParams
	defer func() {
		l.typeParams = nil
	}()

	if tf.Result != "" {
		if fd.ReturnType, ok = parseString(l, tree, "result", tf.Result, parseTypeString); !ok {
			return
		}
	}

	paramTrees := subtrees(tree, "param")
	for i, tp := range tf.Params {
		decl, ok := l.loadParam(tp, treeAt(paramTrees, i))
		if !ok {
			return
		}

		fd.Params = append(fd.Params, decl)
	}

	for _, text := range tf.Body {
		stmt, ok := parseString(l, tree, "body", text, parseStmtString)
		if !ok {
			return
		}

		fd.Body = append(fd.Body, stmt)
	}

	if cerr := l.man.Unit.AddFunc(fd); cerr != nil {
		l.addError(cerr)
	}
}

// parseGenericParam parses a generic parameter of a function: a name
// optionally followed by its constraints, eg. `T: Collection & Hashable`.
func parseGenericParam(text string) (*types.TypeParam, error) {
	name, constraints, hasConstraints := strings.Cut(text, ":")

	tp := &types.TypeParam{Name: strings.TrimSpace(name)}
	if !isIdentifier(tp.Name) {
		return nil, fmt.Errorf("invalid generic parameter `%s`", text)
	}

	if hasConstraints {
		for _, constraint := range strings.Split(constraints, "&") {
			constraint = strings.TrimSpace(constraint)
			if !isIdentifier(constraint) {
				return nil, fmt.Errorf("invalid constraint `%s` on generic parameter `%s`", constraint, tp.Name)
			}

			tp.Constraints = append(tp.Constraints, constraint)
		}
	}

	return tp, nil
}

// loadParam loads a function parameter.
func (l *loader) loadParam(tp *tomlParam, tree *toml.Tree) (*ast.ParamDecl, bool) {
	decl := &ast.ParamDecl{
		ASTBase:       ast.NewASTBaseOn(l.tableSpan(tree)),
		Label:         tp.Label,
		Name:          tp.Name,
		Autoclosure:   tp.Autoclosure,
		ResultBuilder: tp.Builder,
	}

	if decl.Name == "" {
		l.addError(report.Raise(report.KindDefinition, decl.Span(), "parameter is missing a name"))
		return nil, false
	}

	if decl.Label == "" {
		decl.Label = decl.Name
	}

	var ok bool
	if decl.Type, ok = parseString(l, tree, "type", tp.Type, parseTypeString); !ok {
		return nil, false
	}

	if len(tp.Wrappers) > 0 {
		decl.Wrappers = &ast.WrapperAttr{}

		for _, text := range tp.Wrappers {
			ref, ok := parseString(l, tree, "wrappers", text, parseWrapperString)
			if !ok {
				return nil, false
			}

			decl.Wrappers.Wrappers = append(decl.Wrappers.Wrappers, ref)
		}
	}

	return decl, true
}

// positionedExpr is a top level expression with its position in the unit file.
type positionedExpr struct {
	pos  toml.Position
	expr ast.Expr
}

// loadExprs loads the top level expressions in the order they appear in the
// unit file.
func (l *loader) loadExprs(tree *toml.Tree, tuf *tomlUnitFile) {
	var exprs []positionedExpr

	load := func(key, kind string, tes []*tomlExpr, check func(ast.Expr) bool) {
		exprTrees := subtrees(tree, key)

		for i, te := range tes {
			exprTree := treeAt(exprTrees, i)

			expr, ok := parseString(l, exprTree, "expr", te.Expr, parseExprString)
			if !ok {
				continue
			}

			if !check(expr) {
				l.addError(report.Raise(report.KindDefinition, expr.Span(), "[[%s]] expression must be %s", key, kind))
				continue
			}

			exprs = append(exprs, positionedExpr{pos: treePosition(exprTree), expr: expr})
		}
	}

	load("call", "a call", tuf.Calls, func(expr ast.Expr) bool {
		_, ok := expr.(*ast.Call)
		return ok
	})

	load("ref", "an unapplied function reference", tuf.Refs, func(expr ast.Expr) bool {
		_, ok := expr.(*ast.FuncRef)
		return ok
	})

	load("closure", "a closure", tuf.Closures, func(expr ast.Expr) bool {
		_, ok := expr.(*ast.Closure)
		return ok
	})

	sort.SliceStable(exprs, func(i, j int) bool {
		if exprs[i].pos.Line == exprs[j].pos.Line {
			return exprs[i].pos.Col < exprs[j].pos.Col
		}

		return exprs[i].pos.Line < exprs[j].pos.Line
	})

	l.man.Unit.Exprs = util.Map(exprs, func(pe positionedExpr) ast.Expr {
		return pe.expr
	})
}

// -----------------------------------------------------------------------------

// parseString parses the string value of a key in a table.  Errors are
// recorded on the loader.
func parseString[T any](l *loader, tree *toml.Tree, key, text string, parse func(string, int, int, scope) (T, error)) (T, bool) {
	line, col := l.locate(tree, key, text)

	result, err := parse(text, line, col, l)
	if err != nil {
		l.addError(err)

		var zero T
		return zero, false
	}

	return result, true
}

// locate finds a string value of a key in the unit file.  It returns the
// zero-based position of the first character of the string, falling back on
// the position of the key if the string cannot be found verbatim.
func (l *loader) locate(tree *toml.Tree, key, text string) (int, int) {
	pos := keyPosition(tree, key)
	if pos.Invalid() {
		return 0, 0
	}

	for i := pos.Line - 1; i < len(l.lines) && i < pos.Line-1+locateWindow; i++ {
		for _, quote := range []string{`"`, `'`} {
			if ndx := strings.Index(l.lines[i], quote+text+quote); ndx >= 0 {
				return i, ndx + 1
			}
		}
	}

	return pos.Line - 1, pos.Col - 1
}

// locateWindow is the number of lines after a key searched for its value.
const locateWindow = 64

// tableSpan returns the span of the header of a table.
func (l *loader) tableSpan(tree *toml.Tree) *report.TextSpan {
	pos := treePosition(tree)
	if pos.Invalid() {
		return nil
	}

	return l.lineSpan(pos)
}

// keySpan returns the span of a key in a table.
func (l *loader) keySpan(tree *toml.Tree, key string) *report.TextSpan {
	pos := keyPosition(tree, key)
	if pos.Invalid() {
		return nil
	}

	return l.lineSpan(pos)
}

// lineSpan returns the span from a position to the end of its line.
func (l *loader) lineSpan(pos toml.Position) *report.TextSpan {
	line, col := pos.Line-1, pos.Col-1

	endCol := col
	if line < len(l.lines) {
		endCol = len(strings.TrimRight(l.lines[line], " \t\r")) - 1
	}

	if endCol < col {
		endCol = col
	}

	return &report.TextSpan{StartLine: line, StartCol: col, EndLine: line, EndCol: endCol}
}

// subtree returns the table stored under a key.
func subtree(tree *toml.Tree, key string) *toml.Tree {
	if tree == nil {
		return nil
	}

	sub, _ := tree.Get(key).(*toml.Tree)
	return sub
}

// subtrees returns the tables of the array of tables stored under a key.
func subtrees(tree *toml.Tree, key string) []*toml.Tree {
	if tree == nil {
		return nil
	}

	subs, _ := tree.Get(key).([]*toml.Tree)
	return subs
}

// treeAt returns the table at an index of an array of tables.
func treeAt(trees []*toml.Tree, i int) *toml.Tree {
	if i < len(trees) {
		return trees[i]
	}

	return nil
}

// treePosition returns the position of a table.
func treePosition(tree *toml.Tree) toml.Position {
	if tree == nil {
		return toml.Position{}
	}

	return tree.Position()
}

// keyPosition returns the position of a key in a table.
func keyPosition(tree *toml.Tree, key string) toml.Position {
	if tree == nil {
		return toml.Position{}
	}

	return tree.GetPosition(key)
}
