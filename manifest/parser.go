package manifest

import (
	"strings"

	"wrapc/ast"
	"wrapc/report"
	"wrapc/types"
)

// scope supplies the names a type or expression string may refer to.
type scope interface {
	// lookupType returns the type with the given name: a primitive, a type
	// declared by the unit, or a type parameter in scope.
	lookupType(name string) (types.Type, bool)

	// isWrapper returns whether a wrapper with the given name is declared.
	isWrapper(name string) bool
}

// parser is a recursive descent parser for the types, expressions and
// statements written as strings in a unit file.  Parsing methods panic with a
// compile error: the exported entry points recover it.
type parser struct {
	toks []*token
	ndx  int

	// The position of the start of the string in the unit file.
	line, col int

	sc scope
}

// newParser creates a parser for a string found at the given zero-based
// position in the unit file.
func newParser(text string, line, col int, sc scope) (*parser, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, report.Raise(report.KindSyntax, &report.TextSpan{StartLine: line, StartCol: col, EndLine: line, EndCol: col + len(text) - 1}, "%s", err)
	}

	return &parser{toks: toks, line: line, col: col, sc: sc}, nil
}

// run runs a parsing function and checks that it consumes the whole string.
func (p *parser) run(f func()) (err error) {
	defer func() {
		if x := recover(); x != nil {
			if cerr, ok := x.(*report.CompileError); ok {
				err = cerr
			} else {
				panic(x)
			}
		}
	}()

	f()

	if tok := p.peek(); tok.kind != tokEOF {
		p.reject(tok)
	}

	return nil
}

// -----------------------------------------------------------------------------

// peek returns the current token.
func (p *parser) peek() *token {
	return p.toks[p.ndx]
}

// peekN returns the token n tokens ahead of the current token.
func (p *parser) peekN(n int) *token {
	if p.ndx+n < len(p.toks) {
		return p.toks[p.ndx+n]
	}

	return p.toks[len(p.toks)-1]
}

// next consumes the current token.
func (p *parser) next() *token {
	tok := p.toks[p.ndx]
	if tok.kind != tokEOF {
		p.ndx++
	}

	return tok
}

// is returns whether the current token is the given punctuation or keyword.
func (p *parser) is(value string) bool {
	tok := p.peek()
	return (tok.kind == tokPunct || tok.kind == tokIdent) && tok.value == value
}

// accept consumes the current token if it is the given punctuation or keyword.
func (p *parser) accept(value string) bool {
	if p.is(value) {
		p.next()
		return true
	}

	return false
}

// want consumes a token that must be the given punctuation or keyword.
func (p *parser) want(value string) *token {
	if !p.is(value) {
		p.reject(p.peek(), "`"+value+"`")
	}

	return p.next()
}

// wantIdent consumes a token that must be an identifier.
func (p *parser) wantIdent() *token {
	if p.peek().kind != tokIdent {
		p.reject(p.peek(), "a name")
	}

	return p.next()
}

// span returns the span in the unit file from the start of one token to the
// end of another.
func (p *parser) span(start, end *token) *report.TextSpan {
	return &report.TextSpan{
		StartLine: p.line,
		StartCol:  p.col + start.col,
		EndLine:   p.line,
		EndCol:    p.col + end.endCol - 1,
	}
}

// prev returns the last consumed token.
func (p *parser) prev() *token {
	if p.ndx == 0 {
		return p.toks[0]
	}

	return p.toks[p.ndx-1]
}

// reject reports an unexpected token.
func (p *parser) reject(tok *token, expected ...string) {
	found := "`" + tok.value + "`"
	if tok.kind == tokEOF {
		found = "end of text"
	}

	if len(expected) == 0 {
		p.fail(tok, "unexpected %s", found)
	}

	p.fail(tok, "expected %s but found %s", strings.Join(expected, " or "), found)
}

// fail reports a syntax error on a token.
func (p *parser) fail(tok *token, msg string, args ...interface{}) {
	panic(report.Raise(report.KindSyntax, p.span(tok, tok), msg, args...))
}

// -----------------------------------------------------------------------------

// parseType parses a type:
//
//	type := name ['<' type {',' type} '>'] | '[' type ']' | '(' [type {',' type}] ')' '->' type
func (p *parser) parseType() types.Type {
	switch {
	case p.accept("["):
		elem := p.parseType()
		p.want("]")
		return &types.ListType{ElemType: elem}
	case p.accept("("):
		ft := &types.FuncType{}
		if !p.is(")") {
			for {
				ft.ParamTypes = append(ft.ParamTypes, p.parseType())

				if !p.accept(",") {
					break
				}
			}
		}

		p.want(")")
		p.want("->")
		ft.ReturnType = p.parseType()
		return ft
	}

	name := p.wantIdent()
	if p.accept("<") {
		gi := &types.GenericInstance{Name: name.value}
		for {
			gi.Args = append(gi.Args, p.parseType())

			if !p.accept(",") {
				break
			}
		}

		p.want(">")
		return gi
	}

	if typ, ok := p.sc.lookupType(name.value); ok {
		return typ
	}

	p.fail(name, "unknown type `%s`", name.value)
	return nil
}

// parseExpr parses an expression.  An identifier may be given a type with
// `as`: eg. `apple as Fruit`.
func (p *parser) parseExpr() ast.Expr {
	start := p.peek()
	expr := p.parsePrimary()

	if p.accept("as") {
		typ := p.parseType()

		id, ok := expr.(*ast.Identifier)
		if !ok {
			p.fail(start, "only names can be given a type with `as`")
		}

		return &ast.Identifier{ExprBase: ast.NewExprBase(typ, p.span(start, p.prev())), Name: id.Name}
	}

	return expr
}

// parsePrimary parses an expression without a type annotation.
func (p *parser) parsePrimary() ast.Expr {
	tok := p.peek()

	switch tok.kind {
	case tokInt:
		p.next()
		return &ast.Literal{ExprBase: ast.NewExprBase(types.PrimTypeInt, p.span(tok, tok)), Text: tok.value}
	case tokFloat:
		p.next()
		return &ast.Literal{ExprBase: ast.NewExprBase(types.PrimTypeDouble, p.span(tok, tok)), Text: tok.value}
	case tokString:
		p.next()
		return &ast.Literal{ExprBase: ast.NewExprBase(types.PrimTypeString, p.span(tok, tok)), Text: tok.value}
	case tokIdent:
		switch tok.value {
		case "true", "false":
			p.next()
			return &ast.Literal{ExprBase: ast.NewExprBase(types.PrimTypeBool, p.span(tok, tok)), Text: tok.value}
		}

		if p.peekN(1).kind == tokPunct && p.peekN(1).value == "(" {
			if p.isFuncRef() {
				return p.parseFuncRef()
			}

			return p.parseCall()
		}

		p.next()
		return &ast.Identifier{ExprBase: ast.NewExprBase(nil, p.span(tok, tok)), Name: tok.value}
	case tokPunct:
		switch tok.value {
		case "[":
			return p.parseList()
		case ".":
			return p.parseImplicitMember()
		case "{":
			return p.parseClosure()
		case "-":
			if num := p.peekN(1); num.kind == tokInt || num.kind == tokFloat {
				p.next()
				p.next()

				typ := types.PrimTypeInt
				if num.kind == tokFloat {
					typ = types.PrimTypeDouble
				}

				return &ast.Literal{ExprBase: ast.NewExprBase(typ, p.span(tok, num)), Text: "-" + num.value}
			}
		}
	}

	p.reject(tok, "an expression")
	return nil
}

// parseList parses a list literal.  Its type is the element type shared by
// all its elements, if any.
func (p *parser) parseList() ast.Expr {
	start := p.want("[")

	var elems []ast.Expr
	if !p.is("]") {
		elems = p.parseExprList()
	}

	end := p.want("]")

	var typ types.Type
	if len(elems) > 0 {
		elemType := elems[0].Type()
		for _, elem := range elems[1:] {
			if !types.Equals(elem.Type(), elemType) {
				elemType = nil
				break
			}
		}

		if elemType != nil {
			typ = &types.ListType{ElemType: elemType}
		}
	}

	return &ast.ListLiteral{ExprBase: ast.NewExprBase(typ, p.span(start, end)), Elems: elems}
}

// parseImplicitMember parses an implicit member expression: eg.
// `.greaterOrEqual(1)`.
func (p *parser) parseImplicitMember() ast.Expr {
	start := p.want(".")
	name := p.wantIdent()

	im := &ast.ImplicitMember{Name: name.value}
	if p.accept("(") {
		im.Called = true

		if !p.is(")") {
			im.Args = p.parseExprList()
		}

		p.want(")")
	}

	im.ExprBase = ast.NewExprBase(nil, p.span(start, p.prev()))
	return im
}

// parseExprList parses a comma separated list of expressions.
func (p *parser) parseExprList() []ast.Expr {
	var exprs []ast.Expr
	for {
		exprs = append(exprs, p.parseExpr())

		if !p.accept(",") {
			return exprs
		}
	}
}

// isFuncRef returns whether the name and opening parenthesis at the current
// token begin an unapplied function reference: eg. `buy(quantity:fruit:)`.
func (p *parser) isFuncRef() bool {
	isLabel := func(n int) bool {
		return p.peekN(n).kind == tokIdent && p.peekN(n+1).kind == tokPunct && p.peekN(n+1).value == ":"
	}

	if !isLabel(2) {
		return false
	}

	after := p.peekN(4)
	return (after.kind == tokPunct && after.value == ")") || isLabel(4)
}

// parseFuncRef parses an unapplied function reference.
func (p *parser) parseFuncRef() ast.Expr {
	name := p.next()
	p.want("(")

	fr := &ast.FuncRef{Name: name.value}
	for !p.is(")") {
		label := p.wantIdent().value
		if label == "_" {
			label = ""
		}

		fr.Labels = append(fr.Labels, label)
		p.want(":")
	}

	end := p.want(")")
	fr.ExprBase = ast.NewExprBase(nil, p.span(name, end))
	return fr
}

// parseCall parses a call to a named function.
func (p *parser) parseCall() ast.Expr {
	name := p.next()
	p.want("(")

	call := &ast.Call{Callee: name.value}
	if !p.is(")") {
		call.Args = p.parseArgList()
	}

	end := p.want(")")
	call.ExprBase = ast.NewExprBase(nil, p.span(name, end))
	return call
}

// parseArgList parses a comma separated list of optionally labeled
// arguments:
//
//	arg_list := arg {',' arg}
//	arg := [ident ':'] expr
func (p *parser) parseArgList() []*ast.Arg {
	var args []*ast.Arg

	for {
		start := p.peek()

		label := ""
		if start.kind == tokIdent && p.peekN(1).kind == tokPunct && p.peekN(1).value == ":" {
			label = p.next().value
			p.next()
		}

		value := p.parseExpr()
		args = append(args, &ast.Arg{
			ASTBase: ast.NewASTBaseOn(p.span(start, p.prev())),
			Label:   label,
			Value:   value,
		})

		if !p.accept(",") {
			break
		}
	}

	return args
}

// parseClosure parses a closure expression:
//
//	closure := '{' '(' [param {',' param}] ')' ['->' type] 'in' [stmt {';' stmt}] '}'
func (p *parser) parseClosure() ast.Expr {
	start := p.want("{")
	p.want("(")

	c := &ast.Closure{ReturnType: types.PrimTypeVoid}
	if !p.is(")") {
		for {
			c.Params = append(c.Params, p.parseClosureParam())

			if !p.accept(",") {
				break
			}
		}
	}

	p.want(")")
	if p.accept("->") {
		c.ReturnType = p.parseType()
	}

	p.want("in")
	for !p.is("}") {
		c.Body = append(c.Body, p.parseStmt())

		if !p.accept(";") {
			break
		}
	}

	end := p.want("}")
	c.ExprBase = ast.NewExprBase(nil, p.span(start, end))
	return c
}

// parseClosureParam parses a closure parameter with its attributes.  Closure
// parameters are never labeled.
func (p *parser) parseClosureParam() *ast.ParamDecl {
	start := p.peek()
	decl := &ast.ParamDecl{Label: "_"}

	var refs []*ast.WrapperRef
	for p.is("@") {
		attrStart := p.next()
		name := p.wantIdent()

		switch {
		case name.value == "autoclosure":
			decl.Autoclosure = true
		case !p.sc.isWrapper(name.value) && strings.HasSuffix(name.value, "Builder"):
			decl.ResultBuilder = name.value
		default:
			refs = append(refs, p.parseWrapperArgs(attrStart, name))
		}
	}

	if len(refs) > 0 {
		decl.Wrappers = &ast.WrapperAttr{Wrappers: refs}
	}

	decl.Name = p.wantIdent().value
	p.want(":")
	decl.Type = p.parseType()

	decl.ASTBase = ast.NewASTBaseOn(p.span(start, p.prev()))
	return decl
}

// parseWrapperRef parses a wrapper reference as written in an attribute: eg.
// `@Asserted(.greaterOrEqual(1))`.  The `@` is optional.
func (p *parser) parseWrapperRef() *ast.WrapperRef {
	start := p.peek()
	p.accept("@")

	return p.parseWrapperArgs(start, p.wantIdent())
}

// parseWrapperArgs parses the optional attribute arguments of a wrapper
// reference whose name has already been consumed.
func (p *parser) parseWrapperArgs(start, name *token) *ast.WrapperRef {
	ref := &ast.WrapperRef{Name: name.value}

	if p.accept("(") {
		if !p.is(")") {
			ref.Args = p.parseArgList()
		}

		p.want(")")
	}

	ref.ASTBase = ast.NewASTBaseOn(p.span(start, p.prev()))
	return ref
}

// parseStmt parses a statement: an assignment or an expression.
func (p *parser) parseStmt() ast.Stmt {
	start := p.peek()

	if start.kind == tokIdent && p.peekN(1).kind == tokPunct && p.peekN(1).value == "=" {
		p.next()
		p.next()

		value := p.parseExpr()
		return &ast.Assign{ASTBase: ast.NewASTBaseOn(p.span(start, p.prev())), Target: start.value, Value: value}
	}

	expr := p.parseExpr()
	return &ast.ExprStmt{ASTBase: ast.NewASTBaseOn(expr.Span()), Expr: expr}
}

// parseInitParam parses a constructor parameter: a label, an optional internal
// name, a type, and an optional default value.  The default value itself is
// not retained.
//
//	param := label [name] ':' type ['=' ...]
func (p *parser) parseInitParam() *ast.InitParam {
	ip := &ast.InitParam{Label: p.wantIdent().value}

	if p.peek().kind == tokIdent {
		p.next()
	}

	p.want(":")
	ip.Type = p.parseType()

	if p.accept("=") {
		if p.peek().kind == tokEOF {
			p.reject(p.peek(), "a default value")
		}

		for p.peek().kind != tokEOF {
			p.next()
		}

		ip.HasDefault = true
	}

	return ip
}

// -----------------------------------------------------------------------------

// parseTypeString parses a complete type string.
func parseTypeString(text string, line, col int, sc scope) (typ types.Type, err error) {
	p, err := newParser(text, line, col, sc)
	if err != nil {
		return nil, err
	}

	err = p.run(func() { typ = p.parseType() })
	return
}

// parseExprString parses a complete expression string.
func parseExprString(text string, line, col int, sc scope) (expr ast.Expr, err error) {
	p, err := newParser(text, line, col, sc)
	if err != nil {
		return nil, err
	}

	err = p.run(func() { expr = p.parseExpr() })
	return
}

// parseStmtString parses a complete statement string.
func parseStmtString(text string, line, col int, sc scope) (stmt ast.Stmt, err error) {
	p, err := newParser(text, line, col, sc)
	if err != nil {
		return nil, err
	}

	err = p.run(func() { stmt = p.parseStmt() })
	return
}

// parseWrapperString parses a complete wrapper reference string.
func parseWrapperString(text string, line, col int, sc scope) (ref *ast.WrapperRef, err error) {
	p, err := newParser(text, line, col, sc)
	if err != nil {
		return nil, err
	}

	err = p.run(func() { ref = p.parseWrapperRef() })
	return
}

// parseInitParamString parses a complete constructor parameter string.
func parseInitParamString(text string, line, col int, sc scope) (ip *ast.InitParam, err error) {
	p, err := newParser(text, line, col, sc)
	if err != nil {
		return nil, err
	}

	err = p.run(func() { ip = p.parseInitParam() })
	return
}
