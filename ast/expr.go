package ast

import (
	"wrapc/report"
	"wrapc/types"
)

// Expr represents an expression.  All expression nodes implement the `Expr`
// interface.
type Expr interface {
	ASTNode

	// Type is the static type of the expression.  This may be nil for
	// expressions whose type comes from context: eg. implicit member
	// expressions.
	Type() types.Type

	// Repr returns the source representation of the expression.
	Repr() string
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	ASTBase

	typ types.Type
}

// NewExprBase creates a new expression base with the given type and span.
func NewExprBase(typ types.Type, span *report.TextSpan) ExprBase {
	return ExprBase{ASTBase: NewASTBaseOn(span), typ: typ}
}

func (eb *ExprBase) Type() types.Type {
	return eb.typ
}

// SetType sets the type of the expression.
func (eb *ExprBase) SetType(typ types.Type) {
	eb.typ = typ
}

// -----------------------------------------------------------------------------

// Literal is a literal value.  The text is the literal as written in source.
type Literal struct {
	ExprBase

	Text string
}

func (l *Literal) Repr() string {
	return l.Text
}

// ListLiteral is a list literal: eg. `[1, 2, 3]`.
type ListLiteral struct {
	ExprBase

	Elems []Expr
}

func (ll *ListLiteral) Repr() string {
	return "[" + joinExprs(ll.Elems) + "]"
}

// Identifier is a reference to a named value.
type Identifier struct {
	ExprBase

	Name string
}

func (id *Identifier) Repr() string {
	return id.Name
}

// ImplicitMember is an implicit member expression: eg. `.greaterOrEqual(1)`.
// Its type is supplied by the context in which it is used.
type ImplicitMember struct {
	ExprBase

	Name string

	// The arguments if the member is called.  This is nil for a bare member.
	Args []Expr

	// Whether the member is called: distinguishes `.none` from `.make()`.
	Called bool
}

func (im *ImplicitMember) Repr() string {
	if im.Called {
		return "." + im.Name + "(" + joinExprs(im.Args) + ")"
	}

	return "." + im.Name
}

// -----------------------------------------------------------------------------

// Arg is a labeled argument to a call.
type Arg struct {
	ASTBase

	// The label as written.  This is empty for unlabeled arguments and starts
	// with `$` for projected-value arguments.
	Label string

	Value Expr
}

func (a *Arg) Repr() string {
	if a.Label == "" {
		return a.Value.Repr()
	}

	return a.Label + ": " + a.Value.Repr()
}

// Call is a call to a named function.
type Call struct {
	ExprBase

	Callee string
	Args   []*Arg
}

func (c *Call) Repr() string {
	return c.Callee + "(" + joinArgs(c.Args) + ")"
}

// InitCall is a call to a wrapper constructor synthesized by desugaring.
type InitCall struct {
	ExprBase

	// The wrapper being constructed.
	Wrapper string

	// The selected constructor.
	Init *InitDef

	// The wrapped or projected value: the first argument.
	Value Expr

	// The remaining arguments: the attribute arguments.
	Extra []*Arg
}

// Label returns the label of the constructor's first argument.
func (ic *InitCall) Label() string {
	return ic.Init.FirstLabel()
}

func (ic *InitCall) Repr() string {
	args := append([]*Arg{{Label: ic.Label(), Value: ic.Value}}, ic.Extra...)
	return ic.Wrapper + "(" + joinArgs(args) + ")"
}

// FuncRef is an unapplied reference to a function: eg. `buy(quantity:fruit:)`.
type FuncRef struct {
	ExprBase

	Name string

	// The labels as written.  A label beginning with `$` references the
	// projected-value form of a wrapped parameter.
	Labels []string
}

func (fr *FuncRef) Repr() string {
	s := fr.Name + "("
	for _, label := range fr.Labels {
		if label == "" {
			s += "_:"
		} else {
			s += label + ":"
		}
	}

	return s + ")"
}

// Closure is a closure expression.
type Closure struct {
	ExprBase

	Params     []*ParamDecl
	ReturnType types.Type
	Body       []Stmt
}

func (c *Closure) Repr() string {
	s := "{ ("
	for i, param := range c.Params {
		if i != 0 {
			s += ", "
		}

		s += param.Name + ": " + param.Type.Repr()
	}

	s += ") -> " + c.ReturnType.Repr() + " in"
	for _, stmt := range c.Body {
		s += " " + stmt.Repr() + ";"
	}

	return s + " }"
}

// ThunkParam is a parameter of a synthesized thunk.
type ThunkParam struct {
	Name string
	Type types.Type
}

// Thunk is a forwarding closure synthesized for an unapplied reference to a
// function with wrapped parameters.
type Thunk struct {
	ExprBase

	Params []*ThunkParam

	// The forwarding call.
	Body *Call
}

func (t *Thunk) Repr() string {
	s := "{ ("
	for i, param := range t.Params {
		if i != 0 {
			s += ", "
		}

		s += param.Name + ": " + param.Type.Repr()
	}

	return s + ") in " + t.Body.Repr() + " }"
}

// -----------------------------------------------------------------------------

// joinExprs joins the representations of expressions with commas.
func joinExprs(exprs []Expr) string {
	s := ""
	for i, expr := range exprs {
		if i != 0 {
			s += ", "
		}

		s += expr.Repr()
	}

	return s
}

// joinArgs joins the representations of arguments with commas.
func joinArgs(args []*Arg) string {
	s := ""
	for i, arg := range args {
		if i != 0 {
			s += ", "
		}

		s += arg.Repr()
	}

	return s
}
