package ast

// Stmt is a statement in a function or closure body.
type Stmt interface {
	ASTNode

	// Repr returns the source representation of the statement.
	Repr() string
}

// ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	ASTBase

	Expr Expr
}

func (es *ExprStmt) Repr() string {
	return es.Expr.Repr()
}

// Assign is an assignment to a named local or parameter.
type Assign struct {
	ASTBase

	Target string
	Value  Expr
}

func (a *Assign) Repr() string {
	return a.Target + " = " + a.Value.Repr()
}
