package desugar

import (
	"strings"

	"wrapc/ast"
	"wrapc/types"
	"wrapc/util"
)

// indentUnit is the indentation of one nesting level in printed source.
const indentUnit = "    "

// PrintFunc returns the source text of a desugared function: the signature
// over the backing parameters, the synthesized local accessors and the
// rewritten body.
func PrintFunc(fn *Func) string {
	sb := strings.Builder{}

	sb.WriteString("func ")
	sb.WriteString(fn.Def.Name)
	if len(fn.Def.TypeParams) > 0 {
		sb.WriteRune('<')
		sb.WriteString(strings.Join(util.Map(fn.Def.TypeParams, printTypeParam), ", "))
		sb.WriteRune('>')
	}

	sb.WriteRune('(')
	sb.WriteString(strings.Join(util.Map(fn.Params, func(p *Param) string {
		return printBacking(p.Backing)
	}), ", "))
	sb.WriteRune(')')

	if !types.IsVoid(fn.Def.ReturnType) {
		sb.WriteString(" -> ")
		sb.WriteString(fn.Def.ReturnType.Repr())
	}

	sb.WriteString(" {\n")
	writeAccessors(&sb, fn.Params, indentUnit)
	writeBody(&sb, fn.Body, indentUnit)
	sb.WriteString("}\n")

	return sb.String()
}

// PrintExpr returns the source text of a rewritten expression.
func PrintExpr(expr ast.Expr) string {
	if c, ok := expr.(*Closure); ok {
		sb := strings.Builder{}
		writeClosure(&sb, c, "")
		return sb.String()
	}

	return expr.Repr()
}

// printTypeParam returns the declaration of a generic parameter.
func printTypeParam(tp *types.TypeParam) string {
	if len(tp.Constraints) == 0 {
		return tp.Name
	}

	return tp.Name + ": " + strings.Join(tp.Constraints, " & ")
}

// printBacking returns the declaration of a backing parameter.
func printBacking(bp *BackingParam) string {
	if bp.Label == "" || bp.Label == bp.Name {
		return bp.Name + ": " + bp.Type.Repr()
	}

	return bp.Label + " " + bp.Name + ": " + bp.Type.Repr()
}

// printAccessor returns the declaration of a local accessor.
func printAccessor(la *LocalAccessor) string {
	s := "var " + la.Name + ": " + la.Type.Repr() + " { get { " + la.Path() + " }"

	if la.HasSetter {
		s += " nonmutating set { " + la.Path() + " = newValue }"
	}

	return s + " }"
}

// writeAccessors writes the local accessors of the wrapped parameters.
func writeAccessors(sb *strings.Builder, params []*Param, indent string) {
	for _, param := range params {
		if !param.IsWrapped() {
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(printAccessor(param.Wrapped))
		sb.WriteRune('\n')

		if param.Projected != nil {
			sb.WriteString(indent)
			sb.WriteString(printAccessor(param.Projected))
			sb.WriteRune('\n')
		}
	}
}

// writeBody writes the statements of a body, one per line.
func writeBody(sb *strings.Builder, body []ast.Stmt, indent string) {
	for _, stmt := range body {
		sb.WriteString(indent)

		switch v := stmt.(type) {
		case *ast.ExprStmt:
			if c, ok := v.Expr.(*Closure); ok {
				writeClosure(sb, c, indent)
			} else {
				sb.WriteString(v.Repr())
			}
		case *ast.Assign:
			sb.WriteString(v.Target)
			sb.WriteString(" = ")

			if c, ok := v.Value.(*Closure); ok {
				writeClosure(sb, c, indent)
			} else {
				sb.WriteString(v.Value.Repr())
			}
		default:
			sb.WriteString(stmt.Repr())
		}

		sb.WriteRune('\n')
	}
}

// writeClosure writes a desugared closure.  The opening brace is written at
// the current position: the indent is that of the line it starts on.
func writeClosure(sb *strings.Builder, c *Closure, indent string) {
	sb.WriteString("{ (")
	sb.WriteString(strings.Join(util.Map(c.External, func(tp *ast.ThunkParam) string {
		return tp.Name + ": " + tp.Type.Repr()
	}), ", "))
	sb.WriteString(") -> ")
	sb.WriteString(c.Def.ReturnType.Repr())
	sb.WriteString(" in\n")

	inner := indent + indentUnit
	for _, init := range c.Inits {
		sb.WriteString(inner)
		sb.WriteString("let ")
		sb.WriteString(init.Name)
		sb.WriteString(" = ")
		sb.WriteString(init.Value.Repr())
		sb.WriteRune('\n')
	}

	writeAccessors(sb, c.Params, inner)
	writeBody(sb, c.Body, inner)

	sb.WriteString(indent)
	sb.WriteRune('}')
}
