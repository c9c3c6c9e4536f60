package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"

	"wrapc/ast"
	"wrapc/common"
	"wrapc/desugar"
	"wrapc/generate"
	"wrapc/report"
	"wrapc/types"
)

// Emit writes the desugared unit in the selected output format.  Analyze must
// be run before this.
func (c *Compiler) Emit() {
	var output string
	switch c.emit {
	case common.EmitLLVM:
		output = generate.NewGenerator().Generate(c.result).String()
	case common.EmitDump:
		output = pretty.Sprint(dumpResult(c.result)) + "\n"
	default:
		output = c.emitSource()
	}

	if c.outputPath == "" {
		os.Stdout.WriteString(output)
		return
	}

	// output to a directory is named after the unit
	if finfo, err := os.Stat(c.outputPath); err == nil && finfo.IsDir() {
		c.outputPath = filepath.Join(c.outputPath, c.man.Unit.Name+common.DefaultOutputExt(c.emit))
	}

	writeOutputFile(c.outputPath, output)
}

// emitSource returns the desugared unit as source text: each desugared
// function followed by each rewritten expression preceded by its original.
func (c *Compiler) emitSource() string {
	sb := strings.Builder{}

	for i, fn := range c.result.Funcs {
		if i != 0 {
			sb.WriteRune('\n')
		}

		sb.WriteString(desugar.PrintFunc(fn))
	}

	for _, cr := range c.result.Exprs {
		sb.WriteString("\n// ")
		sb.WriteString(cr.Original.Repr())
		sb.WriteRune('\n')
		sb.WriteString(desugar.PrintExpr(cr.Rewritten))
		sb.WriteRune('\n')
	}

	return sb.String()
}

// writeOutputFile is used to quickly write an output file for the compiler.
func writeOutputFile(fpath, content string) {
	// open or create the file
	file, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		report.ReportFatal("failed to open output file `%s`: %s", fpath, err.Error())
	}
	defer file.Close()

	// write the data
	_, err = file.WriteString(content)
	if err != nil {
		report.ReportFatal("failed to write output to file `%s`: %s", fpath, err.Error())
	}
}

// -----------------------------------------------------------------------------

// dumpFunc is the debug view of a desugared function.
type dumpFunc struct {
	Name      string
	Backing   []string
	Accessors []string
	Body      []string
}

// dumpExpr is the debug view of a rewritten expression.
type dumpExpr struct {
	Original  string
	Rewritten string
	Type      string
}

// dumpUnit is the debug view of a desugared unit.
type dumpUnit struct {
	Funcs []*dumpFunc
	Exprs []*dumpExpr
}

// dumpResult converts a desugared unit into its debug view.  Types are shown
// by their representations: the full type trees are not interesting.
func dumpResult(result *desugar.Result) *dumpUnit {
	du := &dumpUnit{}

	for _, fn := range result.Funcs {
		df := &dumpFunc{Name: fn.Def.Signature()}

		for _, param := range fn.Params {
			df.Backing = append(df.Backing, param.Backing.Name+": "+param.Backing.Type.Repr())

			for _, la := range []*desugar.LocalAccessor{param.Wrapped, param.Projected} {
				if la != nil {
					df.Accessors = append(df.Accessors, dumpAccessor(la))
				}
			}
		}

		for _, stmt := range fn.Body {
			df.Body = append(df.Body, stmt.Repr())
		}

		du.Funcs = append(du.Funcs, df)
	}

	for _, cr := range result.Exprs {
		du.Exprs = append(du.Exprs, &dumpExpr{
			Original:  cr.Original.Repr(),
			Rewritten: cr.Rewritten.Repr(),
			Type:      typeRepr(cr.Rewritten),
		})
	}

	return du
}

// dumpAccessor returns the debug view of a local accessor.
func dumpAccessor(la *desugar.LocalAccessor) string {
	s := la.Name + ": " + la.Type.Repr() + " = " + la.Path()
	if la.HasSetter {
		s += " (settable)"
	}

	return s
}

// typeRepr returns the representation of the type of an expression.
func typeRepr(expr ast.Expr) string {
	if typ := expr.Type(); typ != nil {
		return typ.Repr()
	}

	return types.PrimTypeVoid.Repr()
}
