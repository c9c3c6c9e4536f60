// Package cmd is the top-level "driver" package for wrapc: it contains all the
// functionality for parsing command-line arguments, managing compiler state,
// and running the various phases of desugaring.
package cmd

import (
	"sync"

	"wrapc/common"
	"wrapc/desugar"
	"wrapc/manifest"
	"wrapc/report"
)

// Compiler represents the state and configuration of compiling a unit.
type Compiler struct {
	// The path to the unit file as given by the user.
	unitPath string

	// The output format: this must be one of the enumerated emit formats.  It
	// is empty until it is set on the command line or by the unit.
	emit string

	// The path to write output to.  If this is empty, output is written to
	// stdout.  If this is a directory, the output file is placed in it.
	outputPath string

	// man is the loaded unit manifest.
	man *manifest.Manifest

	// result is the desugared unit.
	result *desugar.Result
}

// NewCompiler creates a new compiler for the unit at the given path.
func NewCompiler(unitPath string) *Compiler {
	return &Compiler{unitPath: unitPath}
}

// Analyze loads and desugars the unit.  It returns whether desugaring
// succeeded without errors.
func (c *Compiler) Analyze() bool {
	man, err := manifest.LoadManifest(c.unitPath)
	if err != nil {
		report.ReportFatal("failed to load unit: %s", err)
	}
	c.man = man

	// settings given on the command line take precedence over the unit's
	if c.emit == "" {
		c.emit = man.Emit
	}

	if c.emit == "" {
		c.emit = common.EmitSource
	}

	if c.outputPath == "" {
		c.outputPath = man.Output
	}

	report.ReportCompileHeader(common.WrapcVersion, man.Unit.Name)

	for _, warning := range man.Warnings {
		report.ReportCompileWarning(man.Unit.AbsPath, man.Unit.ReprPath, warning)
	}

	// definitions with errors have been left out of the unit so desugaring
	// can still report errors in the rest of it
	c.reportErrors(man.Errors)

	c.result = c.desugarUnit()
	return !report.AnyErrors()
}

// -----------------------------------------------------------------------------

// desugarUnit runs the desugaring pass over the unit.  The declarations,
// bodies and expressions are each desugared concurrently.  Their results are
// collected by index so that output and diagnostics are deterministic.
func (c *Compiler) desugarUnit() *desugar.Result {
	unit := c.man.Unit
	p := desugar.NewPass(unit)
	result := &desugar.Result{}

	// desugar all the signatures before any bodies so that calls can refer to
	// functions declared anywhere in the unit
	funcs := make([]*desugar.Func, len(unit.Funcs))
	sigErrors := make([][]*report.CompileError, len(unit.Funcs))

	wg := &sync.WaitGroup{}
	for i := range unit.Funcs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			funcs[i], sigErrors[i] = p.DesugarSignature(unit.Funcs[i])
		}(i)
	}

	wg.Wait()

	for i, fn := range funcs {
		c.reportErrors(sigErrors[i])

		if fn != nil {
			p.Define(fn)
			result.Funcs = append(result.Funcs, fn)
		}
	}

	bodyErrors := make([][]*report.CompileError, len(result.Funcs))
	for i, fn := range result.Funcs {
		wg.Add(1)

		go func(i int, fn *desugar.Func) {
			defer wg.Done()

			bodyErrors[i] = p.DesugarBody(fn)
		}(i, fn)
	}

	rewrites := make([]*desugar.CallRewrite, len(unit.Exprs))
	exprErrors := make([][]*report.CompileError, len(unit.Exprs))
	for i := range unit.Exprs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			rewritten, errs := p.RewriteExpr(unit.Exprs[i])
			exprErrors[i] = errs

			if rewritten != nil {
				rewrites[i] = &desugar.CallRewrite{Original: unit.Exprs[i], Rewritten: rewritten}
			}
		}(i)
	}

	wg.Wait()

	for _, errs := range bodyErrors {
		c.reportErrors(errs)
	}

	for i, cr := range rewrites {
		c.reportErrors(exprErrors[i])

		if cr != nil {
			result.Exprs = append(result.Exprs, cr)
		}
	}

	return result
}

// reportErrors reports compile errors in the unit.
func (c *Compiler) reportErrors(errs []*report.CompileError) {
	for _, cerr := range errs {
		report.ReportCompileError(c.man.Unit.AbsPath, c.man.Unit.ReprPath, cerr)
	}
}
