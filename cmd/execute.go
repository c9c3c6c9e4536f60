package cmd

import (
	"os"

	"github.com/ComedicChimera/olive"

	"wrapc/common"
	"wrapc/report"
)

// Execute is the main entry point for the `wrapc` CLI utility.  It returns the
// exit code of the process.
func Execute() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("wrapc", "wrapc desugars wrapped parameters", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	desugarCmd := cli.AddSubcommand("desugar", "desugar a unit and emit the result", true)
	desugarCmd.AddPrimaryArg("unit-path", "the path to the unit file", true)
	desugarCmd.AddSelectorArg("emit", "e", "the output format", false, common.EmitFormats)
	desugarCmd.AddStringArg("output", "o", "the path to write output to", false)

	checkCmd := cli.AddSubcommand("check", "check a unit and report errors", true)
	checkCmd.AddPrimaryArg("unit-path", "the path to the unit file", true)

	cli.AddSubcommand("version", "print the wrapc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	report.InitReporter(report.LogLevelFromName(result.Arguments["loglevel"].(string)))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "desugar":
		return execDesugarCommand(subResult)
	case "check":
		return execCheckCommand(subResult)
	case "version":
		report.ReportInfo("wrapc Version", common.WrapcVersion)
	}

	return 0
}

// execDesugarCommand executes the `desugar` subcommand.
func execDesugarCommand(result *olive.ArgParseResult) int {
	unitPath, _ := result.PrimaryArg()

	c := NewCompiler(unitPath)

	if emitArg, ok := result.Arguments["emit"]; ok {
		c.emit = emitArg.(string)
	}

	if outputArg, ok := result.Arguments["output"]; ok {
		c.outputPath = outputArg.(string)
	}

	ok := c.Analyze()
	if ok {
		c.Emit()
	}

	report.ReportCompilationFinished(c.outputPath)
	return exitCode(ok)
}

// execCheckCommand executes the `check` subcommand: the unit is desugared and
// any errors are reported but nothing is emitted.
func execCheckCommand(result *olive.ArgParseResult) int {
	unitPath, _ := result.PrimaryArg()

	c := NewCompiler(unitPath)
	ok := c.Analyze()

	report.ReportCompilationFinished("")
	return exitCode(ok)
}

// exitCode converts the success of a command into a process exit code.
func exitCode(ok bool) int {
	if ok {
		return 0
	}

	return 1
}
