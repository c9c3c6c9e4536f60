package report

// -----------------------------------------------------------------------------
// Below are all the "aesthetic" reporting functions that will only run if the
// log level is to verbose.  These provide additional information about the
// compilation process to the user so as to make the compiler more friendly.

// ReportCompileHeader reports the pre-compilation header: the tool version and
// the unit being compiled.
func ReportCompileHeader(version, unitName string) {
	if rep.logLevel == LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayCompileHeader(version, unitName)
	}
}

// ReportInfo displays a tagged informational message.
func ReportInfo(tag, msg string) {
	if rep.logLevel == LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayInfoMessage(tag, msg)
	}
}

// ReportCompilationFinished reports the concluding message for compilation.
// This displays the error and warning counts along with where the output was
// written.  An empty output path means output went to stdout.
func ReportCompilationFinished(outputPath string) {
	if rep.logLevel == LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayCompilationFinished(rep.errorCount == 0, rep.errorCount, rep.warningCount, outputPath)
	}
}
