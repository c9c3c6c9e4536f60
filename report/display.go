package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// out is where all diagnostics are written.  Compilation output goes to stdout
// so diagnostics are kept on stderr.
var out io.Writer = os.Stderr

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	fmt.Fprint(out, ErrorStyleBG.Sprint("Internal Compiler Error"), " ", ErrorColorFG.Sprint(message), "\n")
	fmt.Fprint(out, "This error was not supposed to happen: please open an issue.\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	fmt.Fprint(out, ErrorStyleBG.Sprint("Fatal Error"), " ", ErrorColorFG.Sprint(message), "\n\n")
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	fmt.Fprintf(out, "%s: error: %s\n\n", reprPath, err)
}

// displayInfoMessage prints a tagged informational message.
func displayInfoMessage(tag, msg string) {
	fmt.Fprint(out, InfoStyleBG.Sprint(tag), " ", InfoColorFG.Sprint(msg), "\n")
}

// displayCompileMessage displays a compilation error or warning.
func displayCompileMessage(isError bool, absPath, reprPath string, cerr *CompileError) {
	displayBanner(isError, KindName(cerr.Kind), reprPath)

	if cerr.Span == nil {
		fmt.Fprintf(out, "%s\n\n", cerr.Message)
	} else {
		fmt.Fprintf(out, "%s:%d:%d: %s\n\n", reprPath, cerr.Span.StartLine+1, cerr.Span.StartCol+1, cerr.Message)
		displaySourceText(absPath, cerr.Span)
	}
}

// displayBanner displays the banner on top of all compilation messages.
func displayBanner(isError bool, kindStr, reprPath string) {
	fmt.Fprint(out, "-- ")

	kindLen := len(kindStr)
	if isError {
		fmt.Fprint(out, ErrorStyleBG.Sprint(kindStr+" Error"))
		kindLen += 6
	} else {
		fmt.Fprint(out, WarnStyleBG.Sprint(kindStr+" Warning"))
		kindLen += 8
	}

	fileName := filepath.Base(reprPath)
	dashCount := 50 - len(fileName) - kindLen - 1
	if dashCount < 2 {
		dashCount = 2
	}

	fmt.Fprint(out, " ", strings.Repeat("-", dashCount), " ", InfoColorFG.Sprint(fileName), "\n")
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func displaySourceText(absPath string, span *TextSpan) {
	// Open the file so we can read the desired source text.  Units that were
	// not loaded from disk simply have no source text to show.
	file, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if err := sc.Err(); err != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt32
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Calculate the maximum line number length and generate the format string
	// for line numbers from it.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Fprint(out, InfoColorFG.Sprint(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1)))
		fmt.Fprintln(out, line[minIndent:])

		fmt.Fprint(out, strings.Repeat(" ", maxLineNumLen), " | ")

		// Underlining starts at the start column on the first line and at the
		// trimmed indent on every other line.
		carretPrefixCount := 0
		if i == 0 {
			carretPrefixCount = span.StartCol - minIndent
			if carretPrefixCount < 0 {
				carretPrefixCount = 0
			}
		}

		// Underlining stops at the end column on the last line.
		carretEnd := len(line) - minIndent
		if i == len(lines)-1 && span.EndCol-minIndent < carretEnd && span.EndCol > span.StartCol {
			carretEnd = span.EndCol - minIndent
		}

		carretCount := carretEnd - carretPrefixCount
		if carretCount < 1 {
			carretCount = 1
		}

		fmt.Fprint(out, strings.Repeat(" ", carretPrefixCount))
		fmt.Fprintln(out, ErrorColorFG.Sprint(strings.Repeat("^", carretCount)))
	}

	fmt.Fprintln(out)
}

// -----------------------------------------------------------------------------

// displayCompileHeader displays the tool information before compilation.
func displayCompileHeader(version, unitName string) {
	fmt.Fprint(out, "wrapc ", InfoColorFG.Sprint("v"+version), " -- unit: ", InfoColorFG.Sprint(unitName), "\n")
}

// displayCompilationFinished displays a compilation finished message.
func displayCompilationFinished(success bool, errorCount, warningCount int, outputPath string) {
	if success {
		fmt.Fprint(out, SuccessColorFG.Sprint("All done! "))
	} else {
		fmt.Fprint(out, ErrorColorFG.Sprint("Oh no! "))
	}

	fmt.Fprint(out, "(", pluralize(errorCount, "error"), ", ", pluralize(warningCount, "warning"), ")\n")

	if success && outputPath != "" {
		fmt.Fprint(out, "output written to ", InfoColorFG.Sprint(outputPath), "\n")
	}
}

// pluralize formats a count followed by a noun with the right plurality.
func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return strconv.Itoa(n) + " " + noun + "s"
}
