package report

import (
	"fmt"
	"os"
)

// TextSpan represents a range or "span" of source text.  Text spans are
// inclusive on both sides: the starting position is the position of the first
// character in the span and the ending position is the position of the last
// character in the span.  The line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// Enumeration of compile error kinds.  The kind determines the banner that is
// displayed above the message and lets callers match on a class of failure
// without inspecting the message text.
const (
	KindResolution        = iota // Unknown or malformed wrapper type.
	KindMutability               // Wrapped value requires mutating access.
	KindAttribute                // Disallowed attribute combination.
	KindInit                     // Missing wrapped-value constructor.
	KindOverride                 // Override/witness wrapper mismatch.
	KindProjection               // No usable projected-value constructor.
	KindProjectionDisabled       // Projection attempted with attribute arguments.
	KindOverload                 // No matching or ambiguous constructor overload.
	KindArgument                 // Call arguments do not match the callee.
	KindClosure                  // Closure parameter wrapper inference.
	KindBody                     // Invalid use of a wrapped parameter in a body.
	KindDefinition               // Malformed or duplicate definition.
	KindSyntax                   // Malformed type or expression text.
)

var kindNames = map[int]string{
	KindResolution:         "Resolution",
	KindMutability:         "Mutability",
	KindAttribute:          "Attribute",
	KindInit:               "Initializer",
	KindOverride:           "Override",
	KindProjection:         "Projection",
	KindProjectionDisabled: "Projection",
	KindOverload:           "Overload",
	KindArgument:           "Argument",
	KindClosure:            "Closure",
	KindBody:               "Usage",
	KindDefinition:         "Definition",
	KindSyntax:             "Syntax",
}

// KindName returns the display name of an error kind.
func KindName(kind int) string {
	if name, ok := kindNames[kind]; ok {
		return name
	}

	return "Compile"
}

// CompileError is a compilation error that occurs in a context in which the
// file is known by the error handler and thus doesn't need to be passed along
// with the error.
type CompileError struct {
	// The kind of error: must be one of the enumerated error kinds.
	Kind int

	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil.
	Span *TextSpan
}

func (ce *CompileError) Error() string {
	return ce.Message
}

// Raise creates a new compile error.
func Raise(kind int, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid input or configuration: a missing unit file,
// malformed TOML, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error: ie. erroneous input. The
// absPath is the absolute path to the erroneous unit file. The reprPath is the
// path displayed to the user.  The error's span may be nil in which case no
// position information will be printed.
func ReportCompileError(absPath, reprPath string, cerr *CompileError) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayCompileMessage(true, absPath, reprPath, cerr)
	}
}

// ReportCompileWarning reports a compilation warning.  The arguments are of the
// same form as those to ReportCompileError.
func ReportCompileWarning(absPath, reprPath string, cerr *CompileError) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warningCount++

	if rep.logLevel > LogLevelError {
		displayCompileMessage(false, absPath, reprPath, cerr)
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayStdError(reprPath, err)
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount > 0
}

// CatchErrors catches any errors thrown by a `panic` during a stage of
// compilation. In effect, this handler determines when any errors
// "unrecoverable" within a given subsection of the compiler should stop
// bubbling.
// NB: This function must ALWAYS be deferred.
func CatchErrors(absPath, reprPath string) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*CompileError); ok {
			ReportCompileError(absPath, reprPath, cerr)
		} else if serr, ok := x.(error); ok {
			ReportStdError(reprPath, serr)
		} else {
			ReportFatal("%s", x)
		}
	}
}
