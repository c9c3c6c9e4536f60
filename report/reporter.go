package report

import (
	"sync"
	"time"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors and warnings reported so far.
	errorCount, warningCount int

	// When the reporter was initialized: used to time compilation.
	startTime time.Time
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// LogLevelFromName converts a log level name as accepted on the command line
// to its enumerated value.  Unknown names map to verbose.
func LogLevelFromName(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	default:
		return LogLevelVerbose
	}
}

// rep is the global reporter instance.  It starts out verbose so that errors
// raised before argument parsing completes are still shown.
var rep = &Reporter{
	m:         &sync.Mutex{},
	logLevel:  LogLevelVerbose,
	startTime: time.Now(),
}

// InitReporter resets the global error reporter to the given log level.
func InitReporter(logLevel int) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.logLevel = logLevel
	rep.errorCount = 0
	rep.warningCount = 0
	rep.startTime = time.Now()
}

// ShouldLog returns whether messages at the given log level are displayed.
func ShouldLog(logLevel int) bool {
	return rep.logLevel >= logLevel
}
