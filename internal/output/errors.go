package output

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
)

// Exit code constants
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2
	ExitConfigError = 4
	ExitTimeout     = 5
	ExitAuthError   = 6
	ExitAPIError    = 7
)

// CLIError is what a command reports to the user: a one-line summary,
// optional cause and suggestion lines, and the process exit code.
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
	Err        error // underlying error, if any
}

func (e *CLIError) Error() string { return e.Summary }

func (e *CLIError) Unwrap() error { return e.Err }

// ExitCodeOf returns the exit code carried by err, or ExitGeneral.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.ExitCode != 0 {
		return cliErr.ExitCode
	}
	return ExitGeneral
}

// FormatError writes e to stderr. It is shown in quiet mode too.
func (p *Printer) FormatError(e *CLIError) {
	p.emit(levelError, "%s", e.Summary)
	for _, line := range []struct {
		label, text string
		attr        color.Attribute
	}{
		{"Cause", e.Detail, color.Reset},
		{"Suggestion", e.Suggestion, color.FgCyan},
	} {
		if line.text == "" {
			continue
		}
		if p.useColors {
			color.New(line.attr).Fprintf(p.err, "  %s: %s\n", line.label, line.text)
		} else {
			fmt.Fprintf(p.err, "  %s: %s\n", line.label, line.text)
		}
	}
}
