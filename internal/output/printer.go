// Package output renders suprss results for terminals and scripts: status
// lines, tables, unread badges and JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ColorMode selects when ANSI colors are used
type ColorMode int

const (
	// ColorAuto follows NO_COLOR, TERM and output.colors
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever forces colors off
	ColorNever
)

// PrinterOptions configures the Printer
type PrinterOptions struct {
	ColorMode    ColorMode
	ConfigColors bool // output.colors from .suprss.yaml
	Quiet        bool
	Out          io.Writer // defaults to os.Stdout
	Err          io.Writer // defaults to os.Stderr
}

// Printer writes command results to Out and diagnostics to Err. In quiet
// mode only errors, raw content and JSON get through.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

// ParseColorMode parses the --color flag
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
}

// ResolveColors decides whether to colorize. Explicit modes win over the
// environment; in auto mode NO_COLOR and TERM=dumb turn colors off before
// the config value is consulted.
func ResolveColors(mode ColorMode, configColors bool) bool {
	if mode != ColorAuto {
		return mode == ColorAlways
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor || os.Getenv("TERM") == "dumb" {
		return false
	}
	return configColors
}

// NewPrinterWithOptions creates a printer
func NewPrinterWithOptions(opts PrinterOptions) *Printer {
	p := &Printer{
		out:       opts.Out,
		err:       opts.Err,
		useColors: ResolveColors(opts.ColorMode, opts.ConfigColors),
		quiet:     opts.Quiet,
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.err == nil {
		p.err = os.Stderr
	}
	return p
}

// level describes how one kind of status line is rendered.
type level struct {
	symbol string // prefix with colors
	tag    string // prefix without colors
	attrs  []color.Attribute
	stderr bool
	always bool // printed even in quiet mode
}

var (
	levelInfo    = level{attrs: []color.Attribute{color.FgCyan}}
	levelSuccess = level{symbol: "✓ ", tag: "[OK] ", attrs: []color.Attribute{color.FgGreen}}
	levelWarning = level{symbol: "⚠ ", tag: "[WARN] ", attrs: []color.Attribute{color.FgYellow}, stderr: true}
	levelError   = level{symbol: "✗ ", tag: "[ERROR] ", attrs: []color.Attribute{color.FgRed}, stderr: true, always: true}
)

func (p *Printer) emit(l level, format string, args ...any) {
	if p.quiet && !l.always {
		return
	}
	w := p.out
	if l.stderr {
		w = p.err
	}
	msg := fmt.Sprintf(format, args...)
	if p.useColors {
		color.New(l.attrs...).Fprintln(w, l.symbol+msg)
		return
	}
	fmt.Fprintln(w, l.tag+msg)
}

// Info prints an informational line
func (p *Printer) Info(format string, args ...any) { p.emit(levelInfo, format, args...) }

// Success reports a completed action
func (p *Printer) Success(format string, args ...any) { p.emit(levelSuccess, format, args...) }

// Warning prints to stderr
func (p *Printer) Warning(format string, args ...any) { p.emit(levelWarning, format, args...) }

// Error prints to stderr, also in quiet mode
func (p *Printer) Error(format string, args ...any) { p.emit(levelError, format, args...) }

// Print prints a plain line
func (p *Printer) Print(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Raw writes s unchanged, even in quiet mode. It is used for content the
// user asked for explicitly, such as an article body.
func (p *Printer) Raw(s string) {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	io.WriteString(p.out, s)
}

// JSON writes v as indented JSON, even in quiet mode
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header prints a title underlined to its width
func (p *Printer) Header(title string) {
	if p.quiet {
		return
	}
	width := len([]rune(title))
	if !p.useColors {
		fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", width))
		return
	}
	color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
	color.New(color.FgWhite).Fprintln(p.out, strings.Repeat("─", width))
}

// badgeColors maps unread tiers to badge colors.
var badgeColors = map[string]color.Attribute{
	"low":    color.FgCyan,
	"medium": color.FgYellow,
	"high":   color.FgRed,
}

// UnreadBadge renders an unread count colored by its tier (none, low,
// medium, high). Counts above 99 show as 99+; zero renders nothing.
func (p *Printer) UnreadBadge(n int, tier string) string {
	if n <= 0 {
		return ""
	}
	label := fmt.Sprint(n)
	if n > 99 {
		label = "99+"
	}
	if !p.useColors {
		return "(" + label + ")"
	}
	if attr, ok := badgeColors[tier]; ok {
		return color.New(attr).Sprint("●" + label)
	}
	return color.New(color.FgWhite).Sprint("○" + label)
}

// Flag renders a boolean article flag as a short marker.
func (p *Printer) Flag(on bool, marker string) string {
	switch {
	case !on:
		return ""
	case p.useColors:
		return color.YellowString(marker)
	default:
		return marker
	}
}

// Bold returns text in bold
func (p *Printer) Bold(text string) string { return p.style(text, color.Bold) }

// Dim returns dimmed text
func (p *Printer) Dim(text string) string { return p.style(text, color.Faint) }

func (p *Printer) style(text string, attr color.Attribute) string {
	if !p.useColors {
		return text
	}
	return color.New(attr).Sprint(text)
}
