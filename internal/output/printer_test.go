package output

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func newTestPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{
		ColorMode: ColorNever,
		Quiet:     quiet,
		Out:       &stdout,
		Err:       &stderr,
	})
	return p, &stdout, &stderr
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"auto", ColorAuto},
		{"", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseColorMode("rainbow"); err == nil {
		t.Error("expected error for invalid color mode, got nil")
	}
}

func TestResolveColors(t *testing.T) {
	t.Run("always wins over NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		if !ResolveColors(ColorAlways, false) {
			t.Error("ColorAlways should return true")
		}
	})

	t.Run("never wins over config", func(t *testing.T) {
		if ResolveColors(ColorNever, true) {
			t.Error("ColorNever should return false")
		}
	})

	t.Run("NO_COLOR disables auto", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		if ResolveColors(ColorAuto, true) {
			t.Error("NO_COLOR set should disable colors")
		}
	})

	t.Run("dumb terminal disables auto", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		os.Unsetenv("NO_COLOR")
		t.Setenv("TERM", "dumb")
		if ResolveColors(ColorAuto, true) {
			t.Error("TERM=dumb should disable colors")
		}
	})

	t.Run("auto follows config", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		os.Unsetenv("NO_COLOR")
		t.Setenv("TERM", "xterm-256color")
		if !ResolveColors(ColorAuto, true) || ResolveColors(ColorAuto, false) {
			t.Error("ColorAuto should follow output.colors")
		}
	})
}

func TestPrinter_Messages(t *testing.T) {
	p, stdout, stderr := newTestPrinter(false)

	p.Info("loaded %d feeds", 3)
	p.Success("feed added")
	p.Warning("feed has no title")
	p.Error("request failed")

	out := stdout.String()
	if !strings.Contains(out, "loaded 3 feeds") || !strings.Contains(out, "[OK] feed added") {
		t.Errorf("unexpected stdout: %q", out)
	}
	errOut := stderr.String()
	if !strings.Contains(errOut, "[WARN] feed has no title") || !strings.Contains(errOut, "[ERROR] request failed") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
}

func TestPrinter_QuietSuppressesChatter(t *testing.T) {
	p, stdout, stderr := newTestPrinter(true)

	p.Info("hidden")
	p.Success("hidden")
	p.Warning("hidden")
	p.Header("hidden")
	p.Print("hidden")
	p.PrintHints("articles list")

	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got stdout=%q stderr=%q", stdout.String(), stderr.String())
	}

	p.Error("shown")
	if !strings.Contains(stderr.String(), "shown") {
		t.Error("Error output should not be suppressed in quiet mode")
	}
}

func TestPrinter_RawAndJSONIgnoreQuiet(t *testing.T) {
	p, stdout, _ := newTestPrinter(true)

	p.Raw("article body")
	if err := p.JSON(map[string]int{"unread": 4}); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "article body\n") {
		t.Errorf("Raw should add a trailing newline, got %q", out)
	}
	if !strings.Contains(out, "\"unread\": 4") {
		t.Errorf("expected indented JSON, got %q", out)
	}
}

func TestPrinter_Header(t *testing.T) {
	p, stdout, _ := newTestPrinter(false)

	p.Header("Abonnés")

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected title and rule, got %q", stdout.String())
	}
	if lines[1] != strings.Repeat("-", 7) {
		t.Errorf("rule should match the title's rune count, got %q", lines[1])
	}
}

func TestPrinter_UnreadBadge(t *testing.T) {
	p, _, _ := newTestPrinter(false)

	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{5, "(5)"},
		{99, "(99)"},
		{150, "(99+)"},
	}
	for _, tt := range tests {
		if got := p.UnreadBadge(tt.n, "low"); got != tt.want {
			t.Errorf("UnreadBadge(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPrinter_PlainStyling(t *testing.T) {
	p, _, _ := newTestPrinter(false)

	if p.Bold("x") != "x" || p.Dim("y") != "y" {
		t.Error("Bold and Dim should be identity without colors")
	}
	if p.Flag(true, "★") != "★" || p.Flag(false, "★") != "" {
		t.Error("Flag should render the marker only when set")
	}
}
