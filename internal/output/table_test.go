package output

import (
	"strings"
	"testing"
)

func TestTable_Render(t *testing.T) {
	p, stdout, _ := newTestPrinter(false)

	table := p.NewTable([]string{"ID", "TITLE", "UNREAD"})
	table.AddRow([]string{"1", "Hacker News", "12"})
	table.AddRow([]string{"2", "Korben.info", "0"})
	table.Render()

	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	out := stdout.String()
	for _, want := range []string{"TITLE", "Hacker News", "Korben.info"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in table: %q", want, out)
		}
	}
}

func TestTable_QuietPrinter(t *testing.T) {
	p, stdout, _ := newTestPrinter(true)

	table := p.NewTable([]string{"ID"})
	table.AddRow([]string{"1"})
	table.Render()

	if stdout.Len() != 0 {
		t.Errorf("quiet table should not render, got %q", stdout.String())
	}
}

func TestTable_LimitTruncatesCells(t *testing.T) {
	p, stdout, _ := newTestPrinter(false)

	table := p.NewTable([]string{"ID", "TITLE"}).Limit(1, 10)
	table.AddRow([]string{"1", "Une très longue histoire\nsur deux lignes"})
	table.Render()

	out := stdout.String()
	if !strings.Contains(out, "Une très …") {
		t.Errorf("expected truncated title, got %q", out)
	}
	if strings.Contains(out, "deux lignes") {
		t.Errorf("text past the limit should be cut, got %q", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a bit too long", 8, "a bit t…"},
		{"日本語のタイトル", 7, "日本語…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
