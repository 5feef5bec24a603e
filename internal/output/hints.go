package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":              {"whoami", "collections list"},
	"verify":             {"whoami", "collections list"},
	"register":           {"verify", "login"},
	"logout":             {"login"},
	"collections list":   {"feeds list --collection <id>", "collections create <name>"},
	"collections create": {"feeds add --collection <id> <url>", "feeds suggested"},
	"collections share":  {"collections members <id>"},
	"feeds list":         {"articles list --feed <id>", "feeds refresh <id>"},
	"feeds add":          {"feeds refresh <id>", "articles list --feed <id>"},
	"feeds suggested":    {"feeds add --collection <id> <url>"},
	"articles list":      {"articles show <id>", "articles star <id>", "articles archive <id>"},
	"articles archive":   {"archive list", "archive show <id>"},
	"archive list":       {"archive show <id>", "archive download <id>"},
	"favorites":          {"articles show <id>"},
	"messages list":      {"messages send <collection> <text>", "unread"},
	"unread":             {"unread --watch", "messages list <collection>"},
	"opml export":        {"opml import <file>"},
	"opml import":        {"collections list"},
}

// PrintHints prints a "See also" line with the commands that usually follow
// command. Quiet printers and commands without hints print nothing.
func (p *Printer) PrintHints(command string) {
	next := CommandHints[command]
	if p.quiet || len(next) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("\nSee also: ")
	for i, h := range next {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("suprss " + h)
	}
	fmt.Fprintln(p.out, b.String())
}
