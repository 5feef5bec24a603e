package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter reads answers from the command's stdin. Secrets are read
// without echo when stdin is a terminal.
type prompter struct {
	in   *bufio.Reader
	out  io.Writer
	file *os.File
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	p := &prompter{in: bufio.NewReader(in), out: cmd.ErrOrStderr()}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.file = f
	}
	return p
}

// ask returns the trimmed answer to label. An empty answer is an error
// when required is set.
func (p *prompter) ask(label string, required bool) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) && !required {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" && required {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return answer, nil
}

// secret reads a value without echo on terminals.
func (p *prompter) secret(label string) (string, error) {
	if p.file == nil {
		return p.ask(label, true)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	data, err := term.ReadPassword(int(p.file.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return string(data), nil
}

// confirm asks a yes/no question; anything but y or yes is no.
func (p *prompter) confirm(label string) bool {
	answer, err := p.ask(label+" [y/N]", false)
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// valueOrAsk returns the flag value, or prompts when it is empty.
func valueOrAsk(p *prompter, value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return p.ask(label, true)
}
