// Package credentials validates and normalizes what users type when they
// register, log in or edit account settings.
package credentials

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule is a single password requirement.
type Rule struct {
	Key   string
	Label string
	test  func(string) bool
}

// Passes reports whether pwd satisfies the rule.
func (r Rule) Passes(pwd string) bool {
	return r.test(pwd)
}

// PasswordRules lists the password requirements in display order. They
// mirror the server's own check so weak passwords are rejected before any
// request is made.
var PasswordRules = []Rule{
	{Key: "length", Label: "At least 8 characters", test: func(s string) bool { return utf8.RuneCountInString(s) >= 8 }},
	{Key: "upper", Label: "1 uppercase letter", test: containsRange('A', 'Z')},
	{Key: "lower", Label: "1 lowercase letter", test: containsRange('a', 'z')},
	{Key: "digit", Label: "1 digit", test: containsRange('0', '9')},
	{Key: "special", Label: "1 special character", test: hasSpecial},
	{Key: "nospace", Label: "No whitespace", test: func(s string) bool { return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0 }},
}

// ErrWeakPassword is returned by ValidatePassword.
var ErrWeakPassword = errors.New("password is not complex enough")

// CheckPassword returns the rules pwd fails, in display order.
func CheckPassword(pwd string) []Rule {
	var failed []Rule
	for _, r := range PasswordRules {
		if !r.Passes(pwd) {
			failed = append(failed, r)
		}
	}
	return failed
}

// ValidatePassword returns an error wrapping ErrWeakPassword that names
// the failed rules.
func ValidatePassword(pwd string) error {
	failed := CheckPassword(pwd)
	if len(failed) == 0 {
		return nil
	}
	labels := make([]string, len(failed))
	for i, r := range failed {
		labels[i] = strings.ToLower(r.Label)
	}
	return fmt.Errorf("%w: missing %s", ErrWeakPassword, strings.Join(labels, ", "))
}

func containsRange(lo, hi rune) func(string) bool {
	return func(s string) bool {
		return strings.IndexFunc(s, func(r rune) bool { return r >= lo && r <= hi }) >= 0
	}
}

func hasSpecial(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') && (r < '0' || r > '9')
	}) >= 0
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CodeLength is the number of digits in an emailed 2FA code.
const CodeLength = 6

// NormalizeCode keeps the digits of a typed code, up to CodeLength.
func NormalizeCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == CodeLength {
				break
			}
		}
	}
	return b.String()
}

// ValidCode reports whether code is exactly CodeLength digits.
func ValidCode(code string) bool {
	return len(code) == CodeLength && NormalizeCode(code) == code
}

const (
	minUsername = 2
	maxUsername = 50
)

// ValidateUsername checks the length bounds the server enforces.
func ValidateUsername(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < minUsername || n > maxUsername {
		return fmt.Errorf("username must be between %d and %d characters", minUsername, maxUsername)
	}
	return nil
}

// Themes accepted by the server.
var Themes = []string{"auto", "light", "dark"}

// ValidateTheme checks a theme preference.
func ValidateTheme(theme string) error {
	for _, t := range Themes {
		if t == theme {
			return nil
		}
	}
	return fmt.Errorf("invalid theme %q: must be auto, light, or dark", theme)
}
