package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ElouanDeriaux/suprss/internal/config"
	"github.com/ElouanDeriaux/suprss/internal/session"
)

// apiStub is a fake SUPRSS server that records the requests it serves.
type apiStub struct {
	*httptest.Server

	mu    sync.Mutex
	calls []string
}

// newAPIStub serves routes, keyed by ServeMux patterns such as
// "GET /me" or "GET /collections/{$}".
func newAPIStub(t *testing.T, routes map[string]http.HandlerFunc) *apiStub {
	t.Helper()
	s := &apiStub{}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, r.Method+" "+r.URL.RequestURI())
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *apiStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *apiStub) called(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func reply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, v)
	}
}

// setupCmdTest points the CLI at apiURL with an isolated home directory
// and returns the session file path.
func setupCmdTest(t *testing.T, apiURL string) string {
	t.Helper()
	if apiURL == "" {
		apiURL = config.DefaultBaseURL
	}
	home := t.TempDir()
	sessionFile := filepath.Join(home, "session.json")

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("SUPRSS_API_BASE_URL", apiURL)
	t.Setenv("SUPRSS_SESSION_FILE", sessionFile)
	t.Setenv("SUPRSS_OUTPUT_COLORS", "false")
	t.Setenv("SUPRSS_LOGGING_LEVEL", "error")

	resetFlags(rootCmd)
	return sessionFile
}

// resetFlags restores every flag of the tree to its default, since cobra
// keeps parsed values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// login stores a token as if 'suprss login' had succeeded.
func login(t *testing.T, sessionFile, token string) {
	t.Helper()
	if err := session.NewStore(sessionFile).SaveToken(token, "jane@example.com"); err != nil {
		t.Fatalf("saving session: %v", err)
	}
}

// runCLI executes the root command and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
