package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/output"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Example Engineering</title>
<link>https://engineering.example.com</link>
<description>Posts from the team</description>
<item><title>First</title><link>https://engineering.example.com/1</link></item>
<item><title>Second</title><link>https://engineering.example.com/2</link></item>
</channel></rss>`

func TestCollectionsList_MarksOwnership(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /collections/{$}": reply([]map[string]any{
			{"id": 1, "name": "Tech", "user_id": 7},
			{"id": 2, "name": "Team reading", "user_id": 9},
		}),
		"GET /me": reply(map[string]any{"id": 7, "email": "jane@example.com"}),
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "collections", "list")
	if err != nil {
		t.Fatalf("collections list failed: %v", err)
	}
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "Tech") && !strings.Contains(line, "owner"):
			t.Errorf("Tech should be owned: %q", line)
		case strings.Contains(line, "Team reading") && !strings.Contains(line, "shared"):
			t.Errorf("Team reading should be shared: %q", line)
		}
	}
}

func TestCollectionsShare_ValidatesRole(t *testing.T) {
	stub := newAPIStub(t, nil)
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	_, _, err := runCLI(t, "", "collections", "share", "3", "bob@example.com", "--role", "owner")
	if code := output.ExitCodeOf(err); code != output.ExitUsageError {
		t.Fatalf("exit code = %d, want %d (err %v)", code, output.ExitUsageError, err)
	}
	if len(stub.Calls()) != 0 {
		t.Errorf("no request expected, got %v", stub.Calls())
	}
}

func TestCollectionsShare_SendsForm(t *testing.T) {
	var got map[string]string
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"POST /collections/3/share": func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			got = map[string]string{"email": r.PostForm.Get("email"), "role": r.PostForm.Get("role")}
			writeJSON(w, http.StatusOK, map[string]any{"message": "Collection shared"})
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "collections", "share", "3", "Bob@Example.com", "--role", "editor")
	if err != nil {
		t.Fatalf("share failed: %v", err)
	}
	if got["email"] != "bob@example.com" || got["role"] != "editor" {
		t.Errorf("form = %v", got)
	}
	if !strings.Contains(out, "Collection shared") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCollectionsDelete_NeedsConfirmation(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"DELETE /collections/3": reply(map[string]any{"message": "deleted"}),
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	if _, _, err := runCLI(t, "n\n", "collections", "delete", "3"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if stub.called("DELETE") != 0 {
		t.Fatal("declined confirmation must not delete")
	}

	resetFlags(rootCmd)
	if _, _, err := runCLI(t, "y\n", "collections", "delete", "3"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if stub.called("DELETE /collections/3") != 1 {
		t.Errorf("calls = %v", stub.Calls())
	}
}

func TestArticlesList_QueryAndFooter(t *testing.T) {
	var query string
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /articles/{$}": func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			articles := make([]map[string]any, 20)
			for i := range articles {
				articles[i] = map[string]any{"id": 100 + i, "title": fmt.Sprintf("Post %d", i), "content": "<p>Hello <b>world</b></p>", "feed_id": 4}
			}
			writeJSON(w, http.StatusOK, articles)
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "articles", "list", "--feed", "4", "--read", "false", "--q", "go", "--limit", "20", "--offset", "40")
	if err != nil {
		t.Fatalf("articles list failed: %v", err)
	}
	if query != "feed_id=4&limit=20&offset=40&q=go&read=false" {
		t.Errorf("query = %q", query)
	}
	for _, want := range []string{"Page 3, rows 41-60", "--offset 20", "--offset 60"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestArticlesList_All(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /articles/{$}": func(w http.ResponseWriter, r *http.Request) {
			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			n := 2
			if offset >= 4 {
				n = 1
			}
			page := make([]map[string]any, n)
			for i := range page {
				page[i] = map[string]any{"id": offset + i + 1, "title": "t", "feed_id": 4}
			}
			writeJSON(w, http.StatusOK, page)
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "articles", "list", "--feed", "4", "--limit", "2", "--all", "--json")
	if err != nil {
		t.Fatalf("articles list --all failed: %v", err)
	}
	var articles []api.Article
	if err := json.Unmarshal([]byte(out), &articles); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(articles) != 5 {
		t.Errorf("got %d articles, want 5", len(articles))
	}
	if n := stub.called("GET /articles/"); n != 3 {
		t.Errorf("requests = %d, want 3", n)
	}
}

func TestArticlesList_Validation(t *testing.T) {
	stub := newAPIStub(t, nil)
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	cases := map[string][]string{
		"missing feed":  {"articles", "list"},
		"bad tri-state": {"articles", "list", "--feed", "1", "--read", "maybe"},
		"limit too big": {"articles", "list", "--feed", "1", "--limit", "500"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			resetFlags(rootCmd)
			_, _, err := runCLI(t, "", args...)
			if code := output.ExitCodeOf(err); code != output.ExitUsageError {
				t.Errorf("exit code = %d, want %d (err %v)", code, output.ExitUsageError, err)
			}
		})
	}
	if len(stub.Calls()) != 0 {
		t.Errorf("no request expected, got %v", stub.Calls())
	}
}

func TestArticlesToggle(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"POST /articles/{id}/star": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "articles", "star", "5", "6")
	if err != nil {
		t.Fatalf("articles star failed: %v", err)
	}
	if stub.called("POST /articles/5/star") != 1 || stub.called("POST /articles/6/star") != 1 {
		t.Errorf("calls = %v", stub.Calls())
	}
	if !strings.Contains(out, "2 starred") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestArticlesToggle_ReadUnreadUnstar(t *testing.T) {
	noContent := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"POST /articles/{id}/read":   noContent,
		"DELETE /articles/{id}/read": noContent,
		"DELETE /articles/{id}/star": noContent,
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	for _, tc := range []struct {
		cmd, call, done string
	}{
		{"read", "POST /articles/7/read", "1 marked read"},
		{"unread", "DELETE /articles/7/read", "1 marked unread"},
		{"unstar", "DELETE /articles/7/star", "1 unstarred"},
	} {
		resetFlags(rootCmd)
		out, _, err := runCLI(t, "", "articles", tc.cmd, "7")
		if err != nil {
			t.Fatalf("articles %s failed: %v", tc.cmd, err)
		}
		if stub.called(tc.call) != 1 {
			t.Errorf("articles %s: calls = %v", tc.cmd, stub.Calls())
		}
		if !strings.Contains(out, tc.done) {
			t.Errorf("articles %s: unexpected output:\n%s", tc.cmd, out)
		}
	}
}

func TestFavorites_UsesStarsWithFilters(t *testing.T) {
	var query string
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /stars": func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			writeJSON(w, http.StatusOK, []any{})
		},
		"GET /favorites/{$}": reply([]any{}),
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	if _, _, err := runCLI(t, "", "favorites", "--collection", "3"); err != nil {
		t.Fatalf("favorites failed: %v", err)
	}
	if !strings.Contains(query, "collection_id=3") {
		t.Errorf("query = %q", query)
	}
	if stub.called("GET /favorites/") != 0 {
		t.Errorf("calls = %v", stub.Calls())
	}
}

func TestFeedsAdd_ProbesBeforeCreating(t *testing.T) {
	var created api.NewFeed
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /rss.xml": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = io.WriteString(w, testRSS)
		},
		"POST /feeds/{$}": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&created)
			writeJSON(w, http.StatusOK, map[string]any{"id": 11, "url": created.URL, "title": created.Title, "collection_id": created.CollectionID})
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "feeds", "add", "--collection", "3", stub.URL+"/rss.xml")
	if err != nil {
		t.Fatalf("feeds add failed: %v", err)
	}
	if created.Title != "Example Engineering" || created.CollectionID != 3 {
		t.Errorf("created = %+v", created)
	}
	if created.Description == nil || *created.Description != "Posts from the team" {
		t.Errorf("description = %v", created.Description)
	}
	if !strings.Contains(out, "Found rss feed with 2 items") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestFeedsAdd_RejectsNonFeed(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /page.html": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html><body>not a feed</body></html>")
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	_, _, err := runCLI(t, "", "feeds", "add", "--collection", "3", stub.URL+"/page.html")
	if code := output.ExitCodeOf(err); code != output.ExitUsageError {
		t.Fatalf("exit code = %d, want %d (err %v)", code, output.ExitUsageError, err)
	}
	if stub.called("POST /feeds/") != 0 {
		t.Error("a page that is not a feed must not be subscribed")
	}
}

func TestFeedsRefreshAll_ClientSide(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /feeds/{$}": reply([]map[string]any{
			{"id": 1, "title": "A", "url": "https://a.example/rss", "collection_id": 3},
			{"id": 2, "title": "B", "url": "https://b.example/rss", "collection_id": 3},
			{"id": 3, "title": "C", "url": "https://c.example/rss", "collection_id": 3},
		}),
		"POST /feeds/{id}/refresh": func(w http.ResponseWriter, r *http.Request) {
			if r.PathValue("id") == "2" {
				writeJSON(w, http.StatusBadGateway, map[string]any{"detail": "upstream timeout"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"inserted": 4})
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, errOut, err := runCLI(t, "", "feeds", "refresh-all", "--collection", "3", "--client-side")
	if err != nil {
		t.Fatalf("refresh-all failed: %v", err)
	}
	if !strings.Contains(out, "8 new articles") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(errOut, "1 of 3 feeds failed") {
		t.Errorf("expected failure warning, got:\n%s", errOut)
	}
	if stub.called("POST /collections/") != 0 {
		t.Error("client-side refresh must not use the collection endpoint")
	}
}

func TestUnread_JSON(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /feeds/{$}": reply([]map[string]any{
			{"id": 1, "title": "A", "collection_id": 3},
			{"id": 2, "title": "B", "collection_id": 3},
		}),
		"GET /articles/{$}": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("feed_id") == "1" {
				writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "read": false}, {"id": 2, "read": true}, {"id": 3, "read": false}})
				return
			}
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 4, "read": true}})
		},
		"GET /unread-messages-summary": reply(map[string]any{
			"total_unread": 5,
			"collections":  []map[string]any{{"collection_id": 3, "collection_name": "Tech", "unread_count": 5}},
		}),
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "unread", "--collection", "3", "--json")
	if err != nil {
		t.Fatalf("unread failed: %v", err)
	}
	var report struct {
		Feeds []struct {
			FeedID int    `json:"feed_id"`
			Unread int    `json:"unread"`
			Tier   string `json:"tier"`
		} `json:"feeds"`
		Articles int `json:"articles_unread"`
		Messages struct {
			TotalUnread int `json:"total_unread"`
		} `json:"messages"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if report.Articles != 2 || report.Messages.TotalUnread != 5 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Feeds) != 2 || report.Feeds[0].FeedID != 1 || report.Feeds[0].Unread != 2 || report.Feeds[1].Unread != 0 {
		t.Errorf("feeds = %+v", report.Feeds)
	}
}

func TestArchiveDownload_WritesFile(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /archive/9": reply(map[string]any{"id": 9, "title": "Deep dive", "content_html": "<p>x</p>"}),
		"GET /archive/9/pdf": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = io.WriteString(w, "%PDF-1.4 fake")
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	dest := filepath.Join(t.TempDir(), "out", "deep.pdf")
	if _, _, err := runCLI(t, "", "archive", "download", "9", "--output", dest); err != nil {
		t.Fatalf("archive download failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("file content = %q", data)
	}
}

func TestArchiveShow_PrefersOriginalContent(t *testing.T) {
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"GET /archive/9": reply(map[string]any{
			"id":               9,
			"title":            "Deep dive",
			"content_html":     "<div>archived page</div>",
			"content_original": "Original line\nSee https://example.com",
		}),
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "archive", "show", "9")
	if err != nil {
		t.Fatalf("archive show failed: %v", err)
	}
	if !strings.Contains(out, "Original line") || strings.Contains(out, "archived page") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestOPMLImport(t *testing.T) {
	var mu sync.Mutex
	var filename string
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"POST /import/opml": func(w http.ResponseWriter, r *http.Request) {
			_, header, err := r.FormFile("file")
			if err != nil {
				t.Errorf("form file: %v", err)
			}
			mu.Lock()
			filename = header.Filename
			mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Import done",
				"stats":   map[string]any{"collections_created": 1, "feeds_created": 4, "feeds_skipped": 2},
			})
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	dir := t.TempDir()
	path := filepath.Join(dir, "subs.opml")
	if err := os.WriteFile(path, []byte(`<opml version="2.0"><body/></opml>`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "", "opml", "import", path)
	if err != nil {
		t.Fatalf("opml import failed: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if filename != "subs.opml" {
		t.Errorf("uploaded filename = %q", filename)
	}
	if !strings.Contains(out, "Import done") {
		t.Errorf("unexpected output:\n%s", out)
	}

	resetFlags(rootCmd)
	_, _, err = runCLI(t, "", "opml", "import", filepath.Join(dir, "subs.json"))
	if code := output.ExitCodeOf(err); code != output.ExitUsageError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUsageError)
	}
}

func TestMessagesSend_Comment(t *testing.T) {
	var got api.NewMessage
	stub := newAPIStub(t, map[string]http.HandlerFunc{
		"POST /collections/3/messages": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message_id": 42})
		},
	})
	sessionFile := setupCmdTest(t, stub.URL)
	login(t, sessionFile, "tok")

	out, _, err := runCLI(t, "", "messages", "send", "3", "great", "read", "--article", "17")
	if err != nil {
		t.Fatalf("messages send failed: %v", err)
	}
	if got.Message != "great read" || got.MessageType != api.MessageTypeComment || got.ArticleID == nil || *got.ArticleID != 17 {
		t.Errorf("sent = %+v", got)
	}
	if !strings.Contains(out, "id 42") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
