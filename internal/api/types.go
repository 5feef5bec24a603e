package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// User is the authenticated account.
type User struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	IsEmailVerified bool   `json:"is_email_verified"`
	Is2FAEnabled    bool   `json:"is_2fa_enabled"`
	ThemePreference string `json:"theme_preference"`
}

// Collection groups feeds. UserID is the owner.
type Collection struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	UserID int    `json:"user_id"`
}

// Member is a user with access to a shared collection.
type Member struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsOwner  bool   `json:"is_owner"`
}

// Membership lists the members of one collection.
type Membership struct {
	Collection struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"collection"`
	Members []Member `json:"members"`
}

// Feed is an RSS or Atom source in a collection.
type Feed struct {
	ID           int    `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CollectionID int    `json:"collection_id"`
}

// FeedSummary is a feed with its unread article count.
type FeedSummary struct {
	ID          int    `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unread      int    `json:"unread"`
}

// Article is an item fetched from a feed, with per-user flags.
type Article struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
	FeedID  int    `json:"feed_id"`
	Read    bool   `json:"read"`
	Starred bool   `json:"starred"`
}

// Archive is a frozen copy of an article.
type Archive struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	ContentHTML     string    `json:"content_html"`
	ContentOriginal *string   `json:"content_original,omitempty"`
	Link            string    `json:"link"`
	FeedID          *int      `json:"feed_id,omitempty"`
	ArticleID       *int      `json:"article_id,omitempty"`
	ArchivedAt      Timestamp `json:"archived_at"`
}

// Message types in a collection chat.
const (
	MessageTypeMessage = "message"
	MessageTypeComment = "comment"
)

// Message is a chat message or an article comment.
type Message struct {
	ID           int       `json:"id"`
	CollectionID int       `json:"collection_id"`
	UserID       int       `json:"user_id"`
	Username     string    `json:"username"`
	Message      string    `json:"message"`
	CreatedAt    Timestamp `json:"created_at"`
	MessageType  string    `json:"message_type"`
	ArticleID    *int      `json:"article_id,omitempty"`
	ArticleTitle *string   `json:"article_title,omitempty"`
	ArticleLink  *string   `json:"article_link,omitempty"`
	Read         bool      `json:"read"`
}

// CollectionUnread is one row of the unread messages summary.
type CollectionUnread struct {
	CollectionID   int    `json:"collection_id"`
	CollectionName string `json:"collection_name"`
	UnreadCount    int    `json:"unread_count"`
}

// UnreadSummary counts unread chat messages across collections.
type UnreadSummary struct {
	TotalUnread int                `json:"total_unread"`
	Collections []CollectionUnread `json:"collections"`
}

// ImportStats reports what an OPML import created.
type ImportStats struct {
	CollectionsCreated int `json:"collections_created"`
	FeedsCreated       int `json:"feeds_created"`
	FeedsSkipped       int `json:"feeds_skipped"`
}

// ImportResult is the response to an OPML upload.
type ImportResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Stats   ImportStats `json:"stats"`
}

// OPMLExport is an exported subscription list.
type OPMLExport struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// Timestamp decodes the server's datetimes, which may or may not carry a
// zone. Zone-less values are UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", data, err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
