package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// NewMessage is a chat message or article comment to post.
type NewMessage struct {
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
	ArticleID   *int   `json:"article_id,omitempty"`
}

func messagePath(id int, suffix string) string {
	return "/messages/" + strconv.Itoa(id) + suffix
}

// ListMessages returns a page of a collection's chat.
func (c *Client) ListMessages(ctx context.Context, collectionID, limit, offset int) ([]Message, error) {
	q := url.Values{}
	setPage(q, limit, offset)

	var out []Message
	err := c.doJSON(ctx, request{method: http.MethodGet, path: collectionPath(collectionID, "/messages"), query: q, auth: true}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return out, nil
}

// SendMessage posts to a collection and returns the new message id.
func (c *Client) SendMessage(ctx context.Context, collectionID int, m NewMessage) (int, error) {
	if m.MessageType == "" {
		m.MessageType = MessageTypeMessage
	}
	var out struct {
		OK        bool `json:"ok"`
		MessageID int  `json:"message_id"`
	}
	err := c.doJSON(ctx, request{method: http.MethodPost, path: collectionPath(collectionID, "/messages"), json: m, auth: true}, &out)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return out.MessageID, nil
}

// DeleteMessage removes one of the user's messages.
func (c *Client) DeleteMessage(ctx context.Context, id int) error {
	if err := c.doJSON(ctx, request{method: http.MethodDelete, path: messagePath(id, ""), auth: true}, nil); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", id, err)
	}
	return nil
}

// MarkMessageRead flags a message read.
func (c *Client) MarkMessageRead(ctx context.Context, id int) error {
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: messagePath(id, "/read"), auth: true}, nil); err != nil {
		return fmt.Errorf("failed to mark message %d read: %w", id, err)
	}
	return nil
}

// MarkMessageUnread clears a message's read flag.
func (c *Client) MarkMessageUnread(ctx context.Context, id int) error {
	if err := c.doJSON(ctx, request{method: http.MethodDelete, path: messagePath(id, "/read"), auth: true}, nil); err != nil {
		return fmt.Errorf("failed to mark message %d unread: %w", id, err)
	}
	return nil
}

// CollectionUnreadCount returns how many messages of a collection are unread.
func (c *Client) CollectionUnreadCount(ctx context.Context, collectionID int) (int, error) {
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	err := c.doJSON(ctx, request{method: http.MethodGet, path: collectionPath(collectionID, "/unread-count"), auth: true}, &out)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return out.UnreadCount, nil
}

// UnreadMessagesSummary returns unread message counts across collections.
func (c *Client) UnreadMessagesSummary(ctx context.Context) (*UnreadSummary, error) {
	var out UnreadSummary
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/unread-messages-summary", auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to get unread messages summary: %w", err)
	}
	return &out, nil
}
