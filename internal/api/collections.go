package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func collectionPath(id int, suffix string) string {
	return "/collections/" + strconv.Itoa(id) + suffix
}

func (c *Client) listCollections(ctx context.Context, path string) ([]Collection, error) {
	var out []Collection
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: path, auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return out, nil
}

// ListCollections returns owned and shared collections.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	return c.listCollections(ctx, "/collections/")
}

// OwnedCollections returns the collections the user owns.
func (c *Client) OwnedCollections(ctx context.Context) ([]Collection, error) {
	return c.listCollections(ctx, "/collections/owned")
}

// SharedCollections returns the collections shared with the user.
func (c *Client) SharedCollections(ctx context.Context) ([]Collection, error) {
	return c.listCollections(ctx, "/collections/shared")
}

// CreateCollection creates a collection owned by the user.
func (c *Client) CreateCollection(ctx context.Context, name string) (*Collection, error) {
	var out Collection
	err := c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/collections/",
		json:   map[string]string{"name": name},
		auth:   true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &out, nil
}

// DeleteCollection removes a collection with its feeds, articles and
// messages. Only the owner may do this.
func (c *Client) DeleteCollection(ctx context.Context, id int) (string, error) {
	return c.ack(ctx, request{method: http.MethodDelete, path: collectionPath(id, "")}, "delete collection")
}

// ShareCollection grants role on a collection to the user with email.
func (c *Client) ShareCollection(ctx context.Context, id int, email, role string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	if role != "" {
		form.Set("role", role)
	}
	return c.ack(ctx, request{method: http.MethodPost, path: collectionPath(id, "/share"), form: form}, "share collection")
}

// Members lists who can access a collection.
func (c *Client) Members(ctx context.Context, id int) (*Membership, error) {
	var out Membership
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: collectionPath(id, "/members"), auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return &out, nil
}

// UpdateMemberRole changes a member's role.
func (c *Client) UpdateMemberRole(ctx context.Context, collectionID, userID int, role string) (string, error) {
	form := url.Values{}
	form.Set("role", role)
	return c.ack(ctx, request{
		method: http.MethodPut,
		path:   collectionPath(collectionID, "/members/"+strconv.Itoa(userID)),
		form:   form,
	}, "update member role")
}

// RemoveMember revokes a member's access.
func (c *Client) RemoveMember(ctx context.Context, collectionID, userID int) (string, error) {
	return c.ack(ctx, request{
		method: http.MethodDelete,
		path:   collectionPath(collectionID, "/members/"+strconv.Itoa(userID)),
	}, "remove member")
}
