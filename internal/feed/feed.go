// Package feed owns the post list and everything hanging off it: the feed
// controller, the per-post card, and the comment box. Each owns its own
// in-memory copy and reconciles it only from server responses.
package feed

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vedran77/ripple/internal/api"
	"github.com/vedran77/ripple/internal/confirm"
	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/notify"
	"github.com/vedran77/ripple/internal/session"
	"github.com/vedran77/ripple/internal/upload"
)

var (
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrNoPendingDelete = errors.New("no delete pending")
	ErrNotFound        = errors.New("post not found")
)

type Controller struct {
	api    *api.Client
	sess   *session.Session
	notify notify.Notifier

	deleteConfirm confirm.Flow

	mu     sync.Mutex
	posts  []domain.Post
	loaded bool
	errMsg string
	gen    int
}

func NewController(client *api.Client, sess *session.Session, n notify.Notifier) *Controller {
	return &Controller{api: client, sess: sess, notify: n}
}

// Refresh fetches the post collection. Failure leaves the controller in a
// retryable error state; nothing retries automatically.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	gen := c.gen
	c.errMsg = ""
	c.mu.Unlock()

	posts, err := c.api.ListPosts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// The view was discarded while the request was in flight.
		return nil
	}
	c.loaded = true

	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			c.errMsg = "Failed to load posts"
		} else {
			c.errMsg = "Failed to load posts. Please try again later."
		}
		return err
	}

	c.posts = posts
	return nil
}

// Retry is the manual retry action for an initial-load failure.
func (c *Controller) Retry(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Err returns the retryable load-error state.
func (c *Controller) Err() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg, c.errMsg != ""
}

func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Controller) Posts() []domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Create submits a new post. Empty content is blocked before any request;
// the accepted post is prepended without a refetch.
func (c *Controller) Create(ctx context.Context, draft api.PostDraft) error {
	if strings.TrimSpace(draft.Content) == "" {
		c.notify.Error("Post content cannot be empty")
		return ErrEmptyContent
	}

	post, err := c.api.CreatePost(ctx, draft)
	if err != nil {
		c.notify.Error(api.UserMessage(err, "Failed to create post"))
		return err
	}

	c.mu.Lock()
	c.posts = append([]domain.Post{*post}, c.posts...)
	c.mu.Unlock()

	c.notify.Success("Post created successfully!")
	return nil
}

// BeginEdit returns a draft pre-filled with the post's current fields.
func (c *Controller) BeginEdit(id string) (api.PostDraft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.posts {
		if p.ID == id {
			return api.PostDraft{Content: p.Content, Image: p.Image, Tags: p.Tags}, true
		}
	}
	return api.PostDraft{}, false
}

// Update replaces the matching post in place by id once the server accepts
// the edit.
func (c *Controller) Update(ctx context.Context, id string, draft api.PostDraft) error {
	if strings.TrimSpace(draft.Content) == "" {
		c.notify.Error("Post content cannot be empty")
		return ErrEmptyContent
	}

	post, err := c.api.UpdatePost(ctx, id, draft)
	if err != nil {
		c.notify.Error(api.UserMessage(err, "Failed to update post"))
		return err
	}

	c.replace(*post)
	c.notify.Success("Post updated successfully!")
	return nil
}

// RequestDelete arms the confirmation flow for a post.
func (c *Controller) RequestDelete(id string) {
	c.deleteConfirm.Request(id)
}

func (c *Controller) CancelDelete() {
	c.deleteConfirm.Cancel()
}

func (c *Controller) PendingDelete() (string, bool) {
	return c.deleteConfirm.Pending()
}

// ConfirmDelete issues the delete for the pending post and removes it from
// the list only after the server confirms.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	id, ok := c.deleteConfirm.Confirm()
	if !ok {
		return ErrNoPendingDelete
	}
	return c.Delete(ctx, id)
}

// Delete removes one post by id after server confirmation. Card delete
// hooks land here.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.api.DeletePost(ctx, id); err != nil {
		c.notify.Error(api.UserMessage(err, "Failed to delete post"))
		return err
	}

	c.mu.Lock()
	kept := c.posts[:0]
	for _, p := range c.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.posts = kept
	c.mu.Unlock()

	c.notify.Success("Post deleted successfully!")
	return nil
}

// ReplacePost reconciles an updated post back into the list (card callbacks).
func (c *Controller) ReplacePost(post domain.Post) {
	c.replace(post)
}

func (c *Controller) replace(post domain.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.posts {
		if c.posts[i].ID == post.ID {
			c.posts[i] = post
			return
		}
	}
}

// AttachImage validates and uploads an image for a pending draft. Failure
// leaves the draft's image unset and surfaces the error; the rest of the
// form is unaffected.
func (c *Controller) AttachImage(ctx context.Context, draft *api.PostDraft, path string) error {
	url, err := upload.SendFile(ctx, c.api, path)
	if err != nil {
		c.notify.Error(uploadMessage(err))
		return err
	}

	draft.Image = url
	c.notify.Success("Image uploaded successfully")
	return nil
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		return "File size exceeds 5MB limit"
	case errors.Is(err, upload.ErrNotImage):
		return "Please select an image file"
	default:
		return api.UserMessage(err, "Failed to upload image. Please try again.")
	}
}

// Discard marks the view as gone: responses still in flight are dropped
// instead of mutating discarded state.
func (c *Controller) Discard() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
}
