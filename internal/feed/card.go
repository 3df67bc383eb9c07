package feed

import (
	"context"
	"log"
	"sync"

	"github.com/vedran77/ripple/internal/api"
	"github.com/vedran77/ripple/internal/confirm"
	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/notify"
	"github.com/vedran77/ripple/internal/session"
)

// CardHooks report a card's mutations back up to whoever owns the list.
type CardHooks struct {
	// OnUpdate receives the post after its comment collection changed.
	OnUpdate func(domain.Post)
	// OnDelete performs the actual removal; list membership belongs to the
	// parent controller.
	OnDelete func(ctx context.Context, id string) error
}

// Card is the per-post interaction state: the like toggle, the
// delete confirmation, and comment visibility.
type Card struct {
	api    *api.Client
	sess   *session.Session
	notify notify.Notifier
	hooks  CardHooks

	deleteConfirm confirm.Flow

	mu           sync.Mutex
	post         domain.Post
	liked        bool
	likeCount    int
	likeInFlight bool
	showComments bool
}

func NewCard(client *api.Client, sess *session.Session, n notify.Notifier, post domain.Post, hooks CardHooks) *Card {
	viewerID := ""
	if u := sess.User(); u != nil {
		viewerID = u.ID
	}

	return &Card{
		api:       client,
		sess:      sess,
		notify:    n,
		hooks:     hooks,
		post:      post,
		liked:     post.LikedBy(viewerID),
		likeCount: post.LikeCount(),
	}
}

func (c *Card) Post() domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.post
}

func (c *Card) Liked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liked
}

func (c *Card) LikeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.likeCount
}

// IsAuthor reports whether the session user wrote this post.
func (c *Card) IsAuthor() bool {
	u := c.sess.User()
	if u == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return u.ID == c.post.Author.ID
}

// ToggleLike flips the viewer's like. The control stays disabled while a
// toggle is in flight; on success the flag and count are replaced with the
// server's values, never counted locally.
func (c *Card) ToggleLike(ctx context.Context) error {
	c.mu.Lock()
	if c.likeInFlight {
		c.mu.Unlock()
		return nil
	}
	c.likeInFlight = true
	id := c.post.ID
	c.mu.Unlock()

	resp, err := c.api.TogglePostLike(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.likeInFlight = false

	if err != nil {
		log.Printf("ERROR toggling like: %v", err)
		return err
	}

	c.liked = resp.IsLiked
	c.likeCount = resp.Post.LikeCount()
	return nil
}

// ToggleComments flips comment visibility. Purely local; the comments
// already on the post are what gets shown.
func (c *Card) ToggleComments() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showComments = !c.showComments
	return c.showComments
}

func (c *Card) CommentsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showComments
}

// CommentAdded keeps the embedded post's comment collection in step with
// the comment box, and bubbles the change to the parent.
func (c *Card) CommentAdded(comment domain.Comment) {
	c.mu.Lock()
	c.post.Comments = append([]domain.Comment{comment}, c.post.Comments...)
	post := c.post
	c.mu.Unlock()

	if c.hooks.OnUpdate != nil {
		c.hooks.OnUpdate(post)
	}
}

// RequestDelete arms the confirmation flow. Only the author may delete.
func (c *Card) RequestDelete() bool {
	if !c.IsAuthor() {
		return false
	}
	c.mu.Lock()
	id := c.post.ID
	c.mu.Unlock()
	c.deleteConfirm.Request(id)
	return true
}

func (c *Card) CancelDelete() {
	c.deleteConfirm.Cancel()
}

func (c *Card) ConfirmDelete(ctx context.Context) error {
	id, ok := c.deleteConfirm.Confirm()
	if !ok {
		return ErrNoPendingDelete
	}
	if c.hooks.OnDelete == nil {
		return nil
	}
	return c.hooks.OnDelete(ctx, id)
}
