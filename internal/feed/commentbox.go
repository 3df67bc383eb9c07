package feed

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/vedran77/ripple/internal/api"
	"github.com/vedran77/ripple/internal/confirm"
	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/notify"
	"github.com/vedran77/ripple/internal/session"
)

// CommentBox owns the comment list for one post: create, per-comment like
// toggle, and author-only deletion.
type CommentBox struct {
	api     *api.Client
	sess    *session.Session
	notify  notify.Notifier
	postID  string
	onAdded func(domain.Comment)

	deleteConfirm confirm.Flow

	mu       sync.Mutex
	comments []domain.Comment
	inFlight bool
}

func NewCommentBox(client *api.Client, sess *session.Session, n notify.Notifier, postID string, initial []domain.Comment, onAdded func(domain.Comment)) *CommentBox {
	comments := make([]domain.Comment, len(initial))
	copy(comments, initial)

	return &CommentBox{
		api:      client,
		sess:     sess,
		notify:   n,
		postID:   postID,
		onAdded:  onAdded,
		comments: comments,
	}
}

func (b *CommentBox) Comments() []domain.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Comment, len(b.comments))
	copy(out, b.comments)
	return out
}

// Submit posts a comment. Empty text after trimming never issues a request;
// the accepted comment is prepended (newest first) and the parent notified
// so the post's collection stays consistent. No refetch.
func (b *CommentBox) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	b.mu.Lock()
	if text == "" || b.inFlight {
		b.mu.Unlock()
		return nil
	}
	b.inFlight = true
	b.mu.Unlock()

	comment, err := b.api.CreateComment(ctx, b.postID, text)

	b.mu.Lock()
	b.inFlight = false
	if err != nil {
		b.mu.Unlock()
		b.notify.Error(api.UserMessage(err, "Failed to post comment"))
		return err
	}
	b.comments = append([]domain.Comment{*comment}, b.comments...)
	b.mu.Unlock()

	if b.onAdded != nil {
		b.onAdded(*comment)
	}
	b.notify.Success("Comment posted successfully!")
	return nil
}

// ToggleLike flips the viewer's like on one comment; the affected comment is
// replaced in place with the server's copy.
func (b *CommentBox) ToggleLike(ctx context.Context, commentID string) error {
	comment, err := b.api.ToggleCommentLike(ctx, commentID)
	if err != nil {
		log.Printf("ERROR toggling comment like: %v", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.comments {
		if b.comments[i].ID == comment.ID {
			b.comments[i] = *comment
			break
		}
	}
	return nil
}

// RequestDelete arms the confirmation flow for a comment the session user
// wrote.
func (b *CommentBox) RequestDelete(commentID string) bool {
	u := b.sess.User()
	if u == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.comments {
		if c.ID == commentID && c.Author.ID == u.ID {
			b.deleteConfirm.Request(commentID)
			return true
		}
	}
	return false
}

func (b *CommentBox) CancelDelete() {
	b.deleteConfirm.Cancel()
}

func (b *CommentBox) PendingDelete() (string, bool) {
	return b.deleteConfirm.Pending()
}

// ConfirmDelete deletes the pending comment and removes it from the list
// only after the server confirms.
func (b *CommentBox) ConfirmDelete(ctx context.Context) error {
	id, ok := b.deleteConfirm.Confirm()
	if !ok {
		return ErrNoPendingDelete
	}

	if err := b.api.DeleteComment(ctx, id); err != nil {
		b.notify.Error(api.UserMessage(err, "Failed to delete comment"))
		return err
	}

	b.mu.Lock()
	kept := b.comments[:0]
	for _, c := range b.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	b.comments = kept
	b.mu.Unlock()

	b.notify.Success("Comment deleted successfully!")
	return nil
}
