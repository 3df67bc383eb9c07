// Package profile owns one profile view: the combined profile fetch, the
// follow relationship, profile editing, and the local tab state.
package profile

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/vedran77/ripple/internal/api"
	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/notify"
	"github.com/vedran77/ripple/internal/session"
	"github.com/vedran77/ripple/pkg/validator"
)

var ErrValidation = errors.New("validation failed")

type Tab string

const (
	TabPosts     Tab = "posts"
	TabFollowers Tab = "followers"
	TabFollowing Tab = "following"
)

type EditForm struct {
	Username       string
	Bio            string
	ProfilePicture string
}

type Controller struct {
	api    *api.Client
	sess   *session.Session
	notify notify.Notifier

	// pathUsername is the profile the view is addressed by; "" means the
	// session user's own profile.
	pathUsername string

	mu          sync.Mutex
	user        *domain.User
	posts       []domain.Post
	isFollowing bool
	loaded      bool
	tab         Tab
	form        EditForm
	fieldErrs   validator.ValidationErrors
	gen         int
}

func NewController(client *api.Client, sess *session.Session, n notify.Notifier, pathUsername string) *Controller {
	return &Controller{
		api:          client,
		sess:         sess,
		notify:       n,
		pathUsername: pathUsername,
		tab:          TabPosts,
	}
}

// IsSelf reports whether the view addresses the session user's own profile.
func (c *Controller) IsSelf() bool {
	if c.pathUsername == "" {
		return true
	}
	u := c.sess.User()
	return u != nil && u.Username == c.pathUsername
}

// Load fetches the profile, its posts, and the viewer's follow relationship
// in one combined response, and seeds the edit form from current values.
func (c *Controller) Load(ctx context.Context) error {
	target := c.pathUsername
	if target == "" {
		u := c.sess.User()
		if u == nil {
			return errors.New("no session user for self profile")
		}
		target = u.Username
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	resp, err := c.api.GetProfile(ctx, target)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.loaded = true

	if err != nil {
		if !api.NotFound(err) {
			log.Printf("ERROR fetching profile: %v", err)
		}
		return err
	}

	user := resp.User
	c.user = &user
	c.posts = user.Posts
	c.isFollowing = resp.IsFollowing
	c.form = EditForm{
		Username:       user.Username,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
	}
	return nil
}

// NotFound reports a resolved load that produced no profile.
func (c *Controller) NotFound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded && c.user == nil
}

func (c *Controller) User() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Controller) Posts() []domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

func (c *Controller) IsFollowing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isFollowing
}

// ToggleFollow follows or unfollows the profile. Both the flag and the full
// profile are replaced from the response so follower counts stay
// authoritative. Self profiles are a no-op.
func (c *Controller) ToggleFollow(ctx context.Context) error {
	if c.IsSelf() {
		return nil
	}

	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return nil
	}
	id := c.user.ID
	follow := !c.isFollowing
	gen := c.gen
	c.mu.Unlock()

	resp, err := c.api.SetFollow(ctx, id, follow)
	if err != nil {
		log.Printf("ERROR following user: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	user := resp.User
	c.isFollowing = resp.IsFollowing
	c.user = &user
	return nil
}

// UpdateProfile validates the form, then submits it. Validation failures
// block submission with an inline message and never reach the network. On a
// successful rename the returned path is the view's new address (profiles
// are keyed by username in the URL); otherwise it is "".
func (c *Controller) UpdateProfile(ctx context.Context, form EditForm) (string, error) {
	if errs := validator.ValidateProfileEdit(form.Username); errs.HasErrors() {
		c.mu.Lock()
		c.fieldErrs = errs
		c.mu.Unlock()
		return "", ErrValidation
	}

	user, err := c.api.UpdateProfile(ctx, api.ProfileUpdate{
		Username:       form.Username,
		Bio:            form.Bio,
		ProfilePicture: form.ProfilePicture,
	})
	if err != nil {
		var apiErr *api.Error
		msg := "Network error. Please try again."
		if errors.As(err, &apiErr) {
			msg = api.Message(err, "Failed to update profile")
			c.notify.Error(msg)
		}
		c.mu.Lock()
		c.fieldErrs = validator.ValidationErrors{"username": msg}
		c.mu.Unlock()
		return "", err
	}

	c.mu.Lock()
	oldUsername := ""
	if c.user != nil {
		oldUsername = c.user.Username
	}
	c.user = user
	c.fieldErrs = nil
	c.form = EditForm{
		Username:       user.Username,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
	}
	c.mu.Unlock()

	c.sess.UpdateUser(user)
	c.notify.Success("Profile updated successfully!")

	if form.Username != "" && form.Username != oldUsername {
		return "/profile/" + form.Username, nil
	}
	return "", nil
}

// FieldErrors returns inline validation/rejection messages by field.
func (c *Controller) FieldErrors() validator.ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrs
}

// Form returns the edit form pre-filled from the loaded profile.
func (c *Controller) Form() EditForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetTab switches the local view tab. Followers/following tabs are only
// offered on other users' profiles.
func (c *Controller) SetTab(tab Tab) bool {
	if tab != TabPosts && c.IsSelf() {
		return false
	}
	switch tab {
	case TabPosts, TabFollowers, TabFollowing:
	default:
		return false
	}

	c.mu.Lock()
	c.tab = tab
	c.mu.Unlock()
	return true
}

func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// ReplacePost reconciles an updated post into the profile's post list.
func (c *Controller) ReplacePost(post domain.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.posts {
		if c.posts[i].ID == post.ID {
			c.posts[i] = post
			return
		}
	}
}

// RemovePost drops one post by id (after a confirmed server-side delete).
func (c *Controller) RemovePost(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.posts[:0]
	for _, p := range c.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.posts = kept
}

// Discard drops responses still in flight for this view.
func (c *Controller) Discard() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
}
