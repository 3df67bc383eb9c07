package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/notify"
)

func TestSubmitBlocksEmptyContent(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/comments/post/{postId}", func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("empty comment must never issue a request")
	})

	_, client, sess, _ := newFixture(t, r)
	box := NewCommentBox(client, sess, notify.Nop{}, "p1", nil, nil)

	require.NoError(t, box.Submit(context.Background(), "   \n\t"))
	assert.Empty(t, box.Comments())
}

func TestSubmitPrependsNewestFirst(t *testing.T) {
	var seq atomic.Int64

	r := chi.NewRouter()
	r.Post("/api/comments/post/{postId}", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		n := seq.Add(1)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"comment":{"_id":"c%d","author":{"_id":"u1","username":"alice"},"content":%q,"likes":[],"createdAt":"2026-01-01T10:0%d:00Z"}}`, n, in.Content, n)
	})

	var added []domain.Comment
	rec := &notify.Recorder{}
	_, client, sess, _ := newFixture(t, r)
	box := NewCommentBox(client, sess, rec, "p1", nil, func(c domain.Comment) {
		added = append(added, c)
	})

	require.NoError(t, box.Submit(context.Background(), "first comment"))
	require.NoError(t, box.Submit(context.Background(), "  second comment  "))

	comments := box.Comments()
	require.Len(t, comments, 2)
	// Newest first.
	assert.Equal(t, "second comment", comments[0].Content)
	assert.Equal(t, "first comment", comments[1].Content)

	require.Len(t, added, 2)
	assert.Equal(t, "c1", added[0].ID)
	assert.Contains(t, rec.Successes, "Comment posted successfully!")
}

func TestSubmitRejectionSurfacesMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/comments/post/{postId}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Comment too long"}`))
	})

	rec := &notify.Recorder{}
	_, client, sess, _ := newFixture(t, r)
	box := NewCommentBox(client, sess, rec, "p1", nil, nil)

	require.Error(t, box.Submit(context.Background(), "way too long"))
	assert.Empty(t, box.Comments())
	assert.Contains(t, rec.Errors, "Comment too long")
}

func TestToggleLikeReplacesSingleComment(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/comments/{id}/like", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "c2", chi.URLParam(req, "id"))
		w.Write([]byte(`{"comment":{"_id":"c2","author":{"_id":"u2","username":"bob"},"content":"second","likes":["u1","u2"],"createdAt":"2026-01-01T10:00:00Z"}}`))
	})

	initial := []domain.Comment{
		{ID: "c1", Content: "first", Likes: []string{"u9"}},
		{ID: "c2", Content: "second"},
	}
	_, client, sess, _ := newFixture(t, r)
	box := NewCommentBox(client, sess, notify.Nop{}, "p1", initial, nil)

	require.NoError(t, box.ToggleLike(context.Background(), "c2"))

	comments := box.Comments()
	assert.Equal(t, []string{"u9"}, comments[0].Likes)
	assert.Equal(t, 2, comments[1].LikeCount())
}

func TestCommentDeleteAuthorOnly(t *testing.T) {
	initial := []domain.Comment{
		{ID: "c1", Author: domain.User{ID: "u1"}, Content: "mine"},
		{ID: "c2", Author: domain.User{ID: "u2"}, Content: "theirs"},
	}

	_, client, sess, _ := newFixture(t, chi.NewRouter())
	box := NewCommentBox(client, sess, notify.Nop{}, "p1", initial, nil)

	assert.True(t, box.RequestDelete("c1"))
	box.CancelDelete()
	assert.False(t, box.RequestDelete("c2"))
	assert.False(t, box.RequestDelete("missing"))
}

func TestConfirmCommentDeleteRemovesById(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/comments/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "c1", chi.URLParam(req, "id"))
		w.Write([]byte(`{"message":"deleted"}`))
	})

	initial := []domain.Comment{
		{ID: "c1", Author: domain.User{ID: "u1"}, Content: "mine"},
		{ID: "c2", Author: domain.User{ID: "u2"}, Content: "theirs"},
	}
	rec := &notify.Recorder{}
	_, client, sess, _ := newFixture(t, r)
	box := NewCommentBox(client, sess, rec, "p1", initial, nil)

	require.True(t, box.RequestDelete("c1"))
	require.NoError(t, box.ConfirmDelete(context.Background()))

	comments := box.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "c2", comments[0].ID)
	assert.Contains(t, rec.Successes, "Comment deleted successfully!")
}

func TestConfirmCommentDeleteKeptOnRejection(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/comments/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Not your comment"}`))
	})

	initial := []domain.Comment{{ID: "c1", Author: domain.User{ID: "u1"}}}
	rec := &notify.Recorder{}
	_, client, sess, _ := newFixture(t, r)
	box := NewCommentBox(client, sess, rec, "p1", initial, nil)

	require.True(t, box.RequestDelete("c1"))
	require.Error(t, box.ConfirmDelete(context.Background()))

	assert.Len(t, box.Comments(), 1)
	assert.Contains(t, rec.Errors, "Not your comment")
}
