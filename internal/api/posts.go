package api

import (
	"context"
	"net/http"

	"github.com/vedran77/ripple/internal/domain"
)

type PostDraft struct {
	Content string   `json:"content"`
	Image   string   `json:"image,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type LikeResponse struct {
	IsLiked bool        `json:"isLiked"`
	Post    domain.Post `json:"post"`
}

func (c *Client) ListPosts(ctx context.Context) ([]domain.Post, error) {
	var resp struct {
		Posts []domain.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func (c *Client) CreatePost(ctx context.Context, draft PostDraft) (*domain.Post, error) {
	var resp struct {
		Post domain.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", draft, &resp); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, draft PostDraft) (*domain.Post, error) {
	var resp struct {
		Post domain.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+id, draft, &resp); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+id, nil, nil)
}

// TogglePostLike flips the viewer's like on a post. The response carries the
// authoritative like state; callers must not count locally.
func (c *Client) TogglePostLike(ctx context.Context, id string) (*LikeResponse, error) {
	var resp LikeResponse
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+id+"/like", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
