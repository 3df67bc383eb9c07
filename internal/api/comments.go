package api

import (
	"context"
	"net/http"

	"github.com/vedran77/ripple/internal/domain"
)

func (c *Client) CreateComment(ctx context.Context, postID, content string) (*domain.Comment, error) {
	in := map[string]string{"content": content}

	var resp struct {
		Comment domain.Comment `json:"comment"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/comments/post/"+postID, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Comment, nil
}

func (c *Client) ToggleCommentLike(ctx context.Context, id string) (*domain.Comment, error) {
	var resp struct {
		Comment domain.Comment `json:"comment"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/comments/"+id+"/like", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+id, nil, nil)
}
