package api

import (
	"context"
	"net/http"

	"github.com/vedran77/ripple/internal/domain"
)

// ProfileResponse is the combined payload for a profile view: the user
// (with their posts and follower/following sets) plus the viewer's follow
// relationship to them.
type ProfileResponse struct {
	User        domain.User `json:"user"`
	IsFollowing bool        `json:"isFollowing"`
}

type FollowResponse struct {
	IsFollowing bool        `json:"isFollowing"`
	User        domain.User `json:"user"`
}

func (c *Client) GetProfile(ctx context.Context, username string) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/profile/"+username, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetFollow follows (POST) or unfollows (DELETE) the given user. The
// returned profile is authoritative for follower/following counts.
func (c *Client) SetFollow(ctx context.Context, userID string, follow bool) (*FollowResponse, error) {
	method := http.MethodPost
	if !follow {
		method = http.MethodDelete
	}

	var resp FollowResponse
	if err := c.do(ctx, method, "/api/users/"+userID+"/follow", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
