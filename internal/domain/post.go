package domain

import "time"

type Post struct {
	ID        string    `json:"_id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"_id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikedBy reports whether the given user id is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	return containsID(p.Likes, userID)
}

func (p *Post) LikeCount() int {
	return len(p.Likes)
}

func (c *Comment) LikedBy(userID string) bool {
	return containsID(c.Likes, userID)
}

func (c *Comment) LikeCount() int {
	return len(c.Likes)
}

func containsID(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
