package domain

import "time"

// Field names follow the backend's wire format; IDs are opaque server strings.
type User struct {
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Followers      []User    `json:"followers,omitempty"`
	Following      []User    `json:"following,omitempty"`
	// Only present on profile payloads
	Posts     []Post    `json:"posts,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
