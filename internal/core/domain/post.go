package domain

import "time"

// Post is a published blog entry. Author mutations (update, delete) are
// restricted to the user whose id is recorded in AuthorID.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	AuthorID  string    `json:"author_id"`
	Likes     int64     `json:"likes"`
	LikedBy   []string  `json:"-"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikedByUser reports whether the given user already liked the post.
func (p *Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
