package model

import "time"

// Post mirrors the `posts` table.
type Post struct {
	ID          uint64    // posts.id
	Title       string    // posts.title
	Content     string    // posts.content (empty when NULL)
	AuthorID    uint64    // posts.author_id
	IsPublished bool      // posts.is_published
	CreatedAt   time.Time // posts.created_at
	UpdatedAt   time.Time // posts.updated_at
}
