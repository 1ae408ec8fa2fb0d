// Package event publishes lifecycle events to RabbitMQ for external
// consumers (search indexing, mail, analytics). Publishing is best-effort:
// failures are logged and never interrupt the request that triggered them.
package event

import "time"

// Queue names double as routing keys on the default exchange.
const (
	QueueUserRegistered = "user.registered"
	QueuePostCreated    = "post.created"
	QueuePostDeleted    = "post.deleted"
)

type UserRegistered struct {
	UserID     uint64    `json:"user_id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PostCreated struct {
	PostID     uint64    `json:"post_id"`
	AuthorID   uint64    `json:"author_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PostDeleted struct {
	PostID     uint64    `json:"post_id"`
	AuthorID   uint64    `json:"author_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
