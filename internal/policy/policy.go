// Package policy holds the authorization rules for mutation endpoints.
// Checks are pure functions of identity and resource; handlers translate a
// false result into HTTP 403.
package policy

import "github.com/haikudo/backend/internal/model"

// CanModifyPost reports whether u may update or delete p. Only the author
// owns a post; existence of the post is checked elsewhere.
func CanModifyPost(u *model.User, p *model.Post) bool {
	return u != nil && p != nil && p.AuthorID == u.ID
}

// IsAdmin reports whether u may perform administrative operations.
func IsAdmin(u *model.User) bool {
	return u != nil && u.IsSuperuser
}
