package model

import "time"

// User mirrors the `users` table. The password hash never leaves the
// repository/handler layer; response DTOs are defined by the handlers.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, stored lowercase)
	Username     string    // users.username (unique)
	FullName     string    // users.full_name (empty when NULL)
	PasswordHash string    // users.password_hash (bcrypt)
	IsActive     bool      // users.is_active
	IsSuperuser  bool      // users.is_superuser
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
