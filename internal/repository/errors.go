// Package repository provides database access for users and posts on top of
// database/sql. Sentinel errors let handlers translate failures into stable
// HTTP responses without inspecting driver error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when an insert or update would duplicate an
// existing email address. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when an insert or update would duplicate an
// existing username. Handlers translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")
