// Package repository implements the persistence layer: thin data-access
// types over *sql.DB with cache-through reads for the collection endpoints
// and invalidate-on-write for every mutation. Sentinel errors let handlers
// distinguish failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when the requested entity does not exist or is
// not owned by the calling user. Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when registration collides with an
// existing username. Handlers translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")
