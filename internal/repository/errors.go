// Package repository implements the user store over database/sql. Sentinel
// errors defined here let handlers pick the user-visible outcome without
// inspecting driver-specific failures.
package repository

import "errors"

// ErrNotFound is returned when the referenced user does not exist or has
// been soft-deleted. Handlers translate it into an HTTP 404.
var ErrNotFound = errors.New("user not found")

// ErrEmailExists is returned when an insert or update would give two active
// users the same email. Soft-deleted rows do not hold an email. Handlers
// translate it into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrEmptyUpdate is returned when an update carries no fields at all.
var ErrEmptyUpdate = errors.New("no fields to update")
