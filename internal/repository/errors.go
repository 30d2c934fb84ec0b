// Package repository implements the ledger store: users, events and
// purchases over MySQL. Domain failures are reported through the sentinel
// errors below so handlers can map them to client-facing messages without
// inspecting driver errors.
package repository

import "errors"

// ErrUsernameTaken is returned by UserRepo.Create when the username is
// already registered. It is derived from the store's unique constraint,
// never from a prior read, so two concurrent identical registrations
// cannot both succeed.
var ErrUsernameTaken = errors.New("username already exists")

// ErrInvalidCredentials is returned by UserRepo.Authenticate when no user
// matches the supplied username and password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound is returned when a user id does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrInsufficientPoints is returned when a purchase costs more than the
// user's current balance.
var ErrInsufficientPoints = errors.New("not enough points")

// ErrRegularSoldOut and ErrVIPSoldOut are returned when the requested
// tier's inventory has reached zero.
var (
	ErrRegularSoldOut = errors.New("regular tickets sold out")
	ErrVIPSoldOut     = errors.New("vip tickets sold out")
)
